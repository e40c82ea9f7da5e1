package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/memhunter/memhuntertest"
)

var background = color.RGBA{R: 10, G: 20, B: 30, A: 255}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, background)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func catResult() memhunter.SearchResult {
	return memhunter.SearchResult{
		Path:     "/app/photos/pets/cat.png",
		Filename: "cat.png",
		Score:    0.91,
		Objects:  json.RawMessage(`"[{\"label\":\"cat\",\"score\":0.9,\"box\":[40,30,100,90]}]"`),
	}
}

func TestParseObjects(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		status ParseStatus
		count  int
	}{
		{"missing", ``, Empty, 0},
		{"null", `null`, Empty, 0},
		{"empty string list", `"[]"`, Empty, 0},
		{"blank string", `""`, Empty, 0},
		{"encoded string", `"[{\"label\":\"dog\",\"score\":0.5,\"box\":[0,0,10,10]}]"`, Detected, 1},
		{"plain array", `[{"label":"a","score":1,"box":[0,0,1,1]},{"label":"b","score":1,"box":[1,1,2,2]}]`, Detected, 2},
		{"broken string", `"[{\"label\":"`, Malformed, 0},
		{"object not list", `{"label":"x"}`, Malformed, 0},
		{"empty box", `[{"label":"a","score":1,"box":[5,5,5,9]}]`, Detected, 1},
		{"no label", `[{"label":"","score":1,"box":[0,0,1,1]}]`, Detected, 1},
		{"good and zero width", `[{"label":"dog","box":[10,10,50,50]},{"label":"cat","box":[60,60,60,80]}]`, Detected, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseObjects(json.RawMessage(tc.raw))
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.count, got.Count())
			if tc.status == Malformed {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func newViewer(t *testing.T) (*Viewer, *memhuntertest.Server) {
	t.Helper()
	srv := memhuntertest.New(t)
	srv.SetPhoto("pets/cat.png", pngBytes(t, 160, 120))
	return New(srv.Client(t)), srv
}

func TestViewer_OpenLoadHoverClose(t *testing.T) {
	v, _ := newViewer(t)

	gen := v.Open(catResult())
	view := v.View()
	require.True(t, view.Open)
	assert.False(t, view.Loaded(), "canvas must stay blank until decode finishes")
	assert.Equal(t, Detected, view.Parse.Status)
	assert.Equal(t, NoHighlight, view.Highlight)

	require.NoError(t, v.Load(context.Background(), gen))
	view = v.View()
	require.True(t, view.Loaded())
	assert.Equal(t, image.Rect(0, 0, 160, 120), view.Canvas.Bounds())
	assert.Equal(t, background, view.Canvas.At(40, 30))

	require.True(t, v.Hover(0))
	view = v.View()
	assert.Equal(t, 0, view.Highlight)
	assert.Equal(t, highlightColor, view.Canvas.At(41, 60), "left edge of box is stroked")
	assert.Equal(t, highlightColor, view.Canvas.At(99, 60), "right edge of box is stroked")
	assert.Equal(t, background, view.Canvas.At(70, 60), "box interior is untouched")

	assert.False(t, v.Hover(5))

	v.Unhover()
	view = v.View()
	assert.Equal(t, NoHighlight, view.Highlight)
	assert.Equal(t, background, view.Canvas.At(41, 60))

	v.Close()
	view = v.View()
	assert.False(t, view.Open)
	assert.Nil(t, view.Canvas)
	assert.Empty(t, view.Parse.Objects)
	assert.Nil(t, v.Thumbnail(10, 10))
}

func TestViewer_ZeroAreaBoxKeepsOtherTags(t *testing.T) {
	v, _ := newViewer(t)
	result := catResult()
	result.Objects = json.RawMessage(`"[{\"label\":\"cat\",\"score\":0.9,\"box\":[40,30,100,90]},{\"label\":\"edge\",\"score\":0.4,\"box\":[160,10,160,50]}]"`)

	gen := v.Open(result)
	require.NoError(t, v.Load(context.Background(), gen))
	require.Equal(t, Detected, v.View().Parse.Status)
	require.Equal(t, 2, v.View().Parse.Count())

	require.True(t, v.Hover(0))
	assert.Equal(t, highlightColor, v.View().Canvas.At(41, 60))

	require.True(t, v.Hover(1))
	view := v.View()
	assert.Equal(t, 1, view.Highlight)
	assert.Equal(t, background, view.Canvas.At(41, 60), "previous box is cleared")
	assert.Equal(t, background, view.Canvas.At(159, 30), "zero-width box draws nothing")
}

func TestViewer_ReopenIsIdempotent(t *testing.T) {
	v, _ := newViewer(t)

	gen := v.Open(catResult())
	require.NoError(t, v.Load(context.Background(), gen))
	v.Hover(0)
	v.Close()

	gen = v.Open(catResult())
	first := v.View()
	assert.Equal(t, NoHighlight, first.Highlight)
	assert.False(t, first.Loaded())
	require.NoError(t, v.Load(context.Background(), gen))

	second := v.View()
	assert.Equal(t, 1, second.Parse.Count())
	assert.Equal(t, background, second.Canvas.At(41, 60))
}

type gatedFetcher struct {
	inner   Fetcher
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedFetcher) FetchPhoto(ctx context.Context, path string) ([]byte, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.inner.FetchPhoto(ctx, path)
}

func TestViewer_LoadAfterCloseIsNoop(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetPhoto("pets/cat.png", pngBytes(t, 16, 16))
	fetch := &gatedFetcher{inner: srv.Client(t), entered: make(chan struct{}), release: make(chan struct{})}
	v := New(fetch)

	gen := v.Open(catResult())
	errc := make(chan error, 1)
	go func() { errc <- v.Load(context.Background(), gen) }()

	<-fetch.entered
	v.Close()
	close(fetch.release)

	require.NoError(t, <-errc)
	view := v.View()
	assert.False(t, view.Open)
	assert.Nil(t, view.Canvas)
}

func TestViewer_StaleGenerationIgnored(t *testing.T) {
	v, _ := newViewer(t)

	old := v.Open(catResult())
	other := catResult()
	other.Objects = nil
	v.Open(other)

	require.NoError(t, v.Load(context.Background(), old))
	assert.False(t, v.View().Loaded())
	assert.Equal(t, Empty, v.View().Parse.Status)
}

func TestViewer_MalformedObjectsRenderNoTags(t *testing.T) {
	v, _ := newViewer(t)
	res := catResult()
	res.Objects = json.RawMessage(`"not json"`)

	gen := v.Open(res)
	require.NoError(t, v.Load(context.Background(), gen))

	view := v.View()
	assert.Equal(t, Malformed, view.Parse.Status)
	assert.Empty(t, view.Parse.Objects)
	assert.False(t, v.Hover(0))
	assert.True(t, view.Loaded())
}

func TestViewer_LoadFailureIsRecorded(t *testing.T) {
	v, _ := newViewer(t)
	res := catResult()
	res.Path = "/app/photos/missing.png"

	gen := v.Open(res)
	err := v.Load(context.Background(), gen)
	require.Error(t, err)
	assert.Equal(t, 404, memhunter.StatusCode(err))
	assert.Error(t, v.View().LoadErr)
}

func TestChipRect_ClampedInsideCanvas(t *testing.T) {
	bounds := image.Rect(0, 0, 120, 80)

	chip := chipRect(image.Pt(10, 40), "cat 90%", bounds)
	assert.Equal(t, 40, chip.Max.Y, "chip sits directly above the anchor")
	assert.Equal(t, 10, chip.Min.X)

	top := chipRect(image.Pt(5, 2), "cat 90%", bounds)
	assert.Equal(t, 0, top.Min.Y)

	right := chipRect(image.Pt(118, 40), "a very long label", bounds)
	assert.Equal(t, 120, right.Max.X)
	assert.True(t, right.In(bounds))
}

func TestThumbnail_KeepsAspect(t *testing.T) {
	v, _ := newViewer(t)
	gen := v.Open(catResult())
	require.NoError(t, v.Load(context.Background(), gen))

	thumb := v.Thumbnail(40, 40)
	require.NotNil(t, thumb)
	assert.Equal(t, 40, thumb.Bounds().Dx())
	assert.Equal(t, 30, thumb.Bounds().Dy())
}
