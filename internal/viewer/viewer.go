// Package viewer implements the result detail modal: it decodes the photo,
// lists its detections and redraws the highlight for the hovered one.
package viewer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	// Decoders for the formats the backend indexes.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

// Fetcher downloads a result's image bytes.
type Fetcher interface {
	FetchPhoto(ctx context.Context, serverPath string) ([]byte, error)
}

// NoHighlight is the Highlight value when no tag is hovered.
const NoHighlight = -1

// View is a snapshot of the modal.
type View struct {
	Open      bool
	Result    memhunter.SearchResult
	Parse     ParseResult
	Highlight int
	// Canvas is nil until the image has been decoded.
	Canvas  image.Image
	LoadErr error
}

// Loaded reports whether the image is ready to draw.
func (v View) Loaded() bool {
	return v.Canvas != nil
}

// Viewer is the modal's state. Every Open bumps a generation counter; a decode
// that finishes for an older generation is dropped.
type Viewer struct {
	fetcher Fetcher
	log     logrus.FieldLogger

	mu        sync.Mutex
	gen       uint64
	open      bool
	result    memhunter.SearchResult
	parse     ParseResult
	base      image.Image
	canvas    *image.RGBA
	highlight int
	loadErr   error
}

// New returns a closed viewer.
func New(fetcher Fetcher) *Viewer {
	return &Viewer{
		fetcher:   fetcher,
		log:       logrus.WithField("component", "viewer"),
		highlight: NoHighlight,
	}
}

// Open shows result with a blank canvas and returns the generation to pass to
// Load. State from any earlier result is discarded.
func (v *Viewer) Open(result memhunter.SearchResult) uint64 {
	parse := ParseObjects(result.Objects)
	if parse.Status == Malformed {
		v.log.WithFields(logrus.Fields{
			"path":   result.Path,
			"reason": parse.Reason,
		}).Warn("ignoring malformed detections")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.open = true
	v.result = result
	v.parse = parse
	v.base = nil
	v.canvas = nil
	v.highlight = NoHighlight
	v.loadErr = nil
	return v.gen
}

// Load fetches and decodes the image for generation gen. If the modal was
// closed or reopened meanwhile the result is discarded and Load returns nil.
func (v *Viewer) Load(ctx context.Context, gen uint64) error {
	v.mu.Lock()
	if gen != v.gen || !v.open {
		v.mu.Unlock()
		return nil
	}
	path := v.result.Path
	v.mu.Unlock()

	img, err := v.decode(ctx, path)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen || !v.open {
		return nil
	}
	if err != nil {
		v.loadErr = err
		v.log.WithError(err).WithField("path", path).Warn("photo load failed")
		return err
	}
	v.base = img
	v.canvas = render(img, v.highlighted())
	return nil
}

func (v *Viewer) decode(ctx context.Context, path string) (image.Image, error) {
	data, err := v.fetcher.FetchPhoto(ctx, path)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	v.log.WithFields(logrus.Fields{"path": path, "format": format}).Debug("photo decoded")
	return img, nil
}

// Hover highlights detection i with a full redraw. It reports false when i is
// out of range or the modal is closed.
func (v *Viewer) Hover(i int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.open || i < 0 || i >= len(v.parse.Objects) {
		return false
	}
	v.highlight = i
	if v.base != nil {
		v.canvas = render(v.base, v.highlighted())
	}
	return true
}

// Unhover redraws the base image without any overlay.
func (v *Viewer) Unhover() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.highlight = NoHighlight
	if v.base != nil {
		v.canvas = render(v.base, nil)
	}
}

// Close clears every piece of per-result state.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.open = false
	v.result = memhunter.SearchResult{}
	v.parse = ParseResult{}
	v.base = nil
	v.canvas = nil
	v.highlight = NoHighlight
	v.loadErr = nil
}

// View returns the current modal state.
func (v *Viewer) View() View {
	v.mu.Lock()
	defer v.mu.Unlock()
	view := View{
		Open:      v.open,
		Result:    v.result,
		Parse:     v.parse,
		Highlight: v.highlight,
		LoadErr:   v.loadErr,
	}
	if v.canvas != nil {
		view.Canvas = v.canvas
	}
	return view
}

// Thumbnail returns the canvas scaled to fit w×h, or nil before the image has
// loaded.
func (v *Viewer) Thumbnail(w, h int) image.Image {
	v.mu.Lock()
	canvas := v.canvas
	v.mu.Unlock()
	if canvas == nil {
		return nil
	}
	return scaleToFit(canvas, w, h)
}

func (v *Viewer) highlighted() *memhunter.DetectedObject {
	if v.highlight < 0 || v.highlight >= len(v.parse.Objects) {
		return nil
	}
	obj := v.parse.Objects[v.highlight]
	return &obj
}
