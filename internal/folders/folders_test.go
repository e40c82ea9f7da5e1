package folders

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/memhunter/memhuntertest"
	"github.com/memoryhunter/hunter/internal/notify"
)

const waitFor = 2 * time.Second

type recorder struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (r *recorder) Notify(n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Key)
	}
	return out
}

func (r *recorder) last() notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notices[len(r.notices)-1]
}

func setup(t *testing.T) (*Controller, *memhuntertest.Server, *recorder, *clockwork.FakeClock) {
	t.Helper()
	srv := memhuntertest.New(t)
	rec := &recorder{}
	clk := clockwork.NewFakeClock()
	c := New(srv.Client(t), Options{Clock: clk, Notifier: rec})
	t.Cleanup(c.Close)
	return c, srv, rec, clk
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitFor):
		t.Fatal("watch did not stop")
	}
}

func TestCreate_RoundTripReloadsList(t *testing.T) {
	c, _, rec, _ := setup(t)
	ctx := context.Background()

	folder, err := c.Create(ctx, "/data/photos/2024", "")
	require.NoError(t, err)
	assert.Equal(t, memhunter.FolderPending, folder.Status)

	v := c.View()
	require.True(t, v.Loaded)
	require.Len(t, v.Folders, 1)
	got, ok := v.Find(folder.ID)
	require.True(t, ok)
	assert.Equal(t, "/data/photos/2024", got.Path)
	assert.Equal(t, "2024", got.Name)
	assert.Equal(t, memhunter.FolderPending, got.Status)

	n := rec.last()
	assert.Equal(t, "folders.added", n.Key)
	assert.Equal(t, []any{"2024"}, n.Args)
}

func TestCreate_DuplicateSurfacesDetail(t *testing.T) {
	c, _, rec, _ := setup(t)
	ctx := context.Background()

	_, err := c.Create(ctx, "/data/a", "a")
	require.NoError(t, err)
	_, err = c.Create(ctx, "/data/a", "a")
	require.Error(t, err)

	n := rec.last()
	assert.Equal(t, "folders.add_failed", n.Key)
	assert.Equal(t, "文件夹已存在: /data/a", n.Detail)
	assert.Len(t, c.View().Folders, 1)
}

func TestRemoveAndScan(t *testing.T) {
	c, srv, rec, _ := setup(t)
	ctx := context.Background()

	folder, err := c.Create(ctx, "/data/a", "a")
	require.NoError(t, err)
	srv.SetFolderImages(folder.ID, 12)

	res, err := c.Scan(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, res.ValidImages)
	assert.Equal(t, "folders.scanned", rec.last().Key)
	scanned, _ := c.View().Find(folder.ID)
	assert.False(t, scanned.ParsedLastScan().IsZero())

	require.NoError(t, c.Remove(ctx, folder.ID, false))
	assert.Equal(t, "folders.removed", rec.last().Key)
	assert.Empty(t, c.View().Folders)

	require.Error(t, c.Remove(ctx, folder.ID, false))
	assert.Equal(t, "folders.remove_failed", rec.last().Key)
}

func TestIndex_WatchStopsWhenFolderLeavesIndexing(t *testing.T) {
	c, srv, rec, clk := setup(t)
	ctx := context.Background()

	folder, err := c.Create(ctx, "/data/a", "a")
	require.NoError(t, err)

	require.NoError(t, c.Index(ctx, folder.ID, true))
	assert.True(t, c.View().Watching[folder.ID])
	assert.Contains(t, rec.keys(), "folders.index_started")
	done := c.WatchDone(folder.ID)

	clk.Advance(3 * time.Second)
	require.Eventually(t, func() bool {
		f, _ := c.View().Find(folder.ID)
		return f.Status == memhunter.FolderIndexing
	}, waitFor, 5*time.Millisecond)
	assert.True(t, c.View().Watching[folder.ID])

	srv.SetFolderStatus(folder.ID, memhunter.FolderActive)
	clk.Advance(3 * time.Second)
	waitDone(t, done)

	assert.False(t, c.View().Watching[folder.ID])
	assert.Equal(t, "folders.index_done", rec.last().Key)
}

func TestIndex_WatchStopsWhenFolderDisappears(t *testing.T) {
	c, srv, rec, clk := setup(t)
	ctx := context.Background()

	folder, err := c.Create(ctx, "/data/a", "a")
	require.NoError(t, err)
	require.NoError(t, c.Index(ctx, folder.ID, false))
	done := c.WatchDone(folder.ID)

	srv.RemoveFolder(folder.ID)
	clk.Advance(3 * time.Second)
	waitDone(t, done)

	assert.False(t, c.View().Watching[folder.ID])
	assert.NotEqual(t, "folders.index_done", rec.last().Key)
}

func TestIndex_ReindexReplacesWatch(t *testing.T) {
	c, _, _, _ := setup(t)
	ctx := context.Background()

	folder, err := c.Create(ctx, "/data/a", "a")
	require.NoError(t, err)
	require.NoError(t, c.Index(ctx, folder.ID, false))
	first := c.WatchDone(folder.ID)

	require.NoError(t, c.Index(ctx, folder.ID, true))
	waitDone(t, first)
	assert.True(t, c.View().Watching[folder.ID])
}

func TestClose_CancelsAllWatches(t *testing.T) {
	c, srv, _, clk := setup(t)
	ctx := context.Background()

	a, err := c.Create(ctx, "/data/a", "a")
	require.NoError(t, err)
	b, err := c.Create(ctx, "/data/b", "b")
	require.NoError(t, err)
	require.NoError(t, c.Index(ctx, a.ID, false))
	require.NoError(t, c.Index(ctx, b.ID, false))
	doneA, doneB := c.WatchDone(a.ID), c.WatchDone(b.ID)

	c.Close()
	waitDone(t, doneA)
	waitDone(t, doneB)
	assert.Empty(t, c.View().Watching)

	before := srv.Requests("GET /api/folders")
	clk.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, srv.Requests("GET /api/folders"))
}

func TestIndex_FailureCreatesNoWatch(t *testing.T) {
	c, srv, rec, _ := setup(t)
	srv.Fail("POST /api/folders/nope/index", http.StatusNotFound, "文件夹不存在: nope")

	require.Error(t, c.Index(context.Background(), "nope", false))
	assert.Empty(t, c.View().Watching)
	n := rec.last()
	assert.Equal(t, "folders.index_failed", n.Key)
	assert.Equal(t, "文件夹不存在: nope", n.Detail)
}

func TestLoad_FailureKeepsList(t *testing.T) {
	c, srv, rec, _ := setup(t)
	ctx := context.Background()
	_, err := c.Create(ctx, "/data/a", "a")
	require.NoError(t, err)

	srv.Fail("GET /api/folders", http.StatusInternalServerError, "")
	_, err = c.Load(ctx)
	require.Error(t, err)

	v := c.View()
	assert.Len(t, v.Folders, 1)
	assert.Error(t, v.LoadErr)
	n := rec.last()
	assert.Equal(t, "folders.load_failed", n.Key)
	assert.True(t, n.Generic)
	assert.Equal(t, http.StatusInternalServerError, n.Status)
}
