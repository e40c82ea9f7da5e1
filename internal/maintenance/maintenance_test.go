package maintenance

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/memhunter/memhuntertest"
	"github.com/memoryhunter/hunter/internal/notify"
	"github.com/memoryhunter/hunter/internal/state"
)

type recorder struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (r *recorder) Notify(n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) last() notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notices[len(r.notices)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

func deletedFiles(n int) []memhunter.DeletedFile {
	files := make([]memhunter.DeletedFile, n)
	for i := range files {
		name := fmt.Sprintf("img_%02d.jpg", i)
		files[i] = memhunter.DeletedFile{ID: fmt.Sprint(i), Path: "/app/photos/old/" + name, Filename: name}
	}
	return files
}

func TestRateTone(t *testing.T) {
	cases := []struct {
		rate float64
		want state.Tone
	}{
		{0, state.ToneSuccess},
		{5, state.ToneSuccess},
		{5.01, state.ToneWarning},
		{20, state.ToneWarning},
		{20.5, state.ToneDanger},
		{100, state.ToneDanger},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RateTone(tc.rate), "rate %v", tc.rate)
	}
}

func TestHealthCheck_TonedByDeletionRate(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetHealth(memhunter.HealthReport{
		TotalRecords:    100,
		ValidFiles:      70,
		DeletedFiles:    30,
		DeletionRate:    30,
		Recommendations: []string{"建议执行清理操作"},
	})
	rec := &recorder{}
	c := New(srv.Client(t), Options{Notifier: rec})

	health, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, state.ToneDanger, health.Tone)
	assert.Equal(t, 30, health.Report.DeletedFiles)
	assert.Equal(t, "maint.health_done", rec.last().Key)

	v := c.View()
	require.NotNil(t, v.Health)
	assert.Empty(t, v.Busy)
}

func TestPreviewCleanup_ListsFirstTen(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetDeletedFiles(deletedFiles(13)...)
	rec := &recorder{}
	c := New(srv.Client(t), Options{Notifier: rec})

	preview, err := c.PreviewCleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 13, preview.Found)
	assert.Len(t, preview.Files, PreviewLimit)
	assert.Equal(t, 3, preview.More)
	assert.Equal(t, "img_00.jpg", preview.Files[0].Filename)

	n := rec.last()
	assert.Equal(t, "maint.preview_found", n.Key)
	assert.Equal(t, []any{13}, n.Args)

	// A preview never removes anything.
	again, err := c.PreviewCleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 13, again.Found)
}

func TestPreviewCleanup_NothingFound(t *testing.T) {
	srv := memhuntertest.New(t)
	rec := &recorder{}
	c := New(srv.Client(t), Options{Notifier: rec})

	preview, err := c.PreviewCleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, preview.Found)
	assert.Equal(t, 0, preview.More)
	assert.Equal(t, 0, rec.count())
}

func TestApplyCleanup_RequiresConfirmation(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetDeletedFiles(deletedFiles(2)...)
	c := New(srv.Client(t), Options{})

	_, err := c.ApplyCleanup(context.Background(), false)
	require.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Equal(t, 0, srv.TotalRequests())

	_, err = c.Optimize(context.Background(), false)
	require.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Equal(t, 0, srv.TotalRequests())
}

func TestApplyCleanup_RefreshesStats(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetDeletedFiles(deletedFiles(4)...)
	rec := &recorder{}
	var refreshed atomic.Int32
	c := New(srv.Client(t), Options{
		Notifier:  rec,
		OnCleaned: func(context.Context) { refreshed.Add(1) },
	})

	cleaned, err := c.ApplyCleanup(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 4, cleaned)
	assert.Equal(t, int32(1), refreshed.Load())

	n := rec.last()
	assert.Equal(t, "maint.cleaned", n.Key)
	assert.Equal(t, []any{4}, n.Args)

	v := c.View()
	assert.True(t, v.HasClean)
	assert.Equal(t, 4, v.Cleaned)

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DeletedFilesCount)
	assert.Equal(t, "healthy", stats.DatabaseHealth)
}

func TestApplyCleanup_FailureSkipsRefresh(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.Fail("POST /api/maintenance/cleanup", http.StatusInternalServerError, "database locked")
	rec := &recorder{}
	var refreshed atomic.Int32
	c := New(srv.Client(t), Options{
		Notifier:  rec,
		OnCleaned: func(context.Context) { refreshed.Add(1) },
	})

	_, err := c.ApplyCleanup(context.Background(), true)
	require.Error(t, err)
	assert.Equal(t, int32(0), refreshed.Load())
	n := rec.last()
	assert.Equal(t, "maint.cleanup_failed", n.Key)
	assert.Equal(t, "database locked", n.Detail)
}

func TestOptimize_ShowsBackendMessage(t *testing.T) {
	srv := memhuntertest.New(t)
	rec := &recorder{}
	c := New(srv.Client(t), Options{Notifier: rec})

	msg, err := c.Optimize(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "数据库优化任务已启动", msg)
	assert.Equal(t, []any{"数据库优化任务已启动"}, rec.last().Args)
}

func TestStats_NeedsAttention(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetDeletedFiles(deletedFiles(1)...)
	c := New(srv.Client(t), Options{})

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "needs_attention", stats.DatabaseHealth)
	assert.Equal(t, state.ToneWarning, c.View().StatsTone)
}
