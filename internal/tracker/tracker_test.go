package tracker

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
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

func TestStart_FailureShowsDetailAndCreatesNoLoop(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.Fail("POST /api/index", http.StatusInternalServerError, "disk full")
	rec := &recorder{}
	clk := clockwork.NewFakeClock()
	tr := New(srv.Client(t), Options{Clock: clk, Notifier: rec})
	t.Cleanup(tr.Close)

	err := tr.Start(context.Background())
	require.Error(t, err)

	v := tr.View()
	assert.Equal(t, Idle, v.State)
	assert.True(t, v.ControlEnabled)

	n := rec.last()
	assert.Equal(t, notify.Error, n.Level)
	assert.Equal(t, "index.start_failed", n.Key)
	assert.Equal(t, "disk full", n.Detail)

	clk.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, srv.Requests("GET /api/index/status"))
}

func TestStart_PollsProgressUntilDone(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetIndexSteps(
		memhunter.IndexingStatus{IsIndexing: true, Progress: 3, Total: 9, Message: "索引中"},
		memhunter.IndexingStatus{IsIndexing: true, Progress: 7, Total: 9, Message: "索引中"},
		memhunter.IndexingStatus{Message: "索引完成"},
	)
	rec := &recorder{}
	clk := clockwork.NewFakeClock()
	var refreshed atomic.Int32
	tr := New(srv.Client(t), Options{
		Clock:      clk,
		Notifier:   rec,
		OnComplete: func(context.Context) { refreshed.Add(1) },
	})
	t.Cleanup(tr.Close)

	require.NoError(t, tr.Start(context.Background()))
	v := tr.View()
	assert.Equal(t, Polling, v.State)
	assert.False(t, v.ControlEnabled)
	assert.Equal(t, []string{"index.started"}, rec.keys())

	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return tr.View().Progress == 3 }, waitFor, 5*time.Millisecond)
	v = tr.View()
	assert.Equal(t, "3/9", v.ProgressText())
	assert.False(t, v.ControlEnabled)

	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return tr.View().Progress == 7 }, waitFor, 5*time.Millisecond)

	done := tr.Done()
	clk.Advance(time.Second)
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("poll loop did not stop after the job finished")
	}

	v = tr.View()
	assert.Equal(t, Idle, v.State)
	assert.True(t, v.ControlEnabled)
	assert.Equal(t, int32(1), refreshed.Load())

	n := rec.last()
	assert.Equal(t, "index.completed", n.Key)
	assert.Equal(t, "索引完成", n.Detail)

	clk.Advance(3 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, srv.Requests("GET /api/index/status"))
}

func TestPollFailureReturnsToIdleWithoutRetry(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetIndexSteps(memhunter.IndexingStatus{IsIndexing: true, Progress: 1, Total: 4})
	rec := &recorder{}
	clk := clockwork.NewFakeClock()
	tr := New(srv.Client(t), Options{Clock: clk, Notifier: rec})
	t.Cleanup(tr.Close)

	require.NoError(t, tr.Start(context.Background()))
	srv.Fail("GET /api/index/status", http.StatusBadGateway, "")

	done := tr.Done()
	clk.Advance(time.Second)
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("poll loop kept running after a failed poll")
	}

	v := tr.View()
	assert.Equal(t, Idle, v.State)
	assert.True(t, v.ControlEnabled)
	assert.Equal(t, "index.poll_failed", rec.last().Key)
	require.Error(t, v.Err)
	assert.Equal(t, http.StatusBadGateway, memhunter.StatusCode(v.Err))

	clk.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, srv.Requests("GET /api/index/status"))
}

func TestStart_CancelsPreviousLoop(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetIndexSteps(memhunter.IndexingStatus{IsIndexing: true, Progress: 1, Total: 4})
	clk := clockwork.NewFakeClock()
	tr := New(srv.Client(t), Options{Clock: clk})
	t.Cleanup(tr.Close)

	require.NoError(t, tr.Start(context.Background()))
	first := tr.Done()

	// The fake rejects a second start while a job is running.
	srv.SetIndexSteps(memhunter.IndexingStatus{Message: "就绪"})
	require.NoError(t, tr.Start(context.Background()))

	select {
	case <-first:
	case <-time.After(waitFor):
		t.Fatal("first loop still running after a second Start")
	}
	assert.Equal(t, Polling, tr.View().State)
}

func TestClose_StopsPollingWithinOneCycle(t *testing.T) {
	srv := memhuntertest.New(t)
	srv.SetIndexSteps(memhunter.IndexingStatus{IsIndexing: true, Progress: 1, Total: 4})
	clk := clockwork.NewFakeClock()
	tr := New(srv.Client(t), Options{Clock: clk})

	require.NoError(t, tr.Start(context.Background()))
	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return tr.View().Progress == 1 }, waitFor, 5*time.Millisecond)

	done := tr.Done()
	tr.Close()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("loop still running after Close")
	}

	before := srv.Requests("GET /api/index/status")
	clk.Advance(3 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, srv.Requests("GET /api/index/status"))
	assert.Equal(t, Idle, tr.View().State)
}
