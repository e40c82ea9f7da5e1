// Package tracker follows a global index job from start to completion.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/jobs"
	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/notify"
)

// State is the tracker's lifecycle position.
type State int

const (
	Idle State = iota
	Starting
	Polling
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Polling:
		return "polling"
	default:
		return "idle"
	}
}

const defaultInterval = time.Second

// Client is the part of the API the tracker drives.
type Client interface {
	StartIndex(ctx context.Context) (*memhunter.Accepted, error)
	IndexStatus(ctx context.Context) (*memhunter.IndexingStatus, error)
}

// Options configure a Tracker. Zero values fall back to a real clock, a 1s
// interval and no-op hooks.
type Options struct {
	Clock    clockwork.Clock
	Interval time.Duration
	Notifier notify.Notifier
	// OnComplete runs after a job finishes, before the completion notice.
	OnComplete func(ctx context.Context)
	// OnChange receives every view transition.
	OnChange func(View)
}

// View is what the index control renders.
type View struct {
	State          State
	ControlEnabled bool
	Progress       int
	Total          int
	// Message is the backend's last status message.
	Message string
	// Err is set when the last run ended on a failed status poll.
	Err error
}

// ProgressText formats progress as "p/t".
func (v View) ProgressText() string {
	return memhunter.IndexingStatus{Progress: v.Progress, Total: v.Total}.ProgressText()
}

// Fraction is the completed share in [0,1].
func (v View) Fraction() float64 {
	return memhunter.IndexingStatus{Progress: v.Progress, Total: v.Total}.Fraction()
}

// Tracker owns at most one poll loop.
type Tracker struct {
	client     Client
	clock      clockwork.Clock
	interval   time.Duration
	notifier   notify.Notifier
	onComplete func(ctx context.Context)
	onChange   func(View)
	log        logrus.FieldLogger

	mu     sync.Mutex
	view   View
	run    uint64
	handle *jobs.Handle
}

// New returns an idle tracker.
func New(client Client, opts Options) *Tracker {
	t := &Tracker{
		client:     client,
		clock:      opts.Clock,
		interval:   opts.Interval,
		notifier:   opts.Notifier,
		onComplete: opts.OnComplete,
		onChange:   opts.OnChange,
		log:        logrus.WithField("component", "tracker"),
		view:       View{State: Idle, ControlEnabled: true},
	}
	if t.clock == nil {
		t.clock = clockwork.NewRealClock()
	}
	if t.interval <= 0 {
		t.interval = defaultInterval
	}
	return t
}

// View returns the current view.
func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Start requests a new index job and, when the backend accepts it, polls its
// status until it finishes. Any loop from an earlier Start is cancelled first.
// The returned error is the start request's failure, already reported through
// the notifier.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	t.handle.Cancel()
	t.handle = nil
	t.run++
	run := t.run
	t.view = View{State: Starting}
	view := t.view
	t.mu.Unlock()
	t.changed(view)

	accepted, err := t.client.StartIndex(ctx)

	t.mu.Lock()
	if run != t.run {
		t.mu.Unlock()
		return err
	}
	if err != nil {
		t.view = View{State: Idle, ControlEnabled: true}
		view = t.view
		t.mu.Unlock()
		t.log.WithError(err).Warn("start index failed")
		t.notify(notify.Failure("index.start_failed", err))
		t.changed(view)
		return err
	}
	t.view = View{State: Polling, Message: accepted.Message}
	view = t.view
	t.handle = jobs.Every(ctx, t.clock, t.interval, t.tick(run))
	t.mu.Unlock()

	t.log.WithField("message", accepted.Message).Info("index started")
	t.notify(notify.Message(notify.Success, "index.started"))
	t.changed(view)
	return nil
}

func (t *Tracker) tick(run uint64) jobs.TickFunc {
	return func(ctx context.Context) bool {
		status, err := t.client.IndexStatus(ctx)

		t.mu.Lock()
		if run != t.run {
			t.mu.Unlock()
			return false
		}
		if err != nil {
			t.view = View{State: Idle, ControlEnabled: true, Err: err}
			t.handle = nil
			view := t.view
			t.mu.Unlock()
			t.log.WithError(err).Warn("index status poll failed")
			t.notify(notify.Failure("index.poll_failed", err))
			t.changed(view)
			return false
		}
		if status.IsIndexing {
			t.view.Progress = status.Progress
			t.view.Total = status.Total
			t.view.Message = status.Message
			view := t.view
			t.mu.Unlock()
			t.changed(view)
			return true
		}
		t.view = View{State: Idle, ControlEnabled: true, Message: status.Message}
		t.handle = nil
		view := t.view
		t.mu.Unlock()

		t.log.WithField("message", status.Message).Info("index finished")
		t.changed(view)
		if t.onComplete != nil {
			t.onComplete(ctx)
		}
		done := notify.Message(notify.Success, "index.completed")
		done.Detail = status.Message
		t.notify(done)
		return false
	}
}

// Done is closed when the current poll loop exits. With no loop it is already
// closed.
func (t *Tracker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle.Done()
}

// Close cancels the poll loop. Results of a request already in flight are
// discarded.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handle.Cancel()
	t.handle = nil
	t.run++
	if t.view.State != Idle {
		t.view = View{State: Idle, ControlEnabled: true}
	}
}

func (t *Tracker) notify(n notify.Notice) {
	if t.notifier != nil {
		t.notifier.Notify(n)
	}
}

func (t *Tracker) changed(v View) {
	if t.onChange != nil {
		t.onChange(v)
	}
}
