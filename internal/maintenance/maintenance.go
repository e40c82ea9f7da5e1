// Package maintenance wraps the backend's database maintenance endpoints.
package maintenance

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/notify"
	"github.com/memoryhunter/hunter/internal/state"
)

// ErrConfirmationRequired is returned by destructive actions called without
// confirmation. Nothing is sent to the backend.
var ErrConfirmationRequired = errors.New("action requires confirmation")

// PreviewLimit is how many deleted files a cleanup preview lists.
const PreviewLimit = 10

// Client is the part of the API maintenance uses.
type Client interface {
	HealthCheck(ctx context.Context) (*memhunter.HealthReport, error)
	Cleanup(ctx context.Context, autoRemove bool) (*memhunter.CleanupReport, error)
	Optimize(ctx context.Context) (*memhunter.Accepted, error)
	MaintenanceStats(ctx context.Context) (*memhunter.MaintenanceStats, error)
}

// RateTone colours a deletion rate given in percent.
func RateTone(rate float64) state.Tone {
	switch {
	case rate > 20:
		return state.ToneDanger
	case rate > 5:
		return state.ToneWarning
	default:
		return state.ToneSuccess
	}
}

// Health is a rendered health-check report.
type Health struct {
	Report memhunter.HealthReport
	Tone   state.Tone
}

// Preview lists the first files a cleanup would remove.
type Preview struct {
	Found int
	Files []memhunter.DeletedFile
	More  int
}

// NewPreview trims a cleanup report to PreviewLimit files.
func NewPreview(report memhunter.CleanupReport) Preview {
	files := report.DeletedFiles
	if len(files) > PreviewLimit {
		files = files[:PreviewLimit]
	}
	return Preview{
		Found: report.Found,
		Files: append([]memhunter.DeletedFile(nil), files...),
		More:  max(report.Found-PreviewLimit, 0),
	}
}

// View holds the latest result of each action.
type View struct {
	// Busy is the i18n key of the action in progress, or empty.
	Busy      string
	Health    *Health
	Preview   *Preview
	Cleaned   int
	HasClean  bool
	Optimize  string
	Stats     *memhunter.MaintenanceStats
	StatsTone state.Tone
}

// Options configure a Controller.
type Options struct {
	Notifier notify.Notifier
	// OnCleaned runs after a successful cleanup, typically a stats refresh.
	OnCleaned func(ctx context.Context)
}

// Controller runs maintenance actions and keeps their last results for display.
type Controller struct {
	client    Client
	notifier  notify.Notifier
	onCleaned func(ctx context.Context)
	log       logrus.FieldLogger

	mu   sync.Mutex
	view View
}

// New returns a controller with no results yet.
func New(client Client, opts Options) *Controller {
	return &Controller{
		client:    client,
		notifier:  opts.Notifier,
		onCleaned: opts.OnCleaned,
		log:       logrus.WithField("component", "maintenance"),
	}
}

// HealthCheck asks the backend to compare its records with the files on disk.
func (c *Controller) HealthCheck(ctx context.Context) (*Health, error) {
	c.setBusy("maint.checking")
	defer c.setBusy("")

	report, err := c.client.HealthCheck(ctx)
	if err != nil {
		c.log.WithError(err).Warn("health check failed")
		c.notify(notify.Failure("maint.health_failed", err))
		return nil, err
	}
	health := &Health{Report: *report, Tone: RateTone(report.DeletionRate)}
	c.mu.Lock()
	c.view.Health = health
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"total":         report.TotalRecords,
		"deleted":       report.DeletedFiles,
		"deletion_rate": report.DeletionRate,
	}).Info("health check finished")
	c.notify(notify.Message(notify.Success, "maint.health_done"))
	return health, nil
}

// PreviewCleanup lists the records a cleanup would remove without removing
// them.
func (c *Controller) PreviewCleanup(ctx context.Context) (*Preview, error) {
	c.setBusy("maint.analyzing")
	defer c.setBusy("")

	report, err := c.client.Cleanup(ctx, false)
	if err != nil {
		c.log.WithError(err).Warn("cleanup preview failed")
		c.notify(notify.Failure("maint.preview_failed", err))
		return nil, err
	}
	preview := NewPreview(*report)
	c.mu.Lock()
	c.view.Preview = &preview
	c.mu.Unlock()

	if preview.Found > 0 {
		c.notify(notify.Message(notify.Info, "maint.preview_found", preview.Found))
	}
	return &preview, nil
}

// ApplyCleanup removes the records of deleted files. It refuses to send
// anything unless confirmed is true.
func (c *Controller) ApplyCleanup(ctx context.Context, confirmed bool) (int, error) {
	if !confirmed {
		return 0, ErrConfirmationRequired
	}
	c.setBusy("maint.cleaning")
	defer c.setBusy("")

	report, err := c.client.Cleanup(ctx, true)
	if err != nil {
		c.log.WithError(err).Warn("cleanup failed")
		c.notify(notify.Failure("maint.cleanup_failed", err))
		return 0, err
	}
	c.mu.Lock()
	c.view.Cleaned = report.Cleaned
	c.view.HasClean = true
	c.view.Preview = nil
	c.mu.Unlock()

	c.log.WithField("cleaned", report.Cleaned).Info("cleanup finished")
	c.notify(notify.Message(notify.Success, "maint.cleaned", report.Cleaned))
	if c.onCleaned != nil {
		c.onCleaned(ctx)
	}
	return report.Cleaned, nil
}

// Optimize triggers a background optimisation. It refuses to send anything
// unless confirmed is true.
func (c *Controller) Optimize(ctx context.Context, confirmed bool) (string, error) {
	if !confirmed {
		return "", ErrConfirmationRequired
	}
	accepted, err := c.client.Optimize(ctx)
	if err != nil {
		c.log.WithError(err).Warn("optimize failed")
		c.notify(notify.Failure("maint.optimize_failed", err))
		return "", err
	}
	c.mu.Lock()
	c.view.Optimize = accepted.Message
	c.mu.Unlock()

	c.log.WithField("message", accepted.Message).Info("optimize started")
	c.notify(notify.Message(notify.Success, "maint.optimize_started", accepted.Message))
	return accepted.Message, nil
}

// Stats fetches the maintenance counters.
func (c *Controller) Stats(ctx context.Context) (*memhunter.MaintenanceStats, error) {
	stats, err := c.client.MaintenanceStats(ctx)
	if err != nil {
		c.log.WithError(err).Warn("maintenance stats failed")
		c.notify(notify.Failure("maint.stats_failed", err))
		return nil, err
	}
	tone := state.ToneSuccess
	if stats.DatabaseHealth != "healthy" {
		tone = state.ToneWarning
	}
	c.mu.Lock()
	c.view.Stats = stats
	c.view.StatsTone = tone
	c.mu.Unlock()
	return stats, nil
}

// View returns the latest results.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller) setBusy(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Busy = key
}

func (c *Controller) notify(n notify.Notice) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}
