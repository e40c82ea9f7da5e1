package app

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/jobs"
	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/state"
)

const defaultPollInterval = 5 * time.Second

// StatsSource fetches the stats snapshot.
type StatsSource interface {
	Stats(ctx context.Context) (*memhunter.StatsSnapshot, error)
}

// StartStatsPoller refreshes the store immediately and then at a fixed
// cadence until ctx ends or the handle is cancelled. Failures are recorded in
// the store and never stop the loop.
func StartStatsPoller(ctx context.Context, clk clockwork.Clock, store *state.Store, source StatsSource, interval time.Duration) *jobs.Handle {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return jobs.EveryNow(ctx, clk, interval, func(ctx context.Context) bool {
		RefreshStats(ctx, store, source)
		return true
	})
}

// RefreshStats fetches once and applies the result unless a newer fetch has
// already landed.
func RefreshStats(ctx context.Context, store *state.Store, source StatsSource) {
	seq := store.Begin()
	stats, err := source.Stats(ctx)
	if err != nil {
		logrus.WithField("component", "poller").WithError(err).Warn("stats poll failed")
		store.Update(seq, nil, err)
		return
	}
	if !store.Update(seq, stats, nil) {
		logrus.WithField("component", "poller").WithField("seq", seq).Debug("dropped stale stats")
	}
}

// StatsRefresher binds RefreshStats to a store and source for controllers that
// need to refresh after a mutation.
func StatsRefresher(store *state.Store, source StatsSource) func(context.Context) {
	return func(ctx context.Context) {
		RefreshStats(ctx, store, source)
	}
}
