package state

import (
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

// Tone is the colour class a status is rendered with.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

// Snapshot represents the latest stats available to the UI.
type Snapshot struct {
	Stats               memhunter.StatsSnapshot
	HasStats            bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Display is what the header shows for a snapshot.
type Display struct {
	ImageCount int
	HasCount   bool
	// StatusKey is an i18n key. Message, when set, is the backend's own
	// status line and is shown instead.
	StatusKey string
	Message   string
	Tone      Tone
	Indexing  bool
	Progress  string
	Fraction  float64
}

// Display derives the header fields. A failed poll shows "connection failed"
// but keeps the last known image count.
func (s Snapshot) Display() Display {
	d := Display{ImageCount: s.Stats.TotalImages, HasCount: s.HasStats}
	switch {
	case s.LastError != nil:
		d.StatusKey = "status.connection_failed"
		d.Tone = ToneDanger
	case !s.HasStats:
		d.StatusKey = "loading"
		d.Tone = ToneWarning
	case s.Stats.IndexingStatus.IsIndexing:
		d.StatusKey = "status.indexing"
		d.Tone = ToneWarning
		d.Indexing = true
		d.Progress = s.Stats.IndexingStatus.ProgressText()
		d.Fraction = s.Stats.IndexingStatus.Fraction()
	default:
		d.StatusKey = "status.ready"
		d.Tone = ToneSuccess
		d.Message = strings.TrimSpace(s.Stats.IndexingStatus.Message)
	}
	return d
}

// Store coordinates concurrent updates to the snapshot. Fetches are numbered
// with Begin so a slow response cannot overwrite a newer one.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	issued   uint64
	applied  uint64
}

// Begin reserves the sequence number for a fetch about to be sent.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Update applies the result of fetch seq. When err is non-nil the previous data
// is kept but the error is recorded for visibility. Results older than the
// last applied one are dropped and Update reports false.
func (s *Store) Update(seq uint64, stats *memhunter.StatsSnapshot, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		return false
	}
	s.applied = seq

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return true
	}

	if stats != nil {
		s.snapshot.Stats = *stats
		s.snapshot.Stats.ModelInfo = maps.Clone(stats.ModelInfo)
		s.snapshot.HasStats = true
	} else {
		s.snapshot.HasStats = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Stats.ModelInfo = maps.Clone(s.snapshot.Stats.ModelInfo)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
