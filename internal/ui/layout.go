package ui

import "time"

// Log display limits.
const (
	// LogReadLines is how many lines are read from the end of the log file.
	LogReadLines = 500
)

// Timing constants.
const (
	// defaultTick is how often the UI re-reads controller snapshots.
	defaultTick = 250 * time.Millisecond
)
