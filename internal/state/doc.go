// Package state provides the thread-safe stats store shared by the poller and
// the UI.
//
// # Overview
//
// Several goroutines fetch /api/stats: the periodic poller, the index tracker
// when a job finishes, and the maintenance controller after a cleanup. They all
// write into one Store, and the UI reads a Snapshot on every refresh tick.
//
//	Producers:                       Consumer (UI):
//	  poller tick ──┐
//	  tracker done ─┼─→ store.Update ─→ store.Snapshot().Display()
//	  cleanup ──────┘     (mutex)
//
// # Ordering
//
// Each fetch calls Begin before sending its request and passes the returned
// sequence number to Update. Update drops any result older than the last one
// it applied, so a slow poll that returns after a fresher refresh cannot move
// the header backwards.
//
// # Update Semantics
//
//	// Success: replace stats, clear the error
//	store.Update(seq, stats, nil)
//
//	// Failure: keep the last stats, record the error
//	store.Update(seq, nil, err)
//
// Display turns a snapshot into the header's image count, status key and
// tone. A failure renders as "connection failed" in the danger tone while the
// last known count stays on screen.
//
// # Defensive Copying
//
// Snapshot clones the model info map and wraps the stored error so callers
// never share mutable state with the store.
package state
