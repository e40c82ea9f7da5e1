// Package ui provides the MemoryHunter terminal interface.
//
// The interface is a single bubbletea program with four tabs: search,
// folders, maintenance and logs. It owns no business state. Every tick the
// Model copies snapshots out of the controllers it was given (state.Store,
// tracker.Tracker, search.Controller, folders.Controller,
// maintenance.Controller and notify.Center) and renders from those copies.
// Key presses turn into controller calls that run as tea.Cmds; their results
// show up on the next snapshot.
//
// # Files
//
//   - app.go: Model, key dispatch, tab switching and Run
//   - header.go: status line, index control, tabs, notices, command bar
//   - search.go, folders.go, maintenance.go, logs.go: one file per tab
//   - modal.go, viewer.go, browser.go: dialogs stacked over the tabs
//   - halfblock.go: renders decoded photos with "▀" cells
//   - theme.go, style_helpers.go, strings.go: palettes and text helpers
//
// # Dialogs
//
// At most one Modal is open. While it is, key presses go to the modal only,
// except ctrl+c. The photo viewer highlights a detection box when the cursor
// moves over its tag; the folder browser walks the backend's directory
// listing and adds the selected directory on confirm.
//
// # Preferences
//
// Theme changes are written to the preferences file straight away. The
// language toggle goes through i18n.Bundle; the caller persists it.
package ui
