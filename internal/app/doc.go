// Package app is hunter's composition root.
//
// Setup loads the config file, applies flag overrides, starts logging and
// builds the MemoryHunter client. The CLI's one-shot commands stop there.
// Run goes on to build the TUI session:
//
//  1. Resolve the UI language from prefs, falling back to the locale
//  2. Start the stats poller against a shared state.Store
//  3. Build the tracker, search, viewer, folder and maintenance controllers,
//     all reporting into one notify.Center
//  4. Hand everything to ui.Run and block until the user quits
//
// Stats are refreshed on the poller's cadence, after an index job completes
// and after a cleanup. Language changes are written back to prefs through an
// i18n.Bundle subscription.
package app
