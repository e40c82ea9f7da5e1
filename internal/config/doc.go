// Package config loads hunter's TOML configuration.
//
// # Overview
//
// The config file tells hunter where the MemoryHunter backend listens, where
// the backend keeps photos on its own disk, how often to poll, and where to
// write the client log. Every field is optional.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/hunter/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. HUNTER_API_BASE, HUNTER_PHOTOS_ROOT and HUNTER_LOG_LEVEL override the file
//
// # Default Values
//
//   - API base: http://127.0.0.1:8000
//   - Photos root: /app/photos
//   - Request timeout: 10s
//   - Stats poll: 5s, index poll: 1s, folder poll: 3s
//   - Log file: ~/.local/state/hunter/hunter.log
//   - Search: top_k 20, threshold 0
//
// # TOML Format
//
//	api_base = "http://127.0.0.1:8000"
//	photos_root = "/app/photos"
//	request_timeout_seconds = 10
//	stats_poll_seconds = 5
//	index_poll_ms = 1000
//	folder_poll_seconds = 3
//	log_file = "~/.local/state/hunter/hunter.log"
//	log_level = "info"
//
//	[search]
//	default_top_k = 20
//	default_threshold = 0.0
//
// Search defaults are clamped to top_k 1..100 and threshold 0..1, the same
// limits the backend enforces.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files and TOML
// parse errors. A missing file is not an error.
package config
