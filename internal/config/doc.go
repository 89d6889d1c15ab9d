// Package config loads balloon's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/balloon/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. Fields that are missing, empty or non-positive take their defaults
//
// # Default Values
//
//   - endpoint: http://localhost:8000
//   - poll_seconds: 2
//   - timeout_seconds: 60 (measured from the moment a job starts processing)
//   - request_timeout_seconds: 30 (per HTTP request)
//   - log_level: info
//   - log_format: console
//   - log_dir: ~/.local/share/balloon/logs
//
// # TOML Format
//
//	endpoint = "http://gpu-box:8000/translate-manga"
//	poll_seconds = 2
//	timeout_seconds = 60
//	log_level = "debug"
//
// The endpoint may be written with or without the /translate-manga suffix;
// the endpoint package derives both service URLs from it.
//
// Missing config files are not an error so balloon works against a local
// service without any setup. Parse errors are returned to the caller.
package config
