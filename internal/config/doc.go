// Package config loads the presence configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/presence/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/presence/config.toml
//   - Poll interval: 1500 ms
//   - Storage: file (one JSON document per slot under data_dir)
//   - Data directory: ~/.local/share/presence
//   - Log file: <data_dir>/presence.log
//   - Log level: info
//   - Discord API: https://discord.com/api/v10
//   - Discord CDN: https://cdn.discordapp.com
//   - Theme: Nightfox
//   - Desktop notifications: on
//
// # TOML Format
//
//	poll_interval_ms = 1500
//	storage = "sqlite"
//	data_dir = "~/.local/share/presence"
//	log_level = "debug"
//	log_file = "~/.cache/presence.log"
//	theme = "Kanagawa"
//	notifications = false
//
// Every field is optional. Tilde expansion is performed for data_dir and
// log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and values outside their allowed set
// (storage, log_level). A missing file is not an error.
package config
