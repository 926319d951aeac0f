// Package app is the composition root of the presence TUI.
//
// # Overview
//
// Run wires configuration, logging, draft storage, the backend worker, the
// controller and the UI, then blocks in the UI until the user quits.
//
// # Startup Order
//
//  1. Load ~/.config/presence/config.toml (or the --config path)
//  2. Route slog output to the log file; the TUI owns the terminal
//  3. Open the draft slot (file or sqlite backend under data_dir)
//  4. Build the Discord API client and the backend worker
//  5. Build the controller and restore the saved draft
//  6. Start the status poller
//  7. Run the UI
//
// # Polling Behavior
//
//	┌──────────────────────────────────────────┐
//	│ StartPoller() goroutine                  │
//	│  ├─> Poll() immediately                  │
//	│  └─> Poll() every interval (1.5 s)       │
//	│       └─> session flags + banner         │
//	│            └─> UI reads Session() on tick│
//	└──────────────────────────────────────────┘
//
// Each poll runs with a timeout of one interval so a hung backend cannot
// stack up requests. Failures are logged at debug level and surfaced on the
// banner by the reconciler; the loop never stops on its own.
//
// # Teardown
//
// Deferred in reverse order: the poller stops, pending autosaves are
// cancelled, the worker clears the published activity, and the slot and log
// file are closed.
package app
