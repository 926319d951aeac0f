// Package logtail reads the tail of the presence log file.
//
// Read returns the last N lines in one pass with O(N) memory, so large log
// files are never loaded whole. Lines are written by log/slog's text handler
// (time=... level=INFO msg=... component=...); AtLeast filters them by level
// and Colorize highlights the level and component for terminal output.
//
// A missing log file is not an error: Read returns no lines.
package logtail
