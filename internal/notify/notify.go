// Package notify sends desktop notifications for presence transitions.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Notifier delivers a short message to the user outside the terminal.
type Notifier interface {
	Notify(title, message string) error
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(string, string) error { return nil }

// Desktop shows notifications through the platform notification service.
type Desktop struct {
	log  *slog.Logger
	send func(title, message string, icon any) error
}

// New returns a Desktop notifier, or Noop when disabled.
func New(enabled bool, logger *slog.Logger) Notifier {
	if !enabled {
		return Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Desktop{log: logger, send: beeep.Notify}
}

// Notify shows the message. Failures are logged and returned.
func (d *Desktop) Notify(title, message string) error {
	if err := d.send(title, message, ""); err != nil {
		d.log.Debug("desktop notification failed", "title", title, "error", err)
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
