// Package ui provides the terminal user interface for presence.
//
// The interface is a single Bubble Tea form. The left column edits the draft
// field by field; every change goes through control.Controller.Edit, which
// schedules the autosave. The right column is the live preview card derived
// by the controller. A header shows the polled activation and the status
// banner, with a spinner while a command is in flight.
//
// Backend commands (toggle, update, profile and application sync) run as
// tea.Cmd functions off the update loop. Their outcome reaches the user
// through the banner, which the controller owns; the UI only re-reads it on
// every tick. Rejected actions (cooldown, busy) flash in the footer.
//
// # Key Bindings
//
//   - tab / shift+tab: Next / previous field
//   - space: Toggle the elapsed-time checkbox
//   - ctrl+t: Turn presence on or off
//   - ctrl+r: Push the draft to the live presence
//   - ctrl+g / ctrl+l: Sync profile / application metadata
//   - ctrl+s: Save the draft now
//   - ctrl+o: Pick an image file for the focused override field
//   - ctrl+y: Cycle theme
//   - ctrl+p: Show or hide the preview
//   - f1: Toggle help
//   - ctrl+c: Quit
//
// Theme, preview visibility and the last picker directory are stored with
// the prefs package.
package ui
