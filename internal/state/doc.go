// Package state holds the process-wide UI session state shared by the action
// gateway, the status reconciler and the UI.
//
// # Overview
//
// Session is the single owner of the flags that decide what the status line
// shows and whether a command may start:
//
//   - Activation: the last status reported by the backend poll
//   - Enabled: the optimistic "presence is on" flag derived from Activation
//   - Owner: which component currently owns the status banner
//   - Banner: the status line itself
//   - the toggle cooldown timestamp and the poll failure counter
//
// # Banner Ownership
//
// The reconciler owns the banner by default. TryBegin hands ownership to the
// gateway for the duration of one command, and End hands it back:
//
//	reconciler ──TryBegin──> gateway ──End──> reconciler
//
// PublishBanner drops writes from a component that is not the current owner,
// so a poll tick can never overwrite a command's in-progress or result
// message. Busy is simply "the gateway owns the banner".
//
// # Activation
//
// Activation and Enabled are written only by ApplyStatus, which the
// reconciler calls with polled backend truth. Dispatching a command never
// touches them. Nothing here is persisted; every run starts from the first
// poll.
//
// # Concurrency Model
//
// The poller and command goroutines write concurrently while the UI reads
// snapshots. All access goes through a sync.RWMutex and Snapshot returns a
// copy, following the same producer/consumer split as a polled daemon store.
//
// The zero value is ready to use:
//
//	session := &state.Session{}
package state
