// Package control connects the draft, the UI session and the backend.
//
// Gateway runs user commands: it validates the draft, claims the busy token,
// makes exactly one backend call and publishes the outcome on the status
// banner. Reconciler applies polled backend status to the session and, while
// no command is in flight, keeps the banner in step with it. Controller is
// the surface the UI calls: it adds the toggle cooldown, debounced autosave
// of edits and preview rendering on top of the other two.
package control
