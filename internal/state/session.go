package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/presence/internal/presence"
)

// ToggleCooldown is the minimum spacing between accepted toggle requests.
const ToggleCooldown = 1200 * time.Millisecond

// Owner identifies who may write the status banner.
type Owner int

const (
	OwnerReconciler Owner = iota
	OwnerGateway
)

func (o Owner) String() string {
	if o == OwnerGateway {
		return "gateway"
	}
	return "reconciler"
}

// Level is the banner severity.
type Level int

const (
	LevelNeutral Level = iota
	LevelProgress
	LevelSuccess
	LevelWarning
)

// Banner is the user-facing status line.
type Banner struct {
	Level Level
	Text  string
}

// Snapshot is a copy of the session at a point in time.
type Snapshot struct {
	Activation          presence.Status
	Enabled             bool
	Owner               Owner
	Operation           string
	Banner              Banner
	LastPoll            time.Time
	LastPollError       error
	ConsecutiveFailures int
}

// Busy reports whether a gateway command is in flight.
func (s Snapshot) Busy() bool {
	return s.Owner == OwnerGateway
}

// Session coordinates the shared UI flags.
type Session struct {
	mu         sync.RWMutex
	snapshot   Snapshot
	lastToggle time.Time
}

// TryBegin claims the banner for a gateway command. It fails when another
// command already holds it.
func (s *Session) TryBegin(operation string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Owner == OwnerGateway {
		return false
	}
	s.snapshot.Owner = OwnerGateway
	s.snapshot.Operation = operation
	return true
}

// End returns the banner to the reconciler.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Owner = OwnerReconciler
	s.snapshot.Operation = ""
}

// Busy reports whether a gateway command is in flight.
func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Owner == OwnerGateway
}

// PublishBanner sets the banner when owner currently owns it.
func (s *Session) PublishBanner(owner Owner, b Banner) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Owner != owner {
		return false
	}
	s.snapshot.Banner = b
	return true
}

// ApplyStatus replaces the activation state with polled truth and returns the
// previous value.
func (s *Session) ApplyStatus(status presence.Status) presence.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot.Activation
	s.snapshot.Activation = status
	s.snapshot.Enabled = status.Live()
	s.snapshot.LastPoll = time.Now()
	s.snapshot.LastPollError = nil
	s.snapshot.ConsecutiveFailures = 0
	return prev
}

// RecordPollFailure notes a failed status query and returns the number of
// consecutive failures. Activation is left alone.
func (s *Session) RecordPollFailure(err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastPoll = time.Now()
	s.snapshot.LastPollError = err
	s.snapshot.ConsecutiveFailures++
	return s.snapshot.ConsecutiveFailures
}

// MarkUnreachable forces the error state after repeated poll failures. The
// failure counter is kept so the next success resets it.
func (s *Session) MarkUnreachable() presence.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot.Activation
	s.snapshot.Activation = presence.StatusError
	s.snapshot.Enabled = false
	return prev
}

// AcceptToggle records a toggle at now unless one was accepted less than
// window ago. Rejected requests do not extend the window.
func (s *Session) AcceptToggle(now time.Time, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lastToggle.IsZero() && now.Sub(s.lastToggle) < window {
		return false
	}
	s.lastToggle = now
	return true
}

// Snapshot returns a copy of the current session.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshot
	if s.snapshot.LastPollError != nil {
		snap.LastPollError = fmt.Errorf("%w", s.snapshot.LastPollError)
	}
	return snap
}
