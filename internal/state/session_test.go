package state

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/presence/internal/presence"
)

func TestSession_BannerOwnership(t *testing.T) {
	var s Session

	if !s.PublishBanner(OwnerReconciler, Banner{Level: LevelNeutral, Text: "Presence off."}) {
		t.Fatal("reconciler should own the banner initially")
	}
	if !s.TryBegin("activate") {
		t.Fatal("TryBegin failed on idle session")
	}
	if s.TryBegin("update") {
		t.Fatal("second TryBegin succeeded while busy")
	}
	if s.PublishBanner(OwnerReconciler, Banner{Text: "Presence live."}) {
		t.Fatal("reconciler wrote the banner while gateway owns it")
	}
	if !s.PublishBanner(OwnerGateway, Banner{Level: LevelProgress, Text: "Connecting..."}) {
		t.Fatal("gateway could not write its banner")
	}

	snap := s.Snapshot()
	if !snap.Busy() || snap.Operation != "activate" {
		t.Fatalf("snapshot = %#v, want busy with activate", snap)
	}
	if snap.Banner.Text != "Connecting..." {
		t.Fatalf("Banner = %q, want gateway text", snap.Banner.Text)
	}

	s.End()
	if s.Busy() {
		t.Fatal("Busy after End")
	}
	if s.PublishBanner(OwnerGateway, Banner{Text: "late"}) {
		t.Fatal("gateway wrote the banner after End")
	}
}

func TestSession_ApplyStatusAndFailures(t *testing.T) {
	var s Session

	if prev := s.ApplyStatus(presence.StatusActive); prev != "" {
		t.Fatalf("prev = %q, want zero status", prev)
	}
	if !s.Snapshot().Enabled {
		t.Fatal("Enabled = false after active")
	}

	if n := s.RecordPollFailure(errors.New("boom")); n != 1 {
		t.Fatalf("failures = %d, want 1", n)
	}
	snap := s.Snapshot()
	if snap.Activation != presence.StatusActive || !snap.Enabled {
		t.Fatalf("poll failure changed activation: %#v", snap)
	}
	if snap.LastPollError == nil || snap.LastPollError.Error() != "boom" {
		t.Fatalf("LastPollError = %v", snap.LastPollError)
	}

	s.MarkUnreachable()
	snap = s.Snapshot()
	if snap.Activation != presence.StatusError || snap.Enabled {
		t.Fatalf("MarkUnreachable snapshot = %#v", snap)
	}

	s.ApplyStatus(presence.StatusConnecting)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || !snap.Enabled || snap.LastPollError != nil {
		t.Fatalf("successful poll did not reset failures: %#v", snap)
	}
}

func TestSession_AcceptToggleCooldown(t *testing.T) {
	var s Session
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if !s.AcceptToggle(t0, ToggleCooldown) {
		t.Fatal("first toggle rejected")
	}
	if s.AcceptToggle(t0.Add(ToggleCooldown-time.Millisecond), ToggleCooldown) {
		t.Fatal("toggle inside cooldown accepted")
	}
	// The rejected request must not push the window out.
	if !s.AcceptToggle(t0.Add(ToggleCooldown), ToggleCooldown) {
		t.Fatal("toggle at the end of the window rejected")
	}
}
