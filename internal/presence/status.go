package presence

import (
	"fmt"
	"strings"
)

// Status is the authoritative activation state reported by the backend.
type Status string

const (
	StatusInactive   Status = "inactive"
	StatusConnecting Status = "connecting"
	StatusActive     Status = "active"
	StatusError      Status = "error"
)

// ParseStatus maps a wire value to a Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusInactive:
		return StatusInactive, nil
	case StatusConnecting:
		return StatusConnecting, nil
	case StatusActive:
		return StatusActive, nil
	case StatusError:
		return StatusError, nil
	default:
		return "", fmt.Errorf("unknown presence status %q", raw)
	}
}

// Live reports whether the presence is shown or being applied.
func (s Status) Live() bool {
	return s == StatusActive || s == StatusConnecting
}

func (s Status) String() string {
	if s == "" {
		return string(StatusInactive)
	}
	return string(s)
}
