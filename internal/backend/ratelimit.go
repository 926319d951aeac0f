package backend

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned when a command follows the previous one too
// closely.
var ErrRateLimited = errors.New("rate limited: wait a moment before repeating the action")

// Limits are the minimum spacings enforced per command class.
type Limits struct {
	Toggle   time.Duration // activate and deactivate
	Update   time.Duration
	Metadata time.Duration // user and app lookups
}

// DefaultLimits returns the spacing used by the desktop backend.
func DefaultLimits() Limits {
	return Limits{
		Toggle:   900 * time.Millisecond,
		Update:   350 * time.Millisecond,
		Metadata: 650 * time.Millisecond,
	}
}

// rateLimiter keeps a single timestamp shared by every command. Each call
// passes the spacing it requires from the previous accepted command.
type rateLimiter struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func (r *rateLimiter) allow(min time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if !r.last.IsZero() && now.Sub(r.last) < min {
		return ErrRateLimited
	}
	r.last = now
	return nil
}
