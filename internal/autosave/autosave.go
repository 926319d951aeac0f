// Package autosave persists the presence draft with debounced writes.
package autosave

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/slot"
)

const (
	// Key is the durable slot name. Bump the version suffix together with
	// RecordVersion when the record shape changes incompatibly.
	Key = "presence.draft.v1"
	// RecordVersion is written into every record.
	RecordVersion = 1
	// DefaultDelay is the quiet period before a scheduled save runs.
	DefaultDelay = 450 * time.Millisecond
)

// Record is the persisted shape.
type Record struct {
	Version int                   `json:"version"`
	Draft   presence.Draft        `json:"draft"`
	Images  presence.CachedImages `json:"images"`
	Text    presence.RenderedText `json:"text"`
}

// AfterFunc schedules f after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Options configure a Saver.
type Options struct {
	Key       string        // empty uses Key
	Delay     time.Duration // zero uses DefaultDelay
	Logger    *slog.Logger
	AfterFunc AfterFunc // nil uses time.AfterFunc
}

// Saver owns the single pending-save timer.
type Saver struct {
	slot      slot.Slot
	source    func() Record
	key       string
	delay     time.Duration
	log       *slog.Logger
	afterFunc AfterFunc

	mu      sync.Mutex
	stop    func() bool
	gen     uint64
	stopped bool

	writeMu sync.Mutex
}

// New returns a Saver that writes whatever source returns.
func New(s slot.Slot, source func() Record, opts Options) *Saver {
	sv := &Saver{
		slot:      s,
		source:    source,
		key:       opts.Key,
		delay:     opts.Delay,
		log:       opts.Logger,
		afterFunc: opts.AfterFunc,
	}
	if sv.key == "" {
		sv.key = Key
	}
	if sv.delay <= 0 {
		sv.delay = DefaultDelay
	}
	if sv.log == nil {
		sv.log = slog.Default()
	}
	if sv.afterFunc == nil {
		sv.afterFunc = timeAfterFunc
	}
	return sv
}

// Schedule replaces any pending save with one that runs after the delay.
func (s *Saver) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.stop != nil {
		s.stop()
	}
	s.gen++
	gen := s.gen
	s.stop = s.afterFunc(s.delay, func() { s.fire(gen) })
}

// Pending reports whether a save is scheduled.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Saver) fire(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.stop = nil
	s.mu.Unlock()
	s.save()
}

// Flush cancels any pending save and writes immediately.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.cancelLocked()
	s.mu.Unlock()
	s.save()
}

// Stop cancels any pending save. Later Schedule and Flush calls are ignored.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.stopped = true
}

func (s *Saver) cancelLocked() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.gen++
}

func (s *Saver) save() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rec := s.source()
	rec.Version = RecordVersion
	data, err := json.Marshal(rec)
	if err != nil {
		s.log.Debug("encode draft failed", "error", err)
		return
	}
	if err := s.slot.Set(s.key, data); err != nil {
		s.log.Debug("save draft failed", "error", err)
		return
	}
	s.log.Debug("draft saved", "bytes", len(data))
}

// Load reads the persisted record. A missing, unreadable or malformed slot
// reports false.
func (s *Saver) Load() (Record, bool) {
	rec, err := Decode(s.slot, s.key)
	if err != nil {
		if !errors.Is(err, slot.ErrNotFound) {
			s.log.Debug("restore draft failed", "error", err)
		}
		return Record{}, false
	}
	return rec, true
}

// Decode reads and validates the record stored under key.
func Decode(s slot.Slot, key string) (Record, error) {
	data, err := s.Get(key)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode draft: %w", err)
	}
	if rec.Version != RecordVersion {
		return Record{}, fmt.Errorf("draft record version %d, want %d", rec.Version, RecordVersion)
	}
	return rec, nil
}
