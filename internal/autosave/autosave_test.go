package autosave

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/slot"
)

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	tm := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, tm)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		was := !tm.stopped && !tm.fired
		tm.stopped = true
		return was
	}
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, tm := range c.timers {
		if !tm.stopped && !tm.fired && tm.at <= c.now {
			tm.fired = true
			due = append(due, tm)
		}
	}
	c.mu.Unlock()
	for _, tm := range due {
		tm.f()
	}
}

type countingSlot struct {
	*slot.Memory
	mu     sync.Mutex
	writes int
	failOn bool
}

func (c *countingSlot) Set(key string, value []byte) error {
	c.mu.Lock()
	c.writes++
	fail := c.failOn
	c.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return c.Memory.Set(key, value)
}

func (c *countingSlot) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func newTestSaver(store *countingSlot, clock *fakeClock, source func() Record) *Saver {
	return New(store, source, Options{AfterFunc: clock.AfterFunc})
}

func TestSaver_DebounceWritesOnceFromLastEdit(t *testing.T) {
	clock := &fakeClock{}
	store := &countingSlot{Memory: slot.NewMemory()}
	details := ""
	saver := newTestSaver(store, clock, func() Record {
		return Record{Draft: presence.Draft{Details: details}}
	})

	for _, text := range []string{"C", "Co", "Cod", "Codi", "Coding"} {
		details = text
		saver.Schedule()
		clock.Advance(300 * time.Millisecond)
	}
	if got := store.Writes(); got != 0 {
		t.Fatalf("writes during edit burst = %d, want 0", got)
	}

	// Last edit was 300ms ago; the save is due 450ms after it.
	clock.Advance(100 * time.Millisecond)
	if got := store.Writes(); got != 0 {
		t.Fatalf("writes 400ms after last edit = %d, want 0", got)
	}
	clock.Advance(50 * time.Millisecond)
	if got := store.Writes(); got != 1 {
		t.Fatalf("writes 450ms after last edit = %d, want 1", got)
	}
	clock.Advance(time.Second)
	if got := store.Writes(); got != 1 {
		t.Fatalf("writes after quiet period = %d, want 1", got)
	}

	rec, ok := saver.Load()
	if !ok {
		t.Fatal("Load returned false after save")
	}
	if rec.Draft.Details != "Coding" {
		t.Fatalf("saved Details = %q, want latest edit", rec.Draft.Details)
	}
	if rec.Version != RecordVersion {
		t.Fatalf("Version = %d, want %d", rec.Version, RecordVersion)
	}
}

func TestSaver_StopCancelsPendingSave(t *testing.T) {
	clock := &fakeClock{}
	store := &countingSlot{Memory: slot.NewMemory()}
	saver := newTestSaver(store, clock, func() Record { return Record{} })

	saver.Schedule()
	saver.Stop()
	clock.Advance(time.Second)
	saver.Schedule()
	saver.Flush()
	clock.Advance(time.Second)

	if got := store.Writes(); got != 0 {
		t.Fatalf("writes after Stop = %d, want 0", got)
	}
}

func TestSaver_FlushWritesNowAndCancelsTimer(t *testing.T) {
	clock := &fakeClock{}
	store := &countingSlot{Memory: slot.NewMemory()}
	saver := newTestSaver(store, clock, func() Record { return Record{} })

	saver.Schedule()
	saver.Flush()
	if got := store.Writes(); got != 1 {
		t.Fatalf("writes after Flush = %d, want 1", got)
	}
	if saver.Pending() {
		t.Fatal("Flush left a pending save")
	}
	clock.Advance(time.Second)
	if got := store.Writes(); got != 1 {
		t.Fatalf("writes after timer window = %d, want 1", got)
	}
}

func TestSaver_WriteFailureIsSwallowed(t *testing.T) {
	store := &countingSlot{Memory: slot.NewMemory(), failOn: true}
	saver := newTestSaver(store, &fakeClock{}, func() Record { return Record{} })
	saver.Flush()
	if _, ok := saver.Load(); ok {
		t.Fatal("Load returned true after failed write")
	}
}

func TestSaver_LoadRejectsMalformedAndForeignRecords(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{not json"},
		{"wrong type", `{"version":1,"draft":"oops"}`},
		{"other version", `{"version":7,"draft":{}}`},
		{"missing version", `{"draft":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := slot.NewMemory()
			if err := mem.Set(Key, []byte(tt.data)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			saver := New(mem, func() Record { return Record{} }, Options{})
			if rec, ok := saver.Load(); ok {
				t.Fatalf("Load = %#v, true; want absent", rec)
			}
		})
	}
}

func TestSaver_RecordShape(t *testing.T) {
	mem := slot.NewMemory()
	saver := New(mem, func() Record {
		return Record{
			Draft:  presence.Draft{ClientID: "123"},
			Images: presence.CachedImages{AppIcon: presence.Some("https://cdn/icon.png")},
			Text:   presence.RenderedText{Name: "Ana", AppName: "Editor"},
		}
	}, Options{})
	saver.Flush()

	raw, err := mem.Get(Key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, field := range []string{"version", "draft", "images", "text"} {
		if _, ok := generic[field]; !ok {
			t.Errorf("record missing %q: %s", field, raw)
		}
	}
}
