package control

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/five82/presence/internal/autosave"
	"github.com/five82/presence/internal/backend"
	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/slot"
)

type fakeBackend struct {
	mu        sync.Mutex
	calls     map[string]int
	status    presence.Status
	statusErr error
	lastErr   presence.Option[string]
	cmdErr    error
	profile   backend.UserProfile
	app       backend.AppMeta
	lastCfg   presence.Config

	// When block is set, Activate signals entered and waits for release.
	block   bool
	entered chan struct{}
	release chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:   map[string]int{},
		status:  presence.StatusInactive,
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) setStatus(s presence.Status, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
	f.statusErr = err
}

func (f *fakeBackend) Activate(_ context.Context, cfg presence.Config) error {
	f.record("activate")
	f.mu.Lock()
	f.lastCfg = cfg
	block, err := f.block, f.cmdErr
	f.mu.Unlock()
	if block {
		f.entered <- struct{}{}
		<-f.release
	}
	return err
}

func (f *fakeBackend) PushUpdate(_ context.Context, cfg presence.Config) error {
	f.record("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCfg = cfg
	return f.cmdErr
}

func (f *fakeBackend) Deactivate(context.Context, string) error {
	f.record("deactivate")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cmdErr
}

func (f *fakeBackend) Status(context.Context) (presence.Status, error) {
	f.record("status")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.statusErr
}

func (f *fakeBackend) LastError(context.Context) (presence.Option[string], error) {
	f.record("last_error")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr, nil
}

func (f *fakeBackend) FetchUser(context.Context, string) (backend.UserProfile, error) {
	f.record("user")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile, f.cmdErr
}

func (f *fakeBackend) FetchApp(context.Context, string) (backend.AppMeta, error) {
	f.record("app")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.app, f.cmdErr
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// manualTimer captures the scheduled autosave so tests decide when it fires.
type manualTimer struct {
	mu      sync.Mutex
	pending func()
}

func (m *manualTimer) afterFunc(_ time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = f
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.pending = nil
		return true
	}
}

func (m *manualTimer) fire() bool {
	m.mu.Lock()
	f := m.pending
	m.pending = nil
	m.mu.Unlock()
	if f == nil {
		return false
	}
	f()
	return true
}

type fixture struct {
	ctrl     *Controller
	backend  *fakeBackend
	slot     *slot.Memory
	notifier *recordingNotifier
	timer    *manualTimer
	clock    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		backend:  newFakeBackend(),
		slot:     slot.NewMemory(),
		notifier: &recordingNotifier{},
		timer:    &manualTimer{},
		clock:    &now,
	}
	f.ctrl = New(Options{
		Backend:  f.backend,
		Slot:     f.slot,
		Notifier: f.notifier,
		Resolve:  func(path string) (string, error) { return "file://" + path, nil },
		Now:      func() time.Time { return *f.clock },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Autosave: autosave.Options{AfterFunc: f.timer.afterFunc},
	})
	t.Cleanup(f.ctrl.Close)
	f.ctrl.Load()
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func (f *fixture) fill(d presence.Draft) {
	f.ctrl.Edit(func(draft *presence.Draft) { *draft = d })
}

func (f *fixture) saved(t *testing.T) (autosave.Record, bool) {
	t.Helper()
	rec, err := autosave.Decode(f.slot, autosave.Key)
	if err != nil {
		return autosave.Record{}, false
	}
	return rec, true
}
