package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/five82/presence/internal/discord"
	"github.com/five82/presence/internal/presence"
)

const (
	defaultKeepalive  = 10 * time.Second
	defaultRetryWait  = 2 * time.Second
	defaultStableAcks = 2
	callTimeout       = 5 * time.Second
)

// DefaultBurst is the delay before each apply attempt right after connecting.
// The desktop client sometimes drops the first update, so the activity is
// re-sent until it has been acknowledged StableAcks times in a row.
func DefaultBurst() []time.Duration {
	return []time.Duration{0, time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
}

// Conn is one handshaken IPC session.
type Conn interface {
	SetActivity(ctx context.Context, act discord.Activity) error
	ClearActivity(ctx context.Context) error
	User() *discord.User
	Close() error
}

// Connector opens a session for clientID.
type Connector func(ctx context.Context, clientID string) (Conn, error)

// Directory resolves application metadata and CDN image URLs.
type Directory interface {
	FetchApplication(ctx context.Context, clientID string) (discord.Application, error)
	AppIconURL(appID, hash string) string
	AvatarURL(userID, hash string) string
}

// DialDiscord connects to the first IPC socket found in the standard
// locations.
func DialDiscord(ctx context.Context, clientID string) (Conn, error) {
	path, err := discord.FindSocket(discord.SocketDirs())
	if err != nil {
		return nil, err
	}
	c, err := discord.Dial(ctx, path, clientID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// WorkerOptions configure a Worker. Zero values use the desktop defaults.
type WorkerOptions struct {
	Connect    Connector
	Directory  Directory
	Limits     *Limits
	Burst      []time.Duration
	Keepalive  time.Duration
	RetryWait  time.Duration
	StableAcks int
	Now        func() time.Time
	Logger     *slog.Logger
}

// Worker is the in-process Backend. Once activated, a single goroutine keeps
// an IPC session open and re-applies the latest configuration on every
// keepalive or update until deactivated.
type Worker struct {
	connect    Connector
	dir        Directory
	limits     Limits
	limiter    *rateLimiter
	burst      []time.Duration
	keepalive  time.Duration
	retryWait  time.Duration
	stableAcks int
	now        func() time.Time
	log        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	poke   chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	running bool
	alive   bool
	status  presence.Status
	lastErr presence.Option[string]
	cfg     presence.Config
	hasCfg  bool
	startAt time.Time
}

var _ Backend = (*Worker)(nil)

// NewWorker builds a Worker.
func NewWorker(opts WorkerOptions) (*Worker, error) {
	w := &Worker{
		connect:    opts.Connect,
		dir:        opts.Directory,
		burst:      opts.Burst,
		keepalive:  opts.Keepalive,
		retryWait:  opts.RetryWait,
		stableAcks: opts.StableAcks,
		now:        opts.Now,
		log:        opts.Logger,
		poke:       make(chan struct{}, 1),
		status:     presence.StatusInactive,
	}
	if w.connect == nil {
		w.connect = DialDiscord
	}
	if w.dir == nil {
		api, err := discord.NewAPIClient("", "")
		if err != nil {
			return nil, fmt.Errorf("discord api client: %w", err)
		}
		w.dir = api
	}
	if opts.Limits != nil {
		w.limits = *opts.Limits
	} else {
		w.limits = DefaultLimits()
	}
	if w.burst == nil {
		w.burst = DefaultBurst()
	}
	if w.keepalive <= 0 {
		w.keepalive = defaultKeepalive
	}
	if w.retryWait <= 0 {
		w.retryWait = defaultRetryWait
	}
	if w.stableAcks <= 0 {
		w.stableAcks = defaultStableAcks
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	w.limiter = &rateLimiter{now: w.now}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	return w, nil
}

// Activate stores cfg and starts the session loop. When the loop is already
// running it is woken to apply cfg immediately.
func (w *Worker) Activate(_ context.Context, cfg presence.Config) error {
	if err := w.limiter.allow(w.limits.Toggle); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return errors.New("backend closed")
	}
	w.cfg = cfg
	w.hasCfg = true
	if w.startAt.IsZero() {
		w.startAt = w.now()
	}
	w.running = true
	if w.alive {
		w.wake()
		return nil
	}
	w.alive = true
	w.done = make(chan struct{})
	w.status = presence.StatusConnecting
	w.lastErr = presence.None[string]()
	go w.run(w.done)
	return nil
}

// PushUpdate replaces the configuration and wakes a running loop.
func (w *Worker) PushUpdate(_ context.Context, cfg presence.Config) error {
	if err := w.limiter.allow(w.limits.Update); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg = cfg
	w.hasCfg = true
	if w.running {
		w.wake()
	}
	return nil
}

// Deactivate stops the loop. The activity is cleared as the loop exits.
func (w *Worker) Deactivate(_ context.Context, _ string) error {
	if err := w.limiter.allow(w.limits.Toggle); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	w.wake()
	return nil
}

// Status reports the loop's current state.
func (w *Worker) Status(context.Context) (presence.Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status, nil
}

// LastError reports the most recent failure, if it has not been cleared by a
// later success.
func (w *Worker) LastError(context.Context) (presence.Option[string], error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr, nil
}

// FetchUser opens a short-lived session and reports the handshake user.
func (w *Worker) FetchUser(ctx context.Context, clientID string) (UserProfile, error) {
	if err := w.limiter.allow(w.limits.Metadata); err != nil {
		return UserProfile{}, err
	}
	conn, err := w.connect(ctx, clientID)
	if err != nil {
		return UserProfile{}, err
	}
	defer func() { _ = conn.Close() }()

	u := conn.User()
	if u == nil {
		return UserProfile{}, errors.New("handshake did not report a user")
	}
	profile := UserProfile{
		ID:       u.ID,
		Username: u.Username,
	}
	if profile.Username == "" {
		profile.Username = "user"
	}
	if u.GlobalName != nil {
		profile.GlobalName = presence.Some(*u.GlobalName)
	}
	if u.Avatar != nil && *u.Avatar != "" {
		profile.AvatarHash = presence.Some(*u.Avatar)
		profile.AvatarURL = presence.Some(w.dir.AvatarURL(u.ID, *u.Avatar))
	}
	return profile, nil
}

// FetchApp looks up the application's public name and icon.
func (w *Worker) FetchApp(ctx context.Context, clientID string) (AppMeta, error) {
	if err := w.limiter.allow(w.limits.Metadata); err != nil {
		return AppMeta{}, err
	}
	id := strings.TrimSpace(clientID)
	app, err := w.dir.FetchApplication(ctx, id)
	if err != nil {
		return AppMeta{}, err
	}
	meta := AppMeta{Name: app.Name}
	if app.Icon != nil && *app.Icon != "" {
		meta.IconHash = presence.Some(*app.Icon)
		meta.IconURL = presence.Some(w.dir.AppIconURL(id, *app.Icon))
	}
	return meta, nil
}

// Close stops the loop and waits for it to clear the activity.
func (w *Worker) Close() error {
	w.mu.Lock()
	w.running = false
	done := w.done
	w.wake()
	w.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(callTimeout):
		}
	}
	w.cancel()
	return nil
}

// wake must be called with mu held.
func (w *Worker) wake() {
	select {
	case w.poke <- struct{}{}:
	default:
	}
}

func (w *Worker) run(done chan struct{}) {
	var conn Conn
	defer func() { w.finish(conn, done) }()

	for w.isRunning() {
		cfg, start, ok := w.current()
		if !ok {
			break
		}

		if conn == nil {
			w.setStatus(presence.StatusConnecting, nil)
			c, err := w.connect(w.ctx, cfg.ClientID)
			if err != nil {
				w.setStatus(presence.StatusError, err)
				w.wait(w.retryWait)
				continue
			}
			w.clearError()
			w.log.Info("presence session connected", "client_id", cfg.ClientID)
			conn = w.latch(c, start)
			if !w.isRunning() {
				break
			}
			if conn == nil {
				w.wait(w.retryWait)
				continue
			}
		}

		w.wait(w.keepalive)
		if !w.isRunning() {
			break
		}
		latest, _, _ := w.current()
		if err := w.apply(conn, latest, start); err != nil {
			w.setStatus(presence.StatusError, err)
			conn = w.drop(conn)
			w.wait(w.retryWait)
			continue
		}
		w.acked(presence.StatusActive)
	}
}

// latch replays the activity on the burst schedule of a fresh session until
// it has been acknowledged stableAcks times. It returns nil when the session
// failed and was closed.
func (w *Worker) latch(conn Conn, start time.Time) Conn {
	streak := 0
	for _, delay := range w.burst {
		if !w.isRunning() {
			return conn
		}
		if delay > 0 {
			w.wait(delay)
			if !w.isRunning() {
				return conn
			}
		}
		latest, _, _ := w.current()
		if err := w.apply(conn, latest, start); err != nil {
			w.setStatus(presence.StatusError, err)
			return w.drop(conn)
		}
		streak++
		if streak >= w.stableAcks {
			w.acked(presence.StatusActive)
			return conn
		}
		w.acked(presence.StatusConnecting)
	}
	return conn
}

func (w *Worker) finish(conn Conn, done chan struct{}) {
	if conn != nil {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		if err := conn.ClearActivity(ctx); err != nil {
			w.log.Debug("clear activity failed", "error", err)
		}
		cancel()
		_ = conn.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running && w.ctx.Err() == nil {
		// Re-activated while shutting down.
		w.status = presence.StatusConnecting
		go w.run(done)
		return
	}
	w.startAt = time.Time{}
	w.status = presence.StatusInactive
	w.lastErr = presence.None[string]()
	w.alive = false
	close(done)
	w.log.Info("presence session stopped")
}

func (w *Worker) apply(conn Conn, cfg presence.Config, start time.Time) error {
	act, err := discord.BuildActivity(cfg, start)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(w.ctx, callTimeout)
	defer cancel()
	return conn.SetActivity(ctx, act)
}

func (w *Worker) drop(conn Conn) Conn {
	if conn != nil {
		_ = conn.Close()
	}
	return nil
}

func (w *Worker) wait(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-w.poke:
	case <-timer.C:
	case <-w.ctx.Done():
	}
}

func (w *Worker) isRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running && w.ctx.Err() == nil
}

func (w *Worker) current() (presence.Config, time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.startAt.IsZero() {
		w.startAt = w.now()
	}
	return w.cfg, w.startAt, w.hasCfg
}

func (w *Worker) setStatus(status presence.Status, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	if err != nil {
		w.lastErr = presence.Some(err.Error())
		w.log.Warn("presence session error", "error", err)
	}
}

func (w *Worker) clearError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastErr = presence.None[string]()
}

func (w *Worker) acked(status presence.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.lastErr = presence.None[string]()
}
