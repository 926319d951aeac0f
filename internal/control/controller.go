package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/presence/internal/autosave"
	"github.com/five82/presence/internal/backend"
	"github.com/five82/presence/internal/notify"
	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/preview"
	"github.com/five82/presence/internal/slot"
	"github.com/five82/presence/internal/state"
)

// Options configure a Controller.
type Options struct {
	Backend  backend.Backend
	Slot     slot.Slot
	Store    *presence.Store // nil allocates one
	Session  *state.Session  // nil allocates one
	Notifier notify.Notifier
	Resolve  preview.Resolver

	Cooldown        time.Duration // zero uses state.ToggleCooldown
	MaxPollFailures int
	Now             func() time.Time
	Logger          *slog.Logger

	// Autosave overrides the debounce settings; Logger is filled in.
	Autosave autosave.Options
}

// Controller is the command surface of the UI.
type Controller struct {
	store      *presence.Store
	session    *state.Session
	saver      *autosave.Saver
	renderer   *Renderer
	gateway    *Gateway
	reconciler *Reconciler
	cooldown   time.Duration
	now        func() time.Time
	log        *slog.Logger
}

// New wires a Controller from opts.
func New(opts Options) *Controller {
	c := &Controller{
		store:    opts.Store,
		session:  opts.Session,
		cooldown: opts.Cooldown,
		now:      opts.Now,
		log:      opts.Logger,
	}
	if c.store == nil {
		c.store = &presence.Store{}
	}
	if c.session == nil {
		c.session = &state.Session{}
	}
	if c.cooldown <= 0 {
		c.cooldown = state.ToggleCooldown
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.store.Now == nil {
		c.store.Now = c.now
	}

	saveOpts := opts.Autosave
	if saveOpts.Logger == nil {
		saveOpts.Logger = c.log.With("component", "autosave")
	}
	c.saver = autosave.New(opts.Slot, c.record, saveOpts)
	c.renderer = NewRenderer(c.store, opts.Resolve, c.now)
	c.gateway = NewGateway(opts.Backend, c.store, c.session, c.saver, c.renderer, c.log.With("component", "gateway"))
	c.reconciler = NewReconciler(opts.Backend, c.session, opts.Notifier, opts.MaxPollFailures, c.log.With("component", "reconciler"))
	return c
}

func (c *Controller) record() autosave.Record {
	snap := c.store.Snapshot()
	return autosave.Record{
		Draft:  snap.Draft,
		Images: snap.Images,
		Text:   snap.Text,
	}
}

// Load restores the persisted draft, or starts from an empty one. It reports
// whether a saved draft was found.
func (c *Controller) Load() bool {
	rec, ok := c.saver.Load()
	if !ok {
		c.store.Restore(presence.Draft{}, presence.CachedImages{}, presence.RenderedText{})
		return false
	}
	c.store.Restore(rec.Draft, rec.Images, rec.Text)
	c.log.Info("draft restored", "client_id", rec.Draft.ClientID)
	return true
}

// Draft returns the current draft.
func (c *Controller) Draft() presence.Draft {
	return c.store.Draft()
}

// Edit changes the draft and schedules a save.
func (c *Controller) Edit(fn func(*presence.Draft)) presence.Draft {
	d := c.store.Edit(fn)
	c.saver.Schedule()
	return d
}

// Preview renders the current preview.
func (c *Controller) Preview() preview.Preview {
	return c.renderer.Render()
}

// Session returns a copy of the UI session.
func (c *Controller) Session() state.Snapshot {
	return c.session.Snapshot()
}

// Poll runs one reconciliation tick.
func (c *Controller) Poll(ctx context.Context) (presence.Status, error) {
	return c.reconciler.Poll(ctx)
}

// Toggle flips the presence based on freshly polled status. Requests inside
// the cooldown window or while busy are rejected without side effects.
func (c *Controller) Toggle(ctx context.Context) error {
	if !c.session.AcceptToggle(c.now(), c.cooldown) {
		return ErrCooldown
	}
	if c.session.Busy() {
		return ErrBusy
	}
	status, err := c.reconciler.Poll(ctx)
	if err != nil {
		return fmt.Errorf("refresh status: %w", err)
	}
	if status.Live() {
		return c.gateway.Deactivate(ctx)
	}
	return c.gateway.Activate(ctx)
}

// Update pushes the current draft to the backend.
func (c *Controller) Update(ctx context.Context) error {
	return c.gateway.PushUpdate(ctx)
}

// SyncUser fetches the connected account into the preview.
func (c *Controller) SyncUser(ctx context.Context) error {
	return c.gateway.FetchUser(ctx)
}

// SyncApp fetches the application metadata into the preview.
func (c *Controller) SyncApp(ctx context.Context) error {
	return c.gateway.FetchApp(ctx)
}

// Save persists the draft now.
func (c *Controller) Save() {
	c.saver.Flush()
	if c.session.TryBegin("save") {
		c.session.PublishBanner(state.OwnerGateway, success("Draft saved."))
		c.session.End()
	}
}

// Close cancels any pending save. Edits made after Close are not persisted.
func (c *Controller) Close() {
	c.saver.Stop()
}
