package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/presence/internal/backend"
	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/state"
)

// Flusher persists the current draft immediately.
type Flusher interface {
	Flush()
}

// Gateway runs user commands against the backend.
type Gateway struct {
	backend  backend.Backend
	store    *presence.Store
	session  *state.Session
	saver    Flusher
	renderer *Renderer
	log      *slog.Logger
}

// NewGateway builds a Gateway.
func NewGateway(b backend.Backend, store *presence.Store, session *state.Session, saver Flusher, renderer *Renderer, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		backend:  b,
		store:    store,
		session:  session,
		saver:    saver,
		renderer: renderer,
		log:      logger,
	}
}

// Activate asks the backend to start publishing the draft. Success only means
// the request was accepted; the reconciler reports when it is live.
func (g *Gateway) Activate(ctx context.Context) error {
	cfg, err := g.store.Draft().Validate()
	if err != nil {
		return g.reject("activate", err)
	}
	return g.run(ctx, "activate", "Connecting presence...", func(ctx context.Context) (state.Banner, error) {
		if err := g.backend.Activate(ctx, cfg); err != nil {
			return state.Banner{}, err
		}
		return progress(MsgConnecting), nil
	})
}

// Deactivate asks the backend to stop publishing.
func (g *Gateway) Deactivate(ctx context.Context) error {
	id, err := g.store.Draft().RequireClientID()
	if err != nil {
		return g.reject("deactivate", err)
	}
	return g.run(ctx, "deactivate", "Turning presence off...", func(ctx context.Context) (state.Banner, error) {
		if err := g.backend.Deactivate(ctx, id); err != nil {
			return state.Banner{}, err
		}
		return neutral(MsgInactive), nil
	})
}

// PushUpdate sends the current draft to an active backend.
func (g *Gateway) PushUpdate(ctx context.Context) error {
	cfg, err := g.store.Draft().Validate()
	if err != nil {
		return g.reject("update", err)
	}
	return g.run(ctx, "update", "Updating presence...", func(ctx context.Context) (state.Banner, error) {
		if err := g.backend.PushUpdate(ctx, cfg); err != nil {
			return state.Banner{}, err
		}
		return success("Presence updated."), nil
	})
}

// FetchUser syncs the connected account's avatar and names into the preview.
func (g *Gateway) FetchUser(ctx context.Context) error {
	id, err := g.store.Draft().RequireClientID()
	if err != nil {
		return g.reject("sync user", err)
	}
	return g.run(ctx, "sync user", "Syncing profile...", func(ctx context.Context) (state.Banner, error) {
		profile, err := g.backend.FetchUser(ctx, id)
		if err != nil {
			return state.Banner{}, err
		}
		g.store.SetUserProfile(profile.AvatarURL, profile.DisplayName(), profile.Handle())
		return success(fmt.Sprintf("Profile synced: %s.", profile.DisplayName())), nil
	})
}

// FetchApp syncs the application's name and icon into the preview.
func (g *Gateway) FetchApp(ctx context.Context) error {
	id, err := g.store.Draft().RequireClientID()
	if err != nil {
		return g.reject("sync app", err)
	}
	return g.run(ctx, "sync app", "Fetching application...", func(ctx context.Context) (state.Banner, error) {
		meta, err := g.backend.FetchApp(ctx, id)
		if err != nil {
			return state.Banner{}, err
		}
		g.store.SetAppMeta(meta.IconURL, meta.Name)
		return success(fmt.Sprintf("Application synced: %s.", meta.Name)), nil
	})
}

// run executes call while holding the busy token. On success the preview
// text is re-rendered and the draft persisted before the banner is shown.
func (g *Gateway) run(ctx context.Context, op, pending string, call func(context.Context) (state.Banner, error)) error {
	if !g.session.TryBegin(op) {
		return ErrBusy
	}
	defer g.session.End()

	g.session.PublishBanner(state.OwnerGateway, progress(pending))
	done, err := call(ctx)
	if err != nil {
		g.log.Warn("command failed", "op", op, "error", err)
		g.session.PublishBanner(state.OwnerGateway, warning(err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	if g.renderer != nil {
		g.renderer.Render()
	}
	if g.saver != nil {
		g.saver.Flush()
	}
	g.log.Info("command succeeded", "op", op)
	g.session.PublishBanner(state.OwnerGateway, done)
	return nil
}

// reject reports a validation failure without touching the backend.
func (g *Gateway) reject(op string, err error) error {
	if g.session.TryBegin(op) {
		g.session.PublishBanner(state.OwnerGateway, warning(err.Error()))
		g.session.End()
	}
	return err
}
