package control

import (
	"time"

	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/preview"
)

// Renderer derives the preview from the store and remembers its text.
type Renderer struct {
	store   *presence.Store
	resolve preview.Resolver
	now     func() time.Time
}

// NewRenderer builds a Renderer. Nil resolve uses preview.FileURL and nil now
// uses time.Now.
func NewRenderer(store *presence.Store, resolve preview.Resolver, now func() time.Time) *Renderer {
	if now == nil {
		now = time.Now
	}
	return &Renderer{store: store, resolve: resolve, now: now}
}

// Render derives the current preview.
func (r *Renderer) Render() preview.Preview {
	var p preview.Preview
	now := r.now()
	r.store.Render(func(snap presence.Snapshot) presence.RenderedText {
		p = preview.Derive(preview.Input{
			Draft:        snap.Draft,
			Images:       snap.Images,
			Previous:     snap.Text,
			SessionStart: snap.SessionStart,
			Now:          now,
			Resolve:      r.resolve,
		})
		return p.Text()
	})
	return p
}
