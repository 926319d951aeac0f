// Package backend defines the privileged presence backend the UI drives and
// ships the in-process implementation that talks to the Discord client.
package backend

import (
	"context"
	"strings"

	"github.com/five82/presence/internal/presence"
)

// Backend is everything the UI may ask of the presence backend. The UI never
// observes the backend's internals; Status is its only view of activation.
type Backend interface {
	Activate(ctx context.Context, cfg presence.Config) error
	PushUpdate(ctx context.Context, cfg presence.Config) error
	Deactivate(ctx context.Context, clientID string) error
	Status(ctx context.Context) (presence.Status, error)
	LastError(ctx context.Context) (presence.Option[string], error)
	FetchUser(ctx context.Context, clientID string) (UserProfile, error)
	FetchApp(ctx context.Context, clientID string) (AppMeta, error)
}

// UserProfile is the account connected to the social client.
type UserProfile struct {
	ID         string                  `json:"id"`
	Username   string                  `json:"username"`
	GlobalName presence.Option[string] `json:"global_name"`
	AvatarHash presence.Option[string] `json:"avatar_hash"`
	AvatarURL  presence.Option[string] `json:"avatar_url"`
}

// DisplayName prefers the global name over the username.
func (p UserProfile) DisplayName() string {
	if name, ok := p.GlobalName.Get(); ok && strings.TrimSpace(name) != "" {
		return name
	}
	return p.Username
}

// Handle is the username in @mention form, or empty.
func (p UserProfile) Handle() string {
	if p.Username == "" {
		return ""
	}
	return "@" + p.Username
}

// AppMeta is the public description of an application.
type AppMeta struct {
	Name     string                  `json:"name"`
	IconHash presence.Option[string] `json:"icon_hash"`
	IconURL  presence.Option[string] `json:"icon_url"`
}
