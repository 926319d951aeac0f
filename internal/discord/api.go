package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAPIBase = "https://discord.com/api/v10"
	DefaultCDNBase = "https://cdn.discordapp.com"

	defaultUserAgent = "presence/0.1"
	requestTimeout   = 5 * time.Second

	avatarSize  = 128
	appIconSize = 256
)

// Application is the public metadata of a Discord application.
type Application struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

// APIClient talks to the Discord HTTP API.
type APIClient struct {
	apiBase   *url.URL
	cdnBase   *url.URL
	http      *http.Client
	userAgent string
}

// NewAPIClient builds a client for the given API and CDN roots. Empty values
// use the public endpoints.
func NewAPIClient(apiBase, cdnBase string) (*APIClient, error) {
	api, err := parseBase(apiBase, DefaultAPIBase)
	if err != nil {
		return nil, err
	}
	cdn, err := parseBase(cdnBase, DefaultCDNBase)
	if err != nil {
		return nil, err
	}
	return &APIClient{
		apiBase: api,
		cdnBase: cdn,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchApplication retrieves the RPC metadata of clientID.
func (c *APIClient) FetchApplication(ctx context.Context, clientID string) (Application, error) {
	if c == nil {
		return Application{}, fmt.Errorf("client is nil")
	}
	id := strings.TrimSpace(clientID)
	if id == "" {
		return Application{}, fmt.Errorf("client id required")
	}
	var app Application
	if err := c.get(ctx, c.apiBase.JoinPath("oauth2", "applications", id, "rpc"), &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// AppIconURL returns the CDN URL of an application icon.
func (c *APIClient) AppIconURL(appID, hash string) string {
	u := c.cdnBase.JoinPath("app-icons", appID, hash+".png")
	u.RawQuery = fmt.Sprintf("size=%d", appIconSize)
	return u.String()
}

// AvatarURL returns the CDN URL of a user avatar. Animated hashes use gif.
func (c *APIClient) AvatarURL(userID, hash string) string {
	ext := "png"
	if strings.HasPrefix(hash, "a_") {
		ext = "gif"
	}
	u := c.cdnBase.JoinPath("avatars", userID, hash+"."+ext)
	u.RawQuery = fmt.Sprintf("size=%d", avatarSize)
	return u.String()
}

func (c *APIClient) get(ctx context.Context, reqURL *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", reqURL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBase(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		trimmed = fallback
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
