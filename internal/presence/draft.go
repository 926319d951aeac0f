package presence

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MinLineLength is the shortest details/state text the client accepts.
const MinLineLength = 2

// MaxButtons is the number of buttons a presence can carry.
const MaxButtons = 2

var (
	// ErrMissingClientID is returned when a command needs an application id.
	ErrMissingClientID = errors.New("client id is required")
	// ErrEmptyPresence is returned by the backend when neither text line
	// survives normalization.
	ErrEmptyPresence = errors.New("fill in details or state with at least 2 characters")
)

// Button is one (label, url) pair shown under the presence.
type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Complete reports whether both fields are filled in.
func (b Button) Complete() bool {
	return strings.TrimSpace(b.Label) != "" && strings.TrimSpace(b.URL) != ""
}

// Overrides are preview-only fields. They never reach the backend.
type Overrides struct {
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	Status    string `json:"status"`
	AvatarSrc string `json:"avatar_src"`
	BannerSrc string `json:"banner_src"`
	CardSrc   string `json:"card_src"`
}

// Draft is the user-edited presence configuration.
type Draft struct {
	ClientID      string             `json:"client_id"`
	Details       string             `json:"details"`
	State         string             `json:"state"`
	LargeImage    string             `json:"large_image"`
	LargeText     string             `json:"large_text"`
	SmallImage    string             `json:"small_image"`
	SmallText     string             `json:"small_text"`
	Buttons       [MaxButtons]Button `json:"buttons"`
	WithTimestamp bool               `json:"with_timestamp"`
	Overrides     Overrides          `json:"overrides"`
}

// CachedImages are URLs resolved by metadata lookups.
type CachedImages struct {
	UserAvatar Option[string] `json:"user_avatar"`
	AppIcon    Option[string] `json:"app_icon"`
}

// RenderedText is the preview text last shown to the user.
type RenderedText struct {
	Name    string `json:"name"`
	Handle  string `json:"handle"`
	Status  string `json:"status"`
	AppName string `json:"app_name"`
}

// Config is the normalized payload sent to the backend.
type Config struct {
	ClientID      string         `json:"client_id"`
	Details       string         `json:"details"`
	State         string         `json:"state"`
	LargeImage    Option[string] `json:"large_image"`
	LargeText     Option[string] `json:"large_text"`
	SmallImage    Option[string] `json:"small_image"`
	SmallText     Option[string] `json:"small_text"`
	Buttons       []Button       `json:"buttons"`
	WithTimestamp bool           `json:"with_timestamp"`
}

// NormalizeLine trims s and drops it when shorter than MinLineLength.
func NormalizeLine(s string) string {
	trimmed := strings.TrimSpace(s)
	if utf8.RuneCountInString(trimmed) < MinLineLength {
		return ""
	}
	return trimmed
}

// Config converts the draft into a backend payload.
func (d Draft) Config() Config {
	cfg := Config{
		ClientID:      strings.TrimSpace(d.ClientID),
		Details:       NormalizeLine(d.Details),
		State:         NormalizeLine(d.State),
		LargeImage:    Text(d.LargeImage),
		LargeText:     Text(d.LargeText),
		SmallImage:    Text(d.SmallImage),
		SmallText:     Text(d.SmallText),
		WithTimestamp: d.WithTimestamp,
	}
	for _, b := range d.Buttons {
		if !b.Complete() {
			continue
		}
		cfg.Buttons = append(cfg.Buttons, Button{
			Label: strings.TrimSpace(b.Label),
			URL:   strings.TrimSpace(b.URL),
		})
	}
	return cfg
}

// RequireClientID returns the trimmed id or ErrMissingClientID.
func (d Draft) RequireClientID() (string, error) {
	id := strings.TrimSpace(d.ClientID)
	if id == "" {
		return "", ErrMissingClientID
	}
	return id, nil
}

// Validate returns the payload for activate/update commands. Lines shorter
// than MinLineLength are dropped from the payload, not rejected.
func (d Draft) Validate() (Config, error) {
	if _, err := d.RequireClientID(); err != nil {
		return Config{}, err
	}
	return d.Config(), nil
}
