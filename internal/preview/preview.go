// Package preview derives the renderable presence preview from a draft.
package preview

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/presence/internal/presence"
)

const (
	// Placeholder is shown for empty details/state lines.
	Placeholder = "-"
	// ElapsedOff is shown when the timestamp flag is off.
	ElapsedOff = "off"
)

// Resolver turns a local image path into a displayable URL.
type Resolver func(path string) (string, error)

// Input is everything a preview depends on.
type Input struct {
	Draft        presence.Draft
	Images       presence.CachedImages
	Previous     presence.RenderedText
	SessionStart time.Time
	Now          time.Time
	Resolve      Resolver // nil uses FileURL
}

// Button is a rendered presence button.
type Button struct {
	Visible bool
	Label   string
	Href    string
}

// Preview is the renderable model of the presence card.
type Preview struct {
	Details      string
	State        string
	Elapsed      string
	LargeCaption string
	SmallCaption string
	Buttons      [presence.MaxButtons]Button

	Avatar presence.Option[string]
	Card   presence.Option[string]
	Banner presence.Option[string]

	Name    string
	Handle  string
	Status  string
	AppName string
}

// Text returns the preview text that should be remembered for the next render.
func (p Preview) Text() presence.RenderedText {
	return presence.RenderedText{
		Name:    p.Name,
		Handle:  p.Handle,
		Status:  p.Status,
		AppName: p.AppName,
	}
}

// Derive builds the preview. It never fails; unresolvable images become none.
func Derive(in Input) Preview {
	resolve := in.Resolve
	if resolve == nil {
		resolve = FileURL
	}
	d := in.Draft
	cfg := d.Config()

	p := Preview{
		Details:      orPlaceholder(cfg.Details),
		State:        orPlaceholder(cfg.State),
		Elapsed:      ElapsedOff,
		LargeCaption: cfg.LargeText.OrElse(""),
		SmallCaption: cfg.SmallText.OrElse(""),
		Name:         override(d.Overrides.Name, in.Previous.Name),
		Handle:       override(d.Overrides.Handle, in.Previous.Handle),
		Status:       override(d.Overrides.Status, in.Previous.Status),
		AppName:      in.Previous.AppName,
	}
	if d.WithTimestamp {
		p.Elapsed = FormatElapsed(in.Now.Sub(in.SessionStart))
	}
	for i, b := range d.Buttons {
		if !b.Complete() {
			continue
		}
		p.Buttons[i] = Button{
			Visible: true,
			Label:   strings.TrimSpace(b.Label),
			Href:    strings.TrimSpace(b.URL),
		}
	}

	p.Avatar = ResolveSource(d.Overrides.AvatarSrc, resolve).
		Or(in.Images.UserAvatar).
		Or(in.Images.AppIcon)
	p.Card = ResolveSource(d.Overrides.CardSrc, resolve).
		Or(in.Images.AppIcon).
		Or(p.Avatar)
	p.Banner = ResolveSource(d.Overrides.BannerSrc, resolve)
	return p
}

// FormatElapsed renders d as mm:ss. Minutes are not wrapped into hours.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ResolveSource accepts absolute network URLs as-is and hands anything else to
// resolve as a local path.
func ResolveSource(src string, resolve Resolver) presence.Option[string] {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return presence.None[string]()
	}
	if IsNetworkURL(trimmed) {
		return presence.Some(trimmed)
	}
	if resolve == nil {
		return presence.None[string]()
	}
	out, err := resolve(trimmed)
	if err != nil || out == "" {
		return presence.None[string]()
	}
	return presence.Some(out)
}

// IsNetworkURL reports whether s is an absolute http(s) URL.
func IsNetworkURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// FileURL converts an existing local file into a file:// URL.
func FileURL(path string) (string, error) {
	expanded := path
	if strings.HasPrefix(expanded, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve image path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("image path %q is a directory", abs)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func override(manual, previous string) string {
	if v := strings.TrimSpace(manual); v != "" {
		return v
	}
	return previous
}
