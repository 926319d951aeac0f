package discord

import (
	"strings"
	"time"
	"unicode"

	"github.com/five82/presence/internal/presence"
)

// MaxButtonLabel is the longest button label the client displays.
const MaxButtonLabel = 32

// Activity is the SET_ACTIVITY payload.
type Activity struct {
	Details    string           `json:"details,omitempty"`
	State      string           `json:"state,omitempty"`
	Timestamps *Timestamps      `json:"timestamps,omitempty"`
	Assets     *Assets          `json:"assets,omitempty"`
	Buttons    []ActivityButton `json:"buttons,omitempty"`
}

// Timestamps carries the elapsed-time start in unix seconds.
type Timestamps struct {
	Start int64 `json:"start"`
}

// Assets are image keys or URLs with hover text.
type Assets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

// ActivityButton is a clickable link under the presence.
type ActivityButton struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// BuildActivity converts cfg into a payload the client accepts. start is used
// only when cfg.WithTimestamp is set.
func BuildActivity(cfg presence.Config, start time.Time) (Activity, error) {
	act := Activity{
		Details: presence.NormalizeLine(cfg.Details),
		State:   presence.NormalizeLine(cfg.State),
	}
	if act.Details == "" && act.State == "" {
		return Activity{}, presence.ErrEmptyPresence
	}
	if cfg.WithTimestamp {
		act.Timestamps = &Timestamps{Start: start.Unix()}
	}

	assets := Assets{
		LargeImage: cfg.LargeImage.OrElse(""),
		LargeText:  cfg.LargeText.OrElse(""),
		SmallImage: cfg.SmallImage.OrElse(""),
		SmallText:  cfg.SmallText.OrElse(""),
	}
	if assets != (Assets{}) {
		act.Assets = &assets
	}

	buttons := cfg.Buttons
	if len(buttons) > presence.MaxButtons {
		buttons = buttons[:presence.MaxButtons]
	}
	for _, b := range buttons {
		if btn, ok := buildButton(b); ok {
			act.Buttons = append(act.Buttons, btn)
		}
	}
	return act, nil
}

func buildButton(b presence.Button) (ActivityButton, bool) {
	label := strings.TrimSpace(b.Label)
	link := stripSpace(b.URL)
	if label == "" || link == "" {
		return ActivityButton{}, false
	}
	if strings.HasPrefix(link, "http://") {
		link = "https://" + strings.TrimPrefix(link, "http://")
	}
	if !strings.HasPrefix(link, "https://") {
		return ActivityButton{}, false
	}
	if r := []rune(label); len(r) > MaxButtonLabel {
		label = string(r[:MaxButtonLabel])
	}
	return ActivityButton{Label: label, URL: link}, true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
