package control

import (
	"errors"

	"github.com/five82/presence/internal/state"
)

// Banner texts for polled status.
const (
	MsgActive       = "Presence live."
	MsgConnecting   = "Attempting to apply presence..."
	MsgInactive     = "Presence off."
	MsgErrorDefault = "Presence error: the client rejected the update or is unreachable."
	msgPollFailed   = "Status check failed: "
)

var (
	// ErrBusy is returned when a command starts while another is in flight.
	ErrBusy = errors.New("another action is still running")
	// ErrCooldown is returned for a toggle inside the cooldown window.
	ErrCooldown = errors.New("toggle ignored: wait a moment before toggling again")
)

func progress(text string) state.Banner {
	return state.Banner{Level: state.LevelProgress, Text: text}
}

func success(text string) state.Banner {
	return state.Banner{Level: state.LevelSuccess, Text: text}
}

func warning(text string) state.Banner {
	return state.Banner{Level: state.LevelWarning, Text: text}
}

func neutral(text string) state.Banner {
	return state.Banner{Level: state.LevelNeutral, Text: text}
}
