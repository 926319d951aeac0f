package discord

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSocket is returned when no IPC socket exists in any search directory.
var ErrNoSocket = errors.New("discord ipc socket not found; is the desktop client running?")

const socketSlots = 10

// SocketDirs lists the directories searched for IPC sockets, in order.
func SocketDirs() []string {
	var dirs []string
	if xdg := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); xdg != "" {
		dirs = append(dirs, xdg)
	}
	dirs = append(dirs, fmt.Sprintf("/run/user/%d", os.Geteuid()), "/tmp")
	return dirs
}

// FindSocket returns the first discord-ipc-N path that exists under dirs.
func FindSocket(dirs []string) (string, error) {
	for _, dir := range dirs {
		for i := 0; i < socketSlots; i++ {
			path := filepath.Join(dir, fmt.Sprintf("discord-ipc-%d", i))
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", ErrNoSocket
}
