// Package prefs persists UI preferences that the user changes from inside the
// TUI. They live next to the config file in ~/.config/presence/prefs.toml and
// never affect what is published.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds UI preferences.
type Prefs struct {
	Theme       string `toml:"theme"`
	HidePreview bool   `toml:"hide_preview"`
	// ImageDir is where the image picker opens.
	ImageDir string `toml:"image_dir"`
}

const defaultPrefsPath = "~/.config/presence/prefs.toml"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Missing or unreadable files, and empty
// fields, yield the matching value from fallback.
func Load(path string, fallback Prefs) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return fallback
	}

	file, err := os.Open(resolved)
	if err != nil {
		return fallback
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fallback
	}

	var loaded Prefs
	if err := toml.Unmarshal(bytes, &loaded); err != nil {
		return fallback
	}

	loaded.Theme = strings.TrimSpace(loaded.Theme)
	if loaded.Theme == "" {
		loaded.Theme = fallback.Theme
	}
	loaded.ImageDir = strings.TrimSpace(loaded.ImageDir)
	if loaded.ImageDir == "" {
		loaded.ImageDir = fallback.ImageDir
	}
	return loaded
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
