package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

var fallback = Prefs{Theme: "Nightfox", ImageDir: "/home/user/Pictures"}

func TestLoad_MissingFileUsesFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if p := Load("", fallback); p != fallback {
		t.Fatalf("Load = %#v, want %#v", p, fallback)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "presence")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	body := "theme = \"Slate\"\nhide_preview = true\n"
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("", fallback)
	if p.Theme != "Slate" || !p.HidePreview {
		t.Fatalf("Load = %#v", p)
	}
	if p.ImageDir != fallback.ImageDir {
		t.Fatalf("ImageDir = %q, want fallback %q", p.ImageDir, fallback.ImageDir)
	}
}

func TestSave_RoundTripsThroughNewDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	want := Prefs{Theme: "Kanagawa", ImageDir: "/tmp/art"}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := Load(path, fallback); got != want {
		t.Fatalf("Load = %#v, want %#v", got, want)
	}
}

func TestLoad_BadFilesFallBack(t *testing.T) {
	tests := map[string]string{
		"invalid toml": "not valid toml {{{\n",
		"empty theme":  "theme = \"  \"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if p := Load(path, fallback); p.Theme != fallback.Theme {
				t.Fatalf("Theme = %q, want %q", p.Theme, fallback.Theme)
			}
		})
	}
}
