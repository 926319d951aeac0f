package ui

import (
	"testing"

	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/state"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestGetThemeFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(\"\").Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesColorEveryStatus(t *testing.T) {
	statuses := []presence.Status{
		presence.StatusInactive,
		presence.StatusConnecting,
		presence.StatusActive,
		presence.StatusError,
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, s := range statuses {
			if th.StatusColors[s] == "" {
				t.Fatalf("theme %s has no color for status %s", name, s)
			}
		}
	}
}

func TestBannerStyleByLevel(t *testing.T) {
	styles := GetTheme("Nightfox").Styles()
	if got, want := styles.BannerStyle(state.LevelWarning).GetBold(), true; got != want {
		t.Fatalf("warning banner bold = %v, want %v", got, want)
	}
	if got := styles.BannerStyle(state.LevelSuccess).GetForeground(); got != styles.SuccessText.GetForeground() {
		t.Fatalf("success banner foreground = %v, want %v", got, styles.SuccessText.GetForeground())
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("/home/user/pictures/avatar.png", 12)
	if len([]rune(got)) != 12 {
		t.Fatalf("truncateMiddle length = %d, want 12 (%q)", len([]rune(got)), got)
	}
	if got[len(got)-3:] != "png" {
		t.Fatalf("truncateMiddle = %q, want file extension kept", got)
	}
}

func TestScrollWindowKeepsFocusVisible(t *testing.T) {
	rows := []string{"a", "b", "c", "d", "e", "f"}
	cases := []struct {
		focus  int
		height int
		first  string
	}{
		{0, 3, "a"},
		{3, 3, "c"},
		{5, 3, "d"},
		{2, 10, "a"},
	}
	for _, tc := range cases {
		got := scrollWindow(rows, tc.focus, tc.height)
		if got[0] != tc.first {
			t.Fatalf("scrollWindow(focus=%d, height=%d)[0] = %q, want %q", tc.focus, tc.height, got[0], tc.first)
		}
	}
}
