package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/presence/internal/presence"
)

// renderHeader renders the status bar: logo, activation badge and banner.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	status := m.session.Activation
	if status == "" {
		status = presence.StatusInactive
	}

	parts := []string{
		bg.Render("presence", styles.Logo),
		styles.StatusStyle(status).Render(strings.ToUpper(status.String())),
	}

	banner := m.session.Banner
	if banner.Text != "" {
		text := bg.Render(banner.Text, styles.BannerStyle(banner.Level))
		if m.session.Busy() {
			text = m.spinner.View() + bg.Space() + text
		}
		parts = append(parts, text)
	}

	if !m.session.LastPoll.IsZero() && m.width >= 100 {
		parts = append(parts, bg.Render("checked "+m.session.LastPoll.Format("15:04:05"), styles.FaintText))
	}

	return bg.FillLine(styles.Header.Render(bg.Join(parts, sep)), m.width)
}

// renderFooter renders the key hints, or a flash hint after a rejected action.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.flash != "" {
		return bg.FillLine(styles.Footer.Render(bg.Render(m.flash, styles.WarningText)), m.width)
	}

	return bg.FillLine(styles.Footer.Render(bg.Join(shortHelp(m.keys.ShortHelp(), bg, styles), "  ")), m.width)
}

func shortHelp(bindings []key.Binding, bg BgStyle, styles Styles) []string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, bg.Render(h.Key, styles.AccentText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
	}
	return parts
}

// sectionTitle renders a form or card heading with a rule to width.
func sectionTitle(title string, width int, styles Styles) string {
	rule := width - lipgloss.Width(title) - 1
	if rule < 0 {
		rule = 0
	}
	return styles.AccentText.Bold(true).Render(title) + " " + styles.FaintText.Render(strings.Repeat("─", rule))
}
