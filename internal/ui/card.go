package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/preview"
)

// renderCard renders the live preview as a profile card.
func (m Model) renderCard(width, height int) string {
	styles := m.theme.Styles()
	p := m.preview
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(sectionTitle("Preview", inner, styles))
	b.WriteString("\n")

	name := p.Name
	if name == "" {
		name = "Your name"
	}
	b.WriteString(styles.Text.Bold(true).Render(truncate(name, inner)))
	if p.Handle != "" {
		b.WriteString(" " + styles.MutedText.Render(truncate(p.Handle, inner/2)))
	}
	b.WriteString("\n")
	if p.Status != "" {
		b.WriteString(styles.FaintText.Render(truncate(p.Status, inner)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	heading := "PLAYING"
	if p.AppName != "" {
		heading += " " + strings.ToUpper(p.AppName)
	}
	b.WriteString(styles.InfoText.Bold(true).Render(truncate(heading, inner)))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render(truncate(p.Details, inner)))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render(truncate(p.State, inner)))
	b.WriteString("\n")
	if p.Elapsed != preview.ElapsedOff {
		b.WriteString(styles.SuccessText.Render(p.Elapsed + " elapsed"))
		b.WriteString("\n")
	}
	if p.LargeCaption != "" {
		b.WriteString(styles.FaintText.Render(truncate("large: "+p.LargeCaption, inner)))
		b.WriteString("\n")
	}
	if p.SmallCaption != "" {
		b.WriteString(styles.FaintText.Render(truncate("small: "+p.SmallCaption, inner)))
		b.WriteString("\n")
	}

	buttons := false
	for _, btn := range p.Buttons {
		if !btn.Visible {
			continue
		}
		if !buttons {
			b.WriteString("\n")
			buttons = true
		}
		b.WriteString(styles.Selected.Render(" " + truncate(btn.Label, 32) + " "))
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(truncateMiddle(btn.Href, inner-lipgloss.Width(btn.Label)-4)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(imageLine("avatar", p.Avatar, inner, styles))
	b.WriteString(imageLine("card", p.Card, inner, styles))
	b.WriteString(imageLine("banner", p.Banner, inner, styles))

	boxHeight := height - 2
	if boxHeight < 1 {
		boxHeight = 1
	}
	return lipgloss.NewStyle().
		Width(width-2).
		Height(boxHeight).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Render(strings.TrimRight(b.String(), "\n"))
}

func imageLine(label string, src presence.Option[string], width int, styles Styles) string {
	value, ok := src.Get()
	if !ok {
		return styles.MutedText.Render(padRight(label, 8)) + styles.FaintText.Render("none") + "\n"
	}
	return styles.MutedText.Render(padRight(label, 8)) + styles.Text.Render(truncateMiddle(value, width-8)) + "\n"
}
