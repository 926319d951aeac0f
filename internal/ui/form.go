package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderForm renders the draft fields, scrolled so the focused row is visible.
func (m Model) renderForm(width, height int) string {
	styles := m.theme.Styles()
	inner := width - 2

	var rows []string
	focusRow := 0
	for i, f := range formFields {
		switch i {
		case 0:
			rows = append(rows, sectionTitle("Presence", inner, styles))
		case overridesStart:
			rows = append(rows, "", sectionTitle("Preview overrides", inner, styles))
		}
		if i == m.focus {
			focusRow = len(rows)
		}
		rows = append(rows, m.renderField(i, f, styles))
	}

	rows = scrollWindow(rows, focusRow, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

func (m Model) renderField(i int, f field, styles Styles) string {
	focused := i == m.focus

	marker := "  "
	labelStyle := styles.MutedText
	if focused {
		marker = styles.AccentText.Render("› ")
		labelStyle = styles.Text.Bold(true)
	}
	label := labelStyle.Render(padRight(f.label, labelWidth))

	var value string
	switch f.kind {
	case fieldCheck:
		box := "[ ]"
		if m.ctrl.Draft().WithTimestamp {
			box = "[x]"
		}
		boxStyle := styles.Text
		if focused {
			boxStyle = styles.Selected
		}
		value = boxStyle.Render(box) + " " + styles.FaintText.Render("show elapsed time")
	default:
		value = m.inputs[i].View()
	}
	return marker + label + value
}

// scrollWindow returns at most height rows, keeping row focus inside.
func scrollWindow(rows []string, focus, height int) []string {
	if height <= 0 || len(rows) <= height {
		return rows
	}
	start := focus - height/2
	if start < 0 {
		start = 0
	}
	if start+height > len(rows) {
		start = len(rows) - height
	}
	return rows[start : start+height]
}
