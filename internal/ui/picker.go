package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// openPicker shows the image picker for the focused image field.
func (m Model) openPicker() (tea.Model, tea.Cmd) {
	if m.focusedKind() != fieldImage {
		m.setFlash("Focus the avatar, banner or card field to pick an image.")
		return m, nil
	}

	fp := filepicker.New()
	fp.AllowedTypes = imageTypes
	fp.CurrentDirectory = m.startDir()
	fp.AutoHeight = true
	fp.ShowPermissions = false
	fp.Styles.Cursor = fp.Styles.Cursor.Foreground(lipgloss.Color(m.theme.Accent))
	fp.Styles.Selected = fp.Styles.Selected.Foreground(lipgloss.Color(m.theme.Accent)).Bold(true)
	fp.Styles.Directory = fp.Styles.Directory.Foreground(lipgloss.Color(m.theme.Info))
	fp.Styles.File = fp.Styles.File.Foreground(lipgloss.Color(m.theme.Text))
	fp.Styles.DisabledFile = fp.Styles.DisabledFile.Foreground(lipgloss.Color(m.theme.Faint))

	m.picker, _ = fp.Update(m.pickerSize())
	m.picking = true
	return m, m.picker.Init()
}

// pickerSize sizes the picker to the space under its title.
func (m Model) pickerSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: m.height - 4}
}

// handlePickerKey routes keys while the picker is open. Esc leaves the field
// untouched.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m.applyPick(path), cmd
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setFlash("Not an image: " + truncateMiddle(path, 48))
	}
	return m, cmd
}

func (m Model) renderPicker() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Pick " + strings.ToLower(formFields[m.focus].label) + " image"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(truncateMiddle(m.picker.CurrentDirectory, m.width/2)))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	hint := "enter select  esc cancel"
	if m.flash != "" {
		hint = m.flash
	}
	b.WriteString(styles.MutedText.Render(hint))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
