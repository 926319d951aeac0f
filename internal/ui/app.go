package ui

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/presence/internal/control"
	"github.com/five82/presence/internal/prefs"
	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/preview"
	"github.com/five82/presence/internal/state"
)

const (
	// refreshEvery is how often the session and preview are re-read.
	refreshEvery = 250 * time.Millisecond
	// flashFor is how long a rejected-action hint stays in the footer.
	flashFor = 3 * time.Second
	// labelWidth is the width of the form label column.
	labelWidth = 16
)

// imageTypes are the file extensions the image picker offers.
var imageTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *control.Controller
	Prefs      prefs.Prefs
	PrefsPath  string
	Logger     *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *control.Controller
	log       *slog.Logger
	keys      keyMap
	prefs     prefs.Prefs
	prefsPath string
	now       func() time.Time

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Form state
	inputs []textinput.Model
	focus  int

	// Data state
	session state.Snapshot
	preview preview.Preview
	spinner spinner.Model

	// Footer hint for rejected actions
	flash   string
	flashAt time.Time

	// Overlays
	showHelp bool
	picking  bool
	picker   filepicker.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		log:       logger,
		keys:      DefaultKeyMap(),
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		now:       time.Now,
		theme:     GetTheme(opts.Prefs.Theme),
		spinner:   s,
	}
	m.inputs = newInputs(m.ctrl.Draft())
	m.focusField(0)
	m.applyTheme()
	m.refresh()
	return m
}

func newInputs(d presence.Draft) []textinput.Model {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		if f.kind == fieldCheck {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.placeholder
		ti.CharLimit = f.limit
		ti.SetValue(f.get(d))
		inputs[i] = ti
	}
	return inputs
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		tickCmd(refreshEvery),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeInputs()
		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(m.pickerSize())
			return m, cmd
		}
		return m, nil

	case tickMsg:
		m.refresh()
		if !m.flashAt.IsZero() && m.now().Sub(m.flashAt) >= flashFor {
			m.flash = ""
			m.flashAt = time.Time{}
		}
		return m, tickCmd(refreshEvery)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case actionDoneMsg:
		m.handleActionDone(msg)
		return m, nil
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input messages
	var cmd tea.Cmd
	if m.focusedKind() != fieldCheck {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.picking {
		return m.renderPicker()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.picking {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.TogglePreview):
		m.prefs.HidePreview = !m.prefs.HidePreview
		m.resizeInputs()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.focusField((m.focus + 1) % len(formFields))
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Prev):
		m.focusField((m.focus - 1 + len(formFields)) % len(formFields))
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Toggle):
		return m.startAction("toggle", m.ctrl.Toggle)

	case key.Matches(msg, m.keys.Update):
		return m.startAction("update", m.ctrl.Update)

	case key.Matches(msg, m.keys.SyncUser):
		return m.startAction("sync user", m.ctrl.SyncUser)

	case key.Matches(msg, m.keys.SyncApp):
		return m.startAction("sync app", m.ctrl.SyncApp)

	case key.Matches(msg, m.keys.Save):
		m.ctrl.Save()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Pick):
		return m.openPicker()
	}

	if m.focusedKind() == fieldCheck {
		if key.Matches(msg, m.keys.Check) {
			d := m.ctrl.Edit(func(d *presence.Draft) { d.WithTimestamp = !d.WithTimestamp })
			m.log.Debug("timestamp toggled", "with_timestamp", d.WithTimestamp)
			m.refresh()
		}
		return m, nil
	}

	return m.editFocused(msg)
}

// editFocused forwards a key to the focused input and records any change in
// the draft.
func (m Model) editFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.setField(m.focus, after)
	}
	return m, cmd
}

func (m *Model) setField(i int, value string) {
	set := formFields[i].set
	m.ctrl.Edit(func(d *presence.Draft) { set(d, value) })
	m.refresh()
}

func (m *Model) focusField(i int) {
	if m.focusedKind() != fieldCheck {
		m.inputs[m.focus].Blur()
	}
	m.focus = i
	if m.focusedKind() != fieldCheck {
		m.inputs[m.focus].Focus()
	}
}

func (m Model) focusedKind() fieldKind {
	return formFields[m.focus].kind
}

// refresh re-reads the session and re-derives the preview.
func (m *Model) refresh() {
	m.session = m.ctrl.Session()
	m.preview = m.ctrl.Preview()
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	for i := range m.inputs {
		m.inputs[i].TextStyle = styles.Text
		m.inputs[i].PlaceholderStyle = styles.FaintText
	}
}

func (m *Model) resizeInputs() {
	width := m.formWidth() - labelWidth - 4
	if width < 10 {
		width = 10
	}
	for i := range m.inputs {
		m.inputs[i].Width = width
	}
}

// formWidth is the width of the form column; the preview takes the rest.
func (m Model) formWidth() int {
	if m.prefs.HidePreview || m.width < 90 {
		return m.width
	}
	return m.width * 3 / 5
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashAt = m.now()
}

// startAction hands a controller command to runAction unless another one is
// still in flight.
func (m Model) startAction(name string, fn func(context.Context) error) (tea.Model, tea.Cmd) {
	m.refresh()
	if m.session.Busy() {
		m.setFlash(control.ErrBusy.Error())
		return m, nil
	}
	return m, m.runAction(name, fn)
}

// runAction runs a controller command off the update loop.
func (m Model) runAction(name string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{name: name, err: fn(ctx)}
	}
}

func (m *Model) handleActionDone(msg actionDoneMsg) {
	m.refresh()
	if msg.err == nil {
		return
	}
	if errors.Is(msg.err, control.ErrCooldown) || errors.Is(msg.err, control.ErrBusy) {
		m.setFlash(msg.err.Error())
		return
	}
	// Everything else is already on the banner.
	m.log.Debug("action failed", "action", msg.name, "error", msg.err)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	form := m.renderForm(m.formWidth(), bodyHeight)
	body := form
	if m.formWidth() < m.width {
		card := m.renderCard(m.width-m.formWidth(), bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, form, card)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Messages

type tickMsg time.Time

type actionDoneMsg struct {
	name string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// startDir is where the picker opens.
func (m Model) startDir() string {
	if dir := m.prefs.ImageDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// applyPick writes a picked file into the focused image field and remembers
// its directory.
func (m Model) applyPick(path string) Model {
	m.picking = false
	m.inputs[m.focus].SetValue(path)
	m.setField(m.focus, path)
	m.prefs.ImageDir = filepath.Dir(path)
	m.savePrefs()
	return m
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
