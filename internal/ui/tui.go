// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow-go/internal/todo"
	"github.com/nibzard/taskflow-go/internal/utils"
)

const titleWidth = 60

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	settings Settings
	darkMode bool
	logger   *log.Logger
	input    io.Reader
	output   io.Writer
}

// WithSettings sets where the theme choice is read from and saved to.
func WithSettings(s Settings) TUIOption {
	return func(c *tuiConfig) {
		c.settings = s
	}
}

// WithDarkMode sets the theme used when no choice has been stored.
func WithDarkMode(dark bool) TUIOption {
	return func(c *tuiConfig) {
		c.darkMode = dark
	}
}

// WithLogger sets the logger. It must not write to the terminal.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIO replaces the terminal input and output.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.input = in
		c.output = out
	}
}

// RunTUI runs the interactive task list until the user quits or ctx is done.
func RunTUI(ctx context.Context, store *todo.Store, opts ...TUIOption) error {
	c := &tuiConfig{
		darkMode: true,
		logger:   log.New(io.Discard),
		input:    os.Stdin,
		output:   os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, c)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(c.input),
		tea.WithOutput(c.output),
	)
	if _, err := program.Run(); err != nil {
		return err
	}
	return store.Err()
}

type tuiModel struct {
	store    *todo.Store
	settings Settings
	logger   *log.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model

	view     todo.View
	cursor   int
	dark     bool
	theme    theme
	showHelp bool
	notice   string
}

func newTUIModel(store *todo.Store, c *tuiConfig) *tuiModel {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	// Stored titles have no length limit, so neither does the input.
	input.CharLimit = 0
	input.Prompt = "> "
	input.Focus()

	dark := loadDarkMode(c.settings, c.darkMode)
	m := &tuiModel{
		store:    store,
		settings: c.settings,
		logger:   c.logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    input,
		dark:     dark,
		theme:    newTheme(dark),
	}
	m.apply(store.View())
	if h := store.Hydration(); h != nil && (len(h.Errors) > 0 || len(h.Warnings) > 0) {
		m.notice = "Some stored tasks could not be loaded; see the log"
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.view.DraftText {
		m.apply(m.store.SetDraft(m.input.Value()))
	}
	return m, cmd
}

// handleKey runs the command bound to msg. handled is false for keys that
// belong to the text input.
func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help) && m.input.Value() == "":
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return nil, true
	case key.Matches(msg, m.keys.Submit):
		m.notice = ""
		editing := m.view.Editing()
		m.apply(m.store.Add(m.input.Value()))
		if !editing {
			m.cursor = len(m.view.VisibleTasks) - 1
			m.clampCursor()
		}
		return nil, true
	case key.Matches(msg, m.keys.Cancel):
		m.apply(m.store.CancelEdit())
		return nil, true
	case key.Matches(msg, m.keys.Edit):
		if id, ok := m.selected(); ok {
			m.apply(m.store.BeginEdit(id))
			m.input.CursorEnd()
		}
		return nil, true
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selected(); ok {
			m.apply(m.store.ToggleComplete(id))
		}
		return nil, true
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selected(); ok {
			m.apply(m.store.Delete(id))
		}
		return nil, true
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil, true
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.VisibleTasks)-1 {
			m.cursor++
		}
		return nil, true
	case key.Matches(msg, m.keys.All):
		m.apply(m.store.SetFilter(todo.FilterAll))
		return nil, true
	case key.Matches(msg, m.keys.Active):
		m.apply(m.store.SetFilter(todo.FilterActive))
		return nil, true
	case key.Matches(msg, m.keys.Completed):
		m.apply(m.store.SetFilter(todo.FilterCompleted))
		return nil, true
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return nil, true
	}
	return nil, false
}

// apply adopts a view returned by the store and syncs the input with it.
func (m *tuiModel) apply(v todo.View) {
	m.view = v
	if m.input.Value() != v.DraftText {
		m.input.SetValue(v.DraftText)
	}
	if v.Editing() {
		m.input.Placeholder = "Edit task"
	} else {
		m.input.Placeholder = "What needs to be done?"
	}
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	if m.cursor >= len(m.view.VisibleTasks) {
		m.cursor = len(m.view.VisibleTasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.VisibleTasks) {
		return "", false
	}
	return m.view.VisibleTasks[m.cursor].ID, true
}

func (m *tuiModel) toggleTheme() {
	m.dark = !m.dark
	m.theme = newTheme(m.dark)
	if err := saveDarkMode(m.settings, m.dark); err != nil {
		m.logger.Error("Failed to save theme", "err", err)
		m.notice = "Theme not saved: " + err.Error()
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeHeader(&b)
	m.writeTabs(&b)
	m.writeList(&b)
	m.writeInput(&b)
	m.writeStatus(&b)
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) writeHeader(b *strings.Builder) {
	b.WriteString(m.theme.title.Render("TaskFlow"))
	b.WriteString("  ")
	b.WriteString(m.theme.subtle.Render(m.view.RemainingLabel()))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeTabs(b *strings.Builder) {
	tabs := make([]string, 0, len(todo.Filters()))
	for _, f := range todo.Filters() {
		style := m.theme.tab
		if f == m.view.Filter {
			style = m.theme.activeTab
		}
		tabs = append(tabs, style.Render(f.Label()))
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")
}

func (m *tuiModel) writeList(b *strings.Builder) {
	var lines []string
	if len(m.view.VisibleTasks) == 0 {
		lines = append(lines, m.theme.subtle.Render("No tasks here yet"))
	}
	for i, t := range m.view.VisibleTasks {
		lines = append(lines, m.formatTask(t, i == m.cursor))
	}
	b.WriteString(m.theme.frame.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
}

func (m *tuiModel) formatTask(t todo.Task, selected bool) string {
	pointer := "  "
	if selected {
		pointer = m.theme.cursor.Render("> ")
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	title := utils.Truncate(t.Title, titleWidth)
	switch {
	case t.ID == m.view.EditTarget:
		title = m.theme.editing.Render(title + " (editing)")
	case t.Completed:
		title = m.theme.done.Render(title)
	}
	return fmt.Sprintf("%s%s %s", pointer, check, title)
}

func (m *tuiModel) writeInput(b *strings.Builder) {
	label := "New task"
	if m.view.Editing() {
		label = "Editing, esc to cancel"
	}
	b.WriteString(m.theme.subtle.Render(label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
}

func (m *tuiModel) writeStatus(b *strings.Builder) {
	if err := m.store.Err(); err != nil {
		b.WriteString(m.theme.err.Render("Could not save: " + err.Error()))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.theme.subtle.Render(m.notice))
		b.WriteString("\n")
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
