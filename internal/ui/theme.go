package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// DarkModeKey is the storage key holding the theme choice.
const DarkModeKey = "darkMode"

// Settings is the key-value storage the TUI keeps preferences in.
type Settings interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type theme struct {
	title     lipgloss.Style
	subtle    lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	cursor    lipgloss.Style
	done      lipgloss.Style
	editing   lipgloss.Style
	err       lipgloss.Style
	frame     lipgloss.Style
}

func newTheme(dark bool) theme {
	accent, text, muted, danger, border := lipgloss.Color("39"), lipgloss.Color("252"), lipgloss.Color("244"), lipgloss.Color("203"), lipgloss.Color("240")
	if !dark {
		accent, text, muted, danger, border = lipgloss.Color("25"), lipgloss.Color("235"), lipgloss.Color("243"), lipgloss.Color("160"), lipgloss.Color("250")
	}
	return theme{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		subtle:    lipgloss.NewStyle().Foreground(muted),
		tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		activeTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(text).Underline(true),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:      lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		editing:   lipgloss.NewStyle().Italic(true).Foreground(accent),
		err:       lipgloss.NewStyle().Foreground(danger),
		frame:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
	}
}

// loadDarkMode reads the stored theme choice. A missing or unparsable value
// yields fallback.
func loadDarkMode(s Settings, fallback bool) bool {
	if s == nil {
		return fallback
	}
	raw, ok, err := s.Get(DarkModeKey)
	if err != nil || !ok {
		return fallback
	}
	dark, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return dark
}

func saveDarkMode(s Settings, dark bool) error {
	if s == nil {
		return nil
	}
	return s.Set(DarkModeKey, strconv.FormatBool(dark))
}
