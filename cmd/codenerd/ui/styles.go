// Package ui provides the bubbletea/lipgloss inspector views for the
// codenerd CLI: browsing archive eval history interactively.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#6c7a89")
	failure = lipgloss.Color("#e53935")
)

// Styles bundles the lipgloss renderers the inspector views share.
type Styles struct {
	Header lipgloss.Style
	Info   lipgloss.Style
	Err    lipgloss.Style
	Body   lipgloss.Style
}

// DefaultStyles returns the inspector's default style set.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		Info:   lipgloss.NewStyle().Foreground(muted),
		Err:    lipgloss.NewStyle().Foreground(failure),
		Body:   lipgloss.NewStyle(),
	}
}
