package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive task list and blocks until the user quits
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
