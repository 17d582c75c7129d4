// Package tui is the interactive terminal client
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/qazzerep/internal/logger"
)

// Run starts the TUI at startPath and blocks until it exits
func Run(deps Deps, startPath string) error {
	if deps.Theme != nil {
		deps.Theme.Apply()
	}

	m := New(deps, startPath)
	p := tea.NewProgram(m, tea.WithAltScreen())

	logger.Info("TUI started", logger.F("path", startPath))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.cancel()
	}
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	logger.Info("TUI exited")
	return nil
}
