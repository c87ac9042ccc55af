package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the board in the alternate screen and blocks until the user
// quits or ctx is cancelled. It returns the final model so callers can
// inspect unsaved changes.
func Run(ctx context.Context, model Model) (Model, error) {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return model, fmt.Errorf("running board UI: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return model, fmt.Errorf("unexpected model type: %T", finalModel)
	}
	return m, nil
}
