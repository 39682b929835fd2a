package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Result is what the user left selected when the program exited.
type Result struct {
	Selected []int64
}

// Run starts the interactive table and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, cat Catalog, opts Options) (Result, error) {
	model := NewModel(ctx, cat, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return Result{Selected: model.Selection().IDs()}, fmt.Errorf("run tui: %w", err)
	}
	return Result{Selected: model.Selection().IDs()}, nil
}
