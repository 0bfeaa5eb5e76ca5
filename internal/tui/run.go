package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard against api and blocks until the user quits or ctx is done.
func Run(ctx context.Context, api service.API, opts ...Option) error {
	if api == nil {
		return fmt.Errorf("api client is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	confirmer := NewConfirmer()
	eng := engine.NewWithConfig(api, confirmer, cfg.Engine)
	m := newModel(ctx, eng, cfg)

	program := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	confirmer.Attach(program)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
