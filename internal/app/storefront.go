package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/shelfshop/internal/unified"
)

// runStorefront opens the full-screen storefront and blocks until it quits.
func runStorefront(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info().Str("version", appVersion).Str("backend", cfg.Backend.Kind).Msg("storefront started")
	m := unified.New(ctx, state, logger)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	logger.Info().Msg("storefront closed")
	return nil
}
