package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/tasks"
	"github.com/desertthunder/sangeet/internal/ui"
)

// TUI launches the interactive dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.CurrentUser(ctx)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(shared.WithLogger(fileLogger, "component", "tui"))

	store, err := r.Store()
	if err != nil {
		return err
	}

	bus := ui.NewBus(16)
	notifier := tasks.MultiNotifier{r.notifier, bus}
	cfg := r.Config().Dashboard
	dashboard := tasks.NewDashboardCoordinator(store, notifier, r.logger, tasks.DashboardOptions{
		RecentLimit:      cfg.RecentLimit,
		RecommendedLimit: cfg.RecommendedLimit,
	})
	library := tasks.NewLibraryCoordinator(store, dashboard.Favorites, notifier, r.logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(ctx, ui.Options{UserID: userID, Dashboard: dashboard, Library: library, Bus: bus})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
