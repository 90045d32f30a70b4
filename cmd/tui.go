package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redcliffe/strum/internal/cache"
	"github.com/redcliffe/strum/internal/notify"
	"github.com/redcliffe/strum/internal/player"
	"github.com/redcliffe/strum/internal/shared"
	"github.com/redcliffe/strum/internal/tasks"
	"github.com/redcliffe/strum/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/strum-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	registry, closeRegistry := r.openRegistry()
	if closeRegistry != nil {
		defer closeRegistry()
	}

	// Async signals re-enter the event loop through the program sender;
	// p is assigned before Run and the hooks only fire afterwards.
	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}

	notifier := notify.NewService(0)
	notifier.SetOnChange(func() { send(ui.StateChanged()) })

	engine := tasks.NewEngine(tasks.Opts{
		Catalog:  r.catalog,
		Notifier: notifier,
		Logger:   fileLogger,
		OnReload: func() { send(ui.Reload()) },
	})

	controller := player.NewController(player.Opts{
		Factory:  player.NewProcessFactory(r.config.Player),
		Resolve:  r.resolveSource(registry),
		Prober:   r.catalog,
		Notifier: notifier,
		Logger:   fileLogger,
		OnChange: func() { send(ui.StateChanged()) },
	})
	defer controller.Stop()

	var enqueue func(int)
	if registry != nil {
		worker := cache.NewWorker(registry, r.catalog, 1.0, fileLogger)
		worker.Register(ctx)
		enqueue = worker.Enqueue
	}

	model := ui.NewModel(ctx, ui.ModelOpts{
		Catalog:    r.catalog,
		Engine:     engine,
		Controller: controller,
		Notifier:   notifier,
		Enqueue:    enqueue,
	})
	p = tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
