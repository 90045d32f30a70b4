package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/redcliffe/strum/internal/cache"
	"github.com/redcliffe/strum/internal/notify"
	"github.com/redcliffe/strum/internal/player"
	"github.com/redcliffe/strum/internal/shared"
	"github.com/urfave/cli/v3"
)

// terminalControl implements player.Control for the blocking play command.
type terminalControl struct {
	runner *Runner
	songID int
}

func (c *terminalControl) SetPlaying(v bool) {
	if v {
		color.New(color.FgGreen).Fprintf(c.runner.output, "▶ playing song %d\n", c.songID)
	} else {
		color.New(color.FgYellow).Fprintf(c.runner.output, "■ stopped song %d\n", c.songID)
	}
}

// PlaySong streams one song through the external player and blocks until it
// ends naturally or the command is interrupted.
func (r *Runner) PlaySong(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.Int("id")

	registry, closeRegistry := r.openRegistry()
	if closeRegistry != nil {
		defer closeRegistry()
	}

	done := make(chan struct{}, 1)

	var controller *player.Controller
	controller = player.NewController(player.Opts{
		Factory:  player.NewProcessFactory(r.config.Player),
		Resolve:  r.resolveSource(registry),
		Prober:   r.catalog,
		Notifier: r.notifier,
		Logger:   r.logger,
		OnChange: func() {
			if _, playing := controller.Playing(); !playing {
				select {
				case done <- struct{}{}:
				default:
				}
			}
		},
	})

	controller.Play(songID, &terminalControl{runner: r, songID: songID})

	select {
	case <-ctx.Done():
		controller.Stop()
	case <-done:
	}

	failed := false
	for _, n := range r.notifier.Stack() {
		if n.Severity == notify.Error {
			color.New(color.FgRed).Fprintf(r.output, "%s\n", n.Message)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("%w: song %d", shared.ErrPlaybackFailed, songID)
	}

	return nil
}

// openRegistry opens the offline cache index when one has been set up.
// Playback falls back to streaming when the index is missing.
func (r *Runner) openRegistry() (*cache.Registry, func()) {
	path := r.config.Cache.IndexPath
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		r.logger.Warn("failed to open cache index", "path", path, "error", err)
		return nil, nil
	}
	shared.ConfigureDatabase(db, r.config.Cache.MaxOpenConns, r.config.Cache.MaxIdleConns)

	registry, err := cache.NewRegistry(db, r.config.Cache.Dir)
	if err != nil {
		r.logger.Warn("failed to open cache registry", "error", err)
		db.Close()
		return nil, nil
	}

	return registry, func() { db.Close() }
}

// resolveSource prefers a locally cached file over the stream endpoint.
func (r *Runner) resolveSource(registry *cache.Registry) func(int) string {
	return func(songID int) string {
		if registry != nil {
			if path, ok := registry.Path(songID); ok {
				return path
			}
		}
		return r.catalog.StreamURL(songID)
	}
}
