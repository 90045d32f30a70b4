package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/redcliffe/strum/internal/formatter"
	"github.com/redcliffe/strum/internal/models"
	"github.com/redcliffe/strum/internal/shared"
	"github.com/urfave/cli/v3"
)

// SearchCatalog queries the external catalog and prints the results.
func (r *Runner) SearchCatalog(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	artist := cmd.String("artist")

	results, err := r.engine.Search(ctx, query, artist)
	if err != nil {
		if errors.Is(err, shared.ErrEmptyQuery) {
			return fmt.Errorf("%w: please enter a search term", shared.ErrInvalidInput)
		}
		if errors.Is(err, shared.ErrServerRejected) {
			color.New(color.FgRed).Fprintf(r.output, "Search failed: %v\n", err)
			return nil
		}
		return err
	}

	if len(results) == 0 {
		r.writePlainln("No songs found. Try a different search term.")
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	switch format {
	case formatter.FormatCSV:
		out, err := formatter.SearchResultsToCSV(results)
		if err != nil {
			return err
		}
		return r.writePlain("%s", out)
	case formatter.FormatMarkdown:
		return r.writePlain("%s", formatter.SearchResultsToMarkdown(results))
	default:
		return r.writePlain("%s", formatter.SearchResultsToPlain(results))
	}
}

// AddSong imports one external catalog song into an artist's collection.
func (r *Runner) AddSong(ctx context.Context, cmd *cli.Command) error {
	artistID := cmd.Int("artist")
	song := models.SearchResult{
		Name:      cmd.String("name"),
		SourceURL: cmd.String("url"),
		Source:    cmd.String("source"),
	}

	r.logger.Info("importing song", "song", song.Name, "artist_id", artistID)

	outcome := r.engine.Download(ctx, artistID, song)
	if !outcome.Success {
		// The engine already pushed the error notification; surface the
		// same message on the terminal.
		for _, n := range r.notifier.Stack() {
			color.New(color.FgRed).Fprintf(r.output, "%s\n", n.Message)
		}
		return fmt.Errorf("%w: import failed", shared.ErrServerRejected)
	}

	color.New(color.FgGreen).Fprintf(r.output, "✓ Song %q was added successfully.\n", song.Name)
	return nil
}
