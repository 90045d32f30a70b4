package main

import (
	"context"
	"fmt"

	"github.com/redcliffe/strum/internal/formatter"
	"github.com/urfave/cli/v3"
)

// CatalogArtists lists the artists in the local collection.
func (r *Runner) CatalogArtists(ctx context.Context, cmd *cli.Command) error {
	artists, err := r.catalog.ListArtists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, true)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	switch format {
	case formatter.FormatCSV:
		out, err := formatter.ArtistsToCSV(artists)
		if err != nil {
			return err
		}
		return r.writePlain("%s", out)
	default:
		return r.writePlain("%s", formatter.ArtistsToPlain(artists))
	}
}

// CatalogSongs lists the songs of one artist.
func (r *Runner) CatalogSongs(ctx context.Context, cmd *cli.Command) error {
	artistID := cmd.Int("artist")

	songs, err := r.catalog.ListSongs(ctx, artistID)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	return r.writePlain("%s", formatter.SongsToPlain(songs))
}
