package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

// FetchSong downloads a song file to disk with a progress bar.
func (r *Runner) FetchSong(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.Int("id")

	output := cmd.String("output")
	if output == "" {
		output = fmt.Sprintf("song_%d.mp3", songID)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	bar := pb.New(0)
	bar.Set(pb.Bytes, true)
	bar.Start()
	defer bar.Finish()

	n, err := r.catalog.FetchSong(ctx, songID, bar.NewProxyWriter(f))
	if err != nil {
		os.Remove(output)
		return fmt.Errorf("failed to fetch song %d: %w", songID, err)
	}

	bar.Finish()
	color.New(color.FgGreen).Fprintf(r.output, "✓ Saved %s (%d bytes)\n", output, n)
	return nil
}
