package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/shared"
)

// Search runs a one-shot catalog search and prints the results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	if err := r.ensure(); err != nil {
		return err
	}

	var tracks []models.Track
	err := r.session.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		tracks, err = r.spotify.SearchTracks(ctx, query)
		return err
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	if len(tracks) == 0 {
		return r.writePlain("No tracks found for %q\n", query)
	}
	return r.writeTracks(tracks)
}
