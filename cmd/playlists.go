package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/sableaudio/mixtape/internal/models"
)

// Playlists lists the playlists on the user's Spotify account.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	var playlists []models.RemotePlaylist
	err := r.session.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		playlists, err = r.spotify.UserPlaylists(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists on this account.\n")
	}
	for i, pl := range playlists {
		visibility := "private"
		if pl.Public {
			visibility = "public"
		}
		if err := r.writePlain("%2d. %s (%d tracks, %s)\n", i+1, pl.Name, pl.TrackCount, visibility); err != nil {
			return err
		}
	}
	return nil
}
