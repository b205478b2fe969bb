package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/sableaudio/mixtape/internal/formatter"
	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/shared"
)

// PlaylistShow prints the working playlist.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureStore(); err != nil {
		return err
	}

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(draft{Name: builder.Name(), Tracks: builder.Tracks()}, true)
	}

	r.writePlain("%s (%d tracks)\n\n", builder.Name(), builder.Len())
	if builder.Len() == 0 {
		return r.writePlain("Nothing here yet. Try 'mixtape playlist add \"song name\"'.\n")
	}
	return r.writeTracks(builder.Tracks())
}

// PlaylistAdd searches the catalog and adds a match to the working playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
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
	if len(tracks) == 0 {
		return fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, query)
	}

	pick := int(cmd.Int("pick"))
	if pick < 1 || pick > len(tracks) {
		return fmt.Errorf("%w: pick %d of %d results", shared.ErrInvalidArgument, pick, len(tracks))
	}
	track := tracks[pick-1]

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}

	if !builder.Add(track) {
		return r.writePlain("Already in playlist: %s - %s\n", track.ArtistLine(), track.Name)
	}
	if err := r.savePlaylist(builder); err != nil {
		return err
	}

	return r.writePlain("✓ Added %s - %s (%d tracks)\n", track.ArtistLine(), track.Name, builder.Len())
}

// PlaylistRemove removes a track by its 1-based position.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	position := cmd.StringArg("position")
	if position == "" {
		return fmt.Errorf("%w: position", shared.ErrMissingArgument)
	}

	index, err := strconv.Atoi(position)
	if err != nil {
		return fmt.Errorf("%w: position %q is not a number", shared.ErrInvalidArgument, position)
	}

	if err := r.ensureStore(); err != nil {
		return err
	}

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}

	tracks := builder.Tracks()
	if index < 1 || index > len(tracks) {
		return fmt.Errorf("%w: position %d of %d tracks", shared.ErrInvalidArgument, index, len(tracks))
	}

	track := tracks[index-1]
	builder.Remove(track.ID)
	if err := r.savePlaylist(builder); err != nil {
		return err
	}

	return r.writePlain("✓ Removed %s - %s\n", track.ArtistLine(), track.Name)
}

// PlaylistRename renames the working playlist.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	if err := r.ensureStore(); err != nil {
		return err
	}

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}

	if !builder.Rename(name) {
		return fmt.Errorf("%w: name is empty", shared.ErrInvalidArgument)
	}
	if err := r.savePlaylist(builder); err != nil {
		return err
	}

	return r.writePlain("✓ Renamed to %s\n", builder.Name())
}

// PlaylistShuffle shuffles the working playlist order.
func (r *Runner) PlaylistShuffle(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureStore(); err != nil {
		return err
	}

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}

	builder.Shuffle()
	if err := r.savePlaylist(builder); err != nil {
		return err
	}

	r.writePlain("✓ Shuffled\n\n")
	return r.writeTracks(builder.Tracks())
}

// PlaylistClear removes all tracks from the working playlist.
func (r *Runner) PlaylistClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureStore(); err != nil {
		return err
	}

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}

	builder.Clear()
	if err := r.savePlaylist(builder); err != nil {
		return err
	}

	return r.writePlain("✓ Cleared\n")
}

// PlaylistSave creates the playlist on the user's account. The working
// playlist is left as-is so it can be edited and saved again.
func (r *Runner) PlaylistSave(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}

	var created *models.RemotePlaylist
	err = r.session.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = builder.Save(ctx, r.session.Session(), r.spotify)
		return err
	})
	if err != nil {
		return err
	}

	if _, err := r.history.Record(created.ID, created.Name, created.TrackCount); err != nil {
		r.logger.Warn("failed to record save history", "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(created, true)
	}
	return r.writePlain("✓ Saved %s (%d tracks) to your account\n", created.Name, created.TrackCount)
}

// PlaylistExport writes the working playlist to a file.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureStore(); err != nil {
		return err
	}

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}
	if builder.Len() == 0 {
		return shared.ErrEmptyPlaylist
	}

	path, err := formatter.WriteExport(builder.Name(), cmd.String("format"), cmd.String("output"), builder.Tracks())
	if err != nil {
		return err
	}

	return r.writePlain("✓ Exported to %s\n", path)
}

// PlaylistHistory lists playlists previously saved to the user's account.
func (r *Runner) PlaylistHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureStore(); err != nil {
		return err
	}

	saved, err := r.history.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(saved, true)
	}

	if len(saved) == 0 {
		return r.writePlain("No playlists saved yet.\n")
	}
	for _, s := range saved {
		if err := r.writePlain("%s  %s (%d tracks)\n", s.SavedAt.Format("2006-01-02 15:04"), s.Name, s.TrackCount); err != nil {
			return err
		}
	}
	return nil
}
