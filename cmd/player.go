package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sableaudio/mixtape/internal/shared"
)

// PlayerDevices lists available playback devices.
func (r *Runner) PlayerDevices(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	devices, err := r.spotify.Devices(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, true)
	}

	if len(devices) == 0 {
		return r.writePlain("No playback devices available. Open Spotify on a device first.\n")
	}
	for _, d := range devices {
		marker := " "
		if d.IsActive {
			marker = "▶"
		}
		if err := r.writePlain("%s %s (%s)\n", marker, d.Name, d.Type); err != nil {
			return err
		}
	}
	return nil
}

// PlayerPlay starts playback of the working playlist's tracks, or of a track
// or context URI passed with --uri.
func (r *Runner) PlayerPlay(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	return r.session.WithRetry(ctx, func(ctx context.Context) error {
		deviceID, err := r.resolveDevice(ctx)
		if err != nil {
			return err
		}

		if uri := cmd.String("uri"); uri != "" {
			if strings.HasPrefix(uri, "spotify:track:") {
				return r.spotify.Play(ctx, deviceID, []string{uri})
			}
			return r.spotify.PlayContext(ctx, deviceID, uri)
		}

		builder, err := r.loadPlaylist()
		if err != nil {
			return err
		}
		if builder.Len() == 0 {
			return shared.ErrEmptyPlaylist
		}
		return r.spotify.Play(ctx, deviceID, builder.URIs())
	})
}

// PlayerPause pauses playback.
func (r *Runner) PlayerPause(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	return r.session.WithRetry(ctx, func(ctx context.Context) error {
		deviceID, err := r.resolveDevice(ctx)
		if err != nil {
			return err
		}
		return r.spotify.Pause(ctx, deviceID)
	})
}

// PlayerToggle flips between play and pause based on the current state.
func (r *Runner) PlayerToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	return r.session.WithRetry(ctx, func(ctx context.Context) error {
		snapshot, err := r.spotify.PlayerState(ctx)
		if err != nil {
			return err
		}
		if snapshot == nil {
			return shared.ErrDeviceUnavailable
		}

		if snapshot.IsPlaying {
			return r.spotify.Pause(ctx, snapshot.Device.ID)
		}
		return r.spotify.Resume(ctx, snapshot.Device.ID)
	})
}

// PlayerNext skips to the next track.
func (r *Runner) PlayerNext(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	return r.session.WithRetry(ctx, func(ctx context.Context) error {
		deviceID, err := r.resolveDevice(ctx)
		if err != nil {
			return err
		}
		return r.spotify.Next(ctx, deviceID)
	})
}

// PlayerPrevious skips to the previous track.
func (r *Runner) PlayerPrevious(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	return r.session.WithRetry(ctx, func(ctx context.Context) error {
		deviceID, err := r.resolveDevice(ctx)
		if err != nil {
			return err
		}
		return r.spotify.Previous(ctx, deviceID)
	})
}

// PlayerSeek jumps to a position, in seconds, in the current track.
func (r *Runner) PlayerSeek(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	raw := cmd.Args().First()
	if raw == "" {
		return fmt.Errorf("%w: position in seconds", shared.ErrMissingArgument)
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return fmt.Errorf("%w: position must be a non-negative number of seconds", shared.ErrInvalidArgument)
	}

	return r.session.WithRetry(ctx, func(ctx context.Context) error {
		deviceID, err := r.resolveDevice(ctx)
		if err != nil {
			return err
		}
		return r.spotify.Seek(ctx, deviceID, seconds*1000)
	})
}

// PlayerStatus prints the current playback state.
func (r *Runner) PlayerStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	return r.session.WithRetry(ctx, func(ctx context.Context) error {
		snapshot, err := r.spotify.PlayerState(ctx)
		if err != nil {
			return err
		}
		if snapshot == nil {
			return r.writePlain("Nothing playing.\n")
		}

		state := "⏸ paused"
		if snapshot.IsPlaying {
			state = "▶ playing"
		}
		if track := snapshot.Track(); track != nil {
			return r.writePlain("%s  %s - %s  [%s]\n", state, track.ArtistLine(), track.Name, snapshot.Device.Name)
		}
		return r.writePlain("%s  [%s]\n", state, snapshot.Device.Name)
	})
}
