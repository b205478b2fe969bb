package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/sableaudio/mixtape/internal/player"
	"github.com/sableaudio/mixtape/internal/search"
	"github.com/sableaudio/mixtape/internal/shared"
	"github.com/sableaudio/mixtape/internal/ui"
)

// TUI launches the interactive playlist builder.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mixtape-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger

	builder, err := r.loadPlaylist()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pl := player.NewPlayer(r.spotify, fileLogger)
	if err := pl.Connect(ctx); err != nil {
		return err
	}
	r.session.OnLogout(pl.Disconnect)

	poller := player.NewPoller(r.spotify, pl, r.config.Player.PollInterval(), fileLogger)
	go func() {
		for {
			err := poller.Run(ctx)
			if errors.Is(err, shared.ErrTokenExpired) {
				if rerr := r.session.Refresh(ctx); rerr == nil {
					continue
				}
			}
			return
		}
	}()

	model := ui.NewModel(ctx, ui.Deps{
		Session:  r.session,
		Searcher: search.NewClient(r.spotify, fileLogger),
		Playlist: builder,
		Player:   pl,
		API:      r.spotify,
		History:  r.history,
	})

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	pl.Disconnect()
	return r.savePlaylist(builder)
}
