package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/sableaudio/mixtape/internal/services"
	"github.com/sableaudio/mixtape/internal/session"
)

// AuthLogin runs the OAuth2 authorization-code flow: opens the browser,
// collects the redirect on the local callback server, and persists the tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	r.logger.Info("starting Spotify login")

	if err := r.session.BeginLogin(ctx); err != nil {
		return err
	}

	return r.writePlain("✓ Logged in to Spotify\n")
}

// AuthLogout clears the session, stored tokens, and, through the manager's
// teardown hooks, the working playlist.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	r.session.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus shows the session state and, when logged in, the account it
// belongs to.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensure(); err != nil {
		return err
	}

	state := r.session.State()
	r.writePlain("Session: %s\n", state)

	if state != session.LoggedIn {
		return nil
	}

	var user *services.SpotifyUser
	err := r.session.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.spotify.CurrentUser(ctx)
		return err
	})
	if err != nil {
		r.writePlain("Account: unavailable (%v)\n", err)
		return nil
	}

	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	return r.writePlain("Account: %s\n", name)
}
