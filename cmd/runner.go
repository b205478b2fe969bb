package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/playlist"
	"github.com/sableaudio/mixtape/internal/services"
	"github.com/sableaudio/mixtape/internal/session"
	"github.com/sableaudio/mixtape/internal/shared"
	"github.com/sableaudio/mixtape/internal/store"
)

// draftKey is the store key holding the working playlist between invocations.
const draftKey = "draft_playlist"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	store      *store.Store
	tokens     *store.TokenStore
	history    *store.HistoryRepository
	session    *session.Manager
	spotify    *services.SpotifyService
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      *store.Store
	Session    *session.Manager
	Spotify    *services.SpotifyService
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		session:    opts.Session,
		spotify:    opts.Spotify,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	if r.store != nil {
		r.tokens = store.NewTokenStore(r.store)
		r.history = store.NewHistoryRepository(r.store)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, playlistCommand, playlistsCommand, playerCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureStore lazily opens the local store. Commands that only touch the
// working playlist need this and nothing else.
func (r *Runner) ensureStore() error {
	if r.store == nil {
		st, err := store.Open(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		r.store = st
	}
	if r.tokens == nil {
		r.tokens = store.NewTokenStore(r.store)
		r.history = store.NewHistoryRepository(r.store)
	}
	return nil
}

// ensure builds the API client and session manager on top of the store.
func (r *Runner) ensure() error {
	if r.session != nil && r.spotify != nil {
		return nil
	}

	if err := r.ensureStore(); err != nil {
		return err
	}

	if r.spotify == nil {
		svc, err := services.NewSpotifyService(r.config.Credentials.Spotify.Map(), nil)
		if err != nil {
			return err
		}
		r.spotify = svc
	}

	if r.session == nil {
		addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
		mgr, err := session.NewManager(r.spotify, r.tokens, addr, r.logger)
		if err != nil {
			return err
		}
		// A logout, forced or not, must not leave the draft behind.
		mgr.OnLogout(func() {
			if err := r.store.Delete(draftKey); err != nil {
				r.logger.Warn("failed to clear working playlist", "error", err)
			}
		})
		r.session = mgr
	}

	// The session owns the tokens; the API client reads through it.
	r.spotify.SetTokenProvider(r.session)
	return nil
}

// draft is the JSON shape of the persisted working playlist.
type draft struct {
	Name   string         `json:"name"`
	Tracks []models.Track `json:"tracks"`
}

// loadPlaylist restores the working playlist from the store.
func (r *Runner) loadPlaylist() (*playlist.Manager, error) {
	m := playlist.NewManager()

	raw, err := r.store.Get(draftKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	if raw == "" {
		return m, nil
	}

	var d draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}

	m.Rename(d.Name)
	for _, track := range d.Tracks {
		m.Add(track)
	}
	return m, nil
}

// savePlaylist persists the working playlist to the store.
func (r *Runner) savePlaylist(m *playlist.Manager) error {
	data, err := shared.MarshalJSON(draft{Name: m.Name(), Tracks: m.Tracks()}, false)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	if err := r.store.Put(draftKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	return nil
}

// resolveDevice picks a playback device: the configured device name first,
// then the active device, then the first one listed.
func (r *Runner) resolveDevice(ctx context.Context) (string, error) {
	devices, err := r.spotify.Devices(ctx)
	if err != nil {
		return "", err
	}

	if name := r.config.Player.DeviceName; name != "" {
		for _, d := range devices {
			if d.Name == name {
				return d.ID, nil
			}
		}
	}
	for _, d := range devices {
		if d.IsActive {
			return d.ID, nil
		}
	}
	if len(devices) > 0 {
		return devices[0].ID, nil
	}
	return "", shared.ErrDeviceUnavailable
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeTracks prints a numbered track listing.
func (r *Runner) writeTracks(tracks []models.Track) error {
	for i, track := range tracks {
		album := ""
		if track.Album.Name != "" {
			album = fmt.Sprintf(" (%s)", track.Album.Name)
		}
		if err := r.writePlain("%2d. %s - %s%s\n", i+1, track.ArtistLine(), track.Name, album); err != nil {
			return err
		}
	}
	return nil
}
