package player

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/sableaudio/mixtape/internal/services"
	"github.com/sableaudio/mixtape/internal/shared"
)

// Snapshotter reads the provider's playback state. Implemented by
// services.SpotifyService.
type Snapshotter interface {
	PlayerState(ctx context.Context) (*services.PlayerSnapshot, error)
}

// Poller feeds a Player with provider events by polling the playback state
// endpoint. It stands in for a push event stream: each poll is translated
// into ready / not-ready / state-changed events.
type Poller struct {
	api      Snapshotter
	player   *Player
	interval time.Duration
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewPoller creates a poller. A non-positive interval falls back to 3s, and
// a nil logger silences the poller.
func NewPoller(api Snapshotter, player *Player, interval time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if logger == nil {
		logger = log.New(nil)
	}

	return &Poller{
		api:      api,
		player:   player,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		logger:   logger,
	}
}

// Run polls until the context is cancelled. Transient read failures are
// logged and skipped; an expired token is returned so the caller can refresh
// and restart the loop.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.poll(ctx); err != nil {
			if errors.Is(err, shared.ErrTokenExpired) || errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.Warn("playback poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	snapshot, err := p.api.PlayerState(ctx)
	if err != nil {
		return err
	}

	if snapshot == nil || snapshot.Device.ID == "" {
		p.player.Handle(ctx, Event{Kind: EventNotReady})
		return nil
	}

	if p.player.DeviceID() != snapshot.Device.ID {
		p.player.Handle(ctx, Event{Kind: EventReady, DeviceID: snapshot.Device.ID})
	}

	p.player.Handle(ctx, Event{
		Kind:    EventStateChanged,
		Playing: snapshot.IsPlaying,
		Track:   snapshot.Track(),
	})
	return nil
}
