// Package player tracks remote playback as a small state machine. Local
// commands move the machine optimistically, and provider-reported state
// overrides whatever the machine believed.
package player

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/shared"
)

// State is the playback connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
	StatePlaying
	StatePaused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// EventKind identifies a provider-side playback event.
type EventKind int

const (
	// EventReady reports a usable playback device.
	EventReady EventKind = iota
	// EventNotReady reports the device went away.
	EventNotReady
	// EventStateChanged reports the provider's current playback state.
	EventStateChanged
)

// Event is a provider-side playback event. Events are authoritative: they
// overwrite the player's local view.
type Event struct {
	Kind     EventKind
	DeviceID string
	Playing  bool
	Track    *models.Track
}

// Commands is the remote control surface. Implemented by
// services.SpotifyService.
type Commands interface {
	TransferPlayback(ctx context.Context, deviceID string, play bool) error
	Play(ctx context.Context, deviceID string, uris []string) error
	PlayContext(ctx context.Context, deviceID, contextURI string) error
	Resume(ctx context.Context, deviceID string) error
	Pause(ctx context.Context, deviceID string) error
	Next(ctx context.Context, deviceID string) error
	Previous(ctx context.Context, deviceID string) error
}

// Player is the playback state machine.
//
//	Disconnected -> Connecting   Connect
//	Connecting   -> Ready        EventReady
//	Ready        -> Playing      PlayTrack / PlayContext
//	Playing      <-> Paused      TogglePlayPause
//	any          -> Disconnected EventNotReady / Disconnect
//
// All methods are safe for concurrent use.
type Player struct {
	mu        sync.Mutex
	state     State
	deviceID  string
	current   *models.Track
	connected bool

	api      Commands
	logger   *log.Logger
	onChange func()
}

// NewPlayer creates a disconnected player. A nil logger silences it.
func NewPlayer(api Commands, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(nil)
	}
	return &Player{api: api, logger: logger}
}

// OnChange registers a callback invoked after every state transition. The
// callback runs with the player's lock held and must not call back into it.
func (p *Player) OnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// DeviceID returns the active device, or "" when none is available.
func (p *Player) DeviceID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deviceID
}

// CurrentTrack returns the track loaded on the device, or nil.
func (p *Player) CurrentTrack() *models.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Connect starts the connection. Calling Connect on an already-connected
// player is a no-op; the machine only initializes once per connection.
func (p *Player) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.connected {
		return nil
	}

	p.connected = true
	p.setState(StateConnecting)
	return nil
}

// Disconnect tears the connection down and forgets the device.
func (p *Player) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.connected = false
	p.deviceID = ""
	p.current = nil
	p.setState(StateDisconnected)
}

// Handle applies a provider event to the machine. The provider's view always
// wins over whatever a local command assumed.
func (p *Player) Handle(ctx context.Context, event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Kind {
	case EventReady:
		transfer := p.state == StateConnecting
		p.deviceID = event.DeviceID
		if p.state == StateConnecting || p.state == StateDisconnected {
			p.setState(StateReady)
		}
		if transfer {
			if err := p.api.TransferPlayback(ctx, event.DeviceID, false); err != nil {
				p.logger.Warn("playback transfer failed", "device", event.DeviceID, "error", err)
			}
		}
	case EventNotReady:
		p.deviceID = ""
		p.current = nil
		if p.connected {
			p.setState(StateConnecting)
		} else {
			p.setState(StateDisconnected)
		}
	case EventStateChanged:
		p.current = event.Track
		switch {
		case event.Playing:
			p.setState(StatePlaying)
		case event.Track != nil:
			p.setState(StatePaused)
		default:
			p.setState(StateReady)
		}
	}
}

// PlayTrack starts the given track. If the track is already loaded on the
// device the call toggles play/pause instead of restarting it.
func (p *Player) PlayTrack(ctx context.Context, track models.Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deviceID == "" {
		return shared.ErrDeviceUnavailable
	}

	if p.current != nil && p.current.ID == track.ID {
		return p.toggle(ctx)
	}

	if err := p.api.Play(ctx, p.deviceID, []string{track.URI}); err != nil {
		return err
	}

	p.current = &track
	p.setState(StatePlaying)
	return nil
}

// PlayContext starts playback of a context URI (playlist, album).
func (p *Player) PlayContext(ctx context.Context, contextURI string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deviceID == "" {
		return shared.ErrDeviceUnavailable
	}

	if err := p.api.PlayContext(ctx, p.deviceID, contextURI); err != nil {
		return err
	}

	p.setState(StatePlaying)
	return nil
}

// TogglePlayPause pauses playback when playing and resumes it when paused.
// With nothing loaded the call is a no-op.
func (p *Player) TogglePlayPause(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deviceID == "" {
		return shared.ErrDeviceUnavailable
	}
	return p.toggle(ctx)
}

// Next skips to the next track in the queue.
func (p *Player) Next(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deviceID == "" {
		return shared.ErrDeviceUnavailable
	}
	return p.api.Next(ctx, p.deviceID)
}

// Previous skips back to the previous track.
func (p *Player) Previous(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deviceID == "" {
		return shared.ErrDeviceUnavailable
	}
	return p.api.Previous(ctx, p.deviceID)
}

// toggle assumes p.mu is held and a device is available.
func (p *Player) toggle(ctx context.Context) error {
	switch p.state {
	case StatePlaying:
		if err := p.api.Pause(ctx, p.deviceID); err != nil {
			return err
		}
		p.setState(StatePaused)
	case StatePaused:
		if err := p.api.Resume(ctx, p.deviceID); err != nil {
			return err
		}
		p.setState(StatePlaying)
	}
	return nil
}

// setState assumes p.mu is held.
func (p *Player) setState(next State) {
	if p.state == next {
		return
	}
	p.state = next
	if p.onChange != nil {
		p.onChange()
	}
}
