// Spotify Connect player endpoints.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/shared"
)

// SpotifyDevice represents an addressable playback endpoint.
type SpotifyDevice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
}

type devicesResponse struct {
	Devices []SpotifyDevice `json:"devices"`
}

// PlayerSnapshot is the provider's view of current playback. Nil Track means
// nothing is loaded on the device.
type PlayerSnapshot struct {
	Device    SpotifyDevice `json:"device"`
	IsPlaying bool          `json:"is_playing"`
	Item      *SpotifyTrack `json:"item"`
}

// Track returns the snapshot's track as a domain value, or nil.
func (p *PlayerSnapshot) Track() *models.Track {
	if p == nil || p.Item == nil {
		return nil
	}
	track := p.Item.Model()
	return &track
}

// Devices lists the user's available playback devices.
func (s *SpotifyService) Devices(ctx context.Context) ([]SpotifyDevice, error) {
	var response devicesResponse
	if err := s.doRequest(ctx, http.MethodGet, "/me/player/devices", nil, &response); err != nil {
		return nil, err
	}
	return response.Devices, nil
}

// PlayerState reads the current playback state. Returns (nil, nil) when no
// device is active (the provider answers 204).
func (s *SpotifyService) PlayerState(ctx context.Context) (*PlayerSnapshot, error) {
	if s.tokens == nil || s.tokens.AccessToken() == "" {
		return nil, shared.ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/me/player", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.tokens.AccessToken())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRemoteAPI, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, shared.ErrTokenExpired
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", shared.ErrRemoteAPI, resp.StatusCode)
	}

	var snapshot PlayerSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode player state: %w", err)
	}
	return &snapshot, nil
}

// TransferPlayback makes the given device the active playback target.
func (s *SpotifyService) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	body := map[string]any{
		"device_ids": []string{deviceID},
		"play":       play,
	}
	return s.doRequest(ctx, http.MethodPut, "/me/player", body, nil)
}

// Play starts playback of the given track URIs on a device.
func (s *SpotifyService) Play(ctx context.Context, deviceID string, uris []string) error {
	body := map[string]any{"uris": uris}
	return s.doRequest(ctx, http.MethodPut, "/me/player/play?"+deviceParam(deviceID), body, nil)
}

// PlayContext starts playback of a context URI (playlist, album) on a device.
func (s *SpotifyService) PlayContext(ctx context.Context, deviceID, contextURI string) error {
	body := map[string]any{"context_uri": contextURI}
	return s.doRequest(ctx, http.MethodPut, "/me/player/play?"+deviceParam(deviceID), body, nil)
}

// Resume continues playback on a device without changing the track.
func (s *SpotifyService) Resume(ctx context.Context, deviceID string) error {
	return s.doRequest(ctx, http.MethodPut, "/me/player/play?"+deviceParam(deviceID), nil, nil)
}

// Pause pauses playback on a device.
func (s *SpotifyService) Pause(ctx context.Context, deviceID string) error {
	return s.doRequest(ctx, http.MethodPut, "/me/player/pause?"+deviceParam(deviceID), nil, nil)
}

// Next skips to the next track in the playback queue.
func (s *SpotifyService) Next(ctx context.Context, deviceID string) error {
	return s.doRequest(ctx, http.MethodPost, "/me/player/next?"+deviceParam(deviceID), nil, nil)
}

// Previous skips back to the previous track.
func (s *SpotifyService) Previous(ctx context.Context, deviceID string) error {
	return s.doRequest(ctx, http.MethodPost, "/me/player/previous?"+deviceParam(deviceID), nil, nil)
}

// Seek moves the playback position on a device.
func (s *SpotifyService) Seek(ctx context.Context, deviceID string, positionMS int) error {
	params := url.Values{}
	params.Set("device_id", deviceID)
	params.Set("position_ms", strconv.Itoa(positionMS))
	return s.doRequest(ctx, http.MethodPut, "/me/player/seek?"+params.Encode(), nil, nil)
}

func deviceParam(deviceID string) string {
	params := url.Values{}
	params.Set("device_id", deviceID)
	return params.Encode()
}
