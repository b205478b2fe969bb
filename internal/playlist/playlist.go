// Package playlist owns the working playlist: an ordered, de-duplicated
// track list assembled locally and pushed to the user's account on save.
package playlist

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/services"
	"github.com/sableaudio/mixtape/internal/shared"
)

// DefaultName is the playlist name before the user renames it.
const DefaultName = "Your Playlist"

// Session gates the save operation. Satisfied by session.Session.
type Session interface {
	Authenticated() bool
}

// Saver is the remote side of the save operation. Implemented by
// services.SpotifyService.
type Saver interface {
	CurrentUser(ctx context.Context) (*services.SpotifyUser, error)
	CreatePlaylist(ctx context.Context, userID, name string) (*models.RemotePlaylist, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}

// Manager holds the working playlist. Insertion order is play order, and no
// two tracks share an id. All methods are safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	name   string
	tracks []models.Track
	ids    map[string]struct{}
}

// NewManager creates an empty playlist with the default name.
func NewManager() *Manager {
	return &Manager{
		name: DefaultName,
		ids:  map[string]struct{}{},
	}
}

// Add appends a track. A track whose id is already present is a no-op;
// the return value reports whether the playlist changed.
func (m *Manager) Add(track models.Track) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ids[track.ID]; exists {
		return false
	}

	m.ids[track.ID] = struct{}{}
	m.tracks = append(m.tracks, track)
	return true
}

// Remove deletes the track with the given id, preserving the order of the
// rest. Removing an absent id is a no-op.
func (m *Manager) Remove(trackID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ids[trackID]; !exists {
		return false
	}

	delete(m.ids, trackID)
	for i, t := range m.tracks {
		if t.ID == trackID {
			m.tracks = append(m.tracks[:i], m.tracks[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties the playlist. The name is kept.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tracks = nil
	m.ids = map[string]struct{}{}
}

// Shuffle permutes the playlist uniformly at random.
func (m *Manager) Shuffle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	rand.Shuffle(len(m.tracks), func(i, j int) {
		m.tracks[i], m.tracks[j] = m.tracks[j], m.tracks[i]
	})
}

// Rename replaces the playlist name. A name that trims to empty is a no-op.
func (m *Manager) Rename(newName string) bool {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = trimmed
	return true
}

// Name returns the current playlist name.
func (m *Manager) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Len returns the number of tracks.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tracks)
}

// Tracks returns a snapshot copy of the playlist in play order.
func (m *Manager) Tracks() []models.Track {
	m.mu.Lock()
	defer m.mu.Unlock()

	tracks := make([]models.Track, len(m.tracks))
	copy(tracks, m.tracks)
	return tracks
}

// IndexOf returns the position of the track with the given id, or -1.
func (m *Manager) IndexOf(trackID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.tracks {
		if t.ID == trackID {
			return i
		}
	}
	return -1
}

// URIs returns the playback URIs in play order.
func (m *Manager) URIs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	uris := make([]string, len(m.tracks))
	for i, t := range m.tracks {
		uris[i] = t.URI
	}
	return uris
}

// Save pushes the playlist to the user's account: resolve the user id,
// create a private playlist with the current name, then add every track URI
// in one ordered batch call. A failure at any step aborts the rest. The
// local playlist is left unchanged; it is not reconciled with the server's
// copy. Callers wanting the 401 refresh-and-retry policy wrap Save in
// session.Manager.WithRetry, which reruns the whole sequence.
func (m *Manager) Save(ctx context.Context, sess Session, api Saver) (*models.RemotePlaylist, error) {
	if sess == nil || !sess.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}

	name := m.Name()
	uris := m.URIs()
	if len(uris) == 0 {
		return nil, shared.ErrEmptyPlaylist
	}

	user, err := api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	created, err := api.CreatePlaylist(ctx, user.ID, name)
	if err != nil {
		return nil, err
	}

	if err := api.AddTracks(ctx, created.ID, uris); err != nil {
		return nil, err
	}

	created.TrackCount = len(uris)
	return created, nil
}
