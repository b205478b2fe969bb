// Spotify API implementation.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// SearchLimit is the fixed page size for catalog searches.
	SearchLimit = 40
)

// Scopes requested during authorization. Playlist modification, profile
// lookup, and playback control all hang off these.
var Scopes = []string{
	"playlist-modify-public",
	"playlist-modify-private",
	"user-read-private",
	"user-read-playback-state",
	"user-modify-playback-state",
	"streaming",
}

// TokenProvider supplies the current bearer token for API calls.
// An empty string means no session is active.
type TokenProvider interface {
	AccessToken() string
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
	URI     string          `json:"uri"`
}

type searchTracks struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

type searchResponse struct {
	Tracks searchTracks `json:"tracks"`
}

type simplePlaylistTracks struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents a playlist resource.
type SpotifyPlaylist struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Public bool                 `json:"public"`
	Tracks simplePlaylistTracks `json:"tracks"`
	Images []SpotifyImage       `json:"images"`
	URI    string               `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items    []SpotifyPlaylist `json:"items"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
}

// SpotifyService talks to the Spotify Web API and token endpoints.
type SpotifyService struct {
	config     *oauth2.Config
	tokens     TokenProvider
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a Spotify service from OAuth2 credentials.
// The tokens provider gates every API call; it may be nil until a session
// manager is attached with [SpotifyService.SetTokenProvider].
func NewSpotifyService(credentials map[string]string, tokens TokenProvider) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		tokens:     tokens,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// SetTokenProvider attaches the session's token provider.
func (s *SpotifyService) SetTokenProvider(tokens TokenProvider) {
	s.tokens = tokens
}

// AuthURL returns the authorization URL for user login. show_dialog forces
// the consent screen even for previously authorized users.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// ExchangeCode trades an authorization code for a token pair.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenExchangeFailed, err)
	}
	return token, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token.
// The provider does not guarantee refresh token rotation; the returned
// token's RefreshToken may be empty.
func (s *SpotifyService) RefreshAccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return token, nil
}

// doRequest performs an authenticated HTTP request against the API.
// result may be nil for endpoints with no response body of interest.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.tokens == nil || s.tokens.AccessToken() == "" {
		return shared.ErrNotAuthenticated
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.tokens.AccessToken())
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRemoteAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return shared.ErrTokenExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrRemoteAPI, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchTracks runs a catalog search for tracks, preserving provider ordering.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(SearchLimit))

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		tracks = append(tracks, item.Model())
	}
	return tracks, nil
}

// CreatePlaylist creates a new private playlist for the given user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name string) (*models.RemotePlaylist, error) {
	body := map[string]any{
		"name":   name,
		"public": false,
	}

	var created SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return nil, err
	}

	playlist := created.Model()
	return &playlist, nil
}

// AddTracks appends the given URIs to a playlist in a single batch call,
// preserving order.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	body := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// UserPlaylists retrieves all of the current user's playlists, following pagination.
func (s *SpotifyService) UserPlaylists(ctx context.Context) ([]models.RemotePlaylist, error) {
	var all []models.RemotePlaylist
	limit := 50
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

		var page SpotifyPaginatedPlaylists
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, sp := range page.Items {
			all = append(all, sp.Model())
		}

		if page.Next == nil {
			break
		}
		offset += limit
	}

	return all, nil
}

// Model converts the provider track to the domain type.
func (t SpotifyTrack) Model() models.Track {
	track := models.Track{
		ID:   t.ID,
		URI:  t.URI,
		Name: t.Name,
		Album: models.Album{
			Name:   t.Album.Name,
			Images: imageModels(t.Album.Images),
		},
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, models.Artist{Name: a.Name})
	}
	return track
}

// Model converts the provider playlist to the domain type.
func (p SpotifyPlaylist) Model() models.RemotePlaylist {
	return models.RemotePlaylist{
		ID:         p.ID,
		URI:        p.URI,
		Name:       p.Name,
		TrackCount: p.Tracks.Total,
		Public:     p.Public,
		Images:     imageModels(p.Images),
	}
}

func imageModels(images []SpotifyImage) []models.Image {
	out := make([]models.Image, 0, len(images))
	for _, img := range images {
		out = append(out, models.Image{URL: img.URL, Width: img.Width, Height: img.Height})
	}
	return out
}
