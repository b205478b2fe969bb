package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication and session errors
	ErrAuthorizationDenied = fmt.Errorf("authorization denied")
	ErrTokenExchangeFailed = fmt.Errorf("token exchange failed")
	ErrRefreshFailed       = fmt.Errorf("token refresh failed")
	ErrNotAuthenticated    = fmt.Errorf("not authenticated")
	ErrTokenExpired        = fmt.Errorf("access token expired")
	ErrNoRefreshToken      = fmt.Errorf("no refresh token available")
	ErrTimeout             = fmt.Errorf("operation timed out")

	// Remote API errors
	ErrRemoteAPI         = fmt.Errorf("remote API request failed")
	ErrDeviceUnavailable = fmt.Errorf("playback device unavailable")

	// Playlist errors
	ErrEmptyPlaylist = fmt.Errorf("playlist is empty")
	ErrTrackNotFound = fmt.Errorf("track not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
