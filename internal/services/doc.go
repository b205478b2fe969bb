// Package services implements the Spotify Web API boundary.
//
// # Typed Edge
//
// Provider JSON is parsed exactly once, here, into typed structs
// ([SpotifyTrack], [SpotifyPlaylist], [SpotifyDevice], ...) and converted to
// [models] values before leaving the package. Nothing elsewhere in the
// repository touches raw provider payloads.
//
// # Authentication
//
// [SpotifyService] holds the [oauth2.Config] for the authorization-code flow
// and exposes ExchangeCode and RefreshAccessToken for the session manager.
// Bearer tokens for API calls come from an injected [TokenProvider] rather
// than ambient storage, so the session stays owned by its controller.
//
// # Error Handling
//
// A 401 from any endpoint maps to [shared.ErrTokenExpired]; callers decide
// whether to refresh and retry. Other non-2xx responses map to
// [shared.ErrRemoteAPI] with the status attached.
package services
