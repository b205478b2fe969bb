// Package session owns the authentication lifecycle: the OAuth2
// authorization-code flow, the persisted token pair, and the login state
// machine.
//
// [Manager] is the single owner of the [Session] value. Collaborators that
// need the bearer token receive the manager as a [services.TokenProvider]
// instead of reading storage themselves, so a token is never consulted
// outside the controller that maintains it.
//
// # State Machine
//
//	LoggedOut      --BeginLogin-->            Authenticating
//	Authenticating --CompleteLogin success--> LoggedIn
//	Authenticating --CompleteLogin failure--> LoggedOut
//	LoggedIn       --401 (ErrTokenExpired)--> Refreshing
//	Refreshing     --refresh success-->       LoggedIn   (request retried once)
//	Refreshing     --refresh failure-->       LoggedOut  (forced logout)
//
// On startup the initial state is resolved from the token store: a non-empty
// stored access token means LoggedIn, optimistically and without validation.
// Staleness surfaces later as a 401.
package session

// State enumerates the login states.
type State int

const (
	LoggedOut State = iota
	Authenticating
	LoggedIn
	Refreshing
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged out"
	case Authenticating:
		return "authenticating"
	case LoggedIn:
		return "logged in"
	case Refreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Session is the token pair for the active login. A zero Session means no
// user is authenticated.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether a session is active. Presence of the access
// token is the single source of truth for gating API calls and UI.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}
