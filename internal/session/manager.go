package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sableaudio/mixtape/internal/server"
	"github.com/sableaudio/mixtape/internal/shared"
	"golang.org/x/oauth2"
)

// loginTimeout bounds how long BeginLogin waits for the user to finish the
// browser authorization.
const loginTimeout = 2 * time.Minute

// TokenStore persists the token pair across restarts.
type TokenStore interface {
	Save(accessToken, refreshToken string) error
	Load() (accessToken, refreshToken string, err error)
	Clear() error
}

// Authenticator performs the provider side of the code flow.
// Implemented by services.SpotifyService.
type Authenticator interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Manager drives the login state machine and owns the Session value.
type Manager struct {
	mu      sync.Mutex
	state   State
	session Session

	auth       Authenticator
	tokens     TokenStore
	serverAddr string
	logger     *log.Logger

	openBrowser func(url string) error
	onLogout    []func()
}

// NewManager creates a Manager and resolves the initial state from the token
// store: a non-empty stored access token means LoggedIn without validation.
func NewManager(auth Authenticator, tokens TokenStore, serverAddr string, logger *log.Logger) (*Manager, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Manager{
		auth:        auth,
		tokens:      tokens,
		serverAddr:  serverAddr,
		logger:      shared.WithLogger(logger, "component", "session"),
		openBrowser: shared.OpenBrowser,
	}

	access, refresh, err := tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load stored tokens: %w", err)
	}

	m.session = Session{AccessToken: access, RefreshToken: refresh}
	if m.session.Authenticated() {
		m.state = LoggedIn
	} else {
		m.state = LoggedOut
	}

	return m, nil
}

// State returns the current login state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns a snapshot of the current session value.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// AccessToken implements services.TokenProvider.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.AccessToken
}

// OnLogout registers a hook executed whenever the session is torn down,
// whether by explicit logout or fatal refresh failure. Collaborators use it
// to reset their own state (playlist draft, playback).
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = append(m.onLogout, fn)
}

// BeginLogin runs the full interactive authorization flow: start the local
// callback server, open the browser at the authorization URL, wait for the
// redirect, exchange the code, and persist the resulting session.
func (m *Manager) BeginLogin(ctx context.Context) error {
	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	m.setState(Authenticating)

	handler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	httpServer := &http.Server{Addr: m.serverAddr, Handler: router}

	serverErrors := make(chan error, 1)
	go func() {
		m.logger.Info("starting callback server", "addr", m.serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	authURL := m.auth.AuthURL(state)
	if err := m.openBrowser(authURL); err != nil {
		m.logger.Warn("failed to open browser automatically", "error", err)
	}

	timeout := time.NewTimer(loginTimeout)
	defer timeout.Stop()

	var result server.CallbackResult
	select {
	case result = <-handler.Result():
		// Got the redirect
	case err := <-serverErrors:
		m.setState(LoggedOut)
		return fmt.Errorf("callback server error: %w", err)
	case <-timeout.C:
		m.setState(LoggedOut)
		return fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, loginTimeout)
	case <-ctx.Done():
		m.setState(LoggedOut)
		return ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		m.logger.Warn("error shutting down callback server", "error", err)
	}

	if result.Error() != nil {
		m.setState(LoggedOut)
		return result.Error()
	}

	return m.exchange(ctx, result.Code)
}

// CompleteLogin finishes the flow from a redirect query string. It extracts
// the code parameter and performs the token exchange. Exposed separately from
// BeginLogin so the exchange path is drivable without a browser.
func (m *Manager) CompleteLogin(ctx context.Context, redirectQuery string) error {
	values, err := url.ParseQuery(redirectQuery)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthorizationDenied, err)
	}

	code := values.Get("code")
	if code == "" {
		m.setState(LoggedOut)
		return fmt.Errorf("%w: no code in redirect", shared.ErrAuthorizationDenied)
	}

	return m.exchange(ctx, code)
}

// exchange trades the code for tokens and persists the new session.
// On failure the existing session is left untouched.
func (m *Manager) exchange(ctx context.Context, code string) error {
	token, err := m.auth.ExchangeCode(ctx, code)
	if err != nil {
		m.setState(LoggedOut)
		return err
	}

	m.mu.Lock()
	m.session = Session{AccessToken: token.AccessToken, RefreshToken: token.RefreshToken}
	m.state = LoggedIn
	m.mu.Unlock()

	if err := m.tokens.Save(token.AccessToken, token.RefreshToken); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}

	m.logger.Info("login complete")
	return nil
}

// Refresh exchanges the stored refresh token for a new access token. The
// refresh token is not guaranteed to rotate; the old one is kept when the
// provider omits it. Failure is fatal to the session: the manager forces a
// full logout and returns ErrRefreshFailed.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	refreshToken := m.session.RefreshToken
	m.state = Refreshing
	m.mu.Unlock()

	token, err := m.auth.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		m.logger.Warn("refresh failed, forcing logout", "error", err)
		m.Logout()
		if errors.Is(err, shared.ErrRefreshFailed) || errors.Is(err, shared.ErrNoRefreshToken) {
			return err
		}
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	m.mu.Lock()
	m.session.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		m.session.RefreshToken = token.RefreshToken
	}
	access, refresh := m.session.AccessToken, m.session.RefreshToken
	m.state = LoggedIn
	m.mu.Unlock()

	if err := m.tokens.Save(access, refresh); err != nil {
		return fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	m.logger.Info("access token refreshed")
	return nil
}

// Logout resets all session state: session fields, token store, and every
// registered teardown hook. The provider is never informed.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.session = Session{}
	m.state = LoggedOut
	hooks := make([]func(), len(m.onLogout))
	copy(hooks, m.onLogout)
	m.mu.Unlock()

	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn("failed to clear token store", "error", err)
	}

	for _, fn := range hooks {
		fn()
	}

	m.logger.Info("logged out")
}

// WithRetry runs op and, when it fails with ErrTokenExpired, refreshes the
// session and retries op exactly once. A refresh failure has already forced
// logout by the time it is returned. This is the only automatic recovery in
// the application.
func (m *Manager) WithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	err := op(ctx)
	if !errors.Is(err, shared.ErrTokenExpired) {
		return err
	}

	if refreshErr := m.Refresh(ctx); refreshErr != nil {
		return refreshErr
	}

	return op(ctx)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
