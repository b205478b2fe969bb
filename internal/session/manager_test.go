package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sableaudio/mixtape/internal/shared"
	"golang.org/x/oauth2"
)

type memoryTokens struct {
	access, refresh string
	saves, clears   int
}

func (m *memoryTokens) Save(accessToken, refreshToken string) error {
	m.access, m.refresh = accessToken, refreshToken
	m.saves++
	return nil
}

func (m *memoryTokens) Load() (string, string, error) {
	return m.access, m.refresh, nil
}

func (m *memoryTokens) Clear() error {
	m.access, m.refresh = "", ""
	m.clears++
	return nil
}

type fakeAuth struct {
	exchangeToken *oauth2.Token
	exchangeErr   error
	refreshToken  *oauth2.Token
	refreshErr    error
	refreshCalls  int
}

func (f *fakeAuth) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (f *fakeAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeToken, nil
}

func (f *fakeAuth) RefreshAccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshToken, nil
}

func newTestManager(t *testing.T, auth Authenticator, tokens TokenStore) *Manager {
	t.Helper()
	m, err := NewManager(auth, tokens, "localhost:0", nil)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

func TestInitialState(t *testing.T) {
	t.Run("Empty Store Means Logged Out", func(t *testing.T) {
		m := newTestManager(t, &fakeAuth{}, &memoryTokens{})
		if m.State() != LoggedOut {
			t.Errorf("expected LoggedOut, got %v", m.State())
		}
		if m.Session().Authenticated() {
			t.Error("expected unauthenticated session")
		}
	})

	t.Run("Stored Token Means Logged In Without Validation", func(t *testing.T) {
		m := newTestManager(t, &fakeAuth{}, &memoryTokens{access: "tok1", refresh: "ref1"})
		if m.State() != LoggedIn {
			t.Errorf("expected LoggedIn, got %v", m.State())
		}
		if m.AccessToken() != "tok1" {
			t.Errorf("expected stored access token, got %q", m.AccessToken())
		}
	})
}

func TestCompleteLogin(t *testing.T) {
	t.Run("Success Persists Session And Enters LoggedIn", func(t *testing.T) {
		tokens := &memoryTokens{}
		auth := &fakeAuth{exchangeToken: &oauth2.Token{AccessToken: "tok1", RefreshToken: "ref1"}}
		m := newTestManager(t, auth, tokens)

		if err := m.CompleteLogin(context.Background(), "code=ABC123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if m.State() != LoggedIn {
			t.Errorf("expected LoggedIn, got %v", m.State())
		}
		session := m.Session()
		if session.AccessToken != "tok1" || session.RefreshToken != "ref1" {
			t.Errorf("unexpected session %+v", session)
		}
		if tokens.access != "tok1" || tokens.refresh != "ref1" {
			t.Error("expected tokens persisted to store")
		}
	})

	t.Run("Missing Code Is AuthorizationDenied", func(t *testing.T) {
		m := newTestManager(t, &fakeAuth{}, &memoryTokens{})

		err := m.CompleteLogin(context.Background(), "error=access_denied")
		if !errors.Is(err, shared.ErrAuthorizationDenied) {
			t.Errorf("expected ErrAuthorizationDenied, got %v", err)
		}
		if m.State() != LoggedOut {
			t.Errorf("expected LoggedOut, got %v", m.State())
		}
	})

	t.Run("Exchange Failure Leaves Session Untouched", func(t *testing.T) {
		tokens := &memoryTokens{}
		auth := &fakeAuth{exchangeErr: fmt.Errorf("%w: status 500", shared.ErrTokenExchangeFailed)}
		m := newTestManager(t, auth, tokens)

		err := m.CompleteLogin(context.Background(), "code=ABC123")
		if !errors.Is(err, shared.ErrTokenExchangeFailed) {
			t.Errorf("expected ErrTokenExchangeFailed, got %v", err)
		}
		if m.Session().Authenticated() {
			t.Error("expected session to remain empty")
		}
		if tokens.saves != 0 {
			t.Error("expected no token persistence on failure")
		}
	})
}

func TestRefresh(t *testing.T) {
	t.Run("Success Updates Access Token", func(t *testing.T) {
		tokens := &memoryTokens{access: "old", refresh: "ref1"}
		auth := &fakeAuth{refreshToken: &oauth2.Token{AccessToken: "new"}}
		m := newTestManager(t, auth, tokens)

		if err := m.Refresh(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		session := m.Session()
		if session.AccessToken != "new" {
			t.Errorf("expected new access token, got %q", session.AccessToken)
		}
		if session.RefreshToken != "ref1" {
			t.Error("expected un-rotated refresh token to be kept")
		}
		if m.State() != LoggedIn {
			t.Errorf("expected LoggedIn, got %v", m.State())
		}
	})

	t.Run("Rotated Refresh Token Is Adopted", func(t *testing.T) {
		tokens := &memoryTokens{access: "old", refresh: "ref1"}
		auth := &fakeAuth{refreshToken: &oauth2.Token{AccessToken: "new", RefreshToken: "ref2"}}
		m := newTestManager(t, auth, tokens)

		if err := m.Refresh(context.Background()); err != nil {
			t.Fatal(err)
		}
		if m.Session().RefreshToken != "ref2" {
			t.Error("expected rotated refresh token to be adopted")
		}
	})

	t.Run("Failure Forces Logout", func(t *testing.T) {
		tokens := &memoryTokens{access: "old", refresh: "ref1"}
		auth := &fakeAuth{refreshErr: fmt.Errorf("%w: revoked", shared.ErrRefreshFailed)}
		m := newTestManager(t, auth, tokens)

		var hookRan bool
		m.OnLogout(func() { hookRan = true })

		err := m.Refresh(context.Background())
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
		if m.State() != LoggedOut {
			t.Errorf("expected LoggedOut, got %v", m.State())
		}
		if tokens.access != "" || tokens.refresh != "" {
			t.Error("expected token store cleared")
		}
		if !hookRan {
			t.Error("expected logout hook to run")
		}
	})
}

func TestLogout(t *testing.T) {
	tokens := &memoryTokens{access: "tok1", refresh: "ref1"}
	m := newTestManager(t, &fakeAuth{}, tokens)

	var hooks int
	m.OnLogout(func() { hooks++ })
	m.OnLogout(func() { hooks++ })

	m.Logout()

	if m.State() != LoggedOut {
		t.Errorf("expected LoggedOut, got %v", m.State())
	}
	if m.Session().Authenticated() {
		t.Error("expected empty session")
	}
	if tokens.clears != 1 {
		t.Errorf("expected one store clear, got %d", tokens.clears)
	}
	if hooks != 2 {
		t.Errorf("expected both hooks to run, got %d", hooks)
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("Non-Expiry Errors Pass Through", func(t *testing.T) {
		m := newTestManager(t, &fakeAuth{}, &memoryTokens{access: "tok1"})

		calls := 0
		err := m.WithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			return shared.ErrRemoteAPI
		})
		if !errors.Is(err, shared.ErrRemoteAPI) {
			t.Errorf("expected ErrRemoteAPI, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected single call, got %d", calls)
		}
	})

	t.Run("Expired Token Refreshes And Retries Exactly Once", func(t *testing.T) {
		auth := &fakeAuth{refreshToken: &oauth2.Token{AccessToken: "new"}}
		m := newTestManager(t, auth, &memoryTokens{access: "old", refresh: "ref1"})

		calls := 0
		err := m.WithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return shared.ErrTokenExpired
			}
			if m.AccessToken() != "new" {
				t.Errorf("expected retry to see refreshed token, got %q", m.AccessToken())
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected exactly one retry, got %d calls", calls)
		}
		if auth.refreshCalls != 1 {
			t.Errorf("expected one refresh, got %d", auth.refreshCalls)
		}
	})

	t.Run("Still Expired After Retry Is Returned", func(t *testing.T) {
		auth := &fakeAuth{refreshToken: &oauth2.Token{AccessToken: "new"}}
		m := newTestManager(t, auth, &memoryTokens{access: "old", refresh: "ref1"})

		calls := 0
		err := m.WithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			return shared.ErrTokenExpired
		})
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected no second retry, got %d calls", calls)
		}
	})

	t.Run("Refresh Failure Surfaces And Logs Out", func(t *testing.T) {
		auth := &fakeAuth{refreshErr: fmt.Errorf("%w: revoked", shared.ErrRefreshFailed)}
		m := newTestManager(t, auth, &memoryTokens{access: "old", refresh: "ref1"})

		calls := 0
		err := m.WithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			return shared.ErrTokenExpired
		})
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected no retry after refresh failure, got %d calls", calls)
		}
		if m.State() != LoggedOut {
			t.Errorf("expected forced logout, got %v", m.State())
		}
	})
}
