package store

const (
	accessTokenKey  = "spotify_access_token"
	refreshTokenKey = "spotify_refresh_token"
)

// TokenStore persists the session's token pair across process restarts.
type TokenStore struct {
	store *Store
}

// NewTokenStore creates a TokenStore over the given Store.
func NewTokenStore(s *Store) *TokenStore {
	return &TokenStore{store: s}
}

// Save unconditionally overwrites both token values.
func (t *TokenStore) Save(accessToken, refreshToken string) error {
	if err := t.store.Put(accessTokenKey, accessToken); err != nil {
		return err
	}
	return t.store.Put(refreshTokenKey, refreshToken)
}

// Load returns the stored token pair. Missing keys yield empty strings.
func (t *TokenStore) Load() (accessToken, refreshToken string, err error) {
	if accessToken, err = t.store.Get(accessTokenKey); err != nil {
		return "", "", err
	}
	if refreshToken, err = t.store.Get(refreshTokenKey); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Clear removes both token values.
func (t *TokenStore) Clear() error {
	return t.store.Delete(accessTokenKey, refreshTokenKey)
}
