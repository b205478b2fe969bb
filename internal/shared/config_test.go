package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Credentials.Spotify.RedirectURI != "http://localhost:8080/callback" {
			t.Errorf("unexpected default redirect URI: %s", config.Credentials.Spotify.RedirectURI)
		}
		if config.Server.Port != 8080 {
			t.Errorf("unexpected default server port: %d", config.Server.Port)
		}
		if config.Database.Path == "" {
			t.Error("expected default database path")
		}
	})

	t.Run("Load And Save Round Trip", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "abc123"

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("expected no error saving, got %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error loading, got %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "abc123" {
			t.Errorf("expected client id to round trip, got %s", loaded.Credentials.Spotify.ClientID)
		}
	})

	t.Run("Load Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Load Invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("CreateConfigFile Refuses Overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when config file already exists")
		}
	})
}

func TestSpotifyConfigMap(t *testing.T) {
	cfg := SpotifyConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "uri"}
	m := cfg.Map()

	if m["client_id"] != "id" || m["client_secret"] != "secret" || m["redirect_uri"] != "uri" {
		t.Errorf("unexpected credential map: %v", m)
	}
}

func TestPlayerConfigPollInterval(t *testing.T) {
	if got := (PlayerConfig{}).PollInterval(); got != 3*time.Second {
		t.Errorf("expected 3s default, got %v", got)
	}
	if got := (PlayerConfig{PollIntervalSeconds: 10}).PollInterval(); got != 10*time.Second {
		t.Errorf("expected 10s, got %v", got)
	}
}
