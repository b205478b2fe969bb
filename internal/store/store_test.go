package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	s := newTestStore(t)

	t.Run("Get Missing Key Is Not An Error", func(t *testing.T) {
		value, err := s.Get("absent")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if value != "" {
			t.Errorf("expected empty value, got %q", value)
		}
	})

	t.Run("Put Then Get", func(t *testing.T) {
		if err := s.Put("k", "v"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		value, err := s.Get("k")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if value != "v" {
			t.Errorf("expected %q, got %q", "v", value)
		}
	})

	t.Run("Put Overwrites", func(t *testing.T) {
		if err := s.Put("k", "v2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		value, _ := s.Get("k")
		if value != "v2" {
			t.Errorf("expected overwritten value, got %q", value)
		}
	})

	t.Run("Delete Missing Key Is Not An Error", func(t *testing.T) {
		if err := s.Delete("never-there"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestTokenStore(t *testing.T) {
	tokens := NewTokenStore(newTestStore(t))

	t.Run("Load Empty Store", func(t *testing.T) {
		access, refresh, err := tokens.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if access != "" || refresh != "" {
			t.Errorf("expected absent tokens, got %q %q", access, refresh)
		}
	})

	t.Run("Save And Load", func(t *testing.T) {
		if err := tokens.Save("tok1", "ref1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		access, refresh, err := tokens.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if access != "tok1" || refresh != "ref1" {
			t.Errorf("expected saved pair, got %q %q", access, refresh)
		}
	})

	t.Run("Save Overwrites Both Keys", func(t *testing.T) {
		if err := tokens.Save("tok2", ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		access, refresh, _ := tokens.Load()
		if access != "tok2" || refresh != "" {
			t.Errorf("expected unconditional overwrite, got %q %q", access, refresh)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := tokens.Save("tok3", "ref3"); err != nil {
			t.Fatal(err)
		}
		if err := tokens.Clear(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		access, refresh, _ := tokens.Load()
		if access != "" || refresh != "" {
			t.Errorf("expected cleared tokens, got %q %q", access, refresh)
		}
	})
}

func TestHistoryRepository(t *testing.T) {
	history := NewHistoryRepository(newTestStore(t))

	t.Run("List Empty", func(t *testing.T) {
		records, err := history.List()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})

	t.Run("Record And List Newest First", func(t *testing.T) {
		first, err := history.Record("pl1", "Road Trip", 12)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if first.ID == "" {
			t.Error("expected generated id")
		}

		// Distinct timestamps so ordering is observable.
		time.Sleep(5 * time.Millisecond)

		if _, err := history.Record("pl2", "Night Drive", 7); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := history.List()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].Name != "Night Drive" {
			t.Errorf("expected newest record first, got %q", records[0].Name)
		}
		if records[1].TrackCount != 12 {
			t.Errorf("expected track count to round trip, got %d", records[1].TrackCount)
		}
	})
}
