package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/shared"
)

type authedSession bool

func (a authedSession) Authenticated() bool { return bool(a) }

type stubSearcher struct {
	mu      sync.Mutex
	calls   int
	queries []string
	tracks  []models.Track
	err     error
}

func (s *stubSearcher) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.queries = append(s.queries, query)
	return s.tracks, s.err
}

func (s *stubSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSearch(t *testing.T) {
	t.Run("Returns Tracks", func(t *testing.T) {
		api := &stubSearcher{tracks: []models.Track{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}}
		client := NewClient(api, nil)

		result := client.Search(context.Background(), authedSession(true), "radiohead")
		if len(result.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(result.Tracks))
		}
		if result.Query != "radiohead" {
			t.Errorf("expected query echoed, got %q", result.Query)
		}
		if result.RequestID == "" {
			t.Error("expected a request id")
		}
	})

	t.Run("Empty Query Skips Network", func(t *testing.T) {
		api := &stubSearcher{}
		client := NewClient(api, nil)

		result := client.Search(context.Background(), authedSession(true), "   ")
		if len(result.Tracks) != 0 {
			t.Errorf("expected no tracks, got %d", len(result.Tracks))
		}
		if api.callCount() != 0 {
			t.Error("expected no network call for a blank query")
		}
	})

	t.Run("Unauthenticated Skips Network", func(t *testing.T) {
		api := &stubSearcher{}
		client := NewClient(api, nil)

		result := client.Search(context.Background(), authedSession(false), "radiohead")
		if len(result.Tracks) != 0 {
			t.Errorf("expected no tracks, got %d", len(result.Tracks))
		}
		if api.callCount() != 0 {
			t.Error("expected no network call without a session")
		}
	})

	t.Run("Failure Resolves Empty", func(t *testing.T) {
		api := &stubSearcher{err: shared.ErrRemoteAPI}
		client := NewClient(api, nil)

		result := client.Search(context.Background(), authedSession(true), "radiohead")
		if result.Tracks != nil {
			t.Errorf("expected empty result on failure, got %v", result.Tracks)
		}
	})
}

func TestAccept(t *testing.T) {
	t.Run("Latest Request Wins", func(t *testing.T) {
		api := &stubSearcher{}
		client := NewClient(api, nil)

		first := client.Search(context.Background(), authedSession(true), "rad")
		second := client.Search(context.Background(), authedSession(true), "radiohead")

		if client.Accept(first) {
			t.Error("expected superseded result to be rejected")
		}
		if !client.Accept(second) {
			t.Error("expected latest result to be accepted")
		}
	})

	t.Run("Slow Response After Newer Query Is Dropped", func(t *testing.T) {
		api := &stubSearcher{tracks: []models.Track{{ID: "a"}}}
		client := NewClient(api, nil)

		slow := client.Search(context.Background(), authedSession(true), "old")
		_ = client.Search(context.Background(), authedSession(true), "new")

		// The slow response finishes now; its request id is stale.
		if client.Accept(slow) {
			t.Error("expected stale response to be dropped")
		}
	})
}

func TestDebouncer(t *testing.T) {
	t.Run("Fires After Quiet Interval", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var fired atomic.Int32

		d.Trigger(func() { fired.Add(1) })
		time.Sleep(60 * time.Millisecond)

		if fired.Load() != 1 {
			t.Errorf("expected exactly one call, got %d", fired.Load())
		}
	})

	t.Run("Retrigger Restarts The Timer", func(t *testing.T) {
		d := NewDebouncer(40 * time.Millisecond)
		var fired atomic.Int32

		d.Trigger(func() { fired.Add(1) })
		time.Sleep(10 * time.Millisecond)
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(10 * time.Millisecond)

		if fired.Load() != 0 {
			t.Fatal("expected no call while input is still arriving")
		}

		time.Sleep(80 * time.Millisecond)
		if fired.Load() != 1 {
			t.Errorf("expected exactly one call after quiet, got %d", fired.Load())
		}
	})

	t.Run("Stop Cancels Pending Call", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var fired atomic.Int32

		d.Trigger(func() { fired.Add(1) })
		d.Stop()
		time.Sleep(60 * time.Millisecond)

		if fired.Load() != 0 {
			t.Errorf("expected no call after stop, got %d", fired.Load())
		}
	})
}
