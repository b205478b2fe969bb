package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sableaudio/mixtape/internal/shared"
)

func TestPlayerCmd(t *testing.T) {
	t.Run("Failure Reaches The Status Bar", func(t *testing.T) {
		m := &Model{ctx: context.Background()}

		msg := m.playerCmd(func(ctx context.Context) error {
			return shared.ErrDeviceUnavailable
		})()

		done, ok := msg.(playerDoneMsg)
		if !ok {
			t.Fatalf("expected playerDoneMsg, got %T", msg)
		}
		if !errors.Is(done.err, shared.ErrDeviceUnavailable) {
			t.Fatalf("expected ErrDeviceUnavailable, got %v", done.err)
		}

		m.Update(done)
		if !strings.Contains(m.statusBar(), shared.ErrDeviceUnavailable.Error()) {
			t.Errorf("expected status bar to show the failure, got %q", m.statusBar())
		}
	})

	t.Run("Success Clears A Prior Failure", func(t *testing.T) {
		m := &Model{ctx: context.Background(), playerErr: shared.ErrDeviceUnavailable}

		msg := m.playerCmd(func(ctx context.Context) error { return nil })()
		m.Update(msg)

		if strings.Contains(m.statusBar(), shared.ErrDeviceUnavailable.Error()) {
			t.Errorf("expected error cleared from status bar, got %q", m.statusBar())
		}
	})
}

func TestPlayerEventPump(t *testing.T) {
	m := &Model{playerEvents: make(chan struct{}, 1)}
	m.playerEvents <- struct{}{}

	msg := m.waitForPlayerState()()
	if _, ok := msg.(playerStateMsg); !ok {
		t.Fatalf("expected playerStateMsg, got %T", msg)
	}

	// The pump must re-arm after each event or the status bar goes stale.
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Error("expected pump to re-arm")
	}
}
