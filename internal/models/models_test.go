package models

import "testing"

func TestTrackArtistLine(t *testing.T) {
	t.Run("No Artists", func(t *testing.T) {
		if got := (Track{}).ArtistLine(); got != "" {
			t.Errorf("expected empty line, got %q", got)
		}
	})

	t.Run("Single Artist", func(t *testing.T) {
		track := Track{Artists: []Artist{{Name: "Solange"}}}
		if got := track.ArtistLine(); got != "Solange" {
			t.Errorf("expected single name, got %q", got)
		}
	})

	t.Run("Multiple Artists Preserve Order", func(t *testing.T) {
		track := Track{Artists: []Artist{{Name: "A"}, {Name: "B"}, {Name: "C"}}}
		if got := track.ArtistLine(); got != "A, B, C" {
			t.Errorf("expected joined names in order, got %q", got)
		}
	})
}
