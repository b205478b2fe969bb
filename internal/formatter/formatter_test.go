package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sableaudio/mixtape/internal/models"
)

func sampleTracks() []models.Track {
	return []models.Track{
		{
			ID:      "a",
			URI:     "spotify:track:a",
			Name:    "Karma Police",
			Artists: []models.Artist{{Name: "Radiohead"}},
			Album:   models.Album{Name: "OK Computer"},
		},
		{
			ID:      "b",
			URI:     "spotify:track:b",
			Name:    "Get Lucky",
			Artists: []models.Artist{{Name: "Daft Punk"}, {Name: "Pharrell Williams"}},
			Album:   models.Album{Name: "Random Access Memories"},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleTracks())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][4] != "URI" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][1] != "Karma Police" || records[1][2] != "Radiohead" {
		t.Errorf("unexpected first row %v", records[1])
	}
	if records[2][2] != "Daft Punk, Pharrell Williams" {
		t.Errorf("expected joined artist line, got %q", records[2][2])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown("Late Nights", sampleTracks())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "# Late Nights\n") {
		t.Errorf("expected title heading, got %q", text)
	}
	if !strings.Contains(text, "**Tracks**: 2") {
		t.Error("expected track count")
	}
	if !strings.Contains(text, "1. Radiohead - Karma Police (OK Computer)") {
		t.Errorf("expected numbered track line, got %q", text)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText("Late Nights", sampleTracks())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Playlist: Late Nights\n") {
		t.Error("expected playlist name line")
	}
	if !strings.Contains(text, "2. Daft Punk, Pharrell Williams - Get Lucky\n") {
		t.Errorf("expected numbered track line, got %q", text)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("Writes To Given Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		written, err := WriteExport("Late Nights", "csv", path, sampleTracks())
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if written != path {
			t.Errorf("expected path echoed, got %q", written)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file on disk: %v", err)
		}
	})

	t.Run("Derives Filename From Playlist Name", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("failed to change directory: %v", err)
		}
		defer os.Chdir(wd)

		written, err := WriteExport("Late Nights!", "text", "", sampleTracks())
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if written != "late_nights.txt" {
			t.Errorf("expected slugged filename, got %q", written)
		}
	})

	t.Run("Rejects Unknown Format", func(t *testing.T) {
		if _, err := WriteExport("X", "yaml", "", sampleTracks()); err == nil {
			t.Error("expected an error for unsupported format")
		}
	})
}
