package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sableaudio/mixtape/internal/shared"
)

// SavedPlaylist is one record of a playlist pushed to the user's account.
type SavedPlaylist struct {
	ID         string    `json:"id"`
	PlaylistID string    `json:"playlist_id"`
	Name       string    `json:"name"`
	TrackCount int       `json:"track_count"`
	SavedAt    time.Time `json:"saved_at"`
}

// HistoryRepository persists [SavedPlaylist] records.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a HistoryRepository over the store's connection.
func NewHistoryRepository(s *Store) *HistoryRepository {
	return &HistoryRepository{db: s.DB()}
}

// Record inserts a new save record with a generated id and the current time.
func (r *HistoryRepository) Record(playlistID, name string, trackCount int) (*SavedPlaylist, error) {
	saved := &SavedPlaylist{
		ID:         shared.GenerateID(),
		PlaylistID: playlistID,
		Name:       name,
		TrackCount: trackCount,
		SavedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO save_history (id, playlist_id, name, track_count, saved_at) VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, saved.ID, saved.PlaylistID, saved.Name, saved.TrackCount, saved.SavedAt); err != nil {
		return nil, fmt.Errorf("failed to record saved playlist: %w", err)
	}

	return saved, nil
}

// List returns save records, newest first.
func (r *HistoryRepository) List() ([]SavedPlaylist, error) {
	query := `
		SELECT id, playlist_id, name, track_count, saved_at
		FROM save_history
		ORDER BY saved_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list save history: %w", err)
	}
	defer rows.Close()

	var records []SavedPlaylist
	for rows.Next() {
		var rec SavedPlaylist
		if err := rows.Scan(&rec.ID, &rec.PlaylistID, &rec.Name, &rec.TrackCount, &rec.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate save history: %w", err)
	}

	return records, nil
}
