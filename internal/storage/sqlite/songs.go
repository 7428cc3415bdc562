// ABOUTME: Song metadata lookups for SQLite
// ABOUTME: Resolves vector index row ids to artist, title and lyrics
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harper/lyricmatch/internal/models"
)

// SongStore handles song metadata reads
type SongStore struct {
	db *DB
}

// NewSongStore creates a new SongStore
func NewSongStore(db *DB) *SongStore {
	return &SongStore{db: db}
}

// Lookup returns the song with the given row id, or nil if there is none
func (s *SongStore) Lookup(ctx context.Context, rowID int64) (*models.SongRecord, error) {
	var song models.SongRecord

	err := s.db.QueryRow(ctx, `
		SELECT id, artist, title, lyrics
		FROM songs
		WHERE id = ?
	`, rowID).Scan(&song.RowID, &song.Artist, &song.Title, &song.Lyrics)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up song %d: %w", rowID, err)
	}

	return &song, nil
}

// Count returns the number of songs in the corpus
func (s *SongStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM songs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return n, nil
}
