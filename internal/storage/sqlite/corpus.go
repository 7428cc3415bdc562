// ABOUTME: Corpus writer that appends songs with their vectors
// ABOUTME: Assigns ordinals and row ids together so row id = ordinal + 1
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harper/lyricmatch/internal/models"
)

// Corpus appends and clears songs and their vectors
type Corpus struct {
	db *DB
}

// NewCorpus creates a new Corpus
func NewCorpus(db *DB) *Corpus {
	return &Corpus{db: db}
}

// Append stores songs with their vectors in one transaction and returns
// the songs with RowID filled in. All vectors must match the dimension of
// vectors already stored.
func (c *Corpus) Append(ctx context.Context, songs []models.SongRecord, vectors [][]float64) ([]models.SongRecord, error) {
	if len(songs) != len(vectors) {
		return nil, fmt.Errorf("got %d songs but %d vectors", len(songs), len(vectors))
	}
	if len(songs) == 0 {
		return nil, nil
	}

	stored := make([]models.SongRecord, len(songs))
	err := c.db.withTx(ctx, func(tx *sql.Tx) error {
		var count, dimension int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*), COALESCE(MAX(dimension), 0)
			FROM song_vectors
		`).Scan(&count, &dimension)
		if err != nil {
			return fmt.Errorf("failed to read corpus size: %w", err)
		}
		if dimension == 0 {
			dimension = len(vectors[0])
		}

		for i, song := range songs {
			if len(vectors[i]) == 0 || len(vectors[i]) != dimension {
				return fmt.Errorf("invalid embedding dimension for %q: expected %d, got %d", song.Title, dimension, len(vectors[i]))
			}

			ordinal := count + i
			rowID := models.RowIDForOrdinal(ordinal)

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO songs (id, artist, title, lyrics)
				VALUES (?, ?, ?, ?)
			`, rowID, song.Artist, song.Title, song.Lyrics); err != nil {
				return fmt.Errorf("failed to insert song %q: %w", song.Title, err)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO song_vectors (ordinal, song_id, dimension, vector)
				VALUES (?, ?, ?, ?)
			`, ordinal, rowID, dimension, vectorToBlob(vectors[i])); err != nil {
				return fmt.Errorf("failed to insert vector for %q: %w", song.Title, err)
			}

			song.RowID = rowID
			stored[i] = song
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// Reset removes every song and vector
func (c *Corpus) Reset(ctx context.Context) error {
	return c.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM song_vectors"); err != nil {
			return fmt.Errorf("failed to clear vectors: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM songs"); err != nil {
			return fmt.Errorf("failed to clear songs: %w", err)
		}
		return nil
	})
}

// All returns every song ordered by row id
func (c *Corpus) All(ctx context.Context) ([]models.SongRecord, error) {
	rows, err := c.db.Query(ctx, `
		SELECT id, artist, title, lyrics
		FROM songs
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var songs []models.SongRecord
	for rows.Next() {
		var song models.SongRecord
		if err := rows.Scan(&song.RowID, &song.Artist, &song.Title, &song.Lyrics); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
