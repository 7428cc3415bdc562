// ABOUTME: CSV corpus ingestion: parse songs, embed, append in batches
// ABOUTME: Embeds "<title> <lyrics>" per song; skips rows without lyrics
package sqlite

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/harper/lyricmatch/internal/models"
)

// DefaultIngestBatchSize is how many songs are embedded and committed together
const DefaultIngestBatchSize = 64

// Embedder produces one vector per text, in order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// IngestResult reports what an ingest run did
type IngestResult struct {
	Read    int
	Skipped int
	Stored  int
}

// ReadSongsCSV parses a CSV with artist, title and lyrics header columns.
// Column order is free and header names are case-insensitive; extra
// columns are ignored. Rows with blank lyrics are counted as skipped.
func ReadSongsCSV(r io.Reader) (songs []models.SongRecord, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("empty CSV: missing header")
		}
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{"artist": -1, "title": -1, "lyrics": -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, ok := cols[name]; ok {
			cols[name] = i
		}
	}
	if cols["lyrics"] < 0 {
		return nil, 0, fmt.Errorf("CSV header has no lyrics column")
	}

	field := func(record []string, name string) string {
		i := cols[name]
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read CSV: %w", err)
		}

		song := models.SongRecord{
			Artist: field(record, "artist"),
			Title:  field(record, "title"),
			Lyrics: field(record, "lyrics"),
		}
		if song.Lyrics == "" {
			skipped++
			continue
		}
		songs = append(songs, song)
	}

	return songs, skipped, nil
}

// EmbeddingText is the text embedded for a song
func EmbeddingText(song models.SongRecord) string {
	return strings.TrimSpace(song.Title + " " + song.Lyrics)
}

// Ingest reads songs from r, embeds them batchSize at a time and appends
// each batch to the corpus. A failed batch stops the run; earlier batches
// stay committed.
func (c *Corpus) Ingest(ctx context.Context, r io.Reader, embedder Embedder, batchSize int) (*IngestResult, error) {
	if embedder == nil {
		return nil, fmt.Errorf("ingest requires an embedder")
	}
	if batchSize <= 0 {
		batchSize = DefaultIngestBatchSize
	}

	songs, skipped, err := ReadSongsCSV(r)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{Read: len(songs) + skipped, Skipped: skipped}
	if skipped > 0 {
		log.Printf("Warning: skipped %d rows with empty lyrics", skipped)
	}

	for start := 0; start < len(songs); start += batchSize {
		end := min(start+batchSize, len(songs))
		batch := songs[start:end]

		texts := make([]string, len(batch))
		for i, song := range batch {
			texts[i] = EmbeddingText(song)
		}

		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return result, fmt.Errorf("failed to embed songs %d-%d: %w", start+1, end, err)
		}

		stored, err := c.Append(ctx, batch, vectors)
		if err != nil {
			return result, err
		}
		result.Stored += len(stored)
	}

	return result, nil
}
