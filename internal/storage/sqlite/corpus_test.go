// ABOUTME: Tests for corpus appends, resets and CSV ingestion
// ABOUTME: Verifies row id = ordinal + 1 across batches
package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/lyricmatch/internal/models"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = []float64{float64(len(text)), 1}
	}
	return out, nil
}

func TestCorpus_AppendAssignsRowIDs(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first := seedSongs(t, store, []float64{1, 0}, []float64{0, 1})
	second := seedSongs(t, store, []float64{1, 1})

	if first[0].RowID != 1 || first[1].RowID != 2 || second[0].RowID != 3 {
		t.Errorf("row ids = %d,%d,%d; want 1,2,3", first[0].RowID, first[1].RowID, second[0].RowID)
	}

	var songID int64
	if err := store.db.QueryRow(ctx, "SELECT song_id FROM song_vectors WHERE ordinal = 2").Scan(&songID); err != nil {
		t.Fatalf("QueryRow() error = %v", err)
	}
	if songID != models.RowIDForOrdinal(2) {
		t.Errorf("song_id for ordinal 2 = %d, want %d", songID, models.RowIDForOrdinal(2))
	}
}

func TestCorpus_AppendValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	song := models.SongRecord{Title: "t", Lyrics: "l"}

	if _, err := store.Corpus().Append(ctx, []models.SongRecord{song}, nil); err == nil {
		t.Error("Append() should reject mismatched song and vector counts")
	}

	seedSongs(t, store, []float64{1, 2})
	if _, err := store.Corpus().Append(ctx, []models.SongRecord{song}, [][]float64{{1, 2, 3}}); err == nil {
		t.Error("Append() should reject a vector of a different dimension")
	}

	count, err := store.Songs().Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 (failed batch rolled back)", count)
	}
}

func TestCorpus_Reset(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	seedSongs(t, store, []float64{1}, []float64{2})
	if err := store.Corpus().Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Songs != 0 || stats.Vectors != 0 {
		t.Errorf("after Reset Stats() = %+v", stats)
	}

	// Ordinals restart at zero
	again := seedSongs(t, store, []float64{3})
	if again[0].RowID != 1 {
		t.Errorf("RowID after reset = %d, want 1", again[0].RowID)
	}
}

func TestReadSongsCSV(t *testing.T) {
	input := "Title,Artist,Lyrics,Year\n" +
		"Blue Moon,Sinatra,\"Blue moon\nyou saw me standing alone\",1961\n" +
		"Silence,Nobody,,2000\n" +
		"Rain,Someone,\"rain on the window\",1999\n"

	songs, skipped, err := ReadSongsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSongsCSV() error = %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(songs) != 2 {
		t.Fatalf("len(songs) = %d, want 2", len(songs))
	}
	if songs[0].Artist != "Sinatra" || songs[0].Title != "Blue Moon" {
		t.Errorf("songs[0] = %+v", songs[0])
	}
	if songs[0].Lyrics != "Blue moon\nyou saw me standing alone" {
		t.Errorf("multi-line lyrics = %q", songs[0].Lyrics)
	}
}

func TestReadSongsCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no lyrics column", "artist,title\na,b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ReadSongsCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadSongsCSV() should fail")
			}
		})
	}
}

func TestEmbeddingText(t *testing.T) {
	got := EmbeddingText(models.SongRecord{Title: "Blue", Lyrics: "blue skies"})
	if got != "Blue blue skies" {
		t.Errorf("EmbeddingText() = %q", got)
	}
}

func TestCorpus_Ingest(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	embedder := &fakeEmbedder{}

	input := "artist,title,lyrics\n" +
		"a,One,first\n" +
		"b,Two,second\n" +
		"c,Three,\n" +
		"d,Four,fourth\n"

	result, err := store.Corpus().Ingest(ctx, strings.NewReader(input), embedder, 2)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.Read != 4 || result.Skipped != 1 || result.Stored != 3 {
		t.Errorf("Ingest() = %+v, want read 4 skipped 1 stored 3", result)
	}
	if embedder.calls != 2 {
		t.Errorf("embed calls = %d, want 2", embedder.calls)
	}

	song, err := store.Songs().Lookup(ctx, 3)
	if err != nil || song == nil {
		t.Fatalf("Lookup(3) = %v, %v", song, err)
	}
	if song.Title != "Four" {
		t.Errorf("row 3 title = %q, want Four", song.Title)
	}
}

func TestCorpus_IngestEmbedFailure(t *testing.T) {
	store := newTestStorage(t)
	embedder := &fakeEmbedder{err: errors.New("quota")}

	_, err := store.Corpus().Ingest(context.Background(), strings.NewReader("lyrics\nhello\n"), embedder, 0)
	if err == nil {
		t.Fatal("Ingest() should fail when embedding fails")
	}
	if _, err := store.Corpus().Ingest(context.Background(), strings.NewReader("lyrics\nhello\n"), nil, 0); err == nil {
		t.Error("Ingest() should require an embedder")
	}
}
