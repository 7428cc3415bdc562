// ABOUTME: Test doubles for the embedding function, vector index and song store
// ABOUTME: Deterministic lookups with call counting and injectable failures
package core

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/harper/lyricmatch/internal/lexicon"
	"github.com/harper/lyricmatch/internal/models"
)

// fakeEmbedder maps known texts to fixed vectors; unknown texts get the
// fallback vector.
type fakeEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float64
	fallback []float64
	err      error
	calls    int
	batches  [][]string
}

func newFakeEmbedder(vectors map[string][]float64) *fakeEmbedder {
	return &fakeEmbedder{vectors: vectors, fallback: []float64{0, 1}}
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.batches = append(f.batches, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = f.fallback
		}
	}
	return out, nil
}

type fakeIndex struct {
	neighbors []models.Neighbor
	err       error
	lastK     int
}

func (f *fakeIndex) Search(ctx context.Context, query []float64, k int) ([]models.Neighbor, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.neighbors) {
		k = len(f.neighbors)
	}
	return f.neighbors[:k], nil
}

type fakeSongs struct {
	songs map[int64]models.SongRecord
	err   error
}

func (f *fakeSongs) Lookup(ctx context.Context, rowID int64) (*models.SongRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	song, ok := f.songs[rowID]
	if !ok {
		return nil, nil
	}
	return &song, nil
}

type fakeLexicon map[string][]lexicon.Sense

func (f fakeLexicon) Senses(ctx context.Context, word string) ([]lexicon.Sense, error) {
	return f[word], nil
}

// slowLexicon answers every lookup after delay, ignoring cancellation
type slowLexicon struct {
	delay time.Duration
}

func (s slowLexicon) Senses(ctx context.Context, word string) ([]lexicon.Sense, error) {
	time.Sleep(s.delay)
	return []lexicon.Sense{{Synonyms: []string{word + "ish"}}}, nil
}

// sim returns a 2D unit vector with the given cosine against (1, 0)
func sim(cos float64) []float64 {
	return []float64{cos, math.Sqrt(1 - cos*cos)}
}
