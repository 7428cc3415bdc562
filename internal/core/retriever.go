// ABOUTME: Candidate retriever over the song vector index
// ABOUTME: Keeps the index's ranking and resolves ordinals to row ids (ordinal + 1)
package core

import (
	"context"
	"fmt"

	"github.com/harper/lyricmatch/internal/models"
)

// Retriever finds the songs nearest to a tag
type Retriever struct {
	embedder Embedder
	index    VectorIndex
	songs    SongStore
}

// NewRetriever creates a Retriever
func NewRetriever(embedder Embedder, index VectorIndex, songs SongStore) *Retriever {
	return &Retriever{embedder: embedder, index: index, songs: songs}
}

func (r *Retriever) checkConfigured() error {
	switch {
	case r.embedder == nil:
		return &ConfigurationError{Component: "embedding function"}
	case r.index == nil:
		return &ConfigurationError{Component: "vector index"}
	case r.songs == nil:
		return &ConfigurationError{Component: "metadata store"}
	}
	return nil
}

// EmbedTag computes the single query vector for tag
func (r *Retriever) EmbedTag(ctx context.Context, tag string) ([]float64, error) {
	if r.embedder == nil {
		return nil, &ConfigurationError{Component: "embedding function"}
	}
	vectors, err := r.embedder.Embed(ctx, []string{tag})
	if err != nil {
		return nil, retrievalError("tag embedding", err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, retrievalError("tag embedding", fmt.Errorf("expected 1 vector, got %d", len(vectors)))
	}
	return vectors[0], nil
}

// Retrieve returns up to topK candidates for tag, best first, without
// lyric annotations.
func (r *Retriever) Retrieve(ctx context.Context, tag string, topK int) ([]models.MatchCandidate, error) {
	if err := r.checkConfigured(); err != nil {
		return nil, err
	}
	vector, err := r.EmbedTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	return r.RetrieveVector(ctx, vector, topK)
}

// RetrieveVector is Retrieve for an already embedded tag
func (r *Retriever) RetrieveVector(ctx context.Context, vector []float64, topK int) ([]models.MatchCandidate, error) {
	if err := r.checkConfigured(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return []models.MatchCandidate{}, nil
	}

	neighbors, err := r.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, retrievalError("index search", err)
	}
	if len(neighbors) > topK {
		neighbors = neighbors[:topK]
	}

	candidates := make([]models.MatchCandidate, 0, len(neighbors))
	for _, n := range neighbors {
		rowID := models.RowIDForOrdinal(n.Ordinal)
		song, err := r.songs.Lookup(ctx, rowID)
		if err != nil {
			return nil, retrievalError("metadata lookup", err)
		}
		if song == nil {
			continue
		}
		candidates = append(candidates, models.MatchCandidate{
			Song:     *song,
			Distance: n.Distance,
		})
	}
	return candidates, nil
}
