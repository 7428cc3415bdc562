// ABOUTME: Collaborator contracts consumed by the pipeline
// ABOUTME: Embedding function, vector index and song metadata store
package core

import (
	"context"

	"github.com/harper/lyricmatch/internal/models"
)

// Embedder turns texts into fixed-length vectors, one per input, in order.
// Deterministic for a given model version.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorIndex returns the k nearest corpus entries, best first.
// Distances are squared L2 (lower is closer).
type VectorIndex interface {
	Search(ctx context.Context, query []float64, k int) ([]models.Neighbor, error)
}

// SongStore resolves a row id to its song. A missing row returns nil, nil.
type SongStore interface {
	Lookup(ctx context.Context, rowID int64) (*models.SongRecord, error)
}
