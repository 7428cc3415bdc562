// ABOUTME: Exact nearest-neighbour vector index over stored song vectors
// ABOUTME: Loads BLOB vectors into memory and ranks by squared L2 distance
package sqlite

import (
	"cmp"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/harper/lyricmatch/internal/models"
)

// ErrIndexNotLoaded is returned when searching before Load
var ErrIndexNotLoaded = errors.New("vector index not loaded")

// VectorIndex holds every corpus vector in memory, indexed by ordinal
type VectorIndex struct {
	db *DB

	mu        sync.RWMutex
	vectors   [][]float64
	dimension int
	loaded    bool
}

// NewVectorIndex creates an unloaded index backed by db
func NewVectorIndex(db *DB) *VectorIndex {
	return &VectorIndex{db: db}
}

// Load reads all vectors from the song_vectors table. Ordinals must be
// contiguous from 0 and share one dimension.
func (idx *VectorIndex) Load(ctx context.Context) error {
	rows, err := idx.db.Query(ctx, `
		SELECT ordinal, vector
		FROM song_vectors
		ORDER BY ordinal ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to read vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		vectors   [][]float64
		dimension int
	)
	for rows.Next() {
		var (
			ordinal int
			blob    []byte
		)
		if err := rows.Scan(&ordinal, &blob); err != nil {
			return err
		}
		if ordinal != len(vectors) {
			return fmt.Errorf("vector ordinals not contiguous: expected %d, got %d", len(vectors), ordinal)
		}

		vector := blobToVector(blob)
		if len(vectors) == 0 {
			dimension = len(vector)
		} else if len(vector) != dimension {
			return fmt.Errorf("vector %d has dimension %d, expected %d", ordinal, len(vector), dimension)
		}
		vectors = append(vectors, vector)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.vectors = vectors
	idx.dimension = dimension
	idx.loaded = true
	return nil
}

// Len returns the number of loaded vectors
func (idx *VectorIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dimension returns the corpus vector dimension (0 when empty)
func (idx *VectorIndex) Dimension() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Search returns the k nearest vectors to query, closest first. Equal
// distances keep the lower ordinal first.
func (idx *VectorIndex) Search(ctx context.Context, query []float64, k int) ([]models.Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.loaded {
		return nil, ErrIndexNotLoaded
	}
	if k <= 0 || len(idx.vectors) == 0 {
		return []models.Neighbor{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), idx.dimension)
	}

	neighbors := make([]models.Neighbor, len(idx.vectors))
	for i, v := range idx.vectors {
		neighbors[i] = models.Neighbor{Ordinal: i, Distance: SquaredL2(query, v)}
	}

	slices.SortFunc(neighbors, func(a, b models.Neighbor) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// SquaredL2 returns the squared Euclidean distance between equal-length vectors
func SquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
