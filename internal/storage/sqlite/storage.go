// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Owns the song store, vector index, corpus writer and lexicon
package sqlite

import (
	"context"
	"fmt"
)

// Storage manages the song corpus and lexicon in one SQLite database
type Storage struct {
	db      *DB
	songs   *SongStore
	index   *VectorIndex
	corpus  *Corpus
	lexicon *LexiconStore
}

// Stats summarizes what is stored
type Stats struct {
	Songs          int `json:"songs" yaml:"songs"`
	Vectors        int `json:"vectors" yaml:"vectors"`
	Dimension      int `json:"dimension" yaml:"dimension"`
	LexiconEntries int `json:"lexicon_entries" yaml:"lexicon_entries"`
	LexiconWords   int `json:"lexicon_words" yaml:"lexicon_words"`
}

// NewStorageWithPath opens storage backed by the database at dbPath
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:      db,
		songs:   NewSongStore(db),
		index:   NewVectorIndex(db),
		corpus:  NewCorpus(db),
		lexicon: NewLexiconStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Songs returns the song metadata store
func (s *Storage) Songs() *SongStore {
	return s.songs
}

// Index returns the vector index. Call LoadIndex before searching.
func (s *Storage) Index() *VectorIndex {
	return s.index
}

// Corpus returns the corpus writer
func (s *Storage) Corpus() *Corpus {
	return s.corpus
}

// Lexicon returns the lexical relation store
func (s *Storage) Lexicon() *LexiconStore {
	return s.lexicon
}

// LoadIndex reads every stored vector into the in-memory index
func (s *Storage) LoadIndex(ctx context.Context) error {
	if err := s.index.Load(ctx); err != nil {
		return fmt.Errorf("failed to load vector index: %w", err)
	}
	return nil
}

// Stats counts songs, vectors and lexicon rows
func (s *Storage) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	songs, err := s.songs.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Songs = songs

	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(MAX(dimension), 0)
		FROM song_vectors
	`).Scan(&stats.Vectors, &stats.Dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to count vectors: %w", err)
	}

	entries, words, err := s.lexicon.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.LexiconEntries = entries
	stats.LexiconWords = words

	return &stats, nil
}
