// ABOUTME: SQLite-backed WordNet-style lexical relation source
// ABOUTME: Serves word senses to the expansion cache and imports TSV relations
package sqlite

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/harper/lyricmatch/internal/lexicon"
)

// Relation names stored in the lexicon table
const (
	RelationSynonym  = "synonym"
	RelationHyponym  = "hyponym"
	RelationHypernym = "hypernym"
)

// ErrLexiconEmpty is returned by Init when nothing has been imported
var ErrLexiconEmpty = errors.New("lexicon is empty; run 'lyricmatch lexicon import'")

// LexiconStore implements lexicon.Source and lexicon.Initializer
type LexiconStore struct {
	db *DB
}

// NewLexiconStore creates a new LexiconStore
func NewLexiconStore(db *DB) *LexiconStore {
	return &LexiconStore{db: db}
}

// Init checks that relations have been imported
func (s *LexiconStore) Init(ctx context.Context) error {
	var one int
	err := s.db.QueryRow(ctx, "SELECT 1 FROM lexicon LIMIT 1").Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrLexiconEmpty
	}
	if err != nil {
		return fmt.Errorf("failed to open lexicon: %w", err)
	}
	return nil
}

// Senses returns the senses of word ordered by sense rank. Terms keep
// their import order within a relation.
func (s *LexiconStore) Senses(ctx context.Context, word string) ([]lexicon.Sense, error) {
	word = normalizeWord(word)

	rows, err := s.db.Query(ctx, `
		SELECT sense_rank, relation, term
		FROM lexicon
		WHERE word = ?
		ORDER BY sense_rank ASC, position ASC
	`, word)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lexicon.ErrSourceUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var (
		senses   []lexicon.Sense
		lastRank = -1
	)
	for rows.Next() {
		var (
			rank     int
			relation string
			term     string
		)
		if err := rows.Scan(&rank, &relation, &term); err != nil {
			return nil, fmt.Errorf("%w: %v", lexicon.ErrSourceUnavailable, err)
		}
		if rank != lastRank {
			senses = append(senses, lexicon.Sense{})
			lastRank = rank
		}

		sense := &senses[len(senses)-1]
		switch relation {
		case RelationSynonym:
			sense.Synonyms = append(sense.Synonyms, term)
		case RelationHyponym:
			sense.Hyponyms = append(sense.Hyponyms, term)
		case RelationHypernym:
			sense.Hypernyms = append(sense.Hypernyms, term)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", lexicon.ErrSourceUnavailable, err)
	}

	return senses, nil
}

// Count returns the number of relation rows and distinct words
func (s *LexiconStore) Count(ctx context.Context) (entries, words int, err error) {
	err = s.db.QueryRow(ctx, "SELECT COUNT(*), COUNT(DISTINCT word) FROM lexicon").Scan(&entries, &words)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count lexicon: %w", err)
	}
	return entries, words, nil
}

// Import loads tab-separated "word sense_rank relation term" rows. Lines
// starting with # are comments. Every word present in the input has its
// previous relations replaced. Returns the number of rows stored.
func (s *LexiconStore) Import(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = 4
	reader.LazyQuotes = true

	type key struct {
		word     string
		rank     int
		relation string
	}

	stored := 0
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		cleared := make(map[string]bool)
		positions := make(map[key]int)

		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read lexicon: %w", err)
			}

			line, _ := reader.FieldPos(0)
			word := normalizeWord(record[0])
			rank, err := strconv.Atoi(strings.TrimSpace(record[1]))
			if err != nil || rank < 0 {
				return fmt.Errorf("line %d: invalid sense rank %q", line, record[1])
			}
			relation := strings.ToLower(strings.TrimSpace(record[2]))
			if relation != RelationSynonym && relation != RelationHyponym && relation != RelationHypernym {
				return fmt.Errorf("line %d: unknown relation %q", line, record[2])
			}
			term := lexicon.NormalizeTerm(record[3])
			if word == "" || term == "" {
				return fmt.Errorf("line %d: empty word or term", line)
			}

			if !cleared[word] {
				if _, err := tx.ExecContext(ctx, "DELETE FROM lexicon WHERE word = ?", word); err != nil {
					return fmt.Errorf("failed to replace %q: %w", word, err)
				}
				cleared[word] = true
			}

			k := key{word, rank, relation}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO lexicon (word, sense_rank, relation, position, term)
				VALUES (?, ?, ?, ?, ?)
			`, word, rank, relation, positions[k], term); err != nil {
				return fmt.Errorf("line %d: failed to insert: %w", line, err)
			}
			positions[k]++
			stored++
		}
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// Clear removes every relation
func (s *LexiconStore) Clear(ctx context.Context) error {
	_, err := s.db.Exec(ctx, "DELETE FROM lexicon")
	return err
}

func normalizeWord(word string) string {
	return lexicon.NormalizeTerm(word)
}
