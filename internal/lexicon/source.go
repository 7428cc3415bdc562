// ABOUTME: Contract for lexical-relation sources (WordNet-style senses)
// ABOUTME: Implemented by the SQLite lexicon store and the LLM client
package lexicon

import (
	"context"
	"errors"
)

// ErrSourceUnavailable means the lexical source cannot answer right now.
// The Expander recovers from it by returning no expansions.
var ErrSourceUnavailable = errors.New("lexical source unavailable")

// Sense is one meaning of a word with its related terms, most common first.
type Sense struct {
	Synonyms  []string `json:"synonyms"`
	Hyponyms  []string `json:"hyponyms"`
	Hypernyms []string `json:"hypernyms"`
}

// Source looks up the senses of a word, most frequent sense first.
// An unknown word yields no senses and no error.
type Source interface {
	Senses(ctx context.Context, word string) ([]Sense, error)
}

// Initializer is implemented by sources that need one-time setup
type Initializer interface {
	Init(ctx context.Context) error
}
