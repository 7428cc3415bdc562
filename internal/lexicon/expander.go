// ABOUTME: Memoizing lexical expansion cache over a Source
// ABOUTME: Tolerates source unavailability by returning empty expansions
package lexicon

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
)

// MaxSenses bounds how many senses of a word are consulted
const MaxSenses = 2

// Expander maps a word to a few related words and memoizes the result for
// the life of the process. Safe for concurrent use; concurrent misses on
// the same key may compute twice but always store the same value.
type Expander struct {
	source Source

	initMu      sync.Mutex
	initialized bool

	cache sync.Map // cacheKey -> []string
}

// NewExpander creates an Expander. A nil source yields no expansions.
func NewExpander(source Source) *Expander {
	return &Expander{source: source}
}

// EnsureInitialized runs the source's setup until it first succeeds. A
// failed attempt is retried on the next call, so a lexicon imported after
// startup is picked up.
func (e *Expander) EnsureInitialized(ctx context.Context) error {
	if e.source == nil {
		return ErrSourceUnavailable
	}

	e.initMu.Lock()
	defer e.initMu.Unlock()
	if e.initialized {
		return nil
	}
	if init, ok := e.source.(Initializer); ok {
		if err := init.Init(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
	}
	e.initialized = true
	return nil
}

// Expand returns up to maxResults related words for word: synonyms of the
// top senses first, then one hyponym and one hypernym per sense while still
// short. Never fails; an unavailable source yields nil.
func (e *Expander) Expand(ctx context.Context, word string, maxResults int) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || maxResults <= 0 {
		return nil
	}

	key := cacheKey(word, maxResults)
	if cached, ok := e.cache.Load(key); ok {
		return slices.Clone(cached.([]string))
	}

	if err := e.EnsureInitialized(ctx); err != nil {
		return nil
	}

	senses, err := e.source.Senses(ctx, word)
	if err != nil {
		// Not memoized so a recovered source is used next time
		log.Printf("Warning: lexical expansion of %q failed: %v", word, err)
		return nil
	}

	result := collectTerms(senses, maxResults)
	actual, _ := e.cache.LoadOrStore(key, result)
	return slices.Clone(actual.([]string))
}

// Len returns the number of memoized entries
func (e *Expander) Len() int {
	n := 0
	e.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func collectTerms(senses []Sense, maxResults int) []string {
	if len(senses) > MaxSenses {
		senses = senses[:MaxSenses]
	}

	var terms []string
	for _, sense := range senses {
		terms = append(terms, sense.Synonyms...)

		if len(terms) < maxResults {
			if len(sense.Hyponyms) > 0 {
				terms = append(terms, sense.Hyponyms[0])
			}
			if len(sense.Hypernyms) > 0 {
				terms = append(terms, sense.Hypernyms[0])
			}
		}
	}

	result := make([]string, 0, maxResults)
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		term = NormalizeTerm(term)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		result = append(result, term)
		if len(result) == maxResults {
			break
		}
	}
	return result
}

// NormalizeTerm turns a lemma name into display form ("ice_lolly" -> "ice lolly")
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(term, "_", " ")))
}

func cacheKey(word string, maxResults int) string {
	return fmt.Sprintf("%s\x00%d", word, maxResults)
}
