// ABOUTME: Pipeline orchestration: features -> tag -> candidates -> highlights
// ABOUTME: Applies a per-request deadline and highlights candidates in parallel
package core

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/harper/lyricmatch/internal/lexicon"
	"github.com/harper/lyricmatch/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultRequestTimeout bounds one Match call
	DefaultRequestTimeout = 60 * time.Second
	// DefaultWorkers bounds concurrent candidate highlighting
	DefaultWorkers = 4
)

// MatcherConfig wires the collaborators of a Matcher
type MatcherConfig struct {
	Embedder Embedder
	Index    VectorIndex
	Songs    SongStore
	Expander *lexicon.Expander

	// Zero values keep the synthesizer defaults
	MaxTokens       int
	SceneExpansions int
	RequestTimeout  time.Duration
	Workers         int
	Verbose         bool
}

// Matcher is the entry point used by the CLI and the MCP server
type Matcher struct {
	synthesizer *Synthesizer
	retriever   *Retriever
	highlighter *Highlighter
	timeout     time.Duration
	workers     int
	verbose     bool
}

// NewMatcher creates a Matcher. Missing collaborators are reported by
// Match as ConfigurationError, not here, so Synthesize works standalone.
func NewMatcher(cfg MatcherConfig) *Matcher {
	opts := []SynthesizerOption{WithMaxTokens(cfg.MaxTokens)}
	if cfg.SceneExpansions > 0 {
		opts = append(opts, WithSceneExpansions(cfg.SceneExpansions))
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Matcher{
		synthesizer: NewSynthesizer(cfg.Expander, opts...),
		retriever:   NewRetriever(cfg.Embedder, cfg.Index, cfg.Songs),
		highlighter: NewHighlighter(cfg.Embedder),
		timeout:     timeout,
		workers:     workers,
		verbose:     cfg.Verbose,
	}
}

// Synthesize returns the tag that Match would query with
func (m *Matcher) Synthesize(ctx context.Context, features models.ImageFeatureRecord) string {
	return m.synthesizer.Synthesize(ctx, features)
}

// Match synthesizes a tag for features, retrieves up to topK songs and
// annotates their lyrics. It returns nil, nil when nothing was retrieved.
// On any failure, including the deadline, no candidates are returned.
func (m *Matcher) Match(ctx context.Context, features models.ImageFeatureRecord, topK int) ([]models.MatchCandidate, error) {
	_, candidates, err := m.MatchFeatures(ctx, features, topK)
	return candidates, err
}

// MatchFeatures is Match that also returns the synthesized tag. The request
// deadline covers synthesis as well as retrieval and highlighting.
func (m *Matcher) MatchFeatures(ctx context.Context, features models.ImageFeatureRecord, topK int) (string, []models.MatchCandidate, error) {
	if err := m.retriever.checkConfigured(); err != nil {
		return "", nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	tag := m.synthesizer.Synthesize(ctx, features)
	candidates, err := m.matchWithin(ctx, tag, topK)
	return tag, candidates, err
}

// MatchTag runs retrieval and highlighting for an explicit tag
func (m *Matcher) MatchTag(ctx context.Context, tag string, topK int) ([]models.MatchCandidate, error) {
	if err := m.retriever.checkConfigured(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	return m.matchWithin(ctx, tag, topK)
}

// matchWithin expects ctx to already carry the request deadline
func (m *Matcher) matchWithin(ctx context.Context, tag string, topK int) ([]models.MatchCandidate, error) {
	requestID := uuid.New().String()[:8]
	start := time.Now()

	var candidates []models.MatchCandidate
	err := ctx.Err()
	if err == nil {
		candidates, err = m.run(ctx, tag, topK)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if !errors.Is(err, ctxErr) {
				err = ctxErr
			}
			err = retrievalError("match", err)
		}
		log.Printf("match %s: tag=%q failed: %v", requestID, tag, err)
		return nil, err
	}

	if m.verbose {
		log.Printf("match %s: tag=%q candidates=%d in %v", requestID, tag, len(candidates), time.Since(start))
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates, nil
}

func (m *Matcher) run(ctx context.Context, tag string, topK int) ([]models.MatchCandidate, error) {
	vector, err := m.retriever.EmbedTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	candidates, err := m.retriever.RetrieveVector(ctx, vector, topK)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := range candidates {
		g.Go(func() error {
			lines, err := m.highlighter.HighlightVector(gctx, vector, candidates[i].Song.Lyrics)
			if err != nil {
				return err
			}
			candidates[i].AnnotatedLines = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, retrievalError("match", err)
	}
	return candidates, nil
}
