// ABOUTME: Phrase match highlighter for song lyrics
// ABOUTME: Scores 1-3 token windows against the tag embedding, one batch per line
package core

import (
	"context"
	"fmt"

	"github.com/harper/lyricmatch/internal/models"
)

// Highlighter finds the lyric phrases that align with a tag
type Highlighter struct {
	embedder Embedder
}

// NewHighlighter creates a Highlighter
func NewHighlighter(embedder Embedder) *Highlighter {
	return &Highlighter{embedder: embedder}
}

// Highlight embeds tag and annotates every non-blank line of lyrics
func (h *Highlighter) Highlight(ctx context.Context, tag string, lyrics string) ([]models.LineAnnotation, error) {
	if h.embedder == nil {
		return nil, &ConfigurationError{Component: "embedding function"}
	}
	lines := SplitLines(lyrics)
	if len(lines) == 0 {
		return []models.LineAnnotation{}, nil
	}

	vectors, err := h.embedder.Embed(ctx, []string{tag})
	if err != nil {
		return nil, retrievalError("tag embedding", err)
	}
	if len(vectors) != 1 {
		return nil, retrievalError("tag embedding", fmt.Errorf("expected 1 vector, got %d", len(vectors)))
	}
	return h.HighlightVector(ctx, vectors[0], lyrics)
}

// HighlightVector annotates lyrics against an already computed tag vector
func (h *Highlighter) HighlightVector(ctx context.Context, tagVector []float64, lyrics string) ([]models.LineAnnotation, error) {
	if h.embedder == nil {
		return nil, &ConfigurationError{Component: "embedding function"}
	}

	lines := SplitLines(lyrics)
	annotations := make([]models.LineAnnotation, 0, len(lines))
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, retrievalError("highlight", err)
		}
		matches, err := h.matchLine(ctx, tagVector, line)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, models.LineAnnotation{
			Text:    line,
			Matches: matches,
		})
	}
	return annotations, nil
}

func (h *Highlighter) matchLine(ctx context.Context, tagVector []float64, line string) ([]models.PhraseMatch, error) {
	windows := Windows(Tokenize(line))
	if len(windows) == 0 {
		return []models.PhraseMatch{}, nil
	}

	phrases := make([]string, len(windows))
	for i, w := range windows {
		phrases[i] = w.Phrase
	}

	vectors, err := h.embedder.Embed(ctx, phrases)
	if err != nil {
		return nil, retrievalError("phrase embedding", err)
	}
	if len(vectors) != len(phrases) {
		return nil, retrievalError("phrase embedding", fmt.Errorf("expected %d vectors, got %d", len(phrases), len(vectors)))
	}

	var candidates []models.PhraseMatch
	for i, w := range windows {
		similarity, ok := CosineSimilarity(vectors[i], tagVector)
		if !ok {
			continue
		}
		strength, keep := models.ClassifyStrength(similarity)
		if !keep {
			continue
		}
		candidates = append(candidates, models.PhraseMatch{
			Phrase:        w.Phrase,
			StartTokenIdx: w.Start,
			EndTokenIdx:   w.End,
			Similarity:    similarity,
			Strength:      strength,
		})
	}

	return ResolveOverlaps(candidates), nil
}
