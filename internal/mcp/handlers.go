// ABOUTME: MCP tool handler implementations for the lyric matcher
// ABOUTME: Decodes image features, runs the pipeline and renders JSON results
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/lyricmatch/internal/core"
	"github.com/harper/lyricmatch/internal/models"
	"github.com/harper/lyricmatch/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Pipeline is the matching surface the tools expose
type Pipeline interface {
	Synthesize(ctx context.Context, features models.ImageFeatureRecord) string
	MatchFeatures(ctx context.Context, features models.ImageFeatureRecord, topK int) (string, []models.MatchCandidate, error)
	MatchTag(ctx context.Context, tag string, topK int) ([]models.MatchCandidate, error)
}

// StatsProvider reports corpus statistics
type StatsProvider interface {
	Stats(ctx context.Context) (*sqlite.Stats, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	matcher     Pipeline
	stats       StatsProvider
	defaultTopK int
}

// NewHandlers creates tool handlers. A nil stats provider disables corpus_stats.
func NewHandlers(matcher Pipeline, stats StatsProvider, defaultTopK int) *Handlers {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Handlers{
		matcher:     matcher,
		stats:       stats,
		defaultTopK: defaultTopK,
	}
}

// matchResponse is the JSON body of match_image and match_tag. Candidates
// is null when nothing was retrieved.
type matchResponse struct {
	Tag        string                  `json:"tag"`
	Matched    bool                    `json:"matched"`
	Candidates []models.MatchCandidate `json:"candidates"`
}

// MatchImage handles the match_image tool
func (h *Handlers) MatchImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	features, err := decodeFeatures(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tag, candidates, err := h.matcher.MatchFeatures(ctx, features, request.GetInt("top_k", h.defaultTopK))
	return matchResult(tag, candidates, err)
}

// MatchTag handles the match_tag tool
func (h *Handlers) MatchTag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, err := request.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError("tag argument is required and must be a string"), nil
	}

	candidates, err := h.matcher.MatchTag(ctx, tag, request.GetInt("top_k", h.defaultTopK))
	return matchResult(tag, candidates, err)
}

func matchResult(tag string, candidates []models.MatchCandidate, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(describeError(err)), nil
	}

	return jsonResult(matchResponse{
		Tag:        tag,
		Matched:    candidates != nil,
		Candidates: candidates,
	})
}

// SynthesizeTag handles the synthesize_tag tool
func (h *Handlers) SynthesizeTag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	features, err := decodeFeatures(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"tag": h.matcher.Synthesize(ctx, features),
	})
}

// CorpusStats handles the corpus_stats tool
func (h *Handlers) CorpusStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.stats == nil {
		return mcp.NewToolResultError("corpus statistics are not available"), nil
	}

	stats, err := h.stats.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read stats: %v", err)), nil
	}

	return jsonResult(stats)
}

// decodeFeatures reads the features argument, given either as an object or
// as a JSON string. Only a non-object is rejected; bad fields default.
func decodeFeatures(request mcp.CallToolRequest) (models.ImageFeatureRecord, error) {
	var features models.ImageFeatureRecord

	raw, ok := request.GetArguments()["features"]
	if !ok || raw == nil {
		return features, errors.New("features argument is required")
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return features, fmt.Errorf("invalid features: %v", err)
		}
		data = encoded
	}

	if err := json.Unmarshal(data, &features); err != nil {
		return features, fmt.Errorf("invalid features: %v", err)
	}
	return features, nil
}

// describeError names the failure category; retrieval errors name themselves
func describeError(err error) string {
	var retrievalErr *core.RetrievalError
	switch {
	case errors.Is(err, core.ErrNotConfigured):
		return fmt.Sprintf("matcher not configured: %v", err)
	case errors.As(err, &retrievalErr):
		return err.Error()
	default:
		return fmt.Sprintf("match failed: %v", err)
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
