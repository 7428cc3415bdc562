// ABOUTME: MCP tool definitions and registration for the lyric matcher
// ABOUTME: Defines JSON schemas for image matching, tag synthesis and stats
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// featuresSchema describes an ImageFeatureRecord argument
var featuresSchema = map[string]interface{}{
	"type":        "object",
	"description": "Image features: brightness, contrast, blur_score, dominant_colors, composition, classified_scene_label. Missing fields take neutral defaults.",
	"properties": map[string]interface{}{
		"brightness": map[string]interface{}{"type": "number", "description": "Mean brightness, 0-255 or 0-1"},
		"contrast":   map[string]interface{}{"type": "number", "description": "Contrast, 0-255 or 0-1"},
		"blur_score": map[string]interface{}{"type": "number", "description": "Sharpness score; higher is sharper"},
		"dominant_colors": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"rgb":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "integer"}},
					"name":       map[string]interface{}{"type": "string"},
					"percentage": map[string]interface{}{"type": "number"},
				},
			},
		},
		"composition": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"aspect_ratio":         map[string]interface{}{"type": "number"},
				"rule_of_thirds_score": map[string]interface{}{"type": "number"},
				"symmetry_score":       map[string]interface{}{"type": "number"},
			},
		},
		"classified_scene_label": map[string]interface{}{"type": "string", "description": "Scene classifier label, e.g. 'forest_path'"},
	},
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, matcher Pipeline, stats StatsProvider, defaultTopK int) *Handlers {
	handlers := NewHandlers(matcher, stats, defaultTopK)

	// 1. match_image - full pipeline from image features
	server.AddTool(mcp.Tool{
		Name:        "match_image",
		Description: "Find songs whose lyrics match an image. Builds a descriptive tag from image features, retrieves the closest songs and highlights matching lyric phrases with weak/medium/strong strength.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"features": featuresSchema,
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of songs to return (default: configured top_k)",
				},
			},
			Required: []string{"features"},
		},
	}, handlers.MatchImage)

	// 2. synthesize_tag - inspect the tag without retrieval
	server.AddTool(mcp.Tool{
		Name:        "synthesize_tag",
		Description: "Build the space-separated descriptive tag for image features without searching songs.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"features": featuresSchema,
			},
			Required: []string{"features"},
		},
	}, handlers.SynthesizeTag)

	// 3. match_tag - retrieval and highlighting for a hand-written tag
	server.AddTool(mcp.Tool{
		Name:        "match_tag",
		Description: "Find songs matching a free-text tag (e.g. 'rain night melancholy') and highlight matching lyric phrases.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tag": map[string]interface{}{
					"type":        "string",
					"description": "Space-separated descriptive words",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of songs to return (default: configured top_k)",
				},
			},
			Required: []string{"tag"},
		},
	}, handlers.MatchTag)

	// 4. corpus_stats - what the server is searching over
	server.AddTool(mcp.Tool{
		Name:        "corpus_stats",
		Description: "Report corpus size, vector dimension and lexicon size.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.CorpusStats)

	return handlers
}

// NewServer creates an MCP server with every tool registered
func NewServer(version string, matcher Pipeline, stats StatsProvider, defaultTopK int) (*mcpserver.MCPServer, *Handlers) {
	server := mcpserver.NewMCPServer(
		"lyricmatch",
		version,
	)
	handlers := RegisterTools(server, matcher, stats, defaultTopK)
	return server, handlers
}
