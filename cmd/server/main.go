// ABOUTME: Main entry point for the lyricmatch MCP server with stdio transport
// ABOUTME: Loads configuration, opens the corpus and serves all tools
package main

import (
	"context"
	"log"

	"github.com/harper/lyricmatch/internal/app"
	"github.com/harper/lyricmatch/internal/config"
	"github.com/harper/lyricmatch/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var version = "dev"

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	a, err := app.New(context.Background(), cfg, app.Options{LoadIndex: true})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() { _ = a.Close() }()

	server, _ := mcp.NewServer(version, a.Matcher, a.Storage, cfg.TopK)

	log.Printf("lyricmatch MCP server starting on stdio (%d songs indexed)...", a.Storage.Index().Len())
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Printf("Server error: %v", err)
	}
}
