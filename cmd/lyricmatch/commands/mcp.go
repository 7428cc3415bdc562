// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents match images to lyrics over stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/lyricmatch/internal/app"
	"github.com/harper/lyricmatch/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs lyricmatch as an MCP (Model Context Protocol) server over stdio,
exposing the match_image, synthesize_tag, match_tag and corpus_stats tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  lyricmatch mcp

  # Configure in the client's config file:
  # {
  #   "mcpServers": {
  #     "lyricmatch": {
  #       "command": "lyricmatch",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{LoadIndex: true, Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	server, _ := mcp.NewServer(versionInfo.Version, a.Matcher, a.Storage, cfg.TopK)

	if !quiet {
		log.Printf("lyricmatch MCP server starting on stdio (%d songs indexed)...", a.Storage.Index().Len())
	}

	return serveUntilDone(ctx, server)
}

// serveUntilDone runs the stdio server until it exits or ctx is canceled
func serveUntilDone(ctx context.Context, server *mcpserver.MCPServer) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down")
		}
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
