// ABOUTME: Wires configuration, storage, embedding and lexical sources into a Matcher
// ABOUTME: Shared by the CLI commands and the standalone MCP server
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harper/lyricmatch/internal/config"
	"github.com/harper/lyricmatch/internal/core"
	"github.com/harper/lyricmatch/internal/lexicon"
	"github.com/harper/lyricmatch/internal/llm"
	"github.com/harper/lyricmatch/internal/storage/sqlite"
	"github.com/sashabaranov/go-openai"
)

const ollamaHealthTimeout = 3 * time.Second

// Options controls what New prepares
type Options struct {
	// LoadIndex reads all corpus vectors into memory for search
	LoadIndex bool
	// RequireEmbedder fails New when no embedding provider is usable
	RequireEmbedder bool
	Verbose         bool
}

// App holds the wired collaborators for one process
type App struct {
	Config   *config.Config
	Storage  *sqlite.Storage
	Embedder core.Embedder
	Expander *lexicon.Expander
	Matcher  *core.Matcher
}

// New opens storage and builds the matcher described by cfg
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	store, err := sqlite.NewStorageWithPath(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return NewWithStorage(ctx, cfg, store, opts)
}

// NewWithStorage builds the matcher over an already opened store. The App
// takes ownership of store.
func NewWithStorage(ctx context.Context, cfg *config.Config, store *sqlite.Storage, opts Options) (*App, error) {
	a := &App{Config: cfg, Storage: store}

	embedder, openaiClient, err := NewEmbedder(cfg)
	if err != nil {
		if opts.RequireEmbedder {
			_ = store.Close()
			return nil, err
		}
		log.Printf("Warning: %v - matching is unavailable", err)
	}
	a.Embedder = embedder
	if ollama, ok := embedder.(*llm.OllamaClient); ok {
		if err := CheckOllama(ctx, ollama, cfg.OllamaHost); err != nil {
			log.Printf("Warning: %v - matching will fail until it is reachable", err)
		}
	}

	if opts.LoadIndex {
		if err := store.LoadIndex(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		if opts.Verbose {
			log.Printf("Loaded %d vectors (dimension %d)", store.Index().Len(), store.Index().Dimension())
		}
	}

	a.Expander = lexicon.NewExpander(NewLexiconSource(cfg, store, openaiClient))
	if err := a.Expander.EnsureInitialized(ctx); err != nil && cfg.Lexicon != config.LexiconNone {
		log.Printf("Warning: lexical expansion disabled: %v", err)
	}

	mcfg := core.MatcherConfig{
		Songs:           store.Songs(),
		Expander:        a.Expander,
		MaxTokens:       cfg.MaxTags,
		SceneExpansions: cfg.Expansions,
		RequestTimeout:  cfg.RequestTimeout,
		Workers:         cfg.Workers,
		Verbose:         opts.Verbose,
	}
	if embedder != nil {
		mcfg.Embedder = embedder
	}
	if opts.LoadIndex {
		mcfg.Index = store.Index()
	}
	a.Matcher = core.NewMatcher(mcfg)

	return a, nil
}

// Close releases storage
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}

// NewEmbedder returns the configured embedding provider. The OpenAI client
// is also returned when one was created so it can serve lexical lookups.
func NewEmbedder(cfg *config.Config) (core.Embedder, *llm.OpenAIClient, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOllama:
		client := llm.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel, cfg.MaxRetries, cfg.RetryDelay)
		// The chat model can still serve lexical lookups
		openaiClient, _ := newOpenAIClient(cfg)
		return client, openaiClient, nil
	default:
		client, err := newOpenAIClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
}

// CheckOllama reports an error when the Ollama host does not answer
func CheckOllama(ctx context.Context, client *llm.OllamaClient, host string) error {
	ctx, cancel := context.WithTimeout(ctx, ollamaHealthTimeout)
	defer cancel()
	if !client.IsHealthy(ctx) {
		return fmt.Errorf("ollama not reachable at %s", host)
	}
	return nil
}

func newOpenAIClient(cfg *config.Config) (*llm.OpenAIClient, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	return llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:          cfg.OpenAIKey,
		ChatModel:       cfg.ChatModel,
		EmbeddingModel:  openai.EmbeddingModel(cfg.EmbeddingModel),
		VectorDimension: cfg.VectorDimension,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay,
	})
}

// NewLexiconSource picks the lexical-relation source named by cfg.Lexicon.
// A nil source means expansion is off.
func NewLexiconSource(cfg *config.Config, store *sqlite.Storage, openaiClient *llm.OpenAIClient) lexicon.Source {
	switch cfg.Lexicon {
	case config.LexiconSQLite:
		return store.Lexicon()
	case config.LexiconOpenAI:
		if openaiClient == nil {
			log.Printf("Warning: LYRICMATCH_LEXICON=openai needs OPENAI_API_KEY; expansion disabled")
			return nil
		}
		return openaiClient
	default:
		return nil
	}
}
