// ABOUTME: Centralized configuration for the lyric matcher
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Embedding providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Lexical sources
const (
	LexiconSQLite = "sqlite"
	LexiconOpenAI = "openai"
	LexiconNone   = "none"
)

// Config holds all configuration for the matcher
type Config struct {
	// Embedding settings
	EmbeddingProvider string
	OpenAIKey         string
	EmbeddingModel    string
	ChatModel         string
	OllamaHost        string
	OllamaModel       string
	Timeout           time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	VectorDimension   int

	// Storage settings
	DBPath string

	// Matching settings
	Lexicon        string
	TopK           int
	MaxTags        int
	Expansions     int
	RequestTimeout time.Duration
	Workers        int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		EmbeddingProvider: getEnv("LYRICMATCH_EMBEDDING_PROVIDER", ProviderOpenAI),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:    getEnv("LYRICMATCH_EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:         getEnv("LYRICMATCH_CHAT_MODEL", "gpt-4o-mini"),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "all-minilm"),
		Timeout:           getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:        getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:        getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		VectorDimension:   getEnvInt("LYRICMATCH_VECTOR_DIMENSION", 0),
		DBPath:            getEnv("LYRICMATCH_DB_PATH", DefaultDBPath()),
		Lexicon:           getEnv("LYRICMATCH_LEXICON", LexiconSQLite),
		TopK:              getEnvInt("LYRICMATCH_TOP_K", 5),
		MaxTags:           getEnvInt("LYRICMATCH_MAX_TAGS", 10),
		Expansions:        getEnvInt("LYRICMATCH_EXPANSIONS", 3),
		RequestTimeout:    getEnvDuration("LYRICMATCH_REQUEST_TIMEOUT", 60*time.Second),
		Workers:           getEnvInt("LYRICMATCH_WORKERS", 4),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.EmbeddingProvider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("LYRICMATCH_EMBEDDING_PROVIDER must be openai or ollama, got %q", c.EmbeddingProvider)
	}
	switch c.Lexicon {
	case LexiconSQLite, LexiconOpenAI, LexiconNone:
	default:
		return fmt.Errorf("LYRICMATCH_LEXICON must be sqlite, openai or none, got %q", c.Lexicon)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("LYRICMATCH_TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxTags <= 0 {
		return fmt.Errorf("LYRICMATCH_MAX_TAGS must be positive, got %d", c.MaxTags)
	}
	if c.Expansions < 0 {
		return fmt.Errorf("LYRICMATCH_EXPANSIONS must not be negative, got %d", c.Expansions)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("LYRICMATCH_WORKERS must be positive, got %d", c.Workers)
	}
	if c.VectorDimension < 0 {
		return fmt.Errorf("LYRICMATCH_VECTOR_DIMENSION must not be negative, got %d", c.VectorDimension)
	}
	return nil
}

// DefaultDataDir returns $XDG_DATA_HOME/lyricmatch, or ~/.local/share/lyricmatch
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/lyricmatch"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "lyricmatch")
}

// DefaultDBPath returns the default corpus database path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "songs.db")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
