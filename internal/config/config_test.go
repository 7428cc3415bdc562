// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		EmbeddingProvider: ProviderOpenAI,
		Lexicon:           LexiconSQLite,
		MaxRetries:        3,
		TopK:              5,
		MaxTags:           10,
		Expansions:        3,
		Workers:           4,
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.EmbeddingProvider != ProviderOpenAI {
		t.Errorf("EmbeddingProvider = %s, want openai", cfg.EmbeddingProvider)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.Lexicon != LexiconSQLite {
		t.Errorf("Lexicon = %s, want sqlite", cfg.Lexicon)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.MaxTags != 10 {
		t.Errorf("MaxTags = %d, want 10", cfg.MaxTags)
	}
	if cfg.Expansions != 3 {
		t.Errorf("Expansions = %d, want 3", cfg.Expansions)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v, want 60s", cfg.RequestTimeout)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.VectorDimension != 0 {
		t.Errorf("VectorDimension = %d, want 0", cfg.VectorDimension)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("LYRICMATCH_EMBEDDING_PROVIDER", "ollama")
	os.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	os.Setenv("OLLAMA_MODEL", "nomic-embed-text")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("OPENAI_RETRY_DELAY", "3s")
	os.Setenv("LYRICMATCH_DB_PATH", "/tmp/corpus.db")
	os.Setenv("LYRICMATCH_LEXICON", "none")
	os.Setenv("LYRICMATCH_TOP_K", "8")
	os.Setenv("LYRICMATCH_MAX_TAGS", "6")
	os.Setenv("LYRICMATCH_REQUEST_TIMEOUT", "5s")
	os.Setenv("LYRICMATCH_WORKERS", "2")
	os.Setenv("LYRICMATCH_VECTOR_DIMENSION", "384")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.EmbeddingProvider != ProviderOllama {
		t.Errorf("EmbeddingProvider = %s, want ollama", cfg.EmbeddingProvider)
	}
	if cfg.OllamaHost != "http://gpu-box:11434" {
		t.Errorf("OllamaHost = %s", cfg.OllamaHost)
	}
	if cfg.OllamaModel != "nomic-embed-text" {
		t.Errorf("OllamaModel = %s", cfg.OllamaModel)
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
	if cfg.DBPath != "/tmp/corpus.db" {
		t.Errorf("DBPath = %s, want /tmp/corpus.db", cfg.DBPath)
	}
	if cfg.Lexicon != LexiconNone {
		t.Errorf("Lexicon = %s, want none", cfg.Lexicon)
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK = %d, want 8", cfg.TopK)
	}
	if cfg.MaxTags != 6 {
		t.Errorf("MaxTags = %d, want 6", cfg.MaxTags)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.VectorDimension != 384 {
		t.Errorf("VectorDimension = %d, want 384", cfg.VectorDimension)
	}
}

func TestLoad_InvalidProvider(t *testing.T) {
	os.Clearenv()
	os.Setenv("LYRICMATCH_EMBEDDING_PROVIDER", "word2vec")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for unknown embedding provider")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown lexicon", func(c *Config) { c.Lexicon = "wordnet" }},
		{"max retries too high", func(c *Config) { c.MaxRetries = 15 }},
		{"max retries negative", func(c *Config) { c.MaxRetries = -1 }},
		{"zero top k", func(c *Config) { c.TopK = 0 }},
		{"zero max tags", func(c *Config) { c.MaxTags = 0 }},
		{"negative expansions", func(c *Config) { c.Expansions = -1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"negative dimension", func(c *Config) { c.VectorDimension = -3 }},
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() on valid config error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestDefaultDBPath_RespectsXDG(t *testing.T) {
	os.Clearenv()
	os.Setenv("XDG_DATA_HOME", "/data")

	want := filepath.Join("/data", "lyricmatch", "songs.db")
	if got := DefaultDBPath(); got != want {
		t.Errorf("DefaultDBPath() = %s, want %s", got, want)
	}
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("TEST_INT", "not-a-number")

	if got := getEnvInt("TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt() = %d, want 7", got)
	}
}
