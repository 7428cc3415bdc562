// ABOUTME: Ollama embedding client for locally hosted models
// ABOUTME: Batches texts through the /api/embed endpoint with retries
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harper/lyricmatch/internal/util"
)

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// OllamaClient embeds text with an Ollama server
type OllamaClient struct {
	host       string
	model      string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewOllamaClient creates a client for host (e.g. http://localhost:11434)
func NewOllamaClient(host, model string, maxRetries int, retryDelay time.Duration) *OllamaClient {
	return &OllamaClient{
		host:  host,
		model: model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Embed returns one embedding per text, in input order
func (c *OllamaClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += EmbedBatchSize {
		end := min(start+EmbedBatchSize, len(texts))
		var batch [][]float64
		err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(int) error {
			var err error
			batch, err = c.embedBatch(ctx, texts[start:end])
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("ollama embed: %w", err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *OllamaClient) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, util.Permanent(fmt.Errorf("marshal embed request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, util.Permanent(fmt.Errorf("build embed request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, util.Permanent(err)
		}
		return nil, err
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}
	return result.Embeddings, nil
}

// IsHealthy checks if Ollama is reachable
func (c *OllamaClient) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
