// ABOUTME: OpenAI client for embeddings and LLM-backed lexical relations
// ABOUTME: Uses text-embedding-3-small for embeddings, gpt-4o-mini for word senses (configurable)
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harper/lyricmatch/internal/lexicon"
	"github.com/harper/lyricmatch/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for lexical lookups
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// EmbedBatchSize caps inputs per embeddings request
	EmbedBatchSize = 256
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	EmbeddingModel  openai.EmbeddingModel
	VectorDimension int
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client          *openai.Client
	chatModel       string
	embeddingModel  openai.EmbeddingModel
	vectorDimension int
	timeout         time.Duration
	maxRetries      int
	retryDelay      time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}

	chatModel := config.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:          openai.NewClientWithConfig(apiConfig),
		chatModel:       chatModel,
		embeddingModel:  embeddingModel,
		vectorDimension: config.VectorDimension,
		timeout:         timeout,
		maxRetries:      config.MaxRetries,
		retryDelay:      config.RetryDelay,
	}, nil
}

// Embed returns one embedding per text, in input order
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += EmbedBatchSize {
		end := min(start+EmbedBatchSize, len(texts))
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *OpenAIClient) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	var vectors [][]float64

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(int) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		if err != nil {
			if isPermanentAPIError(err) {
				return util.Permanent(err)
			}
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
		}

		sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

		vectors = make([][]float64, len(resp.Data))
		for i, d := range resp.Data {
			if c.vectorDimension > 0 && len(d.Embedding) != c.vectorDimension {
				return util.Permanent(fmt.Errorf("invalid embedding dimension: expected %d, got %d", c.vectorDimension, len(d.Embedding)))
			}
			vectors[i] = toFloat64(d.Embedding)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	return vectors, nil
}

const sensesPrompt = `You are a lexical database in the style of WordNet. Given an English word, list its most common senses, most frequent first (at most 2).

For each sense provide:
- synonyms: lemma names for the sense, starting with the word itself
- hyponyms: more specific terms
- hypernyms: more general terms

Use lowercase and underscores between words of a multi-word lemma.
Return ONLY a JSON object: {"senses": [{"synonyms": [], "hyponyms": [], "hypernyms": []}]}
Return {"senses": []} for words you do not know.`

type sensesResponse struct {
	Senses []lexicon.Sense `json:"senses"`
}

// Senses looks up word senses with the chat model. It implements
// lexicon.Source; failures wrap lexicon.ErrSourceUnavailable.
func (c *OpenAIClient) Senses(ctx context.Context, word string) ([]lexicon.Sense, error) {
	var senses []lexicon.Sense

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(int) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: sensesPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: word,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0,
		})
		if err != nil {
			if isPermanentAPIError(err) {
				return util.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}

		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		var parsed sensesResponse
		if err := json.Unmarshal([]byte(content), &parsed); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		senses = parsed.Senses
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lexicon.ErrSourceUnavailable, err)
	}
	return senses, nil
}

// isPermanentAPIError reports client errors that retrying will not fix
func isPermanentAPIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 400, 401, 403, 404:
			return true
		}
	}
	return false
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
