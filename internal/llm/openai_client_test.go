// ABOUTME: Tests for the OpenAI client against a local fake API
// ABOUTME: Verifies batch ordering, retries, dimension checks and sense parsing
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/lyricmatch/internal/lexicon"
)

type fakeOpenAI struct {
	failures   atomic.Int32
	embedCalls atomic.Int32
	chatReply  string
	status     int
}

func (f *fakeOpenAI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
			return
		}
		if f.failures.Load() > 0 {
			f.failures.Add(-1)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			return
		}

		switch r.URL.Path {
		case "/v1/embeddings":
			f.embedCalls.Add(1)
			var req struct {
				Input []string `json:"input"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			// Reply in reverse order to exercise index sorting
			data := make([]map[string]any, 0, len(req.Input))
			for i := len(req.Input) - 1; i >= 0; i-- {
				data = append(data, map[string]any{
					"object":    "embedding",
					"index":     i,
					"embedding": []float32{float32(len(req.Input[i])), float32(i)},
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
		case "/v1/chat/completions":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"index": 0, "message": map[string]any{"role": "assistant", "content": f.chatReply}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestClient(t *testing.T, f *fakeOpenAI, dimension int) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClientWithConfig(&ClientConfig{
		APIKey:          "test-key",
		BaseURL:         srv.URL + "/v1",
		VectorDimension: dimension,
		Timeout:         5 * time.Second,
		MaxRetries:      2,
		RetryDelay:      time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}
	return client
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestEmbed_PreservesInputOrder(t *testing.T) {
	f := &fakeOpenAI{}
	client := newTestClient(t, f, 0)

	got, err := client.Embed(context.Background(), []string{"a", "bbb", "cc"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	wantLens := []float64{1, 3, 2}
	for i, v := range got {
		if v[0] != wantLens[i] || v[1] != float64(i) {
			t.Errorf("vector %d = %v, want [%v %d]", i, v, wantLens[i], i)
		}
	}
}

func TestEmbed_Batches(t *testing.T) {
	f := &fakeOpenAI{}
	client := newTestClient(t, f, 0)

	texts := make([]string, EmbedBatchSize+10)
	for i := range texts {
		texts[i] = "x"
	}
	got, err := client.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(got) != len(texts) {
		t.Errorf("len = %d, want %d", len(got), len(texts))
	}
	if f.embedCalls.Load() != 2 {
		t.Errorf("embed calls = %d, want 2", f.embedCalls.Load())
	}
}

func TestEmbed_RetriesServerErrors(t *testing.T) {
	f := &fakeOpenAI{}
	f.failures.Store(2)
	client := newTestClient(t, f, 0)

	if _, err := client.Embed(context.Background(), []string{"blue"}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
}

func TestEmbed_DoesNotRetryClientErrors(t *testing.T) {
	f := &fakeOpenAI{status: http.StatusUnauthorized}
	client := newTestClient(t, f, 0)

	if _, err := client.Embed(context.Background(), []string{"blue"}); err == nil {
		t.Fatal("Embed() should fail on 401")
	}
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	f := &fakeOpenAI{}
	client := newTestClient(t, f, 1536)

	if _, err := client.Embed(context.Background(), []string{"blue"}); err == nil {
		t.Fatal("Embed() should reject 2-dimensional vectors")
	}
	if f.embedCalls.Load() != 1 {
		t.Errorf("embed calls = %d, want 1 (no retry)", f.embedCalls.Load())
	}
}

func TestSenses_ParsesReply(t *testing.T) {
	f := &fakeOpenAI{chatReply: `{"senses": [{"synonyms": ["forest", "wood"], "hyponyms": ["rain_forest"], "hypernyms": ["vegetation"]}]}`}
	client := newTestClient(t, f, 0)

	senses, err := client.Senses(context.Background(), "forest")
	if err != nil {
		t.Fatalf("Senses() error = %v", err)
	}
	if len(senses) != 1 || senses[0].Synonyms[1] != "wood" || senses[0].Hyponyms[0] != "rain_forest" {
		t.Errorf("Senses() = %+v", senses)
	}

	// The client plugs straight into the expansion cache
	exp := lexicon.NewExpander(client)
	got := exp.Expand(context.Background(), "forest", 3)
	if len(got) != 3 || got[2] != "rain forest" {
		t.Errorf("Expand() = %v", got)
	}
}

func TestSenses_BadReplyIsUnavailable(t *testing.T) {
	f := &fakeOpenAI{chatReply: "not json"}
	client := newTestClient(t, f, 0)

	_, err := client.Senses(context.Background(), "forest")
	if !errors.Is(err, lexicon.ErrSourceUnavailable) {
		t.Errorf("Senses() error = %v, want ErrSourceUnavailable", err)
	}
}
