package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mohammad-safakhou/interviewd/config"
)

func TestOpenAIGenerate(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		var req struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "How do you test Go services?"}},
			},
		})
	}))
	defer srv.Close()

	o, err := NewOpenAI(config.OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", ChatModel: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	got, err := o.Generate(context.Background(), []Message{
		{Role: RoleSystem, Content: "interviewer instructions"},
		{Role: RoleUser, Content: "begin"},
	}, Options{Temperature: 0.2, MaxTokens: 80})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "How do you test Go services?" {
		t.Fatalf("Generate = %q", got)
	}
}

func TestOpenAIEmbedBatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("expected one batched request with 2 inputs, got %d", len(req.Input))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.1, 0.2}, "index": 0},
				{"embedding": []float32{0.3, 0.4}, "index": 1},
			},
		})
	}))
	defer srv.Close()

	o, err := NewOpenAI(config.OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", EmbeddingModel: "text-embedding-3-small"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	vecs, err := o.Embed(context.Background(), []string{"first chunk", "second chunk"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || vecs[0][0] != 0.1 || vecs[1][0] != 0.3 {
		t.Fatalf("unexpected vectors: %v", vecs)
	}
}

func TestOpenAIUpstreamError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	o, err := NewOpenAI(config.OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", ChatModel: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	_, err = o.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Options{})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}

func TestFactorySelection(t *testing.T) {
	cfg := config.ProvidersConfig{
		Embedding:  "ollama",
		Generation: "ollama",
		Ollama:     config.OllamaConfig{BaseURL: "http://127.0.0.1:11434"},
	}
	if _, err := NewEmbedder(cfg); err != nil {
		t.Fatalf("NewEmbedder(ollama): %v", err)
	}
	if _, err := NewGenerator(cfg); err != nil {
		t.Fatalf("NewGenerator(ollama): %v", err)
	}

	cfg.Embedding = "gemini"
	if _, err := NewEmbedder(cfg); err == nil {
		t.Fatalf("expected error: gemini cannot embed")
	}

	cfg.Embedding = "word2vec"
	if _, err := NewEmbedder(cfg); err == nil {
		t.Fatalf("expected error for unknown embedding provider")
	}
	cfg.Generation = "word2vec"
	if _, err := NewGenerator(cfg); err == nil {
		t.Fatalf("expected error for unknown generation provider")
	}
}
