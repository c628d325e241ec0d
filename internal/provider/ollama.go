package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/interviewd/config"
)

// Ollama talks to a local Ollama instance over its native HTTP API and
// implements both Embedder and Generator.
type Ollama struct {
	baseURL    string
	chatModel  string
	embedModel string
	client     *http.Client
}

// NewOllama creates an Ollama backend from configuration.
func NewOllama(cfg config.OllamaConfig) *Ollama {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "http://127.0.0.1:11434"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Ollama{
		baseURL:    base,
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbeddingModel,
		client:     &http.Client{Timeout: timeout},
	}
}

// Embed returns one vector per text. The embeddings endpoint takes a single
// prompt per call, so texts are embedded sequentially in input order.
func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := o.embedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

func (o *Ollama) embedOne(ctx context.Context, text string) ([]float32, error) {
	type embedReq struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}
	body, err := json.Marshal(embedReq{Model: o.embedModel, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embeddings", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama embeddings: %v", ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ollama embeddings status %d", ErrProvider, resp.StatusCode)
	}
	var out struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: ollama embeddings decode: %v", ErrProvider, err)
	}
	if len(out.Embedding) == 0 {
		return nil, ErrEmptyResponse
	}
	return out.Embedding, nil
}

// Generate runs a chat completion against /api/chat with streaming disabled.
func (o *Ollama) Generate(ctx context.Context, msgs []Message, opts Options) (string, error) {
	type chatOptions struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	}
	type chatReq struct {
		Model    string      `json:"model"`
		Messages []Message   `json:"messages"`
		Stream   bool        `json:"stream"`
		Options  chatOptions `json:"options"`
	}
	body, err := json.Marshal(chatReq{
		Model:    o.chatModel,
		Messages: msgs,
		Stream:   false,
		Options:  chatOptions{Temperature: opts.Temperature, NumPredict: opts.MaxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: ollama chat: %v", ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: ollama chat status %d", ErrProvider, resp.StatusCode)
	}
	var out struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: ollama chat decode: %v", ErrProvider, err)
	}
	content := strings.TrimSpace(out.Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
