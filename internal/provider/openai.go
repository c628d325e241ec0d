package provider

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mohammad-safakhou/interviewd/config"
)

// OpenAI backs both capabilities with the OpenAI API.
type OpenAI struct {
	client     *openai.Client
	chatModel  string
	embedModel string
}

// NewOpenAI creates an OpenAI backend. The API key falls back to the
// OPENAI_API_KEY environment variable when not configured.
func NewOpenAI(cfg config.OpenAIConfig) (*OpenAI, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}
	cc := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cc.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAI{
		client:     openai.NewClientWithConfig(cc),
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbeddingModel,
	}, nil
}

// Embed embeds all texts in one batched request.
func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(o.embedModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai embeddings: %v", ErrProvider, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: openai returned %d embeddings for %d texts", ErrProvider, len(resp.Data), len(texts))
	}
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// Generate runs a chat completion.
func (o *OpenAI) Generate(ctx context.Context, msgs []Message, opts Options) (string, error) {
	chatMsgs := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		chatMsgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	req := openai.ChatCompletionRequest{
		Model:    o.chatModel,
		Messages: chatMsgs,
	}
	if opts.Temperature > 0 {
		req.Temperature = float32(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: openai chat: %v", ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
