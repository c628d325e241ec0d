// Package provider defines the model capabilities the interview engine
// depends on: embedding text into vectors and generating chat completions.
// Concrete backends live beside the interfaces and are selected by
// configuration.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// Chat roles shared by all backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn of a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single generation call. Zero values fall back to the
// backend's own defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Embedder converts texts into vectors, one vector per input in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a completion for a chat exchange.
type Generator interface {
	Generate(ctx context.Context, msgs []Message, opts Options) (string, error)
}

// ErrProvider is the base error for upstream model faults; callers match it
// with errors.Is.
var ErrProvider = errors.New("model provider error")

// ErrEmptyResponse reports a backend reply that carried no usable content.
var ErrEmptyResponse = fmt.Errorf("%w: empty response", ErrProvider)
