package provider

import (
	"fmt"

	"github.com/mohammad-safakhou/interviewd/config"
)

// NewEmbedder creates the embedding backend named in configuration.
func NewEmbedder(cfg config.ProvidersConfig) (Embedder, error) {
	switch cfg.Embedding {
	case "ollama":
		return NewOllama(cfg.Ollama), nil
	case "openai":
		return NewOpenAI(cfg.OpenAI)
	case "gemini":
		return nil, fmt.Errorf("gemini does not serve embeddings; configure ollama or openai")
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding)
	}
}

// NewGenerator creates the generation backend named in configuration.
func NewGenerator(cfg config.ProvidersConfig) (Generator, error) {
	switch cfg.Generation {
	case "ollama":
		return NewOllama(cfg.Ollama), nil
	case "openai":
		return NewOpenAI(cfg.OpenAI)
	case "gemini":
		return NewGemini(cfg.Gemini)
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Generation)
	}
}
