package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the interview service
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Interview InterviewConfig `mapstructure:"interview"`
	Document  DocumentConfig  `mapstructure:"document"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	BodyLimit   string   `mapstructure:"body_limit"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// ProvidersConfig selects the model backends and carries their settings
type ProvidersConfig struct {
	Embedding  string       `mapstructure:"embedding"`
	Generation string       `mapstructure:"generation"`
	Ollama     OllamaConfig `mapstructure:"ollama"`
	OpenAI     OpenAIConfig `mapstructure:"openai"`
	Gemini     GeminiConfig `mapstructure:"gemini"`
}

func (p ProvidersConfig) Validate() error {
	if strings.TrimSpace(p.Embedding) == "" {
		return fmt.Errorf("providers.embedding is required")
	}
	if strings.TrimSpace(p.Generation) == "" {
		return fmt.Errorf("providers.generation is required")
	}
	return nil
}

// OllamaConfig contains settings for a local Ollama instance
type OllamaConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig contains settings for the OpenAI API
type OpenAIConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// GeminiConfig contains settings for the Gemini API (generation only)
type GeminiConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	ChatModel string        `mapstructure:"chat_model"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// InterviewConfig tunes the question loop and the grounding guardrail
type InterviewConfig struct {
	MaxQuestions          int     `mapstructure:"max_questions"`
	TopK                  int     `mapstructure:"top_k"`
	MinContextChars       int     `mapstructure:"min_context_chars"`
	QuestionTemperature   float64 `mapstructure:"question_temperature"`
	QuestionMaxTokens     int     `mapstructure:"question_max_tokens"`
	EvaluationTemperature float64 `mapstructure:"evaluation_temperature"`
	EvaluationMaxTokens   int     `mapstructure:"evaluation_max_tokens"`
	QuizTemperature       float64 `mapstructure:"quiz_temperature"`
	QuizMaxTokens         int     `mapstructure:"quiz_max_tokens"`
}

// Normalize applies defaults for unset interview values.
func (c InterviewConfig) Normalize() InterviewConfig {
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = 7
	}
	if c.TopK <= 0 {
		c.TopK = 5
	}
	if c.MinContextChars <= 0 {
		c.MinContextChars = 200
	}
	if c.QuestionTemperature <= 0 {
		c.QuestionTemperature = 0.2
	}
	if c.QuestionMaxTokens <= 0 {
		c.QuestionMaxTokens = 80
	}
	if c.EvaluationTemperature <= 0 {
		c.EvaluationTemperature = 0.5
	}
	if c.EvaluationMaxTokens <= 0 {
		c.EvaluationMaxTokens = 200
	}
	if c.QuizTemperature <= 0 {
		c.QuizTemperature = 0.7
	}
	if c.QuizMaxTokens <= 0 {
		c.QuizMaxTokens = 256
	}
	return c
}

// DocumentConfig controls extraction and chunking of uploaded documents
type DocumentConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	MinChars     int `mapstructure:"min_chars"`
	PreviewChars int `mapstructure:"preview_chars"`
}

func (d DocumentConfig) Validate() error {
	if d.ChunkSize <= 0 {
		return fmt.Errorf("document.chunk_size must be > 0")
	}
	if d.ChunkOverlap < 0 || d.ChunkOverlap >= d.ChunkSize {
		return fmt.Errorf("document.chunk_overlap must be >= 0 and < chunk_size")
	}
	return nil
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from file, falling back to defaults and
// INTERVIEWD_* environment variables when no file is present.
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.body_limit", "8M")
	viper.SetDefault("server.cors_origins", []string{"*"})

	viper.SetDefault("providers.embedding", "ollama")
	viper.SetDefault("providers.generation", "ollama")
	viper.SetDefault("providers.ollama.base_url", "http://127.0.0.1:11434")
	viper.SetDefault("providers.ollama.chat_model", "mistral")
	viper.SetDefault("providers.ollama.embedding_model", "nomic-embed-text")
	viper.SetDefault("providers.ollama.timeout", "60s")
	viper.SetDefault("providers.openai.api_key", "")
	viper.SetDefault("providers.openai.base_url", "")
	viper.SetDefault("providers.openai.chat_model", "gpt-4o-mini")
	viper.SetDefault("providers.openai.embedding_model", "text-embedding-3-small")
	viper.SetDefault("providers.openai.timeout", "60s")
	viper.SetDefault("providers.gemini.api_key", "")
	viper.SetDefault("providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("providers.gemini.chat_model", "gemini-1.5-flash")
	viper.SetDefault("providers.gemini.timeout", "30s")

	viper.SetDefault("interview.max_questions", 7)
	viper.SetDefault("interview.top_k", 5)
	viper.SetDefault("interview.min_context_chars", 200)
	viper.SetDefault("interview.question_temperature", 0.2)
	viper.SetDefault("interview.question_max_tokens", 80)
	viper.SetDefault("interview.evaluation_temperature", 0.5)
	viper.SetDefault("interview.evaluation_max_tokens", 200)
	viper.SetDefault("interview.quiz_temperature", 0.7)
	viper.SetDefault("interview.quiz_max_tokens", 256)

	viper.SetDefault("document.chunk_size", 500)
	viper.SetDefault("document.chunk_overlap", 100)
	viper.SetDefault("document.min_chars", 50)
	viper.SetDefault("document.preview_chars", 500)

	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("INTERVIEWD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file in the search paths is fine; env and defaults carry.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	config.Interview = config.Interview.Normalize()

	if err := config.Providers.Validate(); err != nil {
		return nil, err
	}
	if err := config.Document.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
