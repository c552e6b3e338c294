package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"chat-backend/internal/chat"
	"chat-backend/internal/llm"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Port            int           `env:"PORT" envDefault:"8000"`
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	LogFile         string        `env:"LOG_FILE"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"0s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	LLMProvider         string        `env:"LLM_PROVIDER" envDefault:"placeholder"`
	DefaultModelEngine  string        `env:"DEFAULT_MODEL_ENGINE" envDefault:"gpt-3.5-turbo"`
	AdvancedModelEngine string        `env:"ADVANCED_MODEL_ENGINE" envDefault:"gpt-4"`
	InitialModel        string        `env:"INITIAL_MODEL" envDefault:"default"`
	GenerationTimeout   time.Duration `env:"GENERATION_TIMEOUT" envDefault:"0s"`
	MaxContextMessages  int           `env:"MAX_CONTEXT_MESSAGES" envDefault:"20"`
	MaxActiveUsers      int           `env:"MAX_ACTIVE_USERS" envDefault:"0"`

	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL"`
	AnthropicAPIKey    string        `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL   string        `env:"ANTHROPIC_BASE_URL"`
	AnthropicMaxTokens int64         `env:"ANTHROPIC_MAX_TOKENS" envDefault:"1024"`
	OllamaEndpoint     string        `env:"OLLAMA_ENDPOINT" envDefault:"http://localhost:11434"`
	GenerationEndpoint string        `env:"GENERATION_ENDPOINT"`
	PlaceholderReply   string        `env:"PLACEHOLDER_REPLY" envDefault:"This is a placeholder response."`
	PlaceholderDelay   time.Duration `env:"PLACEHOLDER_DELAY" envDefault:"500ms"`

	StorageBackend    string `env:"STORAGE_BACKEND" envDefault:"local"`
	StorageRoot       string `env:"STORAGE_ROOT" envDefault:"."`
	UploadBucket      string `env:"UPLOAD_BUCKET" envDefault:"uploads"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES" envDefault:"0"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MaxContextMessages <= 0 {
		return fmt.Errorf("MAX_CONTEXT_MESSAGES must be positive, got %d", c.MaxContextMessages)
	}

	if c.StorageBackend != StorageLocal && c.StorageBackend != StorageS3 {
		return fmt.Errorf("invalid STORAGE_BACKEND '%s', must be '%s' or '%s'", c.StorageBackend, StorageLocal, StorageS3)
	}

	if c.UploadBucket == "" {
		return fmt.Errorf("UPLOAD_BUCKET must not be empty")
	}

	return nil
}

func (c *Config) ModelEngines() map[string]string {
	return map[string]string{
		chat.ModelDefault:  c.DefaultModelEngine,
		chat.ModelAdvanced: c.AdvancedModelEngine,
	}
}

func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		OpenAIAPIKey:       c.OpenAIAPIKey,
		OpenAIBaseURL:      c.OpenAIBaseURL,
		AnthropicAPIKey:    c.AnthropicAPIKey,
		AnthropicBaseURL:   c.AnthropicBaseURL,
		AnthropicMaxTokens: c.AnthropicMaxTokens,
		OllamaEndpoint:     c.OllamaEndpoint,
		HTTPEndpoint:       c.GenerationEndpoint,
		PlaceholderReply:   c.PlaceholderReply,
		PlaceholderDelay:   c.PlaceholderDelay,
	}
}
