package llm

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Generator produces a completion for a flattened prompt using the given
// backend model id.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

type Provider string

const (
	ProviderPlaceholder Provider = "placeholder"
	ProviderOpenAI      Provider = "openai"
	ProviderLangChain   Provider = "langchain"
	ProviderAnthropic   Provider = "anthropic"
	ProviderOllama      Provider = "ollama"
	ProviderHTTP        Provider = "http"
)

var Providers = []Provider{
	ProviderPlaceholder, ProviderOpenAI, ProviderLangChain, ProviderAnthropic, ProviderOllama, ProviderHTTP,
}

type Options struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string

	AnthropicAPIKey    string
	AnthropicBaseURL   string
	AnthropicMaxTokens int64

	OllamaEndpoint string

	HTTPEndpoint string

	PlaceholderReply string
	PlaceholderDelay time.Duration
}

func NewGenerator(provider Provider, opts Options) (Generator, error) {
	switch provider {
	case ProviderPlaceholder:
		return NewPlaceholder(opts.PlaceholderReply, opts.PlaceholderDelay), nil
	case ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY must be set for provider %s", provider)
		}
		return NewOpenAI(opts.OpenAIAPIKey, opts.OpenAIBaseURL), nil
	case ProviderLangChain:
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY must be set for provider %s", provider)
		}
		return NewLangChain(opts.OpenAIAPIKey, opts.OpenAIBaseURL)
	case ProviderAnthropic:
		if opts.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY must be set for provider %s", provider)
		}
		return NewAnthropic(opts.AnthropicAPIKey, opts.AnthropicBaseURL, opts.AnthropicMaxTokens), nil
	case ProviderOllama:
		if opts.OllamaEndpoint == "" {
			return nil, fmt.Errorf("OLLAMA_ENDPOINT must be set for provider %s", provider)
		}
		endpoint, err := url.Parse(opts.OllamaEndpoint)
		if err != nil {
			return nil, fmt.Errorf("OLLAMA_ENDPOINT URL is invalid: %w", err)
		}
		return NewOllama(endpoint), nil
	case ProviderHTTP:
		if opts.HTTPEndpoint == "" {
			return nil, fmt.Errorf("GENERATION_ENDPOINT must be set for provider %s", provider)
		}
		return NewHTTPGenerator(opts.HTTPEndpoint), nil
	default:
		return nil, fmt.Errorf("%s: invalid llm provider, expected one of %v", provider, Providers)
	}
}
