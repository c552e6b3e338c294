package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChain generates through langchaingo's OpenAI-compatible client, which
// also works against self-hosted servers exposing the same API.
type LangChain struct {
	llm *openai.LLM
}

func NewLangChain(apiKey, baseURL string) (*LangChain, error) {
	opts := []openai.Option{openai.WithToken(apiKey)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create langchain openai client: %w", err)
	}

	return &LangChain{llm: client}, nil
}

func (l *LangChain) Generate(ctx context.Context, prompt, model string) (string, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, l.llm, prompt, llms.WithModel(model))
	if err != nil {
		slog.Error("langchain error: generation failed", "model", model, "error", err)
		return "", fmt.Errorf("langchain generation failed: %w", err)
	}
	return reply, nil
}
