package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type Ollama struct {
	client *api.Client
}

func NewOllama(endpoint *url.URL) *Ollama {
	return &Ollama{client: api.NewClient(endpoint, http.DefaultClient)}
}

func (o *Ollama) Generate(ctx context.Context, prompt, model string) (string, error) {
	stream := false

	var b strings.Builder
	err := o.client.Generate(ctx, &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &stream,
	}, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		slog.Error("ollama error: generate failed", "model", model, "error", err)
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}

	return b.String(), nil
}
