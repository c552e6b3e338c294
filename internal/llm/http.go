package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
)

type httpGenerateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

type httpGenerateResponse struct {
	Text string `json:"text"`
}

// HTTPGenerator posts {prompt, model} to a single endpoint and reads {text}
// back. It fronts in-house inference servers that don't speak a vendor API.
type HTTPGenerator struct {
	client   *resty.Client
	endpoint string
}

func NewHTTPGenerator(endpoint string) *HTTPGenerator {
	return &HTTPGenerator{
		client:   resty.New().SetHeader("Accept", "application/json"),
		endpoint: endpoint,
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	var out httpGenerateResponse

	res, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(httpGenerateRequest{Prompt: prompt, Model: model}).
		SetResult(&out).
		Post(g.endpoint)
	if err != nil {
		slog.Error("unable to reach generation endpoint", "endpoint", g.endpoint, "error", err)
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	if !res.IsSuccess() {
		slog.Error("generation endpoint returned error", "status_code", res.StatusCode(), "body", res.String())
		return "", fmt.Errorf("generation endpoint returned status %d: %s", res.StatusCode(), res.String())
	}

	return out.Text, nil
}
