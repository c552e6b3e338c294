package llm

import (
	"context"
	"fmt"
	"time"
)

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every Generate call on next by timeout. The call runs in
// its own goroutine so the deadline holds even for backends that ignore ctx.
// A timeout <= 0 returns next unchanged.
func WithTimeout(next Generator, timeout time.Duration) Generator {
	if timeout <= 0 {
		return next
	}
	return &timeoutGenerator{next: next, timeout: timeout}
}

type generateResult struct {
	text string
	err  error
}

func (g *timeoutGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan generateResult, 1)
	go func() {
		text, err := g.next.Generate(ctx, prompt, model)
		done <- generateResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("generation did not finish within %v: %w", g.timeout, ctx.Err())
	}
}
