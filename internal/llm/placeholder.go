package llm

import (
	"context"
	"time"
)

const DefaultPlaceholderReply = "This is a placeholder response."

// Placeholder answers every prompt with a fixed reply after a fixed delay. It
// lets the service run end to end without credentials for a real backend.
type Placeholder struct {
	reply string
	delay time.Duration
}

func NewPlaceholder(reply string, delay time.Duration) *Placeholder {
	if reply == "" {
		reply = DefaultPlaceholderReply
	}
	return &Placeholder{reply: reply, delay: delay}
}

func (p *Placeholder) Generate(ctx context.Context, prompt, model string) (string, error) {
	if p.delay <= 0 {
		return p.reply, nil
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return p.reply, nil
	}
}
