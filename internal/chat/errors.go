package chat

import (
	"errors"
	"fmt"
)

var ErrUnsupportedModel = errors.New("model not supported")

// GenerationError reports that the generation backend failed for a request.
// The user's message has already been recorded when it is returned.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("error generating response: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
