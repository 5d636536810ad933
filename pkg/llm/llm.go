package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrGeneration is the single error kind surfaced for any provider failure.
// The provider-specific detail is wrapped behind it for logging only.
var ErrGeneration = errors.New("upstream generation failed")

// Completion is a provider response mapped to the uniform shape. Raw keeps
// the untouched provider payload for persistence.
type Completion struct {
	Text string
	Raw  []byte
}

// Client represents a generic interface for interacting with LLM providers
type Client interface {
	// Complete queries the provider with prompt and returns the full response
	Complete(ctx context.Context, prompt string) (*Completion, error)

	// CompleteStream queries the provider in streaming mode and invokes fn
	// for every text delta in arrival order. A non-nil error from fn aborts
	// the stream and is returned unchanged.
	CompleteStream(ctx context.Context, prompt string, fn func(delta string) error) error
}

func generationErr(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrGeneration, provider, err)
}
