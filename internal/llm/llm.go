// Package llm wraps the text-completion service behind a single capability
// interface so the pipeline can run against a real provider in production
// and scripted responses in tests.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the provider answers with no content.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Completer is the prompt-in/text-out contract every provider satisfies.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
