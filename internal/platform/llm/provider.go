package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider turns a single prompt into generated text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Name is the human label used in failure messages, e.g. "Ollama".
	Name() string

	ModelID() string
}

// ErrStatus indicates the model server answered with a non-success status.
type ErrStatus struct {
	Code int
	Err  error
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("model server returned status %d: %v", e.Code, e.Err)
}

func (e *ErrStatus) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates a successful call that carried no generated text.
var ErrEmptyResponse = errors.New("no generated text in model response")
