package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"codetrek/internal/platform/logger"
)

type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureTimeout   FailureKind = "timeout"
	FailureEmpty     FailureKind = "empty"
)

// Failure describes why a generation produced no text.
// Message is already phrased for display to the end user.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Result is either generated text or a Failure, never both.
type Result struct {
	Text    string
	Failure *Failure
}

func (r Result) OK() bool { return r.Failure == nil }

// Content is what gets stored and shown: the text on success, the failure message otherwise.
func (r Result) Content() string {
	if r.Failure != nil {
		return r.Failure.Message
	}
	return r.Text
}

// Client bounds each provider call by a timeout and folds every error into a Result.
type Client struct {
	provider Provider
	timeout  time.Duration
	log      *logger.Logger
}

func NewClient(provider Provider, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		provider: provider,
		timeout:  timeout,
		log:      log.With("service", "LLMClient", "provider", provider.Name(), "model", provider.ModelID()),
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.provider.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		f := c.classify(err)
		c.log.Warn("Generation failed", "kind", f.Kind, "elapsed", time.Since(start), "error", err)
		return Result{Failure: f}
	}
	c.log.Debug("Generation finished", "elapsed", time.Since(start), "chars", len(text))
	return Result{Text: text}
}

func (c *Client) classify(err error) *Failure {
	var statusErr *ErrStatus
	var netErr net.Error
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return &Failure{Kind: FailureEmpty, Message: "No valid response from model."}
	case errors.As(err, &statusErr):
		return &Failure{Kind: FailureStatus, Message: fmt.Sprintf("Error: API returned status code %d", statusErr.Code)}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &Failure{
			Kind:    FailureTimeout,
			Message: fmt.Sprintf("Error connecting to %s API: request timed out after %s", c.provider.Name(), c.timeout),
		}
	default:
		return &Failure{
			Kind:    FailureTransport,
			Message: fmt.Sprintf("Error connecting to %s API: %v", c.provider.Name(), err),
		}
	}
}
