package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Chain tries an ordered list of providers and returns the first success.
// It replaces ad hoc try/catch fallback ladders with one explicit combinator:
// the order is fixed at construction, every failure is logged, and exhausting
// the list yields ErrAllProvidersFailed wrapping the last provider error.
type Chain struct {
	providers []Provider
}

// NewChain creates a Chain. At least one provider is required.
func NewChain(providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("chain requires at least one provider")
	}
	return &Chain{providers: providers}, nil
}

func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Generate tries each provider in order until one returns non-empty text.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, p := range c.providers {
		text, err := p.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = fmt.Errorf("%w: empty completion", ErrInvalidResponse)
		} else {
			err = classify(err)
		}
		slog.Warn("generation provider failed, trying next",
			"provider", p.Name(), "error", err)
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

// classify tags a raw provider error with the matching sentinel so callers
// can branch with errors.Is instead of matching message text.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

// Compile-time check that Chain itself satisfies Provider.
var _ Provider = (*Chain)(nil)
