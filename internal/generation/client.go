// Package generation wraps the AI provider chain in the contract the
// pipeline depends on: one bounded call that never fails, returning a
// sentinel string when no usable content could be produced.
package generation

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/slidegenius/slidegenius/internal/ai"
)

// FailureSentinel is returned whenever the external call produced no usable
// content. Callers must treat it as "no content" and apply their own fallback.
const FailureSentinel = "Failed to generate content"

const logSnippetBytes = 500

// Client invokes the provider chain with a fixed per-call timeout.
type Client struct {
	provider ai.Provider
	timeout  time.Duration
}

// NewClient creates a generation client. A zero timeout defaults to 30s.
func NewClient(provider ai.Provider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{provider: provider, timeout: timeout}
}

// Generate performs one generation call. Any failure — timeout, transport
// error, malformed payload, exhausted providers — surfaces as FailureSentinel,
// never as an error.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.provider.Generate(callCtx, prompt)
	if err != nil {
		slog.Warn("generation call failed",
			"provider", c.provider.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
			"prompt_snippet", snippet(prompt),
			"error", err,
		)
		return FailureSentinel
	}

	slog.Debug("generation call completed",
		"provider", c.provider.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_bytes", len(prompt),
		"response_bytes", len(text),
		"prompt_snippet", snippet(prompt),
		"response_snippet", snippet(text),
	)
	return text
}

// IsFailure reports whether text is the sentinel failure value.
func IsFailure(text string) bool {
	return text == FailureSentinel
}

// snippet truncates s for logging without splitting UTF-8 runes.
func snippet(s string) string {
	if len(s) <= logSnippetBytes {
		return s
	}
	n := logSnippetBytes
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
