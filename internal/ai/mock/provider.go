// Package mock provides a deterministic in-process generation provider for
// tests and local development without API keys.
package mock

import (
	"context"
	"errors"
	"strings"
)

// Provider satisfies the ai.Provider method set for testing.
type Provider struct {
	Name_        string
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *Provider) Name() string { return m.Name_ }

func (m *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", nil
}

// NewProvider returns a Provider with canned responses keyed off the prompt,
// close enough in shape to real output to exercise the whole pipeline.
func NewProvider() *Provider {
	return &Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, prompt string) (string, error) {
			lower := strings.ToLower(prompt)
			switch {
			case strings.Contains(lower, "<!doctype html>"):
				// Echo the embedded document back unchanged.
				start := strings.Index(lower, "<!doctype html>")
				end := strings.LastIndex(lower, "</html>")
				if start >= 0 && end > start {
					return prompt[start : end+len("</html>")], nil
				}
				return prompt, nil
			case strings.Contains(lower, "improve"):
				return "# Improved Presentation\n\n## Key Points\n- Professional content\n- Clear structure\n- Engaging format", nil
			case strings.Contains(lower, "theme"):
				return "simple", nil
			default:
				return "# Generated Content\n\nContent generated successfully.", nil
			}
		},
	}
}

// NewFailingProvider returns a Provider that always returns the given error.
func NewFailingProvider(err error) *Provider {
	if err == nil {
		err = errors.New("mock provider failure")
	}
	return &Provider{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewStaticProvider returns a Provider that always returns text.
func NewStaticProvider(text string) *Provider {
	return &Provider{
		Name_: "mock-static",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return text, nil
		},
	}
}

// NewTimeoutProvider returns a Provider that blocks until context is cancelled.
func NewTimeoutProvider() *Provider {
	return &Provider{
		Name_: "mock-timeout",
		GenerateFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}
