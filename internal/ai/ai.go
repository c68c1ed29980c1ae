// Package ai defines the text-generation provider interface and the ordered
// fallback chain the generation client runs on.
package ai

import "context"

// Provider is the interface all text-generation integrations implement.
// One call sends a single user-role prompt and returns the completion text.
// Never call a specific provider directly — always go through a Chain.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
