package ai

import (
	"fmt"

	"github.com/slidegenius/slidegenius/internal/ai/groq"
	"github.com/slidegenius/slidegenius/internal/ai/huggingface"
	"github.com/slidegenius/slidegenius/internal/ai/mock"
	"github.com/slidegenius/slidegenius/internal/ai/ollama"
	"github.com/slidegenius/slidegenius/internal/config"
)

// NewChainFromConfig constructs the provider fallback chain in the order
// named by cfg.Providers. Called once at server startup.
func NewChainFromConfig(cfg config.AIConfig) (*Chain, error) {
	providers := make([]Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch name {
		case "huggingface":
			providers = append(providers, huggingface.NewProvider(cfg.HuggingFace, cfg.Temperature, cfg.MaxTokens))
		case "groq":
			providers = append(providers, groq.NewProvider(cfg.Groq, cfg.Temperature, cfg.MaxTokens))
		case "ollama":
			providers = append(providers, ollama.NewProvider(cfg.Ollama, cfg.Temperature))
		case "mock":
			providers = append(providers, mock.NewProvider())
		default:
			return nil, fmt.Errorf("unknown ai provider %q: must be one of huggingface, groq, ollama, mock", name)
		}
	}
	return NewChain(providers...)
}
