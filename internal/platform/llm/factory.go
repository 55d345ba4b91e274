package llm

import (
	"context"
	"fmt"

	"codetrek/internal/platform/config"
)

// NewProviderFromConfig selects the provider named by LLM_PROVIDER.
func NewProviderFromConfig(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.LLMProvider {
	case config.ProviderOllama, "":
		return NewOpenAIProvider(OpenAIConfig{
			Name:    "Ollama",
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.ModelName,
		})
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
