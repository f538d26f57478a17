package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"code-command-generator/config"
	"code-command-generator/domain"
)

// NewProviders builds the fallback chain from configuration, in order.
// Providers without an API key are skipped; an empty result is not an error.
func NewProviders(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]domain.Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var providers []domain.Provider
	for _, p := range cfg.ConfiguredProviders() {
		provider, err := newProvider(ctx, p, logger)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.Kind, err)
		}
		logger.Debug("provider configured", zap.String("provider", provider.Name()))
		providers = append(providers, provider)
	}
	return providers, nil
}

func newProvider(ctx context.Context, p config.ProviderConfig, logger *zap.Logger) (domain.Provider, error) {
	switch p.Kind {
	case config.ProviderAnthropic:
		return NewAnthropicClient(p.APIKey, p.Model, p.BaseURL, p.MaxTokens, logger)
	case config.ProviderOpenAI, config.ProviderGroq:
		return NewOpenAIClient(p.Kind, p.APIKey, p.Model, p.BaseURL, p.MaxTokens, logger)
	case config.ProviderGemini:
		return NewGeminiClient(ctx, p.APIKey, p.Model, logger)
	}
	return nil, fmt.Errorf("unknown provider kind %q", p.Kind)
}
