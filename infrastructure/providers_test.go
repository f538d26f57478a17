package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-command-generator/config"
)

func TestNewProviders_SkipsProvidersWithoutKeys(t *testing.T) {
	cfg := config.DefaultConfig()

	providers, err := NewProviders(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestNewProviders_KeepsConfiguredOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Remote.Providers = []config.ProviderConfig{
		{Kind: config.ProviderGroq, APIKey: "gsk", Model: "llama-3.1-8b-instant", BaseURL: "https://api.groq.com/openai/v1"},
		{Kind: config.ProviderOpenAI, Model: "gpt-4o-mini"},
		{Kind: config.ProviderAnthropic, APIKey: "sk-ant", Model: "claude-3-7-sonnet-latest"},
	}

	providers, err := NewProviders(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "groq:llama-3.1-8b-instant", providers[0].Name())
	assert.Equal(t, "anthropic:claude-3-7-sonnet-latest", providers[1].Name())
}

func TestNewProviders_UnknownKind(t *testing.T) {
	cfg := &config.Config{Remote: config.RemoteConfig{Providers: []config.ProviderConfig{
		{Kind: "mystery", APIKey: "k"},
	}}}

	_, err := NewProviders(context.Background(), cfg, nil)
	assert.Error(t, err)
}
