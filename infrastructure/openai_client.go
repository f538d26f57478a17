package infrastructure

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"code-command-generator/domain"
)

// OpenAIClient is a Provider backed by the Chat Completions API. Pointed at an
// OpenAI-compatible base URL it also serves Groq.
type OpenAIClient struct {
	client    *openai.Client
	label     string
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewOpenAIClient creates a chat completion provider. label names the
// provider in logs ("openai", "groq").
func NewOpenAIClient(label, apiKey, model, baseURL string, maxTokens int, logger *zap.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s api key is not set", label)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		label:     label,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

// Name implements domain.Provider.
func (c *OpenAIClient) Name() string { return c.label + ":" + c.model }

// Attempt sends the prompt as a single user message.
func (c *OpenAIClient) Attempt(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", c.failure(err)
	}
	if len(resp.Choices) == 0 {
		c.logger.Debug("completion returned no choices", zap.String("provider", c.Name()))
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) failure(err error) *domain.GeneratorError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		detail := apiErr.Message + " " + apiErr.Type
		if code, ok := apiErr.Code.(string); ok {
			detail += " " + code
		}
		return providerFailure(c.Name(), apiErr.HTTPStatusCode, detail, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return providerFailure(c.Name(), reqErr.HTTPStatusCode, reqErr.Error(), err)
	}
	return providerFailure(c.Name(), 0, err.Error(), err)
}
