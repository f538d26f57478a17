package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"code-command-generator/domain"
)

// GeminiClient is a Provider backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini provider using the given API key.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{client: client, model: model, logger: logger}, nil
}

// Name implements domain.Provider.
func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Attempt sends the prompt and concatenates the text parts of the first candidate.
func (g *GeminiClient) Attempt(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", g.failure(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		g.logger.Debug("gemini returned no candidates", zap.String("provider", g.Name()))
		return "", nil
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			out.WriteString(part.Text)
		}
	}
	return out.String(), nil
}

func (g *GeminiClient) failure(err error) *domain.GeneratorError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return providerFailure(g.Name(), apiErr.Code, apiErr.Status+" "+apiErr.Message, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return providerFailure(g.Name(), apiErrPtr.Code, apiErrPtr.Status+" "+apiErrPtr.Message, err)
	}
	return providerFailure(g.Name(), 0, err.Error(), err)
}
