package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/invopop/jsonschema"
	"go.uber.org/zap"
)

const artifactToolName = "emit_artifact"

// ArtifactToolInput is the structured answer the model is asked to give.
type ArtifactToolInput struct {
	Artifact string `json:"artifact" jsonschema_description:"The shell command or single comment line, with no markdown."`
}

// AnthropicClient is a Provider backed by the Anthropic Messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
	logger    *zap.Logger
}

// NewAnthropicClient creates a new Anthropic provider.
//
// The API key is passed in explicitly; it is never read from the environment
// here. SDK retries are disabled so that each Attempt is a single request.
//
// Parameters:
//   - apiKey: The Anthropic API key. Must not be empty.
//   - model: The model name, e.g. "claude-3-7-sonnet-latest".
//   - baseURL: An optional API base URL; empty uses the SDK default.
//   - maxTokens: The response token limit; values <= 0 default to 512.
//   - logger: The logger; nil disables logging.
//
// Returns:
//   - *AnthropicClient: A pointer to the new Anthropic provider.
//   - error: An error if the API key is missing.
func NewAnthropicClient(apiKey, model, baseURL string, maxTokens int, logger *zap.Logger) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is not set")
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)

	return &AnthropicClient{
		client:    &client,
		model:     anthropic.Model(model),
		maxTokens: int64(maxTokens),
		logger:    logger,
	}, nil
}

// Name implements domain.Provider.
func (a *AnthropicClient) Name() string { return "anthropic:" + string(a.model) }

// Attempt sends the prompt with the emit_artifact tool available.
//
// A tool_use answer for emit_artifact is preferred. Without one the text
// blocks of the reply are concatenated and returned as they are; sanitising is
// left to the caller.
//
// Parameters:
//   - ctx: The context bounding the request.
//   - prompt: The full synthesis prompt.
//
// Returns:
//   - string: The raw artifact text.
//   - error: A *domain.GeneratorError carrying the failure code for the API
//     or transport error.
func (a *AnthropicClient) Attempt(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        artifactToolName,
					Description: anthropic.String("Return the requested artifact. Call this exactly once."),
					InputSchema: GenerateSchema[ArtifactToolInput](),
				},
			},
		},
	})
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", providerFailure(a.Name(), status, err.Error(), err)
	}

	var text strings.Builder
	for _, content := range message.Content {
		switch content.Type {
		case "tool_use":
			if content.Name != artifactToolName {
				continue
			}
			var in ArtifactToolInput
			if err := json.Unmarshal(content.Input, &in); err != nil {
				a.logger.Debug("discarding malformed tool input", zap.Error(err))
				continue
			}
			return in.Artifact, nil
		case "text":
			text.WriteString(content.Text)
		}
	}
	return text.String(), nil
}

// GenerateSchema creates a JSON schema for the specified type T.
// The generated schema does not allow additional properties and does not create references.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}
