package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"code-command-generator/application"
	"code-command-generator/domain"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	generator     *application.GeneratorService
	defaultRemote application.RemotePolicy
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(generator *application.GeneratorService, defaultRemote application.RemotePolicy) *Handlers {
	return &Handlers{generator: generator, defaultRemote: defaultRemote}
}

// SnippetRequest represents the arguments shared by every tool.
type SnippetRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	Line     int    `json:"line,omitempty"`
	Remote   string `json:"remote,omitempty"`
}

func (r SnippetRequest) language() domain.LanguageTag {
	if r.Language == "" && r.FilePath != "" {
		return domain.LanguageFromPath(r.FilePath)
	}
	return domain.ParseLanguage(r.Language)
}

// HandleGenerateCommand handles the generate_command tool call.
func (h *Handlers) HandleGenerateCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.generate(ctx, req, domain.ArtifactCommand)
}

// HandleGenerateComment handles the generate_comment tool call.
func (h *Handlers) HandleGenerateComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.generate(ctx, req, domain.ArtifactComment)
}

// HandleClassify handles the classify_snippet tool call.
func (h *Handlers) HandleClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SnippetRequest](req)
	if err != nil {
		return errorResult(domain.NewInvalidRequest(err.Error())), nil
	}

	snippet := domain.NewSnippet(input.Code, input.FilePath, input.Line)
	classification, err := h.generator.Classify(snippet, input.language())
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(classification)
}

func (h *Handlers) generate(ctx context.Context, req mcp.CallToolRequest, kind domain.ArtifactKind) (*mcp.CallToolResult, error) {
	input, err := decode[SnippetRequest](req)
	if err != nil {
		return errorResult(domain.NewInvalidRequest(err.Error())), nil
	}

	policy := h.defaultRemote
	if input.Remote != "" {
		if policy, err = application.ParseRemotePolicy(input.Remote); err != nil {
			return errorResult(err), nil
		}
	}

	result, err := h.generator.Generate(ctx, application.Request{
		Snippet:  domain.NewSnippet(input.Code, input.FilePath, input.Line),
		Language: input.language(),
		Kind:     kind,
		Remote:   policy,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result carrying the error code and the
// user-facing message.
func errorResult(err error) *mcp.CallToolResult {
	errorObj := map[string]any{
		"code":    domain.CodeOf(err),
		"message": domain.UserMessage(err),
	}
	var gErr *domain.GeneratorError
	if errors.As(err, &gErr) && gErr.Provider != "" {
		errorObj["provider"] = gErr.Provider
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
