package mcpserver

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"code-command-generator/application"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var snippetArgs = []mcp.ToolOption{
	mcp.WithString("code", mcp.Required(), mcp.Description("The selected source code")),
	mcp.WithString("language", mcp.Description("Editor language id, e.g. javascript, python, java. Inferred from file_path when omitted")),
	mcp.WithString("file_path", mcp.Description("Path of the file the code was selected from")),
	mcp.WithNumber("line", mcp.Description("1-based line the selection starts at")),
}

var remoteArg = mcp.WithString("remote",
	mcp.Description("When to use the remote AI fallback"),
	mcp.Enum(string(application.RemoteNever), string(application.RemoteAuto), string(application.RemoteAlways)))

func toolDef(name, description string, extra ...mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	opts = append(opts, snippetArgs...)
	opts = append(opts, extra...)
	return mcp.NewTool(name, opts...)
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"generate_command": {
		def:     toolDef("generate_command", "Generate a shell command that runs or demonstrates the selected code", remoteArg),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerateCommand },
	},
	"generate_comment": {
		def:     toolDef("generate_comment", "Generate a one-line comment describing the selected code", remoteArg),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerateComment },
	},
	"classify_snippet": {
		def:     toolDef("classify_snippet", "Classify the structural shape of the selected code"),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClassify },
	},
}

// AllToolNames returns the registered tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewServer creates an MCP server with every generator tool registered.
func NewServer(generator *application.GeneratorService, defaultRemote application.RemotePolicy, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"cmdgen",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(generator, defaultRemote)
	for _, name := range AllToolNames() {
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves the MCP tools over stdio until stdin closes.
func Run(generator *application.GeneratorService, defaultRemote application.RemotePolicy, version string) error {
	return server.ServeStdio(NewServer(generator, defaultRemote, version))
}
