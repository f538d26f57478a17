package application

import (
	"fmt"
	"strings"

	"code-command-generator/domain"
)

// BuildPrompt renders the instruction sent to remote providers.
func BuildPrompt(req domain.SynthesisRequest) string {
	lang := string(req.Language)
	if lang == "" || req.Language == domain.LanguageUnknown {
		lang = "unknown (infer it from the code)"
	}

	var b strings.Builder
	switch req.Kind {
	case domain.ArtifactComment:
		b.WriteString("Write one short comment line that summarizes what the following code does.\n")
		b.WriteString("Reply with the comment text only: a single line, no markdown, no code fences.\n")
	default:
		b.WriteString("Write a single shell command that runs or demonstrates the following code.\n")
		b.WriteString("Reply with the command only: no markdown, no code fences, no explanation.\n")
		b.WriteString("If arguments are required, use descriptive placeholders.\n")
	}
	fmt.Fprintf(&b, "Language: %s\n", lang)
	fmt.Fprintf(&b, "File: %s (line %d)\n\n", req.Snippet.FileName(), req.Snippet.StartLine)
	b.WriteString(req.Snippet.Content)
	return b.String()
}
