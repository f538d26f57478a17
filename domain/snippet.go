package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Snippet represents a block of selected code together with where it came from.
// A Snippet is created per request and never mutated afterwards.
type Snippet struct {
	ID        string `json:"id"`         // Unique identifier used to correlate log lines
	Content   string `json:"content"`    // The selected code, verbatim
	FilePath  string `json:"file_path"`  // Path to the source file, may be empty for piped input
	StartLine int    `json:"start_line"` // Starting line number (1-based)
	EndLine   int    `json:"end_line"`   // Ending line number (1-based)
}

// NewSnippet creates a Snippet for the given content starting at startLine.
// A startLine below 1 is treated as 1.
func NewSnippet(content, filePath string, startLine int) Snippet {
	if startLine < 1 {
		startLine = 1
	}
	lines := strings.Count(content, "\n")
	if strings.HasSuffix(content, "\n") {
		lines--
	}
	if lines < 0 {
		lines = 0
	}
	return Snippet{
		ID:        uuid.New().String(),
		Content:   content,
		FilePath:  filePath,
		StartLine: startLine,
		EndLine:   startLine + lines,
	}
}

// Validate rejects snippets that carry no code.
func (s Snippet) Validate() error {
	if strings.TrimSpace(s.Content) == "" {
		return NewNoCode()
	}
	return nil
}

// FileName returns the base name of the snippet's file, or "file" when unknown.
// Both forward and back slashes are treated as separators.
func (s Snippet) FileName() string {
	if s.FilePath == "" {
		return "file"
	}
	name := s.FilePath
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "file"
	}
	return name
}
