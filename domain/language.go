package domain

import (
	"path/filepath"
	"strings"
)

// LanguageTag identifies the language of a snippet, using editor language ids.
type LanguageTag string

const (
	LanguageJavaScript LanguageTag = "javascript"
	LanguageTypeScript LanguageTag = "typescript"
	LanguagePython     LanguageTag = "python"
	LanguageJava       LanguageTag = "java"
	LanguageHTML       LanguageTag = "html"
	LanguageXML        LanguageTag = "xml"
	LanguageUnknown    LanguageTag = "unknown"
)

var languageAliases = map[string]LanguageTag{
	"js":         LanguageJavaScript,
	"javascript": LanguageJavaScript,
	"node":       LanguageJavaScript,
	"ts":         LanguageTypeScript,
	"typescript": LanguageTypeScript,
	"py":         LanguagePython,
	"python":     LanguagePython,
	"python3":    LanguagePython,
	"java":       LanguageJava,
	"html":       LanguageHTML,
	"xml":        LanguageXML,
	"":           LanguageUnknown,
	"unknown":    LanguageUnknown,
}

var extensionLanguages = map[string]LanguageTag{
	".js":   LanguageJavaScript,
	".mjs":  LanguageJavaScript,
	".cjs":  LanguageJavaScript,
	".jsx":  LanguageJavaScript,
	".ts":   LanguageTypeScript,
	".tsx":  LanguageTypeScript,
	".mts":  LanguageTypeScript,
	".py":   LanguagePython,
	".java": LanguageJava,
	".html": LanguageHTML,
	".htm":  LanguageHTML,
	".xml":  LanguageXML,
	".go":   "go",
	".rb":   "ruby",
	".sh":   "shellscript",
	".c":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
	".rs":   "rust",
}

// ParseLanguage normalises a user or editor supplied language id.
// Unrecognised ids are passed through lower-cased so they reach the generic branch.
func ParseLanguage(s string) LanguageTag {
	key := strings.ToLower(strings.TrimSpace(s))
	if tag, ok := languageAliases[key]; ok {
		return tag
	}
	return LanguageTag(key)
}

// LanguageFromPath infers the language id from a file extension.
func LanguageFromPath(path string) LanguageTag {
	if tag, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return tag
	}
	return LanguageUnknown
}

// IsJavaScriptFamily reports whether the tag is handled by the node branch.
func (l LanguageTag) IsJavaScriptFamily() bool {
	return l == LanguageJavaScript || l == LanguageTypeScript
}

// CommentSyntax holds the delimiters for a single-line comment.
type CommentSyntax struct {
	Prefix string
	Suffix string
}

// Wrap turns one line of text into a comment line.
func (c CommentSyntax) Wrap(line string) string {
	return c.Prefix + line + c.Suffix
}

// LineComment returns the syntax used to insert comments into files of this language.
func LineComment(lang LanguageTag) CommentSyntax {
	switch lang {
	case LanguagePython, "ruby", "shellscript":
		return CommentSyntax{Prefix: "# "}
	case LanguageHTML, LanguageXML:
		return CommentSyntax{Prefix: "<!-- ", Suffix: " -->"}
	default:
		return CommentSyntax{Prefix: "// "}
	}
}
