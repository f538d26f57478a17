package domain

import (
	"regexp"
	"strings"
)

var (
	fencedBlockPattern = regexp.MustCompile("(?s)```.*?```")
	fenceLinePattern   = regexp.MustCompile("(?m)^[ \t]*```[^\n]*$\n?")
)

// SanitizeResponse cleans untrusted provider output. Complete fenced blocks are
// removed along with their content. A stray fence line is dropped together
// with its info string, then the result is trimmed. With singleLine only the
// first line is kept. Blank output is reported as ErrEmptyResponse.
func SanitizeResponse(raw string, singleLine bool) (string, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = fencedBlockPattern.ReplaceAllString(text, "")
	text = fenceLinePattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	if singleLine {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
	}

	if text == "" {
		return "", NewEmptyResponse("")
	}
	return text, nil
}
