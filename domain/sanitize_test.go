package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeResponse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		singleLine bool
		want       string
	}{
		{"trims whitespace", "  node -e \"x\"\n\n", false, `node -e "x"`},
		{"keeps text outside fences", "Run this:\n```bash\nnode app.js\n```\n", false, "Run this:"},
		{"drops trailing stray fence", "node app.js\n```", false, "node app.js"},
		{"drops unclosed fence with info string", "```bash\nls -la", false, "ls -la"},
		{"drops unclosed fence on single line", "```bash\nls -la", true, "ls -la"},
		{"unclosed fence before a comment", "```js\n// Adds two numbers", true, "// Adds two numbers"},
		{"drops inline stray fence", "node app.js```", false, "node app.js"},
		{"keeps multiple lines", "line one\nline two", false, "line one\nline two"},
		{"first line only", "// Adds numbers\nextra", true, "// Adds numbers"},
		{"first line after trim", "\n\n  // Adds numbers  \nextra", true, "// Adds numbers"},
		{"normalises CRLF", "a\r\nb", true, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeResponse(tt.raw, tt.singleLine)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeResponse_Empty(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t",
		"```\nnode app.js\n```",
		"```bash\necho hi\n```\n```\n```",
		"```bash",
	}
	for _, in := range inputs {
		_, err := SanitizeResponse(in, false)
		require.Error(t, err, in)
		assert.True(t, Is(err, ErrEmptyResponse), in)
	}
}
