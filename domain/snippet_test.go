package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnippet(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		start     int
		wantStart int
		wantEnd   int
	}{
		{"single line", "x", 4, 4, 4},
		{"three lines", "a\nb\nc", 10, 10, 12},
		{"trailing newline not counted", "a\nb\n", 1, 1, 2},
		{"start clamped", "a", 0, 1, 1},
		{"negative start clamped", "a\nb", -3, 1, 2},
		{"empty", "", 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnippet(tt.content, "f.js", tt.start)
			assert.Equal(t, tt.wantStart, s.StartLine)
			assert.Equal(t, tt.wantEnd, s.EndLine)
			assert.Equal(t, tt.content, s.Content)
			assert.NotEmpty(t, s.ID)
		})
	}
}

func TestNewSnippet_UniqueIDs(t *testing.T) {
	assert.NotEqual(t, NewSnippet("x", "", 1).ID, NewSnippet("x", "", 1).ID)
}

func TestSnippet_Validate(t *testing.T) {
	require.NoError(t, NewSnippet("x", "", 1).Validate())

	for _, blank := range []string{"", " ", "\n\t\r\n"} {
		err := NewSnippet(blank, "a.js", 1).Validate()
		require.Error(t, err)
		assert.True(t, Is(err, ErrNoCode))
	}
}

func TestSnippet_FileName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "file"},
		{"app.js", "app.js"},
		{"/home/me/project/app.js", "app.js"},
		{`C:\Users\me\math.py`, "math.py"},
		{"dir/", "file"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Snippet{FilePath: tt.path}.FileName(), tt.path)
	}
}
