package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUArtifactCache(t *testing.T) {
	cache, err := NewLRUArtifactCache(2)
	require.NoError(t, err)

	cache.Add("a", "node -e \"a()\"")
	cache.Add("b", "// b")

	got, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "node -e \"a()\"", got)

	// "b" is now least recently used.
	cache.Add("c", "# c")
	assert.Equal(t, 2, cache.Len())

	_, ok = cache.Get("b")
	assert.False(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestNewLRUArtifactCache_InvalidSize(t *testing.T) {
	_, err := NewLRUArtifactCache(0)
	assert.Error(t, err)
}
