package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-command-generator/domain"
)

func TestGenerate_LocalCommand(t *testing.T) {
	svc := NewGeneratorService(nil, nil)

	tests := []struct {
		name     string
		code     string
		file     string
		lang     domain.LanguageTag
		want     string
		category domain.Category
	}{
		{
			name:     "python function",
			code:     "def add(x, y):\n    return x+y",
			file:     "math.py",
			lang:     domain.LanguagePython,
			want:     `python -c "import math; print(math.add())"`,
			category: domain.CategoryNamedFunction,
		},
		{
			name:     "arrow function",
			code:     "const greet = (name) => console.log(name)",
			file:     "app.js",
			lang:     domain.LanguageJavaScript,
			want:     `node -e "console.log(require('./app.js').greet())"`,
			category: domain.CategoryArrowFunction,
		},
		{
			name:     "unclassified stays local without a remote",
			code:     "console.log(1)",
			file:     "app.js",
			lang:     domain.LanguageJavaScript,
			want:     `node -e "console.log(1)"`,
			category: domain.CategoryUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snippet := domain.NewSnippet(tt.code, tt.file, 1)
			res, err := svc.Generate(context.Background(), Request{Snippet: snippet, Language: tt.lang})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Artifact)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, domain.ArtifactCommand, res.Kind)
			assert.Equal(t, SourceLocal, res.Source)
			assert.Equal(t, snippet.ID, res.SnippetID)
		})
	}
}

func TestGenerate_LocalComment(t *testing.T) {
	svc := NewGeneratorService(nil, nil)

	res, err := svc.Generate(context.Background(), Request{
		Snippet:  domain.NewSnippet("for i in range(3):\n    print(i)", "loop.py", 1),
		Language: domain.LanguagePython,
		Kind:     domain.ArtifactComment,
		Remote:   RemoteNever,
	})
	require.NoError(t, err)
	assert.Equal(t, "# Loop Structure 🔁", res.Artifact)
	assert.Equal(t, domain.CategoryLoop, res.Category)
}

func TestGenerate_EmptySnippetRejectedFirst(t *testing.T) {
	remote := &fakeRemote{artifact: "x"}
	svc := NewGeneratorService(remote, nil)

	_, err := svc.Generate(context.Background(), Request{
		Snippet: domain.NewSnippet("   \n", "a.js", 1),
		Remote:  RemoteAlways,
	})
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.ErrNoCode))
	assert.Empty(t, remote.requests)
}

func TestGenerate_RemotePolicies(t *testing.T) {
	classified := "function foo() {}"
	unclassified := "print(1)"

	tests := []struct {
		name       string
		code       string
		policy     RemotePolicy
		wantRemote bool
	}{
		{"never skips unclassified", unclassified, RemoteNever, false},
		{"auto uses remote for unclassified", unclassified, RemoteAuto, true},
		{"auto keeps classified local", classified, RemoteAuto, false},
		{"always uses remote for classified", classified, RemoteAlways, true},
		{"empty policy is auto", unclassified, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{artifact: "node remote.js"}
			svc := NewGeneratorService(remote, nil)

			res, err := svc.Generate(context.Background(), Request{
				Snippet:  domain.NewSnippet(tt.code, "bar.js", 1),
				Language: domain.LanguageJavaScript,
				Remote:   tt.policy,
			})
			require.NoError(t, err)

			if tt.wantRemote {
				assert.Equal(t, "node remote.js", res.Artifact)
				assert.Equal(t, SourceRemote, res.Source)
				require.Len(t, remote.requests, 1)
				assert.Equal(t, domain.ArtifactCommand, remote.requests[0].Kind)
			} else {
				assert.Equal(t, SourceLocal, res.Source)
				assert.Empty(t, remote.requests)
			}
		})
	}
}

func TestGenerate_AlwaysWithoutRemote(t *testing.T) {
	svc := NewGeneratorService(nil, nil)

	_, err := svc.Generate(context.Background(), Request{
		Snippet:  domain.NewSnippet("function foo() {}", "bar.js", 1),
		Language: domain.LanguageJavaScript,
		Remote:   RemoteAlways,
	})
	assert.True(t, domain.Is(err, domain.ErrNoProvider))
}

func TestGenerate_RemoteFailureIsNotReplaced(t *testing.T) {
	remote := &fakeRemote{err: domain.NewProviderFailure(domain.ErrUnauthorized, "anthropic:x", errors.New("401"))}
	svc := NewGeneratorService(remote, nil)

	res, err := svc.Generate(context.Background(), Request{
		Snippet:  domain.NewSnippet("print(1)", "bar.js", 1),
		Language: domain.LanguageJavaScript,
	})
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.ErrUnauthorized))
	assert.Empty(t, res.Artifact)
}

func TestClassify_Service(t *testing.T) {
	svc := NewGeneratorService(nil, nil)

	c, err := svc.Classify(domain.NewSnippet("class A {}", "a.js", 1), domain.LanguageJavaScript)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryClass, c.Category)

	_, err = svc.Classify(domain.NewSnippet("", "a.js", 1), domain.LanguageJavaScript)
	assert.True(t, domain.Is(err, domain.ErrNoCode))
}

func TestParseRemotePolicy(t *testing.T) {
	for in, want := range map[string]RemotePolicy{"": RemoteAuto, "never": RemoteNever, "always": RemoteAlways} {
		got, err := ParseRemotePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseRemotePolicy("sometimes")
	assert.True(t, domain.Is(err, domain.ErrInvalidRequest))
}
