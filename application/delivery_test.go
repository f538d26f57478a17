package application

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-command-generator/domain"
)

func newTestDeliverer() (*Deliverer, *bytes.Buffer, *fakeClipboard, *fakeEditor, *fakeRunner) {
	out := &bytes.Buffer{}
	clip := &fakeClipboard{}
	editor := &fakeEditor{}
	runner := &fakeRunner{output: "42\n"}
	return NewDeliverer(out, clip, editor, runner, nil), out, clip, editor, runner
}

func commandResult(artifact string) Result {
	return Result{Kind: domain.ArtifactCommand, Artifact: artifact, Source: SourceLocal}
}

func TestDeliver_Stdout(t *testing.T) {
	d, out, _, _, _ := newTestDeliverer()

	msg, err := d.Deliver(context.Background(), TargetStdout, commandResult("node app.js"), Request{})
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, "node app.js\n", out.String())
}

func TestDeliver_Panel(t *testing.T) {
	d, out, _, _, _ := newTestDeliverer()

	_, err := d.Deliver(context.Background(), TargetPanel, commandResult("node app.js"), Request{})
	require.NoError(t, err)
	assert.Equal(t, "=== GENERATED COMMAND ===\nnode app.js\n\n=== USAGE ===\n"+
		"1. Copy the command above\n2. Paste it into your terminal\n3. Press Enter to execute\n", out.String())
}

func TestDeliver_PanelComment(t *testing.T) {
	d, out, _, _, _ := newTestDeliverer()

	_, err := d.Deliver(context.Background(), TargetPanel, Result{Kind: domain.ArtifactComment, Artifact: "// Loop Structure 🔁"}, Request{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "=== GENERATED COMMENT ===\n// Loop Structure 🔁\n")
	assert.Contains(t, out.String(), "1. Copy the comment above")
}

func TestDeliver_Clipboard(t *testing.T) {
	d, out, clip, _, _ := newTestDeliverer()

	msg, err := d.Deliver(context.Background(), TargetClipboard, commandResult("node app.js"), Request{})
	require.NoError(t, err)
	assert.Equal(t, "✓ Command copied to clipboard!", msg)
	assert.Equal(t, "node app.js", clip.text)
	assert.Empty(t, out.String())

	msg, err = d.Deliver(context.Background(), TargetClipboard, Result{Kind: domain.ArtifactComment, Artifact: "// x"}, Request{})
	require.NoError(t, err)
	assert.Equal(t, "✓ Comment copied to clipboard!", msg)
}

func TestDeliver_ClipboardFailure(t *testing.T) {
	d := NewDeliverer(&bytes.Buffer{}, &fakeClipboard{err: errors.New("no display")}, nil, nil, nil)

	_, err := d.Deliver(context.Background(), TargetClipboard, commandResult("x"), Request{})
	assert.ErrorContains(t, err, "no display")
}

func TestDeliver_InsertCommand(t *testing.T) {
	d, _, _, editor, _ := newTestDeliverer()
	req := Request{
		Snippet:  domain.NewSnippet("def add(x, y):\n    return x+y", "math.py", 7),
		Language: domain.LanguagePython,
	}

	msg, err := d.Deliver(context.Background(), TargetInsert, commandResult("# Function add\npython -c \"import math\""), req)
	require.NoError(t, err)
	assert.Equal(t, "✓ Command inserted as comment!", msg)

	require.Len(t, editor.calls, 1)
	call := editor.calls[0]
	assert.Equal(t, "math.py", call.path)
	assert.Equal(t, 7, call.line)
	assert.Equal(t, []string{"# # Function add", "# python -c \"import math\""}, call.lines)
}

func TestDeliver_InsertComment(t *testing.T) {
	d, _, _, editor, _ := newTestDeliverer()
	req := Request{
		Snippet:  domain.NewSnippet("for (;;) {}", "app.js", 3),
		Language: domain.LanguageJavaScript,
	}

	msg, err := d.Deliver(context.Background(), TargetInsert, Result{Kind: domain.ArtifactComment, Artifact: "// Loop Structure 🔁"}, req)
	require.NoError(t, err)
	assert.Equal(t, "✓ Comment inserted as comment!", msg)
	assert.Equal(t, []string{"// Loop Structure 🔁"}, editor.calls[0].lines)
}

func TestDeliver_InsertNeedsFile(t *testing.T) {
	d, _, _, _, _ := newTestDeliverer()

	_, err := d.Deliver(context.Background(), TargetInsert, commandResult("x"), Request{Snippet: domain.NewSnippet("x", "", 1)})
	assert.True(t, domain.Is(err, domain.ErrInvalidRequest))
}

func TestDeliver_Run(t *testing.T) {
	d, out, _, _, runner := newTestDeliverer()

	msg, err := d.Deliver(context.Background(), TargetRun, commandResult("node -e \"console.log(42)\""), Request{})
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, []string{"node -e \"console.log(42)\""}, runner.commands)
	assert.Equal(t, "42\n", out.String())
}

func TestDeliver_RunRejectsComments(t *testing.T) {
	d, _, _, _, runner := newTestDeliverer()

	_, err := d.Deliver(context.Background(), TargetRun, Result{Kind: domain.ArtifactComment, Artifact: "// x"}, Request{})
	assert.True(t, domain.Is(err, domain.ErrInvalidRequest))
	assert.Empty(t, runner.commands)
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("")
	require.NoError(t, err)
	assert.Equal(t, TargetStdout, got)

	got, err = ParseTarget("clipboard")
	require.NoError(t, err)
	assert.Equal(t, TargetClipboard, got)

	_, err = ParseTarget("printer")
	assert.True(t, domain.Is(err, domain.ErrInvalidRequest))
}

func TestCommentLines_HTML(t *testing.T) {
	lines := CommentLines(commandResult("open index.html"), domain.LanguageHTML)
	assert.Equal(t, []string{"<!-- open index.html -->"}, lines)
}
