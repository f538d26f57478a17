package application

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"code-command-generator/domain"
)

// Target is where a generated artifact goes.
type Target string

const (
	TargetStdout    Target = "stdout"
	TargetPanel     Target = "panel"
	TargetClipboard Target = "clipboard"
	TargetInsert    Target = "insert"
	TargetRun       Target = "run"
)

// ParseTarget validates a delivery target name. Empty means stdout.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetStdout, TargetPanel, TargetClipboard, TargetInsert, TargetRun:
		return Target(s), nil
	case "":
		return TargetStdout, nil
	}
	return "", domain.NewInvalidRequest("unknown delivery target: " + s)
}

// ClipboardWriter writes text to a clipboard.
type ClipboardWriter interface {
	WriteAll(text string) error
}

// SourceEditor inserts lines into a source file.
type SourceEditor interface {
	InsertAbove(path string, line int, lines []string) error
}

// CommandRunner executes a shell command.
type CommandRunner interface {
	Run(ctx context.Context, command string, out io.Writer) error
}

// Deliverer hands artifacts to their destination.
type Deliverer struct {
	out       io.Writer
	clipboard ClipboardWriter
	editor    SourceEditor
	runner    CommandRunner
	logger    *zap.Logger
}

// NewDeliverer creates a Deliverer writing user-facing output to out.
func NewDeliverer(out io.Writer, clipboard ClipboardWriter, editor SourceEditor, runner CommandRunner, logger *zap.Logger) *Deliverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deliverer{out: out, clipboard: clipboard, editor: editor, runner: runner, logger: logger}
}

// Deliver sends result to target and returns a confirmation message, empty
// when the artifact itself was the output.
func (d *Deliverer) Deliver(ctx context.Context, target Target, result Result, req Request) (string, error) {
	noun := "Command"
	if result.Kind == domain.ArtifactComment {
		noun = "Comment"
	}

	switch target {
	case TargetPanel:
		d.showPanel(result, noun)
		return "", nil

	case TargetClipboard:
		if d.clipboard == nil {
			return "", fmt.Errorf("clipboard is not available")
		}
		if err := d.clipboard.WriteAll(result.Artifact); err != nil {
			return "", fmt.Errorf("copy to clipboard: %w", err)
		}
		return fmt.Sprintf("✓ %s copied to clipboard!", noun), nil

	case TargetInsert:
		if d.editor == nil || req.Snippet.FilePath == "" {
			return "", domain.NewInvalidRequest("insert needs a source file")
		}
		lines := CommentLines(result, req.Language)
		if err := d.editor.InsertAbove(req.Snippet.FilePath, req.Snippet.StartLine, lines); err != nil {
			return "", fmt.Errorf("failed to insert %s: %w", strings.ToLower(noun), err)
		}
		d.logger.Debug("inserted artifact",
			zap.String("snippet_id", result.SnippetID),
			zap.String("path", req.Snippet.FilePath),
			zap.Int("line", req.Snippet.StartLine))
		return fmt.Sprintf("✓ %s inserted as comment!", noun), nil

	case TargetRun:
		if result.Kind != domain.ArtifactCommand {
			return "", domain.NewInvalidRequest("only commands can be run")
		}
		if d.runner == nil {
			return "", fmt.Errorf("command runner is not available")
		}
		if err := d.runner.Run(ctx, result.Artifact, d.out); err != nil {
			return "", err
		}
		return "", nil

	default:
		fmt.Fprintln(d.out, result.Artifact)
		return "", nil
	}
}

func (d *Deliverer) showPanel(result Result, noun string) {
	fmt.Fprintf(d.out, "=== GENERATED %s ===\n", strings.ToUpper(noun))
	fmt.Fprintln(d.out, result.Artifact)
	fmt.Fprintln(d.out, "\n=== USAGE ===")
	if result.Kind == domain.ArtifactComment {
		fmt.Fprintln(d.out, "1. Copy the comment above")
		fmt.Fprintln(d.out, "2. Paste it above the selected code")
		return
	}
	fmt.Fprintln(d.out, "1. Copy the command above")
	fmt.Fprintln(d.out, "2. Paste it into your terminal")
	fmt.Fprintln(d.out, "3. Press Enter to execute")
}

// CommentLines wraps each artifact line in the comment syntax of lang. Comment
// artifacts that already start with the marker are kept as they are.
func CommentLines(result Result, lang domain.LanguageTag) []string {
	syntax := domain.LineComment(lang)
	marker := strings.TrimSpace(syntax.Prefix)

	lines := strings.Split(strings.ReplaceAll(result.Artifact, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if result.Kind == domain.ArtifactComment && strings.HasPrefix(strings.TrimSpace(line), marker) {
			out = append(out, line)
			continue
		}
		out = append(out, syntax.Wrap(line))
	}
	return out
}
