package infrastructure

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// ShellRunner executes generated commands through sh -c in a working directory.
type ShellRunner struct {
	Shell string
	Dir   string
}

// Run executes command, streaming stdout and stderr to out.
func (r ShellRunner) Run(ctx context.Context, command string, out io.Writer) error {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = r.Dir
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run command: %w", err)
	}
	return nil
}
