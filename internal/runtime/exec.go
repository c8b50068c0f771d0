package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Executes commands as host processes.
type Host struct {
	stdout io.Writer
	stderr io.Writer
}

// Creates a [Host] runner connecting process output to stdout and stderr.
//
// Nil writers discard the output.
func NewHost(stdout, stderr io.Writer) *Host {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Host{stdout: stdout, stderr: stderr}
}

// Runs the command and waits for it to exit.
//
// The process inherits the current environment with cmd.Env applied on
// top. A non-zero exit code is reported as [ErrCommandFailed].
func (h *Host) Run(ctx context.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		return ErrEmptyCommand
	}

	slog.Debug("exec", "args", cmd.Args, "dir", cmd.Dir)

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Env = mergeEnv(os.Environ(), environ(cmd.Env))
	c.Dir = cmd.Dir
	c.Stdout = h.stdout
	c.Stderr = h.stderr

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", ErrCommandFailed, cmd.Args[0], exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return nil
}

// Always true.
func (h *Host) Live() bool {
	return true
}

// Formats a map as a list of "key=value" strings.
func environ(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}

// Merges override env vars on top of a base env slice.
func mergeEnv(base, overrides []string) []string {
	merged := make(map[string]string, len(base)+len(overrides))
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}
	for _, entry := range overrides {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}

	result := make([]string, 0, len(merged))
	for k, v := range merged {
		result = append(result, k+"="+v)
	}
	return result
}
