package runtime

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// An external command.
type Command struct {
	Args []string          // Program and arguments.
	Env  map[string]string // Variables set on top of the inherited environment.
	Dir  string            // Working directory. Empty uses the current one.
}

// Runs commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error

	// Whether the runner has side effects. Steps skip their own file
	// operations when it does not.
	Live() bool
}

// Prints commands instead of running them.
type Noop struct {
	out io.Writer
}

// Creates a [Noop] runner that writes command lines to out.
func NewNoop(out io.Writer) *Noop {
	return &Noop{out: out}
}

// Writes the command as a shell command line.
func (n *Noop) Run(ctx context.Context, cmd Command) error {
	line, err := Format(cmd)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(n.out, line)
	return err
}

// Always false.
func (n *Noop) Live() bool {
	return false
}

// Returns the command as a single shell command line.
//
// Environment variables are rendered as leading assignments in key order,
// followed by the quoted arguments. A working directory is rendered as a
// leading "cd DIR &&".
func Format(cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "", ErrEmptyCommand
	}

	var words []string

	if cmd.Dir != "" {
		dir, err := quote(cmd.Dir)
		if err != nil {
			return "", err
		}
		words = append(words, "cd", dir, "&&")
	}

	for _, k := range slices.Sorted(maps.Keys(cmd.Env)) {
		v, err := quote(cmd.Env[k])
		if err != nil {
			return "", err
		}
		words = append(words, k+"="+v)
	}

	for _, arg := range cmd.Args {
		q, err := quote(arg)
		if err != nil {
			return "", err
		}
		words = append(words, q)
	}

	return strings.Join(words, " "), nil
}

// Quotes a word for bash.
func quote(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return q, nil
}
