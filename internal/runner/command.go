// Package runner launches external tools such as clang-format and xmake.
package runner

import (
	"context"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command describes one invocation of an external program. Args are passed to
// the program as-is; no shell is involved.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory of the child; empty inherits ours.
	Dir string

	// CaptureOutput collects stdout into Result.Output instead of streaming it.
	CaptureOutput bool
}

// NewCommand returns a Command for name with the given arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// WithArgs returns a copy of c with args appended.
func (c Command) WithArgs(args ...string) Command {
	out := c
	out.Args = append(append([]string(nil), c.Args...), args...)
	return out
}

// Captured returns a copy of c whose stdout is captured.
func (c Command) Captured() Command {
	out := c
	out.Args = append([]string(nil), c.Args...)
	out.CaptureOutput = true
	return out
}

// InDir returns a copy of c that runs in dir.
func (c Command) InDir(dir string) Command {
	out := c
	out.Args = append([]string(nil), c.Args...)
	out.Dir = dir
	return out
}

// String renders the command line for logs, quoted so it can be pasted into
// a POSIX shell.
func (c Command) String() string {
	words := make([]string, 0, len(c.Args)+1)
	for _, w := range append([]string{c.Name}, c.Args...) {
		words = append(words, quoteWord(w))
	}
	return strings.Join(words, " ")
}

func quoteWord(w string) string {
	q, err := syntax.Quote(w, syntax.LangPOSIX)
	if err != nil {
		return w
	}
	return q
}

// Result is the outcome of a command that was launched.
type Result struct {
	ExitCode int
	Output   []byte
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner runs commands to completion.
type Runner interface {
	// Run starts cmd and waits for it to exit. A non-zero exit status is
	// reported through Result, not as an error. An error is returned only
	// when the program could not be started.
	Run(ctx context.Context, cmd Command) (Result, error)
}
