// Package runnertest provides a Runner that records commands instead of running them.
package runnertest

import (
	"context"
	"sync"

	"github.com/andyballingall/cppdev/internal/runner"
)

// Ensure the interface is satisfied.
var _ runner.Runner = (*Recorder)(nil)

// Recorder is a runner.Runner that records every command it is asked to run.
// RunFunc, when set, decides the outcome; otherwise every command succeeds.
type Recorder struct {
	RunFunc func(cmd runner.Command) (runner.Result, error)

	mu       sync.Mutex
	commands []runner.Command
}

func (r *Recorder) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if r.RunFunc != nil {
		return r.RunFunc(cmd)
	}
	return runner.Result{}, nil
}

// Commands returns a copy of the recorded commands in call order.
func (r *Recorder) Commands() []runner.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runner.Command(nil), r.commands...)
}

// LastArgs returns the final argument of every recorded command.
func (r *Recorder) LastArgs() []string {
	cmds := r.Commands()
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		if len(c.Args) > 0 {
			out = append(out, c.Args[len(c.Args)-1])
		}
	}
	return out
}

// Failing returns a RunFunc that exits with status code for every command.
func Failing(code int) func(runner.Command) (runner.Result, error) {
	return func(runner.Command) (runner.Result, error) {
		return runner.Result{ExitCode: code}, nil
	}
}
