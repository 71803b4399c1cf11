// Package collectors implements the point-in-time OS probes feeding the
// state store. Each collector either returns a fresh domain value or an
// error; none of them touch shared state.
package collectors

import (
	"context"
	"os/exec"
)

// Runner executes an external command and returns its stdout. Probes that
// shell out take a Runner so tests can inject canned output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// NewRunner returns the Runner used in production, backed by os/exec.
func NewRunner() Runner {
	return execRunner{}
}
