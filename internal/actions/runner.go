package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner is the exec seam for actions. Run waits for the command and
// returns its stdout; Start spawns and returns immediately, leaving the
// child running past the request that created it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	Start(name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", commandError(name, args, err)
	}
	return string(out), nil
}

func (execRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return commandError(name, args, err)
	}
	// Reap the child once it exits so it never lingers as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// commandError folds captured stderr into the message so Error responses
// tell the front-end what the tool actually complained about.
func commandError(name string, args []string, err error) error {
	line := name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("command failed: %s: %s", line, bytes.TrimSpace(exitErr.Stderr))
	}
	return fmt.Errorf("command failed: %s: %w", line, err)
}

// NewRunner returns the os/exec backed Runner used in production.
func NewRunner() Runner {
	return execRunner{}
}
