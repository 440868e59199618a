package firewalld

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"firewalld-traffic-miner/internal/model"
)

// DefaultCommandTimeout is the maximum time to wait for one external
// invocation when the config does not override it.
const DefaultCommandTimeout = 10 * time.Second

// CommandRunner abstracts external process invocation so mode
// detection and rule application are testable with a fake runner
// instead of a live firewalld.
type CommandRunner interface {
	// Run executes one invocation and returns its combined output.
	// The returned error preserves the underlying exec error so
	// callers can tell "ran and exited nonzero" from "could not be
	// started at all".
	Run(inv model.Invocation) ([]byte, error)
}

type execRunner struct {
	timeout time.Duration
}

// NewExecRunner returns a CommandRunner backed by os/exec with a
// per-invocation timeout. A non-positive timeout falls back to
// DefaultCommandTimeout.
func NewExecRunner(timeout time.Duration) CommandRunner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return execRunner{timeout: timeout}
}

func (r execRunner) Run(inv model.Invocation) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("%s timed out after %v", inv.Path, r.timeout)
	}
	if err != nil {
		return output, fmt.Errorf("%s failed: %w (output: %s)", inv.Path, err, string(output))
	}
	return output, nil
}
