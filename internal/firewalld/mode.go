package firewalld

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"firewalld-traffic-miner/internal/model"
)

// DetectMode probes firewalld's run state through systemctl. The
// result is transient and never cached across invocations. There is
// no fallback mode: when the probe itself cannot run, correct
// online/offline command selection cannot be guessed, so the error is
// fatal to whatever depends on it.
func (c *Client) DetectMode() (model.Mode, error) {
	output, err := c.runner.Run(model.Invocation{
		Path: c.systemctl,
		Args: []string{"status", "firewalld"},
	})
	if err != nil {
		// systemctl exits nonzero for a stopped or missing unit;
		// that is still a valid answer. Anything that prevented the
		// probe from running at all is not.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("firewalld state probe failed: %w", err)
		}
	}
	if strings.Contains(string(output), "running") {
		return model.ModeOnline, nil
	}
	return model.ModeOffline, nil
}
