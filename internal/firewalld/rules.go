package firewalld

import (
	"fmt"
	"log/slog"

	"firewalld-traffic-miner/internal/config"
	"firewalld-traffic-miner/internal/model"

	"github.com/google/uuid"
)

// Client builds and applies firewalld rich-rule changes through an
// injected CommandRunner.
type Client struct {
	runner CommandRunner

	firewallCmd string
	offlineCmd  string
	systemctl   string
	logPrefix   string
}

// NewClient wires a client from config. A nil runner gets the real
// exec-backed one.
func NewClient(cfg *config.Config, runner CommandRunner) *Client {
	if runner == nil {
		runner = NewExecRunner(cfg.CommandTimeout())
	}
	return &Client{
		runner:      runner,
		firewallCmd: cfg.Binaries.FirewallCmd,
		offlineCmd:  cfg.Binaries.FirewallOfflineCmd,
		systemctl:   cfg.Binaries.Systemctl,
		logPrefix:   cfg.Rules.LogPrefix,
	}
}

// RichRule renders the rule text shared by add and remove. Removal
// must match byte for byte what a prior add installed, so this is the
// single place the text is built. The protocol keeps the caller's
// casing.
func RichRule(spec model.RuleSpec) string {
	return fmt.Sprintf(`rule family="ipv4" source address="%s/%d" port protocol="%s" port="%d" accept`,
		spec.Source, spec.CIDR, spec.Protocol, spec.Port)
}

// Confirmation is the status line echoed before a rule change is
// issued.
func Confirmation(spec model.RuleSpec, action model.Action) string {
	return fmt.Sprintf("%s source=%s/%d protocol=%s port=%d",
		action, spec.Source, spec.CIDR, spec.Protocol, spec.Port)
}

// BuildRuleCommand validates the spec and produces the invocation
// sequence for one rule change under the given mode. Nothing external
// is touched here.
func (c *Client) BuildRuleCommand(mode model.Mode, spec model.RuleSpec, action model.Action) (model.RuleCommand, error) {
	if err := ValidateSpec(spec); err != nil {
		return nil, err
	}
	return c.ruleCommand(mode, RichRule(spec), action), nil
}

func (c *Client) ruleCommand(mode model.Mode, rule string, action model.Action) model.RuleCommand {
	directive := "--add-rich-rule"
	if action == model.ActionRemove {
		directive = "--remove-rich-rule"
	}
	if mode == model.ModeOnline {
		return model.RuleCommand{
			{Path: c.firewallCmd, Args: []string{directive, rule}},
			{Path: c.firewallCmd, Args: []string{"--permanent", directive, rule}},
		}
	}
	return model.RuleCommand{
		{Path: c.offlineCmd, Args: []string{directive, rule}},
	}
}

// ApplyRule builds and executes one rule change. Failures surface
// as-is and are never retried.
func (c *Client) ApplyRule(mode model.Mode, spec model.RuleSpec, action model.Action) error {
	cmd, err := c.BuildRuleCommand(mode, spec, action)
	if err != nil {
		return err
	}
	return c.Apply(cmd)
}

// Apply executes one built rule command in order.
func (c *Client) Apply(cmd model.RuleCommand) error {
	opID := uuid.New().String()
	slog.Info("applying firewall change", "op_id", opID, "invocations", len(cmd))
	for _, inv := range cmd {
		output, err := c.runner.Run(inv)
		if err != nil {
			return fmt.Errorf("firewall command failed: %w", err)
		}
		slog.Debug("firewall command succeeded", "op_id", opID, "command", inv.String(), "output", string(output))
	}
	return nil
}

// ListActiveRules forwards firewalld's own view of the active zone
// configuration without interpreting it.
func (c *Client) ListActiveRules(mode model.Mode) (string, error) {
	binary := c.firewallCmd
	if mode == model.ModeOffline {
		binary = c.offlineCmd
	}
	output, err := c.runner.Run(model.Invocation{Path: binary, Args: []string{"--list-all"}})
	if err != nil {
		return "", fmt.Errorf("failed to list active rules: %w", err)
	}
	return string(output), nil
}
