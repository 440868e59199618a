package firewalld

import (
	"fmt"

	"firewalld-traffic-miner/internal/model"
)

// Protocols covered by the catch-all diagnostic logging rules.
var loggingProtocols = []model.Protocol{model.TCP, model.UDP}

// loggingRichRule renders the catch-all log-everything rule for one
// protocol. Start and Stop share this text so Stop removes exactly
// what Start installed.
func (c *Client) loggingRichRule(proto model.Protocol) string {
	return fmt.Sprintf(`rule family="ipv4" source address="0.0.0.0/0" port protocol="%s" port="1-65535" log prefix="%s" level="info" accept`,
		proto, c.logPrefix)
}

// BuildLoggingToggleCommand produces one rule command per protocol.
// ActionAdd switches diagnostic logging of all traffic on, and
// ActionRemove is its precise inverse.
func (c *Client) BuildLoggingToggleCommand(mode model.Mode, action model.Action) []model.RuleCommand {
	cmds := make([]model.RuleCommand, 0, len(loggingProtocols))
	for _, proto := range loggingProtocols {
		cmds = append(cmds, c.ruleCommand(mode, c.loggingRichRule(proto), action))
	}
	return cmds
}

// ToggleLogging builds and executes the full Start or Stop sequence.
func (c *Client) ToggleLogging(mode model.Mode, action model.Action) error {
	for _, cmd := range c.BuildLoggingToggleCommand(mode, action) {
		if err := c.Apply(cmd); err != nil {
			return err
		}
	}
	return nil
}
