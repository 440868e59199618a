package main

import (
	"fmt"

	"firewalld-traffic-miner/internal/firewalld"
	"firewalld-traffic-miner/internal/model"
	"firewalld-traffic-miner/pkg/wellknown"

	"github.com/spf13/cobra"
)

var (
	ruleSource   string
	ruleCIDR     int
	ruleProtocol string
	rulePort     int
	ruleService  string
)

func newRuleCmd() *cobra.Command {
	ruleCmd := &cobra.Command{
		Use:   "rule",
		Short: "Add or remove a rich accept rule",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an accept rule for one source/protocol/port",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRule(model.ActionAdd)
		},
	}
	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a previously added accept rule",
		Long: `remove issues the exact inverse of add for the same rule identity
	(source, CIDR, protocol, port). Removing a rule that was never added
	is a no-op in firewalld, not an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRule(model.ActionRemove)
		},
	}

	for _, sub := range []*cobra.Command{addCmd, removeCmd} {
		sub.Flags().StringVar(&ruleSource, "source", "", "Source IPv4 address (required)")
		sub.Flags().IntVar(&ruleCIDR, "cidr", 32, "CIDR suffix for the source match")
		sub.Flags().StringVar(&ruleProtocol, "protocol", "", "Protocol, e.g. tcp or udp")
		sub.Flags().IntVar(&rulePort, "port", 0, "Destination port")
		sub.Flags().StringVar(&ruleService, "service", "", "Well-known service name instead of --protocol/--port, e.g. https")
		sub.MarkFlagRequired("source")
		ruleCmd.AddCommand(sub)
	}

	return ruleCmd
}

func runRule(action model.Action) error {
	specs, err := ruleSpecs()
	if err != nil {
		return err
	}

	client := firewalld.NewClient(cfg, nil)
	mode, err := resolveMode(client)
	if err != nil {
		return err
	}

	for _, spec := range specs {
		if err := issueRule(client, mode, spec, action); err != nil {
			return err
		}
	}
	return nil
}

// ruleSpecs expands the flag set into one spec per rule: a plain
// protocol/port pair gives one, a well-known service name gives one
// per registered port/protocol entry.
func ruleSpecs() ([]model.RuleSpec, error) {
	if ruleService == "" {
		return []model.RuleSpec{{
			Source:   ruleSource,
			CIDR:     ruleCIDR,
			Protocol: ruleProtocol,
			Port:     rulePort,
		}}, nil
	}

	entries, ok := wellknown.GetService(ruleService)
	if !ok {
		return nil, fmt.Errorf("unknown service %q", ruleService)
	}
	var specs []model.RuleSpec
	for _, entry := range entries {
		specs = append(specs, model.RuleSpec{
			Source:   ruleSource,
			CIDR:     ruleCIDR,
			Protocol: string(entry.Protocol),
			Port:     entry.Port,
		})
	}
	return specs, nil
}

// issueRule echoes the confirmation line, then either prints the
// invocations (--dry-run) or executes them. Validation failures block
// before anything external is touched.
func issueRule(client *firewalld.Client, mode model.Mode, spec model.RuleSpec, action model.Action) error {
	cmd, err := client.BuildRuleCommand(mode, spec, action)
	if err != nil {
		return err
	}
	fmt.Println(firewalld.Confirmation(spec, action))
	if dryRun {
		for _, line := range cmd.Strings() {
			fmt.Println(line)
		}
		return nil
	}
	return client.Apply(cmd)
}
