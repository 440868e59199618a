package main

import (
	"fmt"

	"firewalld-traffic-miner/internal/firewalld"
	"firewalld-traffic-miner/internal/model"

	"github.com/spf13/cobra"
)

func newLoggingCmd() *cobra.Command {
	loggingCmd := &cobra.Command{
		Use:   "logging",
		Short: "Toggle diagnostic logging of all traffic",
		Long: `logging installs (start) or removes (stop) catch-all rules that log
	every tcp and udp packet with a recognizable prefix, so subsequent
	mining sees all connection attempts. stop is the precise inverse of
	start.`,
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start logging all traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogging(model.ActionAdd)
		},
	}
	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop logging all traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogging(model.ActionRemove)
		},
	}

	loggingCmd.AddCommand(startCmd)
	loggingCmd.AddCommand(stopCmd)
	return loggingCmd
}

func runLogging(action model.Action) error {
	client := firewalld.NewClient(cfg, nil)
	mode, err := resolveMode(client)
	if err != nil {
		return err
	}

	if dryRun {
		for _, cmd := range client.BuildLoggingToggleCommand(mode, action) {
			for _, line := range cmd.Strings() {
				fmt.Println(line)
			}
		}
		return nil
	}
	return client.ToggleLogging(mode, action)
}
