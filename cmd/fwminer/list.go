package main

import (
	"fmt"

	"firewalld-traffic-miner/internal/firewalld"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the active firewalld configuration",
		Long:  `list forwards firewalld's own zone listing without interpreting it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := firewalld.NewClient(cfg, nil)
			mode, err := resolveMode(client)
			if err != nil {
				return err
			}
			output, err := client.ListActiveRules(mode)
			if err != nil {
				return err
			}
			fmt.Print(output)
			return nil
		},
	}
}
