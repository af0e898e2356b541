package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlikeChooros/go-szemeredi/pkg/strategy"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the registered strategies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range strategy.Default().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
