package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check connectivity to the NIH RePORTER API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newService().CheckConnection(cmd.Context()); err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Successfully connected to NIH RePORTER API")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
