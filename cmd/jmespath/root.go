package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jmespath",
		Short: "Compile and evaluate JMESPath expressions against JSON input",
	}
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newReplCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}
