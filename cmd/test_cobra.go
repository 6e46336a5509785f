package cmd

import (
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:     "test",
	Short:   "Verify credentials and connectivity against the configured Fabric workspace",
	GroupID: "remote",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return finish(NewTestCommand().Execute(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
