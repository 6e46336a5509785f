package cmd

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every ontology item in the configured Fabric workspace",
	GroupID: "remote",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return finish(NewListCommand().Execute(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
