package cmd

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:     "get <id>",
	Short:   "Fetch one ontology item's metadata by ID",
	GroupID: "remote",
	Args:    cobra.ExactArgs(1),
	RunE:    runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().Bool("definition", false, "also fetch and summarize the item's bundle definition")
}

func runGet(cmd *cobra.Command, args []string) error {
	printDefinition, _ := cmd.Flags().GetBool("definition")
	return finish(NewGetCommand(args[0]).WithDefinition(printDefinition).Execute(cmd.Context()))
}
