package cmd

import (
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:     "compare <source-a> <source-b>",
	Short:   "Convert two ontology sources and diff them for semantic equivalence",
	GroupID: "convert",
	Args:    cobra.ExactArgs(2),
	RunE:    runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().String("format", "", "ontology format of both sources: rdf, dtdl, or cdm (default: inferred)")
	compareCmd.Flags().Bool("allow-relative-up", false, "allow source paths outside the current working directory")
}

func runCompare(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	allowRelativeUp, _ := cmd.Flags().GetBool("allow-relative-up")

	command := NewCompareCommand(args[0], args[1]).
		WithFormat(format).
		WithAllowRelativeUp(allowRelativeUp)

	return finish(command.Execute(cmd.Context()))
}
