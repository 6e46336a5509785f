package cmd

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:     "validate <source>",
	Short:   "Validate a source ontology without uploading it",
	GroupID: "convert",
	Args:    cobra.ExactArgs(1),
	Example: `  fabric-ontology validate ontology.ttl
  fabric-ontology validate --format dtdl interfaces/
  fabric-ontology validate --allow-relative-up ../shared/model.cdm.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("format", "", "source format: rdf, dtdl, or cdm (inferred from extension if omitted)")
	validateCmd.Flags().Bool("allow-relative-up", false, "allow \"..\" path components that resolve within the working directory")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	allowRelativeUp, _ := cmd.Flags().GetBool("allow-relative-up")

	validateCommand := NewValidateCommand(args[0]).WithFormat(format).WithAllowRelativeUp(allowRelativeUp)
	return finish(validateCommand.Execute(cmd.Context()))
}
