package cmd

import (
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:     "upload <source>",
	Short:   "Convert and upload a source ontology to a Fabric workspace",
	GroupID: "remote",
	Args:    cobra.ExactArgs(1),
	Example: `  fabric-ontology upload ontology.ttl
  fabric-ontology upload --dry-run interfaces/ --format dtdl
  fabric-ontology upload model.cdm.json --name sales_ontology`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().String("format", "", "source format: rdf, dtdl, or cdm (inferred from extension if omitted)")
	uploadCmd.Flags().String("name", "", "display name for the resulting ontology item")
	uploadCmd.Flags().Int64("id-prefix", 0, "starting offset for generated entity/relationship IDs (default 10^12)")
	uploadCmd.Flags().Bool("dry-run", false, "convert and validate without contacting the Fabric API")
	uploadCmd.Flags().Bool("allow-relative-up", false, "allow \"..\" path components that resolve within the working directory")
}

func runUpload(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	name, _ := cmd.Flags().GetString("name")
	idPrefix, _ := cmd.Flags().GetInt64("id-prefix")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	allowRelativeUp, _ := cmd.Flags().GetBool("allow-relative-up")

	uploadCommand := NewUploadCommand(args[0]).
		WithFormat(format).
		WithOntologyName(name).
		WithIDPrefix(idPrefix).
		WithDryRun(dryRun).
		WithAllowRelativeUp(allowRelativeUp)

	return finish(uploadCommand.Execute(cmd.Context()))
}
