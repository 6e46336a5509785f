package cmd

import (
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:     "convert <source>",
	Short:   "Convert a source ontology into a Fabric ontology bundle",
	GroupID: "convert",
	Args:    cobra.ExactArgs(1),
	Example: `  fabric-ontology convert ontology.ttl --output bundle.json
  fabric-ontology convert --format dtdl interfaces/ --name thermostat_ontology
  fabric-ontology convert --streaming big-graph.ttl`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("format", "", "source format: rdf, dtdl, or cdm (inferred from extension if omitted)")
	convertCmd.Flags().String("name", "", "display name for the resulting ontology (defaults to <format>_ontology)")
	convertCmd.Flags().StringP("output", "o", "bundle.json", "path to write the serialized bundle")
	convertCmd.Flags().Int64("id-prefix", 0, "starting offset for generated entity/relationship IDs (default 10^12)")
	convertCmd.Flags().Bool("streaming", false, "force the chunked streaming extraction engine (rdf only)")
	convertCmd.Flags().Bool("loose-inference", false, "infer object property domain/range from observed instance usage when not explicitly declared (rdf only, default off)")
	convertCmd.Flags().Bool("allow-relative-up", false, "allow \"..\" path components that resolve within the working directory")
	convertCmd.Flags().Bool("watch", false, "re-convert each time the source file changes, until interrupted")
	convertCmd.Flags().String("summary-format", "text", "post-conversion summary format: text or toon (token-efficient, for scripted callers)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	name, _ := cmd.Flags().GetString("name")
	output, _ := cmd.Flags().GetString("output")
	idPrefix, _ := cmd.Flags().GetInt64("id-prefix")
	streaming, _ := cmd.Flags().GetBool("streaming")
	looseInference, _ := cmd.Flags().GetBool("loose-inference")
	allowRelativeUp, _ := cmd.Flags().GetBool("allow-relative-up")
	watchSource, _ := cmd.Flags().GetBool("watch")
	summaryFormat, _ := cmd.Flags().GetString("summary-format")

	convertCommand := NewConvertCommand(args[0]).
		WithFormat(format).
		WithOntologyName(name).
		WithOutputPath(output).
		WithIDPrefix(idPrefix).
		WithStreaming(streaming).
		WithLooseInference(looseInference).
		WithAllowRelativeUp(allowRelativeUp).
		WithWatch(watchSource).
		WithSummaryFormat(summaryFormat)

	return finish(convertCommand.Execute(cmd.Context()))
}
