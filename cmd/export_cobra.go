package cmd

import (
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export <bundle>",
	Short:   "Re-express a Fabric ontology bundle as Turtle, with optional diagram/report enrichments",
	GroupID: "convert",
	Args:    cobra.ExactArgs(1),
	RunE:    runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "output Turtle file path (default: ontology.ttl)")
	exportCmd.Flags().String("diagram", "", "also write a D2 class diagram (.d2) or rendered SVG to this path")
	exportCmd.Flags().String("markdown", "", "also write a compliance Markdown report to this path (requires --source)")
	exportCmd.Flags().String("pdf", "", "also write a validation-summary PDF to this path (requires --source)")
	exportCmd.Flags().String("source", "", "original ontology source, needed to regenerate --markdown/--pdf reports")
	exportCmd.Flags().String("format", "", "ontology format of --source: rdf, dtdl, or cdm (default: inferred)")
	exportCmd.Flags().Bool("allow-relative-up", false, "allow --source outside the current working directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	diagramPath, _ := cmd.Flags().GetString("diagram")
	markdownPath, _ := cmd.Flags().GetString("markdown")
	pdfPath, _ := cmd.Flags().GetString("pdf")
	source, _ := cmd.Flags().GetString("source")
	format, _ := cmd.Flags().GetString("format")
	allowRelativeUp, _ := cmd.Flags().GetBool("allow-relative-up")

	command := NewExportCommand(args[0]).
		WithOutputPath(output).
		WithDiagram(diagramPath).
		WithMarkdown(markdownPath).
		WithPDF(pdfPath).
		WithSource(source, format).
		WithAllowRelativeUp(allowRelativeUp)

	return finish(command.Execute(cmd.Context()))
}
