package cmd

import (
	"context"
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/validation"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// UploadCommand converts a source document and creates or updates the
// matching ontology item in the configured Fabric workspace (§6
// `upload`, §12 `--dry-run`).
type UploadCommand struct {
	sourcePath      string
	format          string
	ontologyName    string
	idPrefix        int64
	dryRun          bool
	allowRelativeUp bool
}

// NewUploadCommand creates an upload command for sourcePath.
func NewUploadCommand(sourcePath string) *UploadCommand {
	return &UploadCommand{sourcePath: sourcePath}
}

func (c *UploadCommand) WithFormat(format string) *UploadCommand {
	c.format = format
	return c
}

func (c *UploadCommand) WithOntologyName(name string) *UploadCommand {
	c.ontologyName = name
	return c
}

func (c *UploadCommand) WithIDPrefix(prefix int64) *UploadCommand {
	c.idPrefix = prefix
	return c
}

func (c *UploadCommand) WithDryRun(dryRun bool) *UploadCommand {
	c.dryRun = dryRun
	return c
}

func (c *UploadCommand) WithAllowRelativeUp(allow bool) *UploadCommand {
	c.allowRelativeUp = allow
	return c
}

// Execute converts the source and, unless dry-run, uploads it.
func (c *UploadCommand) Execute(ctx context.Context) error {
	resolved, err := validation.ValidatePath(c.sourcePath, sourcePathOptions(c.allowRelativeUp))
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}

	conv, err := resolveConverter(c.format, resolved)
	if err != nil {
		return err
	}

	log := buildLogger()
	progress := buildProgressReporter()
	ctx, tok, stop := withCancellation(ctx)
	defer stop()

	var client usecases.FabricClient
	if !c.dryRun {
		fc, err := buildFabricClient(log)
		if err != nil {
			return err
		}
		client = fc
	}

	req := usecases.UploadRequest{
		ConvertRequest: usecases.ConvertRequest{
			SourcePath:   resolved,
			OntologyName: c.ontologyName,
			IDPrefix:     c.idPrefix,
		},
		DryRun: c.dryRun,
	}
	resp, err := usecases.Upload(ctx, conv, client, req, tok, log, progress)
	if err != nil {
		return err
	}

	formatter := buildReportFormatter()
	formatter.PrintConversionResult(resp.Conversion)
	formatter.PrintComplianceReport(resp.Compliance)

	if resp.Operation != nil {
		if resp.Operation.Status != usecases.OperationSucceeded {
			return fmt.Errorf("upload finished with status %s: %s", resp.Operation.Status, resp.Operation.ErrorMessage)
		}
		log.Info(fmt.Sprintf("uploaded ontology item %s", resp.Operation.ResourceID))
	}
	return nil
}
