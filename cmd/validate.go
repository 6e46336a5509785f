package cmd

import (
	"context"
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/validation"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// ValidateCommand runs a format converter's Validate path against a
// source document without producing a bundle or touching the network
// (§6 `validate`).
type ValidateCommand struct {
	sourcePath      string
	format          string
	allowRelativeUp bool
}

// NewValidateCommand creates a validate command for sourcePath.
func NewValidateCommand(sourcePath string) *ValidateCommand {
	return &ValidateCommand{sourcePath: sourcePath}
}

func (c *ValidateCommand) WithFormat(format string) *ValidateCommand {
	c.format = format
	return c
}

func (c *ValidateCommand) WithAllowRelativeUp(allow bool) *ValidateCommand {
	c.allowRelativeUp = allow
	return c
}

// Execute runs the validation and prints its report.
func (c *ValidateCommand) Execute(ctx context.Context) error {
	resolved, err := validation.ValidatePath(c.sourcePath, sourcePathOptions(c.allowRelativeUp))
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}

	conv, err := resolveConverter(c.format, resolved)
	if err != nil {
		return err
	}

	log := buildLogger()
	ctx, tok, stop := withCancellation(ctx)
	defer stop()

	report, err := usecases.Validate(ctx, conv, resolved, tok, log)
	if err != nil {
		return err
	}

	buildReportFormatter().PrintValidationReport(report)

	if !report.CanImportSeamlessly {
		return ErrBlockingIssues
	}
	return nil
}
