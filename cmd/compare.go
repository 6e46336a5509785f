package cmd

import (
	"context"
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/validation"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// CompareCommand converts two source documents with the same converter
// and diffs the results for semantic equivalence (§12 `compare`).
type CompareCommand struct {
	pathA, pathB    string
	format          string
	allowRelativeUp bool
}

func NewCompareCommand(pathA, pathB string) *CompareCommand {
	return &CompareCommand{pathA: pathA, pathB: pathB}
}

func (c *CompareCommand) WithFormat(format string) *CompareCommand {
	c.format = format
	return c
}

func (c *CompareCommand) WithAllowRelativeUp(allow bool) *CompareCommand {
	c.allowRelativeUp = allow
	return c
}

func (c *CompareCommand) Execute(ctx context.Context) error {
	opts := sourcePathOptions(c.allowRelativeUp)
	resolvedA, err := validation.ValidatePath(c.pathA, opts)
	if err != nil {
		return fmt.Errorf("invalid source path %s: %w", c.pathA, err)
	}
	resolvedB, err := validation.ValidatePath(c.pathB, opts)
	if err != nil {
		return fmt.Errorf("invalid source path %s: %w", c.pathB, err)
	}

	conv, err := resolveConverter(c.format, resolvedA)
	if err != nil {
		return err
	}

	log := buildLogger()
	progress := buildProgressReporter()
	ctx, tok, stop := withCancellation(ctx)
	defer stop()

	result, err := usecases.Compare(ctx, conv, resolvedA, resolvedB, tok, log, progress)
	if err != nil {
		return err
	}

	buildReportFormatter().PrintComparisonResult(result)

	if !result.IsEquivalent {
		return ErrBlockingIssues
	}
	return nil
}
