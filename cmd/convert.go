package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/rdf"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/validation"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/watch"
	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// ConvertCommand runs a format converter end to end and writes the
// resulting bundle to disk (§3-§6 `convert`).
type ConvertCommand struct {
	sourcePath      string
	format          string
	ontologyName    string
	outputPath      string
	idPrefix        int64
	streaming       bool
	allowRelativeUp bool
	watch           bool
	summaryFormat   string
	looseInference  bool
}

// NewConvertCommand creates a convert command for sourcePath.
func NewConvertCommand(sourcePath string) *ConvertCommand {
	return &ConvertCommand{sourcePath: sourcePath, outputPath: "bundle.json"}
}

func (c *ConvertCommand) WithFormat(format string) *ConvertCommand {
	c.format = format
	return c
}

func (c *ConvertCommand) WithOntologyName(name string) *ConvertCommand {
	c.ontologyName = name
	return c
}

func (c *ConvertCommand) WithOutputPath(path string) *ConvertCommand {
	if path != "" {
		c.outputPath = path
	}
	return c
}

func (c *ConvertCommand) WithIDPrefix(prefix int64) *ConvertCommand {
	c.idPrefix = prefix
	return c
}

func (c *ConvertCommand) WithStreaming(streaming bool) *ConvertCommand {
	c.streaming = streaming
	return c
}

// WithLooseInference opts into usage-based domain/range inference for
// RDF object properties that declare no explicit domain/range (§9 Open
// Question, loose_inference). Default off.
func (c *ConvertCommand) WithLooseInference(loose bool) *ConvertCommand {
	c.looseInference = loose
	return c
}

func (c *ConvertCommand) WithAllowRelativeUp(allow bool) *ConvertCommand {
	c.allowRelativeUp = allow
	return c
}

// WithWatch enables re-running the conversion each time the source file
// changes, until the command is cancelled (§11 enrichment).
func (c *ConvertCommand) WithWatch(watch bool) *ConvertCommand {
	c.watch = watch
	return c
}

// WithSummaryFormat selects how the post-conversion summary line is
// rendered: "text" (default) or "toon" for a token-efficient line
// intended for scripted/LLM-facing callers (§11 enrichment).
func (c *ConvertCommand) WithSummaryFormat(format string) *ConvertCommand {
	if format != "" {
		c.summaryFormat = format
	}
	return c
}

// Execute runs the conversion, writes the bundle, and prints the
// conversion and compliance reports. With WithWatch enabled, it keeps
// running until ctx is cancelled, re-converting after each source change.
func (c *ConvertCommand) Execute(ctx context.Context) error {
	log := buildLogger()
	ctx, tok, stop := withCancellation(ctx)
	defer stop()

	if err := c.convertOnce(ctx, tok, log); err != nil {
		return err
	}
	if !c.watch {
		return nil
	}

	resolved, err := validation.ValidatePath(c.sourcePath, sourcePathOptions(c.allowRelativeUp))
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}

	fw, err := watch.NewFileWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	defer fw.Stop()

	changes, err := fw.Watch(ctx, resolved)
	if err != nil {
		return fmt.Errorf("watch %s: %w", resolved, err)
	}

	log.Info(fmt.Sprintf("watching %s for changes, press ctrl-c to stop", resolved))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tok.Done():
			return nil
		case <-changes:
			if err := c.convertOnce(ctx, tok, log); err != nil {
				log.Error("conversion failed", err)
			}
		}
	}
}

// convertOnce runs a single convert-and-write pass.
func (c *ConvertCommand) convertOnce(ctx context.Context, tok *cancel.Token, log usecases.Logger) error {
	resolved, err := validation.ValidatePath(c.sourcePath, sourcePathOptions(c.allowRelativeUp))
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}

	conv, err := resolveConverter(c.format, resolved)
	if err != nil {
		return err
	}
	if rdfConv, ok := conv.(*rdf.Converter); ok {
		rdfConv.Streaming = c.streaming
		rdfConv.LooseInference = c.looseInference
	}

	progress := buildProgressReporter()

	req := usecases.ConvertRequest{
		SourcePath:   resolved,
		OntologyName: c.ontologyName,
		IDPrefix:     c.idPrefix,
	}
	resp, err := usecases.Convert(ctx, conv, req, tok, log, progress)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(resp.Bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	if err := os.WriteFile(c.outputPath, raw, 0o644); err != nil {
		return fmt.Errorf("write bundle to %s: %w", c.outputPath, err)
	}

	formatter := buildReportFormatter()
	if c.summaryFormat == "toon" {
		if err := formatter.PrintConversionSummaryTOON(resp.Conversion); err != nil {
			return fmt.Errorf("encode toon summary: %w", err)
		}
	} else {
		formatter.PrintConversionResult(resp.Conversion)
		formatter.PrintComplianceReport(resp.Compliance)
	}

	if len(resp.Compliance.Lost) > 0 {
		log.Warn(fmt.Sprintf("conversion lost %d construct(s) with no Fabric equivalent", len(resp.Compliance.Lost)))
	}
	return nil
}
