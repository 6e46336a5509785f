package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/cli"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/diagram"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/mdreport"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/pdfreport"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/rdf"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/validation"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// ExportCommand reads a previously produced bundle and re-expresses it as
// Turtle, optionally alongside a D2 class diagram, a compliance Markdown
// report, and a validation-summary PDF (§11 supplemented enrichments).
// The Markdown and PDF enrichments need a fresh compliance/validation
// report, which requires the original source document and format: when
// --source is omitted, both --markdown and --pdf fail with an error.
type ExportCommand struct {
	bundlePath      string
	outputPath      string
	diagramPath     string
	markdownPath    string
	pdfPath         string
	sourcePath      string
	format          string
	allowRelativeUp bool
}

func NewExportCommand(bundlePath string) *ExportCommand {
	return &ExportCommand{bundlePath: bundlePath, outputPath: "ontology.ttl"}
}

func (c *ExportCommand) WithOutputPath(path string) *ExportCommand {
	if path != "" {
		c.outputPath = path
	}
	return c
}

func (c *ExportCommand) WithDiagram(path string) *ExportCommand {
	c.diagramPath = path
	return c
}

func (c *ExportCommand) WithMarkdown(path string) *ExportCommand {
	c.markdownPath = path
	return c
}

func (c *ExportCommand) WithPDF(path string) *ExportCommand {
	c.pdfPath = path
	return c
}

func (c *ExportCommand) WithSource(path, format string) *ExportCommand {
	c.sourcePath = path
	c.format = format
	return c
}

func (c *ExportCommand) WithAllowRelativeUp(allow bool) *ExportCommand {
	c.allowRelativeUp = allow
	return c
}

func (c *ExportCommand) Execute(ctx context.Context) error {
	raw, err := os.ReadFile(c.bundlePath)
	if err != nil {
		return fmt.Errorf("read bundle %s: %w", c.bundlePath, err)
	}
	var bundle entities.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return fmt.Errorf("decode bundle %s: %w", c.bundlePath, err)
	}

	turtle, err := rdf.ExportTurtle(&bundle)
	if err != nil {
		return fmt.Errorf("export turtle: %w", err)
	}
	if err := os.WriteFile(c.outputPath, turtle, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.outputPath, err)
	}

	out := buildReportFormatter()
	out.PrintMessage(fmt.Sprintf("wrote Turtle export to %s", c.outputPath))

	if c.diagramPath != "" {
		if err := c.writeDiagram(ctx, &bundle, out); err != nil {
			return err
		}
	}
	if c.markdownPath != "" {
		if err := c.writeMarkdown(ctx, out); err != nil {
			return err
		}
	}
	if c.pdfPath != "" {
		if err := c.writePDF(ctx, out); err != nil {
			return err
		}
	}
	return nil
}

func (c *ExportCommand) writeDiagram(ctx context.Context, bundle *entities.Bundle, out *cli.ReportFormatter) error {
	source, err := diagram.NewGenerator().GenerateClassDiagram(bundle)
	if err != nil {
		return fmt.Errorf("generate class diagram: %w", err)
	}

	renderer := diagram.NewRenderer()
	if strings.HasSuffix(strings.ToLower(c.diagramPath), ".d2") || !renderer.IsAvailable() {
		if err := os.WriteFile(c.diagramPath, []byte(source), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.diagramPath, err)
		}
		out.PrintMessage(fmt.Sprintf("wrote D2 diagram source to %s", c.diagramPath))
		return nil
	}

	svg, err := renderer.RenderSVG(ctx, source, 30)
	if err != nil {
		return fmt.Errorf("render diagram: %w", err)
	}
	if err := os.WriteFile(c.diagramPath, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.diagramPath, err)
	}
	out.PrintMessage(fmt.Sprintf("wrote rendered diagram to %s", c.diagramPath))
	return nil
}

// resolveSourceConverter validates/resolves the optional --source flag,
// returning nil, nil when it was not given.
func (c *ExportCommand) resolveSourceConverter() (string, usecases.Converter, error) {
	if c.sourcePath == "" {
		return "", nil, nil
	}
	resolved, err := validation.ValidatePath(c.sourcePath, sourcePathOptions(c.allowRelativeUp))
	if err != nil {
		return "", nil, fmt.Errorf("invalid source path: %w", err)
	}
	conv, err := resolveConverter(c.format, resolved)
	if err != nil {
		return "", nil, err
	}
	return resolved, conv, nil
}

func (c *ExportCommand) writeMarkdown(ctx context.Context, out *cli.ReportFormatter) error {
	resolved, conv, err := c.resolveSourceConverter()
	if err != nil {
		return err
	}
	if conv == nil {
		return fmt.Errorf("--markdown requires --source and --format, or --source alone if the format is inferable")
	}

	log := buildLogger()
	ctx, tok, stop := withCancellation(ctx)
	defer stop()

	resp, err := usecases.Convert(ctx, conv, usecases.ConvertRequest{SourcePath: resolved}, tok, log, buildProgressReporter())
	if err != nil {
		return fmt.Errorf("convert source for compliance report: %w", err)
	}

	md, err := mdreport.NewBuilder().BuildComplianceMarkdown(resp.Compliance)
	if err != nil {
		return fmt.Errorf("build compliance markdown: %w", err)
	}
	if err := os.WriteFile(c.markdownPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.markdownPath, err)
	}
	out.PrintMessage(fmt.Sprintf("wrote compliance report to %s", c.markdownPath))
	return nil
}

func (c *ExportCommand) writePDF(ctx context.Context, out *cli.ReportFormatter) error {
	resolved, conv, err := c.resolveSourceConverter()
	if err != nil {
		return err
	}
	if conv == nil {
		return fmt.Errorf("--pdf requires --source and --format, or --source alone if the format is inferable")
	}

	log := buildLogger()
	ctx, tok, stop := withCancellation(ctx)
	defer stop()

	report, err := usecases.Validate(ctx, conv, resolved, tok, log)
	if err != nil {
		return fmt.Errorf("validate source for pdf report: %w", err)
	}

	f, err := os.Create(c.pdfPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.pdfPath, err)
	}
	defer f.Close()

	if err := pdfreport.NewRenderer().RenderValidationSummary(report, f); err != nil {
		return fmt.Errorf("render validation pdf: %w", err)
	}
	out.PrintMessage(fmt.Sprintf("wrote validation summary PDF to %s", c.pdfPath))
	return nil
}
