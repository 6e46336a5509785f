package cdm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// Converter implements usecases.Converter for CDM sources: manifests,
// standalone entity schemas, model.json, and CDM folders (§4.G).
type Converter struct {
	FlattenInheritance bool
}

func New() *Converter { return &Converter{FlattenInheritance: true} }

func (c *Converter) FormatName() string { return "cdm" }

func (c *Converter) ComplianceTable() *entities.ComplianceReport {
	report := entities.NewComplianceReport("cdm")
	for construct, level := range complianceLevels {
		report.Add(entities.ComplianceEntry{
			Construct: construct,
			Level:     level,
			Message:   complianceMessages[construct],
		})
	}
	return report
}

func (c *Converter) load(sourcePath string) *ParseResult {
	p := NewParser()
	return p.ParseFile(sourcePath)
}

func (c *Converter) Validate(ctx context.Context, sourcePath string, tok *cancel.Token) (*entities.ValidationReport, error) {
	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	parsed := c.load(sourcePath)

	var issues []entities.Issue
	for _, e := range parsed.Errors {
		issues = append(issues, entities.Issue{Severity: entities.IssueSeverityError, Category: "parse", Message: e})
	}
	for _, w := range parsed.Warnings {
		issues = append(issues, entities.Issue{Severity: entities.IssueSeverityWarning, Category: "parse", Message: w})
	}
	if parsed.Manifest != nil {
		issues = append(issues, ValidateManifest(parsed.Manifest)...)
	}

	return entities.NewValidationReport(sourcePath, time.Now().UTC().Format(time.RFC3339), issues), nil
}

func (c *Converter) Convert(ctx context.Context, sourcePath string, tok *cancel.Token, progress usecases.ProgressReporter) (*entities.ConversionResult, error) {
	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	progress.Start("parse", -1)
	parsed := c.load(sourcePath)
	if len(parsed.Errors) > 0 {
		return nil, newParseError(parsed.Errors)
	}
	progress.Done("parse")

	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	progress.Start("extract", len(parsed.Manifest.Entities))
	ex := NewExtractor()
	ex.FlattenInheritance = c.FlattenInheritance
	result := ex.Extract(parsed.Manifest)
	progress.Advance(len(parsed.Manifest.Entities))
	progress.Done("extract")

	return result, nil
}

func newParseError(errs []string) error {
	return fmt.Errorf("cdm: %s", strings.Join(errs, "; "))
}
