package dtdl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// Converter implements usecases.Converter for DTDL sources (§4.F).
type Converter struct {
	Recursive         bool
	FlattenComponents bool
	IncludeCommands   bool
}

func New() *Converter { return &Converter{Recursive: true} }

func (c *Converter) FormatName() string { return "dtdl" }

func (c *Converter) ComplianceTable() *entities.ComplianceReport {
	report := entities.NewComplianceReport("dtdl")
	for construct, level := range complianceLevels {
		report.Add(entities.ComplianceEntry{
			Construct: construct,
			Level:     level,
			Message:   complianceMessages[construct],
		})
	}
	return report
}

func (c *Converter) load(sourcePath string) (*ParseResult, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("dtdl: stat %s: %w", sourcePath, err)
	}
	if info.IsDir() {
		return ParseDirectory(sourcePath, c.Recursive), nil
	}
	return ParseFile(sourcePath), nil
}

func (c *Converter) Validate(ctx context.Context, sourcePath string, tok *cancel.Token) (*entities.ValidationReport, error) {
	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	parsed, err := c.load(sourcePath)
	if err != nil {
		return nil, err
	}

	var issues []entities.Issue
	for _, e := range parsed.Errors {
		issues = append(issues, entities.Issue{Severity: entities.IssueSeverityError, Category: "parse", Message: e})
	}
	for _, w := range parsed.Warnings {
		issues = append(issues, entities.Issue{Severity: entities.IssueSeverityWarning, Category: "parse", Message: w})
	}
	issues = append(issues, ValidateInterfaces(parsed.Interfaces)...)

	return entities.NewValidationReport(sourcePath, time.Now().UTC().Format(time.RFC3339), issues), nil
}

func (c *Converter) Convert(ctx context.Context, sourcePath string, tok *cancel.Token, progress usecases.ProgressReporter) (*entities.ConversionResult, error) {
	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	progress.Start("parse", -1)
	parsed, err := c.load(sourcePath)
	if err != nil {
		return nil, err
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("dtdl: %s", strings.Join(parsed.Errors, "; "))
	}
	progress.Done("parse")

	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	progress.Start("extract", len(parsed.Interfaces))
	ex := NewExtractor()
	ex.FlattenComponents = c.FlattenComponents
	ex.IncludeCommands = c.IncludeCommands
	result := ex.Extract(parsed.Interfaces)
	progress.Advance(len(parsed.Interfaces))
	progress.Done("extract")

	return result, nil
}
