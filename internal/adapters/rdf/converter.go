package rdf

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// Converter implements usecases.Converter for RDF/OWL sources (§4.E).
type Converter struct {
	// Format pins the serialization instead of sniffing path/content,
	// used when the CLI's --format flag overrides detection.
	Format SourceFormat

	// Streaming forces the chunked extraction engine regardless of file
	// size (§4.L, the CLI's --streaming flag).
	Streaming bool

	// ChunkSize overrides DefaultChunkSize for the streaming engine.
	ChunkSize int

	// LooseInference opts into usage-based domain/range inference for
	// object properties that declare no explicit rdfs:domain/rdfs:range
	// (§9 Open Question, loose_inference). Default off: such properties
	// are skipped instead of guessed from instance data. When a
	// relationship is produced via this fallback, RelationshipType.Inferred
	// is set and surfaced in both the bundle and the conversion result
	// (§6 output).
	LooseInference bool
}

// usesStreaming reports whether Convert should route through
// ExtractChunked: either the caller asked for it explicitly, or the
// source file exceeds StreamingThresholdBytes (§4.L).
func (c *Converter) usesStreaming(sourcePath string) bool {
	if c.Streaming {
		return true
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return false
	}
	return info.Size() > StreamingThresholdBytes
}

func New() *Converter { return &Converter{} }

func (c *Converter) FormatName() string { return "rdf" }

func (c *Converter) ComplianceTable() *entities.ComplianceReport {
	levels := make(map[string]entities.ComplianceEntry, len(complianceLevels))
	for construct, level := range complianceLevels {
		levels[construct] = entities.ComplianceEntry{
			Construct: construct,
			Level:     level,
			Message:   complianceMessages[construct],
		}
	}
	report := entities.NewComplianceReport("rdf")
	for _, entry := range levels {
		report.Add(entry)
	}
	return report
}

func (c *Converter) Validate(ctx context.Context, sourcePath string, tok *cancel.Token) (*entities.ValidationReport, error) {
	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("rdf: read %s: %w", sourcePath, err)
	}

	var issues []entities.Issue
	g, format, parseErr := Parse(string(content), sourcePath, c.Format)
	if parseErr != nil {
		issues = append(issues, entities.Issue{
			Severity: entities.IssueSeverityError,
			Category: "parse",
			Message:  parseErr.Error(),
		})
		return entities.NewValidationReport(sourcePath, time.Now().UTC().Format(time.RFC3339), issues), nil
	}

	if g.Len() == 0 {
		issues = append(issues, entities.Issue{
			Severity: entities.IssueSeverityWarning,
			Category: "content",
			Message:  fmt.Sprintf("no triples parsed (detected format %s)", format),
		})
	} else if docCompliance := BuildComplianceReport(g); docCompliance.Statistics.TotalConstructs > 0 {
		issues = append(issues, entities.Issue{
			Severity: entities.IssueSeverityInfo,
			Category: "compliance",
			Message: fmt.Sprintf("this document's compliance score is %.1f%% (%d preserved, %d limited, %d lost constructs actually present)",
				docCompliance.Statistics.ComplianceScore, len(docCompliance.Preserved), len(docCompliance.Limited), len(docCompliance.Lost)),
		})
	}

	result := Extract(g, c.LooseInference)
	for _, skipped := range result.SkippedItems {
		issues = append(issues, entities.Issue{
			Severity:  entities.IssueSeverityWarning,
			Category:  skipped.Kind,
			Message:   skipped.Reason,
			SourceURI: skipped.SourceURI,
			Construct: skipped.Kind,
		})
	}
	for _, w := range result.Warnings {
		sev := entities.IssueSeverityWarning
		if w.Severity == entities.SeverityLost {
			sev = entities.IssueSeverityInfo
		}
		issues = append(issues, entities.Issue{
			Severity:  sev,
			Category:  "compliance",
			Message:   w.Message,
			SourceURI: w.SourceURI,
			Construct: w.Construct,
		})
	}

	return entities.NewValidationReport(sourcePath, time.Now().UTC().Format(time.RFC3339), issues), nil
}

func (c *Converter) Convert(ctx context.Context, sourcePath string, tok *cancel.Token, progress usecases.ProgressReporter) (*entities.ConversionResult, error) {
	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	progress.Start("parse", -1)
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("rdf: read %s: %w", sourcePath, err)
	}

	g, _, err := Parse(string(content), sourcePath, c.Format)
	if err != nil {
		return nil, err
	}
	progress.Done("parse")

	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	if c.usesStreaming(sourcePath) {
		return ExtractChunked(g, c.ChunkSize, tok, progress, c.LooseInference)
	}

	progress.Start("extract", -1)
	result := Extract(g, c.LooseInference)
	progress.Done("extract")

	return result, nil
}
