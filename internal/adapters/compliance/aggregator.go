// Package compliance builds the final, document-specific compliance
// report from a converted intermediate model (§4.I, §4.H). It is the
// one place that sees both a format's static support table and the
// dynamic warnings/skips a particular conversion run actually produced,
// and combines them additively — no extractor decides global compliance
// state (§9).
package compliance

import (
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// FromConversionResult builds a per-document ComplianceReport purely
// from the converged intermediate model: every entity type, property,
// and relationship that survived extraction counts as preserved; every
// recorded warning and skipped item is bucketed by its own severity.
// This mirrors the source-format-agnostic boundary §4.H describes —
// this function never looks at RDF/DTDL/CDM source ASTs.
func FromConversionResult(format string, result *entities.ConversionResult) *entities.ComplianceReport {
	report := entities.NewComplianceReport(format)

	for _, et := range result.EntityTypes {
		report.Add(entities.ComplianceEntry{
			Construct: "EntityType",
			Name:      et.Name,
			Level:     entities.SupportFull,
			Message:   "converted to a Fabric entity type",
			SourceURI: et.SourceURI,
		})
		for _, p := range et.Properties {
			report.Add(entities.ComplianceEntry{
				Construct: "Property",
				Name:      fmt.Sprintf("%s.%s", et.Name, p.Name),
				Level:     entities.SupportFull,
				Message:   "converted to an entity type property",
				SourceURI: et.SourceURI,
			})
		}
	}

	for _, rt := range result.RelationshipTypes {
		report.Add(entities.ComplianceEntry{
			Construct: "Relationship",
			Name:      rt.Name,
			Level:     entities.SupportFull,
			Message:   "converted to a relationship type",
			SourceURI: rt.SourceURI,
		})
	}

	for _, w := range result.Warnings {
		report.Add(entities.ComplianceEntry{
			Construct:  w.Construct,
			Name:       w.Name,
			Level:      levelFor(w.Severity),
			Message:    w.Message,
			Workaround: w.Workaround,
			SourceURI:  w.SourceURI,
		})
	}

	for _, s := range result.SkippedItems {
		report.Add(entities.ComplianceEntry{
			Construct: s.Kind,
			Name:      s.Name,
			Level:     entities.SupportNone,
			Message:   s.Reason,
			SourceURI: s.SourceURI,
		})
	}

	return report
}

func levelFor(severity entities.WarningSeverity) entities.SupportLevel {
	if severity == entities.SeverityLost {
		return entities.SupportNone
	}
	return entities.SupportMetadata
}
