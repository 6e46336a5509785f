package cli

import (
	toon "github.com/toon-format/toon-go"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// conversionSummary is a flat, token-efficient projection of a
// ConversionResult for `--summary-format toon` output (§11 domain stack).
// Scripted callers piping command output into an LLM prompt get this
// instead of the full table.
type conversionSummary struct {
	EntityTypes       int     `json:"entities"`
	RelationshipTypes int     `json:"relationships"`
	Skipped           int     `json:"skipped"`
	SuccessRate       float64 `json:"success_rate"`
}

// PrintConversionSummaryTOON renders a ConversionResult as a single TOON
// line via toon-format/toon-go, rather than the human-facing table from
// PrintConversionResult.
func (f *ReportFormatter) PrintConversionSummaryTOON(r *entities.ConversionResult) error {
	summary := conversionSummary{
		EntityTypes:       len(r.EntityTypes),
		RelationshipTypes: len(r.RelationshipTypes),
		Skipped:           len(r.SkippedItems),
		SuccessRate:       r.SuccessRate(),
	}

	encoded, err := toon.Marshal(summary)
	if err != nil {
		return err
	}
	f.out.Info(string(encoded))
	return nil
}
