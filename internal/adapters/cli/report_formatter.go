package cli

import (
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/madstone-tech/fabric-ontology/internal/ui"
)

// ReportFormatter renders the reports produced by validate/convert/
// compare to the terminal (§6, §7, §11).
type ReportFormatter struct {
	out *ui.Output
}

// NewReportFormatter creates a console-backed ReportFormatter.
func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{out: ui.NewOutput()}
}

// PrintValidationReport renders a ValidationReport's issues grouped by
// severity, ending with the seamless-import verdict (§6 `validate`).
func (f *ReportFormatter) PrintValidationReport(r *entities.ValidationReport) {
	if r.TotalIssues == 0 {
		f.out.Success(r.Summary)
		return
	}

	rows := make([][]string, 0, len(r.Issues))
	for _, iss := range r.Issues {
		rows = append(rows, []string{string(iss.Severity), iss.Category, iss.Message})
	}
	f.out.Table([]string{"SEVERITY", "CATEGORY", "MESSAGE"}, rows)
	f.out.Newline()

	if r.CanImportSeamlessly {
		f.out.Success(r.Summary)
	} else {
		f.out.Error(r.Summary)
	}
	f.out.KeyValue("total issues", fmt.Sprintf("%d", r.TotalIssues))
}

// PrintConversionResult renders a ConversionResult's entity/relationship
// counts and success rate (§3, §8).
func (f *ReportFormatter) PrintConversionResult(r *entities.ConversionResult) {
	f.out.KeyValue("entity types", fmt.Sprintf("%d", len(r.EntityTypes)))
	f.out.KeyValue("relationship types", fmt.Sprintf("%d", len(r.RelationshipTypes)))
	if inferred := countInferred(r.RelationshipTypes); inferred > 0 {
		f.out.KeyValue("inferred relationships", fmt.Sprintf("%d (domain/range guessed from instance usage)", inferred))
	}
	f.out.KeyValue("skipped items", fmt.Sprintf("%d", len(r.SkippedItems)))
	f.out.KeyValue("success rate", fmt.Sprintf("%.1f%%", r.SuccessRate()))

	for _, s := range r.SkippedItems {
		f.out.Warning(fmt.Sprintf("%s %q skipped: %s", s.Kind, s.Name, s.Reason))
	}
}

func countInferred(rels []*entities.RelationshipType) int {
	n := 0
	for _, r := range rels {
		if r.Inferred {
			n++
		}
	}
	return n
}

// PrintComplianceReport renders a ComplianceReport's preserved/limited/
// lost buckets and overall compliance score (§4.I).
func (f *ReportFormatter) PrintComplianceReport(r *entities.ComplianceReport) {
	rows := [][]string{
		{"preserved", fmt.Sprintf("%d", len(r.Preserved))},
		{"converted with limitations", fmt.Sprintf("%d", len(r.Limited))},
		{"lost", fmt.Sprintf("%d", len(r.Lost))},
	}
	f.out.Table([]string{"BUCKET", "COUNT"}, rows)
	f.out.KeyValue("compliance score", fmt.Sprintf("%.1f%%", r.Statistics.ComplianceScore))
}

// PrintComparisonResult renders a ComparisonResult's per-dimension set
// diffs and overall equivalence verdict (§12 supplemented feature).
func (f *ReportFormatter) PrintComparisonResult(r *entities.ComparisonResult) {
	rows := [][]string{
		{"entity types", fmt.Sprintf("%d", r.EntityTypes.Count1), fmt.Sprintf("%d", r.EntityTypes.Count2), fmt.Sprintf("%d", len(r.EntityTypes.OnlyInFirst)+len(r.EntityTypes.OnlyInSecond))},
		{"properties", fmt.Sprintf("%d", r.Properties.Count1), fmt.Sprintf("%d", r.Properties.Count2), fmt.Sprintf("%d", len(r.Properties.OnlyInFirst)+len(r.Properties.OnlyInSecond))},
		{"relationship types", fmt.Sprintf("%d", r.RelationshipTypes.Count1), fmt.Sprintf("%d", r.RelationshipTypes.Count2), fmt.Sprintf("%d", len(r.RelationshipTypes.OnlyInFirst)+len(r.RelationshipTypes.OnlyInSecond))},
	}
	f.out.Table([]string{"DIMENSION", "SOURCE A", "SOURCE B", "DIFFERENCES"}, rows)
	if r.IsEquivalent {
		f.out.Success("ontologies are semantically equivalent")
	} else {
		f.out.Warning("ontologies are not equivalent")
	}
}

// PrintTable renders an arbitrary table, for list-style command output
// that isn't backed by one of the domain report types above.
func (f *ReportFormatter) PrintTable(headers []string, rows [][]string) {
	f.out.Table(headers, rows)
}

// PrintMessage renders a plain informational line.
func (f *ReportFormatter) PrintMessage(msg string) {
	f.out.Info(msg)
}
