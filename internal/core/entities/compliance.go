package entities

// SupportLevel buckets a single source construct's conversion fidelity
// (§4.I).
type SupportLevel string

const (
	SupportFull     SupportLevel = "full"
	SupportPartial  SupportLevel = "partial"
	SupportMetadata SupportLevel = "metadata"
	SupportNone     SupportLevel = "none"
)

// ComplianceEntry is the per-construct result of evaluating the static
// support table against one occurrence found in a source document.
type ComplianceEntry struct {
	Construct  string       `json:"construct"`
	Name       string       `json:"name"`
	Level      SupportLevel `json:"level"`
	Message    string       `json:"message"`
	Workaround string       `json:"workaround,omitempty"`
	SourceURI  string       `json:"sourceUri,omitempty"`
}

// ComplianceStatistics summarizes a ComplianceReport.
type ComplianceStatistics struct {
	TotalConstructs   int     `json:"totalConstructs"`
	Preserved         int     `json:"preserved"`
	ConvertedWithLoss int     `json:"convertedWithLimitations"`
	Lost              int     `json:"lost"`
	ComplianceScore   float64 `json:"complianceScore"` // (preserved) / total, percent
}

// ComplianceReport buckets every source construct into preserved /
// converted-with-limitations / lost (§3, §4.I).
type ComplianceReport struct {
	Format     string             `json:"format"`
	Preserved  []ComplianceEntry  `json:"preserved"`
	Limited    []ComplianceEntry  `json:"convertedWithLimitations"`
	Lost       []ComplianceEntry  `json:"lost"`
	Statistics ComplianceStatistics `json:"statistics"`
}

// Add records one evaluated construct occurrence and keeps the running
// statistics in sync. Compliance reporting is additive: every extractor
// appends structured records and no single extractor decides global
// compliance state (§9) — this method is the only mutator.
func (r *ComplianceReport) Add(entry ComplianceEntry) {
	switch entry.Level {
	case SupportFull:
		r.Preserved = append(r.Preserved, entry)
	case SupportPartial, SupportMetadata:
		r.Limited = append(r.Limited, entry)
	case SupportNone:
		r.Lost = append(r.Lost, entry)
	}
	r.recompute()
}

func (r *ComplianceReport) recompute() {
	r.Statistics.Preserved = len(r.Preserved)
	r.Statistics.ConvertedWithLoss = len(r.Limited)
	r.Statistics.Lost = len(r.Lost)
	r.Statistics.TotalConstructs = r.Statistics.Preserved + r.Statistics.ConvertedWithLoss + r.Statistics.Lost
	if r.Statistics.TotalConstructs == 0 {
		r.Statistics.ComplianceScore = 100
		return
	}
	r.Statistics.ComplianceScore = 100 * float64(r.Statistics.Preserved) / float64(r.Statistics.TotalConstructs)
}

// NewComplianceReport creates an empty report for the given format tag
// ("rdf", "dtdl", "cdm").
func NewComplianceReport(format string) *ComplianceReport {
	r := &ComplianceReport{Format: format}
	r.recompute()
	return r
}
