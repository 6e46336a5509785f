package entities

// SkippedItem is an unambiguous record of non-fatal loss during
// conversion (§3, §7).
type SkippedItem struct {
	Kind      string `json:"kind"`      // e.g. "class", "datatype_property", "object_property", "interface"
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	SourceURI string `json:"sourceUri"`
}

// WarningSeverity classifies a ConversionWarning (§4.I).
type WarningSeverity string

const (
	SeverityConvertedWithLimitations WarningSeverity = "CONVERTED_WITH_LIMITATIONS"
	SeverityLost                     WarningSeverity = "LOST"
)

// ConversionWarning records a compliance-relevant event produced while
// converting a single construct (§4.I).
type ConversionWarning struct {
	Severity  WarningSeverity `json:"severity"`
	Construct string          `json:"construct"`
	Name      string          `json:"name"`
	Message   string          `json:"message"`
	Workaround string         `json:"workaround,omitempty"`
	SourceURI string          `json:"sourceUri,omitempty"`
}

// ConversionResult is the output of a single format converter's Convert
// call (§3).
type ConversionResult struct {
	EntityTypes       []*EntityType        `json:"entityTypes"`
	RelationshipTypes []*RelationshipType  `json:"relationshipTypes"`
	SkippedItems      []SkippedItem        `json:"skippedItems"`
	Warnings          []ConversionWarning  `json:"warnings"`
	TripleCount       int                  `json:"tripleCount"`
}

// SuccessRate computes the §3/§8 success-rate statistic:
// converted / (converted + skipped), expressed as a percentage in
// [0, 100]. With zero inputs the rate is defined to be 100.
func (r *ConversionResult) SuccessRate() float64 {
	converted := len(r.EntityTypes) + len(r.RelationshipTypes)
	skipped := len(r.SkippedItems)
	total := converted + skipped
	if total == 0 {
		return 100
	}
	return 100 * float64(converted) / float64(total)
}

// AddSkipped records a non-fatal construct loss.
func (r *ConversionResult) AddSkipped(kind, name, reason, sourceURI string) {
	r.SkippedItems = append(r.SkippedItems, SkippedItem{
		Kind: kind, Name: name, Reason: reason, SourceURI: sourceURI,
	})
}

// AddWarning records a compliance-relevant warning.
func (r *ConversionResult) AddWarning(w ConversionWarning) {
	r.Warnings = append(r.Warnings, w)
}

// FindEntityType looks up an entity type by its source URI (used for
// wiring base-type and relationship references during extraction, before
// numeric IDs are finalized downstream).
func (r *ConversionResult) FindEntityType(sourceURI string) *EntityType {
	for _, e := range r.EntityTypes {
		if e.SourceURI == sourceURI {
			return e
		}
	}
	return nil
}
