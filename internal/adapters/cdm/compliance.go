package cdm

import "github.com/madstone-tech/fabric-ontology/internal/core/entities"

// complianceLevels is the static CDM feature support table (§4.I). CDM
// has no DTDL-style Telemetry/Command split; the interesting loss case
// is entityReference attributes, which never become properties at all.
var complianceLevels = map[string]entities.SupportLevel{
	"Attribute":                entities.SupportFull,
	"Relationship":             entities.SupportFull,
	"EntityReferenceAttribute": entities.SupportMetadata,
	"Trait":                    entities.SupportNone,
}

var complianceMessages = map[string]string{
	"Attribute":                "converted to an EntityTypeProperty",
	"Relationship":             "converted to a RelationshipType",
	"EntityReferenceAttribute": "not converted to a property; implicitly promoted to a relationship reference",
	"Trait":                    "no Fabric equivalent beyond the identity/name/relationship-naming traits consumed during conversion",
}

// BuildComplianceReport tallies one entry per attribute/relationship/trait
// found across the manifest against the static table (§4.I).
func BuildComplianceReport(m *Manifest) *entities.ComplianceReport {
	report := entities.NewComplianceReport("cdm")

	for _, e := range m.Entities {
		for _, attr := range e.Attributes {
			if attr.IsEntityReference() {
				report.Add(entry("EntityReferenceAttribute", attr.Name, e.Name))
				continue
			}
			report.Add(entry("Attribute", attr.Name, e.Name))
		}
		for _, t := range e.ExhibitsTraits {
			report.Add(entry("Trait", t.Reference, e.Name))
		}
	}
	for _, r := range m.Relationships {
		report.Add(entry("Relationship", r.RelationshipName(), r.FromEntity))
	}

	return report
}

func entry(construct, name, sourceURI string) entities.ComplianceEntry {
	return entities.ComplianceEntry{
		Construct: construct,
		Name:      name,
		Level:     complianceLevels[construct],
		Message:   complianceMessages[construct],
		SourceURI: sourceURI,
	}
}
