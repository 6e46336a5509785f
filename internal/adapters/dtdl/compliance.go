package dtdl

import "github.com/madstone-tech/fabric-ontology/internal/core/entities"

// complianceLevels is the static DTDL feature support table (§4.I, §7).
var complianceLevels = map[string]entities.SupportLevel{
	"Property":     entities.SupportFull,
	"Relationship": entities.SupportFull,
	"Telemetry":    entities.SupportPartial,
	"Command":      entities.SupportNone,
	"Component":    entities.SupportPartial,
}

var complianceMessages = map[string]string{
	"Property":     "converted to an EntityTypeProperty",
	"Relationship": "converted to a RelationshipType",
	"Telemetry":    "converted to a timeseries EntityTypeProperty; sampling/unit metadata is dropped",
	"Command":      "no Fabric equivalent; skipped unless includeCommands surfaces it as a synthetic String property",
	"Component":    "flattened into prefixed properties on the parent entity when flattenComponents is set, otherwise skipped",
}

// BuildComplianceReport tallies one entry per content element found
// across interfaces against the static table (§4.I).
func BuildComplianceReport(interfaces []*Interface) *entities.ComplianceReport {
	report := entities.NewComplianceReport("dtdl")

	for _, iface := range interfaces {
		for _, p := range iface.Properties {
			report.Add(entry("Property", p.Name, iface.DTMI))
		}
		for _, t := range iface.Telemetries {
			report.Add(entry("Telemetry", t.Name, iface.DTMI))
		}
		for _, r := range iface.Relationships {
			report.Add(entry("Relationship", r.Name, iface.DTMI))
		}
		for _, c := range iface.Components {
			report.Add(entry("Component", c.Name, iface.DTMI))
		}
		for _, c := range iface.Commands {
			report.Add(entry("Command", c.Name, iface.DTMI))
		}
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
