package compliance

import (
	"strings"
	"testing"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

func TestFromConversionResult_BucketsEverything(t *testing.T) {
	result := &entities.ConversionResult{
		EntityTypes: []*entities.EntityType{
			{Name: "Customer", SourceURI: "http://example.org/Customer", Properties: []*entities.EntityTypeProperty{
				{Name: "id", ValueType: entities.ValueTypeString},
			}},
		},
		RelationshipTypes: []*entities.RelationshipType{
			{Name: "Customer_to_Order"},
		},
		Warnings: []entities.ConversionWarning{
			{Severity: entities.SeverityConvertedWithLimitations, Construct: "Attribute", Name: "customer"},
		},
		SkippedItems: []entities.SkippedItem{
			{Kind: "class", Name: "Restriction", Reason: "owl:Restriction has no Fabric equivalent"},
		},
	}

	report := FromConversionResult("rdf", result)

	if report.Format != "rdf" {
		t.Errorf("Format = %q, want rdf", report.Format)
	}
	if len(report.Preserved) != 3 { // entity + property + relationship
		t.Errorf("Preserved = %d, want 3: %+v", len(report.Preserved), report.Preserved)
	}
	if len(report.Limited) != 1 {
		t.Errorf("Limited = %d, want 1: %+v", len(report.Limited), report.Limited)
	}
	if len(report.Lost) != 1 {
		t.Errorf("Lost = %d, want 1: %+v", len(report.Lost), report.Lost)
	}
}

func TestToMarkdown_IncludesBucketCounts(t *testing.T) {
	result := &entities.ConversionResult{
		SkippedItems: []entities.SkippedItem{{Kind: "class", Name: "X", Reason: "unsupported"}},
	}
	report := FromConversionResult("dtdl", result)
	md := ToMarkdown(report)
	if !strings.Contains(md, "dtdl") {
		t.Error("expected rendered markdown to mention the format")
	}
	if !strings.Contains(md, "Lost") {
		t.Error("expected rendered markdown to contain a Lost section")
	}
}

func TestToJSON_RoundTripsShape(t *testing.T) {
	report := FromConversionResult("cdm", &entities.ConversionResult{})
	out, err := ToJSON(report)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(out, `"format": "cdm"`) {
		t.Errorf("expected format field in JSON output, got: %s", out)
	}
}
