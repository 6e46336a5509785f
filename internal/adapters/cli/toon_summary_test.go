package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/madstone-tech/fabric-ontology/internal/ui"
)

func TestPrintConversionSummaryTOON(t *testing.T) {
	asset, err := entities.NewEntityType("asset-1", "Asset", "usertypes")
	if err != nil {
		t.Fatalf("NewEntityType: %v", err)
	}
	result := &entities.ConversionResult{
		EntityTypes: []*entities.EntityType{asset},
		TripleCount: 4,
	}
	result.AddSkipped(entities.SkippedItem{Kind: "property", Name: "weight", Reason: "unsupported unit annotation"})

	var buf bytes.Buffer
	f := &ReportFormatter{out: ui.NewOutput().WithWriter(&buf)}

	if err := f.PrintConversionSummaryTOON(result); err != nil {
		t.Fatalf("PrintConversionSummaryTOON: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "1") {
		t.Errorf("expected entity count in TOON output, got: %s", out)
	}
	if strings.Contains(out, "SEVERITY") || strings.Contains(out, "BUCKET") {
		t.Errorf("expected compact TOON output, not a table, got: %s", out)
	}
}
