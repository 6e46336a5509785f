package pdfreport

import (
	"bytes"
	"testing"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

func TestRenderValidationSummary(t *testing.T) {
	report := entities.NewValidationReport("ontology.ttl", "2026-07-31T00:00:00Z", []entities.Issue{
		{Severity: entities.IssueSeverityError, Category: "cyclic_inheritance", Message: "Sensor cannot inherit from itself"},
		{Severity: entities.IssueSeverityWarning, Category: "name_grammar", Message: "property name contains a space"},
	})

	var buf bytes.Buffer
	if err := NewRenderer().RenderValidationSummary(report, &buf); err != nil {
		t.Fatalf("RenderValidationSummary: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		n := len(buf.Bytes())
		if n > 8 {
			n = 8
		}
		t.Errorf("expected output to start with a PDF header, got: %q", buf.Bytes()[:n])
	}
}

func TestRenderValidationSummaryNilReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().RenderValidationSummary(nil, &buf); err == nil {
		t.Fatal("expected error for nil report")
	}
}
