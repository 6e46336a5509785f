package cdm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

type noopProgress struct{}

func (noopProgress) Start(phase string, total int) {}
func (noopProgress) Advance(n int)                 {}
func (noopProgress) Done(phase string)             {}
func (noopProgress) Message(msg string)            {}

func writeEntitySchema(t *testing.T, dir, name string) string {
	t.Helper()
	content := `{
		"jsonSchemaSemanticVersion": "1.0.0",
		"definitions": [
			{
				"entityName": "` + name + `",
				"hasAttributes": [
					{"name": "id", "dataType": "guid", "purpose": "identifiedBy"},
					{"name": "displayName", "dataType": "string", "purpose": "namedBy"}
				]
			}
		]
	}`
	path := filepath.Join(dir, name+".cdm.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConverter_FormatName(t *testing.T) {
	c := New()
	if c.FormatName() != "cdm" {
		t.Errorf("FormatName() = %q, want cdm", c.FormatName())
	}
}

func TestConverter_Validate_CleanSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeEntitySchema(t, dir, "Customer")

	c := New()
	tok := cancel.NewSource().Token()
	report, err := c.Validate(context.Background(), path, tok)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	for _, issue := range report.Issues {
		if issue.Severity == entities.IssueSeverityError {
			t.Errorf("unexpected error issue: %+v", issue)
		}
	}
}

func TestConverter_Validate_ReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.cdm.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New()
	tok := cancel.NewSource().Token()
	report, err := c.Validate(context.Background(), path, tok)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(report.Issues) == 0 {
		t.Error("expected parse error issues for malformed JSON")
	}
}

func TestConverter_Convert_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeEntitySchema(t, dir, "Customer")

	c := New()
	tok := cancel.NewSource().Token()
	result, err := c.Convert(context.Background(), path, tok, noopProgress{})
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if len(result.EntityTypes) != 1 {
		t.Fatalf("expected 1 entity type, got %d", len(result.EntityTypes))
	}
	if result.EntityTypes[0].Name != "Customer" {
		t.Errorf("entity name = %q, want Customer", result.EntityTypes[0].Name)
	}
}

func TestConverter_Convert_CancelledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	path := writeEntitySchema(t, dir, "Customer")

	c := New()
	src := cancel.NewSource()
	src.Cancel()
	_, err := c.Convert(context.Background(), path, src.Token(), noopProgress{})
	if err != cancel.ErrCancelled {
		t.Errorf("Convert err = %v, want ErrCancelled", err)
	}
}

func TestConverter_ComplianceTable_MatchesFormat(t *testing.T) {
	c := New()
	table := c.ComplianceTable()
	if table.Format != "cdm" {
		t.Errorf("Format = %q, want cdm", table.Format)
	}
}
