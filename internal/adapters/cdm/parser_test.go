package cdm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParser_ParseFile_EntitySchema(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"jsonSchemaSemanticVersion": "1.0.0",
		"definitions": [
			{
				"entityName": "Customer",
				"hasAttributes": [
					{"name": "customerId", "dataType": "guid", "purpose": "identifiedBy"},
					{"name": "fullName", "dataType": "string", "purpose": "namedBy"},
					{"name": "creditLimit", "dataType": "decimal"}
				]
			}
		]
	}`
	path := filepath.Join(dir, "Customer.cdm.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewParser()
	result := p.ParseFile(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Manifest == nil || len(result.Manifest.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %+v", result.Manifest)
	}
	entity := result.Manifest.Entities[0]
	if entity.Name != "Customer" {
		t.Errorf("entity name = %q, want Customer", entity.Name)
	}
	if len(entity.Attributes) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(entity.Attributes))
	}
	if !entity.Attributes[0].IsPrimaryKey() {
		t.Error("expected customerId to be a primary key")
	}
	if !entity.Attributes[1].IsDisplayName() {
		t.Error("expected fullName to be the display name")
	}
}

func TestParser_ParseFile_ModelJSON(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"name": "legacyModel",
		"version": "1.0",
		"entities": [
			{
				"name": "Order",
				"attributes": [
					{"name": "orderId", "dataType": "string"},
					{"name": "customerRef", "attributeReference": {"entityName": "Customer", "attributeName": "customerId"}}
				]
			}
		]
	}`
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewParser()
	result := p.ParseFile(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Manifest.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(result.Manifest.Entities))
	}
	if len(result.Manifest.Relationships) != 1 {
		t.Fatalf("expected 1 relationship extracted from attributeReference, got %d", len(result.Manifest.Relationships))
	}
	rel := result.Manifest.Relationships[0]
	if rel.FromEntity != "Order" || rel.ToEntity != "Customer" {
		t.Errorf("relationship = %+v, want Order -> Customer", rel)
	}
}

func TestParser_ParseFile_ManifestWithLocalEntityReference(t *testing.T) {
	dir := t.TempDir()

	entityContent := `{
		"jsonSchemaSemanticVersion": "1.0.0",
		"definitions": [
			{"entityName": "Customer", "hasAttributes": [{"name": "customerId", "dataType": "guid", "purpose": "identifiedBy"}]}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "Customer.cdm.json"), []byte(entityContent), 0644); err != nil {
		t.Fatal(err)
	}

	manifestContent := `{
		"manifestName": "sales",
		"jsonSchemaSemanticVersion": "1.0.0",
		"entities": [
			{"type": "LocalEntity", "entityName": "Customer", "entityPath": "Customer.cdm.json/Customer"}
		],
		"relationships": []
	}`
	manifestPath := filepath.Join(dir, "sales.manifest.cdm.json")
	if err := os.WriteFile(manifestPath, []byte(manifestContent), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewParser()
	result := p.ParseFile(manifestPath)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Manifest.Entities) != 1 {
		t.Fatalf("expected 1 resolved entity, got %d: %+v", len(result.Manifest.Entities), result.Manifest.Entities)
	}
	if result.Manifest.Entities[0].Name != "Customer" {
		t.Errorf("entity name = %q, want Customer", result.Manifest.Entities[0].Name)
	}
	if len(result.Manifest.Entities[0].Attributes) != 1 {
		t.Errorf("expected resolved entity to carry its attributes, got %+v", result.Manifest.Entities[0])
	}
}

func TestParser_ParseFolder_FallsBackToBareCDMFiles(t *testing.T) {
	dir := t.TempDir()
	content := `{"jsonSchemaSemanticVersion": "1.0.0", "definitions": [{"entityName": "Product", "hasAttributes": [{"name": "sku", "dataType": "string"}]}]}`
	if err := os.WriteFile(filepath.Join(dir, "Product.cdm.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewParser()
	result := p.ParseFolder(dir)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Manifest.Entities) != 1 || result.Manifest.Entities[0].Name != "Product" {
		t.Fatalf("expected Product entity, got %+v", result.Manifest.Entities)
	}
}

func TestParser_ParseFile_NotFound(t *testing.T) {
	p := NewParser()
	result := p.ParseFile(filepath.Join(t.TempDir(), "missing.cdm.json"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}
