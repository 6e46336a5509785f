package dtdl

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

func writeDTDLFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

const simpleInterfaceDTDL = `{
  "@context": "dtmi:dtdl:context;3",
  "@id": "dtmi:example:Thermostat;1",
  "@type": "Interface",
  "displayName": "Thermostat",
  "contents": [
    {"@type": "Property", "name": "serialNumber", "schema": "string"},
    {"@type": "Telemetry", "name": "temperature", "schema": "double"}
  ]
}`

func TestConverter_Convert_SimpleInterface(t *testing.T) {
	dir := t.TempDir()
	path := writeDTDLFile(t, dir, "thermostat.json", simpleInterfaceDTDL)

	c := New()
	result, err := c.Convert(context.Background(), path, cancel.NewSource().Token(), noopProgress{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(result.EntityTypes) != 1 {
		t.Fatalf("expected 1 entity type, got %d", len(result.EntityTypes))
	}
	entity := result.EntityTypes[0]
	if entity.Name != "Thermostat" {
		t.Errorf("entity name = %q, want Thermostat", entity.Name)
	}
	if entity.FindProperty("serialNumber") == nil {
		t.Errorf("expected serialNumber property, got %+v", entity.Properties)
	}
	if entity.FindProperty("temperature") == nil {
		t.Errorf("expected temperature timeseries property, got %+v", entity.TimeseriesProperties)
	}
}

// TestConverter_Convert_PropertyNameCollisionAcrossInheritance grounds
// spec.md §8 scenario 3: a parent interface declares temperature:double;
// a child extending it redeclares temperature:string. The child's entity
// must carry temperature_string with a recorded warning, while the
// parent keeps temperature:Double untouched.
func TestConverter_Convert_PropertyNameCollisionAcrossInheritance(t *testing.T) {
	dir := t.TempDir()
	writeDTDLFile(t, dir, "parent.json", `{
		"@context": "dtmi:dtdl:context;3",
		"@id": "dtmi:example:Parent;1",
		"@type": "Interface",
		"displayName": "Parent",
		"contents": [
			{"@type": "Property", "name": "temperature", "schema": "double"}
		]
	}`)
	writeDTDLFile(t, dir, "child.json", `{
		"@context": "dtmi:dtdl:context;3",
		"@id": "dtmi:example:Child;1",
		"@type": "Interface",
		"displayName": "Child",
		"extends": "dtmi:example:Parent;1",
		"contents": [
			{"@type": "Property", "name": "temperature", "schema": "string"}
		]
	}`)

	c := New()
	result, err := c.Convert(context.Background(), dir, cancel.NewSource().Token(), noopProgress{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(result.EntityTypes) != 2 {
		t.Fatalf("expected 2 entity types, got %d", len(result.EntityTypes))
	}

	var parent, child *entities.EntityType
	for _, e := range result.EntityTypes {
		switch e.Name {
		case "Parent":
			parent = e
		case "Child":
			child = e
		}
	}
	if parent == nil || child == nil {
		t.Fatalf("expected both Parent and Child entities, got %+v", result.EntityTypes)
	}

	parentProp := parent.FindProperty("temperature")
	if parentProp == nil {
		t.Fatalf("expected parent to retain bare temperature property")
	}
	if parentProp.ValueType != entities.ValueTypeDouble {
		t.Errorf("expected parent's temperature to stay Double, got %s", parentProp.ValueType)
	}

	childProp := child.FindProperty("temperature_string")
	if childProp == nil {
		t.Fatalf("expected child property renamed to temperature_string, got %+v", child.Properties)
	}
	if childProp.ValueType != entities.ValueTypeString {
		t.Errorf("expected renamed child property to be String, got %s", childProp.ValueType)
	}
	if child.BaseEntityTypeID != "dtmi:example:Parent;1" {
		t.Errorf("expected child to inherit from parent, got baseEntityTypeId %q", child.BaseEntityTypeID)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("expected exactly one recorded collision warning, got %d: %+v", len(result.Warnings), result.Warnings)
	}
	if result.Warnings[0].Construct != "Property" || result.Warnings[0].Name != "temperature" {
		t.Errorf("unexpected warning shape: %+v", result.Warnings[0])
	}
}

func TestConverter_Validate_ReportsUnresolvedRelationshipTarget(t *testing.T) {
	dir := t.TempDir()
	writeDTDLFile(t, dir, "room.json", `{
		"@context": "dtmi:dtdl:context;3",
		"@id": "dtmi:example:Room;1",
		"@type": "Interface",
		"displayName": "Room",
		"contents": [
			{"@type": "Relationship", "name": "hasSensor", "target": "dtmi:example:Sensor;1"}
		]
	}`)

	c := New()
	report, err := c.Validate(context.Background(), dir, cancel.NewSource().Token())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	found := false
	for _, iss := range report.Issues {
		if iss.Category == "unresolved_reference" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unresolved_reference issue for the missing relationship target, got %+v", report.Issues)
	}
	if !report.CanImportSeamlessly {
		t.Errorf("expected CanImportSeamlessly=true: an unresolved reference is only warning-severity, not an error, got %+v", report)
	}
}

func TestConverter_ComplianceTable_CoversDTDLConstructs(t *testing.T) {
	c := New()
	report := c.ComplianceTable()
	seen := map[string]bool{}
	for _, e := range report.Preserved {
		seen[e.Construct] = true
	}
	for _, e := range report.Limited {
		seen[e.Construct] = true
	}
	for _, e := range report.Lost {
		seen[e.Construct] = true
	}
	for _, want := range []string{"Property", "Relationship", "Telemetry", "Command", "Component"} {
		if !seen[want] {
			t.Errorf("expected compliance table to cover %s", want)
		}
	}
}
