package rdf

import (
	"strings"
	"testing"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

func buildTestBundle(t *testing.T) *entities.Bundle {
	t.Helper()

	asset, err := entities.NewEntityType("asset-1", "Asset", "usertypes")
	if err != nil {
		t.Fatalf("NewEntityType asset: %v", err)
	}
	asset.AddProperty(&entities.EntityTypeProperty{ID: "name-1", Name: "name", ValueType: entities.ValueTypeString})

	sensor, err := entities.NewEntityType("sensor-1", "Sensor", "usertypes")
	if err != nil {
		t.Fatalf("NewEntityType sensor: %v", err)
	}
	sensor.BaseEntityTypeID = "asset-1"
	sensor.AddProperty(&entities.EntityTypeProperty{ID: "temp-1", Name: "temperature", ValueType: entities.ValueTypeDouble})

	rel, err := entities.NewRelationshipType("rel-1", "hasSensor", "usertypes", "asset-1", "sensor-1")
	if err != nil {
		t.Fatalf("NewRelationshipType: %v", err)
	}

	result := &entities.ConversionResult{
		EntityTypes:       []*entities.EntityType{asset, sensor},
		RelationshipTypes: []*entities.RelationshipType{rel},
	}

	bundle, err := serialize(t, result)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return bundle
}

// serialize builds a bundle the same way the serializer package does,
// without importing it (avoids an import cycle risk in this package's
// test build), using the exact part paths ExportTurtle expects.
func serialize(t *testing.T, result *entities.ConversionResult) (*entities.Bundle, error) {
	t.Helper()

	bundle := &entities.Bundle{}

	platformPart, err := entities.NewPlatformPart("Test Ontology")
	if err != nil {
		return nil, err
	}
	bundle.Parts = append(bundle.Parts, platformPart)

	defPart, err := entities.NewEmptyDefinitionPart()
	if err != nil {
		return nil, err
	}
	bundle.Parts = append(bundle.Parts, defPart)

	for _, e := range result.EntityTypes {
		part, err := entities.NewPart("EntityTypes/"+e.ID+"/definition.json", e)
		if err != nil {
			return nil, err
		}
		bundle.Parts = append(bundle.Parts, part)
	}
	for _, r := range result.RelationshipTypes {
		part, err := entities.NewPart("RelationshipTypes/"+r.ID+"/definition.json", r)
		if err != nil {
			return nil, err
		}
		bundle.Parts = append(bundle.Parts, part)
	}
	return bundle, nil
}

func TestExportTurtle_ClassesAndProperties(t *testing.T) {
	bundle := buildTestBundle(t)

	out, err := ExportTurtle(bundle)
	if err != nil {
		t.Fatalf("ExportTurtle: %v", err)
	}
	ttl := string(out)

	for _, want := range []string{
		"@prefix owl:",
		"@prefix rdfs:",
		"a owl:Class",
		`rdfs:label "Asset"`,
		`rdfs:label "Sensor"`,
		"rdfs:subClassOf",
		"a owl:DatatypeProperty",
		"http://www.w3.org/2001/XMLSchema#double",
		"a owl:ObjectProperty",
		`rdfs:label "hasSensor"`,
	} {
		if !strings.Contains(ttl, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, ttl)
		}
	}
}

func TestExportTurtle_SkipsPlatformAndEmptyDefinitionParts(t *testing.T) {
	bundle := buildTestBundle(t)

	out, err := ExportTurtle(bundle)
	if err != nil {
		t.Fatalf("ExportTurtle: %v", err)
	}
	ttl := string(out)

	if strings.Contains(ttl, "Test Ontology") {
		t.Errorf("expected .platform displayName not to leak into Turtle output, got:\n%s", ttl)
	}
}

func TestExportTurtle_EmptyBundle(t *testing.T) {
	bundle := &entities.Bundle{}
	out, err := ExportTurtle(bundle)
	if err != nil {
		t.Fatalf("ExportTurtle on empty bundle: %v", err)
	}
	if !strings.Contains(string(out), "@prefix owl:") {
		t.Errorf("expected prefixes even for an empty bundle, got:\n%s", out)
	}
}
