package diagram

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
	sensor.AddProperty(&entities.EntityTypeProperty{ID: "temp-1", Name: "read.ing-1", ValueType: entities.ValueTypeDouble})

	rel, err := entities.NewRelationshipType("rel-1", "hasSensor", "usertypes", "asset-1", "sensor-1")
	if err != nil {
		t.Fatalf("NewRelationshipType: %v", err)
	}
	rel.Inferred = true

	assetPart, err := entities.NewPart("EntityTypes/asset-1.json", asset)
	if err != nil {
		t.Fatalf("NewPart asset: %v", err)
	}
	sensorPart, err := entities.NewPart("EntityTypes/sensor-1.json", sensor)
	if err != nil {
		t.Fatalf("NewPart sensor: %v", err)
	}
	relPart, err := entities.NewPart("RelationshipTypes/rel-1.json", rel)
	if err != nil {
		t.Fatalf("NewPart rel: %v", err)
	}
	platformPart, err := entities.NewPart(".platform", map[string]string{"logicalId": "fabric-ontology"})
	if err != nil {
		t.Fatalf("NewPart platform: %v", err)
	}

	return &entities.Bundle{Parts: []entities.Part{assetPart, sensorPart, relPart, platformPart}}
}

func TestGenerateClassDiagram(t *testing.T) {
	bundle := buildTestBundle(t)

	source, err := NewGenerator().GenerateClassDiagram(bundle)
	if err != nil {
		t.Fatalf("GenerateClassDiagram: %v", err)
	}

	for _, want := range []string{
		"asset-1:",
		"sensor-1:",
		"name: \"String\"",
		"read_ing_1: \"Double\"",
		"sensor-1 -> asset-1: \"extends\"",
		"asset-1 -> sensor-1: \"hasSensor\"",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("expected generated source to contain %q, got:\n%s", want, source)
		}
	}

	if !strings.Contains(source, "stroke: \"#9E9E9E\"") {
		t.Errorf("expected inferred relationship styling, got:\n%s", source)
	}
}

func TestGenerateClassDiagramSkipsPlatformPart(t *testing.T) {
	bundle := &entities.Bundle{Parts: []entities.Part{
		{Path: ".platform", Payload: "", PayloadType: entities.PayloadTypeInlineBase64},
	}}

	source, err := NewGenerator().GenerateClassDiagram(bundle)
	if err != nil {
		t.Fatalf("GenerateClassDiagram: %v", err)
	}
	if strings.Contains(source, "undefined") {
		t.Errorf("platform part should be skipped entirely, got:\n%s", source)
	}
}

func TestSanitizeFieldName(t *testing.T) {
	cases := map[string]string{
		"plain":        "plain",
		"has.dot":      "has_dot",
		"has-dash":     "has_dash",
		"has space":    "has_space",
		"CamelCase_1":  "CamelCase_1",
	}
	for in, want := range cases {
		if got := sanitizeFieldName(in); got != want {
			t.Errorf("sanitizeFieldName(%q) = %q, want %q", in, got, want)
		}
	}
}
