package cdm

import (
	"testing"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/idgen"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

func TestExtractor_Extract_BasicEntity(t *testing.T) {
	manifest := &Manifest{
		Entities: []Entity{
			{
				Name: "Customer",
				Attributes: []Attribute{
					{Name: "customerId", DataType: "guid", Purpose: "identifiedBy"},
					{Name: "fullName", DataType: "string", Purpose: "namedBy"},
					{Name: "creditLimit", DataType: "decimal"},
				},
			},
		},
	}

	ex := NewExtractor()
	result := ex.Extract(manifest)

	if len(result.EntityTypes) != 1 {
		t.Fatalf("expected 1 entity type, got %d", len(result.EntityTypes))
	}
	et := result.EntityTypes[0]
	if et.Name != "Customer" {
		t.Errorf("Name = %q, want Customer", et.Name)
	}
	if len(et.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(et.Properties))
	}
	if len(et.EntityIDParts) != 1 || et.EntityIDParts[0] != "customerId" {
		t.Errorf("EntityIDParts = %v, want [customerId]", et.EntityIDParts)
	}
	if et.DisplayNamePropertyID != "fullName" {
		t.Errorf("DisplayNamePropertyID = %q, want fullName (pre-idgen placeholder)", et.DisplayNamePropertyID)
	}

	gen := idgen.NewGenerator(0)
	if err := gen.AssignIDs(result); err != nil {
		t.Fatalf("AssignIDs failed: %v", err)
	}
	if et.ID == "" {
		t.Error("expected entity ID to be assigned")
	}
	for _, p := range et.Properties {
		if p.ID == "" {
			t.Errorf("property %q has no assigned ID", p.Name)
		}
	}
	namedProp := et.FindProperty("fullName")
	if namedProp == nil {
		t.Fatal("fullName property not found")
	}
	if et.DisplayNamePropertyID != namedProp.ID {
		t.Errorf("DisplayNamePropertyID = %q, want resolved property ID %q", et.DisplayNamePropertyID, namedProp.ID)
	}
	idProp := et.FindProperty("customerId")
	if et.EntityIDParts[0] != idProp.ID {
		t.Errorf("EntityIDParts[0] = %q, want resolved property ID %q", et.EntityIDParts[0], idProp.ID)
	}
}

func TestExtractor_Extract_EntityReferenceAttributeSkippedWithWarning(t *testing.T) {
	manifest := &Manifest{
		Entities: []Entity{
			{
				Name: "Order",
				Attributes: []Attribute{
					{Name: "orderId", DataType: "string", Purpose: "identifiedBy"},
					{Name: "customer", DataType: "entityReference"},
				},
			},
		},
	}

	ex := NewExtractor()
	result := ex.Extract(manifest)

	et := result.EntityTypes[0]
	if len(et.Properties) != 1 {
		t.Fatalf("expected entityReference attribute to be skipped as a property, got %d properties", len(et.Properties))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 compliance warning for the skipped entityReference attribute, got %d", len(result.Warnings))
	}
	if result.Warnings[0].Severity != entities.SeverityConvertedWithLimitations {
		t.Errorf("warning severity = %v, want SeverityConvertedWithLimitations", result.Warnings[0].Severity)
	}
}

func TestExtractor_Extract_FlattenInheritance(t *testing.T) {
	manifest := &Manifest{
		Entities: []Entity{
			{
				Name: "Base",
				Attributes: []Attribute{
					{Name: "id", DataType: "guid", Purpose: "identifiedBy"},
					{Name: "createdOn", DataType: "dateTime"},
				},
			},
			{
				Name:          "Customer",
				ExtendsEntity: "Base",
				Attributes: []Attribute{
					{Name: "createdOn", DataType: "date"}, // overrides inherited attribute
					{Name: "fullName", DataType: "string", Purpose: "namedBy"},
				},
			},
		},
	}

	ex := NewExtractor()
	ex.FlattenInheritance = true
	result := ex.Extract(manifest)

	var customer *entities.EntityType
	for _, et := range result.EntityTypes {
		if et.Name == "Customer" {
			customer = et
		}
	}
	if customer == nil {
		t.Fatal("Customer entity type not found")
	}
	if len(customer.Properties) != 3 {
		t.Fatalf("expected 3 flattened properties (id, createdOn, fullName), got %d: %+v", len(customer.Properties), customer.Properties)
	}
	if customer.BaseEntityTypeID != "" {
		t.Errorf("BaseEntityTypeID = %q, want empty when flattening", customer.BaseEntityTypeID)
	}
	createdOn := customer.FindProperty("createdOn")
	if createdOn == nil || createdOn.ValueType != entities.ValueTypeDateTime {
		t.Errorf("expected overriding createdOn (date) to still map to DateTime, got %+v", createdOn)
	}
}

func TestExtractor_Extract_Relationship(t *testing.T) {
	manifest := &Manifest{
		Entities: []Entity{
			{Name: "Customer", Attributes: []Attribute{{Name: "id", DataType: "guid", Purpose: "identifiedBy"}}},
			{Name: "Order", Attributes: []Attribute{{Name: "id", DataType: "guid", Purpose: "identifiedBy"}}},
		},
		Relationships: []Relationship{
			{FromEntity: "Sales/Customer.cdm.json/Customer", ToEntity: "Sales/Order.cdm.json/Order"},
		},
	}

	ex := NewExtractor()
	result := ex.Extract(manifest)

	if len(result.RelationshipTypes) != 1 {
		t.Fatalf("expected 1 relationship type, got %d", len(result.RelationshipTypes))
	}
	rel := result.RelationshipTypes[0]
	if rel.Name != "Customer_to_Order" {
		t.Errorf("Name = %q, want Customer_to_Order", rel.Name)
	}
	if rel.Source.EntityTypeID != "Customer" || rel.Target.EntityTypeID != "Order" {
		t.Errorf("relationship endpoints = %+v, want name placeholders Customer/Order", rel)
	}
}
