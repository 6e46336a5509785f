package cdm

import "testing"

func TestAttribute_IsPrimaryKey(t *testing.T) {
	tests := []struct {
		name string
		attr Attribute
		want bool
	}{
		{"trait match", Attribute{AppliedTraits: []Trait{{Reference: "means.identity.entityId"}}}, true},
		{"purpose match", Attribute{Purpose: "identifiedBy"}, true},
		{"neither", Attribute{Purpose: "hasA"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attr.IsPrimaryKey(); got != tt.want {
				t.Errorf("IsPrimaryKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttribute_IsDisplayName(t *testing.T) {
	tests := []struct {
		name string
		attr Attribute
		want bool
	}{
		{"trait match", Attribute{AppliedTraits: []Trait{{Reference: "means.identity.name"}}}, true},
		{"purpose match", Attribute{Purpose: "namedBy"}, true},
		{"neither", Attribute{Purpose: "hasA"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attr.IsDisplayName(); got != tt.want {
				t.Errorf("IsDisplayName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttribute_IsEntityReference(t *testing.T) {
	if !(Attribute{DataType: "entity"}).IsEntityReference() {
		t.Error("expected entity to be a reference type")
	}
	if !(Attribute{DataType: "entityReference"}).IsEntityReference() {
		t.Error("expected entityReference to be a reference type")
	}
	if (Attribute{DataType: "string"}).IsEntityReference() {
		t.Error("expected string not to be a reference type")
	}
}

func TestRelationship_RelationshipName(t *testing.T) {
	tests := []struct {
		name string
		rel  Relationship
		want string
	}{
		{
			name: "explicit name wins",
			rel:  Relationship{Name: "ownsOrders", FromEntity: "Sales/Customer.cdm.json/Customer", ToEntity: "Sales/Order.cdm.json/Order"},
			want: "ownsOrders",
		},
		{
			name: "verb phrase trait",
			rel: Relationship{
				FromEntity: "Sales/Customer.cdm.json/Customer",
				ToEntity:   "Sales/Order.cdm.json/Order",
				Traits: []Trait{{
					Reference: "means.relationship.verbPhrase",
					Arguments: []TraitArgument{{Value: "places"}},
				}},
			},
			want: "places",
		},
		{
			name: "generated from entity names",
			rel:  Relationship{FromEntity: "Sales/Customer.cdm.json/Customer", ToEntity: "Sales/Order.cdm.json/Order"},
			want: "Customer_to_Order",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rel.RelationshipName(); got != tt.want {
				t.Errorf("RelationshipName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelationship_EntityNameExtraction(t *testing.T) {
	rel := Relationship{FromEntity: "Sales/Customer.cdm.json/Customer", ToEntity: "Order"}
	if got := rel.FromEntityName(); got != "Customer" {
		t.Errorf("FromEntityName() = %q, want %q", got, "Customer")
	}
	if got := rel.ToEntityName(); got != "Order" {
		t.Errorf("ToEntityName() = %q, want %q", got, "Order")
	}
}
