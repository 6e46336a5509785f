package cdm

import (
	"testing"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

func hasIssueCategory(issues []entities.Issue, category string) bool {
	for _, i := range issues {
		if i.Category == category {
			return true
		}
	}
	return false
}

func TestValidateManifest_EmptyManifest(t *testing.T) {
	issues := ValidateManifest(&Manifest{})
	if !hasIssueCategory(issues, "content") {
		t.Errorf("expected a content warning for an empty manifest, got %+v", issues)
	}
}

func TestValidateManifest_DuplicateEntityName(t *testing.T) {
	m := &Manifest{Entities: []Entity{{Name: "Customer"}, {Name: "Customer"}}}
	issues := ValidateManifest(m)
	if !hasIssueCategory(issues, "duplicate_name") {
		t.Errorf("expected a duplicate_name error, got %+v", issues)
	}
}

func TestValidateManifest_SelfInheritance(t *testing.T) {
	m := &Manifest{Entities: []Entity{{Name: "Customer", ExtendsEntity: "Customer"}}}
	issues := ValidateManifest(m)
	if !hasIssueCategory(issues, "self_inheritance") {
		t.Errorf("expected a self_inheritance error, got %+v", issues)
	}
}

func TestValidateManifest_UnresolvedExtends(t *testing.T) {
	m := &Manifest{Entities: []Entity{{Name: "Customer", ExtendsEntity: "Party"}}}
	issues := ValidateManifest(m)
	if !hasIssueCategory(issues, "unresolved_reference") {
		t.Errorf("expected an unresolved_reference warning, got %+v", issues)
	}
}

func TestValidateManifest_InheritanceCycle(t *testing.T) {
	m := &Manifest{Entities: []Entity{
		{Name: "A", ExtendsEntity: "B"},
		{Name: "B", ExtendsEntity: "A"},
	}}
	issues := ValidateManifest(m)
	if !hasIssueCategory(issues, "cyclic_inheritance") {
		t.Errorf("expected a cyclic_inheritance error, got %+v", issues)
	}
}

func TestValidateManifest_RelationshipUnknownEntity(t *testing.T) {
	m := &Manifest{
		Entities:      []Entity{{Name: "Customer"}},
		Relationships: []Relationship{{FromEntity: "Customer", ToEntity: "Order"}},
	}
	issues := ValidateManifest(m)
	if !hasIssueCategory(issues, "unresolved_reference") {
		t.Errorf("expected an unresolved_reference warning for Order, got %+v", issues)
	}
}

func TestValidateManifest_DuplicateAttributeName(t *testing.T) {
	m := &Manifest{Entities: []Entity{
		{Name: "Customer", Attributes: []Attribute{{Name: "id"}, {Name: "id"}}},
	}}
	issues := ValidateManifest(m)
	if !hasIssueCategory(issues, "duplicate_name") {
		t.Errorf("expected a duplicate_name error for the attribute, got %+v", issues)
	}
}
