// Package limits validates a converted ontology against the Fabric
// service's own API limits before a bundle is ever built or uploaded
// (§4.J).
package limits

import (
	"encoding/json"
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Defaults mirror the Fabric service's published constraints.
const (
	MaxEntityNameLength       = 256
	MaxPropertyNameLength     = 256
	MaxRelationshipNameLength = 256
	MaxDefinitionSizeKB       = 1024
	WarnDefinitionSizeKB      = 800
	MaxEntityTypes            = 1000
	MaxRelationshipTypes      = 500
	MaxPropertiesPerEntity    = 100
	MaxEntityIDParts          = 10

	warnRatio = 0.9
)

// Validate runs every Fabric-limits check against a conversion result and
// returns a ValidationReport (§4.J, §6). It does not mutate result.
func Validate(result *entities.ConversionResult, filePath string) (*entities.ValidationReport, error) {
	var issues []entities.Issue

	issues = append(issues, validateEntityTypes(result.EntityTypes)...)
	issues = append(issues, validateRelationshipTypes(result.RelationshipTypes)...)
	issues = append(issues, validateDefinitionSize(result.EntityTypes, result.RelationshipTypes)...)
	issues = append(issues, validateReferences(result.EntityTypes, result.RelationshipTypes)...)

	return entities.NewValidationReport(filePath, "", issues), nil
}

func countIssue(category string, level entities.IssueSeverity, msg string) entities.Issue {
	return entities.Issue{Severity: level, Category: category, Message: msg}
}

func validateEntityTypes(ets []*entities.EntityType) []entities.Issue {
	var issues []entities.Issue

	if n := len(ets); n > MaxEntityTypes {
		issues = append(issues, countIssue("limits.entity_count", entities.IssueSeverityError,
			fmt.Sprintf("number of entity types (%d) exceeds maximum (%d)", n, MaxEntityTypes)))
	} else if float64(n) > float64(MaxEntityTypes)*warnRatio {
		issues = append(issues, countIssue("limits.entity_count", entities.IssueSeverityWarning,
			fmt.Sprintf("number of entity types (%d) is approaching maximum (%d)", n, MaxEntityTypes)))
	}

	for _, e := range ets {
		if len(e.Name) > MaxEntityNameLength {
			issues = append(issues, entities.Issue{
				Severity: entities.IssueSeverityError, Category: "limits.name_length", Construct: e.Name,
				Message: fmt.Sprintf("entity name %q exceeds maximum length (%d characters)", truncate(e.Name), MaxEntityNameLength),
			})
		}

		props := e.Properties
		if n := len(props); n > MaxPropertiesPerEntity {
			issues = append(issues, entities.Issue{
				Severity: entities.IssueSeverityError, Category: "limits.property_count", Construct: e.Name,
				Message: fmt.Sprintf("entity %q has %d properties, exceeding maximum (%d)", e.Name, n, MaxPropertiesPerEntity),
			})
		} else if float64(n) > float64(MaxPropertiesPerEntity)*warnRatio {
			issues = append(issues, entities.Issue{
				Severity: entities.IssueSeverityWarning, Category: "limits.property_count", Construct: e.Name,
				Message: fmt.Sprintf("entity %q has %d properties, approaching maximum (%d)", e.Name, n, MaxPropertiesPerEntity),
			})
		}

		for _, p := range e.AllProperties() {
			if len(p.Name) > MaxPropertyNameLength {
				issues = append(issues, entities.Issue{
					Severity: entities.IssueSeverityError, Category: "limits.property_name_length", Construct: e.Name + "." + p.Name,
					Message: fmt.Sprintf("property %q in entity %q exceeds maximum length (%d characters)", truncate(p.Name), e.Name, MaxPropertyNameLength),
				})
			}
		}

		if n := len(e.EntityIDParts); n > MaxEntityIDParts {
			issues = append(issues, entities.Issue{
				Severity: entities.IssueSeverityError, Category: "limits.entity_id_parts", Construct: e.Name,
				Message: fmt.Sprintf("entity %q has %d entityIdParts, exceeding maximum (%d)", e.Name, n, MaxEntityIDParts),
			})
		}
	}
	return issues
}

func validateRelationshipTypes(rels []*entities.RelationshipType) []entities.Issue {
	var issues []entities.Issue

	if n := len(rels); n > MaxRelationshipTypes {
		issues = append(issues, countIssue("limits.relationship_count", entities.IssueSeverityError,
			fmt.Sprintf("number of relationship types (%d) exceeds maximum (%d)", n, MaxRelationshipTypes)))
	} else if float64(n) > float64(MaxRelationshipTypes)*warnRatio {
		issues = append(issues, countIssue("limits.relationship_count", entities.IssueSeverityWarning,
			fmt.Sprintf("number of relationship types (%d) is approaching maximum (%d)", n, MaxRelationshipTypes)))
	}

	for _, r := range rels {
		if len(r.Name) > MaxRelationshipNameLength {
			issues = append(issues, entities.Issue{
				Severity: entities.IssueSeverityError, Category: "limits.name_length", Construct: r.Name,
				Message: fmt.Sprintf("relationship name %q exceeds maximum length (%d characters)", truncate(r.Name), MaxRelationshipNameLength),
			})
		}
	}
	return issues
}

// validateDefinitionSize estimates serialized size the same way the
// serializer will encode it: plain JSON of the entity/relationship
// slices, not the base64-inflated bundle (§4.J).
func validateDefinitionSize(ets []*entities.EntityType, rels []*entities.RelationshipType) []entities.Issue {
	entB, errE := json.Marshal(ets)
	relB, errR := json.Marshal(rels)
	if errE != nil || errR != nil {
		return nil
	}
	totalKB := float64(len(entB)+len(relB)) / 1024

	if totalKB > MaxDefinitionSizeKB {
		return []entities.Issue{countIssue("limits.definition_size", entities.IssueSeverityError,
			fmt.Sprintf("total definition size (%.1f KB) exceeds maximum (%d KB)", totalKB, MaxDefinitionSizeKB))}
	}
	if totalKB > WarnDefinitionSizeKB {
		return []entities.Issue{countIssue("limits.definition_size", entities.IssueSeverityWarning,
			fmt.Sprintf("total definition size (%.1f KB) is approaching maximum (%d KB)", totalKB, MaxDefinitionSizeKB))}
	}
	return nil
}

// validateReferences checks that every base type and relationship
// endpoint resolves to a known entity type, and that entityIdParts and
// displayNamePropertyId name real, ID-eligible properties (§4.J).
func validateReferences(ets []*entities.EntityType, rels []*entities.RelationshipType) []entities.Issue {
	var issues []entities.Issue
	byID := make(map[string]*entities.EntityType, len(ets))
	for _, e := range ets {
		byID[e.ID] = e
	}

	for _, e := range ets {
		if e.BaseEntityTypeID != "" {
			if e.BaseEntityTypeID == e.ID {
				issues = append(issues, entities.Issue{
					Severity: entities.IssueSeverityError, Category: "limits.cyclic_inheritance", Construct: e.Name,
					Message: fmt.Sprintf("entity %q cannot inherit from itself", e.Name),
				})
			} else if _, ok := byID[e.BaseEntityTypeID]; !ok {
				issues = append(issues, entities.Issue{
					Severity: entities.IssueSeverityError, Category: "limits.unresolved_reference", Construct: e.Name,
					Message: fmt.Sprintf("entity %q has baseEntityTypeId %q which does not resolve", e.Name, e.BaseEntityTypeID),
				})
			}
		}

		for _, partName := range e.EntityIDParts {
			var p *entities.EntityTypeProperty
			for _, q := range e.AllProperties() {
				if q.ID == partName || q.Name == partName {
					p = q
					break
				}
			}
			if p == nil {
				issues = append(issues, entities.Issue{
					Severity: entities.IssueSeverityError, Category: "limits.entity_id_parts", Construct: e.Name,
					Message: fmt.Sprintf("entity %q entityIdParts references unknown property %q", e.Name, partName),
				})
			} else if !p.ValueType.IsIDEligible() {
				issues = append(issues, entities.Issue{
					Severity: entities.IssueSeverityError, Category: "limits.entity_id_parts", Construct: e.Name,
					Message: fmt.Sprintf("entity %q entityIdParts property %q has value type %s, must be String or BigInt", e.Name, partName, p.ValueType),
				})
			}
		}

		if e.DisplayNamePropertyID != "" {
			found := false
			for _, p := range e.AllProperties() {
				if p.ID == e.DisplayNamePropertyID {
					found = true
					break
				}
			}
			if !found {
				issues = append(issues, entities.Issue{
					Severity: entities.IssueSeverityWarning, Category: "limits.display_name_property", Construct: e.Name,
					Message: fmt.Sprintf("entity %q displayNamePropertyId %q does not match any property", e.Name, e.DisplayNamePropertyID),
				})
			}
		}
	}

	for _, r := range rels {
		if _, ok := byID[r.Source.EntityTypeID]; !ok {
			issues = append(issues, entities.Issue{
				Severity: entities.IssueSeverityError, Category: "limits.unresolved_reference", Construct: r.Name,
				Message: fmt.Sprintf("relationship %q source %q does not resolve", r.Name, r.Source.EntityTypeID),
			})
		}
		if _, ok := byID[r.Target.EntityTypeID]; !ok {
			issues = append(issues, entities.Issue{
				Severity: entities.IssueSeverityError, Category: "limits.unresolved_reference", Construct: r.Name,
				Message: fmt.Sprintf("relationship %q target %q does not resolve", r.Name, r.Target.EntityTypeID),
			})
		}
	}

	return issues
}

func truncate(s string) string {
	if len(s) <= 50 {
		return s
	}
	return s[:50] + "..."
}
