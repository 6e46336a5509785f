package cdm

import (
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

const maxInheritanceDepth = 32

// ValidateManifest checks entity/attribute naming, duplicate entity
// names, unresolved extends/relationship references, and inheritance
// cycles without producing a bundle (§4.G, §6 `validate`).
func ValidateManifest(m *Manifest) []entities.Issue {
	var issues []entities.Issue

	if len(m.Entities) == 0 {
		issues = append(issues, entities.Issue{
			Severity: entities.IssueSeverityWarning,
			Category: "content",
			Message:  "no entities found in manifest",
		})
	}

	byName := make(map[string]*Entity, len(m.Entities))
	for i := range m.Entities {
		e := &m.Entities[i]
		if e.Name == "" {
			issues = append(issues, entities.Issue{
				Severity: entities.IssueSeverityError,
				Category: "missing_name",
				Message:  "entity is missing a name",
			})
			continue
		}
		if _, dup := byName[e.Name]; dup {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityError,
				Category:  "duplicate_name",
				Message:   fmt.Sprintf("duplicate entity name: %s", e.Name),
				SourceURI: e.Name,
			})
		}
		byName[e.Name] = e
	}

	for _, e := range byName {
		issues = append(issues, validateEntity(e, byName)...)
	}
	issues = append(issues, validateInheritanceGraph(m.Entities, byName)...)

	for _, rel := range m.Relationships {
		issues = append(issues, validateRelationship(rel, byName)...)
	}

	return issues
}

func validateEntity(e *Entity, all map[string]*Entity) []entities.Issue {
	var issues []entities.Issue

	if e.ExtendsEntity != "" {
		if e.ExtendsEntity == e.Name {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityError,
				Category:  "self_inheritance",
				Message:   "entity cannot extend itself",
				SourceURI: e.Name,
			})
		} else if _, ok := all[e.ExtendsEntity]; !ok {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityWarning,
				Category:  "unresolved_reference",
				Message:   fmt.Sprintf("referenced base entity not found: %s", e.ExtendsEntity),
				SourceURI: e.Name,
			})
		}
	}

	seen := map[string]bool{}
	for _, attr := range e.Attributes {
		if attr.Name == "" {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityError,
				Category:  "missing_name",
				Message:   "attribute is missing a name",
				SourceURI: e.Name,
			})
			continue
		}
		if seen[attr.Name] {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityError,
				Category:  "duplicate_name",
				Message:   fmt.Sprintf("duplicate attribute name: %s", attr.Name),
				SourceURI: e.Name,
				Construct: "Attribute[" + attr.Name + "]",
			})
		}
		seen[attr.Name] = true

		if err := entities.ValidateName(attr.Name); err != nil {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityError,
				Category:  "name_grammar",
				Message:   fmt.Sprintf("invalid attribute name: %s", attr.Name),
				SourceURI: e.Name,
				Construct: "Attribute[" + attr.Name + "]",
			})
		}
	}

	return issues
}

func validateRelationship(rel Relationship, byName map[string]*Entity) []entities.Issue {
	var issues []entities.Issue
	if rel.FromEntity == "" || rel.ToEntity == "" {
		issues = append(issues, entities.Issue{
			Severity: entities.IssueSeverityError,
			Category: "missing_reference",
			Message:  "relationship is missing fromEntity or toEntity",
		})
		return issues
	}
	if _, ok := byName[rel.FromEntityName()]; !ok {
		issues = append(issues, entities.Issue{
			Severity:  entities.IssueSeverityWarning,
			Category:  "unresolved_reference",
			Message:   fmt.Sprintf("relationship references unknown entity: %s", rel.FromEntity),
			SourceURI: rel.FromEntity,
		})
	}
	if _, ok := byName[rel.ToEntityName()]; !ok {
		issues = append(issues, entities.Issue{
			Severity:  entities.IssueSeverityWarning,
			Category:  "unresolved_reference",
			Message:   fmt.Sprintf("relationship references unknown entity: %s", rel.ToEntity),
			SourceURI: rel.ToEntity,
		})
	}
	return issues
}

func validateInheritanceGraph(all []Entity, byName map[string]*Entity) []entities.Issue {
	var issues []entities.Issue
	for i := range all {
		e := &all[i]
		path := map[string]bool{}
		var walk func(name string, depth int) bool
		walk = func(name string, depth int) bool {
			if path[name] {
				issues = append(issues, entities.Issue{
					Severity:  entities.IssueSeverityError,
					Category:  "cyclic_inheritance",
					Message:   fmt.Sprintf("inheritance cycle detected at %s", name),
					SourceURI: e.Name,
				})
				return true
			}
			if depth > maxInheritanceDepth {
				issues = append(issues, entities.Issue{
					Severity:  entities.IssueSeverityError,
					Category:  "inheritance_depth",
					Message:   fmt.Sprintf("inheritance depth exceeds %d", maxInheritanceDepth),
					SourceURI: e.Name,
				})
				return true
			}
			path[name] = true
			defer delete(path, name)

			cur, ok := byName[name]
			if !ok || cur.ExtendsEntity == "" {
				return false
			}
			if _, ok := byName[cur.ExtendsEntity]; !ok {
				return false
			}
			return walk(cur.ExtendsEntity, depth+1)
		}
		walk(e.Name, 0)
	}
	return issues
}
