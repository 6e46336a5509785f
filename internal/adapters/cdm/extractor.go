package cdm

import (
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/typemap"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Extractor converts a parsed CDM Manifest into the format-agnostic
// intermediate model (§4.G, §4.H).
type Extractor struct {
	Namespace          string
	FlattenInheritance bool

	entityByName map[string]*Entity
}

// NewExtractor creates an Extractor with inheritance flattening enabled.
func NewExtractor() *Extractor {
	return &Extractor{Namespace: "usertypes", FlattenInheritance: true}
}

// Extract converts every entity and relationship in m. Entity and
// property cross-references are left as name-keyed placeholders
// (entity name in SourceURI-adjacent fields, property name in
// DisplayNamePropertyID/EntityIDParts) for idgen.AssignIDs to resolve
// once numeric IDs are assigned, the same convention the rdf and dtdl
// extractors follow.
func (ex *Extractor) Extract(m *Manifest) *entities.ConversionResult {
	result := &entities.ConversionResult{}

	ex.entityByName = make(map[string]*Entity, len(m.Entities))
	for i := range m.Entities {
		ex.entityByName[m.Entities[i].Name] = &m.Entities[i]
	}

	for i := range m.Entities {
		e := &m.Entities[i]
		entityType, warnings, err := ex.convertEntity(e)
		if err != nil {
			result.AddSkipped("entity", e.Name, err.Error(), e.Name)
			continue
		}
		result.EntityTypes = append(result.EntityTypes, entityType)
		for _, w := range warnings {
			result.AddWarning(w)
		}
	}

	for _, rel := range m.Relationships {
		relType, err := ex.convertRelationship(rel)
		if err != nil {
			result.AddSkipped("relationship", rel.RelationshipName(), err.Error(),
				fmt.Sprintf("%s -> %s", rel.FromEntity, rel.ToEntity))
			continue
		}
		result.RelationshipTypes = append(result.RelationshipTypes, relType)
	}

	return result
}

func (ex *Extractor) convertEntity(e *Entity) (*entities.EntityType, []entities.ConversionWarning, error) {
	if e.Name == "" {
		return nil, nil, fmt.Errorf("entity has no name")
	}

	attrs := ex.collectAttributes(e, map[string]bool{})

	entityType := &entities.EntityType{
		Name:          e.Name,
		Namespace:     ex.Namespace,
		NamespaceType: entities.NamespaceTypeCustom,
		Visibility:    entities.VisibilityPrivate,
		EntityIDParts: []string{},
		SourceURI:     e.Name,
	}

	var warnings []entities.ConversionWarning
	for _, attr := range attrs {
		if attr.IsEntityReference() {
			warnings = append(warnings, entities.ConversionWarning{
				Severity:  entities.SeverityConvertedWithLimitations,
				Construct: "Attribute",
				Name:      attr.Name,
				Message:   "entity/entityReference attribute is not converted to a property; it is expected to surface as a relationship",
				SourceURI: e.Name,
			})
			continue
		}

		prop := &entities.EntityTypeProperty{
			Name:      attr.Name,
			ValueType: typemap.MapCDM(attr.DataType),
		}
		entityType.AddProperty(prop)

		if attr.IsPrimaryKey() {
			entityType.EntityIDParts = append(entityType.EntityIDParts, prop.Name)
		}
		if attr.IsDisplayName() && entityType.DisplayNamePropertyID == "" {
			entityType.DisplayNamePropertyID = prop.Name
		}
	}

	if e.ExtendsEntity != "" && !ex.FlattenInheritance {
		entityType.BaseEntityTypeID = e.ExtendsEntity
	}

	return entityType, warnings, nil
}

// collectAttributes gathers an entity's attributes including inherited
// ones when FlattenInheritance is set: ancestor attributes first, with
// the entity's own attributes overriding same-named inherited ones
// (§4.G). visited guards against inheritance cycles the source data
// might contain, which the CDM spec itself doesn't bound.
func (ex *Extractor) collectAttributes(e *Entity, visited map[string]bool) []Attribute {
	if !ex.FlattenInheritance {
		return e.Attributes
	}
	if visited[e.Name] {
		return nil
	}
	visited[e.Name] = true

	var all []Attribute
	seen := map[string]int{}

	if e.ExtendsEntity != "" {
		if base, ok := ex.entityByName[e.ExtendsEntity]; ok {
			for _, attr := range ex.collectAttributes(base, visited) {
				if _, dup := seen[attr.Name]; !dup {
					seen[attr.Name] = len(all)
					all = append(all, attr)
				}
			}
		}
	}

	for _, attr := range e.Attributes {
		if idx, dup := seen[attr.Name]; dup {
			all[idx] = attr
			continue
		}
		seen[attr.Name] = len(all)
		all = append(all, attr)
	}

	return all
}

func (ex *Extractor) convertRelationship(rel Relationship) (*entities.RelationshipType, error) {
	fromName := rel.FromEntityName()
	toName := rel.ToEntityName()
	if fromName == "" || toName == "" {
		return nil, fmt.Errorf("relationship references unknown entities: %q -> %q", rel.FromEntity, rel.ToEntity)
	}

	return &entities.RelationshipType{
		Name:          rel.RelationshipName(),
		Namespace:     ex.Namespace,
		NamespaceType: entities.NamespaceTypeCustom,
		Source:        entities.RelationshipEnd{EntityTypeID: fromName},
		Target:        entities.RelationshipEnd{EntityTypeID: toName},
		SourceURI:     fmt.Sprintf("%s -> %s", rel.FromEntity, rel.ToEntity),
	}, nil
}
