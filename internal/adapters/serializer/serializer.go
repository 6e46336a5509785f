// Package serializer assembles a converted ontology into the Fabric
// bundle wire format: an ordered list of base64-encoded JSON parts
// (§3, §6).
package serializer

import (
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Serialize builds a Bundle from a conversion result. Required parts are
// `.platform`, an empty `definition.json`, then one part per entity type
// and one per relationship type. Entity type parts are ordered so that
// every parent appears before its children (§6); relationship type
// parts follow in the conversion's original insertion order.
func Serialize(displayName string, result *entities.ConversionResult) (*entities.Bundle, error) {
	ordered, err := topologicalOrder(result.EntityTypes)
	if err != nil {
		return nil, err
	}

	bundle := &entities.Bundle{}

	platformPart, err := entities.NewPlatformPart(entities.SanitizeDisplayName(displayName))
	if err != nil {
		return nil, fmt.Errorf("build .platform part: %w", err)
	}
	bundle.Parts = append(bundle.Parts, platformPart)

	defPart, err := entities.NewEmptyDefinitionPart()
	if err != nil {
		return nil, fmt.Errorf("build definition.json part: %w", err)
	}
	bundle.Parts = append(bundle.Parts, defPart)

	for _, e := range ordered {
		path := fmt.Sprintf("EntityTypes/%s/definition.json", e.ID)
		part, err := entities.NewPart(path, e)
		if err != nil {
			return nil, fmt.Errorf("build entity type part for %s: %w", e.Name, err)
		}
		bundle.Parts = append(bundle.Parts, part)
	}

	for _, r := range result.RelationshipTypes {
		path := fmt.Sprintf("RelationshipTypes/%s/definition.json", r.ID)
		part, err := entities.NewPart(path, r)
		if err != nil {
			return nil, fmt.Errorf("build relationship type part for %s: %w", r.Name, err)
		}
		bundle.Parts = append(bundle.Parts, part)
	}

	return bundle, nil
}

// topologicalOrder runs Kahn's algorithm over the BaseEntityTypeID
// inheritance edges so that every entity type is emitted after its base
// type (§6: "Parent entities must appear before children"). Entity types
// with no inheritance edge, or whose base type is outside this result
// (already uploaded in a prior run), are treated as roots.
func topologicalOrder(ets []*entities.EntityType) ([]*entities.EntityType, error) {
	byID := make(map[string]*entities.EntityType, len(ets))
	for _, e := range ets {
		byID[e.ID] = e
	}

	children := make(map[string][]*entities.EntityType)
	inDegree := make(map[string]int, len(ets))
	for _, e := range ets {
		inDegree[e.ID] = 0
	}
	for _, e := range ets {
		if e.BaseEntityTypeID != "" {
			if _, ok := byID[e.BaseEntityTypeID]; ok {
				children[e.BaseEntityTypeID] = append(children[e.BaseEntityTypeID], e)
				inDegree[e.ID]++
			}
		}
	}

	var queue []*entities.EntityType
	for _, e := range ets {
		if inDegree[e.ID] == 0 {
			queue = append(queue, e)
		}
	}

	var ordered []*entities.EntityType
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		ordered = append(ordered, n)
		for _, c := range children[n.ID] {
			inDegree[c.ID]--
			if inDegree[c.ID] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(ordered) != len(ets) {
		return nil, entities.ErrCyclicInheritance
	}
	return ordered, nil
}
