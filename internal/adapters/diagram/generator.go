// Package diagram renders a Fabric ontology bundle as a D2 class diagram,
// the enrichment half of the `export` command (§11).
package diagram

import (
	"fmt"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Generator builds D2 diagram source from ontology bundles.
type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

// GenerateClassDiagram renders every entity type as a D2 shape (with its
// base-type edge) and every relationship type as a D2 connection.
func (g *Generator) GenerateClassDiagram(bundle *entities.Bundle) (string, error) {
	entityTypes, relTypes, err := decodeBundle(bundle)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Fabric ontology class diagram\n")
	fmt.Fprintf(&sb, "# %d entity type(s), %d relationship type(s)\n\n", len(entityTypes), len(relTypes))
	sb.WriteString("direction: right\n\n")

	for _, e := range entityTypes {
		writeEntityShape(&sb, e)
	}

	sb.WriteString("# base type relationships\n")
	for _, e := range entityTypes {
		if e.BaseEntityTypeID != "" {
			fmt.Fprintf(&sb, "%s -> %s: \"extends\" {\n  style.stroke-dash: 4\n}\n", e.ID, e.BaseEntityTypeID)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("# relationship types\n")
	for _, r := range relTypes {
		style := ""
		if r.Inferred {
			style = " {\n  style.stroke: \"#9E9E9E\"\n}"
		}
		fmt.Fprintf(&sb, "%s -> %s: \"%s\"%s\n", r.Source.EntityTypeID, r.Target.EntityTypeID, r.Name, style)
	}

	return sb.String(), nil
}

func writeEntityShape(sb *strings.Builder, e *entities.EntityType) {
	fmt.Fprintf(sb, "%s: \"%s\" {\n", e.ID, e.Name)
	for _, p := range e.AllProperties() {
		fmt.Fprintf(sb, "  %s: \"%s\"\n", sanitizeFieldName(p.Name), p.ValueType)
	}
	sb.WriteString("  style { fill: \"#E3F2FD\"\n    stroke: \"#01579B\" }\n")
	sb.WriteString("}\n\n")
}

// sanitizeFieldName strips characters D2's shape-field syntax disallows,
// since property names come straight from source ontologies.
func sanitizeFieldName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// decodeBundle separates a bundle's parts into entity and relationship
// types, skipping the `.platform` and empty `definition.json` parts.
func decodeBundle(bundle *entities.Bundle) ([]*entities.EntityType, []*entities.RelationshipType, error) {
	var entityTypes []*entities.EntityType
	var relTypes []*entities.RelationshipType

	for _, p := range bundle.Parts {
		switch {
		case p.Path == ".platform", p.Path == "definition.json":
			continue
		case strings.HasPrefix(p.Path, "EntityTypes/"):
			var e entities.EntityType
			if err := p.Decode(&e); err != nil {
				return nil, nil, fmt.Errorf("decode entity type part %s: %w", p.Path, err)
			}
			entityTypes = append(entityTypes, &e)
		case strings.HasPrefix(p.Path, "RelationshipTypes/"):
			var r entities.RelationshipType
			if err := p.Decode(&r); err != nil {
				return nil, nil, fmt.Errorf("decode relationship type part %s: %w", p.Path, err)
			}
			relTypes = append(relTypes, &r)
		}
	}

	return entityTypes, relTypes, nil
}
