package rdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/typemap"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// exportNamespace is the synthetic base IRI minted for the `usertypes`
// namespace on export. Fabric entity/relationship types carry no source
// IRI once serialized into a bundle (EntityType.SourceURI and
// RelationshipType.SourceURI are excluded from the wire format), so
// ExportTurtle mints a fresh, stable namespace instead of attempting to
// recover the original one.
const exportNamespace = "urn:fabric-ontology:export#"

// ExportTurtle walks a Fabric bundle back into an OWL ontology expressed
// as Turtle, the inverse of rdf.New().Convert (§4.K, supplemented
// feature). Entity types become owl:Class declarations, non-timeseries
// and timeseries properties become owl:DatatypeProperty declarations,
// and relationship types become owl:ObjectProperty declarations.
func ExportTurtle(bundle *entities.Bundle) ([]byte, error) {
	entityTypes, relTypes, err := decodeBundle(bundle)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.EntityType, len(entityTypes))
	for _, e := range entityTypes {
		byID[e.ID] = e
	}

	var buf bytes.Buffer
	writePrefixes(&buf)

	for _, e := range entityTypes {
		writeClass(&buf, e, byID)
	}
	for _, e := range entityTypes {
		writeDatatypeProperties(&buf, e)
	}
	for _, r := range relTypes {
		writeObjectProperty(&buf, r, byID)
	}

	return buf.Bytes(), nil
}

// decodeBundle separates a bundle's parts into entity and relationship
// types, skipping the `.platform` and empty `definition.json` parts
// (§3, §6 wire format).
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

func writePrefixes(buf *bytes.Buffer) {
	fmt.Fprintln(buf, "@prefix owl: <http://www.w3.org/2002/07/owl#> .")
	fmt.Fprintln(buf, "@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .")
	fmt.Fprintln(buf, "@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .")
	fmt.Fprintln(buf, "@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .")
	fmt.Fprintf(buf, "@prefix fo: <%s> .\n\n", exportNamespace)
}

func classIRI(id string) string {
	return fmt.Sprintf("<%s%s>", exportNamespace, id)
}

func writeClass(buf *bytes.Buffer, e *entities.EntityType, byID map[string]*entities.EntityType) {
	fmt.Fprintf(buf, "%s a owl:Class ;\n", classIRI(e.ID))
	fmt.Fprintf(buf, "  rdfs:label %q ;\n", e.Name)
	if e.BaseEntityTypeID != "" {
		if _, ok := byID[e.BaseEntityTypeID]; ok {
			fmt.Fprintf(buf, "  rdfs:subClassOf %s ;\n", classIRI(e.BaseEntityTypeID))
		}
	}
	fmt.Fprintln(buf, "  .")
	fmt.Fprintln(buf)
}

func writeDatatypeProperties(buf *bytes.Buffer, e *entities.EntityType) {
	for _, p := range e.AllProperties() {
		propIRI := fmt.Sprintf("<%s%s>", exportNamespace, p.ID)
		fmt.Fprintf(buf, "%s a owl:DatatypeProperty ;\n", propIRI)
		fmt.Fprintf(buf, "  rdfs:label %q ;\n", p.Name)
		fmt.Fprintf(buf, "  rdfs:domain %s ;\n", classIRI(e.ID))
		fmt.Fprintf(buf, "  rdfs:range <%s> ;\n", typemap.XSDForValueType(p.ValueType))
		fmt.Fprintln(buf, "  .")
		fmt.Fprintln(buf)
	}
}

func writeObjectProperty(buf *bytes.Buffer, r *entities.RelationshipType, byID map[string]*entities.EntityType) {
	propIRI := fmt.Sprintf("<%s%s>", exportNamespace, r.ID)
	fmt.Fprintf(buf, "%s a owl:ObjectProperty ;\n", propIRI)
	fmt.Fprintf(buf, "  rdfs:label %q ;\n", r.Name)
	if _, ok := byID[r.Source.EntityTypeID]; ok {
		fmt.Fprintf(buf, "  rdfs:domain %s ;\n", classIRI(r.Source.EntityTypeID))
	}
	if _, ok := byID[r.Target.EntityTypeID]; ok {
		fmt.Fprintf(buf, "  rdfs:range %s ;\n", classIRI(r.Target.EntityTypeID))
	}
	fmt.Fprintln(buf, "  .")
	fmt.Fprintln(buf)
}
