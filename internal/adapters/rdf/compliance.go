package rdf

import "github.com/madstone-tech/fabric-ontology/internal/core/entities"

// complianceLevels is the static RDF/OWL construct support table (§4.I,
// §7 compliance table enumeration).
var complianceLevels = map[string]entities.SupportLevel{
	OWLClass:              entities.SupportFull,
	RDFSClass:              entities.SupportFull,
	OWLDatatypeProperty:    entities.SupportFull,
	OWLObjectProperty:      entities.SupportFull,
	RDFProperty:            entities.SupportFull,
	RDFSSubClassOf:         entities.SupportFull,
	OWLRestriction:         entities.SupportNone,
	OWLFunctionalProperty:  entities.SupportNone,
	OWLTransitiveProperty:  entities.SupportNone,
	OWLSymmetricProperty:   entities.SupportNone,
	OWLInverseOf:           entities.SupportNone,
	OWLEquivalentClass:     entities.SupportMetadata,
	OWLImports:             entities.SupportNone,
}

var complianceMessages = map[string]string{
	OWLClass:              "converted to an EntityType",
	RDFSClass:              "converted to an EntityType",
	OWLDatatypeProperty:    "converted to an EntityTypeProperty",
	OWLObjectProperty:      "converted to a RelationshipType",
	RDFProperty:            "converted via XSD-range/non-XSD-range inference",
	RDFSSubClassOf:         "converted to baseEntityTypeId",
	OWLRestriction:         "no Fabric equivalent for class restrictions",
	OWLFunctionalProperty:  "cardinality constraints have no Fabric equivalent",
	OWLTransitiveProperty:  "transitivity has no Fabric equivalent",
	OWLSymmetricProperty:   "symmetry has no Fabric equivalent",
	OWLInverseOf:           "inverse relationship pairing has no Fabric equivalent",
	OWLEquivalentClass:     "recorded as metadata only; classes are not merged",
	OWLImports:             "imported ontologies are not dereferenced",
}

// BuildComplianceReport scans g for every construct in the static table
// and tallies one ComplianceEntry per occurrence found (§4.I).
func BuildComplianceReport(g *Graph) *entities.ComplianceReport {
	report := entities.NewComplianceReport("rdf")

	for _, t := range g.ByPredicate(RDFType) {
		if !t.Object.IsIRI() {
			continue
		}
		level, ok := complianceLevels[t.Object.Value]
		if !ok {
			continue
		}
		report.Add(entities.ComplianceEntry{
			Construct: t.Object.Value,
			Name:      uriToName(t.Subject.Value),
			Level:     level,
			Message:   complianceMessages[t.Object.Value],
			SourceURI: t.Subject.Value,
		})
	}

	for _, pred := range []string{RDFSSubClassOf, OWLInverseOf, OWLEquivalentClass, OWLImports} {
		level, ok := complianceLevels[pred]
		if !ok {
			continue
		}
		for _, t := range g.ByPredicate(pred) {
			report.Add(entities.ComplianceEntry{
				Construct: pred,
				Name:      uriToName(t.Subject.Value),
				Level:     level,
				Message:   complianceMessages[pred],
				SourceURI: t.Subject.Value,
			})
		}
	}

	return report
}
