package rdf

// Well-known vocabulary IRIs used throughout class resolution and
// property extraction (§4.E).
const (
	RDFType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFFirst      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	RDFRest       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	RDFNil        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
	RDFProperty   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Property"

	RDFSClass       = "http://www.w3.org/2000/01/rdf-schema#Class"
	RDFSSubClassOf  = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	RDFSLabel       = "http://www.w3.org/2000/01/rdf-schema#label"
	RDFSComment     = "http://www.w3.org/2000/01/rdf-schema#comment"
	RDFSDomain      = "http://www.w3.org/2000/01/rdf-schema#domain"
	RDFSRange       = "http://www.w3.org/2000/01/rdf-schema#range"

	OWLClass              = "http://www.w3.org/2002/07/owl#Class"
	OWLDatatypeProperty    = "http://www.w3.org/2002/07/owl#DatatypeProperty"
	OWLObjectProperty      = "http://www.w3.org/2002/07/owl#ObjectProperty"
	OWLFunctionalProperty  = "http://www.w3.org/2002/07/owl#FunctionalProperty"
	OWLTransitiveProperty  = "http://www.w3.org/2002/07/owl#TransitiveProperty"
	OWLSymmetricProperty   = "http://www.w3.org/2002/07/owl#SymmetricProperty"
	OWLInverseOf           = "http://www.w3.org/2002/07/owl#inverseOf"
	OWLEquivalentClass     = "http://www.w3.org/2002/07/owl#equivalentClass"
	OWLImports             = "http://www.w3.org/2002/07/owl#imports"
	OWLRestriction         = "http://www.w3.org/2002/07/owl#Restriction"
	OWLUnionOf             = "http://www.w3.org/2002/07/owl#unionOf"
	OWLIntersectionOf      = "http://www.w3.org/2002/07/owl#intersectionOf"
	OWLComplementOf        = "http://www.w3.org/2002/07/owl#complementOf"
	OWLOneOf               = "http://www.w3.org/2002/07/owl#oneOf"
	OWLOnClass             = "http://www.w3.org/2002/07/owl#onClass"
	OWLSomeValuesFrom      = "http://www.w3.org/2002/07/owl#someValuesFrom"
	OWLAllValuesFrom       = "http://www.w3.org/2002/07/owl#allValuesFrom"
	OWLOnProperty          = "http://www.w3.org/2002/07/owl#onProperty"

	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// CommonPrefixes seeds the @prefix table every Turtle/TriG/N3 parse
// starts with, matching the well-known prefixes any OWL ontology author
// relies on being predefined.
var CommonPrefixes = map[string]string{
	"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	"owl":  "http://www.w3.org/2002/07/owl#",
	"xsd":  XSDNamespace,
}
