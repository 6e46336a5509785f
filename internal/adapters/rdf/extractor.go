package rdf

import (
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/typemap"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Extract runs the four ordered phases over a parsed graph: class
// discovery, data-property extraction, object-property extraction, and
// identifier assignment (§4.E, §5). Phase order matters: object
// properties need to know which predicates were already claimed as data
// properties, and identifier assignment needs every entity's final
// property list. Numeric IDs (EntityType.ID, property IDs) are assigned
// afterward by idgen from each entity's SourceURI; this phase only
// wires SourceURI-keyed references.
func Extract(g *Graph, looseInference bool) *entities.ConversionResult {
	result := &entities.ConversionResult{TripleCount: g.Len()}

	byURI := extractClasses(g, result)
	propertyToDomain := extractDataProperties(g, byURI, result)
	extractObjectProperties(g, byURI, propertyToDomain, result, looseInference)
	setIdentifiers(result.EntityTypes)

	return result
}

// extractClasses implements ClassExtractor: owl:Class and rdfs:Class
// declarations, plus any subject of rdfs:subClassOf, become entity
// types. A second pass wires baseEntityTypeId with cycle detection so a
// class that (directly or transitively) subclasses itself is left
// without a base type and recorded as a warning rather than dropped.
func extractClasses(g *Graph, result *entities.ConversionResult) map[string]*entities.EntityType {
	classSet := map[string]bool{}
	for _, t := range g.ByPredicate(RDFType) {
		if t.Object.IsIRI() && (t.Object.Value == OWLClass || t.Object.Value == RDFSClass) && t.Subject.IsIRI() {
			classSet[t.Subject.Value] = true
		}
	}
	for _, t := range g.ByPredicate(RDFSSubClassOf) {
		if t.Subject.IsIRI() {
			classSet[t.Subject.Value] = true
		}
	}

	byURI := make(map[string]*entities.EntityType, len(classSet))
	for classURI := range classSet {
		name := entities.SanitizeIdentifierName(uriToName(classURI))
		e := &entities.EntityType{
			Name:          name,
			Namespace:     "usertypes",
			NamespaceType: entities.NamespaceTypeCustom,
			Visibility:    entities.VisibilityPrivate,
			EntityIDParts: []string{},
			SourceURI:     classURI,
		}
		byURI[classURI] = e
		result.EntityTypes = append(result.EntityTypes, e)
	}

	for classURI, e := range byURI {
		parents := g.Values(IRI(classURI), RDFSSubClassOf)
		for _, p := range parents {
			if !p.IsIRI() {
				continue
			}
			if _, ok := byURI[p.Value]; !ok {
				continue
			}
			if hasInheritanceCycle(g, byURI, classURI, p.Value, map[string]bool{classURI: true}) {
				result.AddWarning(entities.ConversionWarning{
					Severity: entities.SeverityConvertedWithLimitations,
					Construct: "owl:Class",
					Name:      e.Name,
					Message:   "rdfs:subClassOf chain forms a cycle; base type omitted",
					SourceURI: classURI,
				})
				continue
			}
			e.BaseEntityTypeID = p.Value // resolved to a numeric ID later by idgen
			break
		}
	}

	return byURI
}

func hasInheritanceCycle(g *Graph, byURI map[string]*entities.EntityType, start, candidate string, path map[string]bool) bool {
	if path[candidate] {
		return true
	}
	newPath := make(map[string]bool, len(path)+1)
	for k := range path {
		newPath[k] = true
	}
	newPath[candidate] = true

	for _, p := range g.Values(IRI(candidate), RDFSSubClassOf) {
		if !p.IsIRI() {
			continue
		}
		if _, ok := byURI[p.Value]; !ok {
			continue
		}
		if hasInheritanceCycle(g, byURI, start, p.Value, newPath) {
			return true
		}
	}
	return false
}

// collectDataPropertyCandidates implements DataPropertyExtractor's lightweight
// scan: every owl:DatatypeProperty, plus every untyped rdf:Property whose
// rdfs:range is an XSD datatype, is a data-property candidate. This pass
// touches only the predicate index, not each candidate's full
// description, so it stays cheap even on very large graphs (§4.L phase 1
// analogue for properties).
func collectDataPropertyCandidates(g *Graph) map[string]bool {
	dataProps := map[string]bool{}
	for _, t := range g.ByPredicate(RDFType) {
		if t.Object.IsIRI() && t.Object.Value == OWLDatatypeProperty && t.Subject.IsIRI() {
			dataProps[t.Subject.Value] = true
		}
	}
	for _, t := range g.ByPredicate(RDFType) {
		if !(t.Object.IsIRI() && t.Object.Value == RDFProperty && t.Subject.IsIRI()) {
			continue
		}
		ranges := g.Values(t.Subject, RDFSRange)
		if len(ranges) == 0 || !ranges[0].IsIRI() {
			continue
		}
		if _, ok := typemap.XSD[localNameOf(ranges[0].Value)]; ok || strings.HasPrefix(ranges[0].Value, XSDNamespace) {
			dataProps[t.Subject.Value] = true
		}
	}
	return dataProps
}

// processDataProperty resolves one candidate's domain/range/timeseries
// metadata and attaches it to every domain entity type. It is the unit
// of work batched by both the eager and chunked extraction paths.
func processDataProperty(g *Graph, byURI map[string]*entities.EntityType, result *entities.ConversionResult, propertyToDomain map[string]bool, resolver *ClassResolver, propURI string) {
	name := entities.SanitizeIdentifierName(uriToName(propURI))

	var domainURIs []string
	for _, d := range g.Values(IRI(propURI), RDFSDomain) {
		domainURIs = append(domainURIs, resolver.Resolve(d)...)
	}

	valueType := entities.ValueTypeString
	ranges := g.Values(IRI(propURI), RDFSRange)
	if len(ranges) > 0 {
		switch {
		case ranges[0].IsIRI():
			valueType = typemap.MapXSD(ranges[0].Value)
		case ranges[0].IsBlank():
			members := resolveDatatypeUnionMembers(g, ranges[0])
			vt, unmapped := typemap.ResolveUnion(members)
			valueType = vt
			if len(unmapped) > 0 {
				result.AddWarning(entities.ConversionWarning{
					Severity:  entities.SeverityConvertedWithLimitations,
					Construct: "owl:unionOf (datatype)",
					Name:      name,
					Message:   "union contains non-XSD member(s); falling back to String: " + strings.Join(unmapped, ", "),
					SourceURI: propURI,
				})
			}
		}
	}

	isTimeseries := false
	if comment, ok := g.Value(IRI(propURI), RDFSComment); ok && comment.IsLiteral() {
		if strings.Contains(strings.ToLower(comment.Value), "(timeseries)") {
			isTimeseries = true
		}
	}

	prop := &entities.EntityTypeProperty{
		Name:         name,
		ValueType:    valueType,
		IsTimeseries: isTimeseries,
	}

	for _, domainURI := range domainURIs {
		e, ok := byURI[domainURI]
		if !ok {
			continue
		}
		e.AddProperty(&entities.EntityTypeProperty{Name: prop.Name, ValueType: prop.ValueType, IsTimeseries: prop.IsTimeseries})
		propertyToDomain[propURI] = true
	}
}

// extractDataProperties implements DataPropertyExtractor (§4.E.3):
// owl:DatatypeProperty subjects, plus rdf:Property subjects whose
// rdfs:range is an XSD type, become properties appended to every
// resolved domain entity. rdfs:comment containing "(timeseries)" routes
// the property to TimeseriesProperties.
func extractDataProperties(g *Graph, byURI map[string]*entities.EntityType, result *entities.ConversionResult) map[string]bool {
	propertyToDomain := map[string]bool{}
	resolver := NewClassResolver(g)

	for propURI := range collectDataPropertyCandidates(g) {
		processDataProperty(g, byURI, result, propertyToDomain, resolver, propURI)
	}

	return propertyToDomain
}

// resolveDatatypeUnionMembers pulls the raw member IRIs out of an
// owl:unionOf list without mapping them, so typemap.ResolveUnion can
// apply the hierarchy itself.
func resolveDatatypeUnionMembers(g *Graph, unionNode Term) []string {
	listHead, ok := g.Value(unionNode, OWLUnionOf)
	if !ok {
		return nil
	}
	var out []string
	cur := listHead
	steps := 0
	for cur.IsBlank() && steps < 10000 {
		steps++
		first, ok := g.Value(cur, RDFFirst)
		if !ok {
			break
		}
		if first.IsIRI() {
			out = append(out, first.Value)
		}
		rest, ok := g.Value(cur, RDFRest)
		if !ok || (rest.IsIRI() && rest.Value == RDFNil) {
			break
		}
		cur = rest
	}
	return out
}

// objectPropertyContext holds the state shared across every candidate in
// a relationship-batching pass (§4.L phase 3): the usage-based domain/
// range inference tables are expensive to build (one scan of every
// triple) but cheap to consult per candidate, so they are computed once
// up front regardless of whether candidates are then processed eagerly
// or in chunks.
type objectPropertyContext struct {
	resolver      *ClassResolver
	usageSubjects map[string]map[string]bool
	usageObjects  map[string]map[string]bool
}

// collectObjectPropertyCandidates implements ObjectPropertyExtractor's
// scan phase: every owl:ObjectProperty, plus any untyped rdf:Property
// not already claimed as a data property whose range is non-XSD.
func collectObjectPropertyCandidates(g *Graph, propertyToDomain map[string]bool) map[string]bool {
	objectProps := map[string]bool{}
	for _, t := range g.ByPredicate(RDFType) {
		if t.Object.IsIRI() && t.Object.Value == OWLObjectProperty && t.Subject.IsIRI() {
			objectProps[t.Subject.Value] = true
		}
	}
	for _, t := range g.ByPredicate(RDFType) {
		if !(t.Object.IsIRI() && t.Object.Value == RDFProperty && t.Subject.IsIRI()) {
			continue
		}
		if propertyToDomain[t.Subject.Value] {
			continue
		}
		ranges := g.Values(t.Subject, RDFSRange)
		if len(ranges) == 0 || !ranges[0].IsIRI() {
			continue
		}
		rangeStr := ranges[0].Value
		if _, ok := typemap.XSD[localNameOf(rangeStr)]; !ok && !strings.HasPrefix(rangeStr, XSDNamespace) {
			objectProps[t.Subject.Value] = true
		}
	}
	return objectProps
}

func newObjectPropertyContext(g *Graph, byURI map[string]*entities.EntityType, objectProps map[string]bool) *objectPropertyContext {
	ctx := &objectPropertyContext{
		resolver:      NewClassResolver(g),
		usageSubjects: map[string]map[string]bool{},
		usageObjects:  map[string]map[string]bool{},
	}
	for propURI := range objectProps {
		ctx.usageSubjects[propURI] = map[string]bool{}
		ctx.usageObjects[propURI] = map[string]bool{}
	}
	for _, t := range g.Triples {
		if !objectProps[t.Predicate.Value] {
			continue
		}
		for _, ty := range g.Values(t.Subject, RDFType) {
			if ty.IsIRI() {
				if _, ok := byURI[ty.Value]; ok {
					ctx.usageSubjects[t.Predicate.Value][ty.Value] = true
				}
			}
		}
		if t.Object.IsIRI() {
			for _, ty := range g.Values(t.Object, RDFType) {
				if ty.IsIRI() {
					if _, ok := byURI[ty.Value]; ok {
						ctx.usageObjects[t.Predicate.Value][ty.Value] = true
					}
				}
			}
		}
	}
	return ctx
}

// processObjectProperty resolves one candidate's domain/range, and emits
// a relationship type per domain×range pair, or records a skip. When
// looseInference is true, a missing explicit domain or range falls back
// to usage-based inference: taking one subject/object class actually
// used with this predicate in the graph (§9 Open Question,
// loose_inference). Usage is recorded as a set, not counted, so when
// several classes are seen the one taken follows map iteration order
// rather than frequency. This is the unit of work batched by both
// the eager and chunked extraction paths.
func processObjectProperty(g *Graph, byURI map[string]*entities.EntityType, result *entities.ConversionResult, ctx *objectPropertyContext, propURI string, looseInference bool) {
	name := entities.SanitizeIdentifierName(uriToName(propURI))

	var domainURIs, rangeURIs []string
	inferred := false
	for _, d := range g.Values(IRI(propURI), RDFSDomain) {
		domainURIs = append(domainURIs, filterKnown(ctx.resolver.Resolve(d), byURI)...)
	}
	for _, r := range g.Values(IRI(propURI), RDFSRange) {
		rangeURIs = append(rangeURIs, filterKnown(ctx.resolver.Resolve(r), byURI)...)
	}

	if looseInference {
		if len(domainURIs) == 0 {
			if first := firstKey(ctx.usageSubjects[propURI]); first != "" {
				domainURIs = []string{first}
				inferred = true
			}
		}
		if len(rangeURIs) == 0 {
			if first := firstKey(ctx.usageObjects[propURI]); first != "" {
				rangeURIs = []string{first}
				inferred = true
			}
		}
	}

	if len(domainURIs) == 0 || len(rangeURIs) == 0 {
		reason := "missing domain and/or range"
		switch {
		case len(domainURIs) == 0 && len(rangeURIs) != 0:
			reason = "missing domain class"
		case len(domainURIs) != 0 && len(rangeURIs) == 0:
			reason = "missing range class"
		}
		result.AddSkipped("relationship", name, reason, propURI)
		return
	}

	createdAny := false
	for _, d := range domainURIs {
		for _, r := range rangeURIs {
			src, ok1 := byURI[d]
			tgt, ok2 := byURI[r]
			if !ok1 || !ok2 {
				continue
			}
			rel := &entities.RelationshipType{
				Name:          name,
				Namespace:     "usertypes",
				NamespaceType: entities.NamespaceTypeCustom,
				Source:        entities.RelationshipEnd{EntityTypeID: src.SourceURI},
				Target:        entities.RelationshipEnd{EntityTypeID: tgt.SourceURI},
				Inferred:      inferred,
				SourceURI:     propURI + "::" + d + "->" + r,
			}
			result.RelationshipTypes = append(result.RelationshipTypes, rel)
			createdAny = true
		}
	}
	if !createdAny {
		result.AddSkipped("relationship", name, "domain or range entity type not found in converted classes", propURI)
	}
}

// extractObjectProperties implements ObjectPropertyExtractor (§4.E.4):
// owl:ObjectProperty subjects, plus rdf:Property subjects whose
// rdfs:range is a non-XSD URI and which weren't already claimed as data
// properties, become relationships. When looseInference is set, a
// missing explicit domain/range falls back to scanning the graph for
// actual subject/object class usage.
func extractObjectProperties(g *Graph, byURI map[string]*entities.EntityType, propertyToDomain map[string]bool, result *entities.ConversionResult, looseInference bool) {
	objectProps := collectObjectPropertyCandidates(g, propertyToDomain)
	ctx := newObjectPropertyContext(g, byURI, objectProps)
	for propURI := range objectProps {
		processObjectProperty(g, byURI, result, ctx, propURI, looseInference)
	}
}

func filterKnown(uris []string, byURI map[string]*entities.EntityType) []string {
	var out []string
	for _, u := range uris {
		if _, ok := byURI[u]; ok {
			out = append(out, u)
		}
	}
	return out
}

func firstKey(m map[string]bool) string {
	for k := range m {
		return k
	}
	return ""
}

// setIdentifiers implements EntityIdentifierSetter (§4.E): prefer a
// String/BigInt property whose name contains "id" as entityIdParts, a
// String property containing "name" as displayNamePropertyId, falling
// back to the first ID-eligible property when no "id"-named property
// exists. Entities with no eligible property are left with empty
// entityIdParts; Fabric will assign synthetic identity.
func setIdentifiers(ets []*entities.EntityType) {
	for _, e := range ets {
		if len(e.Properties) == 0 {
			continue
		}

		var idProp, nameProp, firstEligible *entities.EntityTypeProperty
		for _, p := range e.Properties {
			lower := strings.ToLower(p.Name)
			if strings.Contains(lower, "id") && p.ValueType.IsIDEligible() {
				idProp = p
			}
			if strings.Contains(lower, "name") && p.ValueType == entities.ValueTypeString {
				nameProp = p
			}
			if firstEligible == nil && p.ValueType.IsIDEligible() {
				firstEligible = p
			}
		}

		switch {
		case idProp != nil:
			e.EntityIDParts = []string{idProp.Name}
			if nameProp != nil {
				e.DisplayNamePropertyID = nameProp.Name
			} else {
				e.DisplayNamePropertyID = idProp.Name
			}
		case firstEligible != nil:
			e.EntityIDParts = []string{firstEligible.Name}
			e.DisplayNamePropertyID = firstEligible.Name
		}
	}
}

// uriToName extracts a readable local name from a URI: the fragment
// after '#', or the last path segment.
func uriToName(uri string) string {
	if i := strings.LastIndexByte(uri, '#'); i >= 0 {
		return uri[i+1:]
	}
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

func localNameOf(uri string) string {
	if i := strings.LastIndexAny(uri, "#/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
