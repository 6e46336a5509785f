package rdf

// ClassResolver resolves an rdfs:domain/rdfs:range node (a plain class
// IRI, or an owl:unionOf/intersectionOf/complementOf/oneOf list, or a
// restriction) to the set of concrete class IRIs it denotes (§4.E). It
// tracks a visited-set to break cycles and caps recursion at depth 10,
// and walks RDF list cells (rdf:first/rdf:rest) iteratively with its own
// cycle detection so a malformed or adversarial list can't blow the
// stack.
type ClassResolver struct {
	graph *Graph
}

func NewClassResolver(g *Graph) *ClassResolver {
	return &ClassResolver{graph: g}
}

const maxResolveDepth = 10

// Resolve returns every concrete class IRI denoted by node.
func (r *ClassResolver) Resolve(node Term) []string {
	visited := map[string]bool{}
	return r.resolve(node, visited, 0)
}

func (r *ClassResolver) resolve(node Term, visited map[string]bool, depth int) []string {
	if depth > maxResolveDepth {
		return nil
	}
	if node.IsIRI() {
		return []string{node.Value}
	}
	if !node.IsBlank() {
		return nil
	}

	key := "_:" + node.Value
	if visited[key] {
		return nil
	}
	visited[key] = true

	if union, ok := r.graph.Value(node, OWLUnionOf); ok {
		return r.resolveList(union, visited, depth+1)
	}
	if inter, ok := r.graph.Value(node, OWLIntersectionOf); ok {
		return r.resolveList(inter, visited, depth+1)
	}
	if comp, ok := r.graph.Value(node, OWLComplementOf); ok {
		return r.resolve(comp, visited, depth+1)
	}
	if one, ok := r.graph.Value(node, OWLOneOf); ok {
		return r.resolveList(one, visited, depth+1)
	}
	if onClass, ok := r.graph.Value(node, OWLOnClass); ok {
		return r.resolve(onClass, visited, depth+1)
	}
	if some, ok := r.graph.Value(node, OWLSomeValuesFrom); ok {
		return r.resolve(some, visited, depth+1)
	}
	if all, ok := r.graph.Value(node, OWLAllValuesFrom); ok {
		return r.resolve(all, visited, depth+1)
	}
	return nil
}

// resolveList walks an rdf:first/rdf:rest chain iteratively, resolving
// each element and flattening the results, with a separate visited-set
// for list cells so a cell that points back into itself terminates
// instead of looping forever.
func (r *ClassResolver) resolveList(head Term, visited map[string]bool, depth int) []string {
	var out []string
	listVisited := map[string]bool{}
	cur := head
	steps := 0
	for cur.IsBlank() || (cur.IsIRI() && cur.Value != RDFNil) {
		if cur.IsIRI() && cur.Value == RDFNil {
			break
		}
		key := "_:" + cur.Value
		if cur.IsIRI() {
			key = cur.Value
		}
		if listVisited[key] || steps > 10000 {
			break
		}
		listVisited[key] = true
		steps++

		first, hasFirst := r.graph.Value(cur, RDFFirst)
		if !hasFirst {
			break
		}
		out = append(out, r.resolve(first, visited, depth+1)...)

		rest, hasRest := r.graph.Value(cur, RDFRest)
		if !hasRest {
			break
		}
		cur = rest
	}
	return out
}
