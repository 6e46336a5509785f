package rdf

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSONLD parses a JSON-LD document (a single object, or an array,
// or a top-level `@graph`) using the document's own `@context` to expand
// compact IRIs. It supports the object shapes DTDL/OWL-adjacent JSON-LD
// ontology exports actually use: `@id`, `@type`, and property values
// that are either literals, `{"@id": ...}` node references, or arrays of
// either.
func ParseJSONLD(content string) (*Graph, error) {
	var raw any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("jsonld: %w", err)
	}

	g := NewGraph()
	ctx := map[string]string{}
	var blankSeq int
	newBlank := func() Term {
		blankSeq++
		return Blank(fmt.Sprintf("jb%d", blankSeq))
	}

	var nodes []map[string]any
	switch v := raw.(type) {
	case map[string]any:
		if c, ok := v["@context"].(map[string]any); ok {
			for k, val := range c {
				if s, ok := val.(string); ok {
					ctx[k] = s
				}
			}
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, n := range graph {
				if m, ok := n.(map[string]any); ok {
					nodes = append(nodes, m)
				}
			}
		} else {
			nodes = append(nodes, v)
		}
	case []any:
		for _, n := range v {
			if m, ok := n.(map[string]any); ok {
				nodes = append(nodes, m)
			}
		}
	default:
		return nil, fmt.Errorf("jsonld: unsupported top-level shape")
	}

	expand := func(term string) string {
		if strings.Contains(term, "://") || strings.HasPrefix(term, "@") {
			return term
		}
		if i := strings.IndexByte(term, ':'); i >= 0 {
			prefix, local := term[:i], term[i+1:]
			if ns, ok := ctx[prefix]; ok {
				return ns + local
			}
		}
		if ns, ok := ctx[term]; ok {
			return ns
		}
		return term
	}

	var walk func(node map[string]any) Term
	walk = func(node map[string]any) Term {
		var subject Term
		if id, ok := node["@id"].(string); ok && id != "" {
			subject = IRI(expand(id))
		} else {
			subject = newBlank()
		}

		switch t := node["@type"].(type) {
		case string:
			g.Add(Triple{Subject: subject, Predicate: IRI(RDFType), Object: IRI(expand(t))})
		case []any:
			for _, ty := range t {
				if s, ok := ty.(string); ok {
					g.Add(Triple{Subject: subject, Predicate: IRI(RDFType), Object: IRI(expand(s))})
				}
			}
		}

		for key, val := range node {
			if key == "@id" || key == "@type" || key == "@context" {
				continue
			}
			predIRI := expand(key)
			addJSONLDValue(g, subject, predIRI, val, expand, walk)
		}
		return subject
	}

	for _, n := range nodes {
		walk(n)
	}
	return g, nil
}

func addJSONLDValue(g *Graph, subject Term, predIRI string, val any, expand func(string) string, walk func(map[string]any) Term) {
	switch v := val.(type) {
	case string:
		g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: PlainLiteral(v)})
	case float64, bool:
		g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: PlainLiteral(fmt.Sprintf("%v", v))})
	case map[string]any:
		if id, ok := v["@id"].(string); ok && len(v) == 1 {
			g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: IRI(expand(id))})
			return
		}
		if lit, ok := v["@value"]; ok {
			if s, ok := lit.(string); ok {
				if dt, ok := v["@type"].(string); ok {
					g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: TypedLiteral(s, expand(dt))})
					return
				}
				if lang, ok := v["@language"].(string); ok {
					g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: LangLiteral(s, lang)})
					return
				}
			}
			g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: PlainLiteral(fmt.Sprintf("%v", lit))})
			return
		}
		nested := walk(v)
		g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: nested})
	case []any:
		for _, item := range v {
			addJSONLDValue(g, subject, predIRI, item, expand, walk)
		}
	}
}
