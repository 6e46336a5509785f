package rdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseRDFXML parses the RDF/XML serialization using the striped syntax
// most OWL tooling emits: a top-level rdf:RDF element containing one
// description element per subject, each description's non rdf:about/
// rdf:ID/rdf:nodeID attributes and child elements naming predicates.
func ParseRDFXML(content string) (*Graph, error) {
	g := NewGraph()
	dec := xml.NewDecoder(strings.NewReader(content))

	var nsStack []map[string]string
	curNS := map[string]string{}

	resolve := func(local, ns string) string {
		if ns != "" {
			return ns + local
		}
		return local
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("rdf/xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "RDF" {
			continue
		}
		nsStack = append(nsStack, curNS)

		// Walk the rdf:RDF children: each is one subject description.
		for {
			inner, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("rdf/xml: %w", err)
			}
			if end, ok := inner.(xml.EndElement); ok && end.Name.Local == "RDF" {
				break
			}
			desc, ok := inner.(xml.StartElement)
			if !ok {
				continue
			}
			if err := parseDescription(dec, desc, g, resolve); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func parseDescription(dec *xml.Decoder, desc xml.StartElement, g *Graph, resolve func(string, string) string) error {
	subject := subjectFromAttrs(desc)
	typeIRI := resolve(desc.Name.Local, desc.Name.Space)
	if desc.Name.Local != "Description" {
		g.Add(Triple{Subject: subject, Predicate: IRI(RDFType), Object: IRI(typeIRI)})
	}
	for _, a := range desc.Attr {
		if a.Name.Local == "about" || a.Name.Local == "ID" || a.Name.Local == "nodeID" {
			continue
		}
		predIRI := resolve(a.Name.Local, a.Name.Space)
		g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: PlainLiteral(a.Value)})
	}

	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("rdf/xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			predIRI := resolve(t.Name.Local, t.Name.Space)
			if err := parsePropertyElement(dec, t, subject, predIRI, g, resolve); err != nil {
				return err
			}
			depth--
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
		}
	}
}

func parsePropertyElement(dec *xml.Decoder, el xml.StartElement, subject Term, predIRI string, g *Graph, resolve func(string, string) string) error {
	var resourceAttr string
	for _, a := range el.Attr {
		if a.Name.Local == "resource" {
			resourceAttr = a.Value
		}
	}
	if resourceAttr != "" {
		g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: IRI(resourceAttr)})
		return consumeUntilEnd(dec)
	}

	var charData strings.Builder
	var nestedSubject *Term
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("rdf/xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			charData.Write(t)
		case xml.StartElement:
			s := subjectFromAttrs(t)
			nestedSubject = &s
			typeIRI := resolve(t.Name.Local, t.Name.Space)
			g.Add(Triple{Subject: s, Predicate: IRI(RDFType), Object: IRI(typeIRI)})
			if err := consumeUntilEnd(dec); err != nil {
				return err
			}
		case xml.EndElement:
			if nestedSubject != nil {
				g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: *nestedSubject})
			} else {
				text := strings.TrimSpace(charData.String())
				g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: PlainLiteral(text)})
			}
			return nil
		}
	}
}

func consumeUntilEnd(dec *xml.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

var blankSeqXML int

func subjectFromAttrs(el xml.StartElement) Term {
	for _, a := range el.Attr {
		switch a.Name.Local {
		case "about":
			return IRI(a.Value)
		case "ID":
			return IRI("#" + a.Value)
		case "nodeID":
			return Blank(a.Value)
		}
	}
	blankSeqXML++
	return Blank(fmt.Sprintf("xml%d", blankSeqXML))
}
