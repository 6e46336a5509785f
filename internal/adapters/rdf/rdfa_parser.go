package rdf

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseRDFa extracts RDFa-Lite triples embedded in an HTML/XHTML
// document: elements carrying `typeof` introduce a subject (the element
// itself, or `about`/`resource` when present), and a `property`
// attribute on a descendant names a predicate whose object is either
// the element's `content`/`href`/`src`/`resource` attribute or its text
// content.
func ParseRDFa(content string) (*Graph, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("rdfa: %w", err)
	}

	g := NewGraph()
	var blankSeq int
	newBlank := func() Term {
		blankSeq++
		return Blank(fmt.Sprintf("rb%d", blankSeq))
	}

	var vocab string
	doc.Find("[vocab]").First().Each(func(_ int, s *goquery.Selection) {
		vocab, _ = s.Attr("vocab")
	})
	expand := func(term string) string {
		if strings.Contains(term, "://") {
			return term
		}
		return vocab + term
	}

	doc.Find("[typeof]").Each(func(_ int, s *goquery.Selection) {
		typeofAttr, _ := s.Attr("typeof")
		subject := subjectForRDFaNode(s, newBlank)

		for _, t := range strings.Fields(typeofAttr) {
			g.Add(Triple{Subject: subject, Predicate: IRI(RDFType), Object: IRI(expand(t))})
		}

		s.Find("[property]").Each(func(_ int, prop *goquery.Selection) {
			if propAncestorTypeof(prop) != nil && propAncestorTypeof(prop) != s.Get(0) {
				return // belongs to a nested typeof subject, not this one
			}
			propAttr, _ := prop.Attr("property")
			predIRI := expand(propAttr)

			if content, ok := prop.Attr("content"); ok {
				g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: PlainLiteral(content)})
				return
			}
			if href, ok := prop.Attr("href"); ok {
				g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: IRI(href)})
				return
			}
			if src, ok := prop.Attr("src"); ok {
				g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: IRI(src)})
				return
			}
			if resource, ok := prop.Attr("resource"); ok {
				g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: IRI(resource)})
				return
			}
			text := strings.TrimSpace(prop.Text())
			g.Add(Triple{Subject: subject, Predicate: IRI(predIRI), Object: PlainLiteral(text)})
		})
	})

	return g, nil
}

func subjectForRDFaNode(s *goquery.Selection, newBlank func() Term) Term {
	if about, ok := s.Attr("about"); ok {
		return IRI(about)
	}
	if resource, ok := s.Attr("resource"); ok {
		return IRI(resource)
	}
	if id, ok := s.Attr("id"); ok {
		return IRI("#" + id)
	}
	return newBlank()
}

// propAncestorTypeof returns the nearest ancestor-or-self DOM node
// carrying `typeof`, used to avoid attaching a nested subject's own
// properties to its containing subject.
func propAncestorTypeof(s *goquery.Selection) any {
	anc := s.Closest("[typeof]")
	if anc.Length() == 0 {
		return nil
	}
	return anc.Get(0)
}
