package rdf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseHext parses the Hextuples line-delimited JSON format: each line
// is a 6-element JSON array `[subject, predicate, value, datatypeOrIRI,
// language, graph]`.
func ParseHext(content string) (*Graph, error) {
	g := NewGraph()
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var fields []any
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			return nil, fmt.Errorf("hext line %d: %w", lineNo, err)
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("hext line %d: expected at least 4 fields", lineNo)
		}
		str := func(i int) string {
			if i >= len(fields) || fields[i] == nil {
				return ""
			}
			s, _ := fields[i].(string)
			return s
		}

		subject := hextTerm(str(0))
		predicate := IRI(str(1))
		value := str(2)
		datatypeOrIRI := str(3)
		lang := str(4)

		var object Term
		switch datatypeOrIRI {
		case "globalId", "":
			object = IRI(value)
		case "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString":
			object = LangLiteral(value, lang)
		default:
			object = TypedLiteral(value, datatypeOrIRI)
		}

		g.Add(Triple{Subject: subject, Predicate: predicate, Object: object, Graph: str(5)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func hextTerm(s string) Term {
	if strings.HasPrefix(s, "_:") {
		return Blank(strings.TrimPrefix(s, "_:"))
	}
	return IRI(s)
}
