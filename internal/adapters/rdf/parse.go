package rdf

import "fmt"

// Parse dispatches to the right serialization parser for format,
// detecting it from path/content when format is FormatUnknown.
func Parse(content, path string, format SourceFormat) (*Graph, SourceFormat, error) {
	if format == FormatUnknown {
		format = DetectFormatFromPath(path)
	}
	if format == FormatUnknown {
		format = DetectFormatFromContent(content)
	}

	var (
		g   *Graph
		err error
	)
	switch format {
	case FormatTurtle, FormatN3, FormatTriG:
		g, err = ParseTurtle(content)
	case FormatNTriples:
		g, err = ParseNTriples(content)
	case FormatNQuads:
		g, err = ParseNQuads(content)
	case FormatRDFXML:
		g, err = ParseRDFXML(content)
	case FormatJSONLD:
		g, err = ParseJSONLD(content)
	case FormatHext:
		g, err = ParseHext(content)
	case FormatRDFa:
		g, err = ParseRDFa(content)
	default:
		return nil, format, fmt.Errorf("unrecognized RDF serialization for %q", path)
	}
	if err != nil {
		return nil, format, fmt.Errorf("parse %s: %w", format, err)
	}
	return g, format, nil
}
