package rdf

import (
	"path/filepath"
	"strings"
)

// SourceFormat names one of the serializations this adapter accepts.
type SourceFormat string

const (
	FormatTurtle    SourceFormat = "turtle"
	FormatNTriples  SourceFormat = "ntriples"
	FormatNQuads    SourceFormat = "nquads"
	FormatRDFXML    SourceFormat = "rdfxml"
	FormatJSONLD    SourceFormat = "jsonld"
	FormatTriG      SourceFormat = "trig"
	FormatTriX      SourceFormat = "trix"
	FormatHext      SourceFormat = "hext"
	FormatN3        SourceFormat = "n3"
	FormatRDFa      SourceFormat = "rdfa"
	FormatUnknown   SourceFormat = ""
)

var extensionFormats = map[string]SourceFormat{
	".ttl":    FormatTurtle,
	".turtle": FormatTurtle,
	".nt":     FormatNTriples,
	".nq":     FormatNQuads,
	".rdf":    FormatRDFXML,
	".owl":    FormatRDFXML,
	".xml":    FormatRDFXML,
	".jsonld": FormatJSONLD,
	".json":   FormatJSONLD,
	".trig":   FormatTriG,
	".trix":   FormatTriX,
	".ndjson": FormatHext,
	".n3":     FormatN3,
	".html":   FormatRDFa,
	".xhtml":  FormatRDFa,
	".htm":    FormatRDFa,
}

// DetectFormatFromPath infers a serialization from the file extension.
// It returns FormatUnknown when the extension is not recognized, in
// which case the caller should fall back to DetectFormatFromContent.
func DetectFormatFromPath(path string) SourceFormat {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	return FormatUnknown
}

// DetectFormatFromContent sniffs the first non-blank characters of a
// document. Parse consults it only when DetectFormatFromPath does not
// recognize the extension, so a recognized extension always wins (a
// .json file is parsed as JSON-LD even when it holds Hext).
func DetectFormatFromContent(content string) SourceFormat {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return FormatUnknown
	}
	switch trimmed[0] {
	case '<':
		if strings.Contains(trimmed[:min(len(trimmed), 2048)], "<?xml") || strings.Contains(trimmed, "rdf:RDF") {
			if strings.Contains(trimmed, "<html") || strings.Contains(trimmed, "<!DOCTYPE html") {
				return FormatRDFa
			}
			return FormatRDFXML
		}
		return FormatRDFa
	case '{', '[':
		if looksLikeHext(trimmed) {
			return FormatHext
		}
		return FormatJSONLD
	}
	if strings.Contains(trimmed, "@prefix") || strings.Contains(trimmed, "@base") {
		return FormatTurtle
	}
	return FormatNTriples
}

// looksLikeHext checks for Hext's line-delimited JSON-array shape (a
// first line holding an array of at least 4 elements and no object)
// rather than a JSON-LD object/array document.
func looksLikeHext(content string) bool {
	firstLine := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}
	firstLine = strings.TrimSpace(firstLine)
	return strings.HasPrefix(firstLine, "[") && strings.Count(firstLine, ",") >= 3 && !strings.Contains(firstLine, "{")
}
