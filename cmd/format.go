package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/cdm"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/dtdl"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/rdf"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// detectFormat infers which converter to use for path when --format is
// not given explicitly (§9 Open Question, format_detection). RDF
// serializations resolve on extension alone; the ".json" extension is
// shared by DTDL interfaces and CDM manifests, so it falls through to a
// content sniff.
func detectFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ttl", ".turtle", ".nt", ".nq", ".nquads", ".trig", ".trix",
		".n3", ".owl", ".rdf", ".xml", ".hext", ".html", ".xhtml", ".htm":
		return "rdf", nil
	case ".json":
		return detectJSONFormat(path)
	default:
		return "", fmt.Errorf("cannot infer ontology format from extension %q, pass --format", ext)
	}
}

// detectJSONFormat distinguishes a DTDL interface document from a CDM
// manifest or entity schema, both of which are plain JSON. CDM manifests
// carry a "definitions" array and commonly a ".manifest.cdm.json" or
// ".cdm.json" filename convention (§4.G); DTDL interfaces carry an
// "@type"/"@context" JSON-LD envelope (§4.F). Anything that matches
// neither shape defaults to DTDL, the more common bare-JSON case in
// practice.
func detectJSONFormat(path string) (string, error) {
	if strings.Contains(strings.ToLower(path), ".cdm.json") || strings.Contains(strings.ToLower(path), "manifest") {
		return "cdm", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var probe struct {
		Context     any `json:"@context"`
		Type        any `json:"@type"`
		Definitions any `json:"definitions"`
	}
	if err := json.Unmarshal(data, &probe); err == nil {
		if probe.Definitions != nil {
			return "cdm", nil
		}
		if probe.Context != nil || probe.Type != nil {
			return "dtdl", nil
		}
	}
	return "dtdl", nil
}

// converterFor builds the usecases.Converter for a named format.
func converterFor(format string) (usecases.Converter, error) {
	switch format {
	case "rdf":
		return rdf.New(), nil
	case "dtdl":
		return dtdl.New(), nil
	case "cdm":
		return cdm.New(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected rdf, dtdl, or cdm)", format)
	}
}

// resolveConverter builds the converter named by formatFlag, or infers
// one from sourcePath when formatFlag is empty.
func resolveConverter(formatFlag, sourcePath string) (usecases.Converter, error) {
	format := formatFlag
	if format == "" {
		detected, err := detectFormat(sourcePath)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	return converterFor(format)
}
