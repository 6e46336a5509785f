package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/rdf"
	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

const sampleTurtle = `
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix ex: <http://example.org/onto#> .

ex:Asset a owl:Class .
ex:Sensor a owl:Class ;
  rdfs:subClassOf ex:Asset .
ex:name a owl:DatatypeProperty ;
  rdfs:domain ex:Asset ;
  rdfs:range <http://www.w3.org/2001/XMLSchema#string> .
ex:hasSensor a owl:ObjectProperty ;
  rdfs:domain ex:Asset ;
  rdfs:range ex:Sensor .
`

type discardLogger struct{}

func (discardLogger) WithFields(map[string]any) usecases.Logger   { return discardLogger{} }
func (discardLogger) WithContext(context.Context) usecases.Logger { return discardLogger{} }
func (discardLogger) Debug(string)                                {}
func (discardLogger) Info(string)                                 {}
func (discardLogger) Warn(string)                                  {}
func (discardLogger) Error(string, error)                          {}

type discardProgress struct{}

func (discardProgress) Start(string, int) {}
func (discardProgress) Advance(int)       {}
func (discardProgress) Done(string)       {}
func (discardProgress) Message(string)    {}

// TestConvertThenExportTurtleRoundTrip exercises the full pipeline this
// module exists for: parse a Turtle source into a Fabric bundle, then
// export that bundle back to Turtle and confirm the classes and
// properties the source declared all reappear.
func TestConvertThenExportTurtleRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "ontology.ttl")
	require.NoError(t, os.WriteFile(sourcePath, []byte(sampleTurtle), 0o644))

	conv := rdf.New()
	resp, err := usecases.Convert(context.Background(), conv, usecases.ConvertRequest{SourcePath: sourcePath},
		cancel.NewSource().Token(), discardLogger{}, discardProgress{})
	require.NoError(t, err)
	require.NotNil(t, resp.Bundle)
	assert.NotEmpty(t, resp.Bundle.Parts)
	assert.Equal(t, 2, len(resp.Conversion.EntityTypes))
	assert.Equal(t, 1, len(resp.Conversion.RelationshipTypes))

	turtle, err := rdf.ExportTurtle(resp.Bundle)
	require.NoError(t, err)

	out := string(turtle)
	assert.Contains(t, out, "owl:Class")
	assert.Contains(t, out, "Asset")
	assert.Contains(t, out, "Sensor")
	assert.Contains(t, out, "owl:ObjectProperty")
}

// TestCompareDetectsIdenticalSourcesAsEquivalent exercises the §12
// compare_ontologies supplemented feature end to end against two copies
// of the same source document.
func TestCompareDetectsIdenticalSourcesAsEquivalent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.ttl")
	pathB := filepath.Join(dir, "b.ttl")
	require.NoError(t, os.WriteFile(pathA, []byte(sampleTurtle), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte(sampleTurtle), 0o644))

	conv := rdf.New()
	result, err := usecases.Compare(context.Background(), conv, pathA, pathB,
		cancel.NewSource().Token(), discardLogger{}, discardProgress{})
	require.NoError(t, err)
	assert.True(t, result.IsEquivalent)
}
