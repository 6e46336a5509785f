package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// mockConverter is a test double for Converter keyed by source path, so a
// single instance can return different ConversionResults for pathA vs
// pathB in the same test.
type mockConverter struct {
	format  string
	results map[string]*entities.ConversionResult
	errs    map[string]error
}

func (m *mockConverter) FormatName() string { return m.format }

func (m *mockConverter) Validate(ctx context.Context, sourcePath string, tok *cancel.Token) (*entities.ValidationReport, error) {
	return entities.NewValidationReport(sourcePath, "2026-07-31T00:00:00Z", nil), nil
}

func (m *mockConverter) Convert(ctx context.Context, sourcePath string, tok *cancel.Token, progress ProgressReporter) (*entities.ConversionResult, error) {
	if err, ok := m.errs[sourcePath]; ok {
		return nil, err
	}
	return m.results[sourcePath], nil
}

func (m *mockConverter) ComplianceTable() *entities.ComplianceReport {
	return entities.NewComplianceReport(m.format)
}

// mockLogger is a no-op usecases.Logger test double.
type mockLogger struct{}

func (l *mockLogger) WithFields(map[string]any) Logger       { return l }
func (l *mockLogger) WithContext(context.Context) Logger     { return l }
func (l *mockLogger) Debug(string)                           {}
func (l *mockLogger) Info(string)                            {}
func (l *mockLogger) Warn(string)                             {}
func (l *mockLogger) Error(string, error)                     {}

// mockProgress is a no-op usecases.ProgressReporter test double.
type mockProgress struct{}

func (p *mockProgress) Start(string, int)  {}
func (p *mockProgress) Advance(int)        {}
func (p *mockProgress) Done(string)        {}
func (p *mockProgress) Message(string)     {}

func entityType(t *testing.T, id, name string) *entities.EntityType {
	t.Helper()
	e, err := entities.NewEntityType(id, name, "usertypes")
	if err != nil {
		t.Fatalf("NewEntityType: %v", err)
	}
	return e
}

func TestCompareEquivalentSources(t *testing.T) {
	shared := entityType(t, "asset-1", "Asset")
	conv := &mockConverter{
		format: "rdf",
		results: map[string]*entities.ConversionResult{
			"a.ttl": {EntityTypes: []*entities.EntityType{shared}},
			"b.ttl": {EntityTypes: []*entities.EntityType{shared}},
		},
	}

	diff, err := Compare(context.Background(), conv, "a.ttl", "b.ttl", cancel.NewSource().Token(), &mockLogger{}, &mockProgress{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !diff.IsEquivalent {
		t.Errorf("expected equivalent ontologies, got %+v", diff)
	}
}

func TestCompareDivergentSources(t *testing.T) {
	conv := &mockConverter{
		format: "rdf",
		results: map[string]*entities.ConversionResult{
			"a.ttl": {EntityTypes: []*entities.EntityType{entityType(t, "asset-1", "Asset")}},
			"b.ttl": {EntityTypes: []*entities.EntityType{entityType(t, "sensor-1", "Sensor")}},
		},
	}

	diff, err := Compare(context.Background(), conv, "a.ttl", "b.ttl", cancel.NewSource().Token(), &mockLogger{}, &mockProgress{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if diff.IsEquivalent {
		t.Fatal("expected non-equivalent ontologies")
	}
	if len(diff.EntityTypes.OnlyInFirst) != 1 || diff.EntityTypes.OnlyInFirst[0] != "Asset" {
		t.Errorf("expected Asset only in first, got %+v", diff.EntityTypes)
	}
	if len(diff.EntityTypes.OnlyInSecond) != 1 || diff.EntityTypes.OnlyInSecond[0] != "Sensor" {
		t.Errorf("expected Sensor only in second, got %+v", diff.EntityTypes)
	}
}

func TestCompareFirstConvertError(t *testing.T) {
	wantErr := errors.New("boom")
	conv := &mockConverter{
		format: "rdf",
		errs:   map[string]error{"a.ttl": wantErr},
	}

	_, err := Compare(context.Background(), conv, "a.ttl", "b.ttl", cancel.NewSource().Token(), &mockLogger{}, &mockProgress{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCompareCancelledBeforeSecondConvert(t *testing.T) {
	src := cancel.NewSource()
	conv := &mockConverter{
		format: "rdf",
		results: map[string]*entities.ConversionResult{
			"a.ttl": {},
			"b.ttl": {},
		},
	}
	src.Cancel()

	_, err := Compare(context.Background(), conv, "a.ttl", "b.ttl", src.Token(), &mockLogger{}, &mockProgress{})
	if !errors.Is(err, cancel.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}
