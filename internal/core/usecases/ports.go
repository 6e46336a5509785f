// Package usecases defines the ports this module's core orchestrations
// depend on and the orchestrations themselves. Adapters under
// internal/adapters/* implement these ports; nothing in this package
// imports an adapter.
package usecases

import (
	"context"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Converter is implemented once per source format (rdf, dtdl, cdm). The
// CLI boundary selects exactly one Converter per invocation by detected
// or declared format name (§9).
type Converter interface {
	// FormatName identifies the converter for logging and compliance
	// report tagging ("rdf", "dtdl", "cdm").
	FormatName() string

	// Validate parses sourcePath and reports issues without producing a
	// bundle or touching the network (§6 `validate`).
	Validate(ctx context.Context, sourcePath string, tok *cancel.Token) (*entities.ValidationReport, error)

	// Convert parses sourcePath and produces the intermediate conversion
	// result consumed by the serializer (§3-§5).
	Convert(ctx context.Context, sourcePath string, tok *cancel.Token, progress ProgressReporter) (*entities.ConversionResult, error)

	// ComplianceTable returns the static per-construct support table for
	// this format (§4.I), independent of any particular source document.
	ComplianceTable() *entities.ComplianceReport
}

// Logger is the structured logging port every use case and adapter
// depends on (§10).
type Logger interface {
	WithFields(fields map[string]any) Logger
	WithContext(ctx context.Context) Logger
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
}

// ProgressReporter surfaces incremental progress during a long-running
// local operation (streaming conversion phases, §4.L) or a remote
// long-running-operation poll (§4.M).
type ProgressReporter interface {
	// Start begins a named phase with a known or unknown (-1) total.
	Start(phase string, total int)
	// Advance reports n additional units of work completed in the
	// current phase.
	Advance(n int)
	// Done closes out the current phase.
	Done(phase string)
	// Message surfaces an informational line outside of phase/progress
	// tracking (e.g. a circuit breaker state transition).
	Message(msg string)
}

// OperationStatus is the state of a long-running Fabric operation (§4.M).
type OperationStatus string

const (
	OperationPending   OperationStatus = "Pending"
	OperationRunning   OperationStatus = "Running"
	OperationSucceeded OperationStatus = "Succeeded"
	OperationFailed    OperationStatus = "Failed"
	OperationTimedOut  OperationStatus = "TimedOut"
	OperationCancelled OperationStatus = "Cancelled"
)

// OperationResult is the terminal outcome of an LRO poll.
type OperationResult struct {
	Status       OperationStatus
	ResourceID   string
	ErrorMessage string
}

// FabricClient is the resilient REST API client port (§4.M, §6). Every
// method is expected to apply the chained-auth/rate-limit/circuit-breaker/
// retry pipeline internally; callers only see the outcome.
type FabricClient interface {
	// List returns the ontology items of a single list response page;
	// continuation links are not followed.
	List(ctx context.Context) ([]OntologyItem, error)

	// FindByName scans the items List returns for an exact display-name
	// match (§12 supplemented feature).
	FindByName(ctx context.Context, name string) (*OntologyItem, error)

	// Get fetches one ontology item's metadata by ID.
	Get(ctx context.Context, id string) (*OntologyItem, error)

	// GetDefinition fetches the full bundle definition for an ontology
	// item.
	GetDefinition(ctx context.Context, id string) (*entities.Bundle, error)

	// Create creates a new, empty ontology item and returns its ID.
	Create(ctx context.Context, displayName string) (string, error)

	// UpdateDefinition uploads a bundle as the definition of an existing
	// ontology item, polling the resulting LRO to completion.
	UpdateDefinition(ctx context.Context, id string, bundle *entities.Bundle, tok *cancel.Token, progress ProgressReporter) (*OperationResult, error)

	// UpdateMetadata renames an ontology item.
	UpdateMetadata(ctx context.Context, id, displayName string) error

	// Delete removes an ontology item.
	Delete(ctx context.Context, id string) error

	// CreateOrUpdate is the §6 `upload` convenience: find-by-name, create
	// if absent, then UpdateDefinition.
	CreateOrUpdate(ctx context.Context, displayName string, bundle *entities.Bundle, tok *cancel.Token, progress ProgressReporter) (*OperationResult, error)
}

// OntologyItem is the metadata shape returned by List/Get/FindByName.
type OntologyItem struct {
	ID          string
	DisplayName string
	WorkspaceID string
}
