package usecases

import (
	"context"
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// UploadRequest parameterizes the Upload orchestration.
type UploadRequest struct {
	ConvertRequest
	DryRun bool // §12 supplemented feature: build and validate, skip the network call
}

// UploadResponse carries the conversion diagnostics plus, when the
// upload actually ran, the terminal LRO outcome.
type UploadResponse struct {
	ConvertResponse
	Operation *OperationResult // nil when DryRun
}

// Upload converts a source document and, unless DryRun is set, creates
// or updates the matching ontology item in the Fabric workspace (§6
// `upload`, §12 `--dry-run`).
func Upload(ctx context.Context, conv Converter, client FabricClient, req UploadRequest, tok *cancel.Token, log Logger, progress ProgressReporter) (*UploadResponse, error) {
	converted, err := Convert(ctx, conv, req.ConvertRequest, tok, log, progress)
	if err != nil {
		return nil, err
	}

	if req.DryRun {
		log.Info("dry run: skipping upload")
		return &UploadResponse{ConvertResponse: *converted}, nil
	}

	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	name := req.OntologyName
	if name == "" {
		name = entities.SanitizeDisplayName(conv.FormatName() + "_ontology")
	}

	op, err := client.CreateOrUpdate(ctx, name, converted.Bundle, tok, progress)
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", name, err)
	}

	log.WithFields(map[string]any{"status": op.Status, "resource": op.ResourceID}).Info("upload finished")

	return &UploadResponse{ConvertResponse: *converted, Operation: op}, nil
}
