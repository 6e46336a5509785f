package usecases

import (
	"context"
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/idgen"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/limits"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/serializer"
	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// ConvertRequest parameterizes a single Convert orchestration run.
type ConvertRequest struct {
	SourcePath  string
	OntologyName string
	IDPrefix    int64 // §4.D, 0 selects the default 10^12 prefix
}

// ConvertResponse is the orchestration's output: the assembled bundle
// plus the diagnostic results callers render or persist.
type ConvertResponse struct {
	Bundle     *entities.Bundle
	Conversion *entities.ConversionResult
	Compliance *entities.ComplianceReport
}

// Convert runs one format converter end to end: parse, assign IDs,
// validate against Fabric limits, and serialize into a bundle (§3-§6).
// It never talks to the network; upload is a separate use case.
func Convert(ctx context.Context, conv Converter, req ConvertRequest, tok *cancel.Token, log Logger, progress ProgressReporter) (*ConvertResponse, error) {
	log = log.WithFields(map[string]any{"format": conv.FormatName(), "source": req.SourcePath})
	log.Info("starting conversion")

	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	result, err := conv.Convert(ctx, req.SourcePath, tok, progress)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", req.SourcePath, err)
	}

	prefix := req.IDPrefix
	if prefix == 0 {
		prefix = idgen.DefaultPrefix
	}
	gen := idgen.NewGenerator(prefix)
	if err := gen.AssignIDs(result); err != nil {
		return nil, fmt.Errorf("assign ids: %w", err)
	}

	name := req.OntologyName
	if name == "" {
		name = entities.SanitizeDisplayName(conv.FormatName() + "_ontology")
	}

	report, err := limits.Validate(result, name)
	if err != nil {
		return nil, fmt.Errorf("limits validation: %w", err)
	}
	if !report.CanImportSeamlessly {
		log.Warn(fmt.Sprintf("conversion produced %d blocking issue(s)", report.TotalIssues))
	}

	bundle, err := serializer.Serialize(name, result)
	if err != nil {
		return nil, fmt.Errorf("serialize bundle: %w", err)
	}

	log.Info(fmt.Sprintf("conversion complete: %d entity types, %d relationship types, success rate %.1f%%",
		len(result.EntityTypes), len(result.RelationshipTypes), result.SuccessRate()))

	return &ConvertResponse{
		Bundle:     bundle,
		Conversion: result,
		Compliance: conv.ComplianceTable(),
	}, nil
}
