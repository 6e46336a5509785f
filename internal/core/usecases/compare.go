package usecases

import (
	"context"
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Compare converts two source documents with the same converter and
// diffs the results for semantic equivalence (§12 supplemented feature,
// compare_ontologies).
func Compare(ctx context.Context, conv Converter, pathA, pathB string, tok *cancel.Token, log Logger, progress ProgressReporter) (*entities.ComparisonResult, error) {
	log = log.WithFields(map[string]any{"format": conv.FormatName(), "a": pathA, "b": pathB})
	log.Info("comparing sources")

	resultA, err := conv.Convert(ctx, pathA, tok, progress)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", pathA, err)
	}
	if err := tok.ThrowIfCancelled(); err != nil {
		return nil, err
	}
	resultB, err := conv.Convert(ctx, pathB, tok, progress)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", pathB, err)
	}

	diff := entities.CompareConversionResults(resultA, resultB)
	if diff.IsEquivalent {
		log.Info("ontologies are semantically equivalent")
	} else {
		log.Info("ontologies are not equivalent")
	}
	return diff, nil
}
