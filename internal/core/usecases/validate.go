package usecases

import (
	"context"
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Validate runs a format converter's own Validate path: parse and report
// issues without producing a bundle or contacting the network (§6
// `validate`, "validate without upload").
func Validate(ctx context.Context, conv Converter, sourcePath string, tok *cancel.Token, log Logger) (*entities.ValidationReport, error) {
	log = log.WithFields(map[string]any{"format": conv.FormatName(), "source": sourcePath})
	log.Info("validating source")

	report, err := conv.Validate(ctx, sourcePath, tok)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", sourcePath, err)
	}

	if report.CanImportSeamlessly {
		log.Info("source can be imported seamlessly")
	} else {
		log.Warn(fmt.Sprintf("source has %d blocking issue(s)", report.IssuesBySeverity[string(entities.IssueSeverityError)]))
	}
	return report, nil
}
