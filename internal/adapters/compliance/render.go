package compliance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// ToMarkdown renders a compliance report as a human-readable Markdown
// document, grouped preserved/limited/lost, mirroring the structure of
// the original report generator's Markdown output.
func ToMarkdown(r *entities.ComplianceReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ontology Conversion Compliance Report\n\n")
	fmt.Fprintf(&b, "**Format:** %s\n\n", r.Format)
	fmt.Fprintf(&b, "| Bucket | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Preserved | %d |\n", r.Statistics.Preserved)
	fmt.Fprintf(&b, "| Converted with limitations | %d |\n", r.Statistics.ConvertedWithLoss)
	fmt.Fprintf(&b, "| Lost | %d |\n\n", r.Statistics.Lost)
	fmt.Fprintf(&b, "**Compliance score:** %.1f%%\n\n", r.Statistics.ComplianceScore)

	if len(r.Limited) > 0 {
		b.WriteString("## Converted with limitations\n\n")
		for _, e := range r.Limited {
			fmt.Fprintf(&b, "- **%s** `%s`: %s\n", e.Construct, e.Name, e.Message)
			if e.Workaround != "" {
				fmt.Fprintf(&b, "  - Workaround: %s\n", e.Workaround)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Lost) > 0 {
		b.WriteString("## Lost\n\n")
		for _, e := range r.Lost {
			fmt.Fprintf(&b, "- **%s** `%s`: %s\n", e.Construct, e.Name, e.Message)
			if e.Workaround != "" {
				fmt.Fprintf(&b, "  - Workaround: %s\n", e.Workaround)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ToJSON renders a compliance report as indented JSON, the machine-
// readable counterpart a CI pipeline consumes alongside the human
// Markdown rendering.
func ToJSON(r *entities.ComplianceReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
