// Package pdfreport renders a ValidationReport summary as a PDF, for the
// `export --pdf` enrichment (§11). The teacher repo's own pdf adapter
// shelled out to an external html-to-pdf binary rather than the
// jung-kurt/gofpdf dependency its go.mod already carries; this adapter
// wires that dependency directly instead, since gofpdf needs no external
// binary.
package pdfreport

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Renderer builds validation-report summary PDFs.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// RenderValidationSummary writes a one-page summary of r to w.
func (rd *Renderer) RenderValidationSummary(r *entities.ValidationReport, w io.Writer) error {
	if r == nil {
		return fmt.Errorf("validation report cannot be nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Ontology validation report")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Source: %s", r.FilePath))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Timestamp: %s", r.Timestamp))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Total issues: %d", r.TotalIssues))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Verdict: %s", r.Summary))
	pdf.Ln(12)

	if len(r.Issues) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Issues")
		pdf.Ln(10)

		pdf.SetFont("Helvetica", "", 9)
		for _, iss := range r.Issues {
			line := fmt.Sprintf("[%s] %s: %s", iss.Severity, iss.Category, iss.Message)
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
	}

	return pdf.Output(w)
}
