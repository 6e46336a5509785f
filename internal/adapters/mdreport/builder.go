// Package mdreport renders a ComplianceReport as Markdown, and that
// Markdown as HTML, for the `export --markdown` enrichment (§11).
package mdreport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Builder renders compliance reports as Markdown documents.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// BuildComplianceMarkdown writes a compliance report as a Markdown
// document: a summary table, then one section per fidelity bucket.
func (b *Builder) BuildComplianceMarkdown(r *entities.ComplianceReport) (string, error) {
	if r == nil {
		return "", fmt.Errorf("compliance report cannot be nil")
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "# Compliance report: %s\n\n", r.Format)

	sb.WriteString("| metric | value |\n")
	sb.WriteString("|---|---|\n")
	fmt.Fprintf(&sb, "| total constructs | %d |\n", r.Statistics.TotalConstructs)
	fmt.Fprintf(&sb, "| preserved | %d |\n", r.Statistics.Preserved)
	fmt.Fprintf(&sb, "| converted with limitations | %d |\n", r.Statistics.ConvertedWithLoss)
	fmt.Fprintf(&sb, "| lost | %d |\n", r.Statistics.Lost)
	fmt.Fprintf(&sb, "| compliance score | %.1f%% |\n\n", r.Statistics.ComplianceScore)

	writeEntrySection(&sb, "Preserved", r.Preserved)
	writeEntrySection(&sb, "Converted with limitations", r.Limited)
	writeEntrySection(&sb, "Lost", r.Lost)

	return sb.String(), nil
}

func writeEntrySection(sb *strings.Builder, title string, entries []entities.ComplianceEntry) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintf(sb, "## %s\n\n", title)
	sb.WriteString("| construct | name | message |\n")
	sb.WriteString("|---|---|---|\n")
	for _, e := range entries {
		message := e.Message
		if e.Workaround != "" {
			message = fmt.Sprintf("%s (workaround: %s)", message, e.Workaround)
		}
		fmt.Fprintf(sb, "| %s | %s | %s |\n", e.Construct, e.Name, message)
	}
	sb.WriteString("\n")
}

// RenderHTML converts Markdown source into an HTML fragment, for the
// side-by-side preview `export --markdown` can additionally write.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown to html: %w", err)
	}
	return buf.String(), nil
}
