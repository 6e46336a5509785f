// Package ui provides styled terminal output shared by the CLI adapters.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#2563eb")
	colorSuccess = lipgloss.Color("#10b981")
	colorWarning = lipgloss.Color("#f59e0b")
	colorError   = lipgloss.Color("#ef4444")
	colorMuted   = lipgloss.Color("#6b7280")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Output handles styled terminal output for the CLI.
type Output struct {
	writer    io.Writer
	errWriter io.Writer
}

// NewOutput creates an Output writing to stdout/stderr.
func NewOutput() *Output {
	return &Output{writer: os.Stdout, errWriter: os.Stderr}
}

// WithWriter overrides the stdout writer (tests, capture buffers).
func (o *Output) WithWriter(w io.Writer) *Output {
	o.writer = w
	return o
}

// WithErrWriter overrides the stderr writer.
func (o *Output) WithErrWriter(w io.Writer) *Output {
	o.errWriter = w
	return o
}

func (o *Output) Title(msg string)   { fmt.Fprintln(o.writer, TitleStyle.Render(msg)) }
func (o *Output) Success(msg string) { fmt.Fprintln(o.writer, SuccessStyle.Render("✓ "+msg)) }
func (o *Output) Warning(msg string) { fmt.Fprintln(o.errWriter, WarningStyle.Render("⚠ "+msg)) }
func (o *Output) Error(msg string)   { fmt.Fprintln(o.errWriter, ErrorStyle.Render("✗ "+msg)) }
func (o *Output) Info(msg string)    { fmt.Fprintln(o.writer, "ℹ "+msg) }
func (o *Output) Newline()           { fmt.Fprintln(o.writer) }

// Progress prints a single progress line with a rendered bar when total
// is known, or a bare message when total is -1 (unknown length phase).
func (o *Output) Progress(current, total int, msg string) {
	if total <= 0 {
		fmt.Fprintf(o.writer, "  %s\n", msg)
		return
	}
	percent := (current * 100) / total
	fmt.Fprintf(o.writer, "  %s %3d%% %s\n", o.renderBar(percent), percent, msg)
}

func (o *Output) renderBar(percent int) string {
	const width = 20
	filled := (percent * width) / 100
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return MutedStyle.Render("[") + SuccessStyle.Render(bar[:filled]) + MutedStyle.Render(bar[filled:]) + MutedStyle.Render("]")
}

// Table prints a simple fixed-width table.
func (o *Output) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine, separatorLine := "", ""
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		separatorLine += strings.Repeat("─", widths[i]) + "  "
	}
	fmt.Fprintln(o.writer, TitleStyle.Render(headerLine))
	fmt.Fprintln(o.writer, MutedStyle.Render(separatorLine))

	for _, row := range rows {
		line := ""
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(o.writer, line)
	}
}

// KeyValue prints a muted-key/plain-value pair.
func (o *Output) KeyValue(key, value string) {
	fmt.Fprintf(o.writer, "%s: %s\n", MutedStyle.Render(key), value)
}
