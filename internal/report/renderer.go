// Package report renders run reports as text or JSON and writes them to disk.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/thoreinstein/prerelease/internal/validator"
)

// Renderer formats and writes run reports.
type Renderer struct {
	out    io.Writer
	format validator.Format
	color  bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithColor enables ANSI colors in text output.
func WithColor(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// NewRenderer creates a Renderer. Text output is uncolored unless WithColor
// is given.
func NewRenderer(out io.Writer, format validator.Format, opts ...RendererOption) *Renderer {
	r := &Renderer{
		out:    out,
		format: format,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the report to the output.
func (r *Renderer) Render(report *validator.Report) error {
	if report == nil {
		return nil
	}

	switch r.format {
	case validator.FormatJSON:
		return r.renderJSON(report)
	default:
		return r.renderText(report)
	}
}

// renderJSON writes the report as indented JSON.
func (r *Renderer) renderJSON(report *validator.Report) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(report), "encoding JSON report")
}

// renderText writes the report as human-readable text.
func (r *Renderer) renderText(report *validator.Report) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Pre-release validation: %s\n", r.status(report.OverallStatus))
	fmt.Fprintf(&sb, "Target:   %s\n", report.Target)
	if report.RunID != "" {
		fmt.Fprintf(&sb, "Run:      %s\n", report.RunID)
	}

	var modes []string
	if report.Strict {
		modes = append(modes, "strict")
	}
	if report.Fix {
		modes = append(modes, "fix")
	}
	if report.Parallel {
		modes = append(modes, "parallel")
	}
	if len(modes) > 0 {
		fmt.Fprintf(&sb, "Mode:     %s\n", strings.Join(modes, ", "))
	}
	if report.BackupID != "" {
		fmt.Fprintf(&sb, "Backup:   %s\n", report.BackupID)
	}

	fmt.Fprintf(&sb, "Results:  %d validator(s), %s, %s, %d skipped\n",
		len(report.Results),
		r.paint(color.FgRed, fmt.Sprintf("%d error(s)", report.TotalErrors)),
		r.paint(color.FgYellow, fmt.Sprintf("%d warning(s)", report.TotalWarnings)),
		report.TotalSkipped,
	)
	sb.WriteString("\n")

	problems := report.Problems()
	if len(problems) == 0 {
		sb.WriteString(r.paint(color.FgGreen, "✓ All validators passed"))
		sb.WriteString("\n")
	}
	for _, res := range problems {
		r.writeResult(&sb, res)
	}

	var skipped []string
	for _, res := range report.Results {
		if res.Status == validator.StatusSkip {
			reason := ""
			if len(res.Messages) > 0 {
				reason = " (" + res.Messages[0] + ")"
			}
			skipped = append(skipped, res.Name+reason)
		}
	}
	if len(skipped) > 0 {
		sb.WriteString("\nSkipped:\n")
		for _, s := range skipped {
			sb.WriteString("  - ")
			sb.WriteString(s)
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(r.out, sb.String())
	return errors.Wrap(err, "writing text report")
}

func (r *Renderer) writeResult(sb *strings.Builder, res validator.Result) {
	fmt.Fprintf(sb, "[%s] %s", r.status(res.Status), res.Name)
	if res.Category != "" {
		sb.WriteString(r.paint(color.FgHiBlack, " ("+res.Category+")"))
	}
	sb.WriteString("\n")

	attr := color.FgYellow
	if res.Status == validator.StatusFail {
		attr = color.FgRed
	}
	for _, msg := range res.Messages {
		sb.WriteString("  • ")
		sb.WriteString(r.paint(attr, msg))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func (r *Renderer) status(s validator.Status) string {
	switch s {
	case validator.StatusPass:
		return r.paint(color.FgGreen, s.String())
	case validator.StatusWarn:
		return r.paint(color.FgYellow, s.String())
	case validator.StatusFail:
		return r.paint(color.FgRed, s.String())
	default:
		return r.paint(color.FgHiBlack, s.String())
	}
}

func (r *Renderer) paint(attr color.Attribute, s string) string {
	if !r.color {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// Marshal renders the report into memory.
func Marshal(report *validator.Report, format validator.Format) ([]byte, error) {
	var sb strings.Builder
	if err := NewRenderer(&sb, format).Render(report); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
