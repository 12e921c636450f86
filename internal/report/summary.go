package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thoreinstein/prerelease/internal/validator"
)

var (
	accent  = lipgloss.Color("#2563EB")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	passStyle  = lipgloss.NewStyle().Foreground(success)
	failStyle  = lipgloss.NewStyle().Foreground(danger)
	warnStyle  = lipgloss.NewStyle().Foreground(warning)
	skipStyle  = lipgloss.NewStyle().Foreground(dim)
)

// Summary renders a compact, styled overview of a report for the terminal:
// one line per validator followed by a box with the totals.
func Summary(report *validator.Report) string {
	var b strings.Builder

	width := 0
	for _, res := range report.Results {
		width = max(width, len(res.Name))
	}

	for _, res := range report.Results {
		fmt.Fprintf(&b, "  %s %-*s  %s\n",
			icon(res.Status),
			width, res.Name,
			dimStyle.Render(fmt.Sprintf("%s  %s", res.Status, res.Duration.Round(time.Millisecond))),
		)
	}
	if len(report.Results) > 0 {
		b.WriteString("\n")
	}

	overall := passStyle.Render("PASS")
	if report.Failed() {
		overall = failStyle.Render("FAIL")
	}

	lines := []string{
		titleStyle.Render("pre-release-check") + "  " + overall,
		fmt.Sprintf("%s  %s  %s  %s",
			failStyle.Render(fmt.Sprintf("%d failed", report.TotalErrors)),
			warnStyle.Render(fmt.Sprintf("%d warned", report.TotalWarnings)),
			skipStyle.Render(fmt.Sprintf("%d skipped", report.TotalSkipped)),
			passStyle.Render(fmt.Sprintf("%d passed", report.TotalPassed)),
		),
	}
	if report.Strict && report.TotalWarnings > 0 {
		lines = append(lines, dimStyle.Render("strict mode: warnings fail the run"))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("finished in %s", report.Duration.Round(time.Millisecond))))

	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	return b.String()
}

func icon(s validator.Status) string {
	switch s {
	case validator.StatusPass:
		return passStyle.Render("✓")
	case validator.StatusWarn:
		return warnStyle.Render("!")
	case validator.StatusFail:
		return failStyle.Render("✗")
	default:
		return skipStyle.Render("-")
	}
}
