package ui

import (
	"fmt"
	"strings"

	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	phaseStyle        = lipgloss.NewStyle().Bold(true)
	failureStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle        = lipgloss.NewStyle().Faint(true)
)

// RenderSummary formats the end-of-run report. Best-effort failures
// always appear here, even when the overall run exits zero.
func RenderSummary(reports []types.BatchReport) string {
	var b strings.Builder
	b.WriteString(summaryTitleStyle.Render("Bootstrap summary"))
	b.WriteString("\n\n")

	for _, report := range reports {
		b.WriteString(phaseStyle.Render(string(report.Kind)))
		b.WriteString(fmt.Sprintf(": %d installed, %d skipped, %d failed\n",
			report.Succeeded(), report.Skipped(), report.Failed()))

		for _, failure := range report.Failures() {
			b.WriteString("  ")
			b.WriteString(failureStyle.Render(fmt.Sprintf("✗ %s", failure.Item.Label())))
			if failure.Reason != "" {
				b.WriteString(mutedStyle.Render(": " + failure.Reason))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
