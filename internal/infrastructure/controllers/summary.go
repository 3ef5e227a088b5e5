package controllers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rios0rios0/robotremote/internal/domain/commands"
)

//nolint:gochecknoglobals // immutable styles
var (
	passStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	labelStyle = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// RenderSummary formats the outcome of a remote run for the terminal.
func RenderSummary(report *commands.RunReport) string {
	status := passStyle.Render("PASS")
	if report.RetCode != 0 {
		status = failStyle.Render(fmt.Sprintf("FAIL (return code %d)", report.RetCode))
	}

	lines := []string{
		status,
		labelStyle.Render("suites:       ") + fmt.Sprint(report.Suites),
		labelStyle.Render("dependencies: ") + fmt.Sprint(report.Dependencies),
		labelStyle.Render("packages:     ") + fmt.Sprint(report.Packages),
	}
	for _, path := range report.Written {
		lines = append(lines, labelStyle.Render("artifact:     ")+path)
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderFailure formats a run that never produced a result.
func RenderFailure(message string) string {
	return boxStyle.Render(failStyle.Render("ERROR") + "\n" + strings.TrimSpace(message))
}
