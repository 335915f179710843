package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cosmobowz/cosmo/api"
)

// RenderAgents draws the subagent table. Rows come from the merged
// view, so dedicated records and prefixed sessions render identically.
func RenderAgents(agents []api.Subagent, width int) string {
	var sections []string
	sections = append(sections, headerStyle.Render(fmt.Sprintf("Subagents (%d)", len(agents))), "")

	if len(agents) == 0 {
		sections = append(sections, placeholderStyle.Render("No subagents running"))
		return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
	}

	for _, a := range agents {
		sections = append(sections, renderAgentRow(a))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
}

func renderAgentRow(a api.Subagent) string {
	status := agentStatusStyle(a.Status).Render(fmt.Sprintf("%-9s", a.Status))
	task := a.Task
	if task == "" {
		task = "(idle)"
	}
	return fmt.Sprintf("  %s %s %s %s",
		textStyle.Render(truncate(fmt.Sprintf("%-16s", a.ID), 16)),
		status,
		mutedStyle.Render(fmt.Sprintf("in %s out %s  ctx %.1f%%",
			formatTokens(a.TokensIn), formatTokens(a.TokensOut), a.ContextUsed)),
		subtleStyle.Render(truncate(task, 40)),
	)
}

func agentStatusStyle(status string) lipgloss.Style {
	switch status {
	case "active", "running":
		return successStyle
	case "error", "failed":
		return errorStyle
	default:
		return mutedStyle
	}
}
