package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cosmobowz/cosmo/api"
)

// RenderOverview draws the landing view: headline stats, the first few
// active projects, pending tasks, and the host gauges.
func RenderOverview(projects []api.Project, tasks []api.Task, sys api.SystemStats, width int) string {
	activeProjects := 0
	for _, p := range projects {
		if p.Status != api.ProjectComplete {
			activeProjects++
		}
	}
	openTasks := 0
	for _, t := range tasks {
		if !t.Done {
			openTasks++
		}
	}

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("active projects", fmt.Sprintf("%d", activeProjects)),
		" ",
		statCard("tasks today", fmt.Sprintf("%d", openTasks)),
		" ",
		statCard("cpu", formatPercent(sys.CPU)),
		" ",
		statCard("memory", formatPercent(sys.Memory)),
		" ",
		statCard("disk", formatPercent(sys.Disk)),
	)

	sections := []string{
		stats,
		"",
		headerStyle.Render("Active Projects"),
		renderProjectsPreview(projects),
		"",
		headerStyle.Render("Pending Tasks"),
		renderTasksPreview(tasks),
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
}

func statCard(label, value string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(label),
		textStyle.Bold(true).Render(value),
	)
	return cardStyle.Render(content)
}

// renderProjectsPreview shows up to three not-complete projects.
func renderProjectsPreview(projects []api.Project) string {
	var active []api.Project
	for _, p := range projects {
		if p.Status != api.ProjectComplete {
			active = append(active, p)
		}
		if len(active) == 3 {
			break
		}
	}
	if len(active) == 0 {
		return placeholderStyle.Render("No active projects")
	}

	lines := make([]string, 0, len(active))
	for _, p := range active {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			textStyle.Render(p.Name),
			mutedStyle.Render(truncateDescription(p.Description)),
		))
	}
	return strings.Join(lines, "\n")
}

// renderTasksPreview shows up to four pending tasks.
func renderTasksPreview(tasks []api.Task) string {
	var pending []api.Task
	for _, t := range tasks {
		if !t.Done {
			pending = append(pending, t)
		}
		if len(pending) == 4 {
			break
		}
	}
	if len(pending) == 0 {
		return placeholderStyle.Render("All tasks complete!")
	}

	lines := make([]string, 0, len(pending))
	for _, t := range pending {
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			subtleStyle.Render("☐"),
			textStyle.Render(t.Title),
			priorityStyle(string(t.Priority)).Render(string(t.Priority)),
		))
	}
	return strings.Join(lines, "\n")
}
