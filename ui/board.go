package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/cosmobowz/cosmo/api"
)

// RenderBoard draws the projects board: one column per status, cards marked
// as clickable zones opening the project detail.
func RenderBoard(projects []api.Project, width int) string {
	colWidth := width/len(api.BoardColumns) - 1
	if colWidth < 18 {
		colWidth = 18
	}

	cols := make([]string, 0, len(api.BoardColumns))
	for _, status := range api.BoardColumns {
		cols = append(cols, renderBoardColumn(projects, status, colWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderBoardColumn(projects []api.Project, status api.ProjectStatus, width int) string {
	header := headerStyle.Render(string(status))

	var cards []string
	for _, p := range projects {
		if p.Status != status {
			continue
		}
		card := cardStyle.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
			textStyle.Bold(true).Render(truncate(p.Name, width-4)),
			mutedStyle.Render(truncate(truncateDescription(p.Description), width-4)),
		))
		cards = append(cards, zone.Mark(ActionZoneID("projects", "open", p.ID), card))
	}
	if len(cards) == 0 {
		cards = append(cards, mutedStyle.Padding(0, 1).Render("—"))
	}

	column := lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, cards...)...)
	return lipgloss.NewStyle().Width(width).Render(column)
}

// RenderProjectDetail draws a single project with its tasks, shown in the
// text overlay.
func RenderProjectDetail(p api.Project, tasks []api.Task) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Name) + "\n")
	if p.Description != "" {
		b.WriteString(subtleStyle.Render(p.Description) + "\n")
	}
	b.WriteString(mutedStyle.Render("status: "+string(p.Status)) + "  ")
	b.WriteString(mutedStyle.Render("created: "+p.Created) + "\n\n")
	b.WriteString(headerStyle.Render("Tasks") + "\n")

	found := false
	for _, t := range tasks {
		if t.Project != p.Name {
			continue
		}
		found = true
		box := "☐"
		style := textStyle
		if t.Done {
			box = "☑"
			style = doneStyle
		}
		b.WriteString("  " + subtleStyle.Render(box) + " " + style.Render(t.Title) + "\n")
	}
	if !found {
		b.WriteString(placeholderStyle.Render("No tasks yet"))
	}
	return b.String()
}
