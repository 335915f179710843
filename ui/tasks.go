package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/cosmobowz/cosmo/api"
)

// RenderTasks draws the full task list. Checkboxes are zone-marked so a
// click dispatches a toggle; the checkbox state reflects only
// server-confirmed done values.
func RenderTasks(tasks []api.Task, selected int, width int) string {
	if len(tasks) == 0 {
		return placeholderStyle.Render("All tasks complete!")
	}

	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		box := "☐"
		titleS := textStyle
		if t.Done {
			box = "☑"
			titleS = doneStyle
		}
		cursor := "  "
		if i == selected {
			cursor = titleStyle.Render("▸ ")
		}

		checkbox := zone.Mark(ActionZoneID("tasks", "toggle", t.ID), subtleStyle.Render(box))
		meta := mutedStyle.Render(t.Project)
		line := fmt.Sprintf("%s%s %s  %s %s",
			cursor,
			checkbox,
			titleS.Render(truncate(t.Title, width-30)),
			priorityStyle(string(t.Priority)).Render(string(t.Priority)),
			meta,
		)
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}
