package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/cosmobowz/cosmo/api"
)

// FilterIdeas applies the active filter to the ideas slice.
func FilterIdeas(ideas []api.Idea, filter IdeaFilter) []api.Idea {
	if filter.All() {
		return ideas
	}
	out := make([]api.Idea, 0, len(ideas))
	for _, i := range ideas {
		if filter.Assignee != "" && i.Assignee != filter.Assignee {
			continue
		}
		if filter.Status != "" && string(i.Status) != filter.Status {
			continue
		}
		out = append(out, i)
	}
	return out
}

// RenderIdeas draws the ideas view under the active filter. Open ideas get a
// zone-marked approve affordance; approved ideas with a plan get a view-plan
// affordance.
func RenderIdeas(ideas []api.Idea, filter IdeaFilter, selected int, width int) string {
	filtered := FilterIdeas(ideas, filter)

	header := headerStyle.Render("Ideas") + mutedStyle.Render("  filter: "+filter.Label())
	if len(filtered) == 0 {
		return header + "\n" + placeholderStyle.Render("No ideas match this filter")
	}

	cards := make([]string, 0, len(filtered)+1)
	cards = append(cards, header)
	for i, idea := range filtered {
		cards = append(cards, renderIdeaCard(idea, i == selected, width))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(cards, "\n"))
}

func renderIdeaCard(idea api.Idea, selected bool, width int) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}

	status := ideaStatusStyle(idea.Status).Render(string(idea.Status))
	head := fmt.Sprintf("%s  %s %s",
		textStyle.Bold(true).Render(truncate(idea.Title, width-24)),
		status,
		priorityStyle(string(idea.Priority)).Render(string(idea.Priority)),
	)

	meta := mutedStyle.Render(fmt.Sprintf("%s  👤 %s  ✍ %s",
		formatIdeaDate(idea.Created), idea.Assignee, idea.CreatedBy))

	lines := []string{head}
	if idea.Description != "" {
		lines = append(lines, subtleStyle.Render(truncateDescription(idea.Description)))
	}
	lines = append(lines, meta)

	switch {
	case idea.Status == api.IdeaOpen:
		approve := zone.Mark(ActionZoneID("ideas", "approve", idea.ID),
			successStyle.Render("[approve]"))
		lines = append(lines, approve)
	case idea.Plan != "":
		view := zone.Mark(ActionZoneID("ideas", "plan", idea.ID),
			subtleStyle.Render("[view plan]"))
		lines = append(lines, view)
	}

	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func ideaStatusStyle(status api.IdeaStatus) lipgloss.Style {
	switch status {
	case api.IdeaApproved, api.IdeaDone:
		return successStyle
	case api.IdeaInProgress:
		return warnStyle
	default:
		return subtleStyle
	}
}

func formatIdeaDate(millis int64) string {
	if millis == 0 {
		return "—"
	}
	return time.UnixMilli(millis).In(clockLocation).Format("Jan 2")
}
