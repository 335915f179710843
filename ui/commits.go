package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/cosmobowz/cosmo/api"
)

// RenderCommits draws the pending commit review queue. Pending rows
// carry approve/reject click zones.
func RenderCommits(commits []api.PendingCommit, width int) string {
	var sections []string
	pending := 0
	for _, c := range commits {
		if c.Status == api.CommitPending {
			pending++
		}
	}
	sections = append(sections,
		headerStyle.Render(fmt.Sprintf("Pending Commits (%d)", pending)), "")

	if len(commits) == 0 {
		sections = append(sections, placeholderStyle.Render("No commits awaiting review"))
		return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
	}

	for _, c := range commits {
		sections = append(sections, renderCommitCard(c, width), "")
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
}

func renderCommitCard(c api.PendingCommit, width int) string {
	var lines []string
	lines = append(lines, textStyle.Render(truncate(c.Message, width-8)))
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%s @ %s", c.Repo, c.Branch)))

	switch c.Status {
	case api.CommitPending:
		approve := zone.Mark(ActionZoneID("github", "approve", c.ID),
			successStyle.Render("[approve]"))
		reject := zone.Mark(ActionZoneID("github", "reject", c.ID),
			errorStyle.Render("[reject]"))
		lines = append(lines, approve+"  "+reject)
	case api.CommitApproved:
		lines = append(lines, successStyle.Render("approved"))
	case api.CommitRejected:
		lines = append(lines, errorStyle.Render("rejected"))
	}

	return cardStyle.Width(min(width-4, 72)).Render(strings.Join(lines, "\n"))
}
