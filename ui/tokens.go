package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cosmobowz/cosmo/api"
)

const usageBarWidth = 24

// RenderTokens draws the token usage view: today's totals, per-model
// aggregates, and one gauge per session.
func RenderTokens(report api.TokenReport, width int) string {
	var sections []string

	today := fmt.Sprintf("today: %s / %s tokens (%.1f%%)  active sessions: %d",
		formatTokens(report.TodayTokens), formatTokens(report.TodayLimit),
		report.TodayPercent, report.ActiveSessions)
	sections = append(sections, headerStyle.Render("Token Usage"), textStyle.Render(today), "")

	if len(report.Models) > 0 {
		sections = append(sections, headerStyle.Render("Models"))
		names := make([]string, 0, len(report.Models))
		for name := range report.Models {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			m := report.Models[name]
			sections = append(sections, fmt.Sprintf("  %s %s",
				textStyle.Render(fmt.Sprintf("%-24s", name)),
				mutedStyle.Render(fmt.Sprintf("%s tokens  %d calls  %d sessions",
					formatTokens(m.Tokens), m.Calls, m.Sessions)),
			))
		}
		sections = append(sections, "")
	}

	if len(report.Sessions) == 0 {
		sections = append(sections, placeholderStyle.Render("No active sessions"))
	} else {
		sections = append(sections, headerStyle.Render("Sessions"))
		for _, s := range report.Sessions {
			sections = append(sections, renderSessionRow(s, width))
		}
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
}

func renderSessionRow(s api.TokenSession, width int) string {
	pct := s.PercentUsed()
	return fmt.Sprintf("  %s %s %s %s",
		textStyle.Render(truncate(fmt.Sprintf("%-20s", s.Name), 20)),
		mutedStyle.Render(fmt.Sprintf("%-10s", s.Model)),
		usageBar(pct),
		usageStyle(pct).Render(fmt.Sprintf("%5.1f%%", pct)),
	)
}

// usageBar renders a fixed-width gauge for a [0,100] percentage.
func usageBar(pct float64) string {
	filled := int(pct / 100 * usageBarWidth)
	if filled > usageBarWidth {
		filled = usageBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", usageBarWidth-filled)
	return usageStyle(pct).Render(bar)
}

func usageStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 90:
		return errorStyle
	case pct >= 70:
		return warnStyle
	default:
		return successStyle
	}
}

func formatTokens(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
