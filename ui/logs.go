package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cosmobowz/cosmo/api"
)

// RenderLogs draws the activity log, newest first, capped upstream by the
// store.
func RenderLogs(logs []api.LogEntry, width int) string {
	if len(logs) == 0 {
		return placeholderStyle.Render("No activity yet")
	}

	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			mutedStyle.Render(FormatLogTime(l.Time)),
			logTypeStyle(l.Type).Render(fmt.Sprintf("%-7s", strings.ToUpper(string(l.Type)))),
			textStyle.Render(truncate(l.Message, width-16)),
		))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func logTypeStyle(t api.LogType) lipgloss.Style {
	switch t {
	case api.LogSuccess:
		return successStyle
	case api.LogWarning:
		return warnStyle
	case api.LogError:
		return errorStyle
	case api.LogSystem:
		return lipgloss.NewStyle().Foreground(ColorIris)
	default:
		return subtleStyle
	}
}

// ExportLogs formats the activity log the way the reference export did:
// one ISO-stamped line per entry.
func ExportLogs(logs []api.LogEntry) string {
	var b strings.Builder
	for _, l := range logs {
		fmt.Fprintf(&b, "[%s] [%s] %s\n",
			l.Time.UTC().Format("2006-01-02T15:04:05.000Z"),
			strings.ToUpper(string(l.Type)),
			l.Message,
		)
	}
	return b.String()
}
