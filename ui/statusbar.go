package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/cosmobowz/cosmo/api"
)

// clockLocation is the dashboard's display timezone, matching the reference
// front end. Falls back to UTC when the zone database is unavailable.
var clockLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// FormatClock renders the status bar clock in EST.
func FormatClock(now time.Time) string {
	return now.In(clockLocation).Format("Mon Jan 2 15:04:05") + " EST"
}

// FormatLogTime renders a log entry timestamp in EST.
func FormatLogTime(t time.Time) string {
	return t.In(clockLocation).Format("15:04")
}

// RenderStatusBar draws the top bar: title, clock, push indicator, and the
// inline system gauges.
func RenderStatusBar(now time.Time, pushOnline bool, sys api.SystemStats, width int) string {
	left := titleStyle.Render("◉ COSMO COMMAND CENTER")

	indicator := errorStyle.Render("● offline")
	if pushOnline {
		indicator = successStyle.Render("● live")
	}

	stats := subtleStyle.Render(fmt.Sprintf(
		"cpu %s  mem %s  disk %s",
		formatPercent(sys.CPU), formatPercent(sys.Memory), formatPercent(sys.Disk),
	))

	right := strings.Join([]string{stats, indicator, subtleStyle.Render(FormatClock(now))}, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// RenderNav draws the view tabs. Each tab is a bubblezone mark so clicks
// resolve through the dispatch table.
func RenderNav(active View, width int) string {
	tabs := make([]string, 0, viewCount)
	for _, v := range Views() {
		label := " " + v.Name() + " "
		if v == active {
			label = lipgloss.NewStyle().
				Foreground(ColorBase).
				Background(ColorIris).
				Bold(true).
				Render(label)
		} else {
			label = subtleStyle.Render(label)
		}
		tabs = append(tabs, zone.Mark(NavZoneID(v), label))
	}
	row := strings.Join(tabs, mutedStyle.Render("│"))
	return lipgloss.NewStyle().Width(width).Render(row)
}
