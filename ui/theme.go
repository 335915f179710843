package ui

import "github.com/charmbracelet/lipgloss"

// Rosé Pine Moon palette
// https://rosepinetheme.com/palette/
var (
	// Base tones
	ColorBase    = lipgloss.Color("#232136")
	ColorSurface = lipgloss.Color("#2a273f")
	ColorOverlay = lipgloss.Color("#393552")
	ColorMuted   = lipgloss.Color("#6e6a86")
	ColorSubtle  = lipgloss.Color("#908caa")
	ColorText    = lipgloss.Color("#e0def4")

	// Semantic colors
	ColorLove = lipgloss.Color("#eb6f92") // error, offline
	ColorGold = lipgloss.Color("#f6c177") // warning, pending
	ColorRose = lipgloss.Color("#ea9a97") // accent
	ColorPine = lipgloss.Color("#3e8fb0") // in-progress
	ColorFoam = lipgloss.Color("#9ccfd8") // info, success, online
	ColorIris = lipgloss.Color("#c4a7e7") // highlight, headers
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorIris).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(ColorIris).
			Bold(true).
			Padding(0, 1)

	textStyle   = lipgloss.NewStyle().Foreground(ColorText)
	subtleStyle = lipgloss.NewStyle().Foreground(ColorSubtle)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)

	successStyle = lipgloss.NewStyle().Foreground(ColorFoam)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorGold)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorLove)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorOverlay).
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorIris).
				Padding(0, 1)

	doneStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Strikethrough(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true).
				Padding(1, 2)
)

// priorityStyle maps a priority to its display style.
func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "high":
		return errorStyle
	case "medium":
		return warnStyle
	default:
		return subtleStyle
	}
}
