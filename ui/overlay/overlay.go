package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceOverlay composites fg over bg at the given coordinates, preserving
// ANSI styling on both layers. When center is true the x/y arguments are
// ignored and fg is centered within bg.
func PlaceOverlay(x, y int, fg, bg string, center bool) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	bgWidth := 0
	for _, line := range bgLines {
		if w := ansi.StringWidth(line); w > bgWidth {
			bgWidth = w
		}
	}
	fgWidth := lipgloss.Width(fg)
	fgHeight := len(fgLines)

	if center {
		x = (bgWidth - fgWidth) / 2
		y = (len(bgLines) - fgHeight) / 2
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fgIdx := i - y
		if fgIdx < 0 || fgIdx >= fgHeight {
			b.WriteString(bgLine)
			continue
		}

		fgLine := fgLines[fgIdx]
		fgLineWidth := ansi.StringWidth(fgLine)

		// Left segment of the background, padded out to the overlay start.
		left := ansi.Truncate(bgLine, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}

		// Right segment resumes after the overlay.
		right := ansi.TruncateLeft(bgLine, x+fgLineWidth, "")

		b.WriteString(left)
		b.WriteString(fgLine)
		b.WriteString(right)
	}
	return b.String()
}
