package ui

import "github.com/mattn/go-runewidth"

// descriptionLimit is the display cap for project/idea descriptions.
const descriptionLimit = 60

// truncate caps s at limit display cells, appending an ellipsis when cut.
func truncate(s string, limit int) string {
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	return runewidth.Truncate(s, limit, "…")
}

// truncateDescription applies the standard description display cap.
func truncateDescription(s string) string {
	return truncate(s, descriptionLimit)
}

// Ellipsize is the exported form of truncate for callers outside the
// renderers.
func Ellipsize(s string, limit int) string {
	return truncate(s, limit)
}
