package ui

import (
	"fmt"
	"strings"
)

// Zone ids follow the scheme "kind:action:id". Renderers mark interactive
// regions with these ids; the input layer resolves a click back through one
// dispatch table instead of per-element callbacks.
const (
	ZoneNavPrefix = "nav"
)

// ActionZoneID builds a zone id for an interactive element.
func ActionZoneID(kind, action string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", kind, action, id)
}

// NavZoneID builds a zone id for a navigation tab.
func NavZoneID(view View) string {
	return fmt.Sprintf("%s:switch:%d", ZoneNavPrefix, int(view))
}

// ParseZoneID splits a zone id back into kind, action, and id. ok is false
// for ids that don't follow the scheme.
func ParseZoneID(zoneID string) (kind, action string, id int64, ok bool) {
	parts := strings.SplitN(zoneID, ":", 3)
	if len(parts) != 3 {
		return "", "", 0, false
	}
	var n int64
	if _, err := fmt.Sscanf(parts[2], "%d", &n); err != nil {
		return "", "", 0, false
	}
	return parts[0], parts[1], n, true
}
