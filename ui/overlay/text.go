package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/cosmobowz/cosmo/log"
)

// TextOverlay is a scrollable read-only text overlay.
type TextOverlay struct {
	viewport viewport.Model
	content  string
	width    int
}

// NewTextOverlay creates a text overlay with the given content.
func NewTextOverlay(content string) *TextOverlay {
	vp := viewport.New(60, 20)
	t := &TextOverlay{
		viewport: vp,
		content:  content,
	}
	t.SetWidth(64)
	return t
}

// NewMarkdownOverlay renders markdown through glamour before wrapping it in
// a text overlay. Render failures fall back to the raw markdown.
func NewMarkdownOverlay(markdown string, width int) *TextOverlay {
	content := markdown
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-8),
	)
	if err == nil {
		if out, rerr := renderer.Render(markdown); rerr == nil {
			content = out
		} else {
			log.WarningLog.Printf("markdown render failed: %v", rerr)
		}
	}
	t := NewTextOverlay(content)
	t.SetWidth(width)
	return t
}

// SetWidth resizes the overlay and its viewport.
func (t *TextOverlay) SetWidth(width int) {
	if width < 40 {
		width = 40
	}
	t.width = width
	t.viewport.Width = width - 6

	height := len(strings.Split(t.content, "\n"))
	if height > 24 {
		height = 24
	}
	t.viewport.Height = height
	t.viewport.SetContent(t.content)
}

// HandleKeyPress scrolls the viewport and returns true when the overlay
// should close.
func (t *TextOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "esc", "q", "enter":
		return true
	case "up", "k":
		t.viewport.LineUp(1)
	case "down", "j":
		t.viewport.LineDown(1)
	case "pgup":
		t.viewport.HalfViewUp()
	case "pgdown":
		t.viewport.HalfViewDown()
	}
	return false
}

// Render returns the styled overlay string.
func (t *TextOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorIris).
		Padding(1, 2).
		Width(t.width)

	hint := lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1).
		Render("↑↓ scroll · esc close")

	return style.Render(t.viewport.View() + "\n" + hint)
}
