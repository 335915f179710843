package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationOverlay is a yes/no prompt. OnConfirm runs when the confirm
// key is pressed; any other dismissal leaves it unset.
type ConfirmationOverlay struct {
	Message    string
	ConfirmKey string
	CancelKey  string
	Dismissed  bool
	OnConfirm  func()
	width      int
}

// NewConfirmationOverlay creates a confirmation overlay with y/n keys.
func NewConfirmationOverlay(message string) *ConfirmationOverlay {
	return &ConfirmationOverlay{
		Message:    message,
		ConfirmKey: "y",
		CancelKey:  "n",
		width:      50,
	}
}

// SetWidth sets the rendered overlay width.
func (c *ConfirmationOverlay) SetWidth(width int) {
	c.width = width
}

// HandleKeyPress processes a key and returns true when the overlay should
// close. Confirmed is signalled through OnConfirm.
func (c *ConfirmationOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case c.ConfirmKey:
		c.Dismissed = true
		if c.OnConfirm != nil {
			c.OnConfirm()
		}
		return true
	case c.CancelKey, "esc":
		c.Dismissed = true
		return true
	}
	return false
}

// Render returns the styled overlay string.
func (c *ConfirmationOverlay) Render() string {
	hint := lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1).
		Render(c.ConfirmKey + " confirm · " + c.CancelKey + "/esc cancel")

	msg := lipgloss.NewStyle().
		Foreground(colorText).
		Render(c.Message)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorGold).
		Padding(1, 2).
		Width(c.width).
		Render(msg + "\n" + hint)
}
