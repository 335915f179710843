package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cosmobowz/cosmo/keys"
)

var keyStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

var descStyle = lipgloss.NewStyle().Foreground(ColorMuted)

var sepStyle = lipgloss.NewStyle().Foreground(ColorOverlay)

var actionGroupStyle = lipgloss.NewStyle().Foreground(ColorRose)

var separator = " • "
var verticalSeparator = " │ "

var menuStyle = lipgloss.NewStyle().
	Foreground(ColorFoam)

// Menu is the bottom keybind rail. Options change with the active view so
// the rail only ever shows actions that do something right now.
type Menu struct {
	options       []keys.KeyName
	actionSize    int
	height, width int
	overlayOpen   bool

	// keyDown is the key which is pressed. The default is -1.
	keyDown keys.KeyName
}

var systemGroup = []keys.KeyName{keys.KeyTab, keys.KeyHelp, keys.KeyQuit}

var overlayMenuOptions = []keys.KeyName{keys.KeyEnter}

func NewMenu() *Menu {
	m := &Menu{keyDown: -1}
	m.SetView(ViewOverview)
	return m
}

func (m *Menu) Keydown(name keys.KeyName) {
	m.keyDown = name
}

func (m *Menu) ClearKeydown() {
	m.keyDown = -1
}

// SetOverlayOpen switches the rail to the overlay submit hint.
func (m *Menu) SetOverlayOpen(open bool) {
	m.overlayOpen = open
}

// SetView rebuilds the option list for the given view.
func (m *Menu) SetView(view View) {
	var actions []keys.KeyName
	switch view {
	case ViewProjects:
		actions = []keys.KeyName{keys.KeyNewProject, keys.KeyEnter}
	case ViewTasks:
		actions = []keys.KeyName{keys.KeyNewTask, keys.KeyUp, keys.KeyDown, keys.KeyToggleTask}
	case ViewIdeas:
		actions = []keys.KeyName{keys.KeyNewIdea, keys.KeyUp, keys.KeyDown, keys.KeyApprove, keys.KeyFilterCycle}
	case ViewLogs:
		actions = []keys.KeyName{keys.KeyExportLogs}
	case ViewCommits:
		actions = []keys.KeyName{keys.KeyUp, keys.KeyDown, keys.KeyApprove, keys.KeyReject}
	default:
		actions = []keys.KeyName{keys.KeyRefresh}
	}
	m.actionSize = len(actions)
	m.options = append(actions, systemGroup...)
}

// SetSize sets the width of the window. The menu is centered horizontally
// within this width.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) String() string {
	options := m.options
	actionEnd := m.actionSize
	if m.overlayOpen {
		options = overlayMenuOptions
		actionEnd = len(options)
	}

	var s strings.Builder
	for i, k := range options {
		binding := keys.GlobalkeyBindings[k]
		help := binding.Help()

		var (
			localActionStyle = actionGroupStyle
			localKeyStyle    = keyStyle
			localDescStyle   = descStyle
		)
		if m.keyDown == k {
			localActionStyle = localActionStyle.Underline(true)
			localKeyStyle = localKeyStyle.Underline(true)
			localDescStyle = localDescStyle.Underline(true)
		}

		if i < actionEnd {
			s.WriteString(localActionStyle.Render(help.Key + " " + help.Desc))
		} else {
			s.WriteString(localKeyStyle.Render(help.Key))
			s.WriteString(descStyle.Render(" "))
			s.WriteString(localDescStyle.Render(help.Desc))
		}

		if i != len(options)-1 {
			if i == actionEnd-1 {
				s.WriteString(sepStyle.Render(verticalSeparator))
			} else {
				s.WriteString(sepStyle.Render(separator))
			}
		}
	}

	centeredMenuText := menuStyle.Render(s.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, centeredMenuText)
}
