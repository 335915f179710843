package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyEnter
	KeyQuit
	KeyHelp
	KeyRefresh

	KeyTab      // Tab cycles to the next view.
	KeyShiftTab // Shift+tab cycles to the previous view.

	KeyNewProject
	KeyNewTask
	KeyNewIdea
	KeyToggleTask
	KeyApprove
	KeyReject
	KeyFilterCycle
	KeyExportLogs

	// View jump keybindings (1-9).
	KeyViewOverview
	KeyViewProjects
	KeyViewTasks
	KeyViewIdeas
	KeyViewLogs
	KeyViewTokens
	KeyViewAgents
	KeyViewServices
	KeyViewCommits
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":        KeyUp,
	"k":         KeyUp,
	"down":      KeyDown,
	"j":         KeyDown,
	"enter":     KeyEnter,
	"q":         KeyQuit,
	"?":         KeyHelp,
	"r":         KeyRefresh,
	"tab":       KeyTab,
	"shift+tab": KeyShiftTab,
	"P":         KeyNewProject,
	"t":         KeyNewTask,
	"i":         KeyNewIdea,
	" ":         KeyToggleTask,
	"a":         KeyApprove,
	"x":         KeyReject,
	"f":         KeyFilterCycle,
	"e":         KeyExportLogs,
	"1":         KeyViewOverview,
	"2":         KeyViewProjects,
	"3":         KeyViewTasks,
	"4":         KeyViewIdeas,
	"5":         KeyViewLogs,
	"6":         KeyViewTokens,
	"7":         KeyViewAgents,
	"8":         KeyViewServices,
	"9":         KeyViewCommits,
}

// GlobalkeyBindings is a global, immutable map of KeyName to keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	KeyEnter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("↵", "open"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyRefresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	KeyTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	KeyShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	KeyNewProject: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "new project"),
	),
	KeyNewTask: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "new task"),
	),
	KeyNewIdea: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "new idea"),
	),
	KeyToggleTask: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	KeyApprove: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	KeyReject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject"),
	),
	KeyFilterCycle: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	KeyExportLogs: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	KeyViewOverview: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1-9", "jump to view"),
	),
	KeyViewProjects: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "projects"),
	),
	KeyViewTasks: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "tasks"),
	),
	KeyViewIdeas: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "ideas"),
	),
	KeyViewLogs: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "logs"),
	),
	KeyViewTokens: key.NewBinding(
		key.WithKeys("6"),
		key.WithHelp("6", "tokens"),
	),
	KeyViewAgents: key.NewBinding(
		key.WithKeys("7"),
		key.WithHelp("7", "agents"),
	),
	KeyViewServices: key.NewBinding(
		key.WithKeys("8"),
		key.WithHelp("8", "services"),
	),
	KeyViewCommits: key.NewBinding(
		key.WithKeys("9"),
		key.WithHelp("9", "commits"),
	),
}

// ViewJumpKeys maps the digit key names to their view index position.
var ViewJumpKeys = map[KeyName]int{
	KeyViewOverview: 0,
	KeyViewProjects: 1,
	KeyViewTasks:    2,
	KeyViewIdeas:    3,
	KeyViewLogs:     4,
	KeyViewTokens:   5,
	KeyViewAgents:   6,
	KeyViewServices: 7,
	KeyViewCommits:  8,
}
