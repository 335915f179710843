package ui

// View identifies one of the dashboard's screens. Polling is view-agnostic;
// the active view only decides what gets rendered.
type View int

const (
	ViewOverview View = iota
	ViewProjects
	ViewTasks
	ViewIdeas
	ViewLogs
	ViewTokens
	ViewAgents
	ViewServices
	ViewCommits

	viewCount
)

var viewNames = [viewCount]string{
	"overview",
	"projects",
	"tasks",
	"ideas",
	"logs",
	"tokens",
	"agents",
	"services",
	"commits",
}

// Name returns the view's nav label.
func (v View) Name() string {
	if v < 0 || v >= viewCount {
		return "unknown"
	}
	return viewNames[v]
}

// Views lists all views in nav order.
func Views() []View {
	out := make([]View, viewCount)
	for i := range out {
		out[i] = View(i)
	}
	return out
}

// IdeaFilter selects which ideas a render pass shows.
type IdeaFilter struct {
	// Assignee, when set, keeps only ideas assigned to that name.
	Assignee string
	// Status, when set, keeps only ideas in that status.
	Status string
}

// All reports whether the filter passes everything through.
func (f IdeaFilter) All() bool {
	return f.Assignee == "" && f.Status == ""
}

// Label returns the filter's display name for the ideas header.
func (f IdeaFilter) Label() string {
	switch {
	case f.Assignee != "":
		return f.Assignee
	case f.Status != "":
		return f.Status
	default:
		return "all"
	}
}
