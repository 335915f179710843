package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cosmobowz/cosmo/api"
)

// FormKind identifies which record a FormOverlay creates.
type FormKind int

const (
	FormProject FormKind = iota
	FormTask
	FormIdea
)

// FormOverlay is a multi-field creation form backed by huh.Form. One
// overlay type covers projects, tasks, and ideas; the kind decides which
// fields are shown and which values the caller reads back.
type FormOverlay struct {
	form *huh.Form
	kind FormKind

	titleVal    string
	descVal     string
	statusVal   string
	projectVal  string
	priorityVal string

	title     string
	submitted bool
	canceled  bool
	width     int
}

func priorityOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("low", string(api.PriorityLow)),
		huh.NewOption("medium", string(api.PriorityMedium)),
		huh.NewOption("high", string(api.PriorityHigh)),
	}
}

// NewProjectForm creates the new-project overlay.
func NewProjectForm(width int) *FormOverlay {
	f := &FormOverlay{
		kind:      FormProject,
		title:     "New Project",
		width:     width,
		statusVal: string(api.ProjectPlanning),
	}

	statusOpts := make([]huh.Option[string], 0, len(api.BoardColumns))
	for _, s := range api.BoardColumns {
		statusOpts = append(statusOpts, huh.NewOption(string(s), string(s)))
	}

	f.build(
		huh.NewInput().
			Key("name").
			Title("name").
			Value(&f.titleVal),
		huh.NewInput().
			Key("desc").
			Title("description (optional)").
			Value(&f.descVal),
		huh.NewSelect[string]().
			Key("status").
			Title("status").
			Options(statusOpts...).
			Value(&f.statusVal),
	)
	return f
}

// NewTaskForm creates the new-task overlay. projects feeds the project
// select; an empty list leaves the task unassigned.
func NewTaskForm(width int, projects []string) *FormOverlay {
	f := &FormOverlay{
		kind:        FormTask,
		title:       "New Task",
		width:       width,
		priorityVal: string(api.PriorityMedium),
	}

	projectOpts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, p := range projects {
		projectOpts = append(projectOpts, huh.NewOption(p, p))
	}

	f.build(
		huh.NewInput().
			Key("title").
			Title("title").
			Value(&f.titleVal),
		huh.NewSelect[string]().
			Key("project").
			Title("project").
			Options(projectOpts...).
			Value(&f.projectVal),
		huh.NewSelect[string]().
			Key("priority").
			Title("priority").
			Options(priorityOptions()...).
			Value(&f.priorityVal),
	)
	return f
}

// NewIdeaForm creates the new-idea overlay.
func NewIdeaForm(width int) *FormOverlay {
	f := &FormOverlay{
		kind:        FormIdea,
		title:       "New Idea",
		width:       width,
		priorityVal: string(api.PriorityMedium),
	}

	f.build(
		huh.NewInput().
			Key("title").
			Title("title").
			Value(&f.titleVal),
		huh.NewInput().
			Key("desc").
			Title("description (optional)").
			Value(&f.descVal),
		huh.NewSelect[string]().
			Key("priority").
			Title("priority").
			Options(priorityOptions()...).
			Value(&f.priorityVal),
	)
	return f
}

func (f *FormOverlay) build(fields ...huh.Field) {
	formWidth := f.width - 6
	if formWidth < 34 {
		formWidth = 34
	}

	f.form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(ThemeRosePine()).
		WithWidth(formWidth).
		WithShowHelp(false).
		WithShowErrors(false)

	_ = f.form.Init()
}

func (f *FormOverlay) updateForm(msg tea.Msg) {
	updated, _ := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
}

// HandleKeyPress processes a key and returns true when the overlay should close.
func (f *FormOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		f.canceled = true
		return true

	case tea.KeyEnter:
		if strings.TrimSpace(f.titleVal) == "" {
			return false
		}
		f.submitted = true
		return true

	case tea.KeyTab, tea.KeyDown:
		f.updateForm(huh.NextField())
		return false

	case tea.KeyShiftTab, tea.KeyUp:
		f.updateForm(huh.PrevField())
		return false

	default:
		f.updateForm(msg)
		return false
	}
}

// Render returns the styled overlay string.
func (f *FormOverlay) Render() string {
	w := f.width
	if w < 40 {
		w = 40
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(colorIris).
		Bold(true).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1)

	content := titleStyle.Render(f.title) + "\n"
	content += f.form.View() + "\n"
	content += hintStyle.Render("tab/↑↓ navigate · enter create · esc cancel")

	style := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorIris).
		Padding(1, 2).
		Width(w)

	return style.Render(content)
}

// Kind returns which record this form creates.
func (f *FormOverlay) Kind() FormKind {
	return f.kind
}

// Title returns the name/title field value.
func (f *FormOverlay) Title() string {
	return strings.TrimSpace(f.titleVal)
}

// Description returns the description field value.
func (f *FormOverlay) Description() string {
	return strings.TrimSpace(f.descVal)
}

// Status returns the selected project status.
func (f *FormOverlay) Status() api.ProjectStatus {
	return api.ProjectStatus(f.statusVal)
}

// Project returns the selected project name.
func (f *FormOverlay) Project() string {
	return f.projectVal
}

// Priority returns the selected priority.
func (f *FormOverlay) Priority() api.Priority {
	return api.Priority(f.priorityVal)
}

// IsSubmitted returns true when the form was submitted.
func (f *FormOverlay) IsSubmitted() bool {
	return f.submitted
}

// IsCanceled returns true when the form was dismissed without submitting.
func (f *FormOverlay) IsCanceled() bool {
	return f.canceled
}
