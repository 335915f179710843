package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/ui"
	"github.com/cosmobowz/cosmo/ui/overlay"
)

// The mutation pipeline: validate, apply to the local mirror, re-render,
// then persist asynchronously. A failed persist surfaces as an error toast
// and a local snapshot write; the optimistic record is never rolled back.

func (m *home) formWidth() int {
	w := int(float32(m.termWidth) * 0.5)
	if w < 44 {
		w = 44
	}
	return w
}

func (m *home) openForm(f *overlay.FormOverlay) {
	m.formOverlay = f
	m.state = stateForm
	m.menu.SetOverlayOpen(true)
}

func (m *home) closeOverlays() {
	m.formOverlay = nil
	m.textOverlay = nil
	m.confirmationOverlay = nil
	m.pendingConfirmAction = nil
	m.pendingRejectID = 0
	m.state = stateDefault
	m.menu.SetOverlayOpen(false)
}

func (m *home) openNewProjectForm() {
	m.openForm(overlay.NewProjectForm(m.formWidth()))
}

func (m *home) openNewTaskForm() {
	projects := make([]string, 0, len(m.store.Projects()))
	for _, p := range m.store.Projects() {
		projects = append(projects, p.Name)
	}
	m.openForm(overlay.NewTaskForm(m.formWidth(), projects))
}

func (m *home) openNewIdeaForm() {
	m.openForm(overlay.NewIdeaForm(m.formWidth()))
}

// submitForm applies the submitted form optimistically and returns the
// persist command. Called from the key handler once the overlay closes.
func (m *home) submitForm() tea.Cmd {
	f := m.formOverlay
	if f == nil || !f.IsSubmitted() {
		return nil
	}

	switch f.Kind() {
	case overlay.FormProject:
		p := api.Project{
			ID:          api.NewID(),
			Name:        f.Title(),
			Description: f.Description(),
			Status:      f.Status(),
			Created:     time.Now().Format("2006-01-02"),
		}
		m.store.UpsertProject(p)
		m.toastManager.Success("project created")
		return tea.Batch(m.toastTickCmd(), m.persistProjectCmd(p))

	case overlay.FormTask:
		t := api.Task{
			ID:       api.NewID(),
			Title:    f.Title(),
			Project:  f.Project(),
			Priority: f.Priority(),
		}
		m.store.UpsertTask(t)
		m.toastManager.Success("task created")
		return tea.Batch(m.toastTickCmd(), m.persistTaskCmd(t))

	case overlay.FormIdea:
		i := m.newIdea(f.Title(), f.Description(), string(f.Priority()))
		m.store.UpsertIdea(i)
		m.toastManager.Success("idea created")
		return tea.Batch(m.toastTickCmd(), m.persistIdeaCmd(i))
	}
	return nil
}

// newIdea builds the optimistic record for a submitted idea form. CreatedBy
// mirrors the server's default so the local copy matches the row the server
// echoes back on the next poll.
func (m *home) newIdea(title, description, priority string) api.Idea {
	return api.Idea{
		ID:          api.NewID(),
		Title:       title,
		Description: description,
		Priority:    api.Priority(priority),
		Status:      api.IdeaOpen,
		Assignee:    m.appConfig.DefaultAssignee,
		CreatedBy:   m.appConfig.DefaultAssignee,
		Created:     time.Now().UnixMilli(),
	}
}

func (m *home) persistProjectCmd(p api.Project) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return persistDoneMsg{label: "project", err: client.CreateProject(ctx, p)}
	}
}

func (m *home) persistTaskCmd(t api.Task) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return persistDoneMsg{label: "task", err: client.CreateTask(ctx, t)}
	}
}

func (m *home) persistIdeaCmd(i api.Idea) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return persistDoneMsg{label: "idea", err: client.CreateIdea(ctx, i)}
	}
}

// toggleTask is the one pessimistic mutation: nothing changes locally until
// the server answers with the authoritative done value.
func (m *home) toggleTask(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		done, err := client.ToggleTask(ctx, id)
		return taskToggledMsg{id: id, done: done, err: err}
	}
}

func (m *home) approveIdea(id int64) tea.Cmd {
	var idea api.Idea
	found := false
	for _, i := range m.store.Ideas() {
		if i.ID == id {
			idea = i
			found = true
			break
		}
	}
	if !found || idea.Status != api.IdeaOpen {
		return nil
	}

	idea.Status = api.IdeaApproved
	idea.ApprovedAt = time.Now().UnixMilli()
	m.store.UpsertIdea(idea)
	m.toastManager.Success("idea approved")

	client := m.client
	plan := idea.Plan
	return tea.Batch(m.toastTickCmd(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return persistDoneMsg{label: "idea approval", err: client.ApproveIdea(ctx, id, plan)}
	})
}

func (m *home) viewIdeaPlan(id int64) tea.Cmd {
	for _, i := range m.store.Ideas() {
		if i.ID == id && i.Plan != "" {
			m.textOverlay = overlay.NewMarkdownOverlay(i.Plan, int(float32(m.termWidth)*0.6))
			m.state = stateText
			return nil
		}
	}
	return nil
}

func (m *home) openProjectDetail(id int64) tea.Cmd {
	for _, p := range m.store.Projects() {
		if p.ID == id {
			m.textOverlay = overlay.NewTextOverlay(ui.RenderProjectDetail(p, m.store.Tasks()))
			m.textOverlay.SetWidth(int(float32(m.termWidth) * 0.6))
			m.state = stateText
			return nil
		}
	}
	return nil
}

func (m *home) approveCommit(id int64) tea.Cmd {
	commit, ok := m.findPendingCommit(id)
	if !ok {
		return nil
	}
	commit.Status = api.CommitApproved
	m.store.UpsertCommit(commit)
	m.toastManager.Success("commit approved")

	client := m.client
	return tea.Batch(m.toastTickCmd(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return persistDoneMsg{label: "commit approval", err: client.ApproveCommit(ctx, id)}
	})
}

func (m *home) rejectCommit(id int64) tea.Cmd {
	commit, ok := m.findPendingCommit(id)
	if !ok {
		return nil
	}

	m.confirmationOverlay = overlay.NewConfirmationOverlay(
		fmt.Sprintf("Reject commit %q?", ui.Ellipsize(commit.Message, 40)))
	m.state = stateConfirm
	m.pendingConfirmAction = m.rejectCommitConfirmed(id)
	m.pendingRejectID = id
	return nil
}

// rejectCommitConfirmed builds the command run when the reject confirmation
// is accepted. The optimistic store write happens inside the key handler,
// before the command is returned to the runtime.
func (m *home) rejectCommitConfirmed(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return persistDoneMsg{label: "commit rejection", err: client.RejectCommit(ctx, id)}
	}
}

func (m *home) applyRejectCommit(id int64) {
	if commit, ok := m.findPendingCommit(id); ok {
		commit.Status = api.CommitRejected
		m.store.UpsertCommit(commit)
		m.toastManager.Info("commit rejected")
	}
}

func (m *home) findPendingCommit(id int64) (api.PendingCommit, bool) {
	for _, c := range m.store.Commits() {
		if c.ID == id && c.Status == api.CommitPending {
			return c, true
		}
	}
	return api.PendingCommit{}, false
}

// exportLogs copies the activity log to the clipboard in the export format.
func (m *home) exportLogs() tea.Cmd {
	logs := m.store.Logs()
	if len(logs) == 0 {
		m.toastManager.Info("no activity to export")
		return m.toastTickCmd()
	}
	if err := clipboard.WriteAll(ui.ExportLogs(logs)); err != nil {
		m.toastManager.Error("could not copy logs to clipboard")
		return m.toastTickCmd()
	}
	m.toastManager.Success(fmt.Sprintf("copied %d log entries", len(logs)))
	return m.toastTickCmd()
}

// refreshAll fetches every resource immediately without disturbing the
// recurring timers.
func (m *home) refreshAll() tea.Cmd {
	return tea.Batch(
		m.fetchDataCmd(),
		m.fetchIdeasCmd(),
		m.fetchSystemCmd(),
		m.fetchTokensCmd(),
		m.fetchUptimeCmd(),
		m.fetchGitHubCmd(),
		m.fetchSubagentsCmd(),
	)
}

// cycleIdeasFilter steps all -> assignee -> per-status -> all.
func (m *home) cycleIdeasFilter() {
	f := m.ideasFilter
	switch {
	case f.All():
		m.ideasFilter = ui.IdeaFilter{Assignee: m.appConfig.DefaultAssignee}
	case f.Assignee != "":
		m.ideasFilter = ui.IdeaFilter{Status: string(api.IdeaOpen)}
	case f.Status == string(api.IdeaOpen):
		m.ideasFilter = ui.IdeaFilter{Status: string(api.IdeaInProgress)}
	case f.Status == string(api.IdeaInProgress):
		m.ideasFilter = ui.IdeaFilter{Status: string(api.IdeaApproved)}
	case f.Status == string(api.IdeaApproved):
		m.ideasFilter = ui.IdeaFilter{Status: string(api.IdeaDone)}
	default:
		m.ideasFilter = ui.IdeaFilter{}
	}
	m.cursor[ui.ViewIdeas] = 0
}

func (m *home) openHelp() {
	m.textOverlay = overlay.NewTextOverlay(helpText)
	m.textOverlay.SetWidth(56)
	m.state = stateHelp
}

const helpText = `Cosmo Command Center

  tab / shift+tab   cycle views
  1-9               jump to view
  ↑/k ↓/j           move selection
  space             toggle selected task
  P / t / i         new project / task / idea
  a                 approve selected idea or commit
  x                 reject selected commit
  f                 cycle ideas filter
  e                 export logs to clipboard
  r                 refresh everything now
  q                 quit`
