package app

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/keys"
	"github.com/cosmobowz/cosmo/ui"
)

func (m *home) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.handleQuit()
	}

	switch m.state {
	case stateForm:
		if m.formOverlay != nil && m.formOverlay.HandleKeyPress(msg) {
			cmd := m.submitForm()
			m.closeOverlays()
			return m, cmd
		}
		return m, nil

	case stateText, stateHelp:
		if m.textOverlay != nil && m.textOverlay.HandleKeyPress(msg) {
			m.closeOverlays()
		}
		return m, nil

	case stateConfirm:
		if m.confirmationOverlay == nil {
			m.closeOverlays()
			return m, nil
		}
		confirmed := false
		m.confirmationOverlay.OnConfirm = func() { confirmed = true }
		if m.confirmationOverlay.HandleKeyPress(msg) {
			var cmd tea.Cmd
			if confirmed {
				cmd = m.runConfirmedAction()
			}
			m.closeOverlays()
			return m, cmd
		}
		return m, nil
	}

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}
	m.menu.Keydown(name)
	cmds := []tea.Cmd{keyupCmd()}

	switch name {
	case keys.KeyQuit:
		return m.handleQuit()

	case keys.KeyHelp:
		m.openHelp()

	case keys.KeyTab:
		m.setView((m.activeView + 1) % ui.View(len(ui.Views())))

	case keys.KeyShiftTab:
		n := ui.View(len(ui.Views()))
		m.setView((m.activeView + n - 1) % n)

	case keys.KeyUp:
		m.moveCursor(-1)

	case keys.KeyDown:
		m.moveCursor(1)

	case keys.KeyRefresh:
		cmds = append(cmds, m.refreshAll())

	case keys.KeyNewProject:
		m.openNewProjectForm()

	case keys.KeyNewTask:
		m.openNewTaskForm()

	case keys.KeyNewIdea:
		m.openNewIdeaForm()

	case keys.KeyToggleTask:
		if m.activeView == ui.ViewTasks {
			if t, ok := m.selectedTask(); ok {
				cmds = append(cmds, m.toggleTask(t.ID))
			}
		}

	case keys.KeyEnter:
		switch m.activeView {
		case ui.ViewTasks:
			if t, ok := m.selectedTask(); ok {
				cmds = append(cmds, m.toggleTask(t.ID))
			}
		case ui.ViewIdeas:
			if i, ok := m.selectedIdea(); ok && i.Plan != "" {
				cmds = append(cmds, m.viewIdeaPlan(i.ID))
			}
		}

	case keys.KeyApprove:
		switch m.activeView {
		case ui.ViewIdeas:
			if i, ok := m.selectedIdea(); ok {
				cmds = append(cmds, m.approveIdea(i.ID))
			}
		case ui.ViewCommits:
			if c, ok := m.selectedCommit(); ok {
				cmds = append(cmds, m.approveCommit(c.ID))
			}
		}

	case keys.KeyReject:
		if m.activeView == ui.ViewCommits {
			if c, ok := m.selectedCommit(); ok {
				cmds = append(cmds, m.rejectCommit(c.ID))
			}
		}

	case keys.KeyFilterCycle:
		if m.activeView == ui.ViewIdeas {
			m.cycleIdeasFilter()
		}

	case keys.KeyExportLogs:
		if m.activeView == ui.ViewLogs {
			cmds = append(cmds, m.exportLogs())
		}

	default:
		if idx, ok := keys.ViewJumpKeys[name]; ok {
			m.setView(ui.View(idx))
		}
	}

	return m, tea.Batch(cmds...)
}

// runConfirmedAction applies the confirmed mutation's optimistic store write
// and returns its persist command. Only commit rejection flows through here
// today.
func (m *home) runConfirmedAction() tea.Cmd {
	cmd := m.pendingConfirmAction
	if cmd == nil {
		return nil
	}
	if m.pendingRejectID != 0 {
		m.applyRejectCommit(m.pendingRejectID)
	}
	return tea.Batch(cmd, m.toastTickCmd())
}

func (m *home) setView(v ui.View) {
	m.activeView = v
	m.menu.SetView(v)
}

// moveCursor shifts the keyboard selection for views that have one.
func (m *home) moveCursor(delta int) {
	var n int
	switch m.activeView {
	case ui.ViewTasks:
		n = len(m.store.Tasks())
	case ui.ViewIdeas:
		n = len(ui.FilterIdeas(m.store.Ideas(), m.ideasFilter))
	case ui.ViewCommits:
		n = len(m.store.Commits())
	default:
		return
	}
	if n == 0 {
		return
	}
	c := m.cursor[m.activeView] + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	m.cursor[m.activeView] = c
}

func (m *home) selectedTask() (api.Task, bool) {
	tasks := m.store.Tasks()
	idx := m.cursor[ui.ViewTasks]
	if idx < 0 || idx >= len(tasks) {
		return api.Task{}, false
	}
	return tasks[idx], true
}

func (m *home) selectedIdea() (api.Idea, bool) {
	ideas := ui.FilterIdeas(m.store.Ideas(), m.ideasFilter)
	idx := m.cursor[ui.ViewIdeas]
	if idx < 0 || idx >= len(ideas) {
		return api.Idea{}, false
	}
	return ideas[idx], true
}

func (m *home) selectedCommit() (api.PendingCommit, bool) {
	commits := m.store.Commits()
	idx := m.cursor[ui.ViewCommits]
	if idx < 0 || idx >= len(commits) {
		return api.PendingCommit{}, false
	}
	return commits[idx], true
}

func (m *home) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateDefault {
		return m, nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for _, v := range ui.Views() {
		if zone.Get(ui.NavZoneID(v)).InBounds(msg) {
			m.setView(v)
			return m, nil
		}
	}

	for _, id := range m.visibleZoneIDs() {
		if zone.Get(id).InBounds(msg) {
			return m, m.dispatchZone(id)
		}
	}
	return m, nil
}

// visibleZoneIDs enumerates every interactive zone the active view rendered.
// The ids mirror what the renderers marked; hit-testing walks this list.
func (m *home) visibleZoneIDs() []string {
	var ids []string
	switch m.activeView {
	case ui.ViewProjects:
		for _, p := range m.store.Projects() {
			ids = append(ids, ui.ActionZoneID("projects", "open", p.ID))
		}
	case ui.ViewTasks:
		for _, t := range m.store.Tasks() {
			ids = append(ids, ui.ActionZoneID("tasks", "toggle", t.ID))
		}
	case ui.ViewIdeas:
		for _, i := range ui.FilterIdeas(m.store.Ideas(), m.ideasFilter) {
			ids = append(ids, ui.ActionZoneID("ideas", "approve", i.ID))
			ids = append(ids, ui.ActionZoneID("ideas", "plan", i.ID))
		}
	case ui.ViewCommits:
		for _, c := range m.store.Commits() {
			ids = append(ids, ui.ActionZoneID("github", "approve", c.ID))
			ids = append(ids, ui.ActionZoneID("github", "reject", c.ID))
		}
	}
	return ids
}

// dispatchZone resolves a clicked zone id through the handler table.
func (m *home) dispatchZone(zoneID string) tea.Cmd {
	kind, action, id, ok := ui.ParseZoneID(zoneID)
	if !ok {
		return nil
	}
	handler, ok := m.zoneHandlers[kind+":"+action]
	if !ok {
		return nil
	}
	return handler(id)
}
