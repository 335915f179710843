package app

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/log"
	"github.com/cosmobowz/cosmo/poll"
	"github.com/cosmobowz/cosmo/push"
	"github.com/cosmobowz/cosmo/ui"
	"github.com/cosmobowz/cosmo/ui/overlay"
)

// clockTickMsg drives the status bar clock, once per second.
type clockTickMsg time.Time

// keyupMsg clears the menu keydown underline shortly after a press.
type keyupMsg struct{}

// pushEventMsg wraps one event read off the push channel.
type pushEventMsg struct {
	event push.Event
}

// Fetch results. Failures are silent: they are logged, the stale mirror keeps
// rendering, and the next tick retries.
type dataFetchedMsg struct {
	snap api.DataSnapshot
	err  error
}

type ideasFetchedMsg struct {
	ideas []api.Idea
	err   error
}

type systemFetchedMsg struct {
	stats api.SystemStats
	err   error
}

type tokensFetchedMsg struct {
	report api.TokenReport
	err    error
}

type uptimeFetchedMsg struct {
	services []api.ServiceStatus
	err      error
}

type githubFetchedMsg struct {
	commits []api.PendingCommit
	err     error
}

type subagentsFetchedMsg struct {
	agents []api.Subagent
	err    error
}

// snapshotLoadedMsg carries the offline snapshot when the first data fetch
// fails.
type snapshotLoadedMsg struct {
	snap api.DataSnapshot
	err  error
}

// taskToggledMsg carries the server's authoritative done value.
type taskToggledMsg struct {
	id   int64
	done bool
	err  error
}

// persistDoneMsg reports the outcome of an optimistic write's server call.
type persistDoneMsg struct {
	label string
	err   error
}

func (m *home) tickClockCmd() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(time.Second)
		return clockTickMsg(time.Now())
	}
}

func (m *home) toastTickCmd() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(50 * time.Millisecond)
		return overlay.ToastTickMsg{}
	}
}

func keyupCmd() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(150 * time.Millisecond)
		return keyupMsg{}
	}
}

// waitForPush blocks on the push channel and resolves to the next event. The
// handler re-issues it, so exactly one consumer is pending at any time.
func (m *home) waitForPush() tea.Cmd {
	events := m.channel.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return pushEventMsg{event: ev}
	}
}

// handlePollTick issues the fetches for one named task and re-arms its timer.
// The timer chain is tick-driven: a fetch still in flight when the next tick
// lands just means two results apply in sequence, last write wins.
func (m *home) handlePollTick(task string) tea.Cmd {
	var fetch tea.Cmd
	switch task {
	case poll.TaskData:
		fetch = tea.Batch(m.fetchDataCmd(), m.fetchIdeasCmd())
	case poll.TaskSystem:
		fetch = m.fetchSystemCmd()
	case poll.TaskTokens:
		fetch = m.fetchTokensCmd()
	case poll.TaskUptime:
		fetch = m.fetchUptimeCmd()
	case poll.TaskGitHub:
		fetch = m.fetchGitHubCmd()
	case poll.TaskSubagents:
		fetch = m.fetchSubagentsCmd()
	default:
		return nil
	}
	return tea.Batch(fetch, m.scheduler.Next(task))
}

func (m *home) fetchDataCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		snap, err := client.Data(ctx)
		return dataFetchedMsg{snap: snap, err: err}
	}
}

func (m *home) fetchIdeasCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		ideas, err := client.Ideas(ctx)
		return ideasFetchedMsg{ideas: ideas, err: err}
	}
}

func (m *home) fetchSystemCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		stats, err := client.System(ctx)
		return systemFetchedMsg{stats: stats, err: err}
	}
}

func (m *home) fetchTokensCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		report, err := client.Tokens(ctx)
		return tokensFetchedMsg{report: report, err: err}
	}
}

func (m *home) fetchUptimeCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		services, err := client.Uptime(ctx)
		return uptimeFetchedMsg{services: services, err: err}
	}
}

func (m *home) fetchGitHubCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		commits, err := client.PendingCommits(ctx)
		return githubFetchedMsg{commits: commits, err: err}
	}
}

func (m *home) fetchSubagentsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		agents, err := client.Subagents(ctx)
		return subagentsFetchedMsg{agents: agents, err: err}
	}
}

// loadSnapshotCmd reads the offline sqlite mirror.
func (m *home) loadSnapshotCmd() tea.Cmd {
	snaps := m.snapshots
	return func() tea.Msg {
		snap, err := snaps.Load()
		return snapshotLoadedMsg{snap: snap, err: err}
	}
}

// writeSnapshotCmd persists the current mirror to sqlite. Used as the local
// fallback whenever a server write fails, and after every successful data
// fetch so the snapshot tracks the server.
func (m *home) writeSnapshotCmd() tea.Cmd {
	if m.snapshots == nil {
		return nil
	}
	snaps := m.snapshots
	snap := m.store.Snapshot()
	return func() tea.Msg {
		if err := snaps.Write(snap); err != nil {
			log.WarningLog.Printf("snapshot write failed: %v", err)
		}
		return nil
	}
}

func (m *home) handleDataFetched(msg dataFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorLog.Printf("data fetch failed: %v", msg.err)
		if !m.dataLoaded && m.snapshots != nil {
			return m, m.loadSnapshotCmd()
		}
		return m, nil
	}
	m.store.LoadSnapshot(msg.snap)
	m.dataLoaded = true
	m.clampCursor(ui.ViewTasks)
	return m, m.writeSnapshotCmd()
}

func (m *home) handleSnapshotLoaded(msg snapshotLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorLog.Printf("snapshot load failed: %v", msg.err)
		return m, nil
	}
	if m.dataLoaded {
		// The server answered while the snapshot read was in flight; the
		// live data wins.
		return m, nil
	}
	m.store.LoadSnapshot(msg.snap)
	m.toastManager.Warning("server unreachable, showing saved snapshot")
	return m, m.toastTickCmd()
}

func (m *home) handlePushEvent(ev push.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForPush()}

	switch ev.Type {
	case push.EventConnect:
		m.pushOnline = true
		m.toastManager.Info("live updates connected")
		cmds = append(cmds, m.toastTickCmd())
	case push.EventDisconnect:
		m.pushOnline = false
	case push.EventUpdate:
		if cmd := m.handlePushUpdate(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case push.EventNewActivity:
		m.store.PrependLog(ev.Activity)
		if m.appConfig.AreNotificationsEnabled() {
			m.toastManager.Activity(ev.Activity)
			cmds = append(cmds, m.toastTickCmd())
		}
	}

	return m, tea.Batch(cmds...)
}

// handlePushUpdate reacts to a tagged update hint. System stats ride in the
// event payload directly; everything else triggers an immediate refetch of
// the tagged resource.
func (m *home) handlePushUpdate(ev push.Event) tea.Cmd {
	if ev.Tag == "system-stats" && len(ev.Data) > 0 {
		var stats api.SystemStats
		if err := json.Unmarshal(ev.Data, &stats); err != nil {
			log.WarningLog.Printf("bad system-stats push payload: %v", err)
			return nil
		}
		m.store.SetSystem(stats)
		return nil
	}

	switch ev.Tag {
	case "tokens":
		return m.fetchTokensCmd()
	case "uptime", "services":
		return m.fetchUptimeCmd()
	case "github", "commits":
		return m.fetchGitHubCmd()
	case "subagents":
		return m.fetchSubagentsCmd()
	case "ideas":
		return m.fetchIdeasCmd()
	default:
		// Unknown tags refresh the aggregate data set.
		return m.fetchDataCmd()
	}
}
