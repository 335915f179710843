package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/config"
	"github.com/cosmobowz/cosmo/poll"
	"github.com/cosmobowz/cosmo/push"
	"github.com/cosmobowz/cosmo/store"
	"github.com/cosmobowz/cosmo/ui"
	"github.com/cosmobowz/cosmo/ui/overlay"
)

// newTestHome builds a home without touching the config dir or the network.
// The client points at a closed port; tests never execute the returned cmds.
func newTestHome() *home {
	h := &home{
		appConfig:  config.DefaultConfig(),
		client:     api.NewClient("http://127.0.0.1:1", time.Second),
		store:      store.New(),
		scheduler:  poll.NewScheduler(),
		channel:    push.New("ws://127.0.0.1:1/ws"),
		spinner:    spinner.New(),
		menu:       ui.NewMenu(),
		state:      stateDefault,
		activeView: ui.ViewOverview,
		cursor:     make(map[ui.View]int),
		now:        time.Now(),
	}
	h.toastManager = overlay.NewToastManager(&h.spinner)
	return h
}

func seedTasks(h *home, n int) {
	tasks := make([]api.Task, n)
	for i := range tasks {
		tasks[i] = api.Task{ID: int64(i + 1), Title: "task"}
	}
	h.store.LoadSnapshot(api.DataSnapshot{Tasks: tasks})
}

func TestMoveCursor_StaysInBounds(t *testing.T) {
	h := newTestHome()
	h.activeView = ui.ViewTasks
	seedTasks(h, 3)

	h.moveCursor(-1)
	assert.Equal(t, 0, h.cursor[ui.ViewTasks], "cursor never goes below zero")

	h.moveCursor(1)
	h.moveCursor(1)
	h.moveCursor(1)
	assert.Equal(t, 2, h.cursor[ui.ViewTasks], "cursor stops at the last row")
}

func TestMoveCursor_NoopOnCursorlessView(t *testing.T) {
	h := newTestHome()
	h.activeView = ui.ViewOverview
	h.moveCursor(1)
	assert.Equal(t, 0, h.cursor[ui.ViewOverview])
}

func TestClampCursor_AfterListShrinks(t *testing.T) {
	h := newTestHome()
	h.activeView = ui.ViewTasks
	seedTasks(h, 5)
	h.cursor[ui.ViewTasks] = 4

	seedTasks(h, 2)
	h.clampCursor(ui.ViewTasks)
	assert.Equal(t, 1, h.cursor[ui.ViewTasks])

	seedTasks(h, 0)
	h.clampCursor(ui.ViewTasks)
	assert.Equal(t, 0, h.cursor[ui.ViewTasks])
}

func TestCycleIdeasFilter_Sequence(t *testing.T) {
	h := newTestHome()
	h.cursor[ui.ViewIdeas] = 3

	want := []ui.IdeaFilter{
		{Assignee: "Bowz"},
		{Status: string(api.IdeaOpen)},
		{Status: string(api.IdeaInProgress)},
		{Status: string(api.IdeaApproved)},
		{Status: string(api.IdeaDone)},
		{},
	}
	for i, expected := range want {
		h.cycleIdeasFilter()
		assert.Equal(t, expected, h.ideasFilter, "step %d", i)
	}
	assert.Equal(t, 0, h.cursor[ui.ViewIdeas], "cycling resets the selection")
}

func TestDispatchZone_ResolvesThroughHandlerTable(t *testing.T) {
	h := newTestHome()
	var gotKind string
	var gotID int64
	h.zoneHandlers = map[string]func(id int64) tea.Cmd{
		"tasks:toggle": func(id int64) tea.Cmd {
			gotKind, gotID = "tasks:toggle", id
			return nil
		},
	}

	h.dispatchZone(ui.ActionZoneID("tasks", "toggle", 42))
	assert.Equal(t, "tasks:toggle", gotKind)
	assert.Equal(t, int64(42), gotID)
}

func TestDispatchZone_UnknownOrMalformedIsNil(t *testing.T) {
	h := newTestHome()
	h.zoneHandlers = map[string]func(id int64) tea.Cmd{}
	assert.Nil(t, h.dispatchZone("not-a-zone"))
	assert.Nil(t, h.dispatchZone(ui.ActionZoneID("mystery", "poke", 1)))
}

func TestVisibleZoneIDs_FollowActiveView(t *testing.T) {
	h := newTestHome()
	h.store.LoadSnapshot(api.DataSnapshot{
		Projects: []api.Project{{ID: 1, Name: "dashboard"}},
		Tasks:    []api.Task{{ID: 10, Title: "wire it"}},
	})
	h.store.ReplaceCommits([]api.PendingCommit{{ID: 7, Status: api.CommitPending}})

	h.activeView = ui.ViewProjects
	assert.Equal(t, []string{ui.ActionZoneID("projects", "open", 1)}, h.visibleZoneIDs())

	h.activeView = ui.ViewTasks
	assert.Equal(t, []string{ui.ActionZoneID("tasks", "toggle", 10)}, h.visibleZoneIDs())

	h.activeView = ui.ViewCommits
	assert.Equal(t, []string{
		ui.ActionZoneID("github", "approve", 7),
		ui.ActionZoneID("github", "reject", 7),
	}, h.visibleZoneIDs())

	h.activeView = ui.ViewOverview
	assert.Empty(t, h.visibleZoneIDs())
}

func TestPersistFailure_KeepsOptimisticRecord(t *testing.T) {
	h := newTestHome()
	h.store.ReplaceIdeas([]api.Idea{{ID: 1, Title: "dark mode", Status: api.IdeaOpen}})

	_, cmd := h.Update(persistDoneMsg{label: "idea", err: assert.AnError})

	require.Len(t, h.store.Ideas(), 1, "a failed persist never rolls back the mirror")
	assert.True(t, h.toastManager.HasActiveToasts(), "the failure surfaces as a toast")
	assert.NotNil(t, cmd)
}

func TestTaskToggled_AppliesServerValue(t *testing.T) {
	h := newTestHome()
	h.store.LoadSnapshot(api.DataSnapshot{
		Tasks: []api.Task{{ID: 1, Title: "deploy", Done: false}},
	})

	// The server answers false even though a local flip would say true.
	h.Update(taskToggledMsg{id: 1, done: false})

	require.Len(t, h.store.Tasks(), 1)
	assert.False(t, h.store.Tasks()[0].Done)
}

func TestApproveIdea_OnlyOpenIdeas(t *testing.T) {
	h := newTestHome()
	h.store.ReplaceIdeas([]api.Idea{
		{ID: 1, Title: "dark mode", Status: api.IdeaOpen},
		{ID: 2, Title: "done already", Status: api.IdeaDone},
	})

	require.NotNil(t, h.approveIdea(1))
	assert.Nil(t, h.approveIdea(2), "non-open ideas cannot be approved")
	assert.Nil(t, h.approveIdea(999))

	var approved api.Idea
	for _, i := range h.store.Ideas() {
		if i.ID == 1 {
			approved = i
		}
	}
	assert.Equal(t, api.IdeaApproved, approved.Status)
	assert.NotZero(t, approved.ApprovedAt)
}

func TestRejectCommit_RequiresConfirmation(t *testing.T) {
	h := newTestHome()
	h.store.ReplaceCommits([]api.PendingCommit{
		{ID: 7, Message: "rm -rf the prod database", Status: api.CommitPending},
	})

	cmd := h.rejectCommit(7)
	assert.Nil(t, cmd, "rejection waits for the confirmation modal")
	assert.Equal(t, stateConfirm, h.state)
	require.NotNil(t, h.confirmationOverlay)
	assert.Equal(t, int64(7), h.pendingRejectID)
	// The store is untouched until the user confirms.
	assert.Equal(t, api.CommitPending, h.store.Commits()[0].Status)

	h.applyRejectCommit(h.pendingRejectID)
	assert.Equal(t, api.CommitRejected, h.store.Commits()[0].Status)
}

func TestApproveCommit_OptimisticWrite(t *testing.T) {
	h := newTestHome()
	h.store.ReplaceCommits([]api.PendingCommit{
		{ID: 7, Message: "fix typo", Status: api.CommitPending},
	})

	require.NotNil(t, h.approveCommit(7))
	assert.Equal(t, api.CommitApproved, h.store.Commits()[0].Status)

	assert.Nil(t, h.approveCommit(7), "an already reviewed commit has no pending record")
}

func TestPushNewActivity_PrependsAndToasts(t *testing.T) {
	h := newTestHome()

	entry := api.LogEntry{Time: time.Now(), Type: api.LogSuccess, Message: "deploy finished"}
	h.handlePushEvent(push.Event{Type: push.EventNewActivity, Activity: entry})

	logs := h.store.Logs()
	require.NotEmpty(t, logs)
	assert.Equal(t, "deploy finished", logs[0].Message)
	assert.True(t, h.toastManager.HasActiveToasts())
}

func TestPushNewActivity_NotificationsDisabled(t *testing.T) {
	h := newTestHome()
	off := false
	h.appConfig.NotificationsEnabled = &off

	entry := api.LogEntry{Time: time.Now(), Type: api.LogInfo, Message: "quiet"}
	h.handlePushEvent(push.Event{Type: push.EventNewActivity, Activity: entry})

	assert.Equal(t, "quiet", h.store.Logs()[0].Message)
	assert.False(t, h.toastManager.HasActiveToasts(), "muted dashboards still record the entry")
}

func TestPushConnectDisconnect_TracksOnlineFlag(t *testing.T) {
	h := newTestHome()

	h.handlePushEvent(push.Event{Type: push.EventConnect})
	assert.True(t, h.pushOnline)

	h.handlePushEvent(push.Event{Type: push.EventDisconnect})
	assert.False(t, h.pushOnline)
}

func TestSnapshotLoaded_LiveDataWins(t *testing.T) {
	h := newTestHome()
	h.store.LoadSnapshot(api.DataSnapshot{
		Tasks: []api.Task{{ID: 1, Title: "live"}},
	})
	h.dataLoaded = true

	h.handleSnapshotLoaded(snapshotLoadedMsg{
		snap: api.DataSnapshot{Tasks: []api.Task{{ID: 2, Title: "stale"}}},
	})

	require.Len(t, h.store.Tasks(), 1)
	assert.Equal(t, "live", h.store.Tasks()[0].Title)
}

func TestSnapshotLoaded_FallbackWarnsOnce(t *testing.T) {
	h := newTestHome()

	h.handleSnapshotLoaded(snapshotLoadedMsg{
		snap: api.DataSnapshot{Tasks: []api.Task{{ID: 2, Title: "saved"}}},
	})

	assert.Equal(t, "saved", h.store.Tasks()[0].Title)
	assert.True(t, h.toastManager.HasActiveToasts())
}

func TestHandlePollTick_UnknownTaskIsNil(t *testing.T) {
	h := newTestHome()
	assert.Nil(t, h.handlePollTick("never-registered"))
}

func TestSetView_SyncsMenu(t *testing.T) {
	h := newTestHome()
	h.setView(ui.ViewIdeas)
	assert.Equal(t, ui.ViewIdeas, h.activeView)
}

func TestNewHome_ZeroPollIntervalsStillSchedule(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	// A config.json written before the poll section existed unmarshals with
	// every interval at zero. All six timers must still run on defaults.
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(`{"server_url":"http://127.0.0.1:1"}`), &cfg))

	h := newHome(context.Background(), &cfg)
	for _, task := range []string{
		poll.TaskData, poll.TaskSystem, poll.TaskTokens,
		poll.TaskUptime, poll.TaskGitHub, poll.TaskSubagents,
	} {
		assert.True(t, h.scheduler.Active(task), "%s should be scheduled", task)
		assert.NotNil(t, h.scheduler.Next(task), "%s should re-arm", task)
	}
}

func TestNewIdea_CarriesAuthorAndAssignee(t *testing.T) {
	h := newTestHome()

	i := h.newIdea("dark mode", "invert the palette", "high")

	assert.Equal(t, "dark mode", i.Title)
	assert.Equal(t, "invert the palette", i.Description)
	assert.Equal(t, "high", i.Priority)
	assert.Equal(t, api.IdeaOpen, i.Status)
	assert.Equal(t, "Bowz", i.Assignee)
	assert.Equal(t, "Bowz", i.CreatedBy, "local record must match the server's createdBy default")
	assert.NotZero(t, i.ID)
	assert.NotZero(t, i.Created)
}
