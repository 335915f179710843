package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/config"
	"github.com/cosmobowz/cosmo/config/snapshot"
	"github.com/cosmobowz/cosmo/log"
	"github.com/cosmobowz/cosmo/poll"
	"github.com/cosmobowz/cosmo/push"
	"github.com/cosmobowz/cosmo/store"
	"github.com/cosmobowz/cosmo/ui"
	"github.com/cosmobowz/cosmo/ui/overlay"
)

// fetchTimeout bounds every poll request. A slow server loses the tick and
// gets retried on the next one.
const fetchTimeout = 10 * time.Second

// Run is the main entrypoint into the dashboard.
func Run(ctx context.Context, appConfig *config.Config) error {
	// Set the terminal's default background to the theme base color so every
	// ANSI reset and unstyled cell falls back to #232136 instead of black.
	restore := ui.SetTerminalBackground(string(ui.ColorBase))
	defer restore()

	zone.NewGlobal()
	p := tea.NewProgram(
		newHome(ctx, appConfig),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(), // full mouse tracking for click zones
	)
	_, err := p.Run()
	return err
}

type state int

const (
	stateDefault state = iota
	// stateForm is the state when a creation form overlay is open.
	stateForm
	// stateText is the state when a read-only text overlay is open.
	stateText
	// stateHelp is the state when the help screen is displayed.
	stateHelp
	// stateConfirm is the state when a confirmation modal is displayed.
	stateConfirm
)

type home struct {
	ctx context.Context

	// -- Storage and configuration --

	// appConfig stores persistent application configuration
	appConfig *config.Config
	// client is the gateway to the command center server
	client *api.Client
	// store is the local mirror every render reads from
	store *store.Store
	// scheduler owns the named recurring poll tasks
	scheduler *poll.Scheduler
	// channel is the websocket push feed; nil events chan never fires when
	// the server has no push endpoint configured
	channel *push.Channel
	// snapshots is the offline sqlite mirror. Nil when the config dir is
	// unavailable; every use is guarded.
	snapshots *snapshot.Store

	// -- State --

	// state is the current discrete state of the application
	state state
	// activeView selects which screen renders; polling ignores it
	activeView ui.View
	// ideasFilter is the current ideas view filter
	ideasFilter ui.IdeaFilter
	// cursor tracks the keyboard selection per view
	cursor map[ui.View]int

	// pushOnline mirrors the websocket connection for the status indicator
	pushOnline bool
	// dataLoaded flips after the first successful /api/data fetch; until
	// then a fetch failure falls back to the offline snapshot
	dataLoaded bool
	// now drives the status bar clock
	now time.Time

	// -- UI components --

	// menu displays the bottom keybind rail
	menu *ui.Menu
	// toastManager manages toast notifications
	toastManager *overlay.ToastManager
	// global spinner instance, plumbed down to where it's needed
	spinner spinner.Model
	// formOverlay handles record creation forms
	formOverlay *overlay.FormOverlay
	// textOverlay displays read-only text (project detail, idea plans, help)
	textOverlay *overlay.TextOverlay
	// confirmationOverlay displays confirmation modals
	confirmationOverlay *overlay.ConfirmationOverlay
	// pendingConfirmAction runs when the confirmation is accepted
	pendingConfirmAction tea.Cmd
	// pendingRejectID is the commit awaiting a reject confirmation
	pendingRejectID int64

	// zoneHandlers is the click dispatch table, keyed by "kind:action"
	zoneHandlers map[string]func(id int64) tea.Cmd

	// Terminal dimensions
	termWidth     int
	termHeight    int
	contentHeight int
}

func newHome(ctx context.Context, appConfig *config.Config) *home {
	h := &home{
		ctx:        ctx,
		appConfig:  appConfig,
		client:     api.NewClient(appConfig.ServerURL, fetchTimeout),
		store:      store.New(),
		scheduler:  poll.NewScheduler(),
		channel:    push.New(appConfig.WebSocketURL()),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		menu:       ui.NewMenu(),
		state:      stateDefault,
		activeView: ui.ViewOverview,
		cursor:     make(map[ui.View]int),
		now:        time.Now(),
	}
	h.toastManager = overlay.NewToastManager(&h.spinner)
	h.zoneHandlers = map[string]func(id int64) tea.Cmd{
		"projects:open":  h.openProjectDetail,
		"tasks:toggle":   h.toggleTask,
		"ideas:approve":  h.approveIdea,
		"ideas:plan":     h.viewIdeaPlan,
		"github:approve": h.approveCommit,
		"github:reject":  h.rejectCommit,
	}

	intervals := appConfig.Poll.WithDefaults()
	h.scheduler.Register(poll.TaskData, time.Duration(intervals.Data)*time.Second)
	h.scheduler.Register(poll.TaskSystem, time.Duration(intervals.System)*time.Second)
	h.scheduler.Register(poll.TaskTokens, time.Duration(intervals.Tokens)*time.Second)
	h.scheduler.Register(poll.TaskUptime, time.Duration(intervals.Uptime)*time.Second)
	h.scheduler.Register(poll.TaskGitHub, time.Duration(intervals.GitHub)*time.Second)
	h.scheduler.Register(poll.TaskSubagents, time.Duration(intervals.Subagents)*time.Second)

	if path, err := snapshot.DefaultPath(); err != nil {
		log.WarningLog.Printf("offline snapshot unavailable: %v", err)
	} else if snaps, err := snapshot.Open(path); err != nil {
		log.WarningLog.Printf("offline snapshot unavailable: %v", err)
	} else {
		h.snapshots = snaps
	}

	return h
}

// updateHandleWindowSizeEvent sets the sizes of the components.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	m.termWidth = msg.Width
	m.termHeight = msg.Height
	m.toastManager.SetSize(msg.Width, msg.Height)

	// Status bar, nav, and the keybind rail each take one row.
	menuHeight := 1
	if msg.Height < 2 {
		menuHeight = 0
	}
	m.contentHeight = msg.Height - 2 - menuHeight
	if m.contentHeight < 1 {
		m.contentHeight = 1
	}
	m.menu.SetSize(msg.Width, menuHeight)

	if m.textOverlay != nil {
		m.textOverlay.SetWidth(int(float32(msg.Width) * 0.6))
	}
}

func (m *home) Init() tea.Cmd {
	m.channel.Start(m.ctx)

	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.tickClockCmd(),
		m.waitForPush(),
	}
	cmds = append(cmds, m.scheduler.Start()...)
	return tea.Batch(cmds...)
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case overlay.ToastTickMsg:
		m.toastManager.Tick()
		if m.toastManager.HasActiveToasts() {
			return m, m.toastTickCmd()
		}
		return m, nil
	case clockTickMsg:
		m.now = time.Time(msg)
		return m, m.tickClockCmd()
	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil
	case poll.TickMsg:
		return m, m.handlePollTick(msg.Task)
	case pushEventMsg:
		return m.handlePushEvent(msg.event)
	case dataFetchedMsg:
		return m.handleDataFetched(msg)
	case ideasFetchedMsg:
		if msg.err != nil {
			log.ErrorLog.Printf("ideas fetch failed: %v", msg.err)
			return m, nil
		}
		m.store.ReplaceIdeas(msg.ideas)
		m.clampCursor(ui.ViewIdeas)
		return m, nil
	case systemFetchedMsg:
		if msg.err != nil {
			log.ErrorLog.Printf("system fetch failed: %v", msg.err)
			return m, nil
		}
		m.store.SetSystem(msg.stats)
		return m, nil
	case tokensFetchedMsg:
		if msg.err != nil {
			log.ErrorLog.Printf("tokens fetch failed: %v", msg.err)
			return m, nil
		}
		m.store.SetTokens(msg.report)
		m.applySubagentSessions()
		return m, nil
	case uptimeFetchedMsg:
		if msg.err != nil {
			log.ErrorLog.Printf("uptime fetch failed: %v", msg.err)
			return m, nil
		}
		m.store.ReplaceServices(msg.services)
		return m, nil
	case githubFetchedMsg:
		if msg.err != nil {
			log.ErrorLog.Printf("github fetch failed: %v", msg.err)
			return m, nil
		}
		m.store.ReplaceCommits(msg.commits)
		m.clampCursor(ui.ViewCommits)
		return m, nil
	case subagentsFetchedMsg:
		if msg.err != nil {
			log.ErrorLog.Printf("subagents fetch failed: %v", msg.err)
			return m, nil
		}
		m.store.ReplaceSubagents(api.MergeSubagents(msg.agents, m.store.Tokens().Sessions))
		return m, nil
	case snapshotLoadedMsg:
		return m.handleSnapshotLoaded(msg)
	case taskToggledMsg:
		if msg.err != nil {
			log.ErrorLog.Printf("task toggle failed: %v", msg.err)
			m.toastManager.Error("could not toggle task")
			return m, m.toastTickCmd()
		}
		// The server's answer is authoritative, never the assumed flip.
		m.store.SetTaskDone(msg.id, msg.done)
		return m, nil
	case persistDoneMsg:
		if msg.err != nil {
			log.ErrorLog.Printf("persist %s failed: %v", msg.label, msg.err)
			m.toastManager.Error("could not save " + msg.label)
			return m, tea.Batch(m.toastTickCmd(), m.writeSnapshotCmd())
		}
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	if m.snapshots != nil {
		if err := m.snapshots.Write(m.store.Snapshot()); err != nil {
			log.WarningLog.Printf("snapshot write on quit failed: %v", err)
		}
		if err := m.snapshots.Close(); err != nil {
			log.WarningLog.Printf("snapshot close failed: %v", err)
		}
	}
	return m, tea.Quit
}

func (m *home) View() string {
	width := m.termWidth
	if width <= 0 {
		width = 80
	}

	content := m.renderActiveView(width)

	mainView := lipgloss.JoinVertical(
		lipgloss.Left,
		ui.RenderStatusBar(m.now, m.pushOnline, m.store.System(), width),
		ui.RenderNav(m.activeView, width),
		lipgloss.NewStyle().Height(m.contentHeight).Render(content),
		m.menu.String(),
	)

	var result string
	switch {
	case m.state == stateForm && m.formOverlay != nil:
		result = overlay.PlaceOverlay(0, 0, m.formOverlay.Render(), mainView, true)
	case (m.state == stateText || m.state == stateHelp) && m.textOverlay != nil:
		result = overlay.PlaceOverlay(0, 0, m.textOverlay.Render(), mainView, true)
	case m.state == stateConfirm && m.confirmationOverlay != nil:
		result = overlay.PlaceOverlay(0, 0, m.confirmationOverlay.Render(), mainView, true)
	default:
		result = mainView
	}

	if toastView := m.toastManager.View(); toastView != "" {
		x, y := m.toastManager.GetPosition()
		result = overlay.PlaceOverlay(x, y, toastView, result, false)
	}

	// Process bubblezone markers before rendering is complete
	// (zone markers inflate lipgloss.Width if left in place).
	result = zone.Scan(result)

	return ui.FillHeight(result, m.termHeight)
}

func (m *home) renderActiveView(width int) string {
	switch m.activeView {
	case ui.ViewProjects:
		return ui.RenderBoard(m.store.Projects(), width)
	case ui.ViewTasks:
		return ui.RenderTasks(m.store.Tasks(), m.cursor[ui.ViewTasks], width)
	case ui.ViewIdeas:
		return ui.RenderIdeas(m.store.Ideas(), m.ideasFilter, m.cursor[ui.ViewIdeas], width)
	case ui.ViewLogs:
		return ui.RenderLogs(m.store.Logs(), width)
	case ui.ViewTokens:
		return ui.RenderTokens(m.store.Tokens(), width)
	case ui.ViewAgents:
		return ui.RenderAgents(m.store.Subagents(), width)
	case ui.ViewServices:
		return ui.RenderServices(m.store.Services(), width)
	case ui.ViewCommits:
		return ui.RenderCommits(m.store.Commits(), width)
	default:
		return ui.RenderOverview(m.store.Projects(), m.store.Tasks(), m.store.System(), width)
	}
}

// applySubagentSessions refreshes the merged subagent list after a token
// report update so the prefixed sessions stay current between dedicated polls.
func (m *home) applySubagentSessions() {
	m.store.ReplaceSubagents(api.MergeSubagents(m.store.Subagents(), m.store.Tokens().Sessions))
}

// clampCursor keeps a view's selection inside its list after a replace.
func (m *home) clampCursor(view ui.View) {
	n := 0
	switch view {
	case ui.ViewTasks:
		n = len(m.store.Tasks())
	case ui.ViewIdeas:
		n = len(ui.FilterIdeas(m.store.Ideas(), m.ideasFilter))
	case ui.ViewCommits:
		n = len(m.store.Commits())
	}
	if n == 0 {
		m.cursor[view] = 0
		return
	}
	if m.cursor[view] >= n {
		m.cursor[view] = n - 1
	}
}
