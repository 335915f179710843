// Package poll schedules the per-resource refresh timers. Each resource
// group is a named recurring task with its own interval, registered against
// one Scheduler and cancellable on its own. The scheduler only emits tick
// messages; the app decides what a tick fetches, so polling stays
// view-agnostic: an unmounted view still polls, rendering is gated later.
package poll

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Task group names. One timer each.
const (
	TaskData      = "data"
	TaskSystem    = "system"
	TaskTokens    = "tokens"
	TaskUptime    = "uptime"
	TaskGitHub    = "github"
	TaskSubagents = "subagents"
)

// TickMsg fires when a task's interval elapses. The app responds by issuing
// the task's fetch and re-arming via Next.
type TickMsg struct {
	Task string
}

type taskState struct {
	interval time.Duration
	stopped  bool
}

// Scheduler owns the named recurring tasks.
type Scheduler struct {
	tasks map[string]*taskState
	order []string
}

// NewScheduler returns a scheduler with no tasks registered.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[string]*taskState)}
}

// Register adds a recurring task. A non-positive interval registers the task
// stopped: it still fires once via Start (initial load) but never re-arms.
func (s *Scheduler) Register(name string, interval time.Duration) {
	st := &taskState{interval: interval}
	if interval <= 0 {
		st.stopped = true
	}
	s.tasks[name] = st
	s.order = append(s.order, name)
}

// Start returns one immediate tick per registered task, in registration
// order. This doubles as the initial load: every resource is fetched once at
// startup regardless of its interval.
func (s *Scheduler) Start() []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(s.order))
	for _, name := range s.order {
		n := name
		cmds = append(cmds, func() tea.Msg {
			return TickMsg{Task: n}
		})
	}
	return cmds
}

// Next re-arms a task: it returns a command that sleeps the task's interval
// and then ticks. Returns nil for stopped or unknown tasks, which is how a
// cancelled timer chain ends.
func (s *Scheduler) Next(name string) tea.Cmd {
	st, ok := s.tasks[name]
	if !ok || st.stopped {
		return nil
	}
	interval := st.interval
	return func() tea.Msg {
		time.Sleep(interval)
		return TickMsg{Task: name}
	}
}

// Stop cancels a single task. In-flight ticks for it are ignored by Next
// never re-arming; other tasks are unaffected.
func (s *Scheduler) Stop(name string) {
	if st, ok := s.tasks[name]; ok {
		st.stopped = true
	}
}

// Resume re-enables a stopped task and returns an immediate tick to restart
// its chain. Returns nil for unknown tasks or tasks with no interval.
func (s *Scheduler) Resume(name string) tea.Cmd {
	st, ok := s.tasks[name]
	if !ok || st.interval <= 0 {
		return nil
	}
	st.stopped = false
	return func() tea.Msg {
		return TickMsg{Task: name}
	}
}

// Active reports whether the task is registered and not stopped.
func (s *Scheduler) Active(name string) bool {
	st, ok := s.tasks[name]
	return ok && !st.stopped
}
