// Package store holds the local mirror of the server's collections, the
// single source of truth for everything the dashboard renders. One Store
// instance is constructed at startup and passed by reference to the poller,
// the push channel handlers, and the mutation pipeline; all of them mutate
// it from inside the app's single Update loop, so no locking is needed.
//
// A full replace from a poll overwrites any optimistic record whose confirm
// round trip raced with the poll. That matches the reference behavior and is
// an accepted inconsistency: the next successful save or poll converges.
package store

import (
	"github.com/cosmobowz/cosmo/api"
)

// LogCap bounds the activity log: at most this many entries, newest first.
const LogCap = 100

// Store is the per-kind mirror of server state.
type Store struct {
	projects  []api.Project
	tasks     []api.Task
	ideas     []api.Idea
	logs      []api.LogEntry
	tokens    api.TokenReport
	subagents []api.Subagent
	services  []api.ServiceStatus
	commits   []api.PendingCommit
	system    api.SystemStats

	rev map[api.Kind]uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{rev: make(map[api.Kind]uint64)}
}

// Revision returns how many mutations the given kind has seen. Every
// mutating call bumps its kind exactly once, which is the store's
// one-render-pass-per-update guarantee.
func (s *Store) Revision(kind api.Kind) uint64 {
	return s.rev[kind]
}

func (s *Store) bump(kind api.Kind) {
	s.rev[kind]++
}

// hasID is satisfied by every record the store keys by id.
type hasID interface {
	api.Project | api.Task | api.Idea | api.PendingCommit
}

// upsertByID inserts rec, or replaces the existing record with the same id.
// New records go to the front, mirroring the newest-first list order the
// server returns. Last write wins on id collisions from poll/push overlap.
func upsertByID[T hasID](slice []T, rec T, id func(T) int64) []T {
	want := id(rec)
	for i := range slice {
		if id(slice[i]) == want {
			slice[i] = rec
			return slice
		}
	}
	return append([]T{rec}, slice...)
}

// -- Projects --

func (s *Store) Projects() []api.Project { return s.projects }

func (s *Store) ReplaceProjects(records []api.Project) {
	s.projects = records
	s.bump(api.KindProjects)
}

func (s *Store) UpsertProject(p api.Project) {
	s.projects = upsertByID(s.projects, p, func(r api.Project) int64 { return r.ID })
	s.bump(api.KindProjects)
}

// -- Tasks --

func (s *Store) Tasks() []api.Task { return s.tasks }

func (s *Store) ReplaceTasks(records []api.Task) {
	s.tasks = records
	s.bump(api.KindTasks)
}

func (s *Store) UpsertTask(t api.Task) {
	s.tasks = upsertByID(s.tasks, t, func(r api.Task) int64 { return r.ID })
	s.bump(api.KindTasks)
}

// SetTaskDone applies the server's authoritative done state to the task with
// the given id. No-op when the task is unknown (it may have been replaced by
// a racing poll; the next poll carries the new state anyway).
func (s *Store) SetTaskDone(id int64, done bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Done = done
			break
		}
	}
	s.bump(api.KindTasks)
}

// -- Ideas --

func (s *Store) Ideas() []api.Idea { return s.ideas }

func (s *Store) ReplaceIdeas(records []api.Idea) {
	s.ideas = records
	s.bump(api.KindIdeas)
}

func (s *Store) UpsertIdea(i api.Idea) {
	s.ideas = upsertByID(s.ideas, i, func(r api.Idea) int64 { return r.ID })
	s.bump(api.KindIdeas)
}

// -- Logs --

func (s *Store) Logs() []api.LogEntry { return s.logs }

// ReplaceLogs overwrites the activity log, trimming to the cap in case the
// server returns more than it should.
func (s *Store) ReplaceLogs(records []api.LogEntry) {
	if len(records) > LogCap {
		records = records[:LogCap]
	}
	s.logs = records
	s.bump(api.KindLogs)
}

// PrependLog inserts an entry at position 0 and evicts the oldest entry when
// the log would exceed the cap.
func (s *Store) PrependLog(entry api.LogEntry) {
	s.logs = append([]api.LogEntry{entry}, s.logs...)
	if len(s.logs) > LogCap {
		s.logs = s.logs[:LogCap]
	}
	s.bump(api.KindLogs)
}

// -- Tokens --

func (s *Store) Tokens() api.TokenReport { return s.tokens }

func (s *Store) SetTokens(report api.TokenReport) {
	s.tokens = report
	s.bump(api.KindTokens)
}

// -- Subagents --

func (s *Store) Subagents() []api.Subagent { return s.subagents }

func (s *Store) ReplaceSubagents(records []api.Subagent) {
	s.subagents = records
	s.bump(api.KindSubagents)
}

// -- Services --

func (s *Store) Services() []api.ServiceStatus { return s.services }

func (s *Store) ReplaceServices(records []api.ServiceStatus) {
	s.services = records
	s.bump(api.KindUptime)
}

// -- Pending commits --

func (s *Store) Commits() []api.PendingCommit { return s.commits }

func (s *Store) ReplaceCommits(records []api.PendingCommit) {
	s.commits = records
	s.bump(api.KindGitHub)
}

func (s *Store) UpsertCommit(c api.PendingCommit) {
	s.commits = upsertByID(s.commits, c, func(r api.PendingCommit) int64 { return r.ID })
	s.bump(api.KindGitHub)
}

// -- System stats --

func (s *Store) System() api.SystemStats { return s.system }

// SetSystem patches the host metrics. This is the narrow fast path for the
// push channel's tagged system-stats updates as well as the system poll.
func (s *Store) SetSystem(stats api.SystemStats) {
	s.system = stats
	s.bump(api.KindSystem)
}

// Snapshot assembles the {projects, tasks, logs} aggregate used by the save
// endpoint and the offline fallback.
func (s *Store) Snapshot() api.DataSnapshot {
	return api.DataSnapshot{
		Projects: s.projects,
		Tasks:    s.tasks,
		Logs:     s.logs,
	}
}

// LoadSnapshot replaces the three aggregate collections at once (initial
// load and offline-snapshot restore).
func (s *Store) LoadSnapshot(snap api.DataSnapshot) {
	s.ReplaceProjects(snap.Projects)
	s.ReplaceTasks(snap.Tasks)
	s.ReplaceLogs(snap.Logs)
}

// ActiveProjects counts projects not yet complete (overview stat).
func (s *Store) ActiveProjects() int {
	n := 0
	for _, p := range s.projects {
		if p.Status != api.ProjectComplete {
			n++
		}
	}
	return n
}

// OpenTasks counts tasks not yet done (overview stat).
func (s *Store) OpenTasks() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Done {
			n++
		}
	}
	return n
}
