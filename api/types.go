// Package api is the client gateway to the command center server: record
// types mirroring the server's JSON, and a thin HTTP client that performs a
// single attempt per call and normalizes failures into typed errors.
package api

import (
	"math"
	"strings"
	"time"
)

// Kind names one of the server's resource collections.
type Kind string

const (
	KindProjects  Kind = "projects"
	KindTasks     Kind = "tasks"
	KindIdeas     Kind = "ideas"
	KindLogs      Kind = "logs"
	KindSystem    Kind = "system"
	KindTokens    Kind = "tokens"
	KindSubagents Kind = "subagents"
	KindUptime    Kind = "uptime"
	KindGitHub    Kind = "github"
	KindData      Kind = "data"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPendingReview ProjectStatus = "pending-review"
	ProjectPlanning      ProjectStatus = "planning"
	ProjectInProgress    ProjectStatus = "in-progress"
	ProjectReview        ProjectStatus = "review"
	ProjectComplete      ProjectStatus = "complete"
)

// BoardColumns is the projects board column order.
var BoardColumns = []ProjectStatus{ProjectPlanning, ProjectInProgress, ProjectReview, ProjectComplete}

// Priority applies to both tasks and ideas.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Project is a tracked project. Created is a date string (YYYY-MM-DD).
type Project struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Created     string        `json:"created,omitempty"`
}

// Task is a todo item. Project is a free-text project name, not a foreign key.
type Task struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Project  string   `json:"project,omitempty"`
	Priority Priority `json:"priority"`
	Done     bool     `json:"done"`
}

// IdeaStatus is the lifecycle state of an idea.
type IdeaStatus string

const (
	IdeaOpen       IdeaStatus = "open"
	IdeaInProgress IdeaStatus = "in-progress"
	IdeaApproved   IdeaStatus = "approved"
	IdeaDone       IdeaStatus = "done"
)

// Idea is a proposal that can be approved into a plan.
type Idea struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      IdeaStatus `json:"status"`
	Assignee    string     `json:"assignee,omitempty"`
	Created     int64      `json:"created,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	ApprovedAt  int64      `json:"approvedAt,omitempty"`
	Plan        string     `json:"plan,omitempty"`
}

// LogType classifies an activity log entry.
type LogType string

const (
	LogSuccess LogType = "success"
	LogInfo    LogType = "info"
	LogWarning LogType = "warning"
	LogError   LogType = "error"
	LogSystem  LogType = "system"
)

// LogEntry is one activity log line. The local store keeps at most the 100
// most recent entries, newest first.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Type    LogType   `json:"type"`
	Message string    `json:"message"`
}

// SystemStats are host metric percentages from /api/system.
type SystemStats struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	Disk   float64 `json:"disk"`
}

// TokenSession is one provider session from /api/tokens.
type TokenSession struct {
	Name        string `json:"name"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	Status      string `json:"status,omitempty"`
	TokensUsed  int64  `json:"tokensUsed"`
	TokensLimit int64  `json:"tokensLimit"`
}

// subagentPrefix marks token sessions that are really subagent workers.
const subagentPrefix = "subagent:"

// IsSubagent reports whether this session carries the subagent name marker.
func (s TokenSession) IsSubagent() bool {
	return strings.HasPrefix(s.Name, subagentPrefix)
}

// PercentUsed returns the session's usage as a percentage rounded to one
// decimal and clamped to [0, 100]. A zero limit yields 0, never a division
// by zero.
func (s TokenSession) PercentUsed() float64 {
	if s.TokensLimit == 0 {
		return 0
	}
	pct := float64(s.TokensUsed) / float64(s.TokensLimit) * 100
	pct = math.Round(pct*10) / 10
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ModelUsage aggregates token usage per model.
type ModelUsage struct {
	Tokens   int64 `json:"tokens"`
	Calls    int64 `json:"calls"`
	Sessions int64 `json:"sessions"`
}

// TokenReport is the full /api/tokens payload.
type TokenReport struct {
	TodayTokens     int64                 `json:"todayTokens"`
	TodayLimit      int64                 `json:"todayLimit"`
	TodayPercent    float64               `json:"todayPercent"`
	ActiveSessions  int                   `json:"activeSessions"`
	Models          map[string]ModelUsage `json:"models,omitempty"`
	Sessions        []TokenSession        `json:"sessions,omitempty"`
	AvailableModels []string              `json:"availableModels,omitempty"`
}

// Subagent is the canonical worker shape. The /api/subagents records use it
// directly; token sessions carrying the subagent name marker are adapted
// into it at the gateway so only one schema crosses into the store.
type Subagent struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Task        string  `json:"task,omitempty"`
	TokensIn    int64   `json:"tokens_in"`
	TokensOut   int64   `json:"tokens_out"`
	ContextUsed float64 `json:"context_used"`
}

// SubagentFromSession adapts a subagent-marked token session into the
// canonical Subagent shape. The session's used tokens map to TokensOut; the
// session has no input-token or task detail to carry over.
func SubagentFromSession(s TokenSession) Subagent {
	return Subagent{
		ID:          strings.TrimPrefix(s.Name, subagentPrefix),
		Status:      s.Status,
		TokensOut:   s.TokensUsed,
		ContextUsed: s.PercentUsed(),
	}
}

// MergeSubagents combines the dedicated endpoint's records with workers
// derived from token sessions, keyed by id. Dedicated records win: a derived
// worker is only added when no record with its id exists.
func MergeSubagents(dedicated []Subagent, sessions []TokenSession) []Subagent {
	seen := make(map[string]bool, len(dedicated))
	out := make([]Subagent, 0, len(dedicated))
	for _, sa := range dedicated {
		out = append(out, sa)
		seen[sa.ID] = true
	}
	for _, s := range sessions {
		if !s.IsSubagent() {
			continue
		}
		derived := SubagentFromSession(s)
		if seen[derived.ID] {
			continue
		}
		out = append(out, derived)
		seen[derived.ID] = true
	}
	return out
}

// ServiceState is the uptime status of a monitored service.
type ServiceState string

const (
	ServiceOnline  ServiceState = "online"
	ServiceOffline ServiceState = "offline"
)

// ServiceStatus is one monitored service from /api/uptime.
type ServiceStatus struct {
	Name        string       `json:"name"`
	Icon        string       `json:"icon,omitempty"`
	Status      ServiceState `json:"status"`
	AutoRestart bool         `json:"autoRestart"`
}

// CommitStatus is the review state of a pending commit.
type CommitStatus string

const (
	CommitPending  CommitStatus = "pending"
	CommitApproved CommitStatus = "approved"
	CommitRejected CommitStatus = "rejected"
)

// PendingCommit is a server-side commit awaiting approval.
type PendingCommit struct {
	ID        int64        `json:"id"`
	Message   string       `json:"message"`
	Repo      string       `json:"repo,omitempty"`
	Branch    string       `json:"branch,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
	Status    CommitStatus `json:"status"`
}

// DataSnapshot is the aggregate {projects, tasks, logs} payload used by
// GET/POST /api/data and by the offline snapshot.
type DataSnapshot struct {
	Projects []Project  `json:"projects"`
	Tasks    []Task     `json:"tasks"`
	Logs     []LogEntry `json:"logs"`
}

// NewID returns a client-generated surrogate id: milliseconds since epoch,
// like the reference front end. Collisions between two creates in the same
// millisecond are an accepted edge case.
func NewID() int64 {
	return time.Now().UnixMilli()
}
