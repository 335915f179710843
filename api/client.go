package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the command center server. Every method performs exactly
// one attempt; retry policy belongs to the callers (the poller retries on
// its next tick, mutations surface the failure to the user).
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// Error is the gateway's failure type: it carries the resource kind the
// request was for, the HTTP status when the server answered, and the
// underlying cause otherwise.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned status %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewClient builds a gateway for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

// do performs one request and decodes the JSON response into out (when out
// is non-nil). All failures come back as *Error tagged with kind.
func (c *Client) do(ctx context.Context, kind Kind, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: kind, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &Error{Kind: kind, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &Error{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &Error{Kind: kind, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode >= 400 {
		return &Error{Kind: kind, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: kind, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Projects lists all projects. A null/absent body decodes to an empty slice.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.do(ctx, KindProjects, http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tasks lists all tasks.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := c.do(ctx, KindTasks, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ideas lists all ideas. The server wraps the array: {"ideas": [...]}.
func (c *Client) Ideas(ctx context.Context) ([]Idea, error) {
	var out struct {
		Ideas []Idea `json:"ideas"`
	}
	if err := c.do(ctx, KindIdeas, http.MethodGet, "/api/ideas", nil, &out); err != nil {
		return nil, err
	}
	return out.Ideas, nil
}

// Logs lists the server-side activity log, newest first.
func (c *Client) Logs(ctx context.Context) ([]LogEntry, error) {
	var out []LogEntry
	if err := c.do(ctx, KindLogs, http.MethodGet, "/api/logs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// System fetches host metric percentages.
func (c *Client) System(ctx context.Context) (SystemStats, error) {
	var out SystemStats
	if err := c.do(ctx, KindSystem, http.MethodGet, "/api/system", nil, &out); err != nil {
		return SystemStats{}, err
	}
	return out, nil
}

// Tokens fetches the token usage report.
func (c *Client) Tokens(ctx context.Context) (TokenReport, error) {
	var out TokenReport
	if err := c.do(ctx, KindTokens, http.MethodGet, "/api/tokens", nil, &out); err != nil {
		return TokenReport{}, err
	}
	return out, nil
}

// Subagents lists the dedicated subagent records: {"count": n, "subagents": [...]}.
func (c *Client) Subagents(ctx context.Context) ([]Subagent, error) {
	var out struct {
		Count     int        `json:"count"`
		Subagents []Subagent `json:"subagents"`
	}
	if err := c.do(ctx, KindSubagents, http.MethodGet, "/api/subagents", nil, &out); err != nil {
		return nil, err
	}
	return out.Subagents, nil
}

// Uptime lists monitored services: {"services": [...]}.
func (c *Client) Uptime(ctx context.Context) ([]ServiceStatus, error) {
	var out struct {
		Services []ServiceStatus `json:"services"`
	}
	if err := c.do(ctx, KindUptime, http.MethodGet, "/api/uptime", nil, &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

// PendingCommits lists commits awaiting approval.
func (c *Client) PendingCommits(ctx context.Context) ([]PendingCommit, error) {
	var out []PendingCommit
	if err := c.do(ctx, KindGitHub, http.MethodGet, "/api/github/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CommitHistory lists previously reviewed commits.
func (c *Client) CommitHistory(ctx context.Context) ([]PendingCommit, error) {
	var out []PendingCommit
	if err := c.do(ctx, KindGitHub, http.MethodGet, "/api/github/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject persists a new project.
func (c *Client) CreateProject(ctx context.Context, p Project) error {
	return c.do(ctx, KindProjects, http.MethodPost, "/api/projects", p, nil)
}

// CreateTask persists a new task.
func (c *Client) CreateTask(ctx context.Context, t Task) error {
	return c.do(ctx, KindTasks, http.MethodPost, "/api/tasks", t, nil)
}

// CreateIdea persists a new idea.
func (c *Client) CreateIdea(ctx context.Context, i Idea) error {
	return c.do(ctx, KindIdeas, http.MethodPost, "/api/ideas", i, nil)
}

// ToggleTask flips a task's done state server-side and returns the
// authoritative new value. Callers must apply the returned bool, never the
// locally assumed one.
func (c *Client) ToggleTask(ctx context.Context, id int64) (bool, error) {
	var out struct {
		Done bool `json:"done"`
	}
	path := fmt.Sprintf("/api/tasks/%d/toggle", id)
	if err := c.do(ctx, KindTasks, http.MethodPost, path, nil, &out); err != nil {
		return false, err
	}
	return out.Done, nil
}

// ApproveIdea marks an idea approved, attaching the generated plan text. The
// server forwards a notification to its delivery channel.
func (c *Client) ApproveIdea(ctx context.Context, id int64, plan string) error {
	path := fmt.Sprintf("/api/ideas/%d/approve", id)
	return c.do(ctx, KindIdeas, http.MethodPost, path, map[string]string{"plan": plan}, nil)
}

// ApproveCommit approves a pending commit.
func (c *Client) ApproveCommit(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/github/approve/%d", id)
	return c.do(ctx, KindGitHub, http.MethodPost, path, nil, nil)
}

// RejectCommit rejects a pending commit.
func (c *Client) RejectCommit(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/github/reject/%d", id)
	return c.do(ctx, KindGitHub, http.MethodPost, path, nil, nil)
}

// Data fetches the aggregate {projects, tasks, logs} snapshot.
func (c *Client) Data(ctx context.Context) (DataSnapshot, error) {
	var out DataSnapshot
	if err := c.do(ctx, KindData, http.MethodGet, "/api/data", nil, &out); err != nil {
		return DataSnapshot{}, err
	}
	return out, nil
}

// SaveData persists the aggregate snapshot. On failure the caller writes the
// offline snapshot instead.
func (c *Client) SaveData(ctx context.Context, snap DataSnapshot) error {
	return c.do(ctx, KindData, http.MethodPost, "/api/data", snap, nil)
}

// Health pings the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, KindSystem, http.MethodGet, "/api/health", nil, nil)
}
