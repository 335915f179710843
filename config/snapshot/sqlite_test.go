package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmobowz/cosmo/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_EmptyDatabaseYieldsEmptySnapshot(t *testing.T) {
	s := openTestStore(t)

	snap, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, snap.Projects)
	assert.NotNil(t, snap.Tasks)
	assert.NotNil(t, snap.Logs)
	assert.Empty(t, snap.Projects)
	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.Logs)
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	now := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	in := api.DataSnapshot{
		Projects: []api.Project{
			{ID: 1, Name: "dashboard", Description: "the big board", Status: api.ProjectInProgress, Created: "2026-08-01"},
			{ID: 2, Name: "bot", Status: api.ProjectPlanning},
		},
		Tasks: []api.Task{
			{ID: 10, Title: "wire uptime panel", Project: "dashboard", Priority: api.PriorityHigh, Done: false},
			{ID: 11, Title: "ship it", Priority: api.PriorityLow, Done: true},
		},
		Logs: []api.LogEntry{
			{Time: now, Type: api.LogSuccess, Message: "deploy finished"},
			{Time: now.Add(time.Minute), Type: api.LogError, Message: "disk warning"},
		},
	}
	require.NoError(t, s.Write(in))

	out, err := s.Load()
	require.NoError(t, err)

	require.Len(t, out.Projects, 2)
	assert.Equal(t, "dashboard", out.Projects[1].Name)
	assert.Equal(t, api.ProjectInProgress, out.Projects[1].Status)

	require.Len(t, out.Tasks, 2)
	byID := map[int64]api.Task{}
	for _, task := range out.Tasks {
		byID[task.ID] = task
	}
	assert.False(t, byID[10].Done)
	assert.True(t, byID[11].Done)
	assert.Equal(t, api.PriorityHigh, byID[10].Priority)

	require.Len(t, out.Logs, 2)
	assert.Equal(t, "deploy finished", out.Logs[0].Message)
	assert.True(t, out.Logs[0].Time.Equal(now))
	assert.Equal(t, api.LogError, out.Logs[1].Type)
}

func TestWrite_ReplacesWholesale(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Write(api.DataSnapshot{
		Tasks: []api.Task{{ID: 1, Title: "old"}},
	}))
	require.NoError(t, s.Write(api.DataSnapshot{
		Tasks: []api.Task{{ID: 2, Title: "new"}},
	}))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "new", out.Tasks[0].Title)
}

func TestLoad_PreservesLogOrder(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC().Truncate(time.Second)
	logs := []api.LogEntry{
		{Time: base.Add(2 * time.Minute), Type: api.LogInfo, Message: "newest"},
		{Time: base.Add(time.Minute), Type: api.LogInfo, Message: "middle"},
		{Time: base, Type: api.LogInfo, Message: "oldest"},
	}
	require.NoError(t, s.Write(api.DataSnapshot{Logs: logs}))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out.Logs, 3)
	// Insert order is the store's newest-first order; Load keeps it.
	assert.Equal(t, "newest", out.Logs[0].Message)
	assert.Equal(t, "oldest", out.Logs[2].Message)
}

func TestReset_ClearsStoredSnapshot(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Write(api.DataSnapshot{
		Projects: []api.Project{{ID: 1, Name: "dashboard"}},
	}))
	require.NoError(t, s.Reset())

	out, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, out.Projects)
}
