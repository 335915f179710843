package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmobowz/cosmo/api"
)

func TestUpsertProject_NewRecordsGoToFront(t *testing.T) {
	s := New()
	s.UpsertProject(api.Project{ID: 1, Name: "first"})
	s.UpsertProject(api.Project{ID: 2, Name: "second"})

	require.Len(t, s.Projects(), 2)
	assert.Equal(t, int64(2), s.Projects()[0].ID, "newest record should lead the list")
	assert.Equal(t, int64(1), s.Projects()[1].ID)
}

func TestUpsertProject_ReplacesInPlaceByID(t *testing.T) {
	s := New()
	s.UpsertProject(api.Project{ID: 1, Name: "one"})
	s.UpsertProject(api.Project{ID: 2, Name: "two"})
	s.UpsertProject(api.Project{ID: 1, Name: "one-renamed"})

	require.Len(t, s.Projects(), 2)
	// Position is preserved on replace; only the record changes.
	assert.Equal(t, "one-renamed", s.Projects()[1].Name)
}

func TestLastWriteWins_AcrossReplaceAndUpsert(t *testing.T) {
	s := New()

	// Optimistic insert, then a poll replace that doesn't know it yet.
	s.UpsertTask(api.Task{ID: 100, Title: "optimistic"})
	s.ReplaceTasks([]api.Task{{ID: 1, Title: "from-server"}})

	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "from-server", s.Tasks()[0].Title,
		"a full replace overwrites racing optimistic records")

	// A later upsert for the same id wins over the replace.
	s.UpsertTask(api.Task{ID: 1, Title: "edited"})
	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "edited", s.Tasks()[0].Title)
}

func TestRevision_BumpsOncePerMutation(t *testing.T) {
	s := New()
	assert.Equal(t, uint64(0), s.Revision(api.KindTasks))

	s.UpsertTask(api.Task{ID: 1})
	assert.Equal(t, uint64(1), s.Revision(api.KindTasks))

	s.SetTaskDone(1, true)
	assert.Equal(t, uint64(2), s.Revision(api.KindTasks))

	// Unknown id is a no-op on the record but still counts as a mutation.
	s.SetTaskDone(999, true)
	assert.Equal(t, uint64(3), s.Revision(api.KindTasks))
	assert.True(t, s.Tasks()[0].Done)
}

func TestSetTaskDone_AppliesServerValueNotFlip(t *testing.T) {
	s := New()
	s.UpsertTask(api.Task{ID: 7, Done: true})

	// The server says done=true even though a local flip would say false.
	s.SetTaskDone(7, true)
	assert.True(t, s.Tasks()[0].Done)
}

func TestPrependLog_EvictsOldestBeyondCap(t *testing.T) {
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < LogCap; i++ {
		s.PrependLog(api.LogEntry{
			Time:    base.Add(time.Duration(i) * time.Minute),
			Type:    api.LogInfo,
			Message: fmt.Sprintf("entry-%d", i),
		})
	}
	require.Len(t, s.Logs(), LogCap)
	assert.Equal(t, "entry-0", s.Logs()[LogCap-1].Message)

	s.PrependLog(api.LogEntry{Type: api.LogInfo, Message: "entry-100"})

	require.Len(t, s.Logs(), LogCap, "cap must hold after the 101st prepend")
	assert.Equal(t, "entry-100", s.Logs()[0].Message, "newest entry leads")
	assert.Equal(t, "entry-1", s.Logs()[LogCap-1].Message, "oldest entry is evicted")
}

func TestReplaceLogs_TrimsOversizedServerResponse(t *testing.T) {
	s := New()
	logs := make([]api.LogEntry, LogCap+25)
	for i := range logs {
		logs[i] = api.LogEntry{Message: fmt.Sprintf("m%d", i)}
	}
	s.ReplaceLogs(logs)
	assert.Len(t, s.Logs(), LogCap)
	assert.Equal(t, "m0", s.Logs()[0].Message)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	s.UpsertProject(api.Project{ID: 1, Name: "p"})
	s.UpsertTask(api.Task{ID: 2, Title: "t"})
	s.PrependLog(api.LogEntry{Message: "hello"})

	snap := s.Snapshot()

	restored := New()
	restored.LoadSnapshot(snap)
	assert.Equal(t, s.Projects(), restored.Projects())
	assert.Equal(t, s.Tasks(), restored.Tasks())
	assert.Equal(t, s.Logs(), restored.Logs())
}

func TestOverviewCounters(t *testing.T) {
	s := New()
	s.ReplaceProjects([]api.Project{
		{ID: 1, Status: api.ProjectInProgress},
		{ID: 2, Status: api.ProjectComplete},
		{ID: 3, Status: api.ProjectPlanning},
	})
	s.ReplaceTasks([]api.Task{
		{ID: 1, Done: true},
		{ID: 2},
		{ID: 3},
	})

	assert.Equal(t, 2, s.ActiveProjects())
	assert.Equal(t, 2, s.OpenTasks())
}

func TestReplaceServices_BumpsUptimeRevision(t *testing.T) {
	s := New()
	s.ReplaceServices([]api.ServiceStatus{{Name: "plex", Status: api.ServiceOnline}})
	assert.Equal(t, uint64(1), s.Revision(api.KindUptime))
}
