package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentUsed(t *testing.T) {
	tests := []struct {
		name  string
		used  int64
		limit int64
		want  float64
	}{
		{"zero limit yields zero", 500, 0, 0},
		{"simple half", 50, 100, 50},
		{"rounds to one decimal", 333, 1000, 33.3},
		{"rounds up", 6667, 10000, 66.7},
		{"over limit clamps to 100", 1500, 1000, 100},
		{"negative usage clamps to zero", -10, 100, 0},
		{"full usage", 1000, 1000, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := TokenSession{TokensUsed: tc.used, TokensLimit: tc.limit}
			assert.Equal(t, tc.want, s.PercentUsed())
		})
	}
}

func TestIsSubagent(t *testing.T) {
	assert.True(t, TokenSession{Name: "subagent:researcher"}.IsSubagent())
	assert.False(t, TokenSession{Name: "main"}.IsSubagent())
	assert.False(t, TokenSession{Name: "my-subagent:thing"}.IsSubagent())
}

func TestSubagentFromSession(t *testing.T) {
	s := TokenSession{
		Name:       "subagent:researcher",
		Status:     "active",
		TokensUsed: 1234,
	}
	a := SubagentFromSession(s)
	assert.Equal(t, "researcher", a.ID)
	assert.Equal(t, "active", a.Status)
	assert.Equal(t, int64(1234), a.TokensOut)
}

func TestMergeSubagents_DedicatedWinsByID(t *testing.T) {
	dedicated := []Subagent{
		{ID: "researcher", Status: "active", TokensIn: 10, TokensOut: 20},
	}
	sessions := []TokenSession{
		{Name: "subagent:researcher", Status: "stale", TokensUsed: 5},
		{Name: "subagent:writer", Status: "active", TokensUsed: 7},
		{Name: "main", Status: "active", TokensUsed: 99},
	}

	merged := MergeSubagents(dedicated, sessions)

	require.Len(t, merged, 2)
	byID := map[string]Subagent{}
	for _, a := range merged {
		byID[a.ID] = a
	}
	assert.Equal(t, int64(20), byID["researcher"].TokensOut,
		"the dedicated record wins on id collision")
	assert.Equal(t, int64(7), byID["writer"].TokensOut,
		"session-only workers survive the merge")
	assert.NotContains(t, byID, "main", "unprefixed sessions are not workers")
}

func TestNewID_Monotonicish(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.GreaterOrEqual(t, b, a)
	assert.Greater(t, a, int64(1_600_000_000_000), "ids are unix millisecond timestamps")
}
