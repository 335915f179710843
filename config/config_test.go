package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://127.0.0.1:8095", cfg.ServerURL)
	assert.Empty(t, cfg.PushURL)
	assert.Equal(t, "Bowz", cfg.DefaultAssignee)
	assert.Equal(t, 60, cfg.Poll.Data)
	assert.Equal(t, 30, cfg.Poll.System)
	assert.Equal(t, 5, cfg.Poll.Tokens)
	assert.Equal(t, 30, cfg.Poll.Uptime)
	assert.Equal(t, 30, cfg.Poll.GitHub)
	assert.Equal(t, 10, cfg.Poll.Subagents)
}

func TestIntervalsWithDefaults_FillsUnsetGroups(t *testing.T) {
	// A hand-written config.json without a poll section unmarshals to zeroes.
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"server_url":"http://127.0.0.1:1"}`), &cfg))

	got := cfg.Poll.WithDefaults()
	assert.Equal(t, DefaultConfig().Poll, got)
}

func TestIntervalsWithDefaults_KeepsExplicitValues(t *testing.T) {
	got := Intervals{Tokens: 2, GitHub: -1}.WithDefaults()

	assert.Equal(t, 2, got.Tokens)
	assert.Equal(t, 30, got.GitHub, "non-positive values fall back like unset ones")
	assert.Equal(t, 60, got.Data)
	assert.Equal(t, 30, got.System)
	assert.Equal(t, 30, got.Uptime)
	assert.Equal(t, 10, got.Subagents)
}

func TestAreNotificationsEnabled_DefaultsTrue(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.AreNotificationsEnabled())

	off := false
	cfg.NotificationsEnabled = &off
	assert.False(t, cfg.AreNotificationsEnabled())
}

func TestIsTelemetryEnabled_DefaultsFalse(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.IsTelemetryEnabled())

	on := true
	cfg.TelemetryEnabled = &on
	assert.True(t, cfg.IsTelemetryEnabled())
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "derived from http server url",
			cfg:  Config{ServerURL: "http://127.0.0.1:8095"},
			want: "ws://127.0.0.1:8095/ws",
		},
		{
			name: "derived from https server url",
			cfg:  Config{ServerURL: "https://cosmo.example.com"},
			want: "wss://cosmo.example.com/ws",
		},
		{
			name: "explicit push url wins",
			cfg: Config{
				ServerURL: "http://127.0.0.1:8095",
				PushURL:   "ws://other-host:9000/stream",
			},
			want: "ws://other-host:9000/stream",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.WebSocketURL())
		})
	}
}

func TestApplyTOMLOverlay_MergesSetFieldsOnly(t *testing.T) {
	dir := t.TempDir()
	tomlBody := `
server_url = "http://10.0.0.5:8095"

[poll]
tokens = 2
`
	writeTestFile(t, dir, TOMLFileName, tomlBody)

	cfg := applyTOMLOverlay(DefaultConfig(), dir)

	assert.Equal(t, "http://10.0.0.5:8095", cfg.ServerURL)
	assert.Equal(t, 2, cfg.Poll.Tokens)
	// Fields the overlay does not set keep their values.
	assert.Equal(t, 60, cfg.Poll.Data)
	assert.Equal(t, "Bowz", cfg.DefaultAssignee)
}

func TestApplyTOMLOverlay_MissingFileIsNoop(t *testing.T) {
	cfg := applyTOMLOverlay(DefaultConfig(), t.TempDir())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyTOMLOverlay_BadTOMLKeepsConfig(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, TOMLFileName, "server_url = [not toml")

	cfg := applyTOMLOverlay(DefaultConfig(), dir)
	assert.Equal(t, DefaultConfig().ServerURL, cfg.ServerURL)
}

func TestMergeIntervals_IgnoresNonPositive(t *testing.T) {
	dst := DefaultConfig().Poll
	mergeIntervals(&dst, Intervals{System: 15, GitHub: -1})

	assert.Equal(t, 15, dst.System)
	assert.Equal(t, 30, dst.GitHub)
	assert.Equal(t, 60, dst.Data)
}

func writeTestFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}
