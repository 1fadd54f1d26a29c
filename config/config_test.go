package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.Server.Address())
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 3, cfg.Game.CountdownTicks)
	assert.Equal(t, time.Second, cfg.Game.TickInterval.Duration)
	assert.Equal(t, 30*time.Second, cfg.Game.ReconnectWindow.Duration)
	assert.Equal(t, 10, cfg.Game.TimeAttack.Rounds)
	assert.Equal(t, 20, cfg.Game.Survival.Rounds)
	assert.Equal(t, 10*time.Second, cfg.Game.TimeAttack.RoundTime.Duration)
}

func Test_Load_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
env = "prod"

[server]
port = "9000"

[game]
countdown_ticks = 5
reconnect_window = "1m"

[game.time_attack]
rounds = 3
round_time = "15s"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Game.CountdownTicks)
	assert.Equal(t, time.Minute, cfg.Game.ReconnectWindow.Duration)
	assert.Equal(t, 3, cfg.Game.TimeAttack.Rounds)
	assert.Equal(t, 15*time.Second, cfg.Game.TimeAttack.RoundTime.Duration)

	// Unset values still fall back.
	assert.Equal(t, time.Second, cfg.Game.TickInterval.Duration)
	assert.Equal(t, 20, cfg.Game.Survival.Rounds)
}

func Test_Load_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("DB_PATH", "/tmp/quiz.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, "/tmp/quiz.db", cfg.Database.Path)
}

func Test_Duration_Invalid(t *testing.T) {
	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
