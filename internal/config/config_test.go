// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15, cfg.TurnTimerSec)
	assert.Equal(t, "uno_turns", cfg.HistorianQueue)
	assert.Equal(t, 20, cfg.HistorianBatch)
	assert.False(t, cfg.Persist)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TURN_TIMER_SEC", "3")
	t.Setenv("PERSIST_RESULTS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 3, cfg.TurnTimerSec)
	assert.True(t, cfg.Persist)
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{
		PostgresUser:     "uno",
		PostgresPassword: "secret",
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresDatabase: "unoarena",
	}
	assert.Equal(t, "postgres://uno:secret@db:5433/unoarena", cfg.PostgresDSN())
}
