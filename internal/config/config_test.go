package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/mine-game/internal/world/cave"
)

func TestLoadDefaultsWithoutPath(t *testing.T) {
	t.Setenv("GAME_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, time.Second, cfg.Mine.TickInterval)

	params, err := cfg.CaveParams()
	require.NoError(t, err)
	assert.Equal(t, cave.DefaultConfig(), params, "без переопределений используются значения по умолчанию")
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	data := `
server:
  rest_port: 9000
mine:
  tick_interval: 250ms
  seed: 42
cave:
  fill_mode: noise
  max_rocks: 10
storage:
  backend: badger
  path: /tmp/mines
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.GetRESTPort())
	assert.Equal(t, 250*time.Millisecond, cfg.Mine.TickInterval)
	assert.Equal(t, int64(42), cfg.Mine.Seed)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, "MINE_EVENTS", cfg.EventBus.Stream, "незаданные поля сохраняют значения по умолчанию")

	params, err := cfg.CaveParams()
	require.NoError(t, err)
	assert.Equal(t, cave.FillNoise, params.FillMode)
	assert.Equal(t, 10, params.MaxRocks)
	assert.Equal(t, 60, params.Width)
}

func TestLoadRejectsBadCave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cave:\n  fill_mode: spiral\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, cave.ErrInvalidConfig)
}

func TestPortEnvFallback(t *testing.T) {
	t.Setenv("GAME_REST_PORT", "7070")
	s := ServerConfig{}
	assert.Equal(t, 7070, s.GetRESTPort())

	t.Setenv("GAME_METRICS_PORT", "oops")
	assert.Equal(t, 2112, s.GetMetricsPort(), "некорректное значение окружения игнорируется")
}

func TestAuthEnvFallback(t *testing.T) {
	t.Setenv("GAME_JWT_SECRET", "from-env")
	a := AuthConfig{}
	assert.Equal(t, "from-env", a.GetJWTSecret())
	a.JWTSecret = "from-file"
	assert.Equal(t, "from-file", a.GetJWTSecret())
}
