package grid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/mine-game/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hallYAML = `
name: hall
rows:
  - "#######"
  - "#@..s.#"
  - "#.##~.#"
  - "#..+.>#"
  - "#######"
legend:
  "~": floor
`

func TestTileFlags(t *testing.T) {
	assert.True(t, Wall.IsSolid())
	assert.True(t, Door.IsSolid())
	assert.True(t, Empty.IsSolid())
	assert.True(t, TorchWall.IsSolid())
	assert.False(t, DoorOpen.IsSolid())

	assert.True(t, Floor.CanSpawnEntity())
	assert.True(t, SpawnPoint.CanSpawnEntity())
	assert.False(t, Exit.CanSpawnEntity())
	assert.False(t, PlayerSpawn.CanSpawnEntity())

	assert.True(t, PlayerSpawn.CanSpawnPlayer())
	assert.False(t, Floor.CanSpawnPlayer())
}

func TestParseTileMap(t *testing.T) {
	m, err := ParseTileMap([]byte(hallYAML))
	require.NoError(t, err)
	assert.Equal(t, "hall", m.Name)
	assert.Equal(t, 7, m.Width())
	assert.Equal(t, 5, m.Height())

	spawn, ok := m.PlayerSpawn()
	require.True(t, ok)
	assert.Equal(t, vec.Vec2{X: 1, Y: 1}, spawn)

	exit, ok := m.Exit()
	require.True(t, ok)
	assert.Equal(t, vec.Vec2{X: 5, Y: 3}, exit)

	assert.Equal(t, Floor, m.TileAt(vec.Vec2{X: 4, Y: 2}), "легенда переопределяет глиф")
	assert.Equal(t, Wall, m.TileAt(vec.Vec2{X: -1, Y: 0}), "за пределами карты стена")
	assert.Equal(t, Door, m.TileAt(vec.Vec2{X: 3, Y: 3}))

	for _, p := range m.SpawnPoints() {
		assert.True(t, m.TileAt(p).CanSpawnEntity())
	}
	assert.Len(t, m.SpawnPoints(), 10)
}

func TestParseTileMapErrors(t *testing.T) {
	_, err := ParseRows("bad", []string{"###", "##"}, nil)
	assert.ErrorIs(t, err, ErrInvalidMap)

	_, err = ParseRows("bad", []string{"#?#"}, nil)
	assert.ErrorIs(t, err, ErrInvalidMap)

	_, err = ParseRows("bad", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidMap)

	_, err = ParseTileMap([]byte("name: x\nrows: ['#']\nlegend: {'~': lava}\n"))
	assert.ErrorIs(t, err, ErrInvalidMap)
}

func TestRowsRoundTrip(t *testing.T) {
	rows := []string{"#####", "#@.>#", "#####"}
	m, err := ParseRows("r", rows, nil)
	require.NoError(t, err)
	assert.Equal(t, rows, m.Rows())
}

func TestLoadTileMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hall.yaml")
	require.NoError(t, os.WriteFile(path, []byte(hallYAML), 0o644))

	m, err := LoadTileMap(path)
	require.NoError(t, err)
	assert.Equal(t, "hall", m.Name)

	_, err = LoadTileMap(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
