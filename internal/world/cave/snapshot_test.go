package cave

import (
	"encoding/json"
	"testing"

	"github.com/annel0/mine-game/internal/util"
	"github.com/annel0/mine-game/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestore(t *testing.T) {
	g := MustNewGenerator(DefaultConfig())
	l, err := g.Generate(util.NewSource(31))
	require.NoError(t, err)

	data, err := json.Marshal(l.Snapshot())
	require.NoError(t, err)

	var s Snapshot
	require.NoError(t, json.Unmarshal(data, &s))

	restored, err := g.Restore(s)
	require.NoError(t, err)
	assert.Equal(t, l.Render(), restored.Render())
	assert.Equal(t, l.Seed(), restored.Seed())
	assert.Equal(t, l.RockCount(), restored.RockCount())
}

func TestSnapshotKeepsRockHealth(t *testing.T) {
	g := MustNewGenerator(DefaultConfig())
	l, err := g.Generate(util.NewSource(31))
	require.NoError(t, err)

	// ставим игрока рядом с породой через снимок и бьём её
	s := l.Snapshot()
	target := s.Rocks[0]
	var next vec.Vec2
	for _, n := range (vec.Vec2{X: target.X, Y: target.Y}).Neighbors8() {
		if _, busy := l.RockAt(n); !busy && l.IsFloor(n) && n != l.Exit() {
			next = n
			break
		}
	}
	require.NotEqual(t, vec.Vec2{}, next)
	s.Player = next
	moved, err := g.Restore(s)
	require.NoError(t, err)

	hit, broken, found := moved.StrikeAdjacentRock(1)
	require.True(t, found)
	require.False(t, broken)

	restored, err := g.Restore(moved.Snapshot())
	require.NoError(t, err)
	got, ok := restored.RockAt(hit.Pos)
	require.True(t, ok)
	assert.Equal(t, hit.Health, got.Health, "повреждение переживает сохранение")
	assert.Equal(t, hit.MaxHealth-1, got.Health)
}

// smallCapGenerator допускает не больше двух пород
func smallCapGenerator(t *testing.T) *Generator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MaxRocks = 2
	cfg.MinInitialRocks = 1
	g, err := NewGenerator(cfg)
	require.NoError(t, err)
	return g
}

func TestRestoreRejectsBrokenInvariants(t *testing.T) {
	g := smallCapGenerator(t)
	base := func() Snapshot {
		return Snapshot{
			Width: 7, Height: 3, MaxRocks: 2,
			Rows:   []string{"#######", "#.....#", "#######"},
			Player: vec.Vec2{X: 1, Y: 1},
			Exit:   vec.Vec2{X: 5, Y: 1},
		}
	}

	cases := map[string]func(*Snapshot){
		"player_on_wall": func(s *Snapshot) { s.Player = vec.Vec2{X: 0, Y: 0} },
		"exit_on_wall":   func(s *Snapshot) { s.Exit = vec.Vec2{X: 6, Y: 1} },
		"rows":           func(s *Snapshot) { s.Rows = s.Rows[:2] },
		"glyph":          func(s *Snapshot) { s.Rows[1] = "#.?...#" },
		"rock_kind":      func(s *Snapshot) { s.Rocks = []RockSnapshot{{X: 2, Y: 1, Kind: "diamond"}} },
		"rock_on_exit":   func(s *Snapshot) { s.Rocks = []RockSnapshot{{X: 5, Y: 1, Kind: "coal"}} },
		"rock_on_player": func(s *Snapshot) { s.Rocks = []RockSnapshot{{X: 1, Y: 1, Kind: "coal"}} },
		"same_cell": func(s *Snapshot) {
			s.Rocks = []RockSnapshot{{X: 2, Y: 1, Kind: "coal"}, {X: 2, Y: 1, Kind: "tin"}}
		},
		"too_many_rocks": func(s *Snapshot) {
			s.Rocks = []RockSnapshot{{X: 2, Y: 1, Kind: "coal"}, {X: 3, Y: 1, Kind: "tin"}, {X: 4, Y: 1, Kind: "tin"}}
		},
		"raised_cap": func(s *Snapshot) {
			s.MaxRocks = 40
			s.Rocks = []RockSnapshot{{X: 2, Y: 1, Kind: "coal"}, {X: 3, Y: 1, Kind: "tin"}, {X: 4, Y: 1, Kind: "tin"}}
		},
		"health_above_max": func(s *Snapshot) { s.Rocks = []RockSnapshot{{X: 2, Y: 1, Kind: "coal", Health: 1000}} },
		"negative_health":  func(s *Snapshot) { s.Rocks = []RockSnapshot{{X: 2, Y: 1, Kind: "coal", Health: -1}} },
		"disconnected":     func(s *Snapshot) { s.Rows[1] = "#.#...#" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := base()
			mutate(&s)
			_, err := g.Restore(s)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}

	_, err := g.Restore(base())
	assert.NoError(t, err)
}

func TestRestoreUsesConfiguredCap(t *testing.T) {
	g := smallCapGenerator(t)
	s := Snapshot{
		Width: 7, Height: 3, MaxRocks: 40,
		Rows:   []string{"#######", "#.....#", "#######"},
		Rocks:  []RockSnapshot{{X: 3, Y: 1, Kind: "coal"}},
		Player: vec.Vec2{X: 1, Y: 1},
		Exit:   vec.Vec2{X: 5, Y: 1},
	}

	l, err := g.Restore(s)
	require.NoError(t, err)
	assert.Equal(t, 2, l.MaxRocks(), "предел из снимка не учитывается")

	src := util.NewSource(3)
	for i := 0; i < 10; i++ {
		l.SpawnRock(src, DefaultRockWeights)
	}
	assert.Equal(t, 2, l.RockCount())
}
