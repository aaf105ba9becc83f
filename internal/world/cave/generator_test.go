package cave

import (
	"testing"

	"github.com/annel0/mine-game/internal/util"
	"github.com/annel0/mine-game/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertPlayable проверяет инварианты сгенерированной пещеры
func assertPlayable(t *testing.T, cfg Config, l *Layout) {
	t.Helper()

	assert.Equal(t, cfg.Width, l.Width())
	assert.Equal(t, cfg.Height, l.Height())
	assert.True(t, l.IsFloor(l.Player()), "игрок должен стоять на полу")
	assert.True(t, l.IsFloor(l.Exit()), "выход должен быть на полу")
	assert.NotEqual(t, l.Player(), l.Exit())
	assert.True(t, l.Reachable(l.Player(), l.Exit()), "выход должен быть достижим")
	assert.True(t, l.Connected(), "весь пол должен быть связан с игроком")

	floor := l.FloorCount()
	assert.GreaterOrEqual(t, floor, cfg.MinFloorCells)
	assert.LessOrEqual(t, floor, cfg.InteriorCells())

	assert.GreaterOrEqual(t, l.RockCount(), cfg.MinInitialRocks)
	assert.LessOrEqual(t, l.RockCount(), cfg.MaxRocks)

	seen := make(map[vec.Vec2]bool)
	for _, r := range l.Rocks() {
		assert.True(t, l.IsFloor(r.Pos), "порода на полу")
		assert.NotEqual(t, l.Player(), r.Pos)
		assert.NotEqual(t, l.Exit(), r.Pos)
		assert.False(t, seen[r.Pos], "породы в разных клетках")
		assert.True(t, l.Reachable(l.Player(), r.Pos), "порода достижима")
		seen[r.Pos] = true
	}

	// Рамка всегда из стен
	for x := 0; x < cfg.Width; x++ {
		assert.False(t, l.IsFloor(vec.Vec2{X: x, Y: 0}))
		assert.False(t, l.IsFloor(vec.Vec2{X: x, Y: cfg.Height - 1}))
	}
	for y := 0; y < cfg.Height; y++ {
		assert.False(t, l.IsFloor(vec.Vec2{X: 0, Y: y}))
		assert.False(t, l.IsFloor(vec.Vec2{X: cfg.Width - 1, Y: y}))
	}
}

func TestGenerateSeededDefaults(t *testing.T) {
	cfg := DefaultConfig()
	g, err := NewGenerator(cfg)
	require.NoError(t, err)

	l, err := g.Generate(util.NewSource(12345))
	require.NoError(t, err, "генерация с параметрами по умолчанию должна удаваться")
	assertPlayable(t, cfg, l)
}

func TestGenerateManySeeds(t *testing.T) {
	for _, mode := range []FillMode{FillRandom, FillNoise, FillEllipse} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.FillMode = mode
			g := MustNewGenerator(cfg)

			src := util.NewSource(int64(len(mode)))
			for i := 0; i < 20; i++ {
				l, err := g.Generate(src)
				require.NoError(t, err)
				assertPlayable(t, cfg, l)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := MustNewGenerator(DefaultConfig())

	a, err := g.Generate(util.NewSource(77))
	require.NoError(t, err)
	b, err := g.Generate(util.NewSource(77))
	require.NoError(t, err)

	assert.Equal(t, a.Render(), b.Render(), "одинаковый источник даёт одинаковую пещеру")
	assert.Equal(t, a.Seed(), b.Seed())

	c, err := g.GenerateSeed(a.Seed())
	require.NoError(t, err)
	assert.Equal(t, a.Render(), c.Render(), "сид удачной попытки воспроизводит пещеру")
}

func TestGenerateExhausted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinExitDistance = 1000
	cfg.MaxAttempts = 3
	g := MustNewGenerator(cfg)

	l, report, err := g.GenerateWithReport(util.NewSource(1))
	assert.Nil(t, l)
	assert.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Len(t, report, 3, "каждая попытка использует новый сид")
	assert.NotEqual(t, report[0].Seed, report[1].Seed)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cases := map[string]func(*Config){
		"tiny":         func(c *Config) { c.Width = 3 },
		"fill":         func(c *Config) { c.WallFillProbability = 1.5 },
		"mode":         func(c *Config) { c.FillMode = "lava" },
		"threshold":    func(c *Config) { c.WallThreshold = 9 },
		"rocks":        func(c *Config) { c.MinInitialRocks = 9 },
		"attempts":     func(c *Config) { c.MaxAttempts = 0 },
		"weights":      func(c *Config) { c.RockWeights = nil },
		"floor":        func(c *Config) { c.MinFloorCells = 5000 },
		"border":       func(c *Config) { c.BorderWalls = 0 },
		"noise_scale":  func(c *Config) { c.FillMode = FillNoise; c.NoiseScale = 0 },
		"negative_wgt": func(c *Config) { c.RockWeights = []RockWeight{{Weight: -1}, {Weight: 5}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
			_, err := NewGenerator(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	assert.Panics(t, func() {
		cfg := DefaultConfig()
		cfg.MaxAttempts = 0
		MustNewGenerator(cfg)
	})
}

func TestRockTypeWeights(t *testing.T) {
	cfg := DefaultConfig()
	g := MustNewGenerator(cfg)
	src := util.NewSource(99)

	counts := map[string]int{}
	total := 0
	for i := 0; i < 150; i++ {
		l, err := g.Generate(src)
		require.NoError(t, err)
		for _, r := range l.Rocks() {
			counts[r.Kind.String()]++
			total++
		}
	}

	assert.InDelta(t, 0.5, float64(counts["copper"])/float64(total), 0.06)
	assert.InDelta(t, 0.3, float64(counts["coal"])/float64(total), 0.06)
	assert.InDelta(t, 0.2, float64(counts["tin"])/float64(total), 0.06)
}
