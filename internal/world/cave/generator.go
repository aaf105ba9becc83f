package cave

import (
	"errors"
	"fmt"

	"github.com/annel0/mine-game/internal/util"
	"github.com/annel0/mine-game/internal/vec"
)

// ErrGenerationExhausted - все попытки генерации отклонены.
// Означает ошибку конфигурации (вероятность стен или размер сетки).
var ErrGenerationExhausted = errors.New("исчерпаны попытки генерации пещеры")

// Generator строит пещеры клеточным автоматом
type Generator struct {
	cfg       Config
	spawnRock RockSpawner
}

// NewGenerator проверяет параметры и создаёт генератор.
// Экземпляры пород берутся из реестра по умолчанию, см. WithRockSpawner.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, spawnRock: DefaultRockSpawner}, nil
}

// MustNewGenerator как NewGenerator, но паникует при ошибке конфигурации
func MustNewGenerator(cfg Config) *Generator {
	g, err := NewGenerator(cfg)
	if err != nil {
		panic(err)
	}
	return g
}

// Config возвращает параметры генератора
func (g *Generator) Config() Config {
	return g.cfg
}

// WithRockSpawner возвращает копию генератора, создающую породы через spawn
func (g *Generator) WithRockSpawner(spawn RockSpawner) *Generator {
	cp := *g
	if spawn != nil {
		cp.spawnRock = spawn
	}
	return &cp
}

// WithRockWeights возвращает копию генератора с другими весами пород
func (g *Generator) WithRockWeights(weights []RockWeight) (*Generator, error) {
	cfg := g.cfg
	cfg.RockWeights = weights
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cp := *g
	cp.cfg = cfg
	return &cp, nil
}

// Attempt - итог одной попытки, используется для диагностики
type Attempt struct {
	Seed   int64
	Reason string
}

// Generate строит пещеру. Каждая попытка получает свежий сид из src;
// отклонённая попытка повторяется с новым сидом не более MaxAttempts раз.
func (g *Generator) Generate(src util.Source) (*Layout, error) {
	layout, _, err := g.GenerateWithReport(src)
	return layout, err
}

// GenerateWithReport как Generate, но возвращает и отклонённые попытки
func (g *Generator) GenerateWithReport(src util.Source) (*Layout, []Attempt, error) {
	var rejected []Attempt
	for i := 0; i < g.cfg.MaxAttempts; i++ {
		seed := src.Int63()
		layout, reason := g.attempt(seed)
		if layout != nil {
			return layout, rejected, nil
		}
		rejected = append(rejected, Attempt{Seed: seed, Reason: reason})
	}

	last := ""
	if n := len(rejected); n > 0 {
		last = rejected[n-1].Reason
	}
	return nil, rejected, fmt.Errorf("%w: %d попыток, последняя причина: %s", ErrGenerationExhausted, g.cfg.MaxAttempts, last)
}

// GenerateSeed выполняет одну попытку с заданным сидом
func (g *Generator) GenerateSeed(seed int64) (*Layout, error) {
	layout, reason := g.attempt(seed)
	if layout == nil {
		return nil, fmt.Errorf("сид %d отклонён: %s", seed, reason)
	}
	return layout, nil
}

// attempt возвращает пещеру или причину отказа
func (g *Generator) attempt(seed int64) (*Layout, string) {
	cfg := g.cfg
	rng := util.NewSource(seed)

	l := newLayout(cfg.Width, cfg.Height, cfg.MaxRocks, g.spawnRock)
	l.seed = seed

	g.fill(l, rng, seed)
	for i := 0; i < cfg.SmoothingIterations; i++ {
		g.smooth(l)
	}
	g.forceBorder(l)

	floor := keepLargestRegion(l)
	if floor < cfg.MinFloorCells {
		return nil, fmt.Sprintf("связная область %d клеток меньше %d", floor, cfg.MinFloorCells)
	}

	rockCount := util.IntInclusive(rng, cfg.MinInitialRocks, cfg.MaxRocks)
	if floor-2 < rockCount {
		return nil, fmt.Sprintf("пола %d клеток не хватает для %d пород", floor, rockCount)
	}

	// Игрок - случайная клетка пола, выход - самая дальняя по BFS
	cells := l.FloorPositions()
	l.player = cells[rng.Intn(len(cells))]
	exit, distance := farthest(l, l.player)
	if distance < cfg.MinExitDistance {
		return nil, fmt.Sprintf("выход на расстоянии %d ближе %d", distance, cfg.MinExitDistance)
	}
	l.exit = exit

	if err := l.occupancy.Occupy(l.player, playerHandle); err != nil {
		return nil, err.Error()
	}

	for i := 0; i < rockCount; i++ {
		if _, ok := l.SpawnRock(rng, cfg.RockWeights); !ok {
			return nil, fmt.Sprintf("не удалось разместить породу %d из %d", i+1, rockCount)
		}
	}

	return l, ""
}

func (g *Generator) fill(l *Layout, rng util.Source, seed int64) {
	cfg := g.cfg
	var noise *util.NoiseField
	if cfg.FillMode == FillNoise {
		noise = util.NewNoiseField(seed, cfg.NoiseScale)
	}

	cx, cy := float64(cfg.Width)/2, float64(cfg.Height)/2
	rx, ry := float64(cfg.Width)/3, float64(cfg.Height)/3

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			pos := vec.Vec2{X: x, Y: y}
			cell := Floor

			switch {
			case g.onBorder(pos):
				cell = Wall
			case cfg.FillMode == FillNoise:
				if noise.At(x, y) > 1-cfg.WallFillProbability {
					cell = Wall
				}
			case cfg.FillMode == FillEllipse:
				dx := (float64(x) - cx) / rx
				dy := (float64(y) - cy) / ry
				d := dx*dx + dy*dy
				if d >= 1.2 || (d >= 0.7 && util.Chance(rng, cfg.WallFillProbability)) {
					cell = Wall
				}
			default:
				if util.Chance(rng, cfg.WallFillProbability) {
					cell = Wall
				}
			}

			l.cells[pos.Index(cfg.Width)] = cell
		}
	}
}

func (g *Generator) onBorder(pos vec.Vec2) bool {
	b := g.cfg.BorderWalls
	return pos.X < b || pos.Y < b || pos.X >= g.cfg.Width-b || pos.Y >= g.cfg.Height-b
}

func (g *Generator) forceBorder(l *Layout) {
	for i := range l.cells {
		if g.onBorder(vec.FromIndex(i, l.width)) {
			l.cells[i] = Wall
		}
	}
}

// smooth - один шаг автомата: стена, если стен среди 8 соседей больше порога, иначе пол.
// Клетки за пределами сетки считаются стенами.
func (g *Generator) smooth(l *Layout) {
	next := make([]Cell, len(l.cells))
	for i := range l.cells {
		pos := vec.FromIndex(i, l.width)
		walls := 0
		for _, n := range pos.Neighbors8() {
			if l.Cell(n) == Wall {
				walls++
			}
		}
		if walls > g.cfg.WallThreshold {
			next[i] = Wall
		} else {
			next[i] = Floor
		}
	}
	l.cells = next
}

// keepLargestRegion оставляет наибольшую 4-связную область пола и возвращает её размер
func keepLargestRegion(l *Layout) int {
	region := make([]int, len(l.cells))
	for i := range region {
		region[i] = -1
	}

	var sizes []int
	for i, c := range l.cells {
		if c != Floor || region[i] >= 0 {
			continue
		}
		id := len(sizes)
		size := 0
		stack := []vec.Vec2{vec.FromIndex(i, l.width)}
		region[i] = id
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			for _, n := range cur.Neighbors4() {
				if !l.IsFloor(n) || region[n.Index(l.width)] >= 0 {
					continue
				}
				region[n.Index(l.width)] = id
				stack = append(stack, n)
			}
		}
		sizes = append(sizes, size)
	}

	if len(sizes) == 0 {
		return 0
	}
	largest := 0
	for id, s := range sizes {
		if s > sizes[largest] {
			largest = id
		}
	}
	for i := range l.cells {
		if l.cells[i] == Floor && region[i] != largest {
			l.cells[i] = Wall
		}
	}
	return sizes[largest]
}

// farthest возвращает клетку пола с наибольшим BFS-расстоянием от from.
// При равенстве побеждает первая в построчном порядке.
func farthest(l *Layout, from vec.Vec2) (vec.Vec2, int) {
	dist := l.Distances(from)
	best, bestDist := from, 0
	for i, d := range dist {
		if d > bestDist {
			best, bestDist = vec.FromIndex(i, l.width), d
		}
	}
	return best, bestDist
}
