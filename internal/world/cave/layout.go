package cave

import (
	"fmt"
	"strings"

	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/util"
	"github.com/annel0/mine-game/internal/vec"
	"github.com/annel0/mine-game/internal/world/grid"
)

// Cell - клетка пещеры
type Cell uint8

const (
	Wall Cell = iota
	Floor
)

// MoveOutcome - результат попытки движения игрока
type MoveOutcome uint8

const (
	MoveOK MoveOutcome = iota
	MoveOutOfBounds
	MoveBlockedByWall
	MoveBlockedByRock
	MoveTooFar
)

func (m MoveOutcome) String() string {
	switch m {
	case MoveOK:
		return "ok"
	case MoveOutOfBounds:
		return "out_of_bounds"
	case MoveBlockedByWall:
		return "blocked_by_wall"
	case MoveBlockedByRock:
		return "blocked_by_rock"
	case MoveTooFar:
		return "too_far"
	default:
		return "unknown"
	}
}

// PlacedRock - экземпляр породы, размещённый в пещере
type PlacedRock struct {
	rock.Rock
	Pos    vec.Vec2    `json:"pos"`
	Handle grid.Handle `json:"-"`
}

// RockSpawner создаёт экземпляр породы по спецификации
type RockSpawner func(kind rock.ID) rock.Rock

var defaultRocks = rock.NewRegistry()

// DefaultRockSpawner берёт спецификации из реестра пород по умолчанию
func DefaultRockSpawner(kind rock.ID) rock.Rock {
	return rock.Spawn(defaultRocks, kind, nil)
}

const playerHandle grid.Handle = 1

// Layout - сгенерированная пещера: сетка стен и пола, породы, игрок и выход.
// Игрок и породы учитываются в сетке занятости.
// Не потокобезопасна: владелец сериализует доступ.
type Layout struct {
	width, height int
	cells         []Cell
	rocks         []PlacedRock
	occupancy     *grid.Occupancy
	player        vec.Vec2
	exit          vec.Vec2
	maxRocks      int
	nextHandle    grid.Handle
	seed          int64
	spawnRock     RockSpawner
}

func newLayout(width, height, maxRocks int, spawn RockSpawner) *Layout {
	if spawn == nil {
		spawn = DefaultRockSpawner
	}
	return &Layout{
		width:      width,
		height:     height,
		cells:      make([]Cell, width*height),
		occupancy:  grid.NewOccupancy(width, height),
		maxRocks:   maxRocks,
		nextHandle: playerHandle + 1,
		spawnRock:  spawn,
	}
}

// Width возвращает ширину пещеры
func (l *Layout) Width() int { return l.width }

// Height возвращает высоту пещеры
func (l *Layout) Height() int { return l.height }

// Seed возвращает сид удачной попытки генерации
func (l *Layout) Seed() int64 { return l.seed }

// MaxRocks возвращает предел пород
func (l *Layout) MaxRocks() int { return l.maxRocks }

// Cell возвращает клетку. За пределами сетки - стена.
func (l *Layout) Cell(pos vec.Vec2) Cell {
	if !pos.InBounds(l.width, l.height) {
		return Wall
	}
	return l.cells[pos.Index(l.width)]
}

// IsFloor проверяет, что клетка - пол
func (l *Layout) IsFloor(pos vec.Vec2) bool {
	return l.Cell(pos) == Floor
}

// FloorCount возвращает число клеток пола
func (l *Layout) FloorCount() int {
	n := 0
	for _, c := range l.cells {
		if c == Floor {
			n++
		}
	}
	return n
}

// FloorPositions возвращает клетки пола в построчном порядке
func (l *Layout) FloorPositions() []vec.Vec2 {
	var out []vec.Vec2
	for i, c := range l.cells {
		if c == Floor {
			out = append(out, vec.FromIndex(i, l.width))
		}
	}
	return out
}

// Player возвращает позицию игрока
func (l *Layout) Player() vec.Vec2 { return l.player }

// Exit возвращает позицию выхода
func (l *Layout) Exit() vec.Vec2 { return l.exit }

// IsOnExit сообщает, стоит ли игрок на выходе
func (l *Layout) IsOnExit() bool {
	return l.player == l.exit
}

// Rocks возвращает копию списка пород
func (l *Layout) Rocks() []PlacedRock {
	out := make([]PlacedRock, len(l.rocks))
	copy(out, l.rocks)
	return out
}

// RockCount возвращает число пород
func (l *Layout) RockCount() int {
	return len(l.rocks)
}

// RockAt возвращает породу в клетке
func (l *Layout) RockAt(pos vec.Vec2) (PlacedRock, bool) {
	h, ok := l.occupancy.OccupantAt(pos)
	if !ok || h == playerHandle {
		return PlacedRock{}, false
	}
	for _, r := range l.rocks {
		if r.Handle == h {
			return r, true
		}
	}
	return PlacedRock{}, false
}

// MovePlayer сдвигает игрока на одну клетку, включая диагонали. Отказ не меняет состояние.
func (l *Layout) MovePlayer(dx, dy int) MoveOutcome {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return MoveTooFar
	}
	target := l.player.Add(vec.Vec2{X: dx, Y: dy})

	if !target.InBounds(l.width, l.height) {
		return MoveOutOfBounds
	}
	if l.Cell(target) == Wall {
		return MoveBlockedByWall
	}
	if l.occupancy.IsOccupied(target) && target != l.player {
		return MoveBlockedByRock
	}
	if err := l.occupancy.MoveOccupant(l.player, target); err != nil {
		// Игрок всегда размещён, иначе раскладка повреждена
		panic(fmt.Errorf("сетка занятости рассогласована: %w", err))
	}
	l.player = target
	return MoveOK
}

// AdjacentRock ищет породу среди 8 соседей игрока в порядке N, NE, E, SE, S, SW, W, NW
func (l *Layout) AdjacentRock() (PlacedRock, bool) {
	for _, pos := range l.player.Neighbors8() {
		if r, ok := l.RockAt(pos); ok {
			return r, true
		}
	}
	return PlacedRock{}, false
}

// MineAdjacentRockAt убирает соседнюю породу сразу, без учёта прочности.
// false означает, что рядом нет породы.
func (l *Layout) MineAdjacentRockAt() (PlacedRock, bool) {
	r, ok := l.AdjacentRock()
	if !ok {
		return PlacedRock{}, false
	}
	l.removeRock(r.Handle)
	return r, true
}

// MineAdjacentRock добывает соседнюю породу и возвращает её тип для броска добычи
func (l *Layout) MineAdjacentRock() (rock.ID, bool) {
	r, ok := l.MineAdjacentRockAt()
	return r.Kind, ok
}

// StrikeAdjacentRock бьёт соседнюю породу на damage.
// Порода убирается из пещеры, только когда её прочность кончилась.
func (l *Layout) StrikeAdjacentRock(damage int) (r PlacedRock, broken, found bool) {
	target, ok := l.AdjacentRock()
	if !ok {
		return PlacedRock{}, false, false
	}
	i := l.rockIndex(target.Handle)
	broken = l.rocks[i].Hit(damage)
	r = l.rocks[i]
	if broken {
		l.removeRock(r.Handle)
	}
	return r, broken, true
}

func (l *Layout) rockIndex(h grid.Handle) int {
	for i, r := range l.rocks {
		if r.Handle == h {
			return i
		}
	}
	return -1
}

func (l *Layout) removeRock(h grid.Handle) {
	if i := l.rockIndex(h); i >= 0 {
		l.occupancy.Remove(h)
		l.rocks = append(l.rocks[:i], l.rocks[i+1:]...)
	}
}

// placeRock создаёт экземпляр породы и размещает его в свободной клетке пола
func (l *Layout) placeRock(pos vec.Vec2, kind rock.ID) error {
	if !l.IsFloor(pos) {
		return fmt.Errorf("порода в %v не на полу", pos)
	}
	if pos == l.exit {
		return fmt.Errorf("порода в %v на выходе", pos)
	}
	h := l.nextHandle
	if err := l.occupancy.Occupy(pos, h); err != nil {
		return err
	}
	l.nextHandle++
	l.rocks = append(l.rocks, PlacedRock{Rock: l.spawnRock(kind), Pos: pos, Handle: h})
	return nil
}

// FreeFloor возвращает свободные клетки пола, кроме выхода, в построчном порядке
func (l *Layout) FreeFloor() []vec.Vec2 {
	var out []vec.Vec2
	for i, c := range l.cells {
		if c != Floor {
			continue
		}
		pos := vec.FromIndex(i, l.width)
		if pos == l.exit || l.occupancy.IsOccupied(pos) {
			continue
		}
		out = append(out, pos)
	}
	return out
}

// SpawnRock размещает одну породу в случайной свободной клетке пола.
// Возвращает false при достижении предела или отсутствии места.
func (l *Layout) SpawnRock(src util.Source, weights []RockWeight) (PlacedRock, bool) {
	if len(l.rocks) >= l.maxRocks {
		return PlacedRock{}, false
	}
	free := l.FreeFloor()
	if len(free) == 0 {
		return PlacedRock{}, false
	}
	kind, ok := pickRock(src, weights)
	if !ok {
		return PlacedRock{}, false
	}

	pos := free[src.Intn(len(free))]
	if err := l.placeRock(pos, kind); err != nil {
		return PlacedRock{}, false
	}
	return l.rocks[len(l.rocks)-1], true
}

func pickRock(src util.Source, weights []RockWeight) (rock.ID, bool) {
	w := make([]int, len(weights))
	for i, rw := range weights {
		w[i] = rw.Weight
	}
	idx := util.WeightedIndex(src, w)
	if idx < 0 {
		return 0, false
	}
	return weights[idx].Kind, true
}

// Distances возвращает BFS-расстояния по 4-связному полу от from; -1 для недостижимых клеток.
// Породы не считаются препятствием: их можно добыть.
func (l *Layout) Distances(from vec.Vec2) []int {
	dist := make([]int, len(l.cells))
	for i := range dist {
		dist[i] = -1
	}
	if !l.IsFloor(from) {
		return dist
	}

	queue := []vec.Vec2{from}
	dist[from.Index(l.width)] = 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur.Index(l.width)]
		for _, n := range cur.Neighbors4() {
			if !l.IsFloor(n) || dist[n.Index(l.width)] >= 0 {
				continue
			}
			dist[n.Index(l.width)] = d + 1
			queue = append(queue, n)
		}
	}
	return dist
}

// Reachable сообщает, связан ли to с from по 4-связному полу
func (l *Layout) Reachable(from, to vec.Vec2) bool {
	if !to.InBounds(l.width, l.height) {
		return false
	}
	return l.Distances(from)[to.Index(l.width)] >= 0
}

// Connected проверяет, что весь пол достижим от игрока
func (l *Layout) Connected() bool {
	dist := l.Distances(l.player)
	for i, c := range l.cells {
		if c == Floor && dist[i] < 0 {
			return false
		}
	}
	return true
}

// Render рисует пещеру: '#' стена, '.' пол, '@' игрок, '>' выход, '*' порода
func (l *Layout) Render() string {
	return l.RenderWith(func(rock.ID) rune { return '*' })
}

// RenderWith рисует пещеру с заданными символами пород
func (l *Layout) RenderWith(glyph func(rock.ID) rune) string {
	var b strings.Builder
	b.Grow((l.width + 1) * l.height)
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			pos := vec.Vec2{X: x, Y: y}
			switch {
			case pos == l.player:
				b.WriteByte('@')
			case pos == l.exit:
				b.WriteByte('>')
			default:
				if r, ok := l.RockAt(pos); ok {
					b.WriteRune(glyph(r.Kind))
				} else if l.IsFloor(pos) {
					b.WriteByte('.')
				} else {
					b.WriteByte('#')
				}
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
