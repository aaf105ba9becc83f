package dungeon

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/annel0/mine-game/internal/game/location"
	"github.com/annel0/mine-game/internal/game/mob"
	"github.com/annel0/mine-game/internal/util"
	"github.com/annel0/mine-game/internal/vec"
	"github.com/annel0/mine-game/internal/world/grid"
	"github.com/annel0/mine-game/internal/world/refresh"
)

//go:embed maps/main_dungeon.yaml
var mainDungeonMap []byte

var (
	// ErrNotADungeon - локация не является подземельем
	ErrNotADungeon = errors.New("локация не является подземельем")
	// ErrNoPlayerSpawn - на карте нет клетки появления игрока
	ErrNoPlayerSpawn = errors.New("на карте нет клетки появления игрока")
)

// DefaultMap возвращает встроенную карту главного подземелья
func DefaultMap() (*grid.TileMap, error) {
	return grid.ParseTileMap(mainDungeonMap)
}

// MoveOutcome - результат попытки движения по этажу
type MoveOutcome uint8

const (
	MoveOK MoveOutcome = iota
	MoveOutOfBounds
	MoveBlocked
	MoveEncounter
	MoveTooFar
)

func (m MoveOutcome) String() string {
	switch m {
	case MoveOK:
		return "ok"
	case MoveOutOfBounds:
		return "out_of_bounds"
	case MoveBlocked:
		return "blocked"
	case MoveEncounter:
		return "encounter"
	case MoveTooFar:
		return "too_far"
	default:
		return "unknown"
	}
}

// MobView - моб на этаже
type MobView struct {
	Handle grid.Handle `json:"handle"`
	Pos    vec.Vec2    `json:"pos"`
	Mob    *mob.Mob    `json:"mob"`
}

// TickReport - что произошло за тик
type TickReport struct {
	Regenerated bool        `json:"regenerated"`
	MobSpawned  bool        `json:"mob_spawned"`
	Handle      grid.Handle `json:"handle,omitempty"`
}

const playerHandle grid.Handle = 1

// Dungeon - этаж подземелья: карта клеток, игрок и мобы в сетке занятости
type Dungeon struct {
	id           location.ID
	name         string
	tiles        *grid.TileMap
	occupancy    *grid.Occupancy
	mobs         map[grid.Handle]*mob.Mob
	registry     *mob.Registry
	weights      []location.MobWeight
	maxMobs      int
	src          util.Source
	player       vec.Vec2
	respawn      refresh.Countdown
	regeneration refresh.Countdown
	nextHandle   grid.Handle
}

// New создаёт этаж и заселяет его начальным набором мобов
func New(id location.ID, spec location.Spec, tiles *grid.TileMap, mobs *mob.Registry, src util.Source) (*Dungeon, error) {
	if spec.Kind != location.Dungeon {
		return nil, fmt.Errorf("%s: %w", id, ErrNotADungeon)
	}
	if _, ok := tiles.PlayerSpawn(); !ok {
		return nil, fmt.Errorf("%s: %w", tiles.Name, ErrNoPlayerSpawn)
	}
	for _, w := range spec.MobWeights {
		if !mobs.Has(w.Mob) {
			return nil, fmt.Errorf("%s: моб %s не зарегистрирован", id, w.Mob)
		}
	}

	d := &Dungeon{
		id:           id,
		name:         spec.Name,
		tiles:        tiles,
		registry:     mobs,
		weights:      spec.MobWeights,
		maxMobs:      spec.MaxMobs,
		src:          src,
		respawn:      refresh.NewCountdown(spec.RespawnInterval),
		regeneration: refresh.NewCountdown(spec.RegenerationInterval),
	}
	d.populate()
	return d, nil
}

// InitialMobs - сколько мобов появляется при заселении этажа
func (d *Dungeon) InitialMobs() int {
	return (d.maxMobs + 1) / 2
}

func (d *Dungeon) populate() {
	d.occupancy = grid.NewOccupancy(d.tiles.Width(), d.tiles.Height())
	d.mobs = make(map[grid.Handle]*mob.Mob)
	d.nextHandle = playerHandle + 1

	d.player, _ = d.tiles.PlayerSpawn()
	if err := d.occupancy.Occupy(d.player, playerHandle); err != nil {
		panic(fmt.Errorf("%s: клетка появления игрока %v: %w", d.id, d.player, err))
	}

	for i := 0; i < d.InitialMobs(); i++ {
		if _, ok := d.SpawnMob(); !ok {
			break
		}
	}
	d.respawn.Reset()
	d.regeneration.Reset()
}

// ID возвращает идентификатор локации
func (d *Dungeon) ID() location.ID { return d.id }

// Name возвращает название
func (d *Dungeon) Name() string { return d.name }

// Tiles возвращает карту этажа
func (d *Dungeon) Tiles() *grid.TileMap { return d.tiles }

// Player возвращает позицию игрока
func (d *Dungeon) Player() vec.Vec2 { return d.player }

// MobCount возвращает число мобов на этаже
func (d *Dungeon) MobCount() int { return len(d.mobs) }

// MaxMobs возвращает предел мобов
func (d *Dungeon) MaxMobs() int { return d.maxMobs }

// IsOnExit сообщает, стоит ли игрок на выходе
func (d *Dungeon) IsOnExit() bool {
	return d.tiles.TileAt(d.player) == grid.Exit
}

// Mob возвращает моба по дескриптору
func (d *Dungeon) Mob(h grid.Handle) (*mob.Mob, bool) {
	m, ok := d.mobs[h]
	return m, ok
}

// Mobs возвращает мобов, упорядоченных по дескриптору
func (d *Dungeon) Mobs() []MobView {
	out := make([]MobView, 0, len(d.mobs))
	for h, m := range d.mobs {
		pos, _ := d.occupancy.PositionOf(h)
		out = append(out, MobView{Handle: h, Pos: pos, Mob: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// SpawnMob размещает одного моба на свободной клетке появления не рядом с игроком.
// Возвращает false при достижении предела или отсутствии места.
func (d *Dungeon) SpawnMob() (grid.Handle, bool) {
	if len(d.mobs) >= d.maxMobs {
		return 0, false
	}

	var free []vec.Vec2
	for _, p := range d.tiles.SpawnPoints() {
		if d.occupancy.IsOccupied(p) || p.Chebyshev(d.player) <= 1 {
			continue
		}
		free = append(free, p)
	}
	if len(free) == 0 {
		return 0, false
	}

	weights := make([]int, len(d.weights))
	for i, w := range d.weights {
		weights[i] = w.Weight
	}
	idx := util.WeightedIndex(d.src, weights)
	if idx < 0 {
		return 0, false
	}

	pos := free[d.src.Intn(len(free))]
	h := d.nextHandle
	if err := d.occupancy.Occupy(pos, h); err != nil {
		return 0, false
	}
	d.nextHandle++
	d.mobs[h] = mob.Spawn(d.registry, d.weights[idx].Mob, d.src)
	return h, true
}

// MovePlayer сдвигает игрока на одну клетку. Столкновение с мобом возвращает MoveEncounter и его дескриптор.
func (d *Dungeon) MovePlayer(dx, dy int) (MoveOutcome, grid.Handle) {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return MoveTooFar, 0
	}
	target := d.player.Add(vec.Vec2{X: dx, Y: dy})

	if !target.InBounds(d.tiles.Width(), d.tiles.Height()) {
		return MoveOutOfBounds, 0
	}
	if d.tiles.TileAt(target).IsSolid() {
		return MoveBlocked, 0
	}
	if h, ok := d.occupancy.OccupantAt(target); ok && h != playerHandle {
		return MoveEncounter, h
	}
	if err := d.occupancy.MoveOccupant(d.player, target); err != nil {
		panic(fmt.Errorf("сетка занятости рассогласована: %w", err))
	}
	d.player = target
	return MoveOK, 0
}

// Strike наносит урон мобу и сообщает, погиб ли он
func (d *Dungeon) Strike(h grid.Handle, damage int) (dealt int, dead bool, ok bool) {
	m, exists := d.mobs[h]
	if !exists {
		return 0, false, false
	}
	dealt = m.TakeDamage(damage)
	return dealt, !m.IsAlive(), true
}

// DefeatMob убирает погибшего моба с этажа и освобождает клетку.
// Смерть обрабатывается один раз: повторный вызов и вызов для живого моба возвращают false.
func (d *Dungeon) DefeatMob(h grid.Handle) (*mob.Mob, bool) {
	m, exists := d.mobs[h]
	if !exists || !m.MarkDeathProcessed() {
		return nil, false
	}
	d.occupancy.Remove(h)
	delete(d.mobs, h)
	return m, true
}

// Tick продвигает таймеры. Перегенерация проверяется раньше появления моба:
// она заново заселяет этаж и сбрасывает оба таймера.
func (d *Dungeon) Tick(elapsed time.Duration) TickReport {
	var report TickReport

	d.regeneration.Advance(elapsed)
	d.respawn.Advance(elapsed)

	if d.regeneration.Ready() {
		d.populate()
		report.Regenerated = true
		return report
	}

	if d.respawn.Ready() && len(d.mobs) < d.maxMobs {
		d.respawn.Reset()
		if h, ok := d.SpawnMob(); ok {
			report.MobSpawned = true
			report.Handle = h
		}
	}
	return report
}

// Refresh немедленно заселяет этаж заново
func (d *Dungeon) Refresh() {
	d.populate()
}

// TimeUntilRegeneration возвращает время до перегенерации
func (d *Dungeon) TimeUntilRegeneration() time.Duration {
	return d.regeneration.Remaining()
}

// TimeUntilRespawn возвращает время до появления моба
func (d *Dungeon) TimeUntilRespawn() time.Duration {
	return d.respawn.Remaining()
}
