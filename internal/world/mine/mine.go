package mine

import (
	"errors"
	"fmt"
	"time"

	"github.com/annel0/mine-game/internal/game/location"
	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/util"
	"github.com/annel0/mine-game/internal/world/cave"
	"github.com/annel0/mine-game/internal/world/refresh"
)

// ErrNotAMine - локация не является шахтой
var ErrNotAMine = errors.New("локация не является шахтой")

// TickReport - что произошло за тик
type TickReport struct {
	Regenerated bool            `json:"regenerated"`
	RockSpawned bool            `json:"rock_spawned"`
	Rock        cave.PlacedRock `json:"rock"`
}

// Mine - шахта с пещерой и двумя таймерами: появление пород и полная перегенерация.
// За тик перегенерация проверяется раньше появления породы.
type Mine struct {
	id           location.ID
	name         string
	generator    *cave.Generator
	weights      []cave.RockWeight
	src          util.Source
	layout       *cave.Layout
	respawn      refresh.Countdown
	regeneration refresh.Countdown
	generation   int
}

// New создаёт шахту и генерирует первую пещеру.
// Веса пород берутся из спецификации локации, если они заданы.
func New(id location.ID, spec location.Spec, gen *cave.Generator, src util.Source) (*Mine, error) {
	if spec.Kind != location.Mine {
		return nil, fmt.Errorf("%s: %w", id, ErrNotAMine)
	}

	weights := gen.Config().RockWeights
	if len(spec.RockWeights) > 0 {
		weights = make([]cave.RockWeight, len(spec.RockWeights))
		for i, w := range spec.RockWeights {
			weights[i] = cave.RockWeight{Kind: w.Rock, Weight: w.Weight}
		}
	}

	mineGen, err := gen.WithRockWeights(weights)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	m := &Mine{
		id:           id,
		name:         spec.Name,
		generator:    mineGen,
		weights:      weights,
		src:          src,
		respawn:      refresh.NewCountdown(spec.RespawnInterval),
		regeneration: refresh.NewCountdown(spec.RegenerationInterval),
	}
	if err := m.regenerate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ID возвращает идентификатор локации
func (m *Mine) ID() location.ID { return m.id }

// Name возвращает название шахты
func (m *Mine) Name() string { return m.name }

// Generation возвращает номер текущей пещеры, начиная с 1
func (m *Mine) Generation() int { return m.generation }

// Layout возвращает текущую пещеру
func (m *Mine) Layout() *cave.Layout { return m.layout }

// RockWeights возвращает веса пород шахты
func (m *Mine) RockWeights() []cave.RockWeight {
	out := make([]cave.RockWeight, len(m.weights))
	copy(out, m.weights)
	return out
}

func (m *Mine) regenerate() error {
	layout, err := m.generator.Generate(m.src)
	if err != nil {
		return fmt.Errorf("%s: %w", m.id, err)
	}
	m.layout = layout
	m.generation++
	m.regeneration.Reset()
	m.respawn.Reset()
	return nil
}

// Tick продвигает таймеры на elapsed.
// Если истёк таймер перегенерации - пещера заменяется, оба таймера сбрасываются, порода в этот тик не появляется.
// Иначе при истёкшем таймере появления и числе пород ниже предела появляется одна порода.
func (m *Mine) Tick(elapsed time.Duration) (TickReport, error) {
	var report TickReport

	m.regeneration.Advance(elapsed)
	m.respawn.Advance(elapsed)

	if m.regeneration.Ready() {
		if err := m.regenerate(); err != nil {
			return report, err
		}
		report.Regenerated = true
		return report, nil
	}

	if m.respawn.Ready() && m.layout.RockCount() < m.layout.MaxRocks() {
		m.respawn.Reset()
		if r, ok := m.layout.SpawnRock(m.src, m.weights); ok {
			report.RockSpawned = true
			report.Rock = r
		}
	}

	return report, nil
}

// Refresh немедленно перегенерирует пещеру
func (m *Mine) Refresh() error {
	return m.regenerate()
}

// TimeUntilRegeneration возвращает время до перегенерации
func (m *Mine) TimeUntilRegeneration() time.Duration {
	return m.regeneration.Remaining()
}

// TimeUntilRespawn возвращает время до появления породы
func (m *Mine) TimeUntilRespawn() time.Duration {
	return m.respawn.Remaining()
}

// MovePlayer сдвигает игрока в текущей пещере
func (m *Mine) MovePlayer(dx, dy int) cave.MoveOutcome {
	return m.layout.MovePlayer(dx, dy)
}

// MineAdjacentRock добывает соседнюю породу
func (m *Mine) MineAdjacentRock() (rock.ID, bool) {
	return m.layout.MineAdjacentRock()
}

// MineAdjacentRockAt добывает соседнюю породу и возвращает её позицию
func (m *Mine) MineAdjacentRockAt() (cave.PlacedRock, bool) {
	return m.layout.MineAdjacentRockAt()
}

// StrikeAdjacentRock бьёт соседнюю породу, разрушенная порода убирается
func (m *Mine) StrikeAdjacentRock(damage int) (r cave.PlacedRock, broken, found bool) {
	return m.layout.StrikeAdjacentRock(damage)
}
