package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/annel0/mine-game/internal/eventbus"
	"github.com/annel0/mine-game/internal/game/location"
	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/observability"
	"github.com/annel0/mine-game/internal/vec"
	"github.com/annel0/mine-game/internal/world/cave"
	"github.com/annel0/mine-game/internal/world/mine"
)

// MineSummary - краткое описание шахты
type MineSummary struct {
	Location             string  `json:"location"`
	Name                 string  `json:"name"`
	Generation           int     `json:"generation"`
	Rocks                int     `json:"rocks"`
	MaxRocks             int     `json:"max_rocks"`
	UntilRespawnSec      float64 `json:"until_respawn_sec"`
	UntilRegenerationSec float64 `json:"until_regeneration_sec"`
}

// MineView - полное состояние шахты для отрисовки
type MineView struct {
	MineSummary
	Layout cave.Snapshot `json:"layout"`
	Render string        `json:"render"`
	OnExit bool          `json:"on_exit"`
}

// MoveResult - итог шага в шахте
type MoveResult struct {
	Outcome string   `json:"outcome"`
	Moved   bool     `json:"moved"`
	Player  vec.Vec2 `json:"player"`
	OnExit  bool     `json:"on_exit"`
}

// MineResult - итог удара по породе. Добыча есть только у разрушенной породы.
type MineResult struct {
	Rock   string      `json:"rock"`
	Pos    vec.Vec2    `json:"pos"`
	Broken bool        `json:"broken"`
	Health int         `json:"health"`
	Drops  []loot.Drop `json:"drops"`
	Lost   int         `json:"lost"` // не поместилось в инвентарь
}

func (s *Service) mine(name string) (*mine.Mine, error) {
	id, ok := location.Parse(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	m, ok := s.mines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s не шахта", ErrUnknownLocation, name)
	}
	return m, nil
}

func summarize(m *mine.Mine) MineSummary {
	return MineSummary{
		Location:             m.ID().String(),
		Name:                 m.Name(),
		Generation:           m.Generation(),
		Rocks:                m.Layout().RockCount(),
		MaxRocks:             m.Layout().MaxRocks(),
		UntilRespawnSec:      m.TimeUntilRespawn().Seconds(),
		UntilRegenerationSec: m.TimeUntilRegeneration().Seconds(),
	}
}

// Mines возвращает шахты в порядке реестра
func (s *Service) Mines() []MineSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MineSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, summarize(s.mines[id]))
	}
	return out
}

// Mine возвращает состояние шахты
func (s *Service) Mine(name string) (MineView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.mine(name)
	if err != nil {
		return MineView{}, err
	}
	return s.view(m), nil
}

func (s *Service) view(m *mine.Mine) MineView {
	layout := m.Layout()
	return MineView{
		MineSummary: summarize(m),
		Layout:      layout.Snapshot(),
		Render:      layout.RenderWith(s.rockGlyph),
		OnExit:      layout.IsOnExit(),
	}
}

func (s *Service) rockGlyph(id rock.ID) rune {
	if spec, ok := s.cat.Rocks.Get(id); ok && spec.Glyph != 0 {
		return spec.Glyph
	}
	return '*'
}

// Move сдвигает игрока в шахте на один шаг
func (s *Service) Move(name string, dx, dy int) (MoveResult, error) {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return MoveResult{}, fmt.Errorf("шаг (%d,%d) длиннее одной клетки", dx, dy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.mine(name)
	if err != nil {
		return MoveResult{}, err
	}
	outcome := m.MovePlayer(dx, dy)
	return MoveResult{
		Outcome: outcome.String(),
		Moved:   outcome == cave.MoveOK,
		Player:  m.Layout().Player(),
		OnExit:  m.Layout().IsOnExit(),
	}, nil
}

// MineRock бьёт соседнюю с игроком породу силой атаки игрока.
// Разрушенная порода убирается, её добыча идёт в инвентарь. bool == false, если рядом нет пород.
func (s *Service) MineRock(ctx context.Context, name string) (MineResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.mine(name)
	if err != nil {
		return MineResult{}, false, err
	}

	placed, broken, ok := m.StrikeAdjacentRock(s.playerAttack)
	if !ok {
		return MineResult{}, false, nil
	}
	if !broken {
		return MineResult{Rock: placed.Kind.String(), Pos: placed.Pos, Health: placed.Health}, true, nil
	}

	drops := s.cat.RollRockLoot(placed.Kind, s.magicFind, s.src)
	lost := s.inv.AddDrops(drops)

	s.publish(ctx, eventbus.TypeRockMined, eventbus.RockMined{
		Location: m.ID().String(),
		Rock:     placed.Kind.String(),
		X:        placed.Pos.X,
		Y:        placed.Pos.Y,
		Drops:    eventDrops(drops),
	})
	if s.metrics != nil {
		s.metrics.RockMined(m.ID().String(), placed.Kind.String())
	}
	s.recordRocks(m)

	return MineResult{Rock: placed.Kind.String(), Pos: placed.Pos, Broken: true, Drops: drops, Lost: lost}, true, nil
}

// Regenerate немедленно заменяет пещеру шахты
func (s *Service) Regenerate(ctx context.Context, name string) (MineView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.mine(name)
	if err != nil {
		return MineView{}, err
	}

	ctx, span := observability.StartSpan(ctx, "mine.regenerate", attribute.String("location", m.ID().String()))
	start := time.Now()
	err = m.Refresh()
	observability.EndSpan(span, err)
	if err != nil {
		return MineView{}, err
	}

	s.caveGenerated(ctx, m, eventbus.ReasonManual, time.Since(start))
	return s.view(m), nil
}

func eventDrops(drops []loot.Drop) []eventbus.Drop {
	out := make([]eventbus.Drop, len(drops))
	for i, d := range drops {
		out[i] = eventbus.Drop{Item: d.Item.Kind.String(), Quantity: d.Quantity}
	}
	return out
}
