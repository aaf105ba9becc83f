package app

import (
	"context"
	"errors"

	"github.com/annel0/mine-game/internal/eventbus"
	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/vec"
	"github.com/annel0/mine-game/internal/world/dungeon"
	"github.com/annel0/mine-game/internal/world/grid"
)

// ErrNoMob - по дескриптору нет моба
var ErrNoMob = errors.New("моб не найден")

// DungeonView - состояние подземелья
type DungeonView struct {
	Location             string            `json:"location"`
	Name                 string            `json:"name"`
	Player               vec.Vec2          `json:"player"`
	Rows                 []string          `json:"rows"`
	Mobs                 []dungeon.MobView `json:"mobs"`
	MaxMobs              int               `json:"max_mobs"`
	OnExit               bool              `json:"on_exit"`
	UntilRespawnSec      float64           `json:"until_respawn_sec"`
	UntilRegenerationSec float64           `json:"until_regeneration_sec"`
}

// DungeonMove - итог шага в подземелье
type DungeonMove struct {
	Outcome string      `json:"outcome"`
	Player  vec.Vec2    `json:"player"`
	Mob     grid.Handle `json:"mob,omitempty"` // моб, с которым столкнулся игрок
}

// AttackResult - итог удара по мобу
type AttackResult struct {
	Dealt int         `json:"dealt"`
	Dead  bool        `json:"dead"`
	Gold  int         `json:"gold,omitempty"`
	XP    int         `json:"xp,omitempty"`
	Drops []loot.Drop `json:"drops,omitempty"`
	Lost  int         `json:"lost,omitempty"`
}

// Dungeon возвращает состояние подземелья
func (s *Service) Dungeon() DungeonView {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.dungeon
	return DungeonView{
		Location:             s.dungeonID.String(),
		Name:                 d.Name(),
		Player:               d.Player(),
		Rows:                 d.Tiles().Rows(),
		Mobs:                 d.Mobs(),
		MaxMobs:              d.MaxMobs(),
		OnExit:               d.IsOnExit(),
		UntilRespawnSec:      d.TimeUntilRespawn().Seconds(),
		UntilRegenerationSec: d.TimeUntilRegeneration().Seconds(),
	}
}

// MoveInDungeon сдвигает игрока по подземелью
func (s *Service) MoveInDungeon(dx, dy int) DungeonMove {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, h := s.dungeon.MovePlayer(dx, dy)
	return DungeonMove{Outcome: outcome.String(), Player: s.dungeon.Player(), Mob: h}
}

// Attack бьёт моба силой атаки игрока. Погибший моб убирается, добыча и награда идут в инвентарь.
func (s *Service) Attack(ctx context.Context, h grid.Handle) (AttackResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dealt, dead, ok := s.dungeon.Strike(h, s.playerAttack)
	if !ok {
		return AttackResult{}, ErrNoMob
	}
	res := AttackResult{Dealt: dealt, Dead: dead}
	if !dead {
		return res, nil
	}

	m, ok := s.dungeon.DefeatMob(h)
	if !ok {
		return res, nil
	}

	res.Gold, res.XP = m.Rewards()
	res.Drops = m.LootTable().Roll(s.src, s.magicFind, s.cat.ItemSpawner(s.src))
	res.Lost = s.inv.AddDrops(res.Drops)
	s.inv.AddRewards(res.Gold, res.XP)

	s.publish(ctx, eventbus.TypeMobDefeated, eventbus.MobDefeated{
		Location: s.dungeonID.String(),
		Mob:      m.Kind.String(),
		Gold:     res.Gold,
		XP:       res.XP,
		Drops:    eventDrops(res.Drops),
	})
	if s.metrics != nil {
		s.metrics.MobDefeated(s.dungeonID.String(), m.Kind.String())
	}
	s.recordMobs()
	return res, nil
}

func (s *Service) mobSpawned(ctx context.Context, h grid.Handle) {
	for _, v := range s.dungeon.Mobs() {
		if v.Handle != h {
			continue
		}
		s.publish(ctx, eventbus.TypeMobSpawned, eventbus.MobSpawned{
			Location: s.dungeonID.String(),
			Mob:      v.Mob.Kind.String(),
			X:        v.Pos.X,
			Y:        v.Pos.Y,
		})
		return
	}
}
