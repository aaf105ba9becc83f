package mob

import (
	"fmt"

	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/game/stats"
	"github.com/annel0/mine-game/internal/registry"
	"github.com/annel0/mine-game/internal/util"
	"github.com/google/uuid"
)

// ID представляет тип моба
type ID uint16

const (
	Slime         ID = iota // 0
	Goblin                  // 1
	DwarfDefender           // 2
	DwarfWarrior            // 3
	DwarfMiner              // 4
	DwarfKing               // 5
	Merchant                // 6
)

// All перечисляет все типы мобов
var All = []ID{Slime, Goblin, DwarfDefender, DwarfWarrior, DwarfMiner, DwarfKing, Merchant}

var names = [...]string{"slime", "goblin", "dwarf_defender", "dwarf_warrior", "dwarf_miner", "dwarf_king", "merchant"}

func (id ID) String() string {
	if int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("mob(%d)", uint16(id))
}

// Parse находит ID по имени
func Parse(name string) (ID, bool) {
	for i, n := range names {
		if n == name {
			return ID(i), true
		}
	}
	return 0, false
}

// Quality - ранг моба
type Quality uint8

const (
	Normal Quality = iota
	Boss
)

func (q Quality) String() string {
	if q == Boss {
		return "boss"
	}
	return "normal"
}

// Spec - спецификация типа моба
type Spec struct {
	Name        string      `json:"name"`
	Quality     Quality     `json:"quality"`
	MaxHealth   stats.Range `json:"max_health"`
	Attack      stats.Range `json:"attack"`
	Defense     stats.Range `json:"defense"`
	DroppedGold stats.Range `json:"dropped_gold"`
	DroppedXP   stats.Range `json:"dropped_xp"`
	Loot        *loot.Table `json:"-"`
}

// WithMultiplier возвращает копию с масштабированными характеристиками
func (s Spec) WithMultiplier(multiplier float64) Spec {
	out := s
	out.MaxHealth = s.MaxHealth.Scale(multiplier)
	out.Attack = s.Attack.Scale(multiplier)
	out.Defense = s.Defense.Scale(multiplier)
	out.DroppedGold = s.DroppedGold.Scale(multiplier)
	out.DroppedXP = s.DroppedXP.Scale(multiplier)
	out.Loot = s.Loot.Clone()
	return out
}

// WithName возвращает копию с другим именем
func (s Spec) WithName(name string) Spec {
	out := s
	out.Name = name
	out.Loot = s.Loot.Clone()
	return out
}

// WithQuality возвращает копию с другим рангом
func (s Spec) WithQuality(q Quality) Spec {
	out := s
	out.Quality = q
	out.Loot = s.Loot.Clone()
	return out
}

// Validate проверяет диапазоны спецификации
func (s Spec) Validate() error {
	for name, r := range map[string]stats.Range{
		"max_health":   s.MaxHealth,
		"attack":       s.Attack,
		"defense":      s.Defense,
		"dropped_gold": s.DroppedGold,
		"dropped_xp":   s.DroppedXP,
	} {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, name, err)
		}
	}
	if s.MaxHealth.Min <= 0 {
		return fmt.Errorf("%s.max_health: здоровье должно быть положительным", s.Name)
	}
	return nil
}

// Spawner создаёт мобов по спецификации
type Spawner struct{}

// SpawnFromSpec реализует registry.Spawner
func (Spawner) SpawnFromSpec(kind ID, spec Spec, src util.Source) *Mob {
	maxHealth := spec.MaxHealth.Sample(src)
	return &Mob{
		InstanceID: uuid.New(),
		Kind:       kind,
		Name:       spec.Name,
		Quality:    spec.Quality,
		Combat: CombatStats{
			MaxHealth: maxHealth,
			Health:    maxHealth,
			Attack:    spec.Attack.Sample(src),
			Defense:   spec.Defense.Sample(src),
		},
		Gold: spec.DroppedGold.Sample(src),
		XP:   spec.DroppedXP.Sample(src),
		loot: spec.Loot.Clone(),
	}
}

var _ registry.Spawner[ID, Spec, *Mob] = Spawner{}

// Registry - реестр мобов
type Registry = registry.Registry[ID, Spec]

// NewRegistry создаёт реестр со спецификациями по умолчанию
func NewRegistry() *Registry {
	r := registry.New[ID, Spec]("mobs")
	registry.Load[ID, Spec](r, registry.DefaultsFunc[ID, Spec](Defaults))
	return r
}

// Spawn создаёт моба. Паникует для незарегистрированного типа.
func Spawn(r *Registry, kind ID, src util.Source) *Mob {
	return registry.Spawn[ID, Spec, *Mob](r, Spawner{}, kind, src)
}
