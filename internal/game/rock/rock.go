package rock

import (
	"fmt"

	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/registry"
	"github.com/annel0/mine-game/internal/util"
)

// ID представляет тип породы
type ID uint16

const (
	Copper ID = iota // 0
	Tin              // 1
	Coal             // 2
	Iron             // 3
	Gold             // 4
	Mixed            // 5
)

// All перечисляет все типы пород
var All = []ID{Copper, Tin, Coal, Iron, Gold, Mixed}

var names = [...]string{"copper", "tin", "coal", "iron", "gold", "mixed"}

func (id ID) String() string {
	if int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("rock(%d)", uint16(id))
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

// Spec - спецификация породы
type Spec struct {
	Name   string      `json:"name"`
	Health int         `json:"health"`
	Glyph  rune        `json:"glyph"`
	Loot   *loot.Table `json:"-"`
}

// Rock - экземпляр породы в шахте
type Rock struct {
	Kind      ID          `json:"kind"`
	Health    int         `json:"health"`
	MaxHealth int         `json:"max_health"`
	Loot      *loot.Table `json:"-"`
}

// Hit наносит урон и возвращает true, если порода разрушена
func (r *Rock) Hit(damage int) bool {
	if damage < 0 {
		damage = 0
	}
	r.Health -= damage
	if r.Health < 0 {
		r.Health = 0
	}
	return r.Health == 0
}

// Destroyed проверяет, разрушена ли порода
func (r *Rock) Destroyed() bool {
	return r.Health <= 0
}

// Spawner создаёт экземпляры пород
type Spawner struct{}

// SpawnFromSpec реализует registry.Spawner. Таблица добычи копируется.
func (Spawner) SpawnFromSpec(kind ID, spec Spec, _ util.Source) Rock {
	return Rock{
		Kind:      kind,
		Health:    spec.Health,
		MaxHealth: spec.Health,
		Loot:      spec.Loot.Clone(),
	}
}

var _ registry.Spawner[ID, Spec, Rock] = Spawner{}

// Registry - реестр пород
type Registry = registry.Registry[ID, Spec]

// NewRegistry создаёт реестр со спецификациями по умолчанию
func NewRegistry() *Registry {
	r := registry.New[ID, Spec]("rocks")
	registry.Load[ID, Spec](r, registry.DefaultsFunc[ID, Spec](Defaults))
	return r
}

// Spawn создаёт экземпляр породы. Паникует для незарегистрированного типа.
func Spawn(r *Registry, kind ID, src util.Source) Rock {
	return registry.Spawn[ID, Spec, Rock](r, Spawner{}, kind, src)
}
