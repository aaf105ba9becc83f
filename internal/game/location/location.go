package location

import (
	"fmt"
	"time"

	"github.com/annel0/mine-game/internal/game/mob"
	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/registry"
)

// ID представляет идентификатор локации
type ID uint16

const (
	VillageStore      ID = iota // 0
	VillageBlacksmith           // 1
	VillageField                // 2
	VillageMine                 // 3
	DeepMine                    // 4
	MainDungeon                 // 5
)

// All перечисляет все локации
var All = []ID{VillageStore, VillageBlacksmith, VillageField, VillageMine, DeepMine, MainDungeon}

var names = [...]string{"village_store", "village_blacksmith", "village_field", "village_mine", "deep_mine", "main_dungeon"}

func (id ID) String() string {
	if int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("location(%d)", uint16(id))
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

// Kind - категория локации
type Kind uint8

const (
	Store Kind = iota
	Blacksmith
	Field
	Mine
	Dungeon
)

func (k Kind) String() string {
	switch k {
	case Store:
		return "store"
	case Blacksmith:
		return "blacksmith"
	case Field:
		return "field"
	case Mine:
		return "mine"
	case Dungeon:
		return "dungeon"
	default:
		return "unknown"
	}
}

// Интервалы по умолчанию для шахт и подземелий
const (
	DefaultRespawnInterval      = 2 * time.Minute
	DefaultRegenerationInterval = 10 * time.Minute
)

// RockWeight - вес типа породы при выборе
type RockWeight struct {
	Rock   rock.ID `json:"rock"`
	Weight int     `json:"weight"`
}

// MobWeight - вес типа моба при выборе
type MobWeight struct {
	Mob    mob.ID `json:"mob"`
	Weight int    `json:"weight"`
}

// Spec - спецификация локации
type Spec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
	MinLevel    int    `json:"min_level,omitempty"`

	// Таймеры восстановления (шахты и подземелья)
	RespawnInterval      time.Duration `json:"respawn_interval,omitempty"`
	RegenerationInterval time.Duration `json:"regeneration_interval,omitempty"`

	// Веса пород для шахт
	RockWeights []RockWeight `json:"rock_weights,omitempty"`
	// Веса мобов для полей и подземелий
	MobWeights []MobWeight `json:"mob_weights,omitempty"`
	// Максимум мобов одновременно (подземелья)
	MaxMobs int `json:"max_mobs,omitempty"`
}

// HasTimers сообщает, восстанавливается ли локация по таймерам
func (s Spec) HasTimers() bool {
	return s.Kind == Mine || s.Kind == Dungeon
}

// Registry - реестр локаций
type Registry = registry.Registry[ID, Spec]

// NewRegistry создаёт реестр со спецификациями по умолчанию
func NewRegistry() *Registry {
	r := registry.New[ID, Spec]("locations")
	registry.Load[ID, Spec](r, registry.DefaultsFunc[ID, Spec](Defaults))
	return r
}

// Defaults возвращает спецификации всех локаций
func Defaults() []registry.Entry[ID, Spec] {
	return []registry.Entry[ID, Spec]{
		{Key: VillageStore, Spec: Spec{
			Name: "Village Store", Description: "A humble shop selling basic supplies", Kind: Store,
		}},
		{Key: VillageBlacksmith, Spec: Spec{
			Name: "Village Blacksmith", Description: "A forge where ore is smelted", Kind: Blacksmith,
		}},
		{Key: VillageField, Spec: Spec{
			Name: "Village Field", Description: "Rolling fields where monsters roam", Kind: Field,
			MobWeights: []MobWeight{{Mob: mob.Slime, Weight: 5}, {Mob: mob.Goblin, Weight: 3}},
		}},
		{Key: VillageMine, Spec: Spec{
			Name: "Village Mine", Description: "A dark mine rich with ore deposits", Kind: Mine,
			RespawnInterval:      DefaultRespawnInterval,
			RegenerationInterval: DefaultRegenerationInterval,
			RockWeights: []RockWeight{
				{Rock: rock.Copper, Weight: 50},
				{Rock: rock.Coal, Weight: 30},
				{Rock: rock.Tin, Weight: 20},
			},
		}},
		{Key: DeepMine, Spec: Spec{
			Name: "Deep Mine", Description: "Lower shafts with iron and gold veins", Kind: Mine, MinLevel: 5,
			RespawnInterval:      DefaultRespawnInterval,
			RegenerationInterval: DefaultRegenerationInterval,
			RockWeights: []RockWeight{
				{Rock: rock.Iron, Weight: 2},
				{Rock: rock.Gold, Weight: 2},
				{Rock: rock.Coal, Weight: 2},
				{Rock: rock.Mixed, Weight: 1},
			},
		}},
		{Key: MainDungeon, Spec: Spec{
			Name: "Main Dungeon", Description: "A dangerous dwarven hold", Kind: Dungeon, MinLevel: 3,
			RespawnInterval:      DefaultRespawnInterval,
			RegenerationInterval: DefaultRegenerationInterval,
			MaxMobs:              6,
			MobWeights: []MobWeight{
				{Mob: mob.DwarfDefender, Weight: 3},
				{Mob: mob.DwarfWarrior, Weight: 3},
				{Mob: mob.DwarfMiner, Weight: 4},
			},
		}},
	}
}

// Mines возвращает ID всех шахт реестра по возрастанию
func Mines(r *Registry) []ID {
	var out []ID
	for _, id := range r.SortedKeys(func(a, b ID) bool { return a < b }) {
		if r.MustGet(id).Kind == Mine {
			out = append(out, id)
		}
	}
	return out
}
