package item

import (
	"fmt"

	"github.com/annel0/mine-game/internal/game/stats"
	"github.com/annel0/mine-game/internal/registry"
	"github.com/annel0/mine-game/internal/util"
	"github.com/google/uuid"
)

// ID представляет идентификатор типа предмета
type ID uint16

// Константы ID предметов
const (
	// Снаряжение
	Sword         ID = iota // 0
	Dagger                  // 1
	CopperSword             // 2
	BasicShield             // 3
	CopperPickaxe           // 4

	// Материалы (начиная с 100)
	Coal                ID = 100
	CopperOre           ID = 101
	TinOre              ID = 102
	IronOre             ID = 103
	GoldOre             ID = 104
	CopperIngot         ID = 105
	IronIngot           ID = 106
	GoldIngot           ID = 107
	SlimeGel            ID = 108
	QualityUpgradeStone ID = 109

	// Расходники (начиная с 200)
	BasicHPPotion ID = 200
)

// All перечисляет все типы предметов
var All = []ID{
	Sword, Dagger, CopperSword, BasicShield, CopperPickaxe,
	Coal, CopperOre, TinOre, IronOre, GoldOre, CopperIngot, IronIngot, GoldIngot, SlimeGel, QualityUpgradeStone,
	BasicHPPotion,
}

var names = map[ID]string{
	Sword:               "sword",
	Dagger:              "dagger",
	CopperSword:         "copper_sword",
	BasicShield:         "basic_shield",
	CopperPickaxe:       "copper_pickaxe",
	Coal:                "coal",
	CopperOre:           "copper_ore",
	TinOre:              "tin_ore",
	IronOre:             "iron_ore",
	GoldOre:             "gold_ore",
	CopperIngot:         "copper_ingot",
	IronIngot:           "iron_ingot",
	GoldIngot:           "gold_ingot",
	SlimeGel:            "slime_gel",
	QualityUpgradeStone: "quality_upgrade_stone",
	BasicHPPotion:       "basic_hp_potion",
}

func (id ID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("item(%d)", uint16(id))
}

// Parse находит ID по строковому имени
func Parse(name string) (ID, bool) {
	for id, n := range names {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// Type - категория предмета
type Type uint8

const (
	Material Type = iota
	Equipment
	Consumable
)

func (t Type) String() string {
	switch t {
	case Equipment:
		return "equipment"
	case Consumable:
		return "consumable"
	default:
		return "material"
	}
}

// Spec - неизменяемая спецификация типа предмета
type Spec struct {
	Name      string      `json:"name"`
	Type      Type        `json:"type"`
	MaxStack  int         `json:"max_stack"`
	GoldValue int         `json:"gold_value"`
	Quality   stats.Range `json:"quality"`
}

// IsEquipment проверяет, что предмет относится к снаряжению
func (s Spec) IsEquipment() bool {
	return s.Type == Equipment
}

// Item - экземпляр предмета
type Item struct {
	InstanceID uuid.UUID `json:"instance_id"`
	Kind       ID        `json:"kind"`
	Name       string    `json:"name"`
	Quality    int       `json:"quality"`
	MaxStack   int       `json:"max_stack"`
	GoldValue  int       `json:"gold_value"`
	Equipment  bool      `json:"equipment"`
}

// Spawner создаёт предметы по спецификации
type Spawner struct{}

// SpawnFromSpec реализует registry.Spawner
func (Spawner) SpawnFromSpec(kind ID, spec Spec, src util.Source) Item {
	return Item{
		InstanceID: uuid.New(),
		Kind:       kind,
		Name:       spec.Name,
		Quality:    spec.Quality.Sample(src),
		MaxStack:   spec.MaxStack,
		GoldValue:  spec.GoldValue,
		Equipment:  spec.IsEquipment(),
	}
}

var _ registry.Spawner[ID, Spec, Item] = Spawner{}

// Registry - реестр спецификаций предметов
type Registry = registry.Registry[ID, Spec]

// NewRegistry создаёт реестр, заполненный значениями по умолчанию
func NewRegistry() *Registry {
	r := registry.New[ID, Spec]("items")
	registry.Load[ID, Spec](r, registry.DefaultsFunc[ID, Spec](Defaults))
	return r
}

// Spawn создаёт экземпляр предмета. Паникует для незарегистрированного типа.
func Spawn(r *Registry, kind ID, src util.Source) Item {
	return registry.Spawn[ID, Spec, Item](r, Spawner{}, kind, src)
}
