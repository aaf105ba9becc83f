package item

import (
	"github.com/annel0/mine-game/internal/game/stats"
	"github.com/annel0/mine-game/internal/registry"
)

func material(name string, value int) Spec {
	return Spec{Name: name, Type: Material, MaxStack: 99, GoldValue: value}
}

func equipment(name string, value int) Spec {
	return Spec{Name: name, Type: Equipment, MaxStack: 1, GoldValue: value, Quality: stats.Between(0, 2)}
}

// Defaults возвращает спецификации всех предметов
func Defaults() []registry.Entry[ID, Spec] {
	return []registry.Entry[ID, Spec]{
		{Key: Sword, Spec: equipment("Sword", 15)},
		{Key: Dagger, Spec: equipment("Dagger", 10)},
		{Key: CopperSword, Spec: equipment("Copper Sword", 25)},
		{Key: BasicShield, Spec: equipment("Basic Shield", 15)},
		{Key: CopperPickaxe, Spec: equipment("Copper Pickaxe", 30)},

		{Key: Coal, Spec: material("Coal", 2)},
		{Key: CopperOre, Spec: material("Copper Ore", 3)},
		{Key: TinOre, Spec: material("Tin Ore", 3)},
		{Key: IronOre, Spec: material("Iron Ore", 5)},
		{Key: GoldOre, Spec: material("Gold Ore", 10)},
		{Key: CopperIngot, Spec: material("Copper Ingot", 8)},
		{Key: IronIngot, Spec: material("Iron Ingot", 14)},
		{Key: GoldIngot, Spec: material("Gold Ingot", 28)},
		{Key: SlimeGel, Spec: material("Slime Gel", 1)},
		{Key: QualityUpgradeStone, Spec: material("Quality Upgrade Stone", 100)},

		{Key: BasicHPPotion, Spec: Spec{Name: "Basic HP Potion", Type: Consumable, MaxStack: 10, GoldValue: 8}},
	}
}
