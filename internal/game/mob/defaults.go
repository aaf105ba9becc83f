package mob

import (
	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/game/stats"
	"github.com/annel0/mine-game/internal/registry"
)

// Defaults возвращает встроенные спецификации мобов
func Defaults() []registry.Entry[ID, Spec] {
	r := stats.Between
	return []registry.Entry[ID, Spec]{
		{Key: Slime, Spec: Spec{
			Name: "Slime", Quality: Normal,
			MaxHealth: r(8, 12), Attack: r(1, 3), Defense: r(0, 1),
			DroppedGold: r(1, 3), DroppedXP: r(3, 5),
			Loot: loot.NewTable().With(item.SlimeGel, 1, 2, r(1, 2)),
		}},
		{Key: Goblin, Spec: Spec{
			Name: "Goblin", Quality: Normal,
			MaxHealth: r(12, 18), Attack: r(3, 5), Defense: r(1, 2),
			DroppedGold: r(3, 8), DroppedXP: r(6, 10),
			Loot: loot.NewTable().
				With(item.Dagger, 1, 20, stats.Fixed(1)).
				With(item.BasicHPPotion, 1, 10, stats.Fixed(1)),
		}},
		{Key: DwarfDefender, Spec: Spec{
			Name: "Dwarf Defender", Quality: Normal,
			MaxHealth: r(30, 40), Attack: r(3, 6), Defense: r(4, 6),
			DroppedGold: r(8, 14), DroppedXP: r(12, 18),
			Loot: loot.NewTable().
				With(item.BasicShield, 1, 15, stats.Fixed(1)).
				With(item.IronOre, 1, 3, r(1, 2)),
		}},
		{Key: DwarfWarrior, Spec: Spec{
			Name: "Dwarf Warrior", Quality: Normal,
			MaxHealth: r(25, 35), Attack: r(6, 9), Defense: r(2, 4),
			DroppedGold: r(8, 14), DroppedXP: r(14, 20),
			Loot: loot.NewTable().
				With(item.CopperSword, 1, 15, stats.Fixed(1)).
				With(item.CopperOre, 1, 3, r(1, 3)),
		}},
		{Key: DwarfMiner, Spec: Spec{
			Name: "Dwarf Miner", Quality: Normal,
			MaxHealth: r(20, 28), Attack: r(4, 6), Defense: r(2, 3),
			DroppedGold: r(6, 12), DroppedXP: r(10, 14),
			Loot: loot.NewTable().
				With(item.CopperPickaxe, 1, 20, stats.Fixed(1)).
				With(item.Coal, 1, 2, r(1, 3)).
				With(item.GoldOre, 1, 8, r(1, 2)),
		}},
		{Key: DwarfKing, Spec: Spec{
			Name: "Dwarf King", Quality: Boss,
			MaxHealth: r(120, 150), Attack: r(10, 14), Defense: r(6, 8),
			DroppedGold: r(80, 120), DroppedXP: r(100, 140),
			Loot: loot.NewTable().
				With(item.GoldIngot, 1, 1, r(2, 4)).
				With(item.QualityUpgradeStone, 1, 4, stats.Fixed(1)),
		}},
		{Key: Merchant, Spec: Spec{
			Name: "Merchant", Quality: Normal,
			MaxHealth: r(50, 50), Attack: r(0, 0), Defense: r(0, 0),
			DroppedGold: r(0, 0), DroppedXP: r(0, 0),
			Loot: loot.NewTable(),
		}},
	}
}
