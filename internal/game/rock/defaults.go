package rock

import (
	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/game/stats"
	"github.com/annel0/mine-game/internal/registry"
)

// Шанс камня улучшения качества из любой породы: 1 из 100
func withUpgradeStone(t *loot.Table) *loot.Table {
	return t.With(item.QualityUpgradeStone, 1, 100, stats.Fixed(1))
}

// Defaults возвращает спецификации всех пород
func Defaults() []registry.Entry[ID, Spec] {
	return []registry.Entry[ID, Spec]{
		{Key: Copper, Spec: Spec{
			Name: "Copper Rock", Health: 40, Glyph: 'c',
			Loot: withUpgradeStone(loot.NewTable().With(item.CopperOre, 1, 1, stats.Between(1, 3))),
		}},
		{Key: Tin, Spec: Spec{
			Name: "Tin Rock", Health: 40, Glyph: 't',
			Loot: withUpgradeStone(loot.NewTable().With(item.TinOre, 1, 1, stats.Between(1, 3))),
		}},
		{Key: Coal, Spec: Spec{
			Name: "Coal Rock", Health: 50, Glyph: 'k',
			Loot: withUpgradeStone(loot.NewTable().With(item.Coal, 1, 1, stats.Between(1, 2))),
		}},
		{Key: Iron, Spec: Spec{
			Name: "Iron Rock", Health: 50, Glyph: 'i',
			Loot: withUpgradeStone(loot.NewTable().With(item.IronOre, 1, 1, stats.Between(1, 3))),
		}},
		{Key: Gold, Spec: Spec{
			Name: "Gold Rock", Health: 50, Glyph: 'g',
			Loot: withUpgradeStone(loot.NewTable().With(item.GoldOre, 1, 1, stats.Between(1, 3))),
		}},
		{Key: Mixed, Spec: Spec{
			Name: "Mixed Rock", Health: 100, Glyph: 'm',
			Loot: withUpgradeStone(loot.NewTable().
				With(item.GoldOre, 1, 2, stats.Between(1, 4)).
				With(item.IronOre, 1, 2, stats.Between(1, 4)).
				With(item.Coal, 1, 2, stats.Between(1, 4))),
		}},
	}
}
