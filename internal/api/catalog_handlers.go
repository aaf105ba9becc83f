package api

import (
	"github.com/gin-gonic/gin"

	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/game/location"
	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/game/mob"
	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/game/stats"
)

// LootView - строка таблицы добычи
type LootView struct {
	Item          string      `json:"item"`
	ChancePercent float64     `json:"chance_percent"`
	Quantity      stats.Range `json:"quantity"`
}

// ItemView - спецификация предмета
type ItemView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	MaxStack  int    `json:"max_stack"`
	GoldValue int    `json:"gold_value"`
}

// MobView - спецификация моба
type MobView struct {
	ID      string     `json:"id"`
	Quality string     `json:"quality"`
	Spec    mob.Spec   `json:"spec"`
	Loot    []LootView `json:"loot"`
}

// RockView - спецификация породы
type RockView struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Health int        `json:"health"`
	Glyph  string     `json:"glyph"`
	Loot   []LootView `json:"loot"`
}

// LocationView - спецификация локации
type LocationView struct {
	ID   string        `json:"id"`
	Kind string        `json:"kind"`
	Spec location.Spec `json:"spec"`
}

func lootView(t *loot.Table) []LootView {
	if t == nil {
		return []LootView{}
	}
	entries := t.Entries()
	out := make([]LootView, len(entries))
	for i, e := range entries {
		out[i] = LootView{Item: e.Item.String(), ChancePercent: e.ChancePercent(), Quantity: e.Quantity}
	}
	return out
}

func (rs *RestServer) handleItems(c *gin.Context) {
	out := make([]ItemView, 0, len(item.All))
	for _, id := range item.All {
		spec, ok := rs.catalog.Items.Get(id)
		if !ok {
			continue
		}
		out = append(out, ItemView{
			ID:        id.String(),
			Name:      spec.Name,
			Type:      spec.Type.String(),
			MaxStack:  spec.MaxStack,
			GoldValue: spec.GoldValue,
		})
	}
	respondOK(c, "Предметы", out)
}

func (rs *RestServer) handleMobs(c *gin.Context) {
	out := make([]MobView, 0, len(mob.All))
	for _, id := range mob.All {
		spec, ok := rs.catalog.Mobs.Get(id)
		if !ok {
			continue
		}
		out = append(out, MobView{ID: id.String(), Spec: spec, Quality: spec.Quality.String(), Loot: lootView(spec.Loot)})
	}
	respondOK(c, "Мобы", out)
}

func (rs *RestServer) handleRocks(c *gin.Context) {
	out := make([]RockView, 0, len(rock.All))
	for _, id := range rock.All {
		spec, ok := rs.catalog.Rocks.Get(id)
		if !ok {
			continue
		}
		out = append(out, RockView{
			ID:     id.String(),
			Name:   spec.Name,
			Health: spec.Health,
			Glyph:  string(spec.Glyph),
			Loot:   lootView(spec.Loot),
		})
	}
	respondOK(c, "Породы", out)
}

func (rs *RestServer) handleLocations(c *gin.Context) {
	out := make([]LocationView, 0, len(location.All))
	for _, id := range location.All {
		spec, ok := rs.catalog.Locations.Get(id)
		if !ok {
			continue
		}
		out = append(out, LocationView{ID: id.String(), Kind: spec.Kind.String(), Spec: spec})
	}
	respondOK(c, "Локации", out)
}
