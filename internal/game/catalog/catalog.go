// Package catalog собирает все реестры спецификаций в одно значение,
// которое создаётся при старте и передаётся потребителям явно.
package catalog

import (
	"errors"
	"fmt"

	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/game/location"
	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/game/mob"
	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/registry"
	"github.com/annel0/mine-game/internal/util"
)

// Catalog - набор реестров, доступный только на чтение после создания
type Catalog struct {
	Items     *item.Registry
	Mobs      *mob.Registry
	Rocks     *rock.Registry
	Locations *location.Registry
}

// Options настраивают загрузку каталога
type Options struct {
	// MobDataDir - каталог YAML-описаний мобов поверх встроенных (необязательно)
	MobDataDir string
}

// New создаёт каталог со встроенными спецификациями и выполняет самопроверку
func New(opts Options) (*Catalog, error) {
	c := &Catalog{
		Items:     item.NewRegistry(),
		Mobs:      mob.NewRegistry(),
		Rocks:     rock.NewRegistry(),
		Locations: location.NewRegistry(),
	}

	if opts.MobDataDir != "" {
		if _, err := mob.LoadDir(c.Mobs, opts.MobDataDir); err != nil {
			return nil, fmt.Errorf("ошибка загрузки мобов: %w", err)
		}
	}

	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew как New, но паникует при ошибке конфигурации
func MustNew(opts Options) *Catalog {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Verify проверяет полноту реестров и ссылки между ними
func (c *Catalog) Verify() error {
	errs := []error{
		registry.Verify(c.Items, item.All),
		registry.Verify(c.Mobs, mob.All),
		registry.Verify(c.Rocks, rock.All),
		registry.Verify(c.Locations, location.All),
	}

	for _, id := range rock.All {
		if spec, ok := c.Rocks.Get(id); ok {
			errs = append(errs, c.verifyLoot("rock "+id.String(), spec.Loot))
		}
	}
	for _, id := range mob.All {
		if spec, ok := c.Mobs.Get(id); ok {
			errs = append(errs, c.verifyLoot("mob "+id.String(), spec.Loot))
		}
	}
	for _, id := range location.All {
		spec, ok := c.Locations.Get(id)
		if !ok {
			continue
		}
		for _, w := range spec.RockWeights {
			if !c.Rocks.Has(w.Rock) {
				errs = append(errs, fmt.Errorf("location %s: порода %s: %w", id, w.Rock, registry.ErrUnregistered))
			}
		}
		for _, w := range spec.MobWeights {
			if !c.Mobs.Has(w.Mob) {
				errs = append(errs, fmt.Errorf("location %s: моб %s: %w", id, w.Mob, registry.ErrUnregistered))
			}
		}
		if spec.HasTimers() && (spec.RespawnInterval <= 0 || spec.RegenerationInterval <= 0) {
			errs = append(errs, fmt.Errorf("location %s: интервалы восстановления должны быть положительными", id))
		}
	}

	return errors.Join(errs...)
}

func (c *Catalog) verifyLoot(owner string, t *loot.Table) error {
	var errs []error
	for _, e := range t.Entries() {
		if !c.Items.Has(e.Item) {
			errs = append(errs, fmt.Errorf("%s: предмет %s: %w", owner, e.Item, registry.ErrUnregistered))
		}
	}
	return errors.Join(errs...)
}

// SpawnItem создаёт экземпляр предмета
func (c *Catalog) SpawnItem(id item.ID, src util.Source) item.Item {
	return item.Spawn(c.Items, id, src)
}

// SpawnMob создаёт экземпляр моба
func (c *Catalog) SpawnMob(id mob.ID, src util.Source) *mob.Mob {
	return mob.Spawn(c.Mobs, id, src)
}

// SpawnRock создаёт экземпляр породы
func (c *Catalog) SpawnRock(id rock.ID, src util.Source) rock.Rock {
	return rock.Spawn(c.Rocks, id, src)
}

// ItemSpawner возвращает функцию создания предметов для бросков таблиц добычи
func (c *Catalog) ItemSpawner(src util.Source) loot.SpawnFunc {
	return func(id item.ID) (item.Item, bool) {
		if !c.Items.Has(id) {
			return item.Item{}, false
		}
		return c.SpawnItem(id, src), true
	}
}

// RollRockLoot бросает таблицу добычи породы
func (c *Catalog) RollRockLoot(id rock.ID, magicFind int, src util.Source) []loot.Drop {
	return c.Rocks.MustGet(id).Loot.Roll(src, magicFind, c.ItemSpawner(src))
}
