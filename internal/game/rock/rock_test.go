package rock

import (
	"testing"

	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/registry"
	"github.com/annel0/mine-game/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsComplete(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, registry.Verify(r, All))

	for _, id := range All {
		spec := r.MustGet(id)
		assert.Positive(t, spec.Health, id.String())
		assert.True(t, spec.Loot.Has(item.QualityUpgradeStone), id.String())
	}
}

func TestSpawnCopiesLoot(t *testing.T) {
	r := NewRegistry()
	src := util.NewSource(1)

	a := Spawn(r, Mixed, src)
	b := Spawn(r, Mixed, src)
	a.Loot.With(item.TinOre, 1, 1, item.NewRegistry().MustGet(item.TinOre).Quality)

	assert.Equal(t, 4, b.Loot.Len(), "экземпляры не должны делить таблицу добычи")
	assert.Equal(t, 4, r.MustGet(Mixed).Loot.Len(), "спецификация не должна меняться")
}

func TestHit(t *testing.T) {
	r := NewRegistry()
	rock := Spawn(r, Copper, util.NewSource(1))

	assert.False(t, rock.Hit(10))
	assert.Equal(t, 30, rock.Health)
	assert.True(t, rock.Hit(100))
	assert.Equal(t, 0, rock.Health)
	assert.True(t, rock.Destroyed())
}

func TestParse(t *testing.T) {
	for _, id := range All {
		got, ok := Parse(id.String())
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
}
