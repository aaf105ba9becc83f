package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/game/location"
	"github.com/annel0/mine-game/internal/game/mob"
	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/registry"
	"github.com/annel0/mine-game/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerifies(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, len(mob.All), c.Mobs.Len())
	assert.Equal(t, len(rock.All), c.Rocks.Len())
	assert.Equal(t, len(item.All), c.Items.Len())
	assert.Equal(t, len(location.All), c.Locations.Len())
}

func TestVerifyDetectsDanglingReferences(t *testing.T) {
	c := MustNew(Options{})

	spec := c.Locations.MustGet(location.VillageMine)
	spec.RockWeights = append(spec.RockWeights, location.RockWeight{Rock: rock.ID(77), Weight: 1})
	c.Locations.Register(location.VillageMine, spec)

	err := c.Verify()
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrUnregistered)
}

func TestVerifyDetectsMissingSpec(t *testing.T) {
	c := MustNew(Options{})
	c.Mobs = registry.New[mob.ID, mob.Spec]("mobs")
	assert.ErrorIs(t, c.Verify(), registry.ErrUnregistered)
}

func TestRollRockLoot(t *testing.T) {
	c := MustNew(Options{})
	src := util.NewSource(4)

	drops := c.RollRockLoot(rock.Copper, 0, src)
	require.NotEmpty(t, drops, "медная руда выпадает всегда")
	assert.Equal(t, item.CopperOre, drops[0].Item.Kind)
}

func TestMustNewPanicsOnBadMobData(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: dragon\n"), 0o644))

	assert.Panics(t, func() { MustNew(Options{MobDataDir: dir}) })
}
