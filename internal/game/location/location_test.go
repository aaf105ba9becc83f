package location

import (
	"testing"

	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsComplete(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, registry.Verify(r, All))
}

func TestVillageMineWeights(t *testing.T) {
	spec := NewRegistry().MustGet(VillageMine)
	assert.Equal(t, Mine, spec.Kind)
	assert.True(t, spec.HasTimers())
	assert.Equal(t, DefaultRespawnInterval, spec.RespawnInterval)
	assert.Equal(t, DefaultRegenerationInterval, spec.RegenerationInterval)
	assert.Equal(t, []RockWeight{
		{Rock: rock.Copper, Weight: 50},
		{Rock: rock.Coal, Weight: 30},
		{Rock: rock.Tin, Weight: 20},
	}, spec.RockWeights)
}

func TestMines(t *testing.T) {
	assert.Equal(t, []ID{VillageMine, DeepMine}, Mines(NewRegistry()))
}
