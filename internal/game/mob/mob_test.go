package mob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/registry"
	"github.com/annel0/mine-game/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsComplete(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, registry.Verify(r, All), "у каждого моба должна быть спецификация")
	for _, id := range All {
		assert.NoError(t, r.MustGet(id).Validate(), id.String())
	}
}

func TestSpawnWithinBounds(t *testing.T) {
	r := NewRegistry()
	src := util.NewSource(2024)

	for _, id := range All {
		spec := r.MustGet(id)
		for i := 0; i < 100; i++ {
			m := Spawn(r, id, src)
			assert.True(t, spec.MaxHealth.Contains(m.Combat.MaxHealth), "здоровье %s вне диапазона", id)
			assert.True(t, spec.Attack.Contains(m.Combat.Attack))
			assert.True(t, spec.Defense.Contains(m.Combat.Defense))
			assert.True(t, spec.DroppedGold.Contains(m.Gold))
			assert.True(t, spec.DroppedXP.Contains(m.XP))
			assert.Equal(t, m.Combat.MaxHealth, m.Combat.Health, "новый моб должен быть с полным здоровьем")
		}
	}
}

func TestSpawnIndependentInstances(t *testing.T) {
	r := NewRegistry()
	src := util.NewSource(1)

	a := Spawn(r, Goblin, src)
	b := Spawn(r, Goblin, src)
	a.TakeDamage(5)

	assert.NotEqual(t, a.InstanceID, b.InstanceID)
	assert.Equal(t, b.Combat.MaxHealth, b.Combat.Health, "урон одному экземпляру не должен влиять на другой")
	assert.NotSame(t, a.LootTable(), b.LootTable())
}

func TestSpawnUnregisteredPanics(t *testing.T) {
	r := registry.New[ID, Spec]("mobs")
	assert.Panics(t, func() { Spawn(r, DwarfKing, util.NewSource(1)) })
}

func TestDeathProcessedOnce(t *testing.T) {
	r := NewRegistry()
	m := Spawn(r, Slime, util.NewSource(1))

	assert.False(t, m.MarkDeathProcessed(), "живого моба нельзя отметить мёртвым")
	for m.IsAlive() {
		m.TakeDamage(100)
	}
	assert.True(t, m.MarkDeathProcessed())
	assert.False(t, m.MarkDeathProcessed(), "смерть обрабатывается ровно один раз")
	assert.True(t, m.DeathProcessed())
	assert.Equal(t, 0, m.TakeDamage(10))
}

func TestTakeDamageMinimumOne(t *testing.T) {
	m := &Mob{Combat: CombatStats{MaxHealth: 10, Health: 10, Defense: 50}}
	assert.Equal(t, 1, m.TakeDamage(3))
	assert.Equal(t, 9, m.Combat.Health)
}

func TestSpecModifiers(t *testing.T) {
	base := NewRegistry().MustGet(Goblin)

	scaled := base.WithMultiplier(2)
	assert.Equal(t, base.MaxHealth.Min*2, scaled.MaxHealth.Min)
	assert.Equal(t, base.Attack.Max*2, scaled.Attack.Max)
	assert.Equal(t, base.Name, scaled.Name)

	named := base.WithName("Goblin Chief").WithQuality(Boss)
	assert.Equal(t, "Goblin Chief", named.Name)
	assert.Equal(t, Boss, named.Quality)
	assert.Equal(t, Normal, base.Quality, "исходная спецификация не меняется")
}

const goblinYAML = `
id: goblin
name: Cave Goblin
quality: normal
max_health: {min: 20, max: 22}
attack: {min: 4, max: 6}
defense: {min: 1, max: 1}
dropped_gold: {min: 5, max: 9}
dropped_xp: {min: 8, max: 12}
loot:
  - item: copper_ore
    numerator: 1
    denominator: 2
    quantity: {min: 1, max: 3}
`

func TestParseSpec(t *testing.T) {
	id, spec, err := ParseSpec([]byte(goblinYAML))
	require.NoError(t, err)
	assert.Equal(t, Goblin, id)
	assert.Equal(t, "Cave Goblin", spec.Name)
	assert.Equal(t, 20, spec.MaxHealth.Min)
	assert.True(t, spec.Loot.Has(item.CopperOre))

	_, _, err = ParseSpec([]byte("id: dragon\nname: Dragon\n"))
	assert.Error(t, err)

	_, _, err = ParseSpec([]byte(goblinYAML + "  - item: copper_ore\n    numerator: 1\n    denominator: 2\n"))
	assert.Error(t, err, "повтор предмета в таблице должен отклоняться")
}

func TestLoadDirOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "goblin.yaml"), []byte(goblinYAML), 0o644))

	r := NewRegistry()
	n, err := LoadDir(r, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Cave Goblin", r.MustGet(Goblin).Name)
	assert.Equal(t, "Slime", r.MustGet(Slime).Name)
}

func TestLoadDirIncompleteFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "goblin.yaml"), []byte(goblinYAML), 0o644))

	r := registry.New[ID, Spec]("mobs")
	_, err := LoadDir(r, dir)
	assert.ErrorIs(t, err, registry.ErrUnregistered)
}
