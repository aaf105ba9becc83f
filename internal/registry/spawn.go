package registry

import "github.com/annel0/mine-game/internal/util"

// Spawner создаёт независимый экземпляр сущности по спецификации.
// Каждая диапазонная характеристика выбирается равномерно в пределах [min, max].
type Spawner[K comparable, V any, I any] interface {
	SpawnFromSpec(kind K, spec V, src util.Source) I
}

// SpawnFunc адаптирует функцию к интерфейсу Spawner
type SpawnFunc[K comparable, V any, I any] func(kind K, spec V, src util.Source) I

// SpawnFromSpec реализует интерфейс Spawner
func (f SpawnFunc[K, V, I]) SpawnFromSpec(kind K, spec V, src util.Source) I {
	return f(kind, spec, src)
}

// Spawn находит спецификацию и создаёт экземпляр. Паникует для незарегистрированного типа.
func Spawn[K comparable, V any, I any](r *Registry[K, V], s Spawner[K, V, I], kind K, src util.Source) I {
	return s.SpawnFromSpec(kind, r.MustGet(kind), src)
}
