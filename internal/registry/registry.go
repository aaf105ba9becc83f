// Package registry хранит неизменяемые спецификации сущностей, индексированные закрытым перечислением.
//
// Реестр заполняется один раз при старте (Load + Verify), после чего используется только на чтение.
package registry

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnregistered возвращается (или кладётся в панику), когда для ключа нет спецификации
var ErrUnregistered = errors.New("спецификация не зарегистрирована")

// Registry отображает идентификатор типа сущности на его спецификацию
type Registry[K comparable, V any] struct {
	name  string
	specs map[K]V
}

// Entry - пара ключ/спецификация для начального заполнения
type Entry[K comparable, V any] struct {
	Key  K
	Spec V
}

// Defaults поставляет полный набор спецификаций по умолчанию
type Defaults[K comparable, V any] interface {
	Defaults() []Entry[K, V]
}

// DefaultsFunc адаптирует функцию к интерфейсу Defaults
type DefaultsFunc[K comparable, V any] func() []Entry[K, V]

// Defaults реализует интерфейс Defaults
func (f DefaultsFunc[K, V]) Defaults() []Entry[K, V] {
	return f()
}

// New создаёт пустой реестр. Имя используется в сообщениях об ошибках.
func New[K comparable, V any](name string) *Registry[K, V] {
	return &Registry[K, V]{
		name:  name,
		specs: make(map[K]V),
	}
}

// Name возвращает имя реестра
func (r *Registry[K, V]) Name() string {
	return r.name
}

// Register добавляет спецификацию. Повторная регистрация перезаписывает предыдущую.
func (r *Registry[K, V]) Register(key K, spec V) {
	r.specs[key] = spec
}

// Get возвращает спецификацию для ключа
func (r *Registry[K, V]) Get(key K) (V, bool) {
	spec, exists := r.specs[key]
	return spec, exists
}

// MustGet возвращает спецификацию или паникует.
// Отсутствие спецификации для закрытого перечисления - ошибка конфигурации.
func (r *Registry[K, V]) MustGet(key K) V {
	spec, exists := r.specs[key]
	if !exists {
		panic(fmt.Errorf("%s: %v: %w", r.name, key, ErrUnregistered))
	}
	return spec
}

// Has проверяет наличие спецификации
func (r *Registry[K, V]) Has(key K) bool {
	_, exists := r.specs[key]
	return exists
}

// Len возвращает число зарегистрированных спецификаций
func (r *Registry[K, V]) Len() int {
	return len(r.specs)
}

// Keys возвращает ключи в произвольном порядке
func (r *Registry[K, V]) Keys() []K {
	keys := make([]K, 0, len(r.specs))
	for k := range r.specs {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys возвращает ключи, упорядоченные функцией less
func (r *Registry[K, V]) SortedKeys(less func(a, b K) bool) []K {
	keys := r.Keys()
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

// Load регистрирует все спецификации из источника по умолчанию
func Load[K comparable, V any](r *Registry[K, V], d Defaults[K, V]) {
	for _, e := range d.Defaults() {
		r.Register(e.Key, e.Spec)
	}
}

// Verify проверяет, что у каждого значения перечисления есть спецификация
// и что в реестре нет ключей вне перечисления.
func Verify[K comparable, V any](r *Registry[K, V], all []K) error {
	var errs []error

	known := make(map[K]struct{}, len(all))
	for _, k := range all {
		if _, dup := known[k]; dup {
			errs = append(errs, fmt.Errorf("%s: ключ %v перечислен дважды", r.name, k))
			continue
		}
		known[k] = struct{}{}
		if !r.Has(k) {
			errs = append(errs, fmt.Errorf("%s: %v: %w", r.name, k, ErrUnregistered))
		}
	}

	for k := range r.specs {
		if _, ok := known[k]; !ok {
			errs = append(errs, fmt.Errorf("%s: ключ %v отсутствует в перечислении", r.name, k))
		}
	}

	return errors.Join(errs...)
}
