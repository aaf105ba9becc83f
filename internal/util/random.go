package util

import (
	"math/rand"
	"sort"
	"time"
)

// Source - подключаемый источник случайности.
// *rand.Rand удовлетворяет интерфейсу, что позволяет детерминированные тесты с фиксированным сидом.
type Source interface {
	Intn(n int) int
	Int63() int64
	Float64() float64
}

// NewSource создаёт детерминированный источник по сиду
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeSource создаёт источник, засеянный текущим временем
func NewTimeSource() *rand.Rand {
	return NewSource(time.Now().UnixNano())
}

// IntInclusive возвращает равномерное значение из [min, max].
// При min > max границы меняются местами.
func IntInclusive(src Source, min, max int) int {
	if min > max {
		min, max = max, min
	}
	if min == max {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Chance возвращает true с вероятностью p
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// WeightedIndex выбирает индекс пропорционально весам.
// Используются накопленные суммы и бинарный поиск. Возвращает -1, если сумма весов не положительна.
func WeightedIndex(src Source, weights []int) int {
	cumulative := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		cumulative[i] = total
	}
	if total <= 0 {
		return -1
	}

	roll := src.Intn(total)
	// Первый индекс, у которого накопленная сумма строго больше броска
	return sort.Search(len(cumulative), func(i int) bool {
		return cumulative[i] > roll
	})
}

// Shuffle перемешивает срез на месте
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
