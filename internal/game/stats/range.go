package stats

import (
	"fmt"
	"math"

	"github.com/annel0/mine-game/internal/util"
)

// Range - включительный диапазон характеристики [Min, Max]
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Between создаёт диапазон
func Between(min, max int) Range {
	return Range{Min: min, Max: max}
}

// Fixed создаёт вырожденный диапазон из одного значения
func Fixed(v int) Range {
	return Range{Min: v, Max: v}
}

// Sample выбирает значение равномерно в пределах диапазона, включая обе границы
func (r Range) Sample(src util.Source) int {
	return util.IntInclusive(src, r.Min, r.Max)
}

// Contains проверяет принадлежность значения диапазону
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Scale умножает обе границы с округлением к ближайшему целому
func (r Range) Scale(multiplier float64) Range {
	return Range{
		Min: int(math.Round(float64(r.Min) * multiplier)),
		Max: int(math.Round(float64(r.Max) * multiplier)),
	}
}

// Validate проверяет, что диапазон не перевёрнут
func (r Range) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("некорректный диапазон %d..%d", r.Min, r.Max)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("%d..=%d", r.Min, r.Max)
}
