package loot

import (
	"errors"
	"fmt"

	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/game/stats"
	"github.com/annel0/mine-game/internal/util"
)

var (
	// ErrInvalidDivision - знаменатель равен нулю или меньше числителя
	ErrInvalidDivision = errors.New("некорректная вероятность выпадения")
	// ErrItemAlreadyInTable - предмет уже есть в таблице
	ErrItemAlreadyInTable = errors.New("предмет уже есть в таблице добычи")
)

// Entry - строка таблицы добычи: предмет выпадает с шансом Numerator/Denominator
type Entry struct {
	Item        item.ID     `json:"item"`
	Numerator   int         `json:"numerator"`
	Denominator int         `json:"denominator"`
	Quantity    stats.Range `json:"quantity"`
}

// NewEntry проверяет и создаёт строку таблицы
func NewEntry(id item.ID, numerator, denominator int, quantity stats.Range) (Entry, error) {
	if denominator <= 0 || numerator < 0 || denominator < numerator {
		return Entry{}, fmt.Errorf("%s %d/%d: %w", id, numerator, denominator, ErrInvalidDivision)
	}
	if err := quantity.Validate(); err != nil {
		return Entry{}, fmt.Errorf("%s: %w", id, err)
	}
	return Entry{Item: id, Numerator: numerator, Denominator: denominator, Quantity: quantity}, nil
}

// ChancePercent возвращает шанс выпадения в процентах
func (e Entry) ChancePercent() float64 {
	return float64(e.Numerator) / float64(e.Denominator) * 100
}

// Drop - выпавший предмет
type Drop struct {
	Item     item.Item `json:"item"`
	Quantity int       `json:"quantity"`
}

// SpawnFunc создаёт экземпляр предмета для выпадения
type SpawnFunc func(id item.ID) (item.Item, bool)

// Table - таблица добычи. Каждый предмет встречается не более одного раза.
type Table struct {
	entries []Entry
}

// NewTable создаёт пустую таблицу
func NewTable() *Table {
	return &Table{}
}

// With добавляет строку, молча пропуская некорректные и повторяющиеся предметы
func (t *Table) With(id item.ID, numerator, denominator int, quantity stats.Range) *Table {
	if e, err := NewEntry(id, numerator, denominator, quantity); err == nil {
		_ = t.Add(e)
	}
	return t
}

// Add добавляет строку. Повторяющийся предмет - ошибка.
func (t *Table) Add(e Entry) error {
	if t.Has(e.Item) {
		return fmt.Errorf("%s: %w", e.Item, ErrItemAlreadyInTable)
	}
	t.entries = append(t.entries, e)
	return nil
}

// Has проверяет наличие предмета в таблице
func (t *Table) Has(id item.ID) bool {
	_, ok := t.Find(id)
	return ok
}

// Find возвращает строку для предмета
func (t *Table) Find(id item.ID) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	for _, e := range t.entries {
		if e.Item == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries возвращает копию строк
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len возвращает число строк
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Clone возвращает независимую копию таблицы
func (t *Table) Clone() *Table {
	return &Table{entries: t.Entries()}
}

// Roll бросает таблицу. magicFind даёт дополнительные броски:
// каждые полные 100 - гарантированный бросок, остаток - шанс ещё одного.
// Из нескольких успешных бросков по одной строке остаётся лучший.
func (t *Table) Roll(src util.Source, magicFind int, spawn SpawnFunc) []Drop {
	if t.Len() == 0 {
		return nil
	}

	rolls := 1 + bonusRolls(src, magicFind)
	var drops []Drop

	for _, e := range t.entries {
		var best *Drop
		for i := 0; i < rolls; i++ {
			if util.IntInclusive(src, 1, e.Denominator) > e.Numerator {
				continue
			}
			it, ok := spawn(e.Item)
			if !ok {
				continue
			}
			d := Drop{Item: it, Quantity: e.Quantity.Sample(src)}
			if best == nil || better(d, *best) {
				best = &d
			}
		}
		if best != nil {
			drops = append(drops, *best)
		}
	}

	return drops
}

func bonusRolls(src util.Source, magicFind int) int {
	if magicFind <= 0 {
		return 0
	}
	rolls := magicFind / 100
	if rest := magicFind % 100; rest > 0 && util.IntInclusive(src, 1, 100) <= rest {
		rolls++
	}
	return rolls
}

// Снаряжение сравнивается по качеству, остальное по количеству
func better(candidate, current Drop) bool {
	if current.Item.Equipment {
		return candidate.Item.Quality > current.Item.Quality
	}
	return candidate.Quantity > current.Quantity
}
