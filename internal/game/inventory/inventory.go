package inventory

import (
	"errors"
	"fmt"

	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/game/loot"
)

// ErrNotEnough - в инвентаре недостаточно предметов
var ErrNotEnough = errors.New("недостаточно предметов")

// DefaultCapacity - число ячеек по умолчанию
const DefaultCapacity = 30

// Stack - ячейка инвентаря
type Stack struct {
	Item     item.Item `json:"item"`
	Quantity int       `json:"quantity"`
}

// Inventory - набор стопок предметов ограниченной вместимости
type Inventory struct {
	capacity int
	stacks   []Stack
	gold     int
	xp       int
}

// New создаёт инвентарь
func New(capacity int) *Inventory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Inventory{capacity: capacity}
}

// Add добавляет предметы и возвращает сколько поместилось.
// Материалы докладываются в существующие стопки до MaxStack.
func (inv *Inventory) Add(it item.Item, quantity int) int {
	if quantity <= 0 {
		return 0
	}
	maxStack := it.MaxStack
	if maxStack <= 0 || it.Equipment {
		maxStack = 1
	}

	added := 0
	for i := range inv.stacks {
		if quantity == 0 {
			break
		}
		s := &inv.stacks[i]
		if s.Item.Kind != it.Kind || s.Item.Equipment || s.Quantity >= maxStack {
			continue
		}
		n := min(maxStack-s.Quantity, quantity)
		s.Quantity += n
		quantity -= n
		added += n
	}

	for quantity > 0 && len(inv.stacks) < inv.capacity {
		n := min(maxStack, quantity)
		inv.stacks = append(inv.stacks, Stack{Item: it, Quantity: n})
		quantity -= n
		added += n
	}

	return added
}

// AddDrops кладёт выпавшую добычу, возвращает число не поместившихся предметов
func (inv *Inventory) AddDrops(drops []loot.Drop) int {
	lost := 0
	for _, d := range drops {
		lost += d.Quantity - inv.Add(d.Item, d.Quantity)
	}
	return lost
}

// Count возвращает общее количество предметов типа
func (inv *Inventory) Count(kind item.ID) int {
	total := 0
	for _, s := range inv.stacks {
		if s.Item.Kind == kind {
			total += s.Quantity
		}
	}
	return total
}

// Remove забирает предметы типа начиная с последних стопок
func (inv *Inventory) Remove(kind item.ID, quantity int) error {
	if inv.Count(kind) < quantity {
		return fmt.Errorf("%s x%d: %w", kind, quantity, ErrNotEnough)
	}
	for i := len(inv.stacks) - 1; i >= 0 && quantity > 0; i-- {
		s := &inv.stacks[i]
		if s.Item.Kind != kind {
			continue
		}
		n := min(s.Quantity, quantity)
		s.Quantity -= n
		quantity -= n
		if s.Quantity == 0 {
			inv.stacks = append(inv.stacks[:i], inv.stacks[i+1:]...)
		}
	}
	return nil
}

// Stacks возвращает копию ячеек
func (inv *Inventory) Stacks() []Stack {
	out := make([]Stack, len(inv.stacks))
	copy(out, inv.stacks)
	return out
}

// Used возвращает число занятых ячеек
func (inv *Inventory) Used() int {
	return len(inv.stacks)
}

// Capacity возвращает вместимость
func (inv *Inventory) Capacity() int {
	return inv.capacity
}

// AddRewards начисляет золото и опыт
func (inv *Inventory) AddRewards(gold, xp int) {
	inv.gold += gold
	inv.xp += xp
}

// Gold возвращает накопленное золото
func (inv *Inventory) Gold() int {
	return inv.gold
}

// XP возвращает накопленный опыт
func (inv *Inventory) XP() int {
	return inv.xp
}
