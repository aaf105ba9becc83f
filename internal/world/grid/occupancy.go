package grid

import (
	"errors"
	"fmt"

	"github.com/annel0/mine-game/internal/vec"
)

// Handle - непрозрачная ссылка на сущность, занимающую клетку. Ноль не используется.
type Handle uint64

var (
	ErrOutOfBounds         = errors.New("позиция вне сетки")
	ErrCellOccupied        = errors.New("клетка занята")
	ErrCellVacant          = errors.New("клетка свободна")
	ErrHandleAlreadyPlaced = errors.New("сущность уже размещена")
	ErrInvalidHandle       = errors.New("нулевой дескриптор")
)

// Occupancy хранит соответствие клетка -> сущность и обратный индекс сущность -> клетка.
// Одна клетка вмещает не более одной сущности, сущность занимает не более одной клетки.
type Occupancy struct {
	width, height int
	cells         map[vec.Vec2]Handle
	positions     map[Handle]vec.Vec2
}

// NewOccupancy создаёт пустую сетку размера width x height
func NewOccupancy(width, height int) *Occupancy {
	return &Occupancy{
		width:     width,
		height:    height,
		cells:     make(map[vec.Vec2]Handle),
		positions: make(map[Handle]vec.Vec2),
	}
}

// Width возвращает ширину сетки
func (o *Occupancy) Width() int { return o.width }

// Height возвращает высоту сетки
func (o *Occupancy) Height() int { return o.height }

// InBounds проверяет, что позиция внутри сетки
func (o *Occupancy) InBounds(pos vec.Vec2) bool {
	return pos.InBounds(o.width, o.height)
}

// Occupy размещает сущность в свободной клетке
func (o *Occupancy) Occupy(pos vec.Vec2, h Handle) error {
	if h == 0 {
		return ErrInvalidHandle
	}
	if !o.InBounds(pos) {
		return fmt.Errorf("%v: %w", pos, ErrOutOfBounds)
	}
	if _, taken := o.cells[pos]; taken {
		return fmt.Errorf("%v: %w", pos, ErrCellOccupied)
	}
	if at, placed := o.positions[h]; placed {
		return fmt.Errorf("дескриптор %d в %v: %w", h, at, ErrHandleAlreadyPlaced)
	}

	o.cells[pos] = h
	o.positions[h] = pos
	return nil
}

// Vacate освобождает клетку. Для свободной клетки ничего не делает.
func (o *Occupancy) Vacate(pos vec.Vec2) {
	h, ok := o.cells[pos]
	if !ok {
		return
	}
	delete(o.cells, pos)
	delete(o.positions, h)
}

// Remove освобождает клетку, занятую сущностью. Возвращает false, если сущность не размещена.
func (o *Occupancy) Remove(h Handle) bool {
	pos, ok := o.positions[h]
	if !ok {
		return false
	}
	delete(o.cells, pos)
	delete(o.positions, h)
	return true
}

// IsOccupied проверяет, занята ли клетка
func (o *Occupancy) IsOccupied(pos vec.Vec2) bool {
	_, ok := o.cells[pos]
	return ok
}

// OccupantAt возвращает сущность в клетке
func (o *Occupancy) OccupantAt(pos vec.Vec2) (Handle, bool) {
	h, ok := o.cells[pos]
	return h, ok
}

// PositionOf возвращает клетку сущности
func (o *Occupancy) PositionOf(h Handle) (vec.Vec2, bool) {
	pos, ok := o.positions[h]
	return pos, ok
}

// MoveOccupant атомарно переносит сущность из from в to.
// При любой ошибке состояние не меняется.
func (o *Occupancy) MoveOccupant(from, to vec.Vec2) error {
	if !o.InBounds(from) {
		return fmt.Errorf("%v: %w", from, ErrOutOfBounds)
	}
	if !o.InBounds(to) {
		return fmt.Errorf("%v: %w", to, ErrOutOfBounds)
	}
	h, ok := o.cells[from]
	if !ok {
		return fmt.Errorf("%v: %w", from, ErrCellVacant)
	}
	if from == to {
		return nil
	}
	if _, taken := o.cells[to]; taken {
		return fmt.Errorf("%v: %w", to, ErrCellOccupied)
	}

	delete(o.cells, from)
	o.cells[to] = h
	o.positions[h] = to
	return nil
}

// Count возвращает число занятых клеток
func (o *Occupancy) Count() int {
	return len(o.cells)
}

// Clear освобождает все клетки
func (o *Occupancy) Clear() {
	o.cells = make(map[vec.Vec2]Handle)
	o.positions = make(map[Handle]vec.Vec2)
}

// Each вызывает fn для каждой занятой клетки в произвольном порядке
func (o *Occupancy) Each(fn func(pos vec.Vec2, h Handle)) {
	for pos, h := range o.cells {
		fn(pos, h)
	}
}
