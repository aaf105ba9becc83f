package grid

import (
	"math/rand"
	"testing"

	"github.com/annel0/mine-game/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupyExclusive(t *testing.T) {
	o := NewOccupancy(5, 5)
	p := vec.Vec2{X: 1, Y: 1}

	require.NoError(t, o.Occupy(p, 1))
	assert.ErrorIs(t, o.Occupy(p, 2), ErrCellOccupied, "клетка вмещает одну сущность")
	assert.ErrorIs(t, o.Occupy(vec.Vec2{X: 2, Y: 2}, 1), ErrHandleAlreadyPlaced, "сущность занимает одну клетку")
	assert.ErrorIs(t, o.Occupy(vec.Vec2{X: 5, Y: 0}, 3), ErrOutOfBounds)
	assert.ErrorIs(t, o.Occupy(vec.Vec2{X: 0, Y: 0}, 0), ErrInvalidHandle)

	h, ok := o.OccupantAt(p)
	assert.True(t, ok)
	assert.Equal(t, Handle(1), h)
	assert.Equal(t, 1, o.Count())
}

func TestVacate(t *testing.T) {
	o := NewOccupancy(3, 3)
	p := vec.Vec2{X: 0, Y: 2}
	require.NoError(t, o.Occupy(p, 7))

	o.Vacate(p)
	assert.False(t, o.IsOccupied(p))
	_, placed := o.PositionOf(7)
	assert.False(t, placed, "обратный индекс тоже очищается")

	assert.NotPanics(t, func() {
		o.Vacate(p)
		o.Vacate(vec.Vec2{X: -1, Y: -1})
	}, "освобождение свободной клетки ничего не делает")

	require.NoError(t, o.Occupy(p, 7), "после освобождения сущность можно разместить снова")
}

func TestMoveOccupant(t *testing.T) {
	o := NewOccupancy(4, 4)
	a, b, c := vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 1, Y: 0}, vec.Vec2{X: 2, Y: 0}
	require.NoError(t, o.Occupy(a, 1))
	require.NoError(t, o.Occupy(c, 2))

	require.NoError(t, o.MoveOccupant(a, b))
	assert.False(t, o.IsOccupied(a))
	pos, _ := o.PositionOf(1)
	assert.Equal(t, b, pos)

	assert.ErrorIs(t, o.MoveOccupant(b, c), ErrCellOccupied)
	assert.ErrorIs(t, o.MoveOccupant(a, b), ErrCellVacant)
	assert.ErrorIs(t, o.MoveOccupant(b, vec.Vec2{X: 4, Y: 0}), ErrOutOfBounds)

	// Неудачные перемещения не меняют состояние
	h, _ := o.OccupantAt(b)
	assert.Equal(t, Handle(1), h)
	h, _ = o.OccupantAt(c)
	assert.Equal(t, Handle(2), h)
	assert.Equal(t, 2, o.Count())

	assert.NoError(t, o.MoveOccupant(b, b))
}

func TestRemoveAndClear(t *testing.T) {
	o := NewOccupancy(2, 2)
	require.NoError(t, o.Occupy(vec.Vec2{X: 1, Y: 1}, 9))

	assert.True(t, o.Remove(9))
	assert.False(t, o.Remove(9))

	require.NoError(t, o.Occupy(vec.Vec2{X: 0, Y: 0}, 1))
	require.NoError(t, o.Occupy(vec.Vec2{X: 1, Y: 0}, 2))
	seen := 0
	o.Each(func(vec.Vec2, Handle) { seen++ })
	assert.Equal(t, 2, seen)

	o.Clear()
	assert.Equal(t, 0, o.Count())
}

// checkIndexes сверяет оба индекса занятости между собой и с ожидаемым состоянием
func checkIndexes(t *testing.T, o *Occupancy, want map[Handle]vec.Vec2) {
	t.Helper()
	require.Equal(t, len(want), o.Count())

	seen := make(map[vec.Vec2]Handle, o.Count())
	o.Each(func(pos vec.Vec2, h Handle) {
		prev, dup := seen[pos]
		require.False(t, dup, "в клетке %v две сущности: %d и %d", pos, prev, h)
		seen[pos] = h

		back, ok := o.PositionOf(h)
		require.True(t, ok, "сущность %d есть в клетке, но не в индексе позиций", h)
		require.Equal(t, pos, back)
	})
	require.Len(t, seen, len(want))

	for h, pos := range want {
		got, ok := o.PositionOf(h)
		require.True(t, ok, "сущность %d потеряна", h)
		require.Equal(t, pos, got)
		at, ok := o.OccupantAt(pos)
		require.True(t, ok)
		require.Equal(t, h, at)
	}
}

func TestOccupancyRandomSequence(t *testing.T) {
	const size = 6
	src := rand.New(rand.NewSource(20240611))
	o := NewOccupancy(size, size)
	want := make(map[Handle]vec.Vec2)
	occupied := func(pos vec.Vec2) bool {
		for _, p := range want {
			if p == pos {
				return true
			}
		}
		return false
	}
	randomPos := func() vec.Vec2 {
		return vec.Vec2{X: src.Intn(size), Y: src.Intn(size)}
	}

	for step := 0; step < 2000; step++ {
		pos := randomPos()
		h := Handle(src.Intn(40) + 1)

		switch src.Intn(5) {
		case 0, 1:
			err := o.Occupy(pos, h)
			_, placed := want[h]
			switch {
			case occupied(pos):
				require.ErrorIs(t, err, ErrCellOccupied, "шаг %d", step)
			case placed:
				require.ErrorIs(t, err, ErrHandleAlreadyPlaced, "шаг %d", step)
			default:
				require.NoError(t, err, "шаг %d", step)
				want[h] = pos
			}
		case 2:
			to := randomPos()
			mover, _ := o.OccupantAt(pos)
			err := o.MoveOccupant(pos, to)
			switch {
			case !occupied(pos):
				require.ErrorIs(t, err, ErrCellVacant, "шаг %d", step)
			case pos != to && occupied(to):
				require.ErrorIs(t, err, ErrCellOccupied, "шаг %d", step)
			default:
				require.NoError(t, err, "шаг %d", step)
				want[mover] = to
			}
		case 3:
			o.Vacate(pos)
			for wh, wp := range want {
				if wp == pos {
					delete(want, wh)
				}
			}
		case 4:
			_, placed := want[h]
			assert.Equal(t, placed, o.Remove(h), "шаг %d", step)
			delete(want, h)
		}

		checkIndexes(t, o, want)
	}
}
