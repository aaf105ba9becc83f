package vec

import "math"

// Vec2 представляет позицию клетки на сетке
type Vec2 struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Направления в фиксированном порядке обхода: N, NE, E, SE, S, SW, W, NW.
// Ось Y направлена вниз, как в строках карты.
var (
	North     = Vec2{X: 0, Y: -1}
	NorthEast = Vec2{X: 1, Y: -1}
	East      = Vec2{X: 1, Y: 0}
	SouthEast = Vec2{X: 1, Y: 1}
	South     = Vec2{X: 0, Y: 1}
	SouthWest = Vec2{X: -1, Y: 1}
	West      = Vec2{X: -1, Y: 0}
	NorthWest = Vec2{X: -1, Y: -1}
)

// Cardinal - 4-связное соседство
var Cardinal = [4]Vec2{North, East, South, West}

// Ring - 8-связное соседство в порядке обхода по часовой стрелке начиная с севера
var Ring = [8]Vec2{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// InBounds проверяет, что позиция лежит в прямоугольнике [0,w)x[0,h)
func (v Vec2) InBounds(w, h int) bool {
	return v.X >= 0 && v.Y >= 0 && v.X < w && v.Y < h
}

// Index возвращает индекс клетки в построчном массиве ширины w
func (v Vec2) Index(w int) int {
	return v.Y*w + v.X
}

// FromIndex обратное преобразование к Index
func FromIndex(i, w int) Vec2 {
	return Vec2{X: i % w, Y: i / w}
}

// Neighbors4 возвращает 4 соседей по сторонам
func (v Vec2) Neighbors4() [4]Vec2 {
	var out [4]Vec2
	for i, d := range Cardinal {
		out[i] = v.Add(d)
	}
	return out
}

// Neighbors8 возвращает 8 соседей в порядке Ring
func (v Vec2) Neighbors8() [8]Vec2 {
	var out [8]Vec2
	for i, d := range Ring {
		out[i] = v.Add(d)
	}
	return out
}

// IsAdjacent8 проверяет, что клетки соседние (включая диагонали) и не совпадают
func (v Vec2) IsAdjacent8(other Vec2) bool {
	return v != other && v.Chebyshev(other) == 1
}

// Manhattan расстояние городских кварталов
func (v Vec2) Manhattan(other Vec2) int {
	return abs(v.X-other.X) + abs(v.Y-other.Y)
}

// Chebyshev расстояние с учётом диагоналей
func (v Vec2) Chebyshev(other Vec2) int {
	dx, dy := abs(v.X-other.X), abs(v.Y-other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// DistanceTo вычисляет евклидово расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
