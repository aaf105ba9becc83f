package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeighborsOrder(t *testing.T) {
	p := Vec2{X: 5, Y: 5}

	n8 := p.Neighbors8()
	assert.Equal(t, Vec2{X: 5, Y: 4}, n8[0], "первым должен идти север")
	assert.Equal(t, Vec2{X: 4, Y: 4}, n8[7], "последним должен идти северо-запад")

	for _, n := range n8 {
		assert.True(t, p.IsAdjacent8(n))
	}
	for _, n := range p.Neighbors4() {
		assert.Equal(t, 1, p.Manhattan(n))
	}
	assert.False(t, p.IsAdjacent8(p), "клетка не соседствует сама с собой")
}

func TestIndexRoundTrip(t *testing.T) {
	const w = 60
	for _, p := range []Vec2{{0, 0}, {59, 0}, {0, 19}, {17, 11}} {
		assert.Equal(t, p, FromIndex(p.Index(w), w))
	}
}

func TestInBoundsAndDistances(t *testing.T) {
	assert.True(t, Vec2{X: 0, Y: 0}.InBounds(3, 3))
	assert.False(t, Vec2{X: 3, Y: 0}.InBounds(3, 3))
	assert.False(t, Vec2{X: 0, Y: -1}.InBounds(3, 3))

	a, b := Vec2{X: 1, Y: 1}, Vec2{X: 4, Y: 5}
	assert.Equal(t, 7, a.Manhattan(b))
	assert.Equal(t, 4, a.Chebyshev(b))
	assert.InDelta(t, 5.0, a.DistanceTo(b), 1e-9)
}
