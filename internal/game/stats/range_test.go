package stats

import (
	"testing"

	"github.com/annel0/mine-game/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestSampleWithinBounds(t *testing.T) {
	src := util.NewSource(3)
	r := Between(10, 14)
	for i := 0; i < 500; i++ {
		assert.True(t, r.Contains(r.Sample(src)))
	}
	assert.Equal(t, 5, Fixed(5).Sample(src))
}

func TestScaleRounds(t *testing.T) {
	assert.Equal(t, Range{Min: 20, Max: 30}, Between(10, 15).Scale(2))
	assert.Equal(t, Range{Min: 2, Max: 5}, Between(3, 7).Scale(0.7))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Between(1, 1).Validate())
	assert.Error(t, Between(2, 1).Validate())
	assert.Equal(t, "1..=3", Between(1, 3).String())
}
