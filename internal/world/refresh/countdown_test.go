package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown(t *testing.T) {
	c := NewCountdown(2 * time.Minute)
	assert.False(t, c.Ready())
	assert.Equal(t, 2*time.Minute, c.Remaining())

	c.Advance(90 * time.Second)
	assert.False(t, c.Ready())
	assert.Equal(t, 30*time.Second, c.Remaining())

	c.Advance(-time.Hour)
	assert.Equal(t, 90*time.Second, c.Elapsed, "отрицательное время игнорируется")

	c.Advance(30 * time.Second)
	assert.True(t, c.Ready())
	assert.Equal(t, time.Duration(0), c.Remaining())

	c.Reset()
	assert.False(t, c.Ready())
}

func TestZeroIntervalNeverFires(t *testing.T) {
	c := NewCountdown(0)
	c.Advance(time.Hour)
	assert.False(t, c.Ready())
}
