package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMath(t *testing.T) {
	for p := -6; p <= 6; p++ {
		assert.InDelta(t, math.Pow(1.7, float64(p)), POW(1.7, p), 1.e-12)
	}
	assert.Equal(t, -1., Sign(-0.5))
	assert.Equal(t, 1., Sign(0))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.NaN()))
	assert.True(t, IsFinite(1.e300))
}
