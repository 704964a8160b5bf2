package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.5, Mean([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestPopStdDev(t *testing.T) {
	// Population std of {2, 4}: sqrt(((2-3)^2 + (4-3)^2)/2) = 1
	assert.InDelta(t, 1.0, PopStdDev([]float64{2, 4}), 1e-12)
	assert.Equal(t, 0.0, PopStdDev([]float64{5}))
}

func TestRMS(t *testing.T) {
	assert.InDelta(t, 5.0, RMS([]float64{5, -5, 5, -5}), 1e-12)
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, math.Sqrt2/2, RMS([]float64{1, 0, -1, 0}), 1e-12)
}

func TestMinMax(t *testing.T) {
	data := []float64{3, -1, 4, 1.5}
	assert.Equal(t, 4.0, Max(data))
	assert.Equal(t, -1.0, Min(data))
	assert.Equal(t, 0.0, Max(nil))
	assert.Equal(t, 0.0, Min(nil))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-2, 0, 1))
	assert.Equal(t, 1.0, Clamp(7, 0, 1))
	assert.Equal(t, 1.0, Clamp01(1.5))
}

func TestNormalizeRange(t *testing.T) {
	assert.Equal(t, 0.5, NormalizeRange(5, 0, 10))
	assert.Equal(t, 0.0, NormalizeRange(-3, 0, 10))
	assert.Equal(t, 1.0, NormalizeRange(42, 0, 10))

	// Zero-width range lands on the midpoint instead of dividing by zero
	assert.Equal(t, 0.5, NormalizeRange(7, 7, 7))
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 1024, 65536} {
		assert.True(t, IsPowerOfTwo(n), "%d", n)
	}
	for _, n := range []int{0, -2, 3, 1000, 2047} {
		assert.False(t, IsPowerOfTwo(n), "%d", n)
	}
}
