package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEMASmootherRecurrence(t *testing.T) {
	s := NewEMASmoother(0.5)

	// Seeded by the first raw value
	assert.Equal(t, 1.0, s.Next(1.0))
	// 0.5*2 + 0.5*1 = 1.5
	assert.Equal(t, 1.5, s.Next(2.0))
	// 0.5*3 + 0.5*1.5 = 2.25
	assert.Equal(t, 2.25, s.Next(3.0))
}

func TestEMASmootherReset(t *testing.T) {
	s := NewEMASmoother(0.5)
	s.Next(10.0)
	s.Next(20.0)

	s.Reset()
	assert.Equal(t, 5.0, s.Next(5.0), "reseeded after Reset")
}

// The recurrence must chain smoothed values, not raw ones.
func TestSmoothSeriesSequentialDependency(t *testing.T) {
	series := []float64{4, 0, 0, 0}
	smoothed := SmoothSeries(series, 0.5)

	assert.Equal(t, []float64{4, 2, 1, 0.5}, smoothed)
	assert.Nil(t, SmoothSeries(nil, 0.5))
}
