package temporal

// EMASmoother is a single-pass forward exponential moving average:
// smoothed[i] = alpha*raw[i] + (1-alpha)*smoothed[i-1], seeded with the
// first raw value. The recurrence depends on the previous smoothed value,
// so input must arrive strictly in time order.
type EMASmoother struct {
	alpha  float64
	value  float64
	seeded bool
}

// NewEMASmoother creates a smoother with the given alpha in (0, 1]
func NewEMASmoother(alpha float64) *EMASmoother {
	return &EMASmoother{alpha: alpha}
}

// Next feeds one raw value and returns the smoothed value
func (s *EMASmoother) Next(raw float64) float64 {
	if !s.seeded {
		s.value = raw
		s.seeded = true
		return raw
	}

	s.value = s.alpha*raw + (1.0-s.alpha)*s.value
	return s.value
}

// Reset clears the smoother state
func (s *EMASmoother) Reset() {
	s.value = 0
	s.seeded = false
}

// SmoothSeries applies the EMA recurrence over a whole series at once
func SmoothSeries(series []float64, alpha float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	smoothed := make([]float64, len(series))
	s := NewEMASmoother(alpha)
	for i, v := range series {
		smoothed[i] = s.Next(v)
	}

	return smoothed
}
