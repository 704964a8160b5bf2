package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBeatsImpulseTrain(t *testing.T) {
	flux := make([]float64, 64)
	for i := 8; i < 64; i += 8 {
		flux[i] = 1.0
	}

	strengths := DetectBeats(flux, DefaultBeatParams())
	assert.Len(t, strengths, 64)

	peak := 0.0
	for i, s := range strengths {
		if i%8 == 0 && i >= 8 && i < 63 {
			assert.Greater(t, s, 0.0, "frame %d is a beat", i)
		} else {
			assert.Equal(t, 0.0, s, "frame %d is not a beat", i)
		}
		if s > peak {
			peak = s
		}
	}

	// Strengths renormalized by the track-wide maximum
	assert.InDelta(t, 1.0, peak, 1e-12)
}

func TestDetectBeatsFlatFluxHasNoBeats(t *testing.T) {
	flux := make([]float64, 32)
	for i := range flux {
		flux[i] = 0.5
	}

	for i, s := range DetectBeats(flux, DefaultBeatParams()) {
		assert.Equal(t, 0.0, s, "frame %d", i)
	}
}

func TestDetectBeatsSilence(t *testing.T) {
	for _, s := range DetectBeats(make([]float64, 32), DefaultBeatParams()) {
		assert.Equal(t, 0.0, s)
	}

	// Degenerate lengths
	assert.Len(t, DetectBeats(nil, DefaultBeatParams()), 0)
	assert.Len(t, DetectBeats([]float64{1, 2}, DefaultBeatParams()), 2)
}

func TestDetectBeatsStrengthCap(t *testing.T) {
	flux := []float64{0, 0, 0, 0, 10, 0, 0, 0, 0, 0, 0, 0}
	strengths := DetectBeats(flux, DefaultBeatParams())

	for _, s := range strengths {
		assert.LessOrEqual(t, s, 1.0)
	}
	assert.Greater(t, strengths[4], 0.0)
}
