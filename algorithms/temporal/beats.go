package temporal

import (
	"github.com/sonigraph/sonigraph/algorithms/common"
)

// BeatParams contains parameters for adaptive beat detection
type BeatParams struct {
	WindowCap      int     `json:"window_cap"`      // Max sliding-window half width in frames (default: 10)
	ThresholdScale float64 `json:"threshold_scale"` // Local mean multiplier (default: 1.3)
	ThresholdFloor float64 `json:"threshold_floor"` // Additive threshold floor (default: 0.1)
	StrengthScale  float64 `json:"strength_scale"`  // Raw strength multiplier (default: 1.5)
}

// DefaultBeatParams returns the default beat detection parameters
func DefaultBeatParams() BeatParams {
	return BeatParams{
		WindowCap:      10,
		ThresholdScale: 1.3,
		ThresholdFloor: 0.1,
		StrengthScale:  1.5,
	}
}

// DetectBeats finds beat candidates in a spectral flux series using an
// adaptive local-mean threshold and returns one strength per frame, 0 for
// frames that are not beats. Strengths are normalized by the track-wide
// maximum strength.
//
// A frame is a beat candidate when its normalized flux is a local maximum
// and exceeds localMean*ThresholdScale + ThresholdFloor, where the local
// mean is taken over min(WindowCap, n/4) frames on each side.
func DetectBeats(flux []float64, params BeatParams) []float64 {
	n := len(flux)
	strengths := make([]float64, n)
	if n < 3 {
		return strengths
	}

	// Normalize flux by its track-wide maximum
	maxFlux := common.Max(flux)
	norm := make([]float64, n)
	if maxFlux > 1e-10 {
		for i, f := range flux {
			norm[i] = f / maxFlux
		}
	}

	window := min(params.WindowCap, n/4)
	window = max(window, 1)

	maxStrength := 0.0
	for i := 1; i < n-1; i++ {
		// Local maximum of normalized flux
		if norm[i] <= norm[i-1] || norm[i] < norm[i+1] {
			continue
		}

		lo := max(i-window, 0)
		hi := min(i+window, n-1)
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += norm[j]
		}
		mean := sum / float64(hi-lo+1)

		threshold := mean*params.ThresholdScale + params.ThresholdFloor
		if norm[i] <= threshold {
			continue
		}

		strength := norm[i] * params.StrengthScale
		if strength > 1.0 {
			strength = 1.0
		}
		strengths[i] = strength
		if strength > maxStrength {
			maxStrength = strength
		}
	}

	// Renormalize by the strongest beat
	if maxStrength > 1e-10 {
		for i := range strengths {
			strengths[i] /= maxStrength
		}
	}

	return strengths
}
