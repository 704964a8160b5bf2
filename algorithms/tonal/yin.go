package tonal

import (
	"fmt"
	"math"
)

// YINParams contains parameters for YIN pitch detection
type YINParams struct {
	SampleRate    int     `json:"sample_rate"`
	Threshold     float64 `json:"threshold"`      // CMNDF crossing threshold (default: 0.15)
	MinFreq       float64 `json:"min_freq"`       // Lowest detectable pitch in Hz (default: 50)
	MaxFreq       float64 `json:"max_freq"`       // Highest detectable pitch in Hz (default: 2000)
	MinConfidence float64 `json:"min_confidence"` // Reject below this confidence (default: 0.3)
}

// YINResult holds the pitch estimate for one frame
type YINResult struct {
	F0         float64 `json:"f0"`         // Fundamental frequency in Hz, 0 when unvoiced
	Confidence float64 `json:"confidence"` // 1 - CMNDF at the chosen lag, in [0, 1]
	Voiced     bool    `json:"voiced"`     // Whether the frame passed the confidence gate
}

// YIN is an autocorrelation-difference fundamental frequency estimator.
//
// Reference: de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental
// frequency estimator for speech and music"
//
// The detector operates on a half-window of the analysis frame: the
// difference function d(tau) is computed for tau in [0, N/2), normalized by
// its cumulative mean, then scanned for the first threshold crossing within
// the lag range implied by [MinFreq, MaxFreq]. Parabolic interpolation
// refines the lag to sub-sample precision.
type YIN struct {
	params YINParams

	// Scratch buffers reused across frames, sized on first use
	diff  []float64
	cmndf []float64
}

// NewYIN creates a YIN detector with default parameters
func NewYIN(sampleRate int) (*YIN, error) {
	return NewYINWithParams(YINParams{SampleRate: sampleRate})
}

// NewYINWithParams creates a YIN detector with custom parameters
func NewYINWithParams(params YINParams) (*YIN, error) {
	if params.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", params.SampleRate)
	}
	if params.Threshold <= 0 {
		params.Threshold = 0.15
	}
	if params.MinFreq <= 0 {
		params.MinFreq = 50.0
	}
	if params.MaxFreq <= 0 {
		params.MaxFreq = 2000.0
	}
	if params.MinConfidence <= 0 {
		params.MinConfidence = 0.3
	}
	if params.MaxFreq <= params.MinFreq {
		return nil, fmt.Errorf("max frequency %.1f must exceed min frequency %.1f", params.MaxFreq, params.MinFreq)
	}

	return &YIN{params: params}, nil
}

// Detect estimates the fundamental frequency of one time-domain frame.
// Unvoiced frames (no periodicity above the confidence gate, or a pitch
// outside the configured range) return F0 0 with Confidence 0.
func (y *YIN) Detect(frame []float64) YINResult {
	half := len(frame) / 2
	if half < 2 {
		return YINResult{}
	}

	if len(y.diff) < half {
		y.diff = make([]float64, half)
		y.cmndf = make([]float64, half)
	}
	diff := y.diff[:half]
	cmndf := y.cmndf[:half]

	// Difference function d(tau) over the half-window
	for tau := 0; tau < half; tau++ {
		sum := 0.0
		for j := 0; j < half; j++ {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	// Cumulative-mean-normalized difference d'(tau)
	cmndf[0] = 1.0
	runningSum := 0.0
	for tau := 1; tau < half; tau++ {
		runningSum += diff[tau]
		if runningSum > 0 {
			cmndf[tau] = diff[tau] * float64(tau) / runningSum
		} else {
			cmndf[tau] = 1.0
		}
	}

	// Lag bounds from the pitch range
	sr := float64(y.params.SampleRate)
	minTau := int(sr / y.params.MaxFreq)
	maxTau := int(sr / y.params.MinFreq)
	minTau = max(minTau, 2)
	maxTau = min(maxTau, half-1)
	if minTau >= maxTau {
		return YINResult{}
	}

	// First threshold crossing, then walk forward to the local minimum
	chosen := -1
	for tau := minTau; tau <= maxTau; tau++ {
		if cmndf[tau] < y.params.Threshold {
			for tau+1 <= maxTau && cmndf[tau+1] < cmndf[tau] {
				tau++
			}
			chosen = tau
			break
		}
	}

	// No crossing: fall back to the global minimum within range
	if chosen < 0 {
		minVal := math.Inf(1)
		for tau := minTau; tau <= maxTau; tau++ {
			if cmndf[tau] < minVal {
				minVal = cmndf[tau]
				chosen = tau
			}
		}
	}
	if chosen < 0 {
		return YINResult{}
	}

	confidence := 1.0 - cmndf[chosen]
	if confidence < 0 {
		confidence = 0
	}

	refined := y.parabolicInterpolate(cmndf, chosen)
	f0 := sr / refined

	if f0 < y.params.MinFreq || f0 > y.params.MaxFreq || confidence < y.params.MinConfidence {
		return YINResult{}
	}

	return YINResult{F0: f0, Confidence: confidence, Voiced: true}
}

// parabolicInterpolate refines an integer lag by fitting a parabola through
// the CMNDF values at tau-1, tau, tau+1.
func (y *YIN) parabolicInterpolate(cmndf []float64, tau int) float64 {
	if tau <= 0 || tau >= len(cmndf)-1 {
		return float64(tau)
	}

	left := cmndf[tau-1]
	center := cmndf[tau]
	right := cmndf[tau+1]

	denom := 2.0 * (left - 2.0*center + right)
	if math.Abs(denom) < 1e-12 {
		return float64(tau)
	}

	offset := (left - right) / denom
	if offset < -1 || offset > 1 {
		return float64(tau)
	}

	return float64(tau) + offset
}
