package spectral

import (
	"fmt"
	"math"
)

// HzToMel converts frequency in Hz to the mel scale
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// MelFilterBank is a bank of triangular mel-spaced filters over the
// magnitude spectrum bins of a fixed FFT size. Read-only after construction.
type MelFilterBank struct {
	numFilters int
	fftSize    int
	sampleRate int
	filters    [][]float64
}

// NewMelFilterBank builds a triangular filter bank with numFilters filters
// spanning [lowFreq, highFreq] Hz for the given FFT size and sample rate.
func NewMelFilterBank(numFilters, fftSize, sampleRate int, lowFreq, highFreq float64) (*MelFilterBank, error) {
	if numFilters <= 0 {
		return nil, fmt.Errorf("filter count must be positive, got %d", numFilters)
	}
	if fftSize <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid FFT size %d or sample rate %d", fftSize, sampleRate)
	}
	if highFreq <= lowFreq {
		return nil, fmt.Errorf("high frequency %.1f must exceed low frequency %.1f", highFreq, lowFreq)
	}

	fb := &MelFilterBank{
		numFilters: numFilters,
		fftSize:    fftSize,
		sampleRate: sampleRate,
	}

	// Equally spaced points on the mel scale, converted back to FFT bins
	lowMel := HzToMel(lowFreq)
	highMel := HzToMel(highFreq)
	melStep := (highMel - lowMel) / float64(numFilters+1)

	binPoints := make([]int, numFilters+2)
	for i := range binPoints {
		hz := MelToHz(lowMel + float64(i)*melStep)
		bin := int(math.Floor((float64(fftSize)+1.0)*hz/float64(sampleRate) + 0.5))
		binPoints[i] = min(bin, fftSize/2)
	}

	numBins := fftSize/2 + 1
	fb.filters = make([][]float64, numFilters)
	for m := 0; m < numFilters; m++ {
		fb.filters[m] = make([]float64, numBins)
		leftBin := binPoints[m]
		centerBin := binPoints[m+1]
		rightBin := binPoints[m+2]

		for k := leftBin; k < centerBin && k < numBins; k++ {
			if centerBin != leftBin {
				fb.filters[m][k] = float64(k-leftBin) / float64(centerBin-leftBin)
			}
		}
		for k := centerBin; k < rightBin && k < numBins; k++ {
			if rightBin != centerBin {
				fb.filters[m][k] = float64(rightBin-k) / float64(rightBin-centerBin)
			}
		}
	}

	return fb, nil
}

// NumFilters returns the number of filters in the bank
func (fb *MelFilterBank) NumFilters() int {
	return fb.numFilters
}

// Apply applies the filter bank to a power spectrum and returns the
// per-filter energies.
func (fb *MelFilterBank) Apply(powerSpectrum []float64) []float64 {
	energies := make([]float64, fb.numFilters)

	for m, filter := range fb.filters {
		sum := 0.0
		for k := 0; k < len(filter) && k < len(powerSpectrum); k++ {
			sum += powerSpectrum[k] * filter[k]
		}
		energies[m] = sum
	}

	return energies
}
