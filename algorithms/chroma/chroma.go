package chroma

import (
	"fmt"
	"math"
)

// NumClasses is the number of pitch classes in a chroma vector
const NumClasses = 12

// Extractor maps magnitude spectrum bins to 12 octave-folded pitch classes.
// Bin frequencies are mapped to semitones relative to A4=440 Hz; class 0 is
// therefore A. The bin-to-class mapping is precomputed per FFT size and is
// read-only after construction.
type Extractor struct {
	sampleRate int
	frameSize  int
	minFreq    float64
	maxFreq    float64
	tuningFreq float64
	mapping    []int // bin index -> pitch class, -1 when out of range
}

// NewExtractor creates a chroma extractor considering bins in [30, 5000] Hz
func NewExtractor(frameSize, sampleRate int) (*Extractor, error) {
	return NewExtractorWithRange(frameSize, sampleRate, 30.0, 5000.0)
}

// NewExtractorWithRange creates a chroma extractor with a custom frequency range
func NewExtractorWithRange(frameSize, sampleRate int, minFreq, maxFreq float64) (*Extractor, error) {
	if frameSize <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid frame size %d or sample rate %d", frameSize, sampleRate)
	}
	if maxFreq <= minFreq {
		return nil, fmt.Errorf("max frequency %.1f must exceed min frequency %.1f", maxFreq, minFreq)
	}

	e := &Extractor{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		minFreq:    minFreq,
		maxFreq:    maxFreq,
		tuningFreq: 440.0,
	}
	e.buildMapping()

	return e, nil
}

func (e *Extractor) buildMapping() {
	numBins := e.frameSize/2 + 1
	freqRes := float64(e.sampleRate) / float64(e.frameSize)

	e.mapping = make([]int, numBins)
	for k := 0; k < numBins; k++ {
		freq := float64(k) * freqRes
		if freq < e.minFreq || freq > e.maxFreq {
			e.mapping[k] = -1
			continue
		}

		semitone := 12.0 * math.Log2(freq/e.tuningFreq)
		e.mapping[k] = ((int(math.Round(semitone)) % NumClasses) + NumClasses) % NumClasses
	}
}

// Compute accumulates squared magnitude per pitch class and L1-normalizes
// the result. A frame with no energy in the scanned range yields the zero
// vector unmodified.
func (e *Extractor) Compute(magnitude []float64) []float64 {
	classes := make([]float64, NumClasses)

	total := 0.0
	for k, mag := range magnitude {
		if k >= len(e.mapping) {
			break
		}
		class := e.mapping[k]
		if class < 0 {
			continue
		}
		energy := mag * mag
		classes[class] += energy
		total += energy
	}

	if total > 0 {
		for i := range classes {
			classes[i] /= total
		}
	}

	return classes
}

// Concentration returns the maximum class energy of an L1-normalized chroma
// vector, a proxy for tonal focus: 1.0 means all energy in one pitch class.
func Concentration(chromaVector []float64) float64 {
	maxEnergy := 0.0
	for _, e := range chromaVector {
		if e > maxEnergy {
			maxEnergy = e
		}
	}
	return maxEnergy
}
