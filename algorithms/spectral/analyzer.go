package spectral

import (
	"fmt"

	"github.com/sonigraph/sonigraph/algorithms/windowing"
)

// SpectrumAnalyzer produces the windowed magnitude spectrum of fixed-size
// frames taken from a longer sample buffer. The Hann coefficient table and
// FFT twiddle tables are cached per frame size; Resize rebuilds them.
// Instances are not safe for concurrent use; create one per running analysis.
type SpectrumAnalyzer struct {
	frameSize  int
	sampleRate int

	window *windowing.Hann
	fft    *FFT

	// Scratch buffers reused across frames
	re   []float64
	im   []float64
	mags []float64
}

// NewSpectrumAnalyzer creates an analyzer for the given frame size (a power
// of two) and sample rate in Hz.
func NewSpectrumAnalyzer(frameSize, sampleRate int) (*SpectrumAnalyzer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	sa := &SpectrumAnalyzer{sampleRate: sampleRate}
	if err := sa.Resize(frameSize); err != nil {
		return nil, err
	}

	return sa, nil
}

// Resize rebuilds the cached window and twiddle tables for a new frame size
func (sa *SpectrumAnalyzer) Resize(frameSize int) error {
	fft, err := NewFFT(frameSize)
	if err != nil {
		return fmt.Errorf("invalid frame size: %w", err)
	}

	sa.frameSize = frameSize
	sa.fft = fft
	sa.window = windowing.NewHann(frameSize)
	sa.re = make([]float64, frameSize)
	sa.im = make([]float64, frameSize)
	sa.mags = make([]float64, frameSize/2+1)

	return nil
}

// FrameSize returns the current frame size
func (sa *SpectrumAnalyzer) FrameSize() int {
	return sa.frameSize
}

// NumBins returns the number of magnitude bins per frame (frameSize/2+1)
func (sa *SpectrumAnalyzer) NumBins() int {
	return sa.frameSize/2 + 1
}

// BinFrequency returns the center frequency of bin k in Hz
func (sa *SpectrumAnalyzer) BinFrequency(k int) float64 {
	return float64(k) * float64(sa.sampleRate) / float64(sa.frameSize)
}

// FrequencyResolution returns Hz per bin
func (sa *SpectrumAnalyzer) FrequencyResolution() float64 {
	return float64(sa.sampleRate) / float64(sa.frameSize)
}

// MagnitudeAt computes the Hann-windowed magnitude spectrum of the frame
// starting at offset. Samples past the end of the buffer are treated as
// zero. The returned slice is owned by the analyzer and overwritten on the
// next call; copy it if it must outlive the frame.
func (sa *SpectrumAnalyzer) MagnitudeAt(samples []float64, offset int) ([]float64, error) {
	if offset < 0 || offset >= len(samples) {
		return nil, fmt.Errorf("frame offset %d out of range [0, %d)", offset, len(samples))
	}

	for i := 0; i < sa.frameSize; i++ {
		idx := offset + i
		if idx < len(samples) {
			sa.re[i] = samples[idx] * sa.window.Coefficient(i)
		} else {
			sa.re[i] = 0.0
		}
		sa.im[i] = 0.0
	}

	mags, err := sa.fft.MagnitudeSpectrum(sa.re, sa.im, sa.mags)
	if err != nil {
		return nil, err
	}
	sa.mags = mags

	return mags, nil
}
