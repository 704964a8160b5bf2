package spectral

import (
	"fmt"
	"math"

	"github.com/sonigraph/sonigraph/algorithms/common"
)

// FFT is an in-place radix-2 Cooley-Tukey transform for a fixed size.
// The bit-reversal permutation and per-stage twiddle rotations are
// precomputed at construction; one instance is reusable across frames
// as long as the frame size does not change.
type FFT struct {
	size   int
	bitrev []int
	// Per-stage unit rotation e^(-2*pi*i/stageSize), starting at stage size 2.
	stageCos []float64
	stageSin []float64
}

// NewFFT creates an FFT for the given size, which must be a power of two
func NewFFT(size int) (*FFT, error) {
	if !common.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("FFT size must be a positive power of two, got %d", size)
	}

	f := &FFT{size: size}
	f.buildTables()
	return f, nil
}

func (f *FFT) buildTables() {
	n := f.size

	f.bitrev = make([]int, n)
	bits := 0
	for 1<<bits < n {
		bits++
	}
	for i := 0; i < n; i++ {
		rev := 0
		for b := 0; b < bits; b++ {
			if i&(1<<b) != 0 {
				rev |= 1 << (bits - 1 - b)
			}
		}
		f.bitrev[i] = rev
	}

	f.stageCos = make([]float64, bits)
	f.stageSin = make([]float64, bits)
	for s := 0; s < bits; s++ {
		stageSize := 1 << (s + 1)
		angle := -2.0 * math.Pi / float64(stageSize)
		f.stageCos[s] = math.Cos(angle)
		f.stageSin[s] = math.Sin(angle)
	}
}

// Size returns the transform size
func (f *FFT) Size() int {
	return f.size
}

// Transform computes the in-place FFT of the complex signal (re, im).
// Both slices must have length Size().
func (f *FFT) Transform(re, im []float64) error {
	n := f.size
	if len(re) != n || len(im) != n {
		return fmt.Errorf("transform buffers must have length %d, got %d/%d", n, len(re), len(im))
	}

	// Bit-reversal permutation
	for i, j := range f.bitrev {
		if j > i {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	// Butterfly stages with incremental twiddle rotation
	for s := 0; 1<<(s+1) <= n; s++ {
		stageSize := 1 << (s + 1)
		half := stageSize >> 1
		wCos, wSin := f.stageCos[s], f.stageSin[s]

		for start := 0; start < n; start += stageSize {
			twRe, twIm := 1.0, 0.0
			for k := 0; k < half; k++ {
				i := start + k
				j := i + half

				tRe := twRe*re[j] - twIm*im[j]
				tIm := twRe*im[j] + twIm*re[j]

				re[j] = re[i] - tRe
				im[j] = im[i] - tIm
				re[i] += tRe
				im[i] += tIm

				// Rotate the twiddle factor by the stage unit angle
				twRe, twIm = twRe*wCos-twIm*wSin, twRe*wSin+twIm*wCos
			}
		}
	}

	return nil
}

// MagnitudeSpectrum transforms the real signal in place and writes the
// magnitudes of the first Size()/2+1 bins into dst, which is returned.
// If dst is nil or too short a new slice is allocated.
func (f *FFT) MagnitudeSpectrum(re, im []float64, dst []float64) ([]float64, error) {
	if err := f.Transform(re, im); err != nil {
		return nil, err
	}

	bins := f.size/2 + 1
	if len(dst) < bins {
		dst = make([]float64, bins)
	}
	dst = dst[:bins]
	for k := 0; k < bins; k++ {
		dst[k] = math.Hypot(re[k], im[k])
	}

	return dst, nil
}
