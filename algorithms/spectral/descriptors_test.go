package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorsSingleBinSpike(t *testing.T) {
	d := NewDescriptors(2048, 44100)
	freqRes := 44100.0 / 2048.0

	mags := make([]float64, 1025)
	mags[100] = 1.0

	res := d.Compute(mags)
	assert.InDelta(t, 100*freqRes, res.CentroidHz, 1e-9)
	assert.InDelta(t, 0.0, res.BandwidthHz, 1e-9)
	assert.Equal(t, 0.0, res.Flux, "no previous spectrum")

	// 100 * 21.53 Hz ~ 2153 Hz: high band
	assert.Equal(t, 0.0, res.BandEnergies[0])
	assert.Equal(t, 0.0, res.BandEnergies[1])
	assert.InDelta(t, 1.0, res.BandEnergies[2], 1e-12)
}

func TestDescriptorsFlatness(t *testing.T) {
	d := NewDescriptors(1024, 44100)

	flat := make([]float64, 513)
	for i := range flat {
		flat[i] = 0.5
	}
	res := d.Compute(flat)
	assert.InDelta(t, 1.0, res.Flatness, 1e-9, "uniform spectrum is maximally flat")

	d.Reset()
	spike := make([]float64, 513)
	spike[42] = 1.0
	res = d.Compute(spike)
	assert.Less(t, res.Flatness, 0.01, "tonal spectrum is not flat")
	assert.Greater(t, res.Flatness, 0.0)
}

func TestDescriptorsFluxRectified(t *testing.T) {
	d := NewDescriptors(1024, 44100)

	a := make([]float64, 513)
	a[10] = 1.0
	b := make([]float64, 513)
	b[10] = 3.0

	first := d.Compute(a)
	assert.Equal(t, 0.0, first.Flux)

	rising := d.Compute(b)
	assert.InDelta(t, 2.0, rising.Flux, 1e-12)

	// Energy decrease contributes nothing
	falling := d.Compute(a)
	assert.Equal(t, 0.0, falling.Flux)
}

func TestDescriptorsResetClearsFluxState(t *testing.T) {
	d := NewDescriptors(1024, 44100)

	a := make([]float64, 513)
	a[5] = 1.0
	d.Compute(a)

	d.Reset()
	b := make([]float64, 513)
	b[5] = 4.0
	res := d.Compute(b)
	assert.Equal(t, 0.0, res.Flux, "flux restarts after Reset")
}
