package spectral

import (
	"math"
)

// NumBands is the number of fixed analysis bands (low/mid/high)
const NumBands = 3

// Band frequency edges in Hz: 20-250 (low), 250-2000 (mid), 2000-8000 (high)
var bandEdges = [NumBands][2]float64{
	{20.0, 250.0},
	{250.0, 2000.0},
	{2000.0, 8000.0},
}

// DescriptorResult holds the frequency-domain shape descriptors of one frame
type DescriptorResult struct {
	CentroidHz   float64           `json:"centroid_hz"`   // Magnitude-weighted mean frequency
	BandwidthHz  float64           `json:"bandwidth_hz"`  // Magnitude-weighted std dev around centroid
	Flatness     float64           `json:"flatness"`      // Geometric/arithmetic mean ratio (0, 1]
	Flux         float64           `json:"flux"`          // Positive spectral change vs previous frame
	BandEnergies [NumBands]float64 `json:"band_energies"` // Magnitude sums per fixed band
}

// Descriptors computes spectral shape descriptors frame by frame.
// Flux is stateful: it compares each spectrum against the previous frame's,
// so frames must be fed in time order. Reset clears that state.
type Descriptors struct {
	sampleRate int
	frameSize  int

	prev    []float64
	hasPrev bool
}

// NewDescriptors creates a descriptor computer for the given frame size
// and sample rate.
func NewDescriptors(frameSize, sampleRate int) *Descriptors {
	return &Descriptors{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		prev:       make([]float64, frameSize/2+1),
	}
}

// Reset clears the previous-frame state so the next frame reports zero flux
func (d *Descriptors) Reset() {
	d.hasPrev = false
}

// Compute calculates all descriptors for a magnitude spectrum
func (d *Descriptors) Compute(magnitude []float64) DescriptorResult {
	var res DescriptorResult

	freqRes := float64(d.sampleRate) / float64(d.frameSize)

	// Centroid: magnitude-weighted mean frequency
	magSum := 0.0
	weightedSum := 0.0
	for k, mag := range magnitude {
		magSum += mag
		weightedSum += float64(k) * freqRes * mag
	}
	if magSum > 0 {
		res.CentroidHz = weightedSum / magSum
	}

	// Bandwidth: magnitude-weighted standard deviation around the centroid
	if magSum > 0 {
		variance := 0.0
		for k, mag := range magnitude {
			diff := float64(k)*freqRes - res.CentroidHz
			variance += diff * diff * mag
		}
		res.BandwidthHz = math.Sqrt(variance / magSum)
	}

	// Flatness: geometric mean / arithmetic mean, bins floored at 1e-10
	logSum := 0.0
	linSum := 0.0
	for _, mag := range magnitude {
		floored := math.Max(mag, logFloor)
		logSum += math.Log(floored)
		linSum += floored
	}
	n := float64(len(magnitude))
	if n > 0 && linSum > 0 {
		res.Flatness = math.Exp(logSum/n) / (linSum / n)
	}

	// Flux: rectified difference against the previous spectrum
	if d.hasPrev && len(d.prev) == len(magnitude) {
		sum := 0.0
		for k, mag := range magnitude {
			diff := mag - d.prev[k]
			if diff > 0 {
				sum += diff * diff
			}
		}
		res.Flux = math.Sqrt(sum)
	}

	// Per-band magnitude sums
	for b, edges := range bandEdges {
		loBin := int(math.Ceil(edges[0] / freqRes))
		hiBin := int(math.Floor(edges[1] / freqRes))
		loBin = max(loBin, 0)
		hiBin = min(hiBin, len(magnitude)-1)

		sum := 0.0
		for k := loBin; k <= hiBin; k++ {
			sum += magnitude[k]
		}
		res.BandEnergies[b] = sum
	}

	if len(d.prev) != len(magnitude) {
		d.prev = make([]float64, len(magnitude))
	}
	copy(d.prev, magnitude)
	d.hasPrev = true

	return res
}
