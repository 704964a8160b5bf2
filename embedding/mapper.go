package embedding

import (
	"math"

	"github.com/sonigraph/sonigraph/algorithms/common"
	"github.com/sonigraph/sonigraph/algorithms/spectral"
)

// attributeMapper maps raw per-frame features to visual attributes. The
// normalization ranges (voiced log-f0 span, loudness, centroid, chroma
// concentration) are observed over the whole track first, then applied per
// frame. Zero-width ranges normalize to the midpoint 0.5.
//
// Hue convention: voiced frames (confidence above the gate) map normalized
// log2(f0) onto the hue wheel; unvoiced frames fall back to the normalized
// spectral centroid. The alternative frequency-binned hue of the simpler
// historical pipeline is not preserved.
type attributeMapper struct {
	cfg Config

	logF0Lo, logF0Hi       float64
	loudnessLo, loudnessHi float64
	centroidLo, centroidHi float64
	concLo, concHi         float64
}

func newAttributeMapper(records []FeatureRecord, cfg Config) *attributeMapper {
	m := &attributeMapper{cfg: cfg}

	m.logF0Lo = math.Inf(1)
	m.logF0Hi = math.Inf(-1)
	m.loudnessLo = math.Inf(1)
	m.loudnessHi = math.Inf(-1)
	m.centroidLo = math.Inf(1)
	m.centroidHi = math.Inf(-1)
	m.concLo = math.Inf(1)
	m.concHi = math.Inf(-1)

	for i := range records {
		rec := &records[i]
		if rec.Voiced && rec.F0Confidence > cfg.MinConfidence && rec.F0 > 0 {
			logF0 := math.Log2(rec.F0)
			m.logF0Lo = math.Min(m.logF0Lo, logF0)
			m.logF0Hi = math.Max(m.logF0Hi, logF0)
		}
		m.loudnessLo = math.Min(m.loudnessLo, rec.SmoothedLoudness)
		m.loudnessHi = math.Max(m.loudnessHi, rec.SmoothedLoudness)
		m.centroidLo = math.Min(m.centroidLo, rec.SmoothedCentroid)
		m.centroidHi = math.Max(m.centroidHi, rec.SmoothedCentroid)
		m.concLo = math.Min(m.concLo, rec.ChromaConcentration)
		m.concHi = math.Max(m.concHi, rec.ChromaConcentration)
	}

	// No voiced frame observed: collapse to a zero-width range so hue
	// normalization lands on the midpoint
	if m.logF0Lo > m.logF0Hi {
		m.logF0Lo, m.logF0Hi = 0, 0
	}

	return m
}

// point builds the immutable embedded point for one frame
func (m *attributeMapper) point(rec *FeatureRecord, position [3]float64) Point {
	normLoudness := common.NormalizeRange(rec.SmoothedLoudness, m.loudnessLo, m.loudnessHi)

	var hue float64
	if rec.Voiced && rec.F0Confidence > m.cfg.MinConfidence && rec.F0 > 0 {
		hue = common.NormalizeRange(math.Log2(rec.F0), m.logF0Lo, m.logF0Hi)
	} else {
		hue = common.NormalizeRange(rec.SmoothedCentroid, m.centroidLo, m.centroidHi)
	}

	saturation := 0.3 + 0.7*common.NormalizeRange(rec.ChromaConcentration, m.concLo, m.concHi)
	value := 0.2 + 0.8*normLoudness

	loudnessFactor := 0.3 + 0.7*normLoudness
	confidenceFactor := 0.3 + 0.7*common.Clamp01(rec.F0Confidence)
	size := m.cfg.BaseSize * loudnessFactor * confidenceFactor

	opacity := common.Clamp(0.25+0.75*(0.7*normLoudness+0.3*rec.F0Confidence), 0.2, 1.0)

	p := Point{
		Time:     rec.Time,
		Position: position,
		Color:    hsvToRGB(hue*300.0, saturation, value),
		Size:     size,
		Opacity:  opacity,

		Loudness:            rec.SmoothedLoudness,
		F0Confidence:        rec.F0Confidence,
		CentroidHz:          rec.SmoothedCentroid,
		ChromaConcentration: rec.ChromaConcentration,

		Band:         dominantBand(rec),
		BeatStrength: rec.BeatStrength,
		Complexity:   common.Clamp01(rec.Flatness),
	}
	p.BandOnset = rec.BandOnsets[p.Band]

	if rec.Voiced {
		f0 := rec.F0
		p.F0 = &f0
	}

	return p
}

// dominantBand returns the index of the strongest smoothed band energy
func dominantBand(rec *FeatureRecord) int {
	band := 0
	for b := 1; b < spectral.NumBands; b++ {
		if rec.SmoothedBands[b] > rec.SmoothedBands[band] {
			band = b
		}
	}
	return band
}

// hsvToRGB converts hue (degrees), saturation and value in [0, 1] to RGB
// components in [0, 1].
func hsvToRGB(h, s, v float64) [3]float64 {
	h = math.Mod(h, 360.0)
	if h < 0 {
		h += 360.0
	}

	c := v * s
	x := c * (1.0 - math.Abs(math.Mod(h/60.0, 2.0)-1.0))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return [3]float64{r + m, g + m, b + m}
}
