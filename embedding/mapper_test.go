package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapperAttributesInBounds(t *testing.T) {
	records := []FeatureRecord{
		{Time: 0.0, Voiced: true, F0: 220, F0Confidence: 0.8, SmoothedLoudness: 0.1, SmoothedCentroid: 800, ChromaConcentration: 0.3},
		{Time: 0.1, Voiced: true, F0: 440, F0Confidence: 0.9, SmoothedLoudness: 0.5, SmoothedCentroid: 1500, ChromaConcentration: 0.6},
		{Time: 0.2, SmoothedLoudness: 0.9, SmoothedCentroid: 4000, ChromaConcentration: 0.9},
	}

	cfg := DefaultConfig()
	m := newAttributeMapper(records, cfg)

	for i := range records {
		p := m.point(&records[i], [3]float64{0, 0, 0})

		for c, v := range p.Color {
			assert.GreaterOrEqual(t, v, 0.0, "record %d color %d", i, c)
			assert.LessOrEqual(t, v, 1.0, "record %d color %d", i, c)
		}
		assert.GreaterOrEqual(t, p.Opacity, 0.2)
		assert.LessOrEqual(t, p.Opacity, 1.0)
		assert.Greater(t, p.Size, 0.0)
		assert.LessOrEqual(t, p.Size, cfg.BaseSize)
	}
}

func TestMapperVoicedCarriesF0(t *testing.T) {
	records := []FeatureRecord{
		{Voiced: true, F0: 330, F0Confidence: 0.7, SmoothedLoudness: 0.5},
		{SmoothedLoudness: 0.2},
	}

	m := newAttributeMapper(records, DefaultConfig())

	voiced := m.point(&records[0], [3]float64{})
	require.NotNil(t, voiced.F0)
	assert.Equal(t, 330.0, *voiced.F0)

	unvoiced := m.point(&records[1], [3]float64{})
	assert.Nil(t, unvoiced.F0)
	assert.Equal(t, 0.0, unvoiced.F0Confidence)
}

// With zero-width observed ranges every normalization lands on the
// midpoint 0.5 instead of dividing by zero.
func TestMapperDegenerateRangesUseMidpoint(t *testing.T) {
	records := []FeatureRecord{
		{SmoothedLoudness: 0.4, SmoothedCentroid: 1000, ChromaConcentration: 0.5},
		{SmoothedLoudness: 0.4, SmoothedCentroid: 1000, ChromaConcentration: 0.5},
	}

	m := newAttributeMapper(records, DefaultConfig())
	p := m.point(&records[0], [3]float64{})

	// saturation = 0.3 + 0.7*0.5, value = 0.2 + 0.8*0.5
	for _, v := range p.Color {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	// size factors: loudness 0.3+0.7*0.5, confidence floor 0.3
	assert.InDelta(t, 1.0*(0.3+0.35)*0.3, p.Size, 1e-9)
	assert.GreaterOrEqual(t, p.Opacity, 0.2)
}

func TestDominantBand(t *testing.T) {
	rec := FeatureRecord{SmoothedBands: [3]float64{0.1, 0.9, 0.3}}
	assert.Equal(t, 1, dominantBand(&rec))

	rec = FeatureRecord{SmoothedBands: [3]float64{0.5, 0.1, 0.2}}
	assert.Equal(t, 0, dominantBand(&rec))
}

func TestHSVToRGB(t *testing.T) {
	// Pure red
	assert.InDelta(t, 1.0, hsvToRGB(0, 1, 1)[0], 1e-9)
	assert.InDelta(t, 0.0, hsvToRGB(0, 1, 1)[1], 1e-9)

	// Pure green
	assert.InDelta(t, 1.0, hsvToRGB(120, 1, 1)[1], 1e-9)

	// Zero saturation is grayscale at the value level
	gray := hsvToRGB(200, 0, 0.5)
	assert.InDelta(t, 0.5, gray[0], 1e-9)
	assert.InDelta(t, 0.5, gray[1], 1e-9)
	assert.InDelta(t, 0.5, gray[2], 1e-9)

	// Components always in [0, 1] across the wheel
	for h := 0.0; h < 720.0; h += 30.0 {
		rgb := hsvToRGB(h, 0.8, 0.9)
		for _, v := range rgb {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}
