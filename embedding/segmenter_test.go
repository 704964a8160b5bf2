package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticRecords builds one record every dt seconds with the given
// loudness function.
func syntheticRecords(duration, dt float64, loudness func(t float64) float64) []FeatureRecord {
	n := int(duration / dt)
	records := make([]FeatureRecord, n)
	for i := range records {
		t := float64(i) * dt
		records[i] = FeatureRecord{
			Time:             t,
			SmoothedLoudness: loudness(t),
		}
	}
	return records
}

// A 5-second track with one second of full silence at [2, 3) splits into
// exactly two phrases: [0, 2) and [3, 5).
func TestSegmenterSilenceGapSplitsPhrases(t *testing.T) {
	records := syntheticRecords(5.0, 0.01, func(tm float64) float64 {
		if tm >= 2.0 && tm < 3.0 {
			return 0.0
		}
		return 1.0
	})

	segments := segmentPhrases(records, 5.0, DefaultConfig())
	require.Len(t, segments, 2)

	assert.Equal(t, "Phrase 1", segments[0].Label)
	assert.InDelta(t, 0.0, segments[0].Start, 0.02)
	assert.InDelta(t, 2.0, segments[0].End, 0.02)

	assert.Equal(t, "Phrase 2", segments[1].Label)
	assert.InDelta(t, 3.0, segments[1].Start, 0.02)
	assert.InDelta(t, 5.0, segments[1].End, 0.02)

	for _, seg := range segments {
		assert.GreaterOrEqual(t, seg.End-seg.Start, 0.3)
		assert.Less(t, seg.Start, seg.End)
	}
}

// A uniformly loud track yields exactly one phrase spanning the whole
// duration.
func TestSegmenterUniformTrackSinglePhrase(t *testing.T) {
	records := syntheticRecords(5.0, 0.01, func(float64) float64 { return 0.8 })

	segments := segmentPhrases(records, 5.0, DefaultConfig())
	require.Len(t, segments, 1)
	assert.InDelta(t, 0.0, segments[0].Start, 0.02)
	assert.InDelta(t, 5.0, segments[0].End, 1e-9)
	assert.Len(t, segments[0].PointIndices, len(records))
}

// Phrases shorter than the minimum duration are dropped as noise; when
// nothing survives, the fixed-interval fallback divides the track into up
// to four equal sections covering every frame.
func TestSegmenterFixedIntervalFallback(t *testing.T) {
	records := syntheticRecords(5.0, 0.01, func(tm float64) float64 {
		phase := tm - float64(int(tm/0.5))*0.5
		if phase < 0.1 {
			return 1.0
		}
		return 0.0
	})

	segments := segmentPhrases(records, 5.0, DefaultConfig())
	require.Len(t, segments, 4)

	covered := 0
	for i, seg := range segments {
		assert.Equal(t, i, seg.ID)
		assert.Contains(t, seg.Label, "Section")
		covered += len(seg.PointIndices)
	}
	assert.Equal(t, len(records), covered, "every frame lands in a section")

	assert.InDelta(t, 0.0, segments[0].Start, 1e-9)
	assert.InDelta(t, 5.0, segments[3].End, 1e-9)
}

// Frames inside a phrase are contiguous and ordered; segments do not
// overlap in time.
func TestSegmenterOrderingInvariants(t *testing.T) {
	records := syntheticRecords(6.0, 0.01, func(tm float64) float64 {
		if tm >= 1.5 && tm < 2.5 {
			return 0.0
		}
		if tm >= 4.0 && tm < 4.5 {
			return 0.0
		}
		return 0.9
	})

	segments := segmentPhrases(records, 6.0, DefaultConfig())
	require.NotEmpty(t, segments)

	prevEnd := -1.0
	for _, seg := range segments {
		assert.GreaterOrEqual(t, seg.Start, prevEnd, "segments ordered and disjoint")
		prevEnd = seg.End

		for i := 1; i < len(seg.PointIndices); i++ {
			assert.Equal(t, seg.PointIndices[i-1]+1, seg.PointIndices[i], "contiguous frames")
		}
	}
}

func TestSegmenterEmptyInput(t *testing.T) {
	assert.Nil(t, segmentPhrases(nil, 0, DefaultConfig()))
}
