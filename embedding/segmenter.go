package embedding

import (
	"fmt"

	"github.com/sonigraph/sonigraph/logging"
)

// segmentPhrases groups frames into silence-delimited phrases.
//
// The silence threshold is SilenceRatio (10%) of the track's maximum frame
// loudness. Scanning frames in time order, a silence run longer than
// SilenceGapSec closes the current phrase; phrases shorter than
// MinPhraseSec are dropped as noise. The trailing non-silent run extends to
// the track end. If no phrase survives (a uniformly quiet track), the whole
// duration is divided into up to FallbackSegments equal sections instead.
func segmentPhrases(records []FeatureRecord, duration float64, cfg Config) []Segment {
	logger := logging.WithFields(logging.Fields{"component": "segmenter"})

	if len(records) == 0 {
		return nil
	}

	maxLoudness := 0.0
	for i := range records {
		if records[i].SmoothedLoudness > maxLoudness {
			maxLoudness = records[i].SmoothedLoudness
		}
	}
	threshold := maxLoudness * cfg.SilenceRatio

	type phrase struct {
		start      float64
		end        float64
		startFrame int
		endFrame   int // exclusive
	}
	var phrases []phrase

	inPhrase := false
	var current phrase
	silenceStart := -1.0
	silenceStartFrame := -1

	closePhrase := func(end float64, endFrame int) {
		current.end = end
		current.endFrame = endFrame
		if current.end-current.start >= cfg.MinPhraseSec {
			phrases = append(phrases, current)
		}
		inPhrase = false
	}

	for i := range records {
		rec := &records[i]
		silent := rec.SmoothedLoudness < threshold

		switch {
		case !silent && !inPhrase:
			current = phrase{start: rec.Time, startFrame: i}
			inPhrase = true
			silenceStart = -1

		case !silent && inPhrase:
			silenceStart = -1

		case silent && inPhrase:
			if silenceStart < 0 {
				silenceStart = rec.Time
				silenceStartFrame = i
			}
			if rec.Time-silenceStart > cfg.SilenceGapSec {
				closePhrase(silenceStart, silenceStartFrame)
				silenceStart = -1
			}
		}
	}

	// The trailing non-silent run extends to the track end
	if inPhrase {
		closePhrase(duration, len(records))
	}

	var segments []Segment
	if len(phrases) > 0 {
		segments = make([]Segment, len(phrases))
		for i, ph := range phrases {
			indices := make([]int, 0, ph.endFrame-ph.startFrame)
			for f := ph.startFrame; f < ph.endFrame; f++ {
				indices = append(indices, f)
			}
			segments[i] = Segment{
				ID:           i,
				Label:        fmt.Sprintf("Phrase %d", i+1),
				Start:        ph.start,
				End:          ph.end,
				PointIndices: indices,
			}
		}
		return segments
	}

	logger.Debug("no phrase survived, using fixed-interval fallback", logging.Fields{
		"frames":    len(records),
		"threshold": threshold,
	})

	// Fixed-interval fallback: up to FallbackSegments equal sections
	n := min(cfg.FallbackSegments, len(records))
	sectionLen := duration / float64(n)
	segments = make([]Segment, n)
	for i := 0; i < n; i++ {
		start := float64(i) * sectionLen
		end := start + sectionLen
		if i == n-1 {
			end = duration
		}
		segments[i] = Segment{
			ID:    i,
			Label: fmt.Sprintf("Section %d", i+1),
			Start: start,
			End:   end,
		}
	}

	// Bucket frames into sections by time range
	for f := range records {
		idx := int(records[f].Time / sectionLen)
		if idx >= n {
			idx = n - 1
		}
		segments[idx].PointIndices = append(segments[idx].PointIndices, f)
	}

	return segments
}
