package embedding

import (
	"github.com/sonigraph/sonigraph/algorithms/spectral"
	"github.com/sonigraph/sonigraph/algorithms/temporal"
)

// postProcess runs the strictly sequential temporal pass over the records:
// EMA smoothing of pitch, centroid, loudness, bandwidth and band energies,
// per-band onset computation with track-global normalization, and adaptive
// beat detection on the flux series. Frame order is assumed non-decreasing
// in time; the EMA recurrence depends on it.
func postProcess(records []FeatureRecord, cfg Config) {
	if len(records) == 0 {
		return
	}

	alpha := cfg.SmoothingAlpha

	pitchSmoother := temporal.NewEMASmoother(alpha)
	centroidSmoother := temporal.NewEMASmoother(alpha)
	loudnessSmoother := temporal.NewEMASmoother(alpha)
	bandwidthSmoother := temporal.NewEMASmoother(alpha)
	var bandSmoothers [spectral.NumBands]*temporal.EMASmoother
	for b := range bandSmoothers {
		bandSmoothers[b] = temporal.NewEMASmoother(alpha)
	}

	for i := range records {
		rec := &records[i]
		rec.SmoothedF0 = pitchSmoother.Next(rec.F0)
		rec.SmoothedCentroid = centroidSmoother.Next(rec.CentroidHz)
		rec.SmoothedLoudness = loudnessSmoother.Next(rec.Loudness)
		rec.SmoothedBandwidth = bandwidthSmoother.Next(rec.BandwidthHz)
		for b := range bandSmoothers {
			rec.SmoothedBands[b] = bandSmoothers[b].Next(rec.BandEnergies[b])
		}
	}

	normalizeBandOnsets(records)
	applyBeatStrengths(records, cfg)
}

// normalizeBandOnsets computes per-band onsets as the rectified difference
// of consecutive smoothed band energies, then normalizes each band by its
// maximum onset across the whole track.
func normalizeBandOnsets(records []FeatureRecord) {
	var maxOnset [spectral.NumBands]float64

	for i := range records {
		rec := &records[i]
		for b := range rec.BandOnsets {
			onset := 0.0
			if i > 0 {
				onset = rec.SmoothedBands[b] - records[i-1].SmoothedBands[b]
				if onset < 0 {
					onset = 0
				}
			}
			rec.BandOnsets[b] = onset
			if onset > maxOnset[b] {
				maxOnset[b] = onset
			}
		}
	}

	for b := range maxOnset {
		divisor := maxOnset[b]
		if divisor < 1e-10 {
			continue
		}
		for i := range records {
			records[i].BandOnsets[b] /= divisor
		}
	}
}

// applyBeatStrengths runs adaptive beat detection over the flux series and
// stores one strength per frame.
func applyBeatStrengths(records []FeatureRecord, cfg Config) {
	flux := make([]float64, len(records))
	for i := range records {
		flux[i] = records[i].Flux
	}

	strengths := temporal.DetectBeats(flux, temporal.DefaultBeatParams())
	for i := range records {
		records[i].BeatStrength = strengths[i]
	}
}

// featureMatrix flattens each record into the fixed-dimension vector fed to
// the PCA reducer: MFCC ++ chroma ++ scaled pitch ++ centroid ++ loudness
// ++ bandwidth ++ chroma concentration.
func featureMatrix(records []FeatureRecord, cfg Config) [][]float64 {
	matrix := make([][]float64, len(records))

	dim := cfg.NumMFCC + 12 + 5
	for i := range records {
		rec := &records[i]
		vec := make([]float64, 0, dim)
		vec = append(vec, rec.MFCC...)
		vec = append(vec, rec.Chroma...)
		vec = append(vec,
			rec.SmoothedF0/cfg.PitchMaxFreq,
			rec.SmoothedCentroid,
			rec.SmoothedLoudness,
			rec.SmoothedBandwidth,
			rec.ChromaConcentration,
		)
		matrix[i] = vec
	}

	return matrix
}
