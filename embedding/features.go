package embedding

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sonigraph/sonigraph/algorithms/chroma"
	"github.com/sonigraph/sonigraph/algorithms/common"
	"github.com/sonigraph/sonigraph/algorithms/spectral"
	"github.com/sonigraph/sonigraph/algorithms/tonal"
	"github.com/sonigraph/sonigraph/logging"
)

// FeatureRecord holds the per-frame analysis outputs. Raw fields are filled
// during extraction; the smoothed and normalized fields are filled by the
// temporal post-processing pass.
type FeatureRecord struct {
	Time float64

	MFCC   []float64
	Chroma []float64

	F0           float64 // 0 when unvoiced
	F0Confidence float64
	Voiced       bool

	Loudness    float64 // RMS of the time-domain frame
	CentroidHz  float64
	BandwidthHz float64
	Flatness    float64
	Flux        float64

	BandEnergies [spectral.NumBands]float64

	// Filled by post-processing
	SmoothedF0          float64
	SmoothedCentroid    float64
	SmoothedLoudness    float64
	SmoothedBandwidth   float64
	SmoothedBands       [spectral.NumBands]float64
	BandOnsets          [spectral.NumBands]float64 // Globally normalized per band
	BeatStrength        float64
	ChromaConcentration float64
}

// extractor runs the per-frame feature stage: windowed FFT magnitude, MFCC,
// chroma, YIN pitch and spectral descriptors, in strictly increasing time
// order. One extractor per run; its cached tables are keyed to the frame
// size in the config.
type extractor struct {
	cfg        Config
	sampleRate int

	analyzer    *spectral.SpectrumAnalyzer
	mfcc        *spectral.MFCC
	descriptors *spectral.Descriptors
	chromaExt   *chroma.Extractor
	yin         *tonal.YIN

	logger logging.Logger
}

func newExtractor(cfg Config, sampleRate int) (*extractor, error) {
	analyzer, err := spectral.NewSpectrumAnalyzer(cfg.FrameSize, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("spectrum analyzer: %w", err)
	}

	mfcc := spectral.NewMFCCWithParams(sampleRate, spectral.MFCCParams{
		NumCoefficients: cfg.NumMFCC,
		NumMelFilters:   cfg.NumMelFilters,
	})
	if err := mfcc.Initialize(cfg.FrameSize); err != nil {
		return nil, fmt.Errorf("mfcc: %w", err)
	}

	chromaExt, err := chroma.NewExtractorWithRange(cfg.FrameSize, sampleRate, cfg.ChromaMinFreq, cfg.ChromaMaxFreq)
	if err != nil {
		return nil, fmt.Errorf("chroma: %w", err)
	}

	yin, err := tonal.NewYINWithParams(tonal.YINParams{
		SampleRate:    sampleRate,
		Threshold:     cfg.YinThreshold,
		MinFreq:       cfg.PitchMinFreq,
		MaxFreq:       cfg.PitchMaxFreq,
		MinConfidence: cfg.MinConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("yin: %w", err)
	}

	return &extractor{
		cfg:         cfg,
		sampleRate:  sampleRate,
		analyzer:    analyzer,
		mfcc:        mfcc,
		descriptors: spectral.NewDescriptors(cfg.FrameSize, sampleRate),
		chromaExt:   chromaExt,
		yin:         yin,
		logger:      logging.WithFields(logging.Fields{"component": "extractor"}),
	}, nil
}

// extract produces one FeatureRecord per frame. The frame count is exactly
// (len(samples)-frameSize)/hopSize; the last frame always lies fully inside
// the buffer. Cancellation is checked between frames.
func (e *extractor) extract(ctx context.Context, samples []float64) ([]FeatureRecord, error) {
	numFrames := (len(samples) - e.cfg.FrameSize) / e.cfg.HopSize
	if numFrames < 1 {
		return nil, newInputError("buffer of %d samples is shorter than one analysis frame (%d samples + %d hop)",
			len(samples), e.cfg.FrameSize, e.cfg.HopSize)
	}

	records := make([]FeatureRecord, numFrames)
	for i := 0; i < numFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis aborted at frame %d: %w", i, err)
		}
		if e.cfg.YieldEvery > 0 && i > 0 && i%e.cfg.YieldEvery == 0 {
			runtime.Gosched()
		}

		offset := i * e.cfg.HopSize
		frame := samples[offset : offset+e.cfg.FrameSize]

		magnitude, err := e.analyzer.MagnitudeAt(samples, offset)
		if err != nil {
			return nil, fmt.Errorf("frame %d spectrum: %w", i, err)
		}

		mfccCoeffs, err := e.mfcc.Compute(magnitude)
		if err != nil {
			return nil, fmt.Errorf("frame %d mfcc: %w", i, err)
		}

		chromaVector := e.chromaExt.Compute(magnitude)
		desc := e.descriptors.Compute(magnitude)
		pitch := e.yin.Detect(frame)

		rec := FeatureRecord{
			Time:         float64(offset) / float64(e.sampleRate),
			MFCC:         mfccCoeffs,
			Chroma:       chromaVector,
			Loudness:     common.RMS(frame),
			CentroidHz:   desc.CentroidHz,
			BandwidthHz:  desc.BandwidthHz,
			Flatness:     desc.Flatness,
			Flux:         desc.Flux,
			BandEnergies: desc.BandEnergies,

			ChromaConcentration: chroma.Concentration(chromaVector),
		}
		if pitch.Voiced {
			rec.F0 = pitch.F0
			rec.F0Confidence = pitch.Confidence
			rec.Voiced = true
		}

		records[i] = rec
	}

	e.logger.Debug("feature extraction complete", logging.Fields{
		"frames":      numFrames,
		"frame_size":  e.cfg.FrameSize,
		"hop_size":    e.cfg.HopSize,
		"sample_rate": e.sampleRate,
	})

	return records, nil
}
