// Package embedding converts a decoded mono waveform into a time-ordered
// sequence of low-dimensional embedded points plus a phrase segmentation
// and per-segment proximity graph, ready for spatial visualization.
//
// The pipeline is a single-threaded batch over a fully materialized sample
// buffer: windowed FFT per frame, MFCC/chroma/pitch/spectral descriptors,
// sequential temporal smoothing, silence-based segmentation, PCA reduction
// to three axes, visual attribute mapping, and k-NN edge construction.
// Any nonempty valid buffer yields some visualization; only malformed
// input aborts a run.
package embedding

import (
	"context"
	"time"

	"github.com/sonigraph/sonigraph/algorithms/stats"
	"github.com/sonigraph/sonigraph/logging"
)

// Pipeline runs the full analysis. Instances hold per-run lookup tables
// keyed to the configured frame size and are not safe for concurrent use;
// create one Pipeline per running analysis.
type Pipeline struct {
	cfg    Config
	logger logging.Logger
}

// New creates a pipeline with the given configuration. Zero-valued fields
// are filled with defaults before validation.
func New(cfg Config) (*Pipeline, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:    cfg,
		logger: logging.WithFields(logging.Fields{"component": "pipeline"}),
	}, nil
}

// Config returns the effective configuration
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Analyze runs the whole pipeline over a mono sample buffer with the given
// sample rate in Hz. Multi-channel sources must be down-mixed first (see
// transcode.Downmix). The context is checked between frames; a cancelled
// context aborts the run with the wrapped context error.
func (p *Pipeline) Analyze(ctx context.Context, samples []float64, sampleRate int) (*Result, error) {
	started := time.Now()

	if len(samples) == 0 {
		return nil, newInputError("empty sample buffer")
	}
	if sampleRate <= 0 {
		return nil, newInputError("sample rate must be positive, got %d", sampleRate)
	}
	if len(samples) < p.cfg.FrameSize {
		return nil, newInputError("buffer of %d samples is shorter than one analysis frame (%d samples)",
			len(samples), p.cfg.FrameSize)
	}

	duration := float64(len(samples)) / float64(sampleRate)

	ext, err := newExtractor(p.cfg, sampleRate)
	if err != nil {
		return nil, err
	}
	records, err := ext.extract(ctx, samples)
	if err != nil {
		return nil, err
	}

	postProcess(records, p.cfg)

	segments := segmentPhrases(records, duration, p.cfg)

	reducer := stats.NewPCAWithParams(stats.PCAParams{
		Components:    3,
		Iterations:    p.cfg.PCAIterations,
		SampleLimit:   p.cfg.PCASampleLimit,
		OutputHalfExt: p.cfg.VisualHalfExt,
	})
	reduced := reducer.Reduce(featureMatrix(records, p.cfg))
	if reduced.Fallback {
		p.logger.Warn("reducer fell back to raw-dimension projection")
	}

	mapper := newAttributeMapper(records, p.cfg)
	points := make([]Point, len(records))
	for i := range records {
		var position [3]float64
		copy(position[:], reduced.Projected[i])
		points[i] = mapper.point(&records[i], position)
	}

	for i := range segments {
		segments[i].Edges = buildSegmentEdges(points, segments[i].PointIndices,
			p.cfg.GraphNeighbors, p.cfg.GraphMaxPoints)
	}

	p.logger.Info("analysis complete", logging.Fields{
		"duration_sec": duration,
		"frames":       len(points),
		"segments":     len(segments),
		"elapsed_ms":   time.Since(started).Milliseconds(),
	})

	return &Result{
		DurationSeconds: duration,
		SampleRateHz:    sampleRate,
		Points:          points,
		Segments:        segments,
		Eigenvalues:     reduced.Eigenvalues,
	}, nil
}
