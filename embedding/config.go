package embedding

import (
	"fmt"

	"github.com/sonigraph/sonigraph/algorithms/common"
)

// Config holds all analysis parameters. Zero values are replaced by
// defaults in New; DefaultConfig returns the fully populated set.
type Config struct {
	// Framing
	FrameSize int `json:"frame_size"` // Analysis window size in samples, power of two (default: 2048)
	HopSize   int `json:"hop_size"`   // Sample advance between frames (default: 512)

	// Feature extraction
	NumMFCC       int     `json:"num_mfcc"`        // MFCC coefficients per frame (default: 40)
	NumMelFilters int     `json:"num_mel_filters"` // Mel filter bank size (default: 40)
	ChromaMinFreq float64 `json:"chroma_min_freq"` // Chroma bin range low edge in Hz (default: 30)
	ChromaMaxFreq float64 `json:"chroma_max_freq"` // Chroma bin range high edge in Hz (default: 5000)
	PitchMinFreq  float64 `json:"pitch_min_freq"`  // YIN pitch floor in Hz (default: 50)
	PitchMaxFreq  float64 `json:"pitch_max_freq"`  // YIN pitch ceiling in Hz (default: 2000)
	YinThreshold  float64 `json:"yin_threshold"`   // YIN CMNDF threshold (default: 0.15)
	MinConfidence float64 `json:"min_confidence"`  // Voicing confidence gate (default: 0.3)

	// Temporal post-processing
	SmoothingAlpha float64 `json:"smoothing_alpha"` // EMA alpha (default: 0.5)

	// Segmentation
	SilenceRatio     float64 `json:"silence_ratio"`     // Silence threshold as a fraction of max loudness (default: 0.1)
	SilenceGapSec    float64 `json:"silence_gap_sec"`   // Silence run that closes a phrase, seconds (default: 0.2)
	MinPhraseSec     float64 `json:"min_phrase_sec"`    // Shorter phrases are dropped as noise (default: 0.3)
	FallbackSegments int     `json:"fallback_segments"` // Equal segments when no phrase survives (default: 4)

	// Dimensionality reduction
	PCAIterations  int     `json:"pca_iterations"`   // Power iterations per component (default: 200)
	PCASampleLimit int     `json:"pca_sample_limit"` // Max rows used to fit the basis (default: 2000)
	VisualHalfExt  float64 `json:"visual_half_ext"`  // Positions rescaled into [-h, h] (default: 5)

	// Visual attributes
	BaseSize float64 `json:"base_size"` // Point size multiplier (default: 1.0)

	// Graph construction
	GraphNeighbors int `json:"graph_neighbors"`  // k of the per-segment k-NN graph (default: 3)
	GraphMaxPoints int `json:"graph_max_points"` // Segments downsampled to this size before O(n^2) k-NN (default: 400)

	// Cooperative scheduling: call runtime.Gosched every N frames during
	// extraction. 0 disables yielding (headless deployments).
	YieldEvery int `json:"yield_every"`
}

// DefaultConfig returns the default analysis configuration
func DefaultConfig() Config {
	return Config{
		FrameSize:        2048,
		HopSize:          512,
		NumMFCC:          40,
		NumMelFilters:    40,
		ChromaMinFreq:    30.0,
		ChromaMaxFreq:    5000.0,
		PitchMinFreq:     50.0,
		PitchMaxFreq:     2000.0,
		YinThreshold:     0.15,
		MinConfidence:    0.3,
		SmoothingAlpha:   0.5,
		SilenceRatio:     0.1,
		SilenceGapSec:    0.2,
		MinPhraseSec:     0.3,
		FallbackSegments: 4,
		PCAIterations:    200,
		PCASampleLimit:   2000,
		VisualHalfExt:    5.0,
		BaseSize:         1.0,
		GraphNeighbors:   3,
		GraphMaxPoints:   400,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig
func (c Config) withDefaults() Config {
	def := DefaultConfig()

	if c.FrameSize <= 0 {
		c.FrameSize = def.FrameSize
	}
	if c.HopSize <= 0 {
		c.HopSize = def.HopSize
	}
	if c.NumMFCC <= 0 {
		c.NumMFCC = def.NumMFCC
	}
	if c.NumMelFilters <= 0 {
		c.NumMelFilters = def.NumMelFilters
	}
	if c.ChromaMinFreq <= 0 {
		c.ChromaMinFreq = def.ChromaMinFreq
	}
	if c.ChromaMaxFreq <= 0 {
		c.ChromaMaxFreq = def.ChromaMaxFreq
	}
	if c.PitchMinFreq <= 0 {
		c.PitchMinFreq = def.PitchMinFreq
	}
	if c.PitchMaxFreq <= 0 {
		c.PitchMaxFreq = def.PitchMaxFreq
	}
	if c.YinThreshold <= 0 {
		c.YinThreshold = def.YinThreshold
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = def.MinConfidence
	}
	if c.SmoothingAlpha <= 0 {
		c.SmoothingAlpha = def.SmoothingAlpha
	}
	if c.SilenceRatio <= 0 {
		c.SilenceRatio = def.SilenceRatio
	}
	if c.SilenceGapSec <= 0 {
		c.SilenceGapSec = def.SilenceGapSec
	}
	if c.MinPhraseSec <= 0 {
		c.MinPhraseSec = def.MinPhraseSec
	}
	if c.FallbackSegments <= 0 {
		c.FallbackSegments = def.FallbackSegments
	}
	if c.PCAIterations <= 0 {
		c.PCAIterations = def.PCAIterations
	}
	if c.PCASampleLimit <= 0 {
		c.PCASampleLimit = def.PCASampleLimit
	}
	if c.VisualHalfExt <= 0 {
		c.VisualHalfExt = def.VisualHalfExt
	}
	if c.BaseSize <= 0 {
		c.BaseSize = def.BaseSize
	}
	if c.GraphNeighbors <= 0 {
		c.GraphNeighbors = def.GraphNeighbors
	}
	if c.GraphMaxPoints <= 0 {
		c.GraphMaxPoints = def.GraphMaxPoints
	}

	return c
}

// Validate checks parameter consistency
func (c Config) Validate() error {
	if !common.IsPowerOfTwo(c.FrameSize) {
		return fmt.Errorf("frame size must be a power of two, got %d", c.FrameSize)
	}
	if c.HopSize <= 0 {
		return fmt.Errorf("hop size must be positive, got %d", c.HopSize)
	}
	if c.HopSize > c.FrameSize {
		return fmt.Errorf("hop size %d exceeds frame size %d", c.HopSize, c.FrameSize)
	}
	if c.ChromaMaxFreq <= c.ChromaMinFreq {
		return fmt.Errorf("chroma frequency range [%.1f, %.1f] is empty", c.ChromaMinFreq, c.ChromaMaxFreq)
	}
	if c.PitchMaxFreq <= c.PitchMinFreq {
		return fmt.Errorf("pitch frequency range [%.1f, %.1f] is empty", c.PitchMinFreq, c.PitchMaxFreq)
	}
	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing alpha must be in (0, 1], got %g", c.SmoothingAlpha)
	}
	return nil
}
