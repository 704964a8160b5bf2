// Package transcode is the upstream decode boundary of the pipeline: it
// turns container input into the mono float buffer the embedding package
// consumes. Decode failures surface as *DecodeError, distinct from the
// pipeline's input validation errors.
package transcode

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mjibson/go-dsp/wav"

	"github.com/sonigraph/sonigraph/logging"
)

// AudioData represents decoded audio ready for analysis
type AudioData struct {
	PCM        []float64     `json:"-"` // Mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channel count of the source, before down-mixing
	Duration   time.Duration `json:"duration"`
}

// DecodeError reports a failure in the upstream decode step, wrapping the
// underlying cause.
type DecodeError struct {
	Source string
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// DecodeWAV decodes a WAV stream into mono float64 PCM. Multi-channel
// sources are down-mixed by equal-weight channel averaging.
func DecodeWAV(r io.Reader) (*AudioData, error) {
	return decodeWAV(r, "wav stream")
}

// DecodeWAVFile decodes a WAV file from disk
func DecodeWAVFile(path string) (*AudioData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Cause: err}
	}
	defer f.Close()

	return decodeWAV(f, path)
}

func decodeWAV(r io.Reader, source string) (*AudioData, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, &DecodeError{Source: source, Cause: err}
	}

	channels := int(w.NumChannels)
	if channels <= 0 {
		return nil, &DecodeError{Source: source, Cause: fmt.Errorf("no channels in header")}
	}

	raw, err := w.ReadFloats(w.Samples)
	if err != nil {
		return nil, &DecodeError{Source: source, Cause: fmt.Errorf("reading samples: %w", err)}
	}

	interleaved := make([]float64, len(raw))
	for i, v := range raw {
		interleaved[i] = float64(v)
	}

	pcm := Downmix(interleaved, channels)
	sampleRate := int(w.SampleRate)

	logging.Debug("decoded wav", logging.Fields{
		"source":      source,
		"sample_rate": sampleRate,
		"channels":    channels,
		"samples":     len(pcm),
	})

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second)),
	}, nil
}

// Downmix averages interleaved multi-channel samples into a mono buffer
// with equal channel weights. Mono input is returned unchanged.
func Downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}

	return mono
}
