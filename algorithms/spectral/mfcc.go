package spectral

import (
	"fmt"
	"math"
)

const logFloor = 1e-10

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // Number of MFCC coefficients (default: 40)
	NumMelFilters   int     `json:"num_mel_filters"`  // Number of mel filter bank filters (default: 40)
	LowFreq         float64 `json:"low_freq"`         // Low frequency bound (default: 0)
	HighFreq        float64 `json:"high_freq"`        // High frequency bound (default: sampleRate/2)
}

// MFCC computes Mel-Frequency Cepstral Coefficients from magnitude spectra.
// The mel filter bank and DCT cosine table are built once per run via
// Initialize and are read-only afterwards.
type MFCC struct {
	params     MFCCParams
	sampleRate int

	filterBank  *MelFilterBank
	dctTable    [][]float64
	power       []float64
	logEnergies []float64
	initialized bool
}

// NewMFCC creates an MFCC computer with default parameters
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	return NewMFCCWithParams(sampleRate, MFCCParams{NumCoefficients: numCoefficients})
}

// NewMFCCWithParams creates an MFCC computer with custom parameters
func NewMFCCWithParams(sampleRate int, params MFCCParams) *MFCC {
	if params.NumCoefficients <= 0 {
		params.NumCoefficients = 40
	}
	if params.NumMelFilters <= 0 {
		params.NumMelFilters = 40
	}
	if params.HighFreq <= 0 {
		params.HighFreq = float64(sampleRate) / 2.0
	}

	return &MFCC{
		params:     params,
		sampleRate: sampleRate,
	}
}

// NumCoefficients returns the configured coefficient count
func (m *MFCC) NumCoefficients() int {
	return m.params.NumCoefficients
}

// Initialize builds the filter bank and DCT table for the given FFT size.
// Calling it again with a different size rebuilds both tables.
func (m *MFCC) Initialize(fftSize int) error {
	fb, err := NewMelFilterBank(m.params.NumMelFilters, fftSize, m.sampleRate, m.params.LowFreq, m.params.HighFreq)
	if err != nil {
		return fmt.Errorf("failed to create mel filter bank: %w", err)
	}
	m.filterBank = fb

	// Orthonormal DCT-II table, coefficients x filters
	m.dctTable = make([][]float64, m.params.NumCoefficients)
	n := m.params.NumMelFilters
	for k := 0; k < m.params.NumCoefficients; k++ {
		m.dctTable[k] = make([]float64, n)
		scale := math.Sqrt(2.0 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1.0 / float64(n))
		}
		for j := 0; j < n; j++ {
			m.dctTable[k][j] = scale * math.Cos(math.Pi*float64(k)*(float64(j)+0.5)/float64(n))
		}
	}

	m.power = make([]float64, fftSize/2+1)
	m.logEnergies = make([]float64, n)
	m.initialized = true

	return nil
}

// Compute calculates MFCC coefficients from a magnitude spectrum.
// Auto-initializes from the spectrum size on first use.
func (m *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	if len(magnitudeSpectrum) == 0 {
		return nil, fmt.Errorf("empty magnitude spectrum")
	}

	if !m.initialized || len(m.power) != len(magnitudeSpectrum) {
		fftSize := (len(magnitudeSpectrum) - 1) * 2
		if err := m.Initialize(fftSize); err != nil {
			return nil, fmt.Errorf("failed to initialize MFCC: %w", err)
		}
	}

	for i, mag := range magnitudeSpectrum {
		m.power[i] = mag * mag
	}

	energies := m.filterBank.Apply(m.power)
	for i, e := range energies {
		m.logEnergies[i] = math.Log(math.Max(e, logFloor))
	}

	coeffs := make([]float64, m.params.NumCoefficients)
	for k, row := range m.dctTable {
		sum := 0.0
		for j := 0; j < len(m.logEnergies) && j < len(row); j++ {
			sum += m.logEnergies[j] * row[j]
		}
		coeffs[k] = sum
	}

	return coeffs, nil
}
