package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sonigraph/sonigraph/logging"
)

const degenerateStd = 1e-10

// PCAParams contains parameters for the power-iteration reducer
type PCAParams struct {
	Components    int     `json:"components"`      // Number of principal axes (default: 3)
	Iterations    int     `json:"iterations"`      // Power iterations per component (default: 200)
	SampleLimit   int     `json:"sample_limit"`    // Max rows used to fit the basis (default: 2000)
	OutputHalfExt float64 `json:"output_half_ext"` // Axes rescaled into [-h, h] (default: 5)
}

// DefaultPCAParams returns the default reducer parameters
func DefaultPCAParams() PCAParams {
	return PCAParams{
		Components:    3,
		Iterations:    200,
		SampleLimit:   2000,
		OutputHalfExt: 5.0,
	}
}

// PCAResult holds the projected coordinates and the extracted eigenpairs
type PCAResult struct {
	Projected   [][]float64 `json:"projected"`   // N x Components coordinates
	Eigenvalues []float64   `json:"eigenvalues"` // Non-increasing
	Fallback    bool        `json:"fallback"`    // True when the raw-dimension fallback was used
}

// PCA reduces fixed-dimension feature vectors to a small number of axes via
// power-iteration eigenextraction with deflation. The basis (mean, std,
// eigenvectors) may be fit on a deterministic uniform stride subsample when
// the row count exceeds SampleLimit; the projection is still applied to all
// rows. That is a documented cost/exactness trade, not an error.
//
// Malformed input (ragged rows, empty matrix) never aborts: the reducer
// falls back to projecting the first Components raw dimensions.
type PCA struct {
	params PCAParams
	logger logging.Logger
}

// NewPCA creates a reducer with default parameters
func NewPCA() *PCA {
	return NewPCAWithParams(DefaultPCAParams())
}

// NewPCAWithParams creates a reducer with custom parameters
func NewPCAWithParams(params PCAParams) *PCA {
	if params.Components <= 0 {
		params.Components = 3
	}
	if params.Iterations <= 0 {
		params.Iterations = 200
	}
	if params.SampleLimit <= 0 {
		params.SampleLimit = 2000
	}
	if params.OutputHalfExt <= 0 {
		params.OutputHalfExt = 5.0
	}

	return &PCA{
		params: params,
		logger: logging.WithFields(logging.Fields{"component": "pca"}),
	}
}

// Reduce projects the N x D feature matrix onto the top principal axes and
// min-max rescales each output axis into [-OutputHalfExt, OutputHalfExt].
func (p *PCA) Reduce(features [][]float64) *PCAResult {
	n := len(features)
	if n == 0 {
		return &PCAResult{Fallback: true}
	}

	dim := len(features[0])
	for _, row := range features {
		if len(row) != dim {
			dim = -1
			break
		}
	}
	if dim <= 0 {
		p.logger.Warn("malformed feature matrix, using raw-dimension fallback", logging.Fields{
			"rows": n,
		})
		return p.fallbackProjection(features)
	}

	basis := features
	if n > p.params.SampleLimit {
		stride := (n + p.params.SampleLimit - 1) / p.params.SampleLimit
		basis = make([][]float64, 0, n/stride+1)
		for i := 0; i < n; i += stride {
			basis = append(basis, features[i])
		}
		p.logger.Debug("fitting basis on stride subsample", logging.Fields{
			"rows":   n,
			"stride": stride,
			"basis":  len(basis),
		})
	}

	mean, std := p.fitStandardization(basis, dim)
	cov := p.covariance(basis, mean, std, dim)

	k := min(p.params.Components, dim)
	eigenvalues := make([]float64, 0, k)
	eigenvectors := make([][]float64, 0, k)
	for _i := 0; _i < k; _i++ {
		value, vector := p.dominantEigenpair(cov, dim)
		eigenvalues = append(eigenvalues, value)
		eigenvectors = append(eigenvectors, vector)
		deflate(cov, value, vector)
	}

	// Project every row (standardized with the basis mean/std) onto the axes
	projected := make([][]float64, n)
	standardized := make([]float64, dim)
	for i, row := range features {
		for j := 0; j < dim; j++ {
			standardized[j] = (row[j] - mean[j]) / std[j]
		}
		coords := make([]float64, p.params.Components)
		for c, vec := range eigenvectors {
			coords[c] = floats.Dot(standardized, vec)
		}
		projected[i] = coords
	}

	p.rescaleAxes(projected)

	return &PCAResult{Projected: projected, Eigenvalues: eigenvalues}
}

// fitStandardization computes per-dimension mean and std over the basis
// rows. A dimension with std below 1e-10 gets std 1 so constant features
// don't explode into NaN.
func (p *PCA) fitStandardization(basis [][]float64, dim int) (mean, std []float64) {
	mean = make([]float64, dim)
	std = make([]float64, dim)

	column := make([]float64, len(basis))
	for j := 0; j < dim; j++ {
		for i, row := range basis {
			column[i] = row[j]
		}
		mean[j] = stat.Mean(column, nil)
		s := math.Sqrt(stat.PopVariance(column, nil))
		if s < degenerateStd {
			s = 1.0
		}
		std[j] = s
	}

	return mean, std
}

// covariance computes (1/N) * X^T X of the standardized basis rows. Only
// the upper triangle is accumulated, then mirrored.
func (p *PCA) covariance(basis [][]float64, mean, std []float64, dim int) [][]float64 {
	n := len(basis)

	standardized := make([][]float64, n)
	for i, row := range basis {
		z := make([]float64, dim)
		for j := 0; j < dim; j++ {
			z[j] = (row[j] - mean[j]) / std[j]
		}
		standardized[i] = z
	}

	cov := make([][]float64, dim)
	for a := 0; a < dim; a++ {
		cov[a] = make([]float64, dim)
	}

	for a := 0; a < dim; a++ {
		for b := a; b < dim; b++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += standardized[i][a] * standardized[i][b]
			}
			cov[a][b] = sum / float64(n)
			cov[b][a] = cov[a][b]
		}
	}

	return cov
}

// dominantEigenpair runs a fixed number of power iterations from a
// deterministic seed and returns the dominant eigenvalue and normalized
// eigenvector of the (symmetric) matrix.
func (p *PCA) dominantEigenpair(m [][]float64, dim int) (float64, []float64) {
	v := make([]float64, dim)
	for i := 0; i < dim; i++ {
		sign := 1.0
		if i%2 != 0 {
			sign = -1.0
		}
		v[i] = sign * (1.0 + float64(i%7)*0.1)
	}
	normalize(v)

	w := make([]float64, dim)
	eigenvalue := 0.0
	for _i := 0; _i < p.params.Iterations; _i++ {
		for a := 0; a < dim; a++ {
			w[a] = floats.Dot(m[a], v)
		}

		norm := floats.Norm(w, 2)
		if norm < 1e-12 {
			// Deflated to (numerically) zero: remaining eigenvalues are 0
			return 0.0, v
		}

		eigenvalue = norm
		for a := 0; a < dim; a++ {
			v[a] = w[a] / norm
		}
	}

	return eigenvalue, v
}

// normalize scales v to unit L2 norm in place. Zero vectors are left
// untouched so a fully deflated matrix cannot produce NaN.
func normalize(v []float64) {
	norm := floats.Norm(v, 2)
	if norm < 1e-12 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// deflate removes the extracted component: M -= lambda * v * v^T
func deflate(m [][]float64, eigenvalue float64, v []float64) {
	for a := range m {
		for b := range m[a] {
			m[a][b] -= eigenvalue * v[a] * v[b]
		}
	}
}

// rescaleAxes min-max normalizes each projected axis independently into
// [-OutputHalfExt, OutputHalfExt]. Zero-range axes are left untouched.
func (p *PCA) rescaleAxes(projected [][]float64) {
	if len(projected) == 0 {
		return
	}

	components := len(projected[0])
	column := make([]float64, len(projected))
	for c := 0; c < components; c++ {
		for i, row := range projected {
			column[i] = row[c]
		}

		lo := floats.Min(column)
		hi := floats.Max(column)
		if hi-lo < 1e-10 {
			continue
		}

		h := p.params.OutputHalfExt
		for i := range projected {
			projected[i][c] = -h + 2.0*h*(projected[i][c]-lo)/(hi-lo)
		}
	}
}

// fallbackProjection maps the first Components raw dimensions straight to
// output axes, rescaled into the visual range. Deterministic and never
// failing, it keeps malformed feature matrices from aborting a run.
func (p *PCA) fallbackProjection(features [][]float64) *PCAResult {
	projected := make([][]float64, len(features))
	for i, row := range features {
		coords := make([]float64, p.params.Components)
		for c := 0; c < p.params.Components; c++ {
			if c < len(row) {
				coords[c] = row[c]
			}
		}
		projected[i] = coords
	}

	p.rescaleAxes(projected)

	return &PCAResult{
		Projected:   projected,
		Eigenvalues: make([]float64, p.params.Components),
		Fallback:    true,
	}
}
