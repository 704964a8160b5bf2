package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Deterministic pseudo-random jitter in [-0.5, 0.5)
func jitter(seed *uint64) float64 {
	*seed ^= *seed << 13
	*seed ^= *seed >> 7
	*seed ^= *seed << 17
	return float64(*seed%1000)/1000.0 - 0.5
}

// twoClusters builds rows around two well-separated centers in a 6-dim
// feature space.
func twoClusters(perCluster int) ([][]float64, []int) {
	centerA := []float64{5, 5, 5, 0, 0, 0}
	centerB := []float64{-5, -5, -5, 0, 0, 0}

	seed := uint64(1234)
	rows := make([][]float64, 0, perCluster*2)
	labels := make([]int, 0, perCluster*2)
	for i := 0; i < perCluster*2; i++ {
		center := centerA
		label := 0
		if i%2 == 1 {
			center = centerB
			label = 1
		}
		row := make([]float64, len(center))
		for j := range row {
			row[j] = center[j] + jitter(&seed)
		}
		rows = append(rows, row)
		labels = append(labels, label)
	}

	return rows, labels
}

func TestPCASeparatesClusters(t *testing.T) {
	rows, labels := twoClusters(50)

	res := NewPCA().Reduce(rows)
	require.False(t, res.Fallback)
	require.Len(t, res.Projected, 100)
	require.Len(t, res.Projected[0], 3)

	// Per-cluster mean and spread on the first principal axis
	var mean [2]float64
	var count [2]int
	for i, row := range res.Projected {
		mean[labels[i]] += row[0]
		count[labels[i]]++
	}
	mean[0] /= float64(count[0])
	mean[1] /= float64(count[1])

	var spread [2]float64
	for i, row := range res.Projected {
		d := row[0] - mean[labels[i]]
		spread[labels[i]] += d * d
	}
	spread[0] = math.Sqrt(spread[0] / float64(count[0]))
	spread[1] = math.Sqrt(spread[1] / float64(count[1]))

	separation := math.Abs(mean[0] - mean[1])
	assert.Greater(t, separation, spread[0], "axis 0 separates cluster 0")
	assert.Greater(t, separation, spread[1], "axis 0 separates cluster 1")
}

// The power-iteration seed and every iterate must be unit length; the
// zero vector must pass through untouched instead of becoming NaN.
func TestNormalizeUnitLength(t *testing.T) {
	v := []float64{3, 4}
	normalize(v)
	assert.InDelta(t, 0.6, v[0], 1e-12)
	assert.InDelta(t, 0.8, v[1], 1e-12)
	assert.InDelta(t, 1.0, math.Hypot(v[0], v[1]), 1e-12)

	zero := []float64{0, 0, 0}
	normalize(zero)
	assert.Equal(t, []float64{0, 0, 0}, zero)
}

func TestPCAEigenvaluesNonIncreasing(t *testing.T) {
	rows, _ := twoClusters(40)

	res := NewPCA().Reduce(rows)
	require.Len(t, res.Eigenvalues, 3)
	assert.GreaterOrEqual(t, res.Eigenvalues[0], res.Eigenvalues[1]-1e-9)
	assert.GreaterOrEqual(t, res.Eigenvalues[1], res.Eigenvalues[2]-1e-9)
	assert.GreaterOrEqual(t, res.Eigenvalues[2], 0.0)
}

func TestPCAOutputRange(t *testing.T) {
	rows, _ := twoClusters(30)

	res := NewPCA().Reduce(rows)
	for i, row := range res.Projected {
		for c, v := range row {
			assert.False(t, math.IsNaN(v), "row %d axis %d", i, c)
			assert.GreaterOrEqual(t, v, -5.0-1e-9)
			assert.LessOrEqual(t, v, 5.0+1e-9)
		}
	}
}

// Constant dimensions must not explode: the zero std is replaced by 1.
func TestPCAZeroVarianceDimension(t *testing.T) {
	rows := make([][]float64, 20)
	seed := uint64(99)
	for i := range rows {
		rows[i] = []float64{7.0, jitter(&seed), jitter(&seed), 7.0}
	}

	res := NewPCA().Reduce(rows)
	require.False(t, res.Fallback)
	for i, row := range res.Projected {
		for c, v := range row {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "row %d axis %d", i, c)
		}
	}
}

// Fully constant input is degenerate but must still produce output.
func TestPCAConstantInput(t *testing.T) {
	rows := make([][]float64, 10)
	for i := range rows {
		rows[i] = []float64{1, 2, 3, 4}
	}

	res := NewPCA().Reduce(rows)
	require.Len(t, res.Projected, 10)
	for _, row := range res.Projected {
		for _, v := range row {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestPCADeterministic(t *testing.T) {
	rows, _ := twoClusters(25)

	first := NewPCA().Reduce(rows)
	second := NewPCA().Reduce(rows)
	assert.Equal(t, first.Projected, second.Projected)
	assert.Equal(t, first.Eigenvalues, second.Eigenvalues)
}

func TestPCAStrideSubsampledBasis(t *testing.T) {
	p := NewPCAWithParams(PCAParams{SampleLimit: 50})

	rows, labels := twoClusters(100) // 200 rows > limit
	res := p.Reduce(rows)
	require.False(t, res.Fallback)
	require.Len(t, res.Projected, 200)

	// The approximate basis still separates the clusters
	var mean [2]float64
	var count [2]int
	for i, row := range res.Projected {
		mean[labels[i]] += row[0]
		count[labels[i]]++
	}
	mean[0] /= float64(count[0])
	mean[1] /= float64(count[1])
	assert.Greater(t, math.Abs(mean[0]-mean[1]), 1.0)
}

// Malformed matrices fall back to the raw-dimension projection instead of
// aborting.
func TestPCAMalformedFallback(t *testing.T) {
	ragged := [][]float64{
		{1, 2, 3, 4},
		{1, 2},
		{5, 6, 7, 8},
	}

	res := NewPCA().Reduce(ragged)
	assert.True(t, res.Fallback)
	require.Len(t, res.Projected, 3)
	require.Len(t, res.Projected[0], 3)

	empty := NewPCA().Reduce(nil)
	assert.True(t, empty.Fallback)
	assert.Empty(t, empty.Projected)
}
