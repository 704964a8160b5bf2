package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointsAt builds points at the given 3D positions
func pointsAt(positions [][3]float64) []Point {
	points := make([]Point, len(positions))
	for i, pos := range positions {
		points[i] = Point{Position: pos}
	}
	return points
}

func sequentialIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// Ten points in general position with k=3: union semantics give every
// point degree >= 3, with no self-loops or duplicates.
func TestGraphUnionKNNDegrees(t *testing.T) {
	positions := [][3]float64{
		{0.1, 0.2, 0.3}, {1.7, -0.4, 2.1}, {-2.3, 1.1, 0.9},
		{3.2, 2.8, -1.5}, {-0.7, -3.1, 1.2}, {2.5, 0.6, -2.7},
		{-1.9, 2.4, 3.3}, {0.8, -1.6, -0.2}, {4.1, -2.2, 1.8},
		{-3.5, 0.3, -1.1},
	}
	points := pointsAt(positions)

	edges := buildSegmentEdges(points, sequentialIndices(10), 3, 400)
	require.NotEmpty(t, edges)

	degree := make(map[int]int)
	seen := make(map[[2]int]bool)
	for _, e := range edges {
		assert.Less(t, e[0], e[1], "canonical i<j form")
		assert.False(t, seen[e], "duplicate edge %v", e)
		seen[e] = true

		assert.GreaterOrEqual(t, e[0], 0)
		assert.Less(t, e[1], 10)

		degree[e[0]]++
		degree[e[1]]++
	}

	for i := 0; i < 10; i++ {
		assert.GreaterOrEqual(t, degree[i], 3, "point %d degree", i)
	}
}

func TestGraphDegenerateInputs(t *testing.T) {
	points := pointsAt([][3]float64{{0, 0, 0}, {1, 1, 1}})

	assert.Nil(t, buildSegmentEdges(points, nil, 3, 400))
	assert.Nil(t, buildSegmentEdges(points, []int{0}, 3, 400))
	assert.Nil(t, buildSegmentEdges(points, []int{0, 1}, 0, 400))

	// Two points: exactly one edge
	edges := buildSegmentEdges(points, []int{0, 1}, 3, 400)
	require.Len(t, edges, 1)
	assert.Equal(t, [2]int{0, 1}, edges[0])
}

// Large segments are downsampled before the O(n^2) pass; edges still
// address local indices of the full segment.
func TestGraphDownsamplesLargeSegments(t *testing.T) {
	const n = 1000
	positions := make([][3]float64, n)
	seed := uint64(5)
	next := func() float64 {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return float64(seed%1000)/100.0 - 5.0
	}
	for i := range positions {
		positions[i] = [3]float64{next(), next(), next()}
	}
	points := pointsAt(positions)

	edges := buildSegmentEdges(points, sequentialIndices(n), 3, 400)
	require.NotEmpty(t, edges)

	touched := make(map[int]bool)
	for _, e := range edges {
		assert.Less(t, e[0], e[1])
		assert.Less(t, e[1], n)
		touched[e[0]] = true
		touched[e[1]] = true
	}
	assert.LessOrEqual(t, len(touched), 500, "only sampled points participate")
}

func TestGraphDeterministicEdgeOrder(t *testing.T) {
	positions := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}, {2, 2, 2},
	}
	points := pointsAt(positions)

	first := buildSegmentEdges(points, sequentialIndices(6), 3, 400)
	second := buildSegmentEdges(points, sequentialIndices(6), 3, 400)
	assert.Equal(t, first, second)
}
