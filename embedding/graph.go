package embedding

import (
	"math"
	"sort"
)

// buildSegmentEdges constructs the union k-nearest-neighbor graph of one
// segment in the 3D embedded space. Edge (i, j) exists if i is among j's k
// nearest OR j is among i's k nearest; edges are stored canonically as
// (min, max) local indices into the segment's point list and deduplicated.
//
// The distance pass is O(n^2), so segments larger than maxPoints are first
// downsampled by a uniform stride; edges then connect only sampled points,
// still addressed by their local index in the full segment.
func buildSegmentEdges(points []Point, indices []int, k, maxPoints int) [][2]int {
	n := len(indices)
	if n < 2 || k < 1 {
		return nil
	}

	// Uniform stride downsample of the segment's local indices
	local := make([]int, 0, min(n, maxPoints))
	if n > maxPoints {
		stride := (n + maxPoints - 1) / maxPoints
		for i := 0; i < n; i += stride {
			local = append(local, i)
		}
	} else {
		for i := 0; i < n; i++ {
			local = append(local, i)
		}
	}

	m := len(local)
	if m < 2 {
		return nil
	}

	type neighbor struct {
		idx  int // position within local
		dist float64
	}

	seen := make(map[[2]int]struct{})
	var edges [][2]int
	neighbors := make([]neighbor, 0, m-1)

	for a := 0; a < m; a++ {
		pa := points[indices[local[a]]].Position

		neighbors = neighbors[:0]
		for b := 0; b < m; b++ {
			if b == a {
				continue
			}
			pb := points[indices[local[b]]].Position
			dx := pa[0] - pb[0]
			dy := pa[1] - pb[1]
			dz := pa[2] - pb[2]
			neighbors = append(neighbors, neighbor{idx: b, dist: math.Sqrt(dx*dx + dy*dy + dz*dz)})
		}

		sort.Slice(neighbors, func(i, j int) bool {
			if neighbors[i].dist != neighbors[j].dist {
				return neighbors[i].dist < neighbors[j].dist
			}
			return neighbors[i].idx < neighbors[j].idx
		})

		limit := min(k, len(neighbors))
		for _, nb := range neighbors[:limit] {
			i, j := local[a], local[nb.idx]
			if i > j {
				i, j = j, i
			}
			key := [2]int{i, j}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key)
		}
	}

	// Deterministic edge order
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	return edges
}
