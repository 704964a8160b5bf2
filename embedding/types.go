package embedding

// Point is one analysis frame embedded into the 3D visualization space,
// with its visual attributes and carried-through perceptual fields.
// Points are created once per frame and are immutable afterwards.
type Point struct {
	Time     float64    `json:"time"`
	Position [3]float64 `json:"position"`
	Color    [3]float64 `json:"color"` // RGB in [0, 1]
	Size     float64    `json:"size"`
	Opacity  float64    `json:"opacity"`

	Loudness            float64  `json:"loudness"`
	F0                  *float64 `json:"f0"` // nil for unvoiced frames
	F0Confidence        float64  `json:"f0Confidence"`
	CentroidHz          float64  `json:"centroidHz"`
	ChromaConcentration float64  `json:"chromaConcentration"`

	Band         int     `json:"band"`         // Dominant band: 0 low, 1 mid, 2 high
	BandOnset    float64 `json:"bandOnset"`    // Normalized onset of the dominant band
	BeatStrength float64 `json:"beatStrength"` // 0 when the frame is not a beat
	Complexity   float64 `json:"complexity"`   // Spectral flatness, noisiness proxy in [0, 1]
}

// Segment is a silence-delimited phrase: a contiguous [Start, End) time
// interval and the indices (into Result.Points) of the points inside it.
// Edges are local pairs into PointIndices, canonical i<j, deduplicated.
type Segment struct {
	ID           int      `json:"id"`
	Label        string   `json:"label"`
	Start        float64  `json:"start"`
	End          float64  `json:"end"`
	PointIndices []int    `json:"pointIndices"`
	Edges        [][2]int `json:"edges"`
}

// Result is the full pipeline output. The two wire forms of the output
// contract are materialized by EmbeddedPoints and SegmentedGraph.
type Result struct {
	DurationSeconds float64   `json:"durationSeconds"`
	SampleRateHz    int       `json:"sampleRateHz"`
	Points          []Point   `json:"points"`
	Segments        []Segment `json:"segments"`
	Eigenvalues     []float64 `json:"eigenvalues,omitempty"` // PCA diagnostics, non-increasing
}

// PointCloud is the embedded-point output form
type PointCloud struct {
	DurationSeconds float64 `json:"durationSeconds"`
	SampleRateHz    int     `json:"sampleRateHz"`
	Points          []Point `json:"points"`
}

// GraphSegment is one segment of the segmented-graph output form, carrying
// its own point slice; edges index into that slice.
type GraphSegment struct {
	ID     int      `json:"id"`
	Label  string   `json:"label"`
	Start  float64  `json:"start"`
	End    float64  `json:"end"`
	Points []Point  `json:"points"`
	Edges  [][2]int `json:"edges"`
}

// SegmentGraph is the segmented-graph output form
type SegmentGraph struct {
	DurationSeconds float64        `json:"durationSeconds"`
	SampleRateHz    int            `json:"sampleRateHz"`
	Segments        []GraphSegment `json:"segments"`
}

// EmbeddedPoints returns the embedded-point output form
func (r *Result) EmbeddedPoints() *PointCloud {
	return &PointCloud{
		DurationSeconds: r.DurationSeconds,
		SampleRateHz:    r.SampleRateHz,
		Points:          r.Points,
	}
}

// SegmentedGraph returns the segmented-graph output form
func (r *Result) SegmentedGraph() *SegmentGraph {
	graph := &SegmentGraph{
		DurationSeconds: r.DurationSeconds,
		SampleRateHz:    r.SampleRateHz,
		Segments:        make([]GraphSegment, len(r.Segments)),
	}

	for i, seg := range r.Segments {
		points := make([]Point, len(seg.PointIndices))
		for j, idx := range seg.PointIndices {
			points[j] = r.Points[idx]
		}
		graph.Segments[i] = GraphSegment{
			ID:     seg.ID,
			Label:  seg.Label,
			Start:  seg.Start,
			End:    seg.End,
			Points: points,
			Edges:  seg.Edges,
		}
	}

	return graph
}
