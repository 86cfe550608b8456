package shape

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	// DefaultSampleSize is the number of random tuples drawn per distribution
	// descriptor.
	DefaultSampleSize = 100
	// DefaultBinCount is the number of histogram bins per distribution
	// descriptor. Every histogram in a corpus must use the same bin count.
	DefaultBinCount = 10
)

// Weights applied when the single and histogram features are concatenated
// into one feature vector. These are empirically tuned constants; together
// with ten bins per histogram they sum to 1 and must not be changed without
// re-validating retrieval quality.
const (
	singleFeatureWeight = 0.015
	a3Weight            = 0.225
	d1Weight            = 0.12
	d2Weight            = 0.18
	d3Weight            = 0.185
	d4Weight            = 0.2
)

// ExtractParams configures distribution-descriptor sampling.
type ExtractParams struct {
	SampleSize int
	BinCount   int
}

func DefaultExtractParams() ExtractParams {
	return ExtractParams{SampleSize: DefaultSampleSize, BinCount: DefaultBinCount}
}

// Descriptor is the fixed-length fingerprint of one shape: six scalar
// features plus five sampled distributions. The normalized scalar values
// start equal to the raw values and are overwritten exactly once by
// Corpus.Standardize.
type Descriptor struct {
	Class string
	Name  string

	NumVertices int
	NumFaces    int

	SurfaceArea    float64
	Compactness    float64
	Rectangularity float64
	Diameter       float64
	Convexity      float64
	Eccentricity   float64

	SurfaceAreaNorm    float64
	CompactnessNorm    float64
	RectangularityNorm float64
	DiameterNorm       float64
	ConvexityNorm      float64
	EccentricityNorm   float64

	A3 []float64
	D1 []float64
	D2 []float64
	D3 []float64
	D4 []float64
}

// MeshVolume computes the watertight volume of the mesh as the absolute sum
// of signed tetrahedra between each face and the centroid. If the mesh has
// boundary edges, hole filling is attempted on a copy first.
func MeshVolume(m *Mesh) float64 {
	if !m.IsWatertight() {
		m = m.Copy()
		m.FillHoles()
	}
	ref := m.Centroid()
	volume := 0.0
	for _, f := range m.Faces {
		v0, v1, v2 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		volume += ref.Sub(v0).Dot(v1.Sub(v0).Cross(v2.Sub(v0))) / 6
	}
	return math.Abs(volume)
}

// OBBVolume is the volume of the bounding box oriented along the mesh's
// principal axes.
func OBBVolume(m *Mesh) float64 {
	_, axes, err := covarianceEigen(m.Vertices)
	if err != nil {
		return 0
	}
	volume := 1.0
	for _, axis := range axes {
		min := math.Inf(1)
		max := math.Inf(-1)
		for _, v := range m.Vertices {
			p := v.Dot(axis)
			min = math.Min(min, p)
			max = math.Max(max, p)
		}
		volume *= max - min
	}
	return volume
}

// Eccentricity is the ratio of the largest to the smallest eigenvalue of the
// vertex covariance matrix.
func Eccentricity(m *Mesh) float64 {
	values, _, err := covarianceEigen(m.Vertices)
	if err != nil || values[2] == 0 {
		return 0
	}
	return guardFinite(values[0] / values[2])
}

// guardFinite replaces non-finite ratios with a zero sentinel so one
// degenerate shape cannot corrupt corpus-wide standardization.
func guardFinite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return guardFinite(num / den)
}

// Extract computes the full descriptor of a normalized mesh. rnd is the
// sampling stream for the distribution descriptors; callers that extract in
// parallel must pass an independently seeded stream per task.
func Extract(m *Mesh, class, name string, params ExtractParams, rnd *rand.Rand) (*Descriptor, error) {
	if params.SampleSize <= 0 || params.BinCount <= 0 {
		return nil, fmt.Errorf("invalid extract params: %+v", params)
	}
	if m.NumVertices() < 4 {
		return nil, fmt.Errorf("mesh %q has %d vertices, need at least 4 to sample descriptors", name, m.NumVertices())
	}

	area := m.SurfaceArea()
	volume := MeshVolume(m)

	var diameter, convexity float64
	if hull, err := ComputeConvexHull(m.Vertices); err == nil {
		diameter = Diameter(hull.Vertices())
		convexity = ratio(volume, hull.Volume())
	}

	d := &Descriptor{
		Class:          class,
		Name:           name,
		NumVertices:    m.NumVertices(),
		NumFaces:       m.NumFaces(),
		SurfaceArea:    guardFinite(area),
		Compactness:    ratio(area*area*area, volume*volume),
		Rectangularity: ratio(volume, OBBVolume(m)),
		Diameter:       diameter,
		Convexity:      convexity,
		Eccentricity:   Eccentricity(m),
		A3:             ComputeA3(m, params, rnd),
		D1:             ComputeD1(m, params, rnd),
		D2:             ComputeD2(m, params, rnd),
		D3:             ComputeD3(m, params, rnd),
		D4:             ComputeD4(m, params, rnd),
	}
	d.SurfaceAreaNorm = d.SurfaceArea
	d.CompactnessNorm = d.Compactness
	d.RectangularityNorm = d.Rectangularity
	d.DiameterNorm = d.Diameter
	d.ConvexityNorm = d.Convexity
	d.EccentricityNorm = d.Eccentricity
	return d, nil
}

// sampleDistinct draws k distinct vertex indices uniformly from n.
func sampleDistinct(rnd *rand.Rand, n, k int) []int {
	picked := make([]int, 0, k)
	for len(picked) < k {
		c := rnd.Intn(n)
		dup := false
		for _, p := range picked {
			if p == c {
				dup = true
				break
			}
		}
		if !dup {
			picked = append(picked, c)
		}
	}
	return picked
}

// ComputeA3 samples the angle between three random vertices. Angles live in
// [0, pi], so the histogram range is fixed.
func ComputeA3(m *Mesh, params ExtractParams, rnd *rand.Rand) []float64 {
	angles := make([]float64, 0, params.SampleSize)
	for i := 0; i < params.SampleSize; i++ {
		idx := sampleDistinct(rnd, m.NumVertices(), 3)
		a, b, c := m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]]
		ba := a.Sub(b)
		bc := c.Sub(b)
		cosine := ba.Dot(bc) / (ba.Length() * bc.Length())
		// Clamp against floating-point drift before acos.
		angles = append(angles, math.Acos(math.Max(-1, math.Min(1, cosine))))
	}
	return histogramPMF(angles, params.BinCount, 0, math.Pi)
}

// ComputeD1 samples the distance from the centroid to a random vertex.
func ComputeD1(m *Mesh, params ExtractParams, rnd *rand.Rand) []float64 {
	barycenter := m.Centroid()
	distances := make([]float64, 0, params.SampleSize)
	for i := 0; i < params.SampleSize; i++ {
		v := m.Vertices[rnd.Intn(m.NumVertices())]
		distances = append(distances, v.Sub(barycenter).Length())
	}
	return histogramPMF(distances, params.BinCount, 0, 0)
}

// ComputeD2 samples the distance between two distinct random vertices.
func ComputeD2(m *Mesh, params ExtractParams, rnd *rand.Rand) []float64 {
	distances := make([]float64, 0, params.SampleSize)
	for i := 0; i < params.SampleSize; i++ {
		idx := sampleDistinct(rnd, m.NumVertices(), 2)
		distances = append(distances, m.Vertices[idx[0]].Sub(m.Vertices[idx[1]]).Length())
	}
	return histogramPMF(distances, params.BinCount, 0, 0)
}

// ComputeD3 samples the square root of the area of the triangle spanned by
// three distinct random vertices. The intermediate 3-decimal rounding in
// Heron's formula reproduces the published descriptor values exactly.
func ComputeD3(m *Mesh, params ExtractParams, rnd *rand.Rand) []float64 {
	areas := make([]float64, 0, params.SampleSize)
	for i := 0; i < params.SampleSize; i++ {
		idx := sampleDistinct(rnd, m.NumVertices(), 3)
		va, vb, vc := m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]]

		a := round3(vb.Sub(vc).Length())
		b := round3(va.Sub(vc).Length())
		c := round3(va.Sub(vb).Length())
		s := round3((a + b + c) / 2)
		area := round3(math.Sqrt(math.Abs(s * (s - a) * (s - b) * (s - c))))
		areas = append(areas, math.Sqrt(area))
	}
	return histogramPMF(areas, params.BinCount, 0, 0)
}

// ComputeD4 samples the cube root of the volume of the tetrahedron spanned by
// four distinct random vertices. The root compresses the heavy tail of the
// raw volumes before binning.
func ComputeD4(m *Mesh, params ExtractParams, rnd *rand.Rand) []float64 {
	volumes := make([]float64, 0, params.SampleSize)
	for i := 0; i < params.SampleSize; i++ {
		idx := sampleDistinct(rnd, m.NumVertices(), 4)
		a, b, c, d := m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]], m.Vertices[idx[3]]
		volume := math.Abs(b.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a)))) / 6
		volumes = append(volumes, math.Cbrt(volume))
	}
	return histogramPMF(volumes, params.BinCount, 0, 0)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// histogramPMF bins the samples into bins equal-width buckets over [lo, hi]
// and normalizes the counts to a probability mass function. Passing lo == hi
// derives the range from the data. A histogram with zero usable samples fails
// closed to the uniform distribution rather than emitting NaN.
func histogramPMF(samples []float64, bins int, lo, hi float64) []float64 {
	finite := samples[:0]
	for _, s := range samples {
		if !math.IsNaN(s) && !math.IsInf(s, 0) {
			finite = append(finite, s)
		}
	}

	if lo == hi {
		lo = math.Inf(1)
		hi = math.Inf(-1)
		for _, s := range finite {
			lo = math.Min(lo, s)
			hi = math.Max(hi, s)
		}
		if lo > hi {
			lo, hi = 0, 1
		}
		if lo == hi {
			lo -= 0.5
			hi += 0.5
		}
	}

	counts := make([]float64, bins)
	total := 0.0
	width := (hi - lo) / float64(bins)
	for _, s := range finite {
		if s < lo || s > hi {
			continue
		}
		i := int((s - lo) / width)
		if i >= bins {
			i = bins - 1 // upper edge is inclusive
		}
		counts[i]++
		total++
	}

	if total == 0 {
		uniform := 1 / float64(bins)
		for i := range counts {
			counts[i] = uniform
		}
		return counts
	}
	for i := range counts {
		counts[i] /= total
	}
	return counts
}

// SingleFeatures returns the raw scalar features in canonical order.
func (d *Descriptor) SingleFeatures() []float64 {
	return []float64{
		d.SurfaceArea,
		d.Compactness,
		d.Rectangularity,
		d.Diameter,
		d.Convexity,
		d.Eccentricity,
	}
}

// NormalizedSingleFeatures returns the standardized scalar features in
// canonical order.
func (d *Descriptor) NormalizedSingleFeatures() []float64 {
	return []float64{
		d.SurfaceAreaNorm,
		d.CompactnessNorm,
		d.RectangularityNorm,
		d.DiameterNorm,
		d.ConvexityNorm,
		d.EccentricityNorm,
	}
}

// SetNormalizedSingleFeatures overwrites the standardized scalar features.
// Called exactly once per descriptor, by Corpus.Standardize.
func (d *Descriptor) SetNormalizedSingleFeatures(features []float64) {
	d.SurfaceAreaNorm = features[0]
	d.CompactnessNorm = features[1]
	d.RectangularityNorm = features[2]
	d.DiameterNorm = features[3]
	d.ConvexityNorm = features[4]
	d.EccentricityNorm = features[5]
}

// HistogramFeatures concatenates the five histograms, unweighted.
func (d *Descriptor) HistogramFeatures() []float64 {
	features := make([]float64, 0, len(d.A3)+len(d.D1)+len(d.D2)+len(d.D3)+len(d.D4))
	features = append(features, d.A3...)
	features = append(features, d.D1...)
	features = append(features, d.D2...)
	features = append(features, d.D3...)
	features = append(features, d.D4...)
	return features
}

// WeightedFeatures concatenates the standardized scalar features and all
// histogram bins into the single weighted vector used for full-vector
// distances and for ANN indexing.
func (d *Descriptor) WeightedFeatures() []float64 {
	features := make([]float64, 0, 6+len(d.A3)+len(d.D1)+len(d.D2)+len(d.D3)+len(d.D4))
	for _, f := range d.NormalizedSingleFeatures() {
		features = append(features, f*singleFeatureWeight)
	}
	for _, x := range d.A3 {
		features = append(features, x*a3Weight)
	}
	for _, x := range d.D1 {
		features = append(features, x*d1Weight)
	}
	for _, x := range d.D2 {
		features = append(features, x*d2Weight)
	}
	for _, x := range d.D3 {
		features = append(features, x*d3Weight)
	}
	for _, x := range d.D4 {
		features = append(features, x*d4Weight)
	}
	return features
}
