package shape

import (
	"fmt"
	"math"
)

// Metric selects the dissimilarity measure used to compare two descriptors.
// The set is closed; the blended metrics and their weights are empirically
// tuned constants that must match the published retrieval results exactly.
type Metric string

const (
	Euclidean Metric = "Euclidean"
	Cosine    Metric = "Cosine"
	EMD       Metric = "EMD"

	EuclideanSingleEMDHistogram    Metric = "Euclidean (Single) + EMD (Histogram)"
	EuclideanSingleCosineHistogram Metric = "Euclidean (Single) + Cosine (Histogram)"
	CosineSingleEMDHistogram       Metric = "Cosine (Single) + EMD (Histogram)"
	CosineSingleEuclideanHistogram Metric = "Cosine (Single) + Euclidean (Histogram)"
	EMDSingleEuclideanHistogram    Metric = "EMD (Single) + Euclidean (Histogram)"
	EMDSingleCosineHistogram       Metric = "EMD (Single) + Cosine (Histogram)"
)

// Metrics lists every supported metric identifier.
func Metrics() []Metric {
	return []Metric{
		Euclidean,
		Cosine,
		EMD,
		EuclideanSingleEMDHistogram,
		EuclideanSingleCosineHistogram,
		CosineSingleEMDHistogram,
		CosineSingleEuclideanHistogram,
		EMDSingleEuclideanHistogram,
		EMDSingleCosineHistogram,
	}
}

// ParseMetric validates a metric identifier. Unknown identifiers are a caller
// error.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if Metric(s) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown distance metric %q", s)
}

// EuclideanDistance is sqrt(sum((x-y)^2)).
func EuclideanDistance(x, y []float64) float64 {
	sum := 0.0
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CosineDistance is 1 - cos(x, y). Undefined at zero norm; returns 0 for two
// zero vectors so self-distance stays zero.
func CosineDistance(x, y []float64) float64 {
	var dot, nx, ny float64
	for i := range x {
		dot += x[i] * y[i]
		nx += x[i] * x[i]
		ny += y[i] * y[i]
	}
	if nx == 0 || ny == 0 {
		return 0
	}
	return 1 - dot/(math.Sqrt(nx)*math.Sqrt(ny))
}

// EMDDistance is the 1-D Earth Mover's Distance for ordered histogram bins,
// computed as the L1 difference of the running sums. Only meaningful for
// ordered histogram vectors.
func EMDDistance(x, y []float64) float64 {
	var xc, yc, diff float64
	for i := range x {
		xc += x[i]
		yc += y[i]
		diff += math.Abs(xc - yc)
	}
	return diff
}

type baseMetric func(x, y []float64) float64

type blend struct {
	single       baseMetric
	histogram    baseMetric
	singleWeight float64
	histWeight   float64
}

var blends = map[Metric]blend{
	EuclideanSingleEMDHistogram:    {EuclideanDistance, EMDDistance, 0.5, 0.5},
	EuclideanSingleCosineHistogram: {EuclideanDistance, CosineDistance, 0.04, 0.96},
	CosineSingleEMDHistogram:       {CosineDistance, EMDDistance, 0.5, 0.5},
	CosineSingleEuclideanHistogram: {CosineDistance, EuclideanDistance, 0.4, 0.6},
	EMDSingleEuclideanHistogram:    {EMDDistance, EuclideanDistance, 0.03, 0.97},
	EMDSingleCosineHistogram:       {EMDDistance, CosineDistance, 0.01, 0.99},
}

// Distance computes the dissimilarity between two descriptors under the
// given metric. Base metrics compare the full weighted feature vectors;
// blended metrics compare the single-feature and histogram-feature
// sub-vectors separately and mix the two distances with fixed weights.
// Descriptors must come from a standardized corpus.
func Distance(a, b *Descriptor, metric Metric) (float64, error) {
	switch metric {
	case Euclidean:
		return EuclideanDistance(a.WeightedFeatures(), b.WeightedFeatures()), nil
	case Cosine:
		return CosineDistance(a.WeightedFeatures(), b.WeightedFeatures()), nil
	case EMD:
		return EMDDistance(a.WeightedFeatures(), b.WeightedFeatures()), nil
	}
	if bl, ok := blends[metric]; ok {
		single := bl.single(a.NormalizedSingleFeatures(), b.NormalizedSingleFeatures())
		histogram := bl.histogram(a.HistogramFeatures(), b.HistogramFeatures())
		return single*bl.singleWeight + histogram*bl.histWeight, nil
	}
	return 0, fmt.Errorf("unknown distance metric %q", metric)
}
