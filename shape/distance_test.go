package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// makeDescriptor builds a descriptor with the given standardized single
// features and one shared two-bin histogram for every distribution family.
func makeDescriptor(name string, singles []float64, hist []float64) *Descriptor {
	d := &Descriptor{
		Name: name,
		A3:   append([]float64{}, hist...),
		D1:   append([]float64{}, hist...),
		D2:   append([]float64{}, hist...),
		D3:   append([]float64{}, hist...),
		D4:   append([]float64{}, hist...),
	}
	d.SetNormalizedSingleFeatures(singles)
	return d
}

func TestParseMetric(t *testing.T) {
	assert := assert.New(t)
	for _, m := range Metrics() {
		parsed, err := ParseMetric(string(m))
		assert.NoError(err)
		assert.Equal(m, parsed)
	}
	_, err := ParseMetric("Manhattan")
	assert.Error(err)
}

func TestEuclideanDistance(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(5.0, EuclideanDistance([]float64{0, 0}, []float64{3, 4}), 1e-9)
	assert.Equal(0.0, EuclideanDistance([]float64{1, 2, 3}, []float64{1, 2, 3}))
}

func TestCosineDistance(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(0.0, CosineDistance([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(1.0, CosineDistance([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(2.0, CosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	// Zero vectors are defined as identical rather than NaN.
	assert.Equal(0.0, CosineDistance([]float64{0, 0}, []float64{0, 0}))
}

func TestEMDDistance(t *testing.T) {
	assert := assert.New(t)
	// Moving all mass across two bins costs 2 in cumulative terms.
	assert.InDelta(2.0, EMDDistance([]float64{1, 0, 0}, []float64{0, 0, 1}), 1e-9)
	assert.InDelta(1.0, EMDDistance([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(0.0, EMDDistance([]float64{0.5, 0.5}, []float64{0.5, 0.5}))
}

func TestSelfDistanceZeroForAllMetrics(t *testing.T) {
	assert := assert.New(t)
	d := makeDescriptor("self", []float64{1, -0.5, 0.25, 2, 0, 1}, []float64{0.7, 0.3})
	for _, metric := range Metrics() {
		got, err := Distance(d, d, metric)
		assert.NoError(err, string(metric))
		assert.InDelta(0.0, got, 1e-12, string(metric))
	}
}

func TestDistanceSymmetry(t *testing.T) {
	assert := assert.New(t)
	a := makeDescriptor("a", []float64{1, 2, 3, 4, 5, 6}, []float64{0.9, 0.1})
	b := makeDescriptor("b", []float64{-1, 0, 3, 2, 5, 7}, []float64{0.2, 0.8})
	for _, metric := range Metrics() {
		ab, err := Distance(a, b, metric)
		assert.NoError(err)
		ba, err := Distance(b, a, metric)
		assert.NoError(err)
		assert.InDelta(ab, ba, 1e-12, string(metric))
	}
}

func TestDistanceUnknownMetric(t *testing.T) {
	a := makeDescriptor("a", []float64{0, 0, 0, 0, 0, 0}, []float64{1, 0})
	if _, err := Distance(a, a, Metric("Chebyshev")); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestBlendedDistances(t *testing.T) {
	assert := assert.New(t)
	// Single features differ by a unit vector; every histogram flips its
	// two-bin mass. That fixes each base distance to a known value.
	a := makeDescriptor("a", []float64{1, 0, 0, 0, 0, 0}, []float64{1, 0})
	b := makeDescriptor("b", []float64{0, 0, 0, 0, 0, 0}, []float64{0, 1})

	singleEuclidean := 1.0
	singleCosine := 0.0 // b's single vector is zero
	singleEMD := 6.0    // cumulative difference of 1 in each of six positions

	// Histogram features concatenate five copies of the two-bin flip.
	histEuclidean := math.Sqrt(10)
	histCosine := 1.0
	histEMD := 5.0

	tests := []struct {
		metric Metric
		want   float64
	}{
		{EuclideanSingleEMDHistogram, 0.5*singleEuclidean + 0.5*histEMD},
		{EuclideanSingleCosineHistogram, 0.04*singleEuclidean + 0.96*histCosine},
		{CosineSingleEMDHistogram, 0.5*singleCosine + 0.5*histEMD},
		{CosineSingleEuclideanHistogram, 0.4*singleCosine + 0.6*histEuclidean},
		{EMDSingleEuclideanHistogram, 0.03*singleEMD + 0.97*histEuclidean},
		{EMDSingleCosineHistogram, 0.01*singleEMD + 0.99*histCosine},
	}
	for _, test := range tests {
		got, err := Distance(a, b, test.metric)
		assert.NoError(err, string(test.metric))
		assert.InDelta(test.want, got, 1e-9, string(test.metric))
	}
}
