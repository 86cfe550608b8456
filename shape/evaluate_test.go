package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// classDescriptor gives every shape of a class the same histogram signature,
// so same-class shapes are at distance zero and cross-class shapes are not.
func classDescriptor(class, name string, bin int) *Descriptor {
	return &Descriptor{
		Class: class,
		Name:  name,
		A3:    oneHot(10, bin),
		D1:    oneHot(10, bin),
		D2:    oneHot(10, bin),
		D3:    oneHot(10, bin),
		D4:    oneHot(10, bin),
	}
}

// evalCorpus is three classes of three shapes each, perfectly separable.
func evalCorpus() *Corpus {
	c := NewCorpus()
	for ci, class := range []string{"chairs", "tables", "lamps"} {
		for si := 0; si < 3; si++ {
			name := class[:1] + string(rune('1'+si))
			c.Add(classDescriptor(class, name, ci*3))
		}
	}
	return c
}

func TestBestMatches(t *testing.T) {
	assert := assert.New(t)
	c := evalCorpus()
	query, _ := c.Get("c1")
	candidates := []*Descriptor{}
	for _, d := range c.Descriptors() {
		if d.Name != "c1" {
			candidates = append(candidates, d)
		}
	}

	names, distances, err := BestMatches(query, candidates, 2, Euclidean)
	assert.NoError(err)
	assert.Equal([]string{"c2", "c3"}, names)
	assert.Equal([]float64{0, 0}, distances)

	// k larger than the candidate set is capped.
	names, _, err = BestMatches(query, candidates, 100, Euclidean)
	assert.NoError(err)
	assert.Len(names, 8)
	assert.NotContains(names, "c1")
}

func TestEvaluatePerfectRetrieval(t *testing.T) {
	for _, mode := range []QueryMode{CustomQuery, ANNQuery} {
		t.Run(string(mode), func(t *testing.T) {
			assert := assert.New(t)
			c := evalCorpus()
			params := EvaluateParams{Mode: mode, K: 2, Metric: Euclidean}
			if mode == ANNQuery {
				params.Index = BuildFlatIndex(c)
			}

			eval, err := Evaluate(c, NewClassIndex(c), params)
			assert.NoError(err)

			// With k = 2 and class size 3, every query retrieves exactly its
			// two classmates.
			for _, class := range []string{"chairs", "tables", "lamps", AverageClass} {
				assert.InDelta(1.0, eval.Precision[class], 1e-9, class)
				assert.InDelta(1.0, eval.Recall[class], 1e-9, class)
				assert.InDelta(1.0, eval.F1[class], 1e-9, class)
			}
		})
	}
}

func TestEvaluateScoresAreBounded(t *testing.T) {
	assert := assert.New(t)
	c := evalCorpus()
	// Break separability: one chair pretends to be a table.
	d, _ := c.Get("c3")
	d.A3 = oneHot(10, 3)

	for _, metric := range Metrics() {
		eval, err := Evaluate(c, NewClassIndex(c), EvaluateParams{Mode: CustomQuery, K: 3, Metric: metric})
		assert.NoError(err, string(metric))
		for class, p := range eval.Precision {
			assert.GreaterOrEqual(p, 0.0, class)
			assert.LessOrEqual(p, 1.0, class)
			assert.GreaterOrEqual(eval.Recall[class], 0.0, class)
			assert.LessOrEqual(eval.Recall[class], 1.0, class)
			assert.GreaterOrEqual(eval.F1[class], 0.0, class)
			assert.LessOrEqual(eval.F1[class], 1.0, class)
		}
	}
}

func TestEvaluateSingletonClass(t *testing.T) {
	assert := assert.New(t)
	c := evalCorpus()
	c.Add(classDescriptor("plants", "p1", 9))

	eval, err := Evaluate(c, NewClassIndex(c), EvaluateParams{Mode: CustomQuery, K: 2, Metric: Euclidean})
	assert.NoError(err)

	// A class of one has no retrievable classmates.
	assert.Equal(0.0, eval.Precision["plants"])
	assert.Equal(0.0, eval.Recall["plants"])
	assert.Equal(0.0, eval.F1["plants"])
}

func TestEvaluateUnknownQueryShape(t *testing.T) {
	assert := assert.New(t)
	c := evalCorpus()
	classes := NewClassIndex(c)
	// Drop one shape from the ground truth; its query must score zero overall
	// and produce no per-class row of its own.
	classes["chairs"] = []string{"c1", "c2"}

	eval, err := Evaluate(c, classes, EvaluateParams{Mode: CustomQuery, K: 2, Metric: Euclidean})
	assert.NoError(err)
	assert.NotContains(eval.Precision, "")
	assert.Less(eval.Precision[AverageClass], 1.0)
}

func TestEvaluateErrors(t *testing.T) {
	assert := assert.New(t)
	c := evalCorpus()

	_, err := Evaluate(NewCorpus(), ClassIndex{}, EvaluateParams{Mode: CustomQuery, K: 2, Metric: Euclidean})
	assert.Error(err)

	_, err = Evaluate(c, NewClassIndex(c), EvaluateParams{Mode: CustomQuery, K: 0, Metric: Euclidean})
	assert.Error(err)

	_, err = Evaluate(c, NewClassIndex(c), EvaluateParams{Mode: ANNQuery, K: 2})
	assert.Error(err)

	_, err = Evaluate(c, NewClassIndex(c), EvaluateParams{Mode: QueryMode("Random"), K: 2})
	assert.Error(err)
}

func TestParseQueryMode(t *testing.T) {
	assert := assert.New(t)
	mode, err := ParseQueryMode("Custom")
	assert.NoError(err)
	assert.Equal(CustomQuery, mode)

	mode, err = ParseQueryMode("ANN")
	assert.NoError(err)
	assert.Equal(ANNQuery, mode)

	_, err = ParseQueryMode("Exhaustive")
	assert.Error(err)
}

func TestF1Score(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(1.0, f1Score(1, 1), 1e-9)
	assert.InDelta(2.0/3.0, f1Score(0.5, 1), 1e-9)
	assert.Equal(0.0, f1Score(0, 0))
}
