package shape

import (
	"fmt"
	"sort"
)

// QueryMode selects how the evaluator retrieves matches for a query shape.
type QueryMode string

const (
	// CustomQuery ranks every other shape by Distance under a chosen metric.
	CustomQuery QueryMode = "Custom"
	// ANNQuery delegates to a VectorIndex built over the corpus.
	ANNQuery QueryMode = "ANN"
)

func ParseQueryMode(s string) (QueryMode, error) {
	switch QueryMode(s) {
	case CustomQuery, ANNQuery:
		return QueryMode(s), nil
	}
	return "", fmt.Errorf("unknown query type %q", s)
}

// AverageClass keys the overall row in evaluation results.
const AverageClass = "Average"

// BestMatches ranks the candidate descriptors by distance to the query and
// returns the k closest names with their distances. Ties preserve candidate
// order, so results are deterministic for a fixed corpus order.
func BestMatches(query *Descriptor, candidates []*Descriptor, k int, metric Metric) ([]string, []float64, error) {
	type match struct {
		name     string
		distance float64
	}
	matches := make([]match, 0, len(candidates))
	for _, c := range candidates {
		d, err := Distance(query, c, metric)
		if err != nil {
			return nil, nil, err
		}
		matches = append(matches, match{c.Name, d})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})
	if k > len(matches) {
		k = len(matches)
	}
	names := make([]string, k)
	distances := make([]float64, k)
	for i := 0; i < k; i++ {
		names[i] = matches[i].name
		distances[i] = matches[i].distance
	}
	return names, distances, nil
}

// Evaluation holds retrieval-quality metrics per class plus an overall
// AverageClass row.
type Evaluation struct {
	Precision map[string]float64
	Recall    map[string]float64
	F1        map[string]float64
}

// EvaluateParams configures one evaluation run. Metric is required for
// CustomQuery; Index is required for ANNQuery.
type EvaluateParams struct {
	Mode   QueryMode
	K      int
	Metric Metric
	Index  VectorIndex
}

// Evaluate runs a leave-one-out query for every shape in the corpus and
// aggregates precision, recall and F1 per class and overall. A query whose
// name is missing from the class index contributes zero to the overall
// averages and is excluded from the per-class rows. The corpus must be
// standardized.
func Evaluate(c *Corpus, classes ClassIndex, params EvaluateParams) (Evaluation, error) {
	if c.Len() == 0 {
		return Evaluation{}, fmt.Errorf("cannot evaluate an empty corpus")
	}
	if params.K < 1 {
		return Evaluation{}, fmt.Errorf("k must be at least 1, got %d", params.K)
	}
	if params.Mode == ANNQuery && params.Index == nil {
		return Evaluation{}, fmt.Errorf("ANN query mode requires an index")
	}

	precisionSums := map[string]float64{}
	recallSums := map[string]float64{}
	queryCounts := map[string]int{}
	averagePrecision := 0.0
	averageRecall := 0.0

	for _, name := range c.Names() {
		query, _ := c.Get(name)

		var matches []string
		var err error
		switch params.Mode {
		case CustomQuery:
			candidates := make([]*Descriptor, 0, c.Len()-1)
			for _, d := range c.Descriptors() {
				if d.Name != name {
					candidates = append(candidates, d)
				}
			}
			matches, _, err = BestMatches(query, candidates, params.K, params.Metric)
			if err != nil {
				return Evaluation{}, err
			}
		case ANNQuery:
			// Ask for one extra neighbor: the query vector is part of the
			// indexed set and comes back as a self-match.
			indices, _ := params.Index.Query(query.WeightedFeatures(), params.K+1)
			names := c.Names()
			for _, idx := range indices {
				if idx < 0 || idx >= len(names) || names[idx] == name {
					continue
				}
				if len(matches) < params.K {
					matches = append(matches, names[idx])
				}
			}
		default:
			return Evaluation{}, fmt.Errorf("unknown query type %q", params.Mode)
		}

		class := classes.ClassOf(name)
		precision, recall := scoreQuery(class, matches, classes, params.K)
		averagePrecision += precision
		averageRecall += recall
		if class == "" {
			continue
		}
		precisionSums[class] += precision
		recallSums[class] += recall
		queryCounts[class]++
	}

	eval := Evaluation{
		Precision: map[string]float64{},
		Recall:    map[string]float64{},
		F1:        map[string]float64{},
	}
	for class, count := range queryCounts {
		eval.Precision[class] = precisionSums[class] / float64(count)
		eval.Recall[class] = recallSums[class] / float64(count)
	}
	eval.Precision[AverageClass] = averagePrecision / float64(c.Len())
	eval.Recall[AverageClass] = averageRecall / float64(c.Len())

	for class := range eval.Precision {
		eval.F1[class] = f1Score(eval.Precision[class], eval.Recall[class])
	}
	return eval, nil
}

// scoreQuery computes precision and recall for a single query. A retrieved
// shape counts as a true positive when it shares the query's ground-truth
// class. Recall is measured against the class size excluding the query
// itself.
func scoreQuery(class string, matches []string, classes ClassIndex, k int) (precision, recall float64) {
	if class == "" {
		return 0, 0
	}
	members := map[string]bool{}
	for _, name := range classes[class] {
		members[name] = true
	}
	tp := 0
	for _, match := range matches {
		if members[match] {
			tp++
		}
	}
	if k > 0 {
		precision = float64(tp) / float64(k)
	}
	if classSize := len(classes[class]); classSize > 1 {
		recall = float64(tp) / float64(classSize-1)
	}
	return precision, recall
}

func f1Score(precision, recall float64) float64 {
	if precision+recall <= 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
