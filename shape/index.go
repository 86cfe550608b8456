package shape

import (
	"sort"
)

// VectorIndex is the capability interface for a nearest-neighbor index over
// the corpus's weighted feature vectors. Query returns the positions of the k
// nearest vectors in build order together with their distances; if the query
// vector itself was indexed, it appears in the results.
type VectorIndex interface {
	Query(vector []float64, k int) (indices []int, distances []float64)
}

// FlatIndex is an exact, brute-force VectorIndex. It is the reference
// implementation of the collaborator contract; any ANN library with the same
// Query shape can stand in for it.
type FlatIndex struct {
	vectors [][]float64
}

// BuildFlatIndex indexes the corpus's weighted feature vectors in corpus
// order.
func BuildFlatIndex(c *Corpus) *FlatIndex {
	ix := &FlatIndex{vectors: make([][]float64, 0, c.Len())}
	for _, d := range c.Descriptors() {
		ix.vectors = append(ix.vectors, d.WeightedFeatures())
	}
	return ix
}

func (ix *FlatIndex) Len() int { return len(ix.vectors) }

func (ix *FlatIndex) Query(vector []float64, k int) ([]int, []float64) {
	type candidate struct {
		index    int
		distance float64
	}
	candidates := make([]candidate, len(ix.vectors))
	for i, v := range ix.vectors {
		candidates[i] = candidate{i, EuclideanDistance(vector, v)}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if k > len(candidates) {
		k = len(candidates)
	}
	indices := make([]int, k)
	distances := make([]float64, k)
	for i := 0; i < k; i++ {
		indices[i] = candidates[i].index
		distances[i] = candidates[i].distance
	}
	return indices, distances
}
