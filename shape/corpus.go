package shape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Corpus is the set of descriptors for one dataset. Insertion order is
// preserved; that order is the fixed mapping between ANN index positions and
// shape names. A Corpus is read-only during querying and evaluation except
// for the one-time Standardize pass.
type Corpus struct {
	names  []string
	shapes map[string]*Descriptor
}

func NewCorpus() *Corpus {
	return &Corpus{shapes: map[string]*Descriptor{}}
}

func (c *Corpus) Add(d *Descriptor) {
	if _, ok := c.shapes[d.Name]; !ok {
		c.names = append(c.names, d.Name)
	}
	c.shapes[d.Name] = d
}

func (c *Corpus) Get(name string) (*Descriptor, bool) {
	d, ok := c.shapes[name]
	return d, ok
}

// Names returns the shape names in corpus order. Callers must not mutate the
// returned slice.
func (c *Corpus) Names() []string { return c.names }

func (c *Corpus) Len() int { return len(c.names) }

// Descriptors returns the descriptors in corpus order.
func (c *Corpus) Descriptors() []*Descriptor {
	descriptors := make([]*Descriptor, len(c.names))
	for i, name := range c.names {
		descriptors[i] = c.shapes[name]
	}
	return descriptors
}

// ClassIndex maps a class label to the names of the shapes belonging to it.
// Built once per corpus and never mutated afterwards; used only for
// ground-truth lookup during evaluation.
type ClassIndex map[string][]string

func NewClassIndex(c *Corpus) ClassIndex {
	index := ClassIndex{}
	for _, name := range c.names {
		d := c.shapes[name]
		index[d.Class] = append(index[d.Class], name)
	}
	return index
}

// ClassOf returns the class containing the named shape, or "" if the shape is
// absent from the index.
func (ci ClassIndex) ClassOf(name string) string {
	for class, members := range ci {
		for _, member := range members {
			if member == name {
				return class
			}
		}
	}
	return ""
}

// Standardize z-scores the six single features across the whole corpus using
// the per-feature mean and population standard deviation, and rewrites every
// descriptor's normalized values. Must run after all extraction completes and
// before any distance computation that touches single features.
func (c *Corpus) Standardize() error {
	if c.Len() == 0 {
		return fmt.Errorf("cannot standardize an empty corpus")
	}

	const numFeatures = 6
	columns := make([][]float64, numFeatures)
	for i := range columns {
		columns[i] = make([]float64, 0, c.Len())
	}
	for _, name := range c.names {
		for i, f := range c.shapes[name].SingleFeatures() {
			columns[i] = append(columns[i], f)
		}
	}

	means := make([]float64, numFeatures)
	stds := make([]float64, numFeatures)
	for i, column := range columns {
		means[i] = stat.Mean(column, nil)
		variance := 0.0
		for _, x := range column {
			d := x - means[i]
			variance += d * d
		}
		stds[i] = math.Sqrt(variance / float64(len(column)))
	}

	for _, name := range c.names {
		d := c.shapes[name]
		raw := d.SingleFeatures()
		standardized := make([]float64, numFeatures)
		for i, x := range raw {
			if stds[i] == 0 {
				standardized[i] = 0
				continue
			}
			standardized[i] = (x - means[i]) / stds[i]
		}
		d.SetNormalizedSingleFeatures(standardized)
	}
	return nil
}
