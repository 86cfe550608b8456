package shape

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CorpusMesh is one raw mesh queued for processing, tagged with its
// ground-truth class and unique name.
type CorpusMesh struct {
	Mesh  *Mesh
	Class string
	Name  string
}

// PipelineParams configures the batch normalization + extraction pipeline.
type PipelineParams struct {
	TargetVertices int
	Extract        ExtractParams
	// Seed is the base of the per-task sampling streams: task i draws from
	// Seed + i, so batch results are reproducible regardless of worker
	// interleaving.
	Seed int64
	// Workers bounds pipeline concurrency; 0 means one worker per CPU.
	Workers int
}

// ProcessCorpus normalizes every mesh and extracts its descriptor using a
// fixed-size worker pool, then standardizes the assembled corpus. Failures
// are per-shape: a mesh that fails to normalize or extract is dropped and
// reported, and the batch continues. The returned map holds the normalized
// mesh of every shape that made it into the corpus.
func ProcessCorpus(meshes []CorpusMesh, params PipelineParams) (*Corpus, map[string]*Mesh, []error) {
	workers := params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type result struct {
		descriptor *Descriptor
		normalized *Mesh
		err        error
	}
	results := make([]result, len(meshes))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, cm := range meshes {
		i, cm := i, cm
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(params.Seed + int64(i)))
			normalized, err := Normalize(cm.Mesh, params.TargetVertices)
			if err != nil {
				results[i] = result{err: fmt.Errorf("normalizing %q: %w", cm.Name, err)}
				return nil
			}
			d, err := Extract(normalized, cm.Class, cm.Name, params.Extract, rnd)
			if err != nil {
				results[i] = result{err: fmt.Errorf("extracting %q: %w", cm.Name, err)}
				return nil
			}
			results[i] = result{descriptor: d, normalized: normalized}
			return nil
		})
	}
	g.Wait()

	corpus := NewCorpus()
	normalized := map[string]*Mesh{}
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		corpus.Add(r.descriptor)
		normalized[r.descriptor.Name] = r.normalized
	}

	if corpus.Len() > 0 {
		if err := corpus.Standardize(); err != nil {
			errs = append(errs, err)
		}
	}
	return corpus, normalized, errs
}
