package config

import (
	"fmt"
)

// Validate checks the configuration and returns every problem found rather
// than stopping at the first.
func (c *ExperimentConfig) Validate() []error {
	var errs []error

	if c.Normalization.TargetVertices < 1 {
		errs = append(errs, fmt.Errorf("normalization.target_vertices must be positive, got %d", c.Normalization.TargetVertices))
	}
	if c.Extraction.SampleSize < 1 {
		errs = append(errs, fmt.Errorf("extraction.sample_size must be positive, got %d", c.Extraction.SampleSize))
	}
	if c.Extraction.BinCount < 1 {
		errs = append(errs, fmt.Errorf("extraction.bin_count must be positive, got %d", c.Extraction.BinCount))
	}
	if c.Extraction.Workers < 0 {
		errs = append(errs, fmt.Errorf("extraction.workers must not be negative, got %d", c.Extraction.Workers))
	}
	if c.Query.K < 1 {
		errs = append(errs, fmt.Errorf("query.k must be at least 1, got %d", c.Query.K))
	}
	switch c.Query.Mode {
	case "Custom", "ANN":
	default:
		errs = append(errs, fmt.Errorf("query.mode must be Custom or ANN, got %q", c.Query.Mode))
	}

	return errs
}
