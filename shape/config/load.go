package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no file is given.
func Default() ExperimentConfig {
	return ExperimentConfig{
		Normalization: Normalization{TargetVertices: 5000},
		Extraction:    Extraction{SampleSize: 100, BinCount: 10, Seed: 42},
		Query:         Query{Mode: "Custom", Metric: "Euclidean", K: 5},
		Output: Output{
			Database:   "database.csv",
			Statistics: "shape_data.csv",
			PlotsDir:   "histograms",
		},
	}
}

// LoadFromFile loads an ExperimentConfig from a YAML file. Fields absent
// from the file keep their defaults.
func LoadFromFile(path string) (*ExperimentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if errs := config.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation errors: %v", errs)
	}
	return &config, nil
}

// SaveToFile writes an ExperimentConfig as YAML.
func SaveToFile(config *ExperimentConfig, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
