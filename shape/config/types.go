package config

// ExperimentConfig is the complete configuration for one retrieval
// experiment: where the models live, how they are normalized and sampled,
// how queries are evaluated, and where outputs go.
type ExperimentConfig struct {
	Input         Input         `yaml:"input"`
	Normalization Normalization `yaml:"normalization"`
	Extraction    Extraction    `yaml:"extraction"`
	Query         Query         `yaml:"query"`
	Output        Output        `yaml:"output"`
}

type Input struct {
	// ModelsDir holds one subdirectory per shape class, each containing 3MF
	// models.
	ModelsDir string `yaml:"models_dir"`
}

type Normalization struct {
	TargetVertices int `yaml:"target_vertices"`
}

type Extraction struct {
	SampleSize int   `yaml:"sample_size"`
	BinCount   int   `yaml:"bin_count"`
	Seed       int64 `yaml:"seed"`
	// Workers bounds pipeline concurrency; 0 means one worker per CPU.
	Workers int `yaml:"workers"`
}

type Query struct {
	// Mode is "Custom" or "ANN".
	Mode   string `yaml:"mode"`
	Metric string `yaml:"metric"`
	K      int    `yaml:"k"`
}

type Output struct {
	Database   string `yaml:"database"`
	Statistics string `yaml:"statistics"`
	PlotsDir   string `yaml:"plots_dir"`
}
