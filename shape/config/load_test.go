package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() fails validation: %v", errs)
	}
}

func TestLoadFromFile(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	assert.NoError(os.WriteFile(path, []byte(`
input:
  models_dir: ./models
normalization:
  target_vertices: 2000
extraction:
  sample_size: 500
query:
  metric: Cosine
  k: 10
`), 0644))

	cfg, err := LoadFromFile(path)
	assert.NoError(err)
	assert.Equal("./models", cfg.Input.ModelsDir)
	assert.Equal(2000, cfg.Normalization.TargetVertices)
	assert.Equal(500, cfg.Extraction.SampleSize)
	assert.Equal("Cosine", cfg.Query.Metric)
	assert.Equal(10, cfg.Query.K)

	// Unset fields keep their defaults.
	assert.Equal(10, cfg.Extraction.BinCount)
	assert.Equal("Custom", cfg.Query.Mode)
	assert.Equal("database.csv", cfg.Output.Database)
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	assert.NoError(os.WriteFile(path, []byte(`
normalization:
  target_vertices: -5
query:
  mode: Fuzzy
`), 0644))

	_, err := LoadFromFile(path)
	assert.Error(err)
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Normalization.TargetVertices = 0
	cfg.Extraction.SampleSize = 0
	cfg.Extraction.BinCount = -1
	cfg.Extraction.Workers = -2
	cfg.Query.K = 0
	cfg.Query.Mode = "Nearest"

	errs := cfg.Validate()
	if len(errs) != 6 {
		t.Errorf("Validate() returned %d errors, want 6: %v", len(errs), errs)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "experiment.yaml")

	cfg := Default()
	cfg.Input.ModelsDir = "/data/models"
	cfg.Extraction.Seed = 7
	assert.NoError(SaveToFile(&cfg, path))

	loaded, err := LoadFromFile(path)
	assert.NoError(err)
	assert.Equal(&cfg, loaded)
}
