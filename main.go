package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jdginn/go-shape-retrieval/shape"
	"github.com/jdginn/go-shape-retrieval/shape/config"
)

var CLI struct {
	Extract  ExtractCmd  `cmd:"" help:"Normalize a corpus of meshes and write its descriptor database"`
	Evaluate EvaluateCmd `cmd:"" help:"Score retrieval quality of a descriptor database"`
	Preview  PreviewCmd  `cmd:"" help:"Render a wireframe preview and descriptor plots for one mesh"`
}

func loadConfig(path string) (*config.ExperimentConfig, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.LoadFromFile(path)
}

type ExtractCmd struct {
	Models string `arg:"" optional:"" name:"models" help:"directory with one subdirectory of 3MF models per class"`
	Config string `name:"config" help:"YAML experiment config"`
}

func (c ExtractCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	modelsDir := c.Models
	if modelsDir == "" {
		modelsDir = cfg.Input.ModelsDir
	}
	if modelsDir == "" {
		return fmt.Errorf("no models directory given on the command line or in the config")
	}

	meshes, err := shape.LoadCorpus(modelsDir)
	if err != nil {
		return err
	}
	log.Printf("loaded %d meshes from %s", len(meshes), modelsDir)

	corpus, normalized, errs := shape.ProcessCorpus(meshes, shape.PipelineParams{
		TargetVertices: cfg.Normalization.TargetVertices,
		Extract: shape.ExtractParams{
			SampleSize: cfg.Extraction.SampleSize,
			BinCount:   cfg.Extraction.BinCount,
		},
		Seed:    cfg.Extraction.Seed,
		Workers: cfg.Extraction.Workers,
	})
	for _, err := range errs {
		log.Printf("dropped shape: %v", err)
	}
	if corpus.Len() == 0 {
		return fmt.Errorf("no shapes survived processing")
	}
	log.Printf("extracted descriptors for %d of %d shapes", corpus.Len(), len(meshes))

	if err := shape.WriteDatabaseFile(cfg.Output.Database, corpus); err != nil {
		return err
	}

	stats := make([]shape.ShapeStats, 0, corpus.Len())
	for _, d := range corpus.Descriptors() {
		stats = append(stats, shape.StatsFromMesh(normalized[d.Name], d.Class, d.Name))
	}
	return shape.WriteShapeStatsFile(cfg.Output.Statistics, stats)
}

type EvaluateCmd struct {
	Database string `arg:"" help:"descriptor database CSV"`
	K        int    `name:"k" default:"5" help:"number of matches to retrieve per query"`
	Metric   string `name:"metric" default:"Euclidean" help:"distance metric (ignored for ANN queries)"`
	Mode     string `name:"mode" default:"Custom" help:"query type: Custom or ANN"`
}

func (c EvaluateCmd) Run() error {
	corpus, err := shape.ReadDatabaseFile(c.Database)
	if err != nil {
		return err
	}
	if err := corpus.Standardize(); err != nil {
		return err
	}

	mode, err := shape.ParseQueryMode(c.Mode)
	if err != nil {
		return err
	}
	params := shape.EvaluateParams{Mode: mode, K: c.K}
	switch mode {
	case shape.CustomQuery:
		metric, err := shape.ParseMetric(c.Metric)
		if err != nil {
			return err
		}
		params.Metric = metric
	case shape.ANNQuery:
		params.Index = shape.BuildFlatIndex(corpus)
	}

	eval, err := shape.Evaluate(corpus, shape.NewClassIndex(corpus), params)
	if err != nil {
		return err
	}

	classes := make([]string, 0, len(eval.Precision))
	for class := range eval.Precision {
		if class != shape.AverageClass {
			classes = append(classes, class)
		}
	}
	sort.Strings(classes)
	classes = append(classes, shape.AverageClass)

	fmt.Printf("%-24s %10s %10s %10s\n", "Class", "Precision", "Recall", "F1")
	for _, class := range classes {
		fmt.Printf("%-24s %10.3f %10.3f %10.3f\n",
			class, eval.Precision[class], eval.Recall[class], eval.F1[class])
	}
	return nil
}

type PreviewCmd struct {
	Mesh   string `arg:"" help:"3MF mesh to preview"`
	Out    string `name:"out" default:"preview" help:"output directory"`
	Config string `name:"config" help:"YAML experiment config"`
}

func (c PreviewCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	mesh, err := shape.LoadMesh3MF(c.Mesh)
	if err != nil {
		return err
	}
	normalized, err := shape.Normalize(mesh, cfg.Normalization.TargetVertices)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Out, 0755); err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(c.Mesh), filepath.Ext(c.Mesh))

	view := shape.View{XSize: 800, YSize: 800}
	if err := view.SaveWireframePNG(filepath.Join(c.Out, name+".png"), normalized); err != nil {
		return err
	}

	rnd := rand.New(rand.NewSource(cfg.Extraction.Seed))
	d, err := shape.Extract(normalized, "preview", name, shape.ExtractParams{
		SampleSize: cfg.Extraction.SampleSize,
		BinCount:   cfg.Extraction.BinCount,
	}, rnd)
	if err != nil {
		return err
	}
	return shape.SaveDescriptorPlots(d, c.Out)
}

func main() {
	ctx := kong.Parse(&CLI)
	if err := ctx.Run(); err != nil {
		log.Fatal(err)
	}
}
