package shape

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fogleman/pt/pt"
)

var databaseHeader = []string{
	"Model Class", "Model Name",
	"Surface Area", "Compactness", "Rectangularity", "Diameter", "Convexity", "Eccentricity",
	"A3", "D1", "D2", "D3", "D4",
}

func formatScalar(x float64) string {
	return strconv.FormatFloat(round3(x), 'f', 3, 64)
}

// formatHistogram serializes a histogram as a bracketed, comma-space
// separated list of 3-decimal floats, e.g. "[0.100, 0.200, ...]".
func formatHistogram(hist []float64) string {
	parts := make([]string, len(hist))
	for i, x := range hist {
		parts[i] = formatScalar(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func parseScalar(s string) float64 {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return x
}

func parseHistogram(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	parts := strings.Split(s, ", ")
	hist := make([]float64, len(parts))
	for i, part := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing histogram value %q: %w", part, err)
		}
		hist[i] = x
	}
	return hist, nil
}

// WriteDatabase writes the descriptor database as semicolon-delimited CSV
// with scalars rounded to 3 decimals.
func WriteDatabase(w io.Writer, c *Corpus) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(databaseHeader); err != nil {
		return err
	}
	for _, d := range c.Descriptors() {
		record := []string{
			d.Class, d.Name,
			formatScalar(d.SurfaceArea),
			formatScalar(d.Compactness),
			formatScalar(d.Rectangularity),
			formatScalar(d.Diameter),
			formatScalar(d.Convexity),
			formatScalar(d.Eccentricity),
			formatHistogram(d.A3),
			formatHistogram(d.D1),
			formatHistogram(d.D2),
			formatHistogram(d.D3),
			formatHistogram(d.D4),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteDatabaseFile(path string, c *Corpus) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteDatabase(f, c)
}

// ReadDatabase parses a descriptor database written by WriteDatabase.
// Unparseable scalar cells read as 0.
func ReadDatabase(r io.Reader) (*Corpus, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading descriptor database: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("descriptor database is empty")
	}

	corpus := NewCorpus()
	for _, record := range records[1:] {
		if len(record) != len(databaseHeader) {
			return nil, fmt.Errorf("descriptor row has %d columns, want %d", len(record), len(databaseHeader))
		}
		d := &Descriptor{
			Class:          record[0],
			Name:           record[1],
			SurfaceArea:    parseScalar(record[2]),
			Compactness:    parseScalar(record[3]),
			Rectangularity: parseScalar(record[4]),
			Diameter:       parseScalar(record[5]),
			Convexity:      parseScalar(record[6]),
			Eccentricity:   parseScalar(record[7]),
		}
		histograms := []*[]float64{&d.A3, &d.D1, &d.D2, &d.D3, &d.D4}
		for i, hist := range histograms {
			parsed, err := parseHistogram(record[8+i])
			if err != nil {
				return nil, fmt.Errorf("shape %q: %w", d.Name, err)
			}
			*hist = parsed
		}
		d.SurfaceAreaNorm = d.SurfaceArea
		d.CompactnessNorm = d.Compactness
		d.RectangularityNorm = d.Rectangularity
		d.DiameterNorm = d.Diameter
		d.ConvexityNorm = d.Convexity
		d.EccentricityNorm = d.Eccentricity
		corpus.Add(d)
	}
	return corpus, nil
}

func ReadDatabaseFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDatabase(f)
}

// ShapeStats is one row of the shape-statistics CSV.
type ShapeStats struct {
	Name        string
	Class       string
	NumVertices int
	NumFaces    int
	FaceType    string
	BoundsMin   pt.Vector
	BoundsMax   pt.Vector
}

func StatsFromMesh(m *Mesh, class, name string) ShapeStats {
	min, max := m.Bounds()
	return ShapeStats{
		Name:        name,
		Class:       class,
		NumVertices: m.NumVertices(),
		NumFaces:    m.NumFaces(),
		FaceType:    "Triangle",
		BoundsMin:   min,
		BoundsMax:   max,
	}
}

var statsHeader = []string{
	"Shape Name", "Shape Class", "Number of Vertices", "Number of Faces", "Type of Faces", "3D Bounding Box",
}

// WriteShapeStats writes per-shape statistics as semicolon-delimited CSV.
// The header row is always written first.
func WriteShapeStats(w io.Writer, stats []ShapeStats) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(statsHeader); err != nil {
		return err
	}
	for _, s := range stats {
		bounds := fmt.Sprintf("[[%.3f %.3f %.3f] [%.3f %.3f %.3f]]",
			s.BoundsMin.X, s.BoundsMin.Y, s.BoundsMin.Z,
			s.BoundsMax.X, s.BoundsMax.Y, s.BoundsMax.Z)
		record := []string{
			s.Name, s.Class,
			strconv.Itoa(s.NumVertices), strconv.Itoa(s.NumFaces),
			s.FaceType, bounds,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteShapeStatsFile(path string, stats []ShapeStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteShapeStats(f, stats)
}
