package shape

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	lin "github.com/sgreben/piecewiselinear"
)

// Titles and axis labels for the saved distribution plots, keyed by
// descriptor family.
var histogramLabels = map[string][2]string{
	"A3": {"Angle Between 3 Random Vertices", "Angle (radians)"},
	"D1": {"Distance Between Barycenter and Random Vertex", "Distance"},
	"D2": {"Distance Between 2 Random Vertices", "Distance"},
	"D3": {"Square Root of Area of Triangle Given by 3 Random Vertices", "Square Root of Area"},
	"D4": {"Cube Root of Volume of Tetrahedron Formed by 4 Random Vertices", "Cube Root of Volume"},
}

// SaveHistogramPlot renders one histogram descriptor as a bar chart with a
// piecewise-linear density curve overlaid, and saves it as a PNG.
func SaveHistogramPlot(path, title, xLabel string, hist []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Frequency"

	bars, err := plotter.NewBarChart(plotter.Values(hist), vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)

	// Interpolate between bin centers so the overlay reads as a density
	// curve rather than a staircase.
	centers := make([]float64, len(hist))
	for i := range hist {
		centers[i] = float64(i)
	}
	f := lin.Function{X: centers, Y: hist}
	const resolution = 100
	pts := make(plotter.XYs, resolution)
	span := float64(len(hist) - 1)
	for i := 0; i < resolution; i++ {
		x := span * float64(i) / float64(resolution-1)
		pts[i] = plotter.XY{X: x, Y: f.At(x)}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(font.Length(600), font.Length(400), path)
}

// SaveDescriptorPlots writes one PNG per distribution descriptor of the
// shape into dir, named <family>_<class>_<name>.png.
func SaveDescriptorPlots(d *Descriptor, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	histograms := map[string][]float64{
		"A3": d.A3, "D1": d.D1, "D2": d.D2, "D3": d.D3, "D4": d.D4,
	}
	for family, hist := range histograms {
		labels := histogramLabels[family]
		path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.png", family, d.Class, d.Name))
		if err := SaveHistogramPlot(path, labels[0], labels[1], hist); err != nil {
			return fmt.Errorf("plotting %s for %q: %w", family, d.Name, err)
		}
	}
	return nil
}
