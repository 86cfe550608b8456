package shape

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/fogleman/pt/pt"
)

// View renders a normalized mesh to a 2D wireframe preview. Meshes come out
// of Normalize aligned to the coordinate axes, so the preview projects onto
// the XY plane (the two largest principal axes).
type View struct {
	XSize int
	YSize int
	// Margin is the fraction of the image left blank around the shape.
	Margin float64
}

type viewTransform struct {
	scale      float64
	xTranslate float64
	yTranslate float64
	ySize      float64
}

func (t viewTransform) apply(p Point2D) Point2D {
	x := (p.X + t.xTranslate) * t.scale
	// Flip Y so +Y points up in the image.
	y := t.ySize - (p.Y+t.yTranslate)*t.scale
	return Point2D{X: x, Y: y}
}

// Point2D is a projected image-space point.
type Point2D struct {
	X, Y float64
}

func project(v pt.Vector) Point2D {
	return Point2D{X: v.X, Y: v.Y}
}

func (view View) transform(m *Mesh) viewTransform {
	min, max := m.Bounds()
	margin := view.Margin
	if margin <= 0 {
		margin = 0.1
	}
	spanX := max.X - min.X
	spanY := max.Y - min.Y
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	usableX := float64(view.XSize) * (1 - 2*margin)
	usableY := float64(view.YSize) * (1 - 2*margin)
	scale := usableX / spanX
	if s := usableY / spanY; s < scale {
		scale = s
	}
	return viewTransform{
		scale:      scale,
		xTranslate: -min.X + float64(view.XSize)*margin/scale,
		yTranslate: -min.Y + float64(view.YSize)*margin/scale,
		ySize:      float64(view.YSize),
	}
}

// bbLines returns the 12 edges of an axis-aligned bounding box.
func bbLines(min, max pt.Vector) [][2]pt.Vector {
	p000 := V(min.X, min.Y, min.Z)
	p001 := V(min.X, min.Y, max.Z)
	p010 := V(min.X, max.Y, min.Z)
	p011 := V(min.X, max.Y, max.Z)
	p100 := V(max.X, min.Y, min.Z)
	p101 := V(max.X, min.Y, max.Z)
	p110 := V(max.X, max.Y, min.Z)
	p111 := V(max.X, max.Y, max.Z)

	return [][2]pt.Vector{
		{p000, p001}, {p000, p010}, {p000, p100},
		{p111, p110}, {p111, p101}, {p111, p011},
		{p001, p101}, {p001, p011},
		{p010, p110}, {p010, p011},
		{p100, p101}, {p100, p110},
	}
}

// basisLines returns the three axis segments drawn at the box center.
func basisLines(min, max pt.Vector) [][2]pt.Vector {
	center := min.Add(max).DivScalar(2)
	const offset = 0.25
	return [][2]pt.Vector{
		{center, center.Add(V(offset, 0, 0))},
		{center, center.Add(V(0, offset, 0))},
		{center, center.Add(V(0, 0, offset))},
	}
}

// RenderWireframe draws the mesh edges, its bounding box and the basis axes
// into an image.
func (view View) RenderWireframe(m *Mesh) image.Image {
	c := gg.NewContext(view.XSize, view.YSize)
	c.SetRGB(1, 1, 1)
	c.Clear()

	t := view.transform(m)
	drawLine := func(a, b pt.Vector) {
		p1 := t.apply(project(a))
		p2 := t.apply(project(b))
		c.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
		c.Stroke()
	}

	c.SetRGB(0.2, 0.2, 0.2)
	c.SetLineWidth(1)
	edges := map[meshEdge]bool{}
	for _, f := range m.Faces {
		for _, e := range [][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}} {
			a, b := e[0], e[1]
			if a > b {
				a, b = b, a
			}
			if edges[meshEdge{a, b}] {
				continue
			}
			edges[meshEdge{a, b}] = true
			drawLine(m.Vertices[a], m.Vertices[b])
		}
	}

	min, max := m.Bounds()
	c.SetRGB(0.7, 0.1, 0.1)
	c.SetLineWidth(2)
	for _, line := range bbLines(min, max) {
		drawLine(line[0], line[1])
	}

	c.SetRGB(0.1, 0.1, 0.7)
	for _, line := range basisLines(min, max) {
		drawLine(line[0], line[1])
	}

	return c.Image()
}

// SaveWireframePNG renders the mesh and writes the preview to path.
func (view View) SaveWireframePNG(path string, m *Mesh) error {
	c := gg.NewContextForImage(view.RenderWireframe(m))
	return c.SavePNG(path)
}
