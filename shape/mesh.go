package shape

import (
	"math"

	"github.com/fogleman/pt/pt"
	"github.com/fogleman/simplify"
)

// Mesh is an indexed triangle mesh. Vertices are positions; Faces index into
// Vertices. A Mesh is mutated in place by the normalization pipeline and must
// not be shared across concurrent tasks.
type Mesh struct {
	Vertices []pt.Vector
	Faces    [][3]int
}

func NewMesh(vertices []pt.Vector, faces [][3]int) *Mesh {
	return &Mesh{Vertices: vertices, Faces: faces}
}

func (m *Mesh) Copy() *Mesh {
	vertices := make([]pt.Vector, len(m.Vertices))
	copy(vertices, m.Vertices)
	faces := make([][3]int, len(m.Faces))
	copy(faces, m.Faces)
	return &Mesh{Vertices: vertices, Faces: faces}
}

func (m *Mesh) NumVertices() int { return len(m.Vertices) }

func (m *Mesh) NumFaces() int { return len(m.Faces) }

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (min, max pt.Vector) {
	if len(m.Vertices) == 0 {
		return pt.Vector{}, pt.Vector{}
	}
	min = m.Vertices[0]
	max = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

func (m *Mesh) Extents() pt.Vector {
	min, max := m.Bounds()
	return max.Sub(min)
}

func (m *Mesh) MaxExtent() float64 {
	e := m.Extents()
	return math.Max(e.X, math.Max(e.Y, e.Z))
}

func faceArea(v1, v2, v3 pt.Vector) float64 {
	return v2.Sub(v1).Cross(v3.Sub(v1)).Length() / 2
}

// SurfaceArea is the sum of the areas of all faces.
func (m *Mesh) SurfaceArea() float64 {
	area := 0.0
	for _, f := range m.Faces {
		area += faceArea(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
	}
	return area
}

// Centroid is the area-weighted mean of the face centers. Falls back to the
// vertex mean when the total surface area is zero.
func (m *Mesh) Centroid() pt.Vector {
	center := pt.Vector{}
	total := 0.0
	for _, f := range m.Faces {
		v1, v2, v3 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		a := faceArea(v1, v2, v3)
		center = center.Add(v1.Add(v2).Add(v3).DivScalar(3).MulScalar(a))
		total += a
	}
	if total > 0 {
		return center.DivScalar(total)
	}
	return m.VertexMean()
}

func (m *Mesh) VertexMean() pt.Vector {
	if len(m.Vertices) == 0 {
		return pt.Vector{}
	}
	mean := pt.Vector{}
	for _, v := range m.Vertices {
		mean = mean.Add(v)
	}
	return mean.DivScalar(float64(len(m.Vertices)))
}

func (m *Mesh) Translate(d pt.Vector) {
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Add(d)
	}
}

func (m *Mesh) Scale(s float64) {
	for i, v := range m.Vertices {
		m.Vertices[i] = v.MulScalar(s)
	}
}

// Subdivide splits every face into four by inserting edge midpoints. Midpoints
// are shared between neighboring faces so the mesh stays connected.
func (m *Mesh) Subdivide() *Mesh {
	vertices := make([]pt.Vector, len(m.Vertices))
	copy(vertices, m.Vertices)
	midpoints := map[[2]int]int{}

	midpoint := func(a, b int) int {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if i, ok := midpoints[key]; ok {
			return i
		}
		v := vertices[a].Add(vertices[b]).DivScalar(2)
		vertices = append(vertices, v)
		midpoints[key] = len(vertices) - 1
		return len(vertices) - 1
	}

	faces := make([][3]int, 0, len(m.Faces)*4)
	for _, f := range m.Faces {
		a, b, c := f[0], f[1], f[2]
		ab := midpoint(a, b)
		bc := midpoint(b, c)
		ca := midpoint(c, a)
		faces = append(faces,
			[3]int{a, ab, ca},
			[3]int{ab, b, bc},
			[3]int{ca, bc, c},
			[3]int{ab, bc, ca},
		)
	}
	return &Mesh{Vertices: vertices, Faces: faces}
}

// Decimate reduces the face count by quadric-error simplification, keeping
// roughly factor * NumFaces() faces. The result is re-indexed with shared
// vertices welded.
func (m *Mesh) Decimate(factor float64) *Mesh {
	tris := make([]*simplify.Triangle, 0, len(m.Faces))
	for _, f := range m.Faces {
		v1, v2, v3 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		tris = append(tris, simplify.NewTriangle(
			simplify.Vector{X: v1.X, Y: v1.Y, Z: v1.Z},
			simplify.Vector{X: v2.X, Y: v2.Y, Z: v2.Z},
			simplify.Vector{X: v3.X, Y: v3.Y, Z: v3.Z},
		))
	}
	simplified := simplify.NewMesh(tris).Simplify(factor)

	out := &Mesh{}
	lookup := map[pt.Vector]int{}
	index := func(v pt.Vector) int {
		if i, ok := lookup[v]; ok {
			return i
		}
		out.Vertices = append(out.Vertices, v)
		lookup[v] = len(out.Vertices) - 1
		return len(out.Vertices) - 1
	}
	for _, t := range simplified.Triangles {
		a := index(V(t.V1.X, t.V1.Y, t.V1.Z))
		b := index(V(t.V2.X, t.V2.Y, t.V2.Z))
		c := index(V(t.V3.X, t.V3.Y, t.V3.Z))
		if a == b || b == c || c == a {
			continue
		}
		out.Faces = append(out.Faces, [3]int{a, b, c})
	}
	return out
}

// RemoveDuplicateFaces drops faces that reference the same vertex triple,
// regardless of winding.
func (m *Mesh) RemoveDuplicateFaces() {
	seen := map[[3]int]bool{}
	faces := m.Faces[:0]
	for _, f := range m.Faces {
		key := f
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if key[1] > key[2] {
			key[1], key[2] = key[2], key[1]
		}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		faces = append(faces, f)
	}
	m.Faces = faces
}
