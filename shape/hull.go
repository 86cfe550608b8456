package shape

import (
	"errors"
	"math"

	"github.com/fogleman/pt/pt"
)

// ErrDegenerateHull is returned when the input points do not span three
// dimensions and no convex hull volume exists.
var ErrDegenerateHull = errors.New("point set is degenerate, convex hull is not a solid")

// Hull is a convex hull as a set of outward-facing triangles over the
// deduplicated input points.
type Hull struct {
	Points []pt.Vector
	Faces  [][3]int
}

type hullEdge struct {
	a, b int
}

// ComputeConvexHull builds the convex hull of the given points with an
// incremental algorithm: start from an extreme tetrahedron, then for every
// remaining point delete the faces it can see and re-triangulate the horizon.
func ComputeConvexHull(points []pt.Vector) (*Hull, error) {
	unique := make([]pt.Vector, 0, len(points))
	seen := map[pt.Vector]bool{}
	for _, p := range points {
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}
	if len(unique) < 4 {
		return nil, ErrDegenerateHull
	}

	scale := 0.0
	min, max := unique[0], unique[0]
	for _, p := range unique {
		min = min.Min(p)
		max = max.Max(p)
	}
	e := max.Sub(min)
	scale = math.Max(e.X, math.Max(e.Y, e.Z))
	if scale == 0 {
		return nil, ErrDegenerateHull
	}
	eps := 1e-10 * scale

	i0, i1, i2, i3, err := initialTetrahedron(unique, eps)
	if err != nil {
		return nil, err
	}

	h := &Hull{Points: unique}
	h.Faces = [][3]int{
		{i0, i1, i2},
		{i0, i2, i3},
		{i0, i3, i1},
		{i1, i3, i2},
	}
	inner := unique[i0].Add(unique[i1]).Add(unique[i2]).Add(unique[i3]).DivScalar(4)
	for i, f := range h.Faces {
		if h.signedDistance(f, inner) > 0 {
			h.Faces[i] = [3]int{f[0], f[2], f[1]}
		}
	}

	for i := range unique {
		if i == i0 || i == i1 || i == i2 || i == i3 {
			continue
		}
		h.addPoint(i, eps)
	}
	return h, nil
}

// signedDistance is positive when p lies outside the face.
func (h *Hull) signedDistance(f [3]int, p pt.Vector) float64 {
	v0 := h.Points[f[0]]
	n := h.Points[f[1]].Sub(v0).Cross(h.Points[f[2]].Sub(v0))
	length := n.Length()
	if length == 0 {
		return 0
	}
	return n.DivScalar(length).Dot(p.Sub(v0))
}

func (h *Hull) addPoint(i int, eps float64) {
	p := h.Points[i]
	visible := make([]bool, len(h.Faces))
	any := false
	for fi, f := range h.Faces {
		if h.signedDistance(f, p) > eps {
			visible[fi] = true
			any = true
		}
	}
	if !any {
		return
	}

	// Horizon edges are directed edges of visible faces whose reverse belongs
	// to a hidden face.
	edges := map[hullEdge]bool{}
	for fi, f := range h.Faces {
		if !visible[fi] {
			continue
		}
		edges[hullEdge{f[0], f[1]}] = true
		edges[hullEdge{f[1], f[2]}] = true
		edges[hullEdge{f[2], f[0]}] = true
	}

	kept := h.Faces[:0]
	for fi, f := range h.Faces {
		if !visible[fi] {
			kept = append(kept, f)
		}
	}
	h.Faces = kept

	for edge := range edges {
		if edges[hullEdge{edge.b, edge.a}] {
			continue // interior to the visible region
		}
		h.Faces = append(h.Faces, [3]int{edge.a, edge.b, i})
	}
}

func initialTetrahedron(points []pt.Vector, eps float64) (int, int, int, int, error) {
	// Farthest pair from an arbitrary anchor spans the first edge.
	i0 := 0
	i1 := -1
	best := 0.0
	for i, p := range points {
		if d := p.Sub(points[i0]).Length(); d > best {
			best = d
			i1 = i
		}
	}
	if i1 < 0 || best <= eps {
		return 0, 0, 0, 0, ErrDegenerateHull
	}

	// Farthest point from the edge spans the base triangle.
	dir := points[i1].Sub(points[i0]).Normalize()
	i2 := -1
	best = eps
	for i, p := range points {
		d := p.Sub(points[i0])
		if dist := d.Sub(dir.MulScalar(d.Dot(dir))).Length(); dist > best {
			best = dist
			i2 = i
		}
	}
	if i2 < 0 {
		return 0, 0, 0, 0, ErrDegenerateHull
	}

	// Farthest point from the base plane completes the tetrahedron.
	n := points[i1].Sub(points[i0]).Cross(points[i2].Sub(points[i0])).Normalize()
	i3 := -1
	best = eps
	for i, p := range points {
		if dist := math.Abs(n.Dot(p.Sub(points[i0]))); dist > best {
			best = dist
			i3 = i
		}
	}
	if i3 < 0 {
		return 0, 0, 0, 0, ErrDegenerateHull
	}
	return i0, i1, i2, i3, nil
}

// Vertices returns the points actually referenced by hull faces.
func (h *Hull) Vertices() []pt.Vector {
	used := map[int]bool{}
	vertices := []pt.Vector{}
	for _, f := range h.Faces {
		for _, i := range f {
			if !used[i] {
				used[i] = true
				vertices = append(vertices, h.Points[i])
			}
		}
	}
	return vertices
}

// Volume is the enclosed volume of the hull, computed as the sum of signed
// tetrahedra against the hull's vertex mean.
func (h *Hull) Volume() float64 {
	ref := pt.Vector{}
	vertices := h.Vertices()
	for _, v := range vertices {
		ref = ref.Add(v)
	}
	ref = ref.DivScalar(float64(len(vertices)))

	volume := 0.0
	for _, f := range h.Faces {
		v0, v1, v2 := h.Points[f[0]], h.Points[f[1]], h.Points[f[2]]
		volume += v0.Sub(ref).Dot(v1.Sub(ref).Cross(v2.Sub(ref))) / 6
	}
	return math.Abs(volume)
}

// Diameter is the maximum pairwise distance among the given vertices. It is
// exact and quadratic in the vertex count; callers pass convex hull vertices
// to keep that count small.
func Diameter(vertices []pt.Vector) float64 {
	diameter := 0.0
	for i := 0; i < len(vertices); i++ {
		for j := i + 1; j < len(vertices); j++ {
			if d := vertices[i].Sub(vertices[j]).Length(); d > diameter {
				diameter = d
			}
		}
	}
	return diameter
}
