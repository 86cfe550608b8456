package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
)

func TestResampleWithinBand(t *testing.T) {
	m := unitCube()
	// 8 vertices already sits inside the tolerance band around 100.
	out, err := Resample(m, 100)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumVertices() != 8 {
		t.Errorf("NumVertices() = %d, want 8 (mesh already in band)", out.NumVertices())
	}
}

func TestResampleSubdividesUp(t *testing.T) {
	assert := assert.New(t)
	m := tetraMesh()
	out, err := Resample(m, 700)
	assert.NoError(err)
	assert.GreaterOrEqual(out.NumVertices(), 700-ResampleTolerance)
	assert.LessOrEqual(out.NumVertices(), 700+ResampleTolerance)
}

func TestResampleDecimatesDown(t *testing.T) {
	assert := assert.New(t)
	m := unitCube()
	for i := 0; i < 5; i++ {
		m = m.Subdivide()
	}
	assert.Greater(m.NumVertices(), 2000)

	out, err := Resample(m, 600)
	assert.NoError(err)
	assert.GreaterOrEqual(out.NumVertices(), 600-ResampleTolerance)
	assert.LessOrEqual(out.NumVertices(), 600+ResampleTolerance)
}

func TestResampleNonConvergence(t *testing.T) {
	// Subdividing a tetrahedron quadruples the face count per round; the
	// iteration cap is reached long before ten million vertices.
	_, err := Resample(tetraMesh(), 10_000_000)
	if !errors.Is(err, ErrResampleNonConvergence) {
		t.Errorf("Resample() error = %v, want ErrResampleNonConvergence", err)
	}
}

func TestResampleNoFaces(t *testing.T) {
	m := &Mesh{Vertices: make([]pt.Vector, 2000)}
	if _, err := Resample(m, 100); err == nil {
		t.Error("expected error resampling a mesh with no faces")
	}
}

func TestCovarianceEigenOrdering(t *testing.T) {
	assert := assert.New(t)
	m := boxMesh(4, 2, 1)
	values, vectors, err := covarianceEigen(m.Vertices)
	assert.NoError(err)

	assert.GreaterOrEqual(values[0], values[1])
	assert.GreaterOrEqual(values[1], values[2])

	// Box corners have an axis-aligned covariance: the major axis is X.
	assert.InDelta(1.0, math.Abs(vectors[0].X), 1e-9)
	assert.InDelta(1.0, math.Abs(vectors[1].Y), 1e-9)
	assert.InDelta(1.0, math.Abs(vectors[2].Z), 1e-9)
}

func TestCovarianceEigenTooFewVertices(t *testing.T) {
	if _, _, err := covarianceEigen([]pt.Vector{V(1, 2, 3)}); err == nil {
		t.Error("expected error for single-vertex covariance")
	}
}

func TestNormalizeBox(t *testing.T) {
	assert := assert.New(t)
	m := boxMesh(4, 2, 1)
	m.Translate(V(10, -3, 7))

	out, err := Normalize(m, 8)
	assert.NoError(err)

	c := out.Centroid()
	assert.InDelta(0.0, c.X, 1e-6)
	assert.InDelta(0.0, c.Y, 1e-6)
	assert.InDelta(0.0, c.Z, 1e-6)

	// Largest extent scaled to 1, axes ordered by decreasing extent.
	e := out.Extents()
	assert.InDelta(1.0, e.X, 1e-6)
	assert.InDelta(0.5, e.Y, 1e-6)
	assert.InDelta(0.25, e.Z, 1e-6)

	// Input must be left untouched.
	assert.Equal(V(10, -3, 7), m.Vertices[0])
}

func TestNormalizeAlignsRotatedBox(t *testing.T) {
	assert := assert.New(t)
	m := boxMesh(4, 2, 1)

	// Rotate 45 degrees about Z so the major axis is no longer X.
	s := math.Sqrt(2) / 2
	for i, v := range m.Vertices {
		m.Vertices[i] = V(v.X*s-v.Y*s, v.X*s+v.Y*s, v.Z)
	}

	out, err := Normalize(m, 8)
	assert.NoError(err)

	e := out.Extents()
	assert.InDelta(1.0, e.X, 1e-6)
	assert.InDelta(0.5, e.Y, 1e-6)
	assert.InDelta(0.25, e.Z, 1e-6)
}

func TestNormalizeZeroExtent(t *testing.T) {
	m := &Mesh{
		Vertices: []pt.Vector{V(1, 1, 1), V(1, 1, 1), V(1, 1, 1)},
		Faces:    [][3]int{{0, 1, 2}},
	}
	if _, err := Normalize(m, 3); err == nil {
		t.Error("expected error normalizing a mesh with zero extent")
	}
}
