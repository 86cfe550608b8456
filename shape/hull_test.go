package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
)

func TestConvexHullCube(t *testing.T) {
	assert := assert.New(t)
	points := append([]pt.Vector{}, unitCube().Vertices...)
	// Interior and duplicate points must not appear on the hull.
	points = append(points, V(0.5, 0.5, 0.5), V(0.2, 0.7, 0.1), V(0, 0, 0))

	hull, err := ComputeConvexHull(points)
	assert.NoError(err)
	assert.Len(hull.Vertices(), 8)
	assert.InDelta(1.0, hull.Volume(), 1e-9)
}

func TestConvexHullTetrahedron(t *testing.T) {
	assert := assert.New(t)
	hull, err := ComputeConvexHull(tetraMesh().Vertices)
	assert.NoError(err)
	assert.Len(hull.Faces, 4)
	assert.InDelta(1.0/6.0, hull.Volume(), 1e-9)
}

func TestConvexHullOfConcaveShape(t *testing.T) {
	assert := assert.New(t)
	// A cube with a vertex pushed inward: the hull ignores the dent.
	points := append([]pt.Vector{}, unitCube().Vertices...)
	points[6] = V(0.6, 0.6, 0.6)
	points = append(points, V(1, 1, 1))

	hull, err := ComputeConvexHull(points)
	assert.NoError(err)
	assert.InDelta(1.0, hull.Volume(), 1e-9)
}

func TestConvexHullDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []pt.Vector
	}{
		{"too_few", []pt.Vector{V(0, 0, 0), V(1, 0, 0), V(0, 1, 0)}},
		{"collinear", []pt.Vector{V(0, 0, 0), V(1, 0, 0), V(2, 0, 0), V(3, 0, 0)}},
		{"coplanar", []pt.Vector{V(0, 0, 0), V(1, 0, 0), V(0, 1, 0), V(1, 1, 0), V(0.5, 0.5, 0)}},
		{"coincident", []pt.Vector{V(1, 1, 1), V(1, 1, 1), V(1, 1, 1), V(1, 1, 1)}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ComputeConvexHull(test.points); !errors.Is(err, ErrDegenerateHull) {
				t.Errorf("ComputeConvexHull() error = %v, want ErrDegenerateHull", err)
			}
		})
	}
}

func TestDiameter(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(math.Sqrt(3), Diameter(unitCube().Vertices), 1e-9)
	assert.Equal(0.0, Diameter(nil))
	assert.Equal(0.0, Diameter([]pt.Vector{V(1, 2, 3)}))
}
