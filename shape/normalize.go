package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
	"gonum.org/v1/gonum/mat"
)

// ResampleTolerance is the accepted deviation from the target vertex count.
const ResampleTolerance = 500

// Resampling alternates decimation and subdivision; this bounds the number of
// rounds before the mesh is rejected.
const maxResampleIterations = 10

var ErrResampleNonConvergence = errors.New("resampling did not converge on the target vertex count")

// Resample brings the mesh within ResampleTolerance of targetVertices.
// Meshes above the band are decimated proportionally to the target/current
// ratio; meshes below it have every face subdivided. Returns
// ErrResampleNonConvergence if the band is not reached within the iteration
// cap.
func Resample(m *Mesh, targetVertices int) (*Mesh, error) {
	for i := 0; ; i++ {
		n := m.NumVertices()
		if n <= targetVertices+ResampleTolerance && n >= targetVertices-ResampleTolerance {
			return m, nil
		}
		if i >= maxResampleIterations {
			return nil, ErrResampleNonConvergence
		}
		if m.NumFaces() == 0 {
			return nil, fmt.Errorf("cannot resample mesh with no faces")
		}
		if n > targetVertices+ResampleTolerance {
			targetFaces := float64(targetVertices) * float64(m.NumFaces()) / float64(n)
			m = m.Decimate(targetFaces / float64(m.NumFaces()))
			if m.NumFaces() == 0 {
				return nil, fmt.Errorf("decimation collapsed mesh to zero faces")
			}
		}
		if m.NumVertices() < targetVertices-ResampleTolerance {
			m = m.Subdivide()
		}
	}
}

// covarianceEigen returns the eigenvalues and eigenvectors of the sample
// covariance matrix of the vertex positions, ordered by descending eigenvalue.
func covarianceEigen(vertices []pt.Vector) (values [3]float64, vectors [3]pt.Vector, err error) {
	n := len(vertices)
	if n < 2 {
		return values, vectors, fmt.Errorf("need at least 2 vertices for covariance, have %d", n)
	}
	mean := pt.Vector{}
	for _, v := range vertices {
		mean = mean.Add(v)
	}
	mean = mean.DivScalar(float64(n))

	var xx, xy, xz, yy, yz, zz float64
	for _, v := range vertices {
		d := v.Sub(mean)
		xx += d.X * d.X
		xy += d.X * d.Y
		xz += d.X * d.Z
		yy += d.Y * d.Y
		yz += d.Y * d.Z
		zz += d.Z * d.Z
	}
	inv := 1 / float64(n-1)
	cov := mat.NewSymDense(3, []float64{
		xx * inv, xy * inv, xz * inv,
		xy * inv, yy * inv, yz * inv,
		xz * inv, yz * inv, zz * inv,
	})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return values, vectors, fmt.Errorf("eigendecomposition of covariance matrix failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// EigenSym yields ascending eigenvalues; reverse to major-to-minor.
	for i := 0; i < 3; i++ {
		col := 2 - i
		values[i] = vals[col]
		vectors[i] = V(vecs.At(0, col), vecs.At(1, col), vecs.At(2, col))
	}
	return values, vectors, nil
}

// alignAxes re-orders the principal axes by descending projected extent and
// enforces a right-handed frame. The extent ordering overrides the eigenvalue
// ordering when the two disagree.
func alignAxes(axes [3]pt.Vector, vertices []pt.Vector) [3]pt.Vector {
	var extents [3]float64
	for i, axis := range axes {
		min := math.Inf(1)
		max := math.Inf(-1)
		for _, v := range vertices {
			p := v.Dot(axis)
			min = math.Min(min, p)
			max = math.Max(max, p)
		}
		extents[i] = max - min
	}

	order := [3]int{0, 1, 2}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if extents[order[j]] > extents[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	aligned := [3]pt.Vector{axes[order[0]], axes[order[1]], axes[order[2]]}

	if aligned[0].Cross(aligned[1]).Dot(aligned[2]) < 0 {
		aligned[2] = aligned[2].MulScalar(-1)
	}
	return aligned
}

// rotateToBasis expresses every vertex in the given orthonormal basis, then
// flips any axis whose coordinate mean is negative so most of the mesh mass
// sits on the positive side.
func rotateToBasis(m *Mesh, basis [3]pt.Vector) {
	mean := pt.Vector{}
	for i, v := range m.Vertices {
		r := V(v.Dot(basis[0]), v.Dot(basis[1]), v.Dot(basis[2]))
		m.Vertices[i] = r
		mean = mean.Add(r)
	}
	mean = mean.DivScalar(float64(len(m.Vertices)))

	flip := V(1, 1, 1)
	if mean.X < 0 {
		flip.X = -1
	}
	if mean.Y < 0 {
		flip.Y = -1
	}
	if mean.Z < 0 {
		flip.Z = -1
	}
	if flip != V(1, 1, 1) {
		for i, v := range m.Vertices {
			m.Vertices[i] = v.Mul(flip)
		}
	}
}

// Normalize brings a raw mesh to canonical resolution, centering, orientation
// and scale:
//
//  1. resample to targetVertices +/- ResampleTolerance
//  2. translate the centroid to the origin
//  3. align the principal axes with the coordinate axes
//  4. scale uniformly so the largest bounding-box extent is 1
//
// The input mesh is not modified; the returned mesh is a new value.
func Normalize(m *Mesh, targetVertices int) (*Mesh, error) {
	work := m.Copy()
	work.RemoveDuplicateFaces()

	work, err := Resample(work, targetVertices)
	if err != nil {
		return nil, err
	}

	work.Translate(work.Centroid().MulScalar(-1))

	_, axes, err := covarianceEigen(work.Vertices)
	if err != nil {
		return nil, fmt.Errorf("aligning pose: %w", err)
	}
	rotateToBasis(work, alignAxes(axes, work.Vertices))

	maxExtent := work.MaxExtent()
	if maxExtent == 0 {
		return nil, fmt.Errorf("cannot scale mesh with zero extent")
	}
	work.Scale(1 / maxExtent)

	return work, nil
}
