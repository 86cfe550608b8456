package shape

type meshEdge struct {
	a, b int
}

func (m *Mesh) directedEdges() map[meshEdge]int {
	edges := make(map[meshEdge]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		edges[meshEdge{f[0], f[1]}]++
		edges[meshEdge{f[1], f[2]}]++
		edges[meshEdge{f[2], f[0]}]++
	}
	return edges
}

// IsWatertight reports whether every edge is shared by exactly two faces with
// opposite winding, i.e. the mesh has no boundary.
func (m *Mesh) IsWatertight() bool {
	if len(m.Faces) == 0 {
		return false
	}
	edges := m.directedEdges()
	for edge, count := range edges {
		if count != 1 || edges[meshEdge{edge.b, edge.a}] != 1 {
			return false
		}
	}
	return true
}

// boundaryLoops chains boundary edges (edges without an opposing twin) into
// closed vertex loops.
func (m *Mesh) boundaryLoops() [][]int {
	edges := m.directedEdges()
	next := map[int]int{}
	for edge := range edges {
		if edges[meshEdge{edge.b, edge.a}] == 0 {
			next[edge.a] = edge.b
		}
	}

	loops := [][]int{}
	for len(next) > 0 {
		var start int
		for start = range next {
			break
		}
		loop := []int{}
		v := start
		for {
			loop = append(loop, v)
			n, ok := next[v]
			if !ok {
				break // open chain, non-manifold input
			}
			delete(next, v)
			v = n
			if v == start {
				break
			}
		}
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// FillHoles closes every boundary loop with a fan of triangles around the
// loop's vertex mean. This is a repair of last resort before volume
// computation, not a quality remeshing.
func (m *Mesh) FillHoles() {
	for _, loop := range m.boundaryLoops() {
		center := m.Vertices[loop[0]]
		for _, i := range loop[1:] {
			center = center.Add(m.Vertices[i])
		}
		center = center.DivScalar(float64(len(loop)))

		m.Vertices = append(m.Vertices, center)
		ci := len(m.Vertices) - 1
		for i, a := range loop {
			b := loop[(i+1)%len(loop)]
			// Reversed winding relative to the boundary edge keeps the fill
			// consistent with the surrounding faces.
			m.Faces = append(m.Faces, [3]int{b, a, ci})
		}
	}
}
