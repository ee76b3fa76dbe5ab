package mesh

// Components returns the triangle indices of each vertex-connected
// component, unordered.
func (m *TriMesh) Components() [][]int {
	if m.IsEmpty() {
		return nil
	}
	// Union-find over vertices, then bucket triangles by root.
	parent := make([]int, len(m.Vertices))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for _, t := range m.Tris {
		union(t[0], t[1])
		union(t[1], t[2])
	}
	buckets := make(map[int][]int)
	for ti, t := range m.Tris {
		r := find(t[0])
		buckets[r] = append(buckets[r], ti)
	}
	out := make([][]int, 0, len(buckets))
	for _, tris := range buckets {
		out = append(out, tris)
	}
	return out
}

// SubMesh returns a new mesh containing only the given triangles, with
// vertices compacted. The scalar field, if any, is carried over.
func (m *TriMesh) SubMesh(tris []int) *TriMesh {
	out := New()
	vmap := make(map[int]int)
	for _, ti := range tris {
		var nt [3]int
		for k, v := range m.Tris[ti] {
			nv, ok := vmap[v]
			if !ok {
				nv = len(out.Vertices)
				out.Vertices = append(out.Vertices, m.Vertices[v])
				if m.Scalars != nil {
					out.Scalars = append(out.Scalars, m.Scalars[v])
				}
				vmap[v] = nv
			}
			nt[k] = nv
		}
		out.Tris = append(out.Tris, nt)
	}
	return out
}

// LargestComponent returns the connected component with the greatest
// surface area. Clip stages can fragment a mesh; the planning pipeline
// discards the disconnected islands. An empty mesh is returned as is.
func (m *TriMesh) LargestComponent() *TriMesh {
	comps := m.Components()
	if len(comps) <= 1 {
		return m
	}
	best, bestArea := comps[0], -1.0
	for _, c := range comps {
		var a float64
		for _, ti := range c {
			a += m.TriangleArea(ti)
		}
		if a > bestArea {
			best, bestArea = c, a
		}
	}
	return m.SubMesh(best)
}
