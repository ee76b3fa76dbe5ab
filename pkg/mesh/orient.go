package mesh

// OrientConsistently flips triangles in place so that winding agrees
// across every shared edge within each connected component: a shared
// edge must be traversed in opposite directions by its two triangles.
// The absolute (inward/outward) orientation of each component is left
// as found; callers that know a reference direction can FlipWinding
// afterwards.
func (m *TriMesh) OrientConsistently() {
	type edge struct{ a, b int }
	// For every undirected edge, the triangles using it.
	uses := make(map[edge][]int)
	und := func(a, b int) edge {
		if a > b {
			a, b = b, a
		}
		return edge{a, b}
	}
	for ti, t := range m.Tris {
		for k := 0; k < 3; k++ {
			e := und(t[k], t[(k+1)%3])
			uses[e] = append(uses[e], ti)
		}
	}

	// hasDirected reports whether triangle ti traverses a->b in order.
	hasDirected := func(ti, a, b int) bool {
		t := m.Tris[ti]
		for k := 0; k < 3; k++ {
			if t[k] == a && t[(k+1)%3] == b {
				return true
			}
		}
		return false
	}

	visited := make([]bool, len(m.Tris))
	for seed := range m.Tris {
		if visited[seed] {
			continue
		}
		queue := []int{seed}
		visited[seed] = true
		for len(queue) > 0 {
			ti := queue[0]
			queue = queue[1:]
			t := m.Tris[ti]
			for k := 0; k < 3; k++ {
				a, b := t[k], t[(k+1)%3]
				for _, nb := range uses[und(a, b)] {
					if nb == ti || visited[nb] {
						continue
					}
					// Neighbor must traverse the edge b->a; if it also
					// goes a->b its winding disagrees.
					if hasDirected(nb, a, b) {
						nt := m.Tris[nb]
						m.Tris[nb] = [3]int{nt[0], nt[2], nt[1]}
					}
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
	}
}
