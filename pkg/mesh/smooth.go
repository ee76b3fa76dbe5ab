package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Taubin smoothing factors. The shrink/inflate pair keeps the surface
// close to its starting volume, unlike plain Laplacian smoothing which
// erodes it.
const (
	taubinLambda = 0.5
	taubinMu     = -0.53
)

// Smooth runs the given number of Taubin smoothing passes in place.
// Vertex positions move toward (lambda) and away from (mu) the average
// of their edge-connected neighbors.
func (m *TriMesh) Smooth(iterations int) {
	if iterations <= 0 || m.IsEmpty() {
		return
	}
	// Neighbor lists from triangle edges.
	nbrs := make(map[int]map[int]struct{}, len(m.Vertices))
	link := func(a, b int) {
		if nbrs[a] == nil {
			nbrs[a] = make(map[int]struct{})
		}
		nbrs[a][b] = struct{}{}
	}
	for _, t := range m.Tris {
		link(t[0], t[1])
		link(t[1], t[0])
		link(t[1], t[2])
		link(t[2], t[1])
		link(t[2], t[0])
		link(t[0], t[2])
	}

	next := make([]r3.Vec, len(m.Vertices))
	pass := func(factor float64) {
		for i, v := range m.Vertices {
			nb := nbrs[i]
			if len(nb) == 0 {
				next[i] = v
				continue
			}
			var avg r3.Vec
			for j := range nb {
				avg = r3.Add(avg, m.Vertices[j])
			}
			avg = r3.Scale(1/float64(len(nb)), avg)
			next[i] = r3.Add(v, r3.Scale(factor, r3.Sub(avg, v)))
		}
		copy(m.Vertices, next)
	}
	for it := 0; it < iterations; it++ {
		pass(taubinLambda)
		pass(taubinMu)
	}
}
