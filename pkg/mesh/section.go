package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

// sectionWeldTol quantizes segment endpoints when chaining a plane
// section into polylines. Millimeter scale; well below any anatomical
// feature.
const sectionWeldTol = 1e-7

// SectionByPlane intersects the mesh with pl and returns the resulting
// boundary curves as chained point sequences, longest first. Each chain
// is open or closed depending on the local topology. Returns
// ErrNoIntersection when the plane misses the mesh.
func (m *TriMesh) SectionByPlane(pl geom.Plane) ([][]r3.Vec, error) {
	d := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		d[i] = pl.SignedDistance(v)
	}

	type seg struct{ a, b r3.Vec }
	var segs []seg
	for _, tri := range m.Tris {
		var pts []r3.Vec
		for k := 0; k < 3; k++ {
			i, j := tri[k], tri[(k+1)%3]
			di, dj := d[i], d[j]
			if (di > 0) == (dj > 0) && di != 0 {
				continue
			}
			if di == 0 && dj == 0 {
				continue
			}
			t := di / (di - dj)
			if math.IsNaN(t) || t < 0 || t > 1 {
				continue
			}
			pts = append(pts, r3.Add(m.Vertices[i], r3.Scale(t, r3.Sub(m.Vertices[j], m.Vertices[i]))))
		}
		if len(pts) >= 2 {
			segs = append(segs, seg{pts[0], pts[1]})
		}
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("section: plane does not meet mesh: %w", geom.ErrNoIntersection)
	}

	// Chain segments into polylines by welding endpoints on a tolerance
	// grid.
	type key [3]int64
	quant := func(p r3.Vec) key {
		return key{
			int64(math.Round(p.X / sectionWeldTol)),
			int64(math.Round(p.Y / sectionWeldTol)),
			int64(math.Round(p.Z / sectionWeldTol)),
		}
	}
	adj := make(map[key][]int)
	for i, s := range segs {
		adj[quant(s.a)] = append(adj[quant(s.a)], i)
		adj[quant(s.b)] = append(adj[quant(s.b)], i)
	}

	used := make([]bool, len(segs))
	var chains [][]r3.Vec
	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []r3.Vec{segs[start].a, segs[start].b}
		// Grow forward from the tail, then backward from the head.
		for dir := 0; dir < 2; dir++ {
			for {
				var end r3.Vec
				if dir == 0 {
					end = chain[len(chain)-1]
				} else {
					end = chain[0]
				}
				next := -1
				for _, si := range adj[quant(end)] {
					if !used[si] {
						next = si
						break
					}
				}
				if next < 0 {
					break
				}
				used[next] = true
				p := segs[next].b
				if quant(segs[next].b) == quant(end) {
					p = segs[next].a
				}
				if dir == 0 {
					chain = append(chain, p)
				} else {
					chain = append([]r3.Vec{p}, chain...)
				}
			}
		}
		chains = append(chains, chain)
	}

	// Longest chain first; downstream consumers usually only want the
	// dominant section curve.
	for i := 0; i < len(chains); i++ {
		for j := i + 1; j < len(chains); j++ {
			if len(chains[j]) > len(chains[i]) {
				chains[i], chains[j] = chains[j], chains[i]
			}
		}
	}
	return chains, nil
}
