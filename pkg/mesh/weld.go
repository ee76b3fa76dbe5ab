package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FromTriangleSoup builds an indexed mesh from a flat list of triangle
// corners (three points per triangle), welding coincident corners on a
// tolerance grid so the result has real connectivity. Marching-cubes
// output arrives as soup; clipping and component analysis need shared
// vertices.
func FromTriangleSoup(corners []r3.Vec, tol float64) *TriMesh {
	if tol <= 0 {
		tol = 1e-7
	}
	type key [3]int64
	quant := func(p r3.Vec) key {
		return key{
			int64(math.Round(p.X / tol)),
			int64(math.Round(p.Y / tol)),
			int64(math.Round(p.Z / tol)),
		}
	}
	out := New()
	seen := make(map[key]int)
	index := func(p r3.Vec) int {
		k := quant(p)
		if i, ok := seen[k]; ok {
			return i
		}
		i := len(out.Vertices)
		out.Vertices = append(out.Vertices, p)
		seen[k] = i
		return i
	}
	for i := 0; i+2 < len(corners); i += 3 {
		t := [3]int{index(corners[i]), index(corners[i+1]), index(corners[i+2])}
		// Welding can collapse sliver triangles; drop them.
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			continue
		}
		out.Tris = append(out.Tris, t)
	}
	return out
}
