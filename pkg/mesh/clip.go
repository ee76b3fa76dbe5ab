package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

// ClipByScalar cuts the mesh at the level set field == threshold and
// returns the part where the field is >= threshold (keepAbove) or
// <= threshold. Triangles straddling the level set are split, with cut
// points interpolated along the crossing edges so the cut boundary is
// exact. field must have one value per vertex.
//
// The result is an open sub-mesh; no cap is generated along the cut.
func (m *TriMesh) ClipByScalar(field []float64, threshold float64, keepAbove bool) (*TriMesh, error) {
	if len(field) != len(m.Vertices) {
		return nil, fmt.Errorf("clip: field length %d != vertex count %d: %w",
			len(field), len(m.Vertices), geom.ErrDegenerateInput)
	}

	// Normalize so that kept vertices have value >= 0.
	val := func(i int) float64 {
		if keepAbove {
			return field[i] - threshold
		}
		return threshold - field[i]
	}

	out := New()
	// Kept original vertices map to their new index lazily.
	vertMap := make(map[int]int)
	// Cut points are shared per directed-independent edge.
	type edge struct{ a, b int }
	edgeMap := make(map[edge]int)

	keepVert := func(i int) int {
		if ni, ok := vertMap[i]; ok {
			return ni
		}
		ni := len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices[i])
		vertMap[i] = ni
		return ni
	}
	cutVert := func(i, j int) int {
		e := edge{i, j}
		if i > j {
			e = edge{j, i}
		}
		if ni, ok := edgeMap[e]; ok {
			return ni
		}
		vi, vj := val(i), val(j)
		t := vi / (vi - vj)
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		p := r3.Add(m.Vertices[i], r3.Scale(t, r3.Sub(m.Vertices[j], m.Vertices[i])))
		ni := len(out.Vertices)
		out.Vertices = append(out.Vertices, p)
		edgeMap[e] = ni
		return ni
	}

	for _, tri := range m.Tris {
		// Walk the triangle boundary collecting the kept polygon
		// (Sutherland-Hodgman against the half-space val >= 0).
		var poly []int
		for k := 0; k < 3; k++ {
			i, j := tri[k], tri[(k+1)%3]
			vi, vj := val(i), val(j)
			if vi >= 0 {
				poly = append(poly, keepVert(i))
			}
			if (vi >= 0) != (vj >= 0) {
				poly = append(poly, cutVert(i, j))
			}
		}
		// poly has 0 vertices (dropped), 3 (kept or corner), or 4 (quad).
		for k := 2; k < len(poly); k++ {
			out.Tris = append(out.Tris, [3]int{poly[0], poly[k-1], poly[k]})
		}
	}

	return out, nil
}
