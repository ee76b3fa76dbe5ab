// Package mesh implements the shared triangle-mesh engine: the TriMesh
// value type plus the clipping, sectioning, connectivity, smoothing, and
// distance-field operations the planning stages are built from.
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

// TriMesh is an indexed triangle mesh. Tris holds vertex indices with
// counter-clockwise winding for outward normals. Scalars, when non-nil,
// is a per-vertex field with the same length as Vertices.
type TriMesh struct {
	Vertices []r3.Vec
	Tris     [][3]int
	Scalars  []float64
}

// New returns an empty mesh.
func New() *TriMesh {
	return &TriMesh{}
}

// VertexCount returns the number of vertices.
func (m *TriMesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m *TriMesh) TriangleCount() int { return len(m.Tris) }

// IsEmpty reports whether the mesh has no geometry.
func (m *TriMesh) IsEmpty() bool { return len(m.Tris) == 0 }

// Clone returns a deep copy of the mesh.
func (m *TriMesh) Clone() *TriMesh {
	out := &TriMesh{
		Vertices: append([]r3.Vec(nil), m.Vertices...),
		Tris:     append([][3]int(nil), m.Tris...),
	}
	if m.Scalars != nil {
		out.Scalars = append([]float64(nil), m.Scalars...)
	}
	return out
}

// Validate checks that every triangle references valid vertices and
// that an attached scalar field matches the vertex count.
func (m *TriMesh) Validate() error {
	for ti, t := range m.Tris {
		for _, v := range t {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("triangle %d references vertex %d of %d: %w",
					ti, v, len(m.Vertices), geom.ErrDegenerateInput)
			}
		}
	}
	if m.Scalars != nil && len(m.Scalars) != len(m.Vertices) {
		return fmt.Errorf("scalar field length %d != vertex count %d: %w",
			len(m.Scalars), len(m.Vertices), geom.ErrDegenerateInput)
	}
	return nil
}

// FaceNormal returns the (unnormalized) normal of triangle ti. Its
// magnitude is twice the triangle area.
func (m *TriMesh) FaceNormal(ti int) r3.Vec {
	t := m.Tris[ti]
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}

// TriangleArea returns the area of triangle ti.
func (m *TriMesh) TriangleArea(ti int) float64 {
	return 0.5 * r3.Norm(m.FaceNormal(ti))
}

// Area returns the total surface area.
func (m *TriMesh) Area() float64 {
	var sum float64
	for ti := range m.Tris {
		sum += m.TriangleArea(ti)
	}
	return sum
}

// Centroid returns the area-weighted surface centroid. An empty mesh
// yields the origin.
func (m *TriMesh) Centroid() r3.Vec {
	var acc r3.Vec
	var area float64
	for ti, t := range m.Tris {
		a := m.TriangleArea(ti)
		c := r3.Scale(1.0/3.0, r3.Add(r3.Add(m.Vertices[t[0]], m.Vertices[t[1]]), m.Vertices[t[2]]))
		acc = r3.Add(acc, r3.Scale(a, c))
		area += a
	}
	if area == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/area, acc)
}

// Bounds returns the axis-aligned bounding box (min, max). An empty
// mesh yields two zero vectors.
func (m *TriMesh) Bounds() (min, max r3.Vec) {
	if len(m.Vertices) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Z < min.Z {
			min.Z = v.Z
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
		if v.Z > max.Z {
			max.Z = v.Z
		}
	}
	return min, max
}

// Translate shifts every vertex by v in place.
func (m *TriMesh) Translate(v r3.Vec) {
	for i := range m.Vertices {
		m.Vertices[i] = r3.Add(m.Vertices[i], v)
	}
}

// ApplyTransform applies t to every vertex in place. When the linear
// part of t inverts handedness (negative determinant, e.g. a
// reflection) the triangle winding is flipped to keep normals outward.
func (m *TriMesh) ApplyTransform(t geom.Transform) {
	for i := range m.Vertices {
		m.Vertices[i] = t.Apply(m.Vertices[i])
	}
	if t.Det() < 0 {
		m.FlipWinding()
	}
}

// FlipWinding reverses the orientation of every triangle in place.
func (m *TriMesh) FlipWinding() {
	for i, t := range m.Tris {
		m.Tris[i] = [3]int{t[0], t[2], t[1]}
	}
}

// VerticesWithin returns the vertices within radius of center. Used by
// the landmark locator's local PCA; a linear scan is fine at the call
// rates involved.
func (m *TriMesh) VerticesWithin(center r3.Vec, radius float64) []r3.Vec {
	r2 := radius * radius
	var out []r3.Vec
	for _, v := range m.Vertices {
		if r3.Norm2(r3.Sub(v, center)) <= r2 {
			out = append(out, v)
		}
	}
	return out
}
