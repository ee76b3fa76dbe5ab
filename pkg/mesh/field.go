package mesh

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// fieldCandidates is how many nearest triangle centroids the field
// refines with an exact point-triangle test. Enough that the true
// nearest triangle is in the candidate set for the smoothly varying
// meshes the pipeline works on.
const fieldCandidates = 24

// site is a triangle centroid in the kd-tree.
type site struct {
	pos r3.Vec
	tri int
}

func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(site)
	switch d {
	case 0:
		return s.pos.X - q.pos.X
	case 1:
		return s.pos.Y - q.pos.Y
	default:
		return s.pos.Z - q.pos.Z
	}
}

func (s site) Dims() int { return 3 }

func (s site) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(s.pos, c.(site).pos))
}

type sites []site

func (s sites) Index(i int) kdtree.Comparable { return s[i] }
func (s sites) Len() int                      { return len(s) }
func (s sites) Pivot(d kdtree.Dim) int        { return sitePlane{sites: s, Dim: d}.Pivot() }
func (s sites) Slice(start, end int) kdtree.Interface {
	return s[start:end]
}

type sitePlane struct {
	sites
	kdtree.Dim
}

func (p sitePlane) Less(i, j int) bool {
	return p.sites[i].Compare(p.sites[j], p.Dim) < 0
}
func (p sitePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p sitePlane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}
func (p sitePlane) Swap(i, j int) {
	p.sites[i], p.sites[j] = p.sites[j], p.sites[i]
}

// DistanceField answers nearest-point queries against a fixed mesh via
// a kd-tree over triangle centroids refined with exact point-triangle
// distances. Queries are read-only and the field never mutates its
// source mesh.
type DistanceField struct {
	mesh *TriMesh
	tree *kdtree.Tree
}

// NewDistanceField builds a field over m. The mesh must not be mutated
// while the field is in use.
func NewDistanceField(m *TriMesh) *DistanceField {
	cs := make(sites, len(m.Tris))
	for ti, t := range m.Tris {
		c := r3.Scale(1.0/3.0, r3.Add(r3.Add(m.Vertices[t[0]], m.Vertices[t[1]]), m.Vertices[t[2]]))
		cs[ti] = site{pos: c, tri: ti}
	}
	return &DistanceField{mesh: m, tree: kdtree.New(cs, false)}
}

// Nearest returns the closest point on the mesh to p, the triangle it
// lies on, and the unsigned distance.
func (f *DistanceField) Nearest(p r3.Vec) (closest r3.Vec, tri int, dist float64) {
	keep := kdtree.NewNKeeper(fieldCandidates)
	f.tree.NearestSet(keep, site{pos: p})

	best := -1.0
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		s := cd.Comparable.(site)
		t := f.mesh.Tris[s.tri]
		q := closestOnTriangle(p, f.mesh.Vertices[t[0]], f.mesh.Vertices[t[1]], f.mesh.Vertices[t[2]])
		d2 := r3.Norm2(r3.Sub(p, q))
		if best < 0 || d2 < best {
			best = d2
			closest = q
			tri = s.tri
		}
	}
	if best < 0 {
		return p, -1, 0
	}
	return closest, tri, r3.Norm(r3.Sub(p, closest))
}

// Distance returns the unsigned distance from p to the mesh.
func (f *DistanceField) Distance(p r3.Vec) float64 {
	_, _, d := f.Nearest(p)
	return d
}

// SignedDistance returns the distance from p to the mesh with sign
// taken from the facing of the nearest triangle: positive on the side
// its normal points into. For the open cutting sheets this is the
// "which side of the sheet" predicate the splitter clips on.
func (f *DistanceField) SignedDistance(p r3.Vec) float64 {
	closest, tri, d := f.Nearest(p)
	if tri < 0 {
		return d
	}
	if r3.Dot(r3.Sub(p, closest), f.mesh.FaceNormal(tri)) < 0 {
		return -d
	}
	return d
}

// closestOnTriangle returns the point of triangle (a,b,c) closest to p.
// Standard barycentric-region walk (Ericson, Real-Time Collision
// Detection, 5.1.5).
func closestOnTriangle(p, a, b, c r3.Vec) r3.Vec {
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)
	ap := r3.Sub(p, a)

	d1 := r3.Dot(ab, ap)
	d2 := r3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := r3.Sub(p, b)
	d3 := r3.Dot(ab, bp)
	d4 := r3.Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return r3.Add(a, r3.Scale(v, ab))
	}

	cp := r3.Sub(p, c)
	d5 := r3.Dot(ab, cp)
	d6 := r3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return r3.Add(a, r3.Scale(w, ac))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return r3.Add(b, r3.Scale(w, r3.Sub(c, b)))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return r3.Add(a, r3.Add(r3.Scale(v, ab), r3.Scale(w, ac)))
}
