package mirror

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/curve"
	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/mesh"
)

func muteLogs(t *testing.T) {
	t.Helper()
	old := Logf
	Logf = func(string, ...interface{}) {}
	t.Cleanup(func() { Logf = old })
}

// tetra is a small tetrahedron with outward winding centered near c.
func tetra(c r3.Vec) *mesh.TriMesh {
	m := mesh.New()
	m.Vertices = []r3.Vec{
		r3.Add(c, r3.Vec{X: 1}),
		r3.Add(c, r3.Vec{Y: 1}),
		r3.Add(c, r3.Vec{Z: 1}),
		r3.Add(c, r3.Vec{X: -1, Y: -1, Z: -1}),
	}
	m.Tris = [][3]int{{0, 1, 2}, {0, 3, 1}, {1, 3, 2}, {0, 2, 3}}
	return m
}

func TestMeshMirrorsAcrossPlane(t *testing.T) {
	pl := geom.NewPlane(r3.Vec{}, r3.Vec{X: 1})
	m := tetra(r3.Vec{X: 10})
	got := Mesh(m, pl)

	if got.TriangleCount() != m.TriangleCount() {
		t.Fatal("mirroring changed the triangle count")
	}
	co := m.Centroid()
	cm := got.Centroid()
	if math.Abs(co.X+cm.X) > 1e-9 || math.Abs(co.Y-cm.Y) > 1e-9 || math.Abs(co.Z-cm.Z) > 1e-9 {
		t.Fatalf("centroid %+v mirrored to %+v", co, cm)
	}
	if math.Abs(got.Area()-m.Area()) > 1e-9 {
		t.Fatal("mirroring changed the surface area")
	}
	// Source untouched.
	if pl.SignedDistance(m.Centroid()) < 0 {
		t.Fatal("mirroring mutated its input")
	}
}

func TestMeshKeepsNormalsOutward(t *testing.T) {
	pl := geom.NewPlane(r3.Vec{}, r3.Vec{X: 1})
	m := tetra(r3.Vec{X: 10})
	got := Mesh(m, pl)

	// Outward winding: every face normal points away from the centroid.
	c := got.Centroid()
	for ti := range got.Tris {
		fc := r3.Scale(1.0/3.0, r3.Add(r3.Add(
			got.Vertices[got.Tris[ti][0]],
			got.Vertices[got.Tris[ti][1]]),
			got.Vertices[got.Tris[ti][2]]))
		if r3.Dot(got.FaceNormal(ti), r3.Sub(fc, c)) <= 0 {
			t.Fatalf("triangle %d faces inward after mirroring", ti)
		}
	}
}

func TestCurveMirror(t *testing.T) {
	pl := geom.NewPlane(r3.Vec{X: 2}, r3.Vec{X: 1})
	p := curve.Polyline{{X: 10, Y: 1}, {X: 12, Z: 3}}
	got := Curve(p, pl)
	want := curve.Polyline{{X: -6, Y: 1}, {X: -8, Z: 3}}
	for i := range want {
		if r3.Norm(r3.Sub(got[i], want[i])) > 1e-9 {
			t.Fatalf("point %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestValidateSideMeshPasses(t *testing.T) {
	pl := geom.NewPlane(r3.Vec{}, r3.Vec{X: 1})
	m := tetra(r3.Vec{X: 10})
	if !ValidateSideMesh(m, Mesh(m, pl), pl) {
		t.Fatal("properly mirrored mesh flagged as same-side")
	}
}

func TestValidateSideMeshCorrects(t *testing.T) {
	muteLogs(t)
	pl := geom.NewPlane(r3.Vec{}, r3.Vec{X: 1})
	m := tetra(r3.Vec{X: 10})
	bad := m.Clone() // same side, as if mirroring was skipped
	if ValidateSideMesh(m, bad, pl) {
		t.Fatal("same-side mesh not flagged")
	}
	if d := pl.SignedDistance(bad.Centroid()); d >= 0 {
		t.Fatalf("corrective translation left the mesh at %.2f", d)
	}
}

func TestValidateSideCurveCorrects(t *testing.T) {
	muteLogs(t)
	pl := geom.NewPlane(r3.Vec{}, r3.Vec{X: 1})
	p := curve.Polyline{{X: 5, Y: -5}, {X: 5, Y: 5}}
	bad := curve.Polyline{{X: 5, Y: -5}, {X: 5, Y: 5}}
	if ValidateSideCurve(p, bad, pl) {
		t.Fatal("same-side curve not flagged")
	}
	for i, v := range bad {
		if v.X >= 0 {
			t.Fatalf("point %d still at x=%.2f after correction", i, v.X)
		}
	}
}
