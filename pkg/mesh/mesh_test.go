package mesh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

// box returns a 12-triangle axis-aligned box with outward winding.
func box(min, max r3.Vec) *TriMesh {
	m := New()
	m.Vertices = []r3.Vec{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
	}
	m.Tris = [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{2, 3, 7}, {2, 7, 6}, // back
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
	}
	return m
}

func TestBoxArea(t *testing.T) {
	m := box(r3.Vec{}, r3.Vec{X: 2, Y: 3, Z: 4})
	want := 2 * (2*3 + 3*4 + 2*4)
	if got := m.Area(); math.Abs(got-float64(want)) > 1e-9 {
		t.Fatalf("area %f, want %d", got, want)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBoundsAndCentroid(t *testing.T) {
	m := box(r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
	min, max := m.Bounds()
	if r3.Norm(r3.Sub(min, r3.Vec{X: -1, Y: -1, Z: -1})) > 1e-12 ||
		r3.Norm(r3.Sub(max, r3.Vec{X: 1, Y: 1, Z: 1})) > 1e-12 {
		t.Fatalf("bounds %+v %+v", min, max)
	}
	if c := m.Centroid(); r3.Norm(c) > 1e-9 {
		t.Fatalf("centroid %+v, want origin", c)
	}
}

func TestFlipWindingReversesNormals(t *testing.T) {
	m := box(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	before := m.FaceNormal(0)
	m.FlipWinding()
	after := m.FaceNormal(0)
	if r3.Norm(r3.Add(before, after)) > 1e-12 {
		t.Fatalf("flip did not negate the normal: %+v vs %+v", before, after)
	}
}

func TestApplyReflectionFlipsWinding(t *testing.T) {
	m := box(r3.Vec{X: 1}, r3.Vec{X: 2, Y: 1, Z: 1})
	outward := m.FaceNormal(2) // a top triangle, +Z before mirroring
	pl := geom.NewPlane(r3.Vec{}, r3.Vec{Z: 1})
	m.ApplyTransform(geom.ReflectionAcross(pl))
	// The mirrored top face lies at -Z; with the winding flip its
	// normal must point down (still outward).
	got := m.FaceNormal(2)
	if !(outward.Z > 0 && got.Z < 0) {
		t.Fatalf("normals before %+v after %+v", outward, got)
	}
}

func TestValidateRejectsBadIndex(t *testing.T) {
	m := New()
	m.Vertices = []r3.Vec{{}, {X: 1}, {Y: 1}}
	m.Tris = [][3]int{{0, 1, 5}}
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestVerticesWithin(t *testing.T) {
	m := box(r3.Vec{}, r3.Vec{X: 10, Y: 10, Z: 10})
	got := m.VerticesWithin(r3.Vec{}, 1.0)
	if len(got) != 1 {
		t.Fatalf("got %d vertices near origin, want 1", len(got))
	}
	if len(m.VerticesWithin(r3.Vec{X: 5, Y: 5, Z: 5}, 20)) != 8 {
		t.Fatal("large radius should capture all corners")
	}
}
