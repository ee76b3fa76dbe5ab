// Package mirror reflects geometry across the symmetry plane and
// validates that mirrored results actually land on the opposite side.
package mirror

import (
	"log"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/curve"
	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/mesh"
)

// Logf is the package diagnostic logger for non-fatal side-mismatch
// warnings. It defaults to log.Printf; tests or hosts can redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Transform returns the affine reflection across pl. It is its own
// inverse.
func Transform(pl geom.Plane) geom.Transform {
	return geom.ReflectionAcross(pl)
}

// Mesh returns a mirrored copy of m. Reflection inverts handedness, so
// the copy's triangle winding is flipped to keep normals outward (the
// winding flip happens inside ApplyTransform, keyed off the negative
// determinant).
func Mesh(m *mesh.TriMesh, pl geom.Plane) *mesh.TriMesh {
	out := m.Clone()
	out.ApplyTransform(Transform(pl))
	return out
}

// Curve returns a mirrored copy of the polyline. Downstream callers
// rebuild sheets from mirrored curves rather than mirroring sheet
// meshes directly: the open ruled-strip topology of a mirrored sheet
// can still land on the original side.
func Curve(p curve.Polyline, pl geom.Plane) curve.Polyline {
	t := Transform(pl)
	out := make(curve.Polyline, len(p))
	for i, v := range p {
		out[i] = t.Apply(v)
	}
	return out
}

// ValidateSideMesh checks that mirrored lies on the opposite side of pl
// from original, comparing the signed distances of the two surface
// centroids. On a mismatch the mirrored mesh is shifted across the
// plane by twice its projected center distance and a warning is logged;
// validation never fails the run.
func ValidateSideMesh(original, mirrored *mesh.TriMesh, pl geom.Plane) bool {
	so := pl.SignedDistance(original.Centroid())
	sm := pl.SignedDistance(mirrored.Centroid())
	if so*sm < 0 {
		return true
	}
	min, max := mirrored.Bounds()
	center := r3.Scale(0.5, r3.Add(min, max))
	d := pl.SignedDistance(center)
	mirrored.Translate(r3.Scale(-2*d, pl.Normal))
	Logf("mirror: side mismatch (orig %.2f, mirrored %.2f); applied corrective translation %.2f mm",
		so, sm, -2*d)
	return false
}

// ValidateSideCurve is ValidateSideMesh for polylines, comparing mean
// points and shifting the mirrored curve on mismatch.
func ValidateSideCurve(original, mirrored curve.Polyline, pl geom.Plane) bool {
	mean := func(p curve.Polyline) r3.Vec {
		var m r3.Vec
		for _, v := range p {
			m = r3.Add(m, v)
		}
		return r3.Scale(1/float64(len(p)), m)
	}
	so := pl.SignedDistance(mean(original))
	sm := pl.SignedDistance(mean(mirrored))
	if so*sm < 0 {
		return true
	}
	d := pl.SignedDistance(mean(mirrored))
	shift := r3.Scale(-2*d, pl.Normal)
	for i := range mirrored {
		mirrored[i] = r3.Add(mirrored[i], shift)
	}
	Logf("mirror: curve side mismatch (orig %.2f, mirrored %.2f); applied corrective translation", so, sm)
	return false
}
