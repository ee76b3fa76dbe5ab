// Package planefit fits the bilateral symmetry plane from labeled
// fiducial points: an exact plane through three points or a PCA
// best-fit plane through four.
package planefit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

// rankEps is the relative singular-value floor below which the fiducial
// configuration is treated as rank-deficient.
const rankEps = 1e-9

// Exact returns the plane through the three points. The normal is the
// normalized cross product of the two edge vectors and the origin is
// the centroid. Collinear points are rejected with ErrDegenerateInput.
func Exact(p0, p1, p2 r3.Vec) (geom.Plane, error) {
	n := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
	if r3.Norm(n) < geom.CollinearEps {
		return geom.Plane{}, fmt.Errorf("planefit: three points are collinear: %w", geom.ErrDegenerateInput)
	}
	origin := r3.Scale(1.0/3.0, r3.Add(r3.Add(p0, p1), p2))
	return geom.NewPlane(origin, canonicalize(geom.Unit(n))), nil
}

// BestFit returns the least-squares plane through exactly four points.
// The origin is the mean; the normal is the left singular vector of the
// centered 3x4 coordinate matrix associated with the smallest singular
// value. The normal sign is canonicalized so its dominant component is
// non-negative, making the orientation deterministic.
func BestFit(points []r3.Vec) (geom.Plane, error) {
	if len(points) != 4 {
		return geom.Plane{}, fmt.Errorf("planefit: need exactly 4 points, got %d: %w",
			len(points), geom.ErrDegenerateInput)
	}

	var mean r3.Vec
	for _, p := range points {
		mean = r3.Add(mean, p)
	}
	mean = r3.Scale(0.25, mean)

	// Rows are x, y, z; columns are the centered points.
	x := mat.NewDense(3, 4, nil)
	for c, p := range points {
		d := r3.Sub(p, mean)
		x.Set(0, c, d.X)
		x.Set(1, c, d.Y)
		x.Set(2, c, d.Z)
	}

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDFull) {
		return geom.Plane{}, fmt.Errorf("planefit: SVD failed to converge: %w", geom.ErrDegenerateInput)
	}
	sv := svd.Values(nil)
	// Need at least a 2D spread: coincident (sv[0]~0) or collinear
	// (sv[1]~0) point sets have no unique fitting plane.
	if sv[0] < rankEps || sv[1] < rankEps*sv[0] {
		return geom.Plane{}, fmt.Errorf("planefit: points are rank-deficient: %w", geom.ErrDegenerateInput)
	}

	var u mat.Dense
	svd.UTo(&u)
	normal := r3.Vec{X: u.At(0, 2), Y: u.At(1, 2), Z: u.At(2, 2)}
	return geom.NewPlane(mean, canonicalize(normal)), nil
}

// RMSError returns the root-mean-square distance of the points to pl.
func RMSError(pl geom.Plane, points []r3.Vec) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		d := pl.SignedDistance(p)
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(points)))
}

// canonicalize flips the normal if needed so that its dominant-axis
// component is non-negative.
func canonicalize(n r3.Vec) r3.Vec {
	if geom.Component(n, geom.DominantAxis(n)) < 0 {
		return r3.Scale(-1, n)
	}
	return n
}
