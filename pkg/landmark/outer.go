package landmark

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/mesh"
)

// OuterPointConfig holds the triangulation geometry and the empirically
// tuned scoring weights for SolveOuterPoint. The weights have no
// documented derivation; they are kept as named, overridable values
// rather than hardened constants.
type OuterPointConfig struct {
	AngleDeg       float64 // subtended angle at the sought point
	Ratio          float64 // L/d ratio of the two target distances
	DistanceTol    float64 // mm tolerance on the (d, L) fit
	ElevationLimit float64 // mm of free rise above the local up axis
	SideWeight     float64 // reward for lateral offset from the symmetry plane
	ErrorWeight    float64 // penalty per mm of distance-fit error
	RiseWeight     float64 // penalty per mm of rise beyond ElevationLimit
	PCARadius      float64 // mm neighborhood for the local up-axis estimate
	PCAMinPoints   int     // below this the up axis falls back to +Z
}

// DefaultOuterPointConfig returns the clinically tuned defaults.
func DefaultOuterPointConfig() OuterPointConfig {
	return OuterPointConfig{
		AngleDeg:       127.0,
		Ratio:          2.0,
		DistanceTol:    0.35,
		ElevationLimit: 6.0,
		SideWeight:     5.0,
		ErrorWeight:    1.5,
		RiseWeight:     1.0,
		PCARadius:      25.0,
		PCAMinPoints:   20,
	}
}

// SolveOuterPoint locates an unlabeled lateral landmark by geometric
// triangulation from two placed landmarks me and co on the bone
// surface. With Y = |co-me|, the law of cosines with subtended angle
// AngleDeg and ratio r = L/d gives the two target distances
// d = Y/sqrt(1+r^2-2r cos(angle)) and L = r*d. The candidate set is the
// bone's section curve on the plane perpendicular to the co->me axis at
// offset a = (d^2-L^2+Y^2)/(2Y); candidates are scored by distance-fit
// error, by lying on the side of symPlane selected by sideSign, and by
// elevation above a locally estimated up axis. hint, when non-nil,
// anchors the elevation reference instead of the candidate centroid.
func SolveOuterPoint(me, co r3.Vec, bone *mesh.TriMesh, symPlane geom.Plane, sideSign float64, hint *r3.Vec, cfg OuterPointConfig) (r3.Vec, error) {
	y := r3.Norm(r3.Sub(co, me))
	if y < geom.ZeroLengthEps {
		return r3.Vec{}, fmt.Errorf("landmark: reference landmarks coincide: %w", geom.ErrDegenerateInput)
	}
	denom := 1 + cfg.Ratio*cfg.Ratio - 2*cfg.Ratio*math.Cos(cfg.AngleDeg*math.Pi/180)
	if denom <= 1e-12 {
		return r3.Vec{}, fmt.Errorf("landmark: triangulation denominator %.3g (angle %.1f, ratio %.2f): %w",
			denom, cfg.AngleDeg, cfg.Ratio, geom.ErrDegenerateInput)
	}
	d := y / math.Sqrt(denom)
	l := cfg.Ratio * d

	// Section plane perpendicular to the co->me axis at the offset
	// where the two target spheres meet.
	u := geom.Unit(r3.Sub(me, co))
	a := (d*d - l*l + y*y) / (2 * y)
	section := geom.NewPlane(r3.Add(co, r3.Scale(a, u)), u)

	chains, err := bone.SectionByPlane(section)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("landmark: section plane misses bone: %w", geom.ErrNoIntersection)
	}
	var cands []r3.Vec
	for _, chain := range chains {
		cands = append(cands, chain...)
	}

	// Fit error against the two target distances. Candidates outside
	// tolerance are excluded unless none qualify, in which case the
	// single best-error point survives.
	errs := make([]float64, len(cands))
	bestErr, bestIdx := math.Inf(1), 0
	for i, p := range cands {
		e := math.Max(
			math.Abs(r3.Norm(r3.Sub(p, co))-d),
			math.Abs(r3.Norm(r3.Sub(p, me))-l),
		)
		errs[i] = e
		if e < bestErr {
			bestErr, bestIdx = e, i
		}
	}
	var keep []int
	for i, e := range errs {
		if e <= cfg.DistanceTol {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		keep = []int{bestIdx}
	}

	// Prefer candidates on the requested side of the symmetry plane;
	// if none are, keep the full set rather than failing.
	var onSide []int
	for _, i := range keep {
		if symPlane.SignedDistance(cands[i])*sideSign > 0 {
			onSide = append(onSide, i)
		}
	}
	if len(onSide) > 0 {
		keep = onSide
	}

	// Elevation reference: the hint point when given, otherwise the
	// centroid of the surviving candidates.
	var ref r3.Vec
	if hint != nil {
		ref = *hint
	} else {
		for _, i := range keep {
			ref = r3.Add(ref, cands[i])
		}
		ref = r3.Scale(1/float64(len(keep)), ref)
	}
	up := localUpAxis(bone, ref, cfg)

	best := keep[0]
	bestScore := math.Inf(-1)
	for _, i := range keep {
		p := cands[i]
		side := math.Abs(symPlane.SignedDistance(p))
		rise := math.Max(0, r3.Dot(r3.Sub(p, ref), up))
		score := cfg.SideWeight*side -
			cfg.RiseWeight*math.Max(0, rise-cfg.ElevationLimit) -
			cfg.ErrorWeight*errs[i]
		if score > bestScore {
			bestScore, best = score, i
		}
	}
	return cands[best], nil
}

// localUpAxis estimates the dominant surface direction around center as
// the largest-eigenvalue principal axis of the vertex neighborhood,
// oriented toward +Z. Sparse neighborhoods fall back to +Z.
func localUpAxis(bone *mesh.TriMesh, center r3.Vec, cfg OuterPointConfig) r3.Vec {
	pts := bone.VerticesWithin(center, cfg.PCARadius)
	if len(pts) < cfg.PCAMinPoints {
		return r3.Vec{Z: 1}
	}
	var mean r3.Vec
	for _, p := range pts {
		mean = r3.Add(mean, p)
	}
	mean = r3.Scale(1/float64(len(pts)), mean)

	cov := mat.NewSymDense(3, nil)
	for _, p := range pts {
		d := r3.Sub(p, mean)
		v := [3]float64{d.X, d.Y, d.Z}
		for r := 0; r < 3; r++ {
			for c := r; c < 3; c++ {
				cov.SetSym(r, c, cov.At(r, c)+v[r]*v[c])
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return r3.Vec{Z: 1}
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	// Eigenvalues ascend; the dominant axis is the last column.
	up := geom.Unit(r3.Vec{X: vecs.At(0, 2), Y: vecs.At(1, 2), Z: vecs.At(2, 2)})
	if up.Z < 0 {
		up = r3.Scale(-1, up)
	}
	return up
}
