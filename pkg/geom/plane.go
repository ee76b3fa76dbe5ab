package geom

import "gonum.org/v1/gonum/spatial/r3"

// Plane is an oriented plane given by a point on the plane and a unit
// normal. The zero value is invalid; construct with NewPlane.
type Plane struct {
	Origin r3.Vec
	Normal r3.Vec
}

// NewPlane returns a plane through origin with the given normal,
// normalized to unit length.
func NewPlane(origin, normal r3.Vec) Plane {
	return Plane{Origin: origin, Normal: Unit(normal)}
}

// SignedDistance returns the signed distance from p to the plane,
// positive on the side the normal points into.
func (pl Plane) SignedDistance(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, pl.Origin), pl.Normal)
}

// Project returns the orthogonal projection of p onto the plane.
func (pl Plane) Project(p r3.Vec) r3.Vec {
	return r3.Sub(p, r3.Scale(pl.SignedDistance(p), pl.Normal))
}

// Flipped returns the plane with its normal reversed.
func (pl Plane) Flipped() Plane {
	return Plane{Origin: pl.Origin, Normal: r3.Scale(-1, pl.Normal)}
}
