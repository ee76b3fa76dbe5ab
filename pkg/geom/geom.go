// Package geom provides the shared vector, plane, and transform primitives
// used throughout the planning pipeline, plus the error taxonomy every
// geometry stage reports through. Points and directions are gonum r3.Vec
// values in world millimeters.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon bounds below which geometric quantities are treated as degenerate.
const (
	// ZeroLengthEps is the squared-norm floor for direction vectors.
	ZeroLengthEps = 1e-12
	// CollinearEps is the cross-product magnitude floor for plane fitting.
	CollinearEps = 1e-6
)

// Unit returns v normalized to unit length. Vectors shorter than
// ZeroLengthEps are returned unchanged so callers can detect the
// degeneracy themselves.
func Unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < ZeroLengthEps {
		return v
	}
	return r3.Scale(1/n, v)
}

// IsZero reports whether v is shorter than the zero-length epsilon.
func IsZero(v r3.Vec) bool {
	return r3.Norm(v) < ZeroLengthEps
}

// DominantAxis returns the index (0=X, 1=Y, 2=Z) of the component of v
// with the largest absolute value.
func DominantAxis(v r3.Vec) int {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

// Component returns the axis-th component of v.
func Component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
