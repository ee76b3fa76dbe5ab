package curve

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

// frameProjectionEps is the squared-length floor below which the
// projected symmetry normal is unusable as a lateral axis and the
// up-hint fallback kicks in.
const frameProjectionEps = 1e-8

// Frame is a per-sample orthonormal triple along a polyline. Tangent,
// Lateral, and Up have the sample count of the curve; the triple is
// mutually orthogonal, unit length, and continuously oriented (no sign
// flips) along the curve.
type Frame struct {
	Tangent []r3.Vec
	Lateral []r3.Vec
	Up      []r3.Vec
}

// Len returns the sample count.
func (f *Frame) Len() int { return len(f.Tangent) }

// OutwardFrame builds the outward-oriented frame for p relative to the
// symmetry plane. Per sample, the plane normal (signed by which side of
// the plane the sample lies on, so "lateral" always points away from
// the midline) is projected onto the plane orthogonal to the local
// tangent; where the tangent runs nearly parallel to the plane normal
// the lateral axis falls back to cross(upHint, tangent). The up axis is
// cross(tangent, lateral), sign-corrected toward upHint.
func OutwardFrame(p Polyline, symPlane geom.Plane, upHint r3.Vec) (*Frame, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if geom.IsZero(upHint) {
		return nil, fmt.Errorf("curve: zero up-axis hint: %w", geom.ErrDegenerateInput)
	}
	upHint = geom.Unit(upHint)

	f := &Frame{
		Tangent: Tangents(p),
		Lateral: make([]r3.Vec, len(p)),
		Up:      make([]r3.Vec, len(p)),
	}
	for i := range p {
		t := f.Tangent[i]
		sideSign := 1.0
		if symPlane.SignedDistance(p[i]) < 0 {
			sideSign = -1.0
		}
		outward := r3.Scale(sideSign, symPlane.Normal)
		lat := r3.Sub(outward, r3.Scale(r3.Dot(outward, t), t))
		if r3.Norm2(lat) < frameProjectionEps {
			lat = r3.Cross(upHint, t)
		}
		f.Lateral[i] = geom.Unit(lat)
		up := geom.Unit(r3.Cross(t, f.Lateral[i]))
		if r3.Dot(up, upHint) < 0 {
			up = r3.Scale(-1, up)
		}
		f.Up[i] = up
	}
	return f, nil
}
