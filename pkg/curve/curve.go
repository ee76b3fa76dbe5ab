// Package curve resamples planning polylines and equips them with
// continuous outward-oriented orthonormal frames relative to the
// symmetry plane. Sheets are ruled off these frames.
package curve

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

// Polyline is an ordered, directed sequence of at least two points.
type Polyline []r3.Vec

// Validate rejects polylines that cannot carry a frame.
func (p Polyline) Validate() error {
	if len(p) < 2 {
		return fmt.Errorf("curve: polyline needs >=2 points, got %d: %w",
			len(p), geom.ErrDegenerateInput)
	}
	return nil
}

// Resample interpolates p to n evenly parameterized samples along a
// Catmull-Rom spline through the control points. n below the control
// point count is raised to it.
func Resample(p Polyline, n int) (Polyline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if n < len(p) {
		n = len(p)
	}
	out := make(Polyline, n)
	last := float64(len(p) - 1)
	for j := 0; j < n; j++ {
		t := float64(j) * last / float64(max(n-1, 1))
		out[j] = splineAt(p, t)
	}
	return out, nil
}

// splineAt evaluates the Catmull-Rom spline through the control points
// at parameter t in [0, len(p)-1]. End segments clamp the missing
// neighbor so the curve interpolates the first and last control points.
func splineAt(p Polyline, t float64) r3.Vec {
	n := len(p)
	seg := int(t)
	if seg >= n-1 {
		seg = n - 2
	}
	u := t - float64(seg)

	idx := func(i int) r3.Vec {
		if i < 0 {
			i = 0
		}
		if i > n-1 {
			i = n - 1
		}
		return p[i]
	}
	p0, p1, p2, p3 := idx(seg-1), idx(seg), idx(seg+1), idx(seg+2)

	u2 := u * u
	u3 := u2 * u
	c0 := -0.5*u3 + u2 - 0.5*u
	c1 := 1.5*u3 - 2.5*u2 + 1
	c2 := -1.5*u3 + 2*u2 + 0.5*u
	c3 := 0.5*u3 - 0.5*u2
	return r3.Add(
		r3.Add(r3.Scale(c0, p0), r3.Scale(c1, p1)),
		r3.Add(r3.Scale(c2, p2), r3.Scale(c3, p3)),
	)
}

// Extend prepends and appends a point at distance length along the
// local end tangents, pushing boundary artifacts of downstream ruled
// surfaces past the region of interest.
func Extend(p Polyline, length float64) (Polyline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	t := Tangents(p)
	head := r3.Sub(p[0], r3.Scale(length, t[0]))
	tail := r3.Add(p[len(p)-1], r3.Scale(length, t[len(p)-1]))
	out := make(Polyline, 0, len(p)+2)
	out = append(out, head)
	out = append(out, p...)
	out = append(out, tail)
	return out, nil
}

// Tangents returns the unit tangent at every sample: central
// differences inside, forward/backward differences at the two ends.
func Tangents(p Polyline) []r3.Vec {
	t := make([]r3.Vec, len(p))
	for i := range p {
		var v r3.Vec
		switch {
		case i == 0:
			v = r3.Sub(p[1], p[0])
		case i == len(p)-1:
			v = r3.Sub(p[len(p)-1], p[len(p)-2])
		default:
			v = r3.Sub(p[i+1], p[i-1])
		}
		t[i] = geom.Unit(v)
	}
	return t
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
