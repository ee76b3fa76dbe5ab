// Package sheet builds the ruled cutting-sheet surfaces that follow a
// framed planning curve. A sheet is deliberately an open strip, not a
// solid: it only ever serves as a cutting or registration reference.
package sheet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/curve"
	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/mesh"
)

// Config holds the sheet shape parameters in millimeters and degrees.
type Config struct {
	YawDeg        float64 // rotation of the offset axis about the tangent
	LateralOffset float64 // rail distance on the outward side
	MedialOffset  float64 // rail distance on the midline side
	ExtendLength  float64 // curve extension applied before framing
	Samples       int     // resampling density along the curve
}

// DefaultConfig returns the planning defaults.
func DefaultConfig() Config {
	return Config{
		YawDeg:        45.0,
		LateralOffset: 5.0,
		MedialOffset:  15.0,
		ExtendLength:  10.0,
		Samples:       420,
	}
}

// Build resamples and extends the planning curve, frames it outward
// against the symmetry plane, and rules a two-rail strip along it:
// rail_out[i] = p[i] + axis[i]*LateralOffset and
// rail_in[i] = p[i] - axis[i]*MedialOffset, where axis is the lateral
// axis yawed about the tangent by YawDeg. The result has 2N vertices
// and 2(N-1) triangles for N samples.
func Build(p curve.Polyline, symPlane geom.Plane, upHint r3.Vec, cfg Config) (*mesh.TriMesh, error) {
	resampled, err := curve.Resample(p, cfg.Samples)
	if err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}
	extended, err := curve.Extend(resampled, cfg.ExtendLength)
	if err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}
	frame, err := curve.OutwardFrame(extended, symPlane, upHint)
	if err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}
	return Rule(extended, frame, cfg)
}

// Rule builds the ruled strip from an already framed curve. Exposed
// separately so callers that mirror a curve can reuse its frame
// construction path.
func Rule(p curve.Polyline, frame *curve.Frame, cfg Config) (*mesh.TriMesh, error) {
	n := len(p)
	if n < 2 || frame.Len() != n {
		return nil, fmt.Errorf("sheet: frame/curve sample mismatch (%d vs %d): %w",
			frame.Len(), n, geom.ErrDegenerateInput)
	}

	yaw := cfg.YawDeg * math.Pi / 180
	cos, sin := math.Cos(yaw), math.Sin(yaw)

	m := mesh.New()
	m.Vertices = make([]r3.Vec, 0, 2*n)
	// Outward rail first, then the medial rail, matching the index
	// layout the triangulation below assumes.
	for i := 0; i < n; i++ {
		axis := r3.Add(r3.Scale(cos, frame.Lateral[i]), r3.Scale(sin, frame.Up[i]))
		m.Vertices = append(m.Vertices, r3.Add(p[i], r3.Scale(cfg.LateralOffset, axis)))
	}
	for i := 0; i < n; i++ {
		axis := r3.Add(r3.Scale(cos, frame.Lateral[i]), r3.Scale(sin, frame.Up[i]))
		m.Vertices = append(m.Vertices, r3.Sub(p[i], r3.Scale(cfg.MedialOffset, axis)))
	}
	for i := 0; i < n-1; i++ {
		m.Tris = append(m.Tris,
			[3]int{i, i + n, i + 1 + n},
			[3]int{i, i + 1 + n, i + 1},
		)
	}
	return m, nil
}
