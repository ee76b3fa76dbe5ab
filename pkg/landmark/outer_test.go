package landmark

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/mesh"
)

// slab triangulates a flat grid on z=0 over x in [0,40], y in [-20,20]
// with 2mm spacing.
func slab() *mesh.TriMesh {
	const step = 2.0
	nx, ny := 21, 21
	m := mesh.New()
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			m.Vertices = append(m.Vertices, r3.Vec{
				X: float64(i) * step,
				Y: -20 + float64(j)*step,
			})
		}
	}
	idx := func(i, j int) int { return j*nx + i }
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			m.Tris = append(m.Tris,
				[3]int{idx(i, j), idx(i+1, j), idx(i+1, j+1)},
				[3]int{idx(i, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}
	return m
}

func TestSolveOuterPoint(t *testing.T) {
	bone := slab()
	me := r3.Vec{}
	co := r3.Vec{X: 30}
	midline := geom.NewPlane(r3.Vec{}, r3.Vec{Y: 1})

	for _, side := range []float64{1, -1} {
		p, err := SolveOuterPoint(me, co, bone, midline, side, nil, DefaultOuterPointConfig())
		if err != nil {
			t.Fatalf("side %+.0f: %v", side, err)
		}
		// The section plane sits perpendicular to co->me where the
		// two distance spheres meet; on this slab that is x near 21.1
		// with the best-fit candidates near y = +-6.5.
		if math.Abs(p.X-21.07) > 0.1 {
			t.Fatalf("side %+.0f: x = %f, want about 21.07", side, p.X)
		}
		if math.Abs(p.Z) > 1e-9 {
			t.Fatalf("side %+.0f: point off the surface: %+v", side, p)
		}
		if side*p.Y < 5.5 || side*p.Y > 7.5 {
			t.Fatalf("side %+.0f: y = %f, want magnitude in [5.5, 7.5]", side, p.Y)
		}
	}
}

func TestSolveOuterPointDistanceFit(t *testing.T) {
	bone := slab()
	me := r3.Vec{}
	co := r3.Vec{X: 30}
	cfg := DefaultOuterPointConfig()
	p, err := SolveOuterPoint(me, co, bone, geom.NewPlane(r3.Vec{}, r3.Vec{Y: 1}), 1, nil, cfg)
	if err != nil {
		t.Fatalf("SolveOuterPoint: %v", err)
	}
	y := r3.Norm(r3.Sub(co, me))
	denom := 1 + cfg.Ratio*cfg.Ratio - 2*cfg.Ratio*math.Cos(cfg.AngleDeg*math.Pi/180)
	d := y / math.Sqrt(denom)
	if e := math.Abs(r3.Norm(r3.Sub(p, co)) - d); e > cfg.DistanceTol {
		t.Fatalf("distance to co off by %f, tolerance %f", e, cfg.DistanceTol)
	}
	if e := math.Abs(r3.Norm(r3.Sub(p, me)) - cfg.Ratio*d); e > cfg.DistanceTol {
		t.Fatalf("distance to me off by %f, tolerance %f", e, cfg.DistanceTol)
	}
}

func TestSolveOuterPointHintAnchorsElevation(t *testing.T) {
	bone := slab()
	hint := r3.Vec{X: 21, Y: 6}
	p, err := SolveOuterPoint(r3.Vec{}, r3.Vec{X: 30}, bone,
		geom.NewPlane(r3.Vec{}, r3.Vec{Y: 1}), 1, &hint, DefaultOuterPointConfig())
	if err != nil {
		t.Fatalf("SolveOuterPoint: %v", err)
	}
	if p.Y < 5.5 || p.Y > 7.5 {
		t.Fatalf("hinted solve drifted to %+v", p)
	}
}

func TestSolveOuterPointDegenerate(t *testing.T) {
	bone := slab()
	pl := geom.NewPlane(r3.Vec{}, r3.Vec{Y: 1})
	_, err := SolveOuterPoint(r3.Vec{X: 5}, r3.Vec{X: 5}, bone, pl, 1, nil, DefaultOuterPointConfig())
	if !errors.Is(err, geom.ErrDegenerateInput) {
		t.Fatalf("coincident landmarks: got %v", err)
	}
	// Landmarks placed so the section plane misses the slab entirely.
	_, err = SolveOuterPoint(r3.Vec{Z: 300}, r3.Vec{Z: 330}, bone, pl, 1, nil, DefaultOuterPointConfig())
	if !errors.Is(err, geom.ErrNoIntersection) {
		t.Fatalf("missing section: got %v", err)
	}
}
