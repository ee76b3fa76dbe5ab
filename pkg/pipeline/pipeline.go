// Package pipeline orchestrates the planning stages end to end: fit the
// symmetry plane from labeled landmarks, build the cutting sheet along
// the planning curve, mirror it to the opposite side, split the bone
// into fragments, and derive a registration guide per fragment. Every
// stage communicates through returned values; the pipeline holds no
// state between runs.
package pipeline

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/curve"
	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/guide"
	"github.com/osteoplan/osteoplan/pkg/landmark"
	"github.com/osteoplan/osteoplan/pkg/mesh"
	"github.com/osteoplan/osteoplan/pkg/mirror"
	"github.com/osteoplan/osteoplan/pkg/planefit"
	"github.com/osteoplan/osteoplan/pkg/sheet"
	"github.com/osteoplan/osteoplan/pkg/split"
)

// Logf is the package diagnostic logger; defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// Result is everything a plan run produces. The caller owns the
// returned meshes; the pipeline retains nothing.
type Result struct {
	Plane     geom.Plane
	Sheets    [2]*mesh.TriMesh // [0] = curve side, [1] = mirrored side
	Fragments [2]split.Fragment
	Remainder split.Fragment
	Guides    [2]*mesh.TriMesh
}

// Plan runs the full pipeline on the bone surface. repo supplies the
// labeled landmarks for the symmetry-plane fit; planningCurve is the
// surgeon-drawn cut path on one side, mirrored across the fitted plane
// for the contralateral cut.
func Plan(bone *mesh.TriMesh, repo landmark.Repository, planningCurve curve.Polyline, cfg Config) (*Result, error) {
	if err := bone.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: bone mesh: %w", err)
	}
	if err := planningCurve.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: planning curve: %w", err)
	}

	symPlane, err := FitSymmetryPlane(repo, cfg)
	if err != nil {
		return nil, err
	}
	Logf("pipeline: symmetry plane origin=(%.2f %.2f %.2f) normal=(%.3f %.3f %.3f)",
		symPlane.Origin.X, symPlane.Origin.Y, symPlane.Origin.Z,
		symPlane.Normal.X, symPlane.Normal.Y, symPlane.Normal.Z)

	// Sheet on the drawn side; the contralateral sheet is rebuilt from
	// the mirrored curve rather than mirroring the sheet mesh, so its
	// frame is regenerated outward on its own side.
	sheetA, err := sheet.Build(planningCurve, symPlane, cfg.UpAxisHint, cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("pipeline: near-side sheet: %w", err)
	}
	mirroredCurve := mirror.Curve(planningCurve, symPlane)
	mirror.ValidateSideCurve(planningCurve, mirroredCurve, symPlane)
	sheetB, err := sheet.Build(mirroredCurve, symPlane, cfg.UpAxisHint, cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("pipeline: mirrored sheet: %w", err)
	}
	mirror.ValidateSideMesh(sheetA, sheetB, symPlane)

	fragA, fragB, remainder, err := split.TwoCuts(bone, sheetA, sheetB, cfg.Split)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	labelSides(&fragA, &fragB, symPlane)

	fieldA := mesh.NewDistanceField(sheetA)
	fieldB := mesh.NewDistanceField(sheetB)
	var guides [2]*mesh.TriMesh
	for i, frag := range []split.Fragment{fragA, fragB} {
		g, err := buildGuide(frag, symPlane, fieldA, fieldB, cfg.Guide)
		if err != nil {
			return nil, fmt.Errorf("pipeline: guide for %s: %w", frag.Role, err)
		}
		guides[i] = g
	}

	return &Result{
		Plane:     symPlane,
		Sheets:    [2]*mesh.TriMesh{sheetA, sheetB},
		Fragments: [2]split.Fragment{fragA, fragB},
		Remainder: remainder,
		Guides:    guides,
	}, nil
}

// FitSymmetryPlane resolves the configured plane landmarks from repo
// and fits the plane: an exact plane through three fiducials or a
// best-fit plane through four.
func FitSymmetryPlane(repo landmark.Repository, cfg Config) (geom.Plane, error) {
	var pts []r3.Vec
	for _, synonyms := range cfg.PlaneLandmarks {
		p, err := landmark.Find(repo, synonyms...)
		if err != nil {
			return geom.Plane{}, fmt.Errorf("pipeline: plane landmark: %w", err)
		}
		pts = append(pts, p)
	}
	switch len(pts) {
	case 3:
		return planefit.Exact(pts[0], pts[1], pts[2])
	case 4:
		return planefit.BestFit(pts)
	default:
		return geom.Plane{}, fmt.Errorf("pipeline: need 3 or 4 plane landmarks, have %d: %w",
			len(pts), geom.ErrDegenerateInput)
	}
}

// DeriveOuterPoint locates a lateral landmark (e.g. a gonion) that is
// not directly placed, by triangulation from the two configured
// reference landmarks. sideSign selects the side of the symmetry plane
// (+1 on the normal side).
func DeriveOuterPoint(bone *mesh.TriMesh, repo landmark.Repository, symPlane geom.Plane, sideSign float64, cfg Config) (r3.Vec, error) {
	me, err := landmark.Find(repo, cfg.MentonLabels...)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("pipeline: %w", err)
	}
	coLabels := cfg.CondylionRightLabels
	if sideSign < 0 {
		coLabels = cfg.CondylionLeftLabels
	}
	co, err := landmark.Find(repo, coLabels...)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("pipeline: %w", err)
	}
	return landmark.SolveOuterPoint(me, co, bone, symPlane, sideSign, nil, cfg.OuterPoint)
}

// buildGuide derives the registration guide for one fragment: offset
// shell, outer half against a midline-parallel reference through the
// fragment centroid, then the dual-sheet proximity carve.
func buildGuide(frag split.Fragment, symPlane geom.Plane, fieldA, fieldB *mesh.DistanceField, cfg guide.Config) (*mesh.TriMesh, error) {
	shell, err := guide.Shell(frag.Mesh, cfg)
	if err != nil {
		return nil, err
	}
	// Reference surface: the symmetry plane translated to the fragment
	// centroid, oriented outward, so "outer" is the cheek-facing half.
	c := frag.Mesh.Centroid()
	n := symPlane.Normal
	if symPlane.SignedDistance(c) < 0 {
		n = r3.Scale(-1, n)
	}
	ref := geom.NewPlane(c, n)

	half, err := guide.OuterHalf(shell, ref, cfg)
	if err != nil {
		return nil, err
	}
	return guide.CarveByProximity(half, fieldA, fieldB, cfg)
}

// labelSides renames the two fragments by which side of the symmetry
// plane their centroid lies on.
func labelSides(a, b *split.Fragment, symPlane geom.Plane) {
	side := func(f *split.Fragment) string {
		if symPlane.SignedDistance(f.Mesh.Centroid()) >= 0 {
			return "fragment-right"
		}
		return "fragment-left"
	}
	a.Role = side(a)
	b.Role = side(b)
}
