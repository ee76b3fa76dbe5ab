// Package split clips the bone mesh with cutting sheets into fragments
// using an implicit signed-distance field.
package split

import (
	"fmt"
	"log"

	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/mesh"
)

// Logf is the package diagnostic logger; defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// Config holds the splitter tolerances.
type Config struct {
	// MinArea is the surface area below which a clipped piece counts
	// as empty when deciding whether the sheet intersected at all.
	MinArea float64
}

// DefaultConfig returns the splitter defaults.
func DefaultConfig() Config {
	return Config{MinArea: 1e-6}
}

// Fragment is a mesh tagged with its provenance in the plan.
type Fragment struct {
	Mesh *mesh.TriMesh
	Role string // e.g. "fragment-left", "remainder"
}

// BySheet splits bone at the zero level set of the signed distance to
// the cutting sheet and returns (fragment, remainder). The sign of a
// vertex is which side of the local sheet surface it lies on. The
// smaller-area piece is treated as the extracted fragment and the
// larger as the remainder; this is an explicit thin-slice heuristic,
// valid for the intended planning curves, not a general guarantee.
// Returns ErrNoIntersection when either piece comes back empty of area:
// a sheet that misses the bone leaves everything on one side.
func BySheet(bone, cuttingSheet *mesh.TriMesh, cfg Config) (fragment, remainder *mesh.TriMesh, err error) {
	if cuttingSheet.IsEmpty() {
		return nil, nil, fmt.Errorf("split: empty cutting sheet: %w", geom.ErrDegenerateInput)
	}
	field := mesh.NewDistanceField(cuttingSheet)
	dist := make([]float64, bone.VertexCount())
	for i, v := range bone.Vertices {
		dist[i] = field.SignedDistance(v)
	}

	neg, err := bone.ClipByScalar(dist, 0, false)
	if err != nil {
		return nil, nil, fmt.Errorf("split: %w", err)
	}
	pos, err := bone.ClipByScalar(dist, 0, true)
	if err != nil {
		return nil, nil, fmt.Errorf("split: %w", err)
	}
	neg.OrientConsistently()
	pos.OrientConsistently()

	// A sheet that misses the bone leaves one side with all the area
	// and the other empty; either way no cut happened.
	areaNeg, areaPos := neg.Area(), pos.Area()
	if areaNeg <= cfg.MinArea || areaPos <= cfg.MinArea {
		return nil, nil, fmt.Errorf("split: sheet does not intersect bone: %w", geom.ErrNoIntersection)
	}
	if areaNeg <= areaPos {
		return neg, pos, nil
	}
	return pos, neg, nil
}

// TwoCuts applies two cutting sheets in sequence: the first cut yields
// fragment A and an intermediate remainder, the second cut on that
// remainder yields fragment B and the final remainder.
func TwoCuts(bone, sheetA, sheetB *mesh.TriMesh, cfg Config) (a, b, remainder Fragment, err error) {
	fragA, rest, err := BySheet(bone, sheetA, cfg)
	if err != nil {
		return a, b, remainder, fmt.Errorf("split: first cut: %w", err)
	}
	fragB, after, err := BySheet(rest, sheetB, cfg)
	if err != nil {
		return a, b, remainder, fmt.Errorf("split: second cut: %w", err)
	}
	Logf("split: areas A=%.2f B=%.2f remainder=%.2f", fragA.Area(), fragB.Area(), after.Area())
	return Fragment{Mesh: fragA, Role: "fragment-a"},
		Fragment{Mesh: fragB, Role: "fragment-b"},
		Fragment{Mesh: after, Role: "remainder"},
		nil
}
