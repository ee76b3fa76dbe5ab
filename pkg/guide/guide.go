// Package guide derives thin surgical-guide shells that register
// against the planned cut surfaces: an offset distance-field shell
// around the bone fragment, reduced to its outer half and carved down
// to the band nearest the two cutting sheets.
package guide

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/mesh"
)

// Config holds the shell and carve parameters in millimeters.
type Config struct {
	Clearance        float64 // offset between bone and shell inner face
	Thickness        float64 // shell wall thickness
	Padding          float64 // extra grid margin around the bone bounds
	VoxelSize        float64 // grid resolution; dominates runtime and memory
	Expand           float64 // outer-half overlap past the reference surface
	StripWidth       float64 // carve band half-width around the sheets
	SmoothIterations int     // Taubin passes on the extracted shell
}

// DefaultConfig returns the printable-guide defaults.
func DefaultConfig() Config {
	return Config{
		Clearance:        0.35,
		Thickness:        2.2,
		Padding:          6.0,
		VoxelSize:        0.35,
		Expand:           3.0,
		StripWidth:       0.5,
		SmoothIterations: 15,
	}
}

// SignedField is any surface the shell can be sided against. Both
// geom.Plane and *mesh.DistanceField satisfy it, so the outer half can
// be selected against a flat reference plane or a curved reference
// surface.
type SignedField interface {
	SignedDistance(p r3.Vec) float64
}

// bandSDF is the implicit shell: the set of points whose unsigned
// distance to the bone lies in [Clearance, Clearance+Thickness],
// expressed as an SDF whose zero level set bounds that band.
type bandSDF struct {
	field *mesh.DistanceField
	mid   float64
	half  float64
	bb    sdf.Box3
}

func (b *bandSDF) Evaluate(p v3.Vec) float64 {
	d := b.field.Distance(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
	return math.Abs(d-b.mid) - b.half
}

func (b *bandSDF) BoundingBox() sdf.Box3 { return b.bb }

var _ sdf.SDF3 = (*bandSDF)(nil)

// Shell extracts the offset shell around bone: the band of space
// Clearance away from the surface, Thickness thick, iso-surfaced by
// marching cubes over a grid of VoxelSize cells and smoothed. The
// dense grid is transient; only the extracted mesh survives. Returns
// ErrEmptyResult when nothing is extracted (grid too coarse, clearance
// too large for the local anatomy).
func Shell(bone *mesh.TriMesh, cfg Config) (*mesh.TriMesh, error) {
	if bone.IsEmpty() {
		return nil, fmt.Errorf("guide: empty bone mesh: %w", geom.ErrEmptyResult)
	}
	if cfg.VoxelSize <= 0 {
		return nil, fmt.Errorf("guide: voxel size %.3f must be positive: %w",
			cfg.VoxelSize, geom.ErrDegenerateInput)
	}

	min, max := bone.Bounds()
	pad := cfg.Clearance + cfg.Thickness + cfg.Padding
	min = r3.Sub(min, r3.Vec{X: pad, Y: pad, Z: pad})
	max = r3.Add(max, r3.Vec{X: pad, Y: pad, Z: pad})

	ext := r3.Sub(max, min)
	longest := math.Max(ext.X, math.Max(ext.Y, ext.Z))
	cells := int(math.Ceil(longest / cfg.VoxelSize))
	if cells < 2 {
		cells = 2
	}

	band := &bandSDF{
		field: mesh.NewDistanceField(bone),
		mid:   cfg.Clearance + cfg.Thickness/2,
		half:  cfg.Thickness / 2,
		bb: sdf.Box3{
			Min: v3.Vec{X: min.X, Y: min.Y, Z: min.Z},
			Max: v3.Vec{X: max.X, Y: max.Y, Z: max.Z},
		},
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(band, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("guide: shell extraction produced no geometry: %w", geom.ErrEmptyResult)
	}

	corners := make([]r3.Vec, 0, len(triangles)*3)
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			corners = append(corners, r3.Vec{X: v.X, Y: v.Y, Z: v.Z})
		}
	}
	shell := mesh.FromTriangleSoup(corners, cfg.VoxelSize*1e-3)
	shell.Smooth(cfg.SmoothIterations)
	if shell.IsEmpty() {
		return nil, fmt.Errorf("guide: shell empty after welding: %w", geom.ErrEmptyResult)
	}
	return shell, nil
}

// OuterHalf splits the shell by the reference surface and keeps the
// side with the larger surface area, re-clipped Expand past the
// reference so the halves overlap slightly. Offset-shell topology does
// not reliably preserve an inner/outer sign convention, hence the
// empirical area comparison. Only the largest connected component
// survives.
func OuterHalf(shell *mesh.TriMesh, ref SignedField, cfg Config) (*mesh.TriMesh, error) {
	s := make([]float64, shell.VertexCount())
	for i, v := range shell.Vertices {
		s[i] = ref.SignedDistance(v)
	}
	pos, err := shell.ClipByScalar(s, 0, true)
	if err != nil {
		return nil, fmt.Errorf("guide: %w", err)
	}
	neg, err := shell.ClipByScalar(s, 0, false)
	if err != nil {
		return nil, fmt.Errorf("guide: %w", err)
	}
	posIsOuter := pos.Area() >= neg.Area()

	var half *mesh.TriMesh
	if posIsOuter {
		half, err = shell.ClipByScalar(s, -cfg.Expand, true)
	} else {
		half, err = shell.ClipByScalar(s, cfg.Expand, false)
	}
	if err != nil {
		return nil, fmt.Errorf("guide: %w", err)
	}
	half = half.LargestComponent()
	if half.IsEmpty() {
		return nil, fmt.Errorf("guide: empty after outer-half selection: %w", geom.ErrEmptyResult)
	}
	return half, nil
}

// CarveByProximity keeps the region of outerHalf within StripWidth of
// the nearer of the two cutting sheets, then the largest connected
// component. The result is the thin band that registers against
// whichever cut surface is closest: the printable guide.
func CarveByProximity(outerHalf *mesh.TriMesh, sheetA, sheetB *mesh.DistanceField, cfg Config) (*mesh.TriMesh, error) {
	dmin := make([]float64, outerHalf.VertexCount())
	for i, v := range outerHalf.Vertices {
		dmin[i] = math.Min(sheetA.Distance(v), sheetB.Distance(v))
	}
	carved, err := outerHalf.ClipByScalar(dmin, cfg.StripWidth, false)
	if err != nil {
		return nil, fmt.Errorf("guide: %w", err)
	}
	carved = carved.LargestComponent()
	if carved.IsEmpty() {
		return nil, fmt.Errorf("guide: empty after sheet-proximity carve: %w", geom.ErrEmptyResult)
	}
	return carved, nil
}
