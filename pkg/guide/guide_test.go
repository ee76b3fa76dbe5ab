package guide

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
	"github.com/osteoplan/osteoplan/pkg/mesh"
)

// coarseConfig keeps the voxel grid small enough for unit tests.
func coarseConfig() Config {
	cfg := DefaultConfig()
	cfg.VoxelSize = 1.0
	cfg.SmoothIterations = 5
	cfg.StripWidth = 2.0
	return cfg
}

func cube(min, max r3.Vec) *mesh.TriMesh {
	m := mesh.New()
	m.Vertices = []r3.Vec{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
	}
	m.Tris = [][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{2, 3, 7}, {2, 7, 6},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	return m
}

func quadAt(x float64) *mesh.TriMesh {
	m := mesh.New()
	m.Vertices = []r3.Vec{
		{X: x, Y: -50, Z: -50}, {X: x, Y: 50, Z: -50}, {X: x, Y: 50, Z: 50}, {X: x, Y: -50, Z: 50},
	}
	m.Tris = [][3]int{{0, 1, 2}, {0, 2, 3}}
	return m
}

func TestShell(t *testing.T) {
	cfg := coarseConfig()
	bone := cube(r3.Vec{X: -5, Y: -5, Z: -5}, r3.Vec{X: 5, Y: 5, Z: 5})
	shell, err := Shell(bone, cfg)
	require.NoError(t, err)
	require.False(t, shell.IsEmpty())
	require.NoError(t, shell.Validate())

	// Every shell vertex sits in the offset band around the bone, up
	// to grid resolution plus a little smoothing drift.
	field := mesh.NewDistanceField(bone)
	slack := 1.5 * cfg.VoxelSize
	for _, v := range shell.Vertices {
		d := field.Distance(v)
		require.GreaterOrEqual(t, d, cfg.Clearance-slack, "vertex %+v inside the clearance gap", v)
		require.LessOrEqual(t, d, cfg.Clearance+cfg.Thickness+slack, "vertex %+v outside the band", v)
	}
}

func TestShellErrors(t *testing.T) {
	cfg := coarseConfig()
	_, err := Shell(mesh.New(), cfg)
	require.ErrorIs(t, err, geom.ErrEmptyResult)

	cfg.VoxelSize = 0
	_, err = Shell(cube(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}), cfg)
	require.ErrorIs(t, err, geom.ErrDegenerateInput)
}

func TestOuterHalf(t *testing.T) {
	cfg := coarseConfig()
	bone := cube(r3.Vec{X: -5, Y: -5, Z: -5}, r3.Vec{X: 5, Y: 5, Z: 5})
	shell, err := Shell(bone, cfg)
	require.NoError(t, err)

	// Reference plane off-center: the larger side is x < 2, so the
	// half must not reach past x = 2 + Expand.
	ref := geom.NewPlane(r3.Vec{X: 2}, r3.Vec{X: 1})
	half, err := OuterHalf(shell, ref, cfg)
	require.NoError(t, err)
	require.False(t, half.IsEmpty())
	require.Less(t, half.Area(), shell.Area())

	_, max := half.Bounds()
	require.LessOrEqual(t, max.X, 2+cfg.Expand+1e-6)
	require.Len(t, half.Components(), 1)
}

func TestCarveByProximity(t *testing.T) {
	cfg := coarseConfig()
	// A flat strip standing in for an outer half, carved against two
	// cutting sheets. The second sheet is out of reach, so the carve
	// keeps a single band around the first.
	strip := mesh.New()
	const nx, ny = 19, 11
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			strip.Vertices = append(strip.Vertices, r3.Vec{
				X: float64(i) * 2, Y: float64(j)*2 - 10,
			})
		}
	}
	idx := func(i, j int) int { return j*nx + i }
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			strip.Tris = append(strip.Tris,
				[3]int{idx(i, j), idx(i+1, j), idx(i+1, j+1)},
				[3]int{idx(i, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}

	sheetA := mesh.NewDistanceField(quadAt(10))
	sheetB := mesh.NewDistanceField(quadAt(200))
	carved, err := CarveByProximity(strip, sheetA, sheetB, cfg)
	require.NoError(t, err)
	require.False(t, carved.IsEmpty())

	// Everything kept lies within StripWidth of the nearer sheet.
	for _, v := range carved.Vertices {
		d := math.Min(sheetA.Distance(v), sheetB.Distance(v))
		require.LessOrEqual(t, d, cfg.StripWidth+1e-6, "vertex %+v outside the carve band", v)
	}
	// The band straddles the first sheet and spans the strip's width.
	min, max := carved.Bounds()
	require.InDelta(t, 8, min.X, 1e-6)
	require.InDelta(t, 12, max.X, 1e-6)
	require.InDelta(t, -10, min.Y, 1e-6)
	require.InDelta(t, 10, max.Y, 1e-6)
}

func TestCarveEmptyResult(t *testing.T) {
	cfg := coarseConfig()
	strip := cube(r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	far := mesh.NewDistanceField(quadAt(500))
	_, err := CarveByProximity(strip, far, far, cfg)
	require.ErrorIs(t, err, geom.ErrEmptyResult)
}
