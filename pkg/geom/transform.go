package geom

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a 4x4 affine transform in homogeneous coordinates. The
// pipeline only ever builds reflections, but the representation is kept
// general so hosts can compose it with their own scene transforms.
type Transform struct {
	m *mat.Dense // 4x4, row-major semantics via gonum
}

// Identity returns the identity transform.
func Identity() Transform {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return Transform{m: m}
}

// ReflectionAcross builds the affine reflection across pl:
// linear part R = I - 2nn^T, translation t = 2n(n.origin). Applying it
// twice returns the original point up to floating-point error.
func ReflectionAcross(pl Plane) Transform {
	n := Unit(pl.Normal)
	t := Identity()
	nv := []float64{n.X, n.Y, n.Z}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			t.m.Set(r, c, t.m.At(r, c)-2*nv[r]*nv[c])
		}
	}
	d := 2 * r3.Dot(n, pl.Origin)
	t.m.Set(0, 3, d*n.X)
	t.m.Set(1, 3, d*n.Y)
	t.m.Set(2, 3, d*n.Z)
	return t
}

// Translation builds a pure translation by v.
func Translation(v r3.Vec) Transform {
	t := Identity()
	t.m.Set(0, 3, v.X)
	t.m.Set(1, 3, v.Y)
	t.m.Set(2, 3, v.Z)
	return t
}

// Apply transforms the point p.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.m.At(0, 0)*p.X + t.m.At(0, 1)*p.Y + t.m.At(0, 2)*p.Z + t.m.At(0, 3),
		Y: t.m.At(1, 0)*p.X + t.m.At(1, 1)*p.Y + t.m.At(1, 2)*p.Z + t.m.At(1, 3),
		Z: t.m.At(2, 0)*p.X + t.m.At(2, 1)*p.Y + t.m.At(2, 2)*p.Z + t.m.At(2, 3),
	}
}

// ApplyDirection transforms the direction v with the linear part only.
func (t Transform) ApplyDirection(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.m.At(0, 0)*v.X + t.m.At(0, 1)*v.Y + t.m.At(0, 2)*v.Z,
		Y: t.m.At(1, 0)*v.X + t.m.At(1, 1)*v.Y + t.m.At(1, 2)*v.Z,
		Z: t.m.At(2, 0)*v.X + t.m.At(2, 1)*v.Y + t.m.At(2, 2)*v.Z,
	}
}

// Compose returns the transform that applies t after u.
func (t Transform) Compose(u Transform) Transform {
	out := mat.NewDense(4, 4, nil)
	out.Mul(t.m, u.m)
	return Transform{m: out}
}

// Det returns the determinant of the linear part. Reflections have a
// negative determinant, which is what forces a winding flip on meshes.
func (t Transform) Det() float64 {
	lin := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			lin.Set(r, c, t.m.At(r, c))
		}
	}
	return mat.Det(lin)
}
