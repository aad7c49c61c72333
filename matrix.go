package sdf

import (
	"math"

	"github.com/rocketcad/sdf/internal/d2"
	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Affine transforms for SDF2 (m33) and SDF3 (m44). Storage is row major,
// the last row is always (0, 0, 1) or (0, 0, 0, 1).

// m33 is a 2D affine transform.
type m33 [9]float64

// m44 is a 3D affine transform.
type m44 [16]float64

func identity2d() m33 {
	return m33{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Identity3d returns the 3D identity transform.
func Identity3d() m44 {
	return m44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate2D returns a 2D translation.
func Translate2D(v r2.Vec) m33 {
	return m33{
		1, 0, v.X,
		0, 1, v.Y,
		0, 0, 1,
	}
}

// Scale2D returns a 2D scaling. A negative component mirrors across that axis.
func Scale2D(v r2.Vec) m33 {
	return m33{
		v.X, 0, 0,
		0, v.Y, 0,
		0, 0, 1,
	}
}

// MirrorX2D mirrors across the Y axis (x becomes -x).
func MirrorX2D() m33 { return Scale2D(r2.Vec{X: -1, Y: 1}) }

// Rotate returns a 2D rotation about the origin by a radians.
func Rotate(a float64) m33 {
	s, c := math.Sincos(a)
	return m33{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Rotate2D is an alias of Rotate kept next to the 3D constructors.
func Rotate2D(a float64) m33 { return Rotate(a) }

// Mul returns a*b.
func (a m33) Mul(b m33) m33 {
	var m m33
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[3*i+j] = a[3*i]*b[j] + a[3*i+1]*b[3+j] + a[3*i+2]*b[6+j]
		}
	}
	return m
}

// MulPosition applies the transform to a position vector.
func (a m33) MulPosition(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: a[0]*p.X + a[1]*p.Y + a[2],
		Y: a[3]*p.X + a[4]*p.Y + a[5],
	}
}

// MulBox returns the axis aligned box enclosing the transformed box.
func (a m33) MulBox(box r2.Box) r2.Box {
	v := d2.Box(box).Vertices()
	for i := range v {
		v[i] = a.MulPosition(v[i])
	}
	return r2.Box{Min: v.Min(), Max: v.Max()}
}

// Determinant of the linear part.
func (a m33) Determinant() float64 {
	return a[0]*a[4] - a[1]*a[3]
}

// Inverse returns the inverse affine transform. It panics if the transform is singular.
func (a m33) Inverse() m33 {
	det := a.Determinant()
	if det == 0 {
		panic("singular m33 transform")
	}
	k := 1 / det
	i00, i01 := a[4]*k, -a[1]*k
	i10, i11 := -a[3]*k, a[0]*k
	return m33{
		i00, i01, -(i00*a[2] + i01*a[5]),
		i10, i11, -(i10*a[2] + i11*a[5]),
		0, 0, 1,
	}
}

// Translate3D returns a 3D translation.
func Translate3D(v r3.Vec) m44 {
	return m44{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// Scale3D returns a 3D scaling.
func Scale3D(v r3.Vec) m44 {
	return m44{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a rotation of a radians about the x axis.
func RotateX(a float64) m44 {
	s, c := math.Sincos(a)
	return m44{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation of a radians about the y axis.
func RotateY(a float64) m44 {
	s, c := math.Sincos(a)
	return m44{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation of a radians about the z axis.
func RotateZ(a float64) m44 {
	s, c := math.Sincos(a)
	return m44{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a*b.
func (a m44) Mul(b m44) m44 {
	var m m44
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[4*i+j] = a[4*i]*b[j] + a[4*i+1]*b[4+j] + a[4*i+2]*b[8+j] + a[4*i+3]*b[12+j]
		}
	}
	return m
}

// MulPosition applies the transform to a position vector.
func (a m44) MulPosition(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: a[0]*p.X + a[1]*p.Y + a[2]*p.Z + a[3],
		Y: a[4]*p.X + a[5]*p.Y + a[6]*p.Z + a[7],
		Z: a[8]*p.X + a[9]*p.Y + a[10]*p.Z + a[11],
	}
}

// MulBox returns the axis aligned box enclosing the transformed box.
func (a m44) MulBox(box r3.Box) r3.Box {
	v := d3.Box(box).Vertices()
	for i := range v {
		v[i] = a.MulPosition(v[i])
	}
	return r3.Box{Min: v.Min(), Max: v.Max()}
}

// Determinant of the linear part.
func (a m44) Determinant() float64 {
	return a[0]*(a[5]*a[10]-a[6]*a[9]) -
		a[1]*(a[4]*a[10]-a[6]*a[8]) +
		a[2]*(a[4]*a[9]-a[5]*a[8])
}

// Inverse returns the inverse affine transform. It panics if the transform is singular.
func (a m44) Inverse() m44 {
	det := a.Determinant()
	if det == 0 {
		panic("singular m44 transform")
	}
	k := 1 / det
	var m m44
	m[0] = (a[5]*a[10] - a[6]*a[9]) * k
	m[1] = (a[2]*a[9] - a[1]*a[10]) * k
	m[2] = (a[1]*a[6] - a[2]*a[5]) * k
	m[4] = (a[6]*a[8] - a[4]*a[10]) * k
	m[5] = (a[0]*a[10] - a[2]*a[8]) * k
	m[6] = (a[2]*a[4] - a[0]*a[6]) * k
	m[8] = (a[4]*a[9] - a[5]*a[8]) * k
	m[9] = (a[1]*a[8] - a[0]*a[9]) * k
	m[10] = (a[0]*a[5] - a[1]*a[4]) * k
	m[3] = -(m[0]*a[3] + m[1]*a[7] + m[2]*a[11])
	m[7] = -(m[4]*a[3] + m[5]*a[7] + m[6]*a[11])
	m[11] = -(m[8]*a[3] + m[9]*a[7] + m[10]*a[11])
	m[15] = 1
	return m
}
