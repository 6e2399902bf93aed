package geom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrSingularTransform is returned by [Mat.Inverse] when the matrix has no inverse.
var ErrSingularTransform = errors.New("transform is not invertible")

// Mat is a 2D affine transform in the canvas convention:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Mat struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Mat{A: 1, D: 1}

// MatFromArray builds a Mat from [a, b, c, d, e, f].
func MatFromArray(a [6]float64) Mat {
	return Mat{A: a[0], B: a[1], C: a[2], D: a[3], E: a[4], F: a[5]}
}

// Array returns the matrix as [a, b, c, d, e, f].
func (m Mat) Array() [6]float64 { return [6]float64{m.A, m.B, m.C, m.D, m.E, m.F} }

// Apply maps the point v.
func (m Mat) Apply(v Vec) Vec {
	return Vec{m.A*v.X + m.C*v.Y + m.E, m.B*v.X + m.D*v.Y + m.F}
}

// ApplyLinear maps the direction v, ignoring translation.
func (m Mat) ApplyLinear(v Vec) Vec {
	return Vec{m.A*v.X + m.C*v.Y, m.B*v.X + m.D*v.Y}
}

// ApplyRect maps r and returns the bounding rectangle of the image.
func (m Mat) ApplyRect(r Rect) Rect {
	c := r.Corners()
	return RectFromPoints(m.Apply(c[0]), m.Apply(c[1]), m.Apply(c[2]), m.Apply(c[3]))
}

// Determinant returns A*D - B*C.
func (m Mat) Determinant() float64 { return m.A*m.D - m.B*m.C }

// Inverse returns the inverse transform.
func (m Mat) Inverse() (Mat, error) {
	det := m.Determinant()
	if math.Abs(det) < Epsilon {
		return Mat{}, ErrSingularTransform
	}
	return Mat{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}, nil
}

// Key renders the transform as "[a,b,c,d,e,f]" with integral values printed
// without a fractional part. It is stable for identical transforms and is
// used in node identities.
func (m Mat) Key() string {
	parts := make([]string, 6)
	for i, v := range m.Array() {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (m Mat) String() string { return fmt.Sprintf("Mat%s", m.Key()) }
