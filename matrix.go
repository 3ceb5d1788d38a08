package lines

import "github.com/chewxy/math32"

// Matrix represents a 2D affine transformation matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
//
// Note the field order differs from the Canvas setTransform(a, b, c, d, e, f)
// argument order; use NewMatrix for Canvas-ordered arguments.
type Matrix struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// NewMatrix builds a matrix from Canvas setTransform arguments, where
// x' = a*x + c*y + e and y' = b*x + d*y + f.
func NewMatrix(a, b, c, d, e, f float32) Matrix {
	return Matrix{
		A: a, B: c, C: e,
		D: b, E: d, F: f,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float32) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float32) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float32) Matrix {
	sin, cos := math32.Sincos(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Multiply multiplies two matrices (m * other). other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Mat4 embeds m into a 4x4 matrix acting on the xy plane.
func (m Matrix) Mat4() Mat4 {
	return Mat4{
		m.A, m.D, 0, 0,
		m.B, m.E, 0, 0,
		0, 0, 1, 0,
		m.C, m.F, 0, 1,
	}
}
