package lines

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix in column-major order, the layout WGSL mat4x4<f32>
// uniforms expect. Element (row r, column c) lives at index c*4+r.
type Mat4 [16]float32

// Axis selects a coordinate axis for Context3D.Rotate.
type Axis int

// Coordinate axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Vec returns the unit vector along a.
func (a Axis) Vec() Vec3 {
	switch a {
	case AxisX:
		return Vec3{X: 1}
	case AxisY:
		return Vec3{Y: 1}
	default:
		return Vec3{Z: 1}
	}
}

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "unknown"
}

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Multiply returns m * o. o is applied first.
func (m Mat4) Multiply(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[r]*o[c*4] + m[4+r]*o[c*4+1] + m[8+r]*o[c*4+2] + m[12+r]*o[c*4+3]
		}
	}
	return out
}

// Translate post-multiplies m by a translation.
func (m Mat4) Translate(v Vec3) Mat4 {
	t := Identity4()
	t[12], t[13], t[14] = v.X, v.Y, v.Z
	return m.Multiply(t)
}

// Scale post-multiplies m by a scale.
func (m Mat4) Scale(v Vec3) Mat4 {
	s := Identity4()
	s[0], s[5], s[10] = v.X, v.Y, v.Z
	return m.Multiply(s)
}

// Rotate post-multiplies m by a rotation of rad radians about axis.
// A zero-length axis leaves m unchanged.
func (m Mat4) Rotate(rad float32, axis Vec3) Mat4 {
	if axis.Length() < 1e-6 {
		return m
	}
	n := axis.Normalize()
	x, y, z := n.X, n.Y, n.Z
	s, c := math32.Sincos(rad)
	t := 1 - c
	r := Mat4{
		x*x*t + c, y*x*t + z*s, z*x*t - y*s, 0,
		x*y*t - z*s, y*y*t + c, z*y*t + x*s, 0,
		x*z*t + y*s, y*z*t - x*s, z*z*t + c, 0,
		0, 0, 0, 1,
	}
	return m.Multiply(r)
}

// Ortho returns an orthographic projection mapping the box
// [left,right]x[bottom,top]x[near,far] to WebGPU clip space (z in [0,1]).
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	lr := 1 / (left - right)
	bt := 1 / (bottom - top)
	nf := 1 / (near - far)
	return Mat4{
		-2 * lr, 0, 0, 0,
		0, -2 * bt, 0, 0,
		0, 0, nf, 0,
		(left + right) * lr, (top + bottom) * bt, near * nf, 1,
	}
}

// ProjectedThickness returns the clip-space x extent of a line of the given
// width under projection, measured from the projected (2, 0) point. Pass
// the result as DrawParams.Thickness to keep widths in world units.
func ProjectedThickness(projection Mat4, width float32) float32 {
	return (projection[0]*2 + projection[12]) * width
}

// MulVec4 returns m * v for a homogeneous vector.
func (m Mat4) MulVec4(v [4]float32) [4]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}
