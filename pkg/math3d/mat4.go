package math3d

import "math"

// Mat4 is a 4x4 matrix in column-major order: element (row, col) lives at
// index row+col*4, so the translation is in 12..14.
type Mat4 [16]float64

func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Translate moves by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale stretches each axis by the matching component of v.
func Scale(v Vec3) Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = v.X, v.Y, v.Z, 1
	return m
}

func ScaleUniform(s float64) Mat4 { return Scale(Splat3(s)) }

// rotation turns the (i, j) axis pair by angle radians, counter-clockwise
// when looking down the remaining axis towards the origin.
func rotation(i, j int, angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[i+i*4], m[j+i*4] = c, s
	m[i+j*4], m[j+j*4] = -s, c
	return m
}

// RotateX, RotateY and RotateZ rotate about a world axis.
func RotateX(angle float64) Mat4 { return rotation(1, 2, angle) }

func RotateY(angle float64) Mat4 { return rotation(2, 0, angle) }

func RotateZ(angle float64) Mat4 { return rotation(0, 1, angle) }

// LookAt returns a right-handed view matrix for an eye at eye looking at
// center. The camera looks down its local -Z.
func LookAt(eye, center, up Vec3) Mat4 {
	fwd := center.Sub(eye).Normalize()
	right := fwd.Cross(up).Normalize()
	camUp := right.Cross(fwd)

	var m Mat4
	for row, axis := range [3]Vec3{right, camUp, fwd.Negate()} {
		m[row], m[4+row], m[8+row] = axis.X, axis.Y, axis.Z
		m[12+row] = -axis.Dot(eye)
	}
	m[15] = 1
	return m
}

// Perspective returns a projection onto the clip volume -W <= z <= W with
// the near plane at z=-W. fovy is vertical, in radians; aspect is
// width/height.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	depth := near - far

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// Mul returns a*b: b applies first.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			for k := range 4 {
				m[row+col*4] += a[row+k*4] * b[k+col*4]
			}
		}
	}
	return m
}

// MulVec3 transforms a position, dividing by the resulting W.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(Point4(v)).NDC()
}

// MulVec3Dir transforms a direction, ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(Dir4(v)).XYZ()
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Inverse uses the cofactor expansion. A singular matrix yields Identity.
func (m Mat4) Inverse() Mat4 {
	// 2x2 sub-determinants of the upper and lower row pairs.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[9] - m[8]*m[1]
	s2 := m[0]*m[13] - m[12]*m[1]
	s3 := m[4]*m[9] - m[8]*m[5]
	s4 := m[4]*m[13] - m[12]*m[5]
	s5 := m[8]*m[13] - m[12]*m[9]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[6]*m[15] - m[14]*m[7]
	c3 := m[6]*m[11] - m[10]*m[7]
	c2 := m[2]*m[15] - m[14]*m[3]
	c1 := m[2]*m[11] - m[10]*m[3]
	c0 := m[2]*m[7] - m[6]*m[3]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity()
	}
	inv := 1 / det

	return Mat4{
		(m[5]*c5 - m[9]*c4 + m[13]*c3) * inv,
		(-m[1]*c5 + m[9]*c2 - m[13]*c1) * inv,
		(m[1]*c4 - m[5]*c2 + m[13]*c0) * inv,
		(-m[1]*c3 + m[5]*c1 - m[9]*c0) * inv,

		(-m[4]*c5 + m[8]*c4 - m[12]*c3) * inv,
		(m[0]*c5 - m[8]*c2 + m[12]*c1) * inv,
		(-m[0]*c4 + m[4]*c2 - m[12]*c0) * inv,
		(m[0]*c3 - m[4]*c1 + m[8]*c0) * inv,

		(m[7]*s5 - m[11]*s4 + m[15]*s3) * inv,
		(-m[3]*s5 + m[11]*s2 - m[15]*s1) * inv,
		(m[3]*s4 - m[7]*s2 + m[15]*s0) * inv,
		(-m[3]*s3 + m[7]*s1 - m[11]*s0) * inv,

		(-m[6]*s5 + m[10]*s4 - m[14]*s3) * inv,
		(m[2]*s5 - m[10]*s2 + m[14]*s1) * inv,
		(-m[2]*s4 + m[6]*s2 - m[14]*s0) * inv,
		(m[2]*s3 - m[6]*s1 + m[10]*s0) * inv,
	}
}
