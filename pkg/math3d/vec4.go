package math3d

// Vec4 is a homogeneous coordinate. Positions enter with W=1 and
// directions with W=0; after a projection W holds the view depth.
type Vec4 struct {
	X, Y, Z, W float64
}

// Point4 lifts a position into homogeneous space.
func Point4(p Vec3) Vec4 {
	return Vec4{p.X, p.Y, p.Z, 1}
}

// Dir4 lifts a direction. Translations leave it unchanged.
func Dir4(d Vec3) Vec4 {
	return Vec4{d.X, d.Y, d.Z, 0}
}

// XYZ drops W.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Lerp interpolates all four components. Clip-space segments are split this
// way, before the divide.
func (v Vec4) Lerp(o Vec4, t float64) Vec4 {
	return Vec4{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
		v.W + (o.W-v.W)*t,
	}
}

// ClipDistances returns the signed distances of a clip-space point to the
// six sides of the volume -W <= x, y, z <= W, ordered left, right, bottom,
// top, near, far. All are non-negative inside.
func (v Vec4) ClipDistances() [6]float64 {
	return [6]float64{v.W + v.X, v.W - v.X, v.W + v.Y, v.W - v.Y, v.W + v.Z, v.W - v.Z}
}

// NDC divides by W. With W=0 the components come back undivided.
func (v Vec4) NDC() Vec3 {
	if v.W == 0 {
		return v.XYZ()
	}
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}
