package math3d

import (
	"math"
	"testing"
)

// benchView is the transform chain a query builds for an eye standing in a
// room and looking through a doorway.
func benchView() Mat4 {
	eye := V3(5, 1.7, 5)
	view := LookAt(eye, V3(10, 1.7, 5), Up())
	return Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000).Mul(view)
}

func BenchmarkViewProjection(b *testing.B) {
	eye := V3(5, 1.7, 5)
	target := V3(10, 1.7, 5)

	for b.Loop() {
		view := LookAt(eye, target, Up())
		_ = Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000).Mul(view)
	}
}

// BenchmarkProjectPortal projects the four corners of a door, as the
// scissor computation does for each portal it crosses.
func BenchmarkProjectPortal(b *testing.B) {
	vp := benchView()
	door := [4]Vec3{V3(10, 0, 4), V3(10, 0, 6), V3(10, 2, 6), V3(10, 2, 4)}

	for b.Loop() {
		for _, p := range door {
			_ = vp.MulVec4(Point4(p)).NDC()
		}
	}
}

func BenchmarkClipDistances(b *testing.B) {
	c := benchView().MulVec4(Point4(V3(10, 1, 5)))

	for b.Loop() {
		_ = c.ClipDistances()
	}
}

// BenchmarkMeshRayToLocal moves a ray into mesh space the way a mesh
// raycaster does per primitive.
func BenchmarkMeshRayToLocal(b *testing.B) {
	toLocal := Translate(V3(6, 0, 5)).Mul(RotateY(0.5)).Mul(ScaleUniform(2)).Inverse()
	start, end := V3(0, 1, 5), V3(20, 1, 5)

	for b.Loop() {
		o := toLocal.MulVec3(start)
		_ = toLocal.MulVec3(end).Sub(o)
	}
}

func BenchmarkNormalTransform(b *testing.B) {
	m := RotateY(0.5).Mul(RotateX(0.25))
	n := V3(0, 0, 1)

	for b.Loop() {
		_ = m.MulVec3Dir(n).Normalize()
	}
}

func BenchmarkInverse(b *testing.B) {
	m := benchView()

	for b.Loop() {
		_ = m.Inverse()
	}
}
