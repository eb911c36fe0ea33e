package geom

import (
	"math"
	"testing"

	"github.com/taigrr/portalvis/pkg/math3d"
)

func TestAABBMeasures(t *testing.T) {
	box := AABBFromCenter(math3d.V3(1, 1, 1), math3d.V3(1, 2, 3))

	tests := []struct {
		name string
		got  math3d.Vec3
		want math3d.Vec3
	}{
		{"min", box.Min, math3d.V3(0, -1, -2)},
		{"max", box.Max, math3d.V3(2, 3, 4)},
		{"center", box.Center(), math3d.V3(1, 1, 1)},
		{"size", box.Size(), math3d.V3(2, 4, 6)},
		{"half size", box.HalfSize(), math3d.V3(1, 2, 3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.NearlyEqual(tc.want, 1e-9) {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestAABBEmptyAndGrowth(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	if !EmptyAABB().IsEmpty() {
		t.Error("EmptyAABB should be empty")
	}
	if got := EmptyAABB().Union(box); got != box {
		t.Errorf("empty union box = %v, want %v", got, box)
	}

	grown := EmptyAABB().Extend(math3d.V3(4, 0, 0)).Extend(math3d.V3(0, -1, 2))
	if grown != NewAABB(math3d.V3(0, -1, 0), math3d.V3(4, 0, 2)) {
		t.Errorf("extended box = %v", grown)
	}
	if got := box.Expand(0.5); got.Min != math3d.V3(-1.5, -2.5, -3.5) || got.Max != math3d.V3(1.5, 2.5, 3.5) {
		t.Errorf("Expand(0.5) = %v", got)
	}
}

func TestAABBContainment(t *testing.T) {
	room := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))

	points := []struct {
		name string
		p    math3d.Vec3
		want bool
	}{
		{"middle", math3d.V3(5, 5, 5), true},
		{"on the floor", math3d.V3(5, 0, 5), true},
		{"far corner", math3d.V3(10, 10, 10), true},
		{"past the wall", math3d.V3(10.001, 5, 5), false},
		{"below the floor", math3d.V3(5, -1, 5), false},
	}
	for _, tc := range points {
		t.Run(tc.name, func(t *testing.T) {
			if got := room.ContainsPoint(tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}

	if !room.Contains(NewAABB(math3d.V3(1, 1, 1), math3d.V3(9, 9, 9))) {
		t.Error("room should contain an inner crate")
	}
	if room.Contains(NewAABB(math3d.V3(8, 1, 1), math3d.V3(12, 2, 2))) {
		t.Error("room should not contain a beam through the wall")
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))

	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"inside", NewAABB(math3d.V3(1, 1, 1), math3d.V3(2, 2, 2)), true},
		{"straddle", NewAABB(math3d.V3(7, 3, 3), math3d.V3(11, 7, 7)), true},
		{"touching face", NewAABB(math3d.V3(10, 0, 0), math3d.V3(20, 10, 10)), true},
		{"apart", NewAABB(math3d.V3(11, 0, 0), math3d.V3(20, 10, 10)), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Overlaps(tc.b); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}

	if !a.OverlapsSphere(Sphere{Center: math3d.V3(11, 5, 5), Radius: 1.5}) {
		t.Error("sphere touching the +X face should overlap")
	}
	if a.OverlapsSphere(Sphere{Center: math3d.V3(11, 11, 11), Radius: 1.5}) {
		t.Error("sphere off the corner should not overlap")
	}
	if got := a.DistanceSqToPoint(math3d.V3(13, 14, 5)); math.Abs(got-25) > 1e-9 {
		t.Errorf("DistanceSqToPoint = %v, want 25", got)
	}
}

func TestAABBCoveredBy(t *testing.T) {
	// An L of three rooms; the corner x, z in [10, 20] is open.
	rooms := []AABB{
		NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10)),
		NewAABB(math3d.V3(10, 0, 0), math3d.V3(20, 10, 10)),
		NewAABB(math3d.V3(0, 0, 10), math3d.V3(10, 10, 20)),
	}

	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"inside one room", NewAABB(math3d.V3(1, 1, 1), math3d.V3(2, 2, 2)), true},
		{"across a shared wall", NewAABB(math3d.V3(7, 3, 3), math3d.V3(13, 7, 7)), true},
		{"across all three rooms", NewAABB(math3d.V3(8, 2, 8), math3d.V3(10, 8, 12)), true},
		{"in the open corner", NewAABB(math3d.V3(14, 4, 14), math3d.V3(16, 6, 16)), false},
		{"poking into the corner", NewAABB(math3d.V3(14, 4, 9), math3d.V3(16, 6, 11)), false},
		{"inside the union bounds", NewAABB(math3d.V3(5, 1, 5), math3d.V3(15, 2, 15)), false},
		{"above the rooms", NewAABB(math3d.V3(1, 9, 1), math3d.V3(2, 11, 2)), false},
		{"flat on a wall", NewAABB(math3d.V3(10, 2, 2), math3d.V3(10, 4, 4)), true},
		{"point in the corner", NewAABB(math3d.V3(15, 5, 15), math3d.V3(15, 5, 15)), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.b.CoveredBy(rooms); got != tc.want {
				t.Errorf("CoveredBy = %v, want %v", got, tc.want)
			}
		})
	}

	if NewAABB(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1)).CoveredBy(nil) {
		t.Error("nothing covers a box")
	}
}

func TestAABBTransform(t *testing.T) {
	cube := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	diag := math.Sqrt2

	tests := []struct {
		name     string
		m        math3d.Mat4
		min, max math3d.Vec3
	}{
		{"translation", math3d.Translate(math3d.V3(10, 20, 30)), math3d.V3(9, 19, 29), math3d.V3(11, 21, 31)},
		{"uniform scale", math3d.ScaleUniform(2), math3d.Splat3(-2), math3d.Splat3(2)},
		{"quarter turn", math3d.RotateY(math.Pi / 4), math3d.V3(-diag, -1, -diag), math3d.V3(diag, 1, diag)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cube.Transform(tc.m)
			if !got.Min.NearlyEqual(tc.min, 1e-9) || !got.Max.NearlyEqual(tc.max, 1e-9) {
				t.Errorf("Transform = %v, want [%v, %v]", got, tc.min, tc.max)
			}
		})
	}
}

func TestSphereBounds(t *testing.T) {
	s := Sphere{Center: math3d.V3(15, 5, 5), Radius: 2}
	if got := s.Bounds(); got != NewAABB(math3d.V3(13, 3, 3), math3d.V3(17, 7, 7)) {
		t.Errorf("Bounds = %v", got)
	}
	if !s.ContainsPoint(math3d.V3(16, 6, 5)) {
		t.Error("point within the radius should be contained")
	}
	if s.Overlaps(Sphere{Center: math3d.V3(20, 5, 5), Radius: 2.9}) {
		t.Error("spheres 5 apart with radii 2 and 2.9 should not overlap")
	}
}
