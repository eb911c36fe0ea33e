package models

import (
	"testing"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

func TestNewBoxMesh(t *testing.T) {
	box := geom.NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))
	m := NewBoxMesh("box", box)

	if m.TriangleCount() != 12 || len(m.Vertices) != 24 {
		t.Fatalf("got %d triangles, %d vertices, want 12 and 24", m.TriangleCount(), len(m.Vertices))
	}
	if m.Bounds != box {
		t.Errorf("Bounds = %v, want %v", m.Bounds, box)
	}

	// Every face normal points away from the centre.
	for i := range m.Faces {
		v0, v1, v2 := m.Triangle(i)
		centroid := v0.Add(v1).Add(v2).Scale(1.0 / 3)
		if m.FaceNormal(i).Dot(centroid) <= 0 {
			t.Errorf("face %d faces inwards", i)
		}
	}
}

func TestMeshFlipWinding(t *testing.T) {
	m := NewBoxMesh("box", geom.NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)))
	before := make([]math3d.Vec3, len(m.Faces))
	for i := range m.Faces {
		before[i] = m.FaceNormal(i)
	}

	m.FlipWinding()
	for i := range m.Faces {
		if got := m.FaceNormal(i); !got.NearlyEqual(before[i].Negate(), 1e-9) {
			t.Errorf("face %d normal = %v, want %v", i, got, before[i].Negate())
		}
	}
	if m.Bounds != geom.NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)) {
		t.Error("flipping changed the bounds")
	}
}

func TestCalculateBoundsEmpty(t *testing.T) {
	m := NewMesh("empty")
	m.CalculateBounds()
	if !m.Bounds.IsEmpty() {
		t.Errorf("Bounds of a mesh without vertices = %v, want empty", m.Bounds)
	}
}
