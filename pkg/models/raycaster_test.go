package models

import (
	"math"
	"testing"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/vis"
)

func placedCube() *MeshRaycaster {
	m := NewBoxMesh("cube", geom.NewAABB(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1)))
	return NewMeshRaycaster(m, math3d.Translate(math3d.V3(5, 0, 0)))
}

func TestMeshRaycasterAll(t *testing.T) {
	r := placedCube()
	ray := vis.NewRay(math3d.V3(0, 0.25, 0.5), math3d.V3(10, 0.25, 0.5))

	hits := r.RaycastAll(nil, &ray, nil)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want entry and exit", len(hits))
	}
	dists := []float64{hits[0].Distance, hits[1].Distance}
	if dists[0] > dists[1] {
		dists[0], dists[1] = dists[1], dists[0]
	}
	if math.Abs(dists[0]-5) > 1e-9 || math.Abs(dists[1]-6) > 1e-9 {
		t.Errorf("hit distances = %v, want [5 6]", dists)
	}

	ray.CullBackFaces = true
	hits = r.RaycastAll(nil, &ray, hits[:0])
	if len(hits) != 1 || math.Abs(hits[0].Distance-5) > 1e-9 {
		t.Errorf("culled hits = %+v, want only the entry", hits)
	}
}

func TestMeshRaycasterClosest(t *testing.T) {
	r := placedCube()

	tests := []struct {
		name       string
		start, end math3d.Vec3
		wantDist   float64
		wantNormal math3d.Vec3
		wantHit    bool
	}{
		{"from -X", math3d.V3(0, 0.25, 0.5), math3d.V3(10, 0.25, 0.5), 5, math3d.V3(-1, 0, 0), true},
		{"from +X", math3d.V3(10, 0.25, 0.5), math3d.V3(0, 0.25, 0.5), 4, math3d.V3(1, 0, 0), true},
		{"from above", math3d.V3(5.25, 3, 0.5), math3d.V3(5.25, -3, 0.5), 2, math3d.V3(0, 1, 0), true},
		{"too short", math3d.V3(0, 0.25, 0.5), math3d.V3(4, 0.25, 0.5), 0, math3d.Vec3{}, false},
		{"miss", math3d.V3(0, 3, 0.5), math3d.V3(10, 3, 0.5), 0, math3d.Vec3{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ray := vis.NewRay(tc.start, tc.end)
			hit, ok := r.RaycastClosest(nil, &ray)
			if ok != tc.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tc.wantHit)
			}
			if !ok {
				return
			}
			if math.Abs(hit.Distance-tc.wantDist) > 1e-9 {
				t.Errorf("Distance = %v, want %v", hit.Distance, tc.wantDist)
			}
			if !hit.Normal.NearlyEqual(tc.wantNormal, 1e-9) {
				t.Errorf("Normal = %v, want %v", hit.Normal, tc.wantNormal)
			}
		})
	}
}

func TestMeshRaycasterThroughSystem(t *testing.T) {
	s := vis.NewSystem(vis.CreateInfo{
		Areas: []vis.AreaDef{{Bounds: geom.NewAABB(math3d.V3(-10, -10, -10), math3d.V3(10, 10, 10))}},
	}, vis.Options{})

	r := placedCube()
	p := s.AllocatePrimitive()
	r.Attach(p)
	s.AddPrimitive(p)
	s.UpdatePrimitiveLinks()

	if !p.Box.Min.NearlyEqual(math3d.V3(5, 0, 0), 1e-9) {
		t.Fatalf("attached box = %v", p.Box)
	}

	var out vis.ClosestResult
	if !s.RaycastClosest(vis.NewQueryContext(), math3d.V3(0, 0.25, 0.5), math3d.V3(10, 0.25, 0.5), nil, &out) {
		t.Fatal("expected a hit")
	}
	if out.Primitive != p || math.Abs(out.Fraction-0.5) > 1e-9 {
		t.Errorf("hit primitive %v at fraction %v", out.Primitive.ID(), out.Fraction)
	}

	// The -X face maps (z, y) to UV.
	if math.Abs(out.UV.X-0.5) > 1e-9 || math.Abs(out.UV.Y-0.25) > 1e-9 {
		t.Errorf("UV = %v, want (0.5, 0.25)", out.UV)
	}
	for _, v := range out.Vertices {
		if math.Abs(v.X-5) > 1e-9 {
			t.Errorf("triangle vertex %v not on the world -X face", v)
		}
	}
}

func BenchmarkMeshRaycastClosest(b *testing.B) {
	r := placedCube()
	ray := vis.NewRay(math3d.V3(0, 0.25, 0.5), math3d.V3(10, 0.25, 0.5))
	for b.Loop() {
		r.RaycastClosest(nil, &ray)
	}
}
