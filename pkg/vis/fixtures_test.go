package vis

import (
	"math"
	"testing"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// twoRooms is A1 [0,10]^3 and A2 [10,20]x[0,10]x[0,10] joined by a portal
// covering the shared x=10 face. The BSP splits at x=0, x=20 and x=10;
// everything outside the rooms on X is outdoors.
func twoRooms() CreateInfo {
	return CreateInfo{
		Areas: []AreaDef{
			{Bounds: geom.NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))},
			{Bounds: geom.NewAABB(math3d.V3(10, 0, 0), math3d.V3(20, 10, 10))},
		},
		Portals: []PortalDef{
			{FirstVert: 0, NumVerts: 4, Areas: [2]int32{0, 1}},
		},
		HullVerts: []math3d.Vec3{
			{X: 10, Y: 0, Z: 0},
			{X: 10, Y: 10, Z: 0},
			{X: 10, Y: 10, Z: 10},
			{X: 10, Y: 0, Z: 10},
		},
		Planes: []geom.Plane{
			geom.NewPlane(math3d.V3(1, 0, 0), 0),   // x >= 0
			geom.NewPlane(math3d.V3(-1, 0, 0), 20), // x <= 20
			geom.NewPlane(math3d.V3(1, 0, 0), -10), // x >= 10
		},
		Nodes: []NodeDef{
			{Plane: 0, Children: [2]int32{1, LeafChild(2)}},
			{Plane: 1, Children: [2]int32{2, LeafChild(2)}},
			{Plane: 2, Children: [2]int32{LeafChild(1), LeafChild(0)}},
		},
		Leafs: []LeafDef{
			{Area: 0, AudioArea: 7},
			{Area: 1, AudioArea: 8},
			{Area: OutdoorArea, AudioArea: -1},
		},
	}
}

// doorRooms is twoRooms with the opening narrowed to a 2x2 door centred
// on the shared wall.
func doorRooms() CreateInfo {
	info := twoRooms()
	info.HullVerts = []math3d.Vec3{
		{X: 10, Y: 4, Z: 4},
		{X: 10, Y: 6, Z: 4},
		{X: 10, Y: 6, Z: 6},
		{X: 10, Y: 4, Z: 6},
	}
	return info
}

// lShape is three rooms in an L: A0 [0,10]^3 with A1 east of it and A2
// south of it (+Z). The corner x in [10,20], z in [10,20] lies inside the
// indoor bounds but belongs to no room; the BSP puts it outdoors.
func lShape() CreateInfo {
	return CreateInfo{
		Areas: []AreaDef{
			{Bounds: geom.NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))},
			{Bounds: geom.NewAABB(math3d.V3(10, 0, 0), math3d.V3(20, 10, 10))},
			{Bounds: geom.NewAABB(math3d.V3(0, 0, 10), math3d.V3(10, 10, 20))},
		},
		Portals: []PortalDef{
			{FirstVert: 0, NumVerts: 4, Areas: [2]int32{0, 1}},
			{FirstVert: 4, NumVerts: 4, Areas: [2]int32{0, 2}},
		},
		HullVerts: []math3d.Vec3{
			{X: 10, Y: 0, Z: 0}, {X: 10, Y: 10, Z: 0}, {X: 10, Y: 10, Z: 10}, {X: 10, Y: 0, Z: 10},
			{X: 0, Y: 0, Z: 10}, {X: 0, Y: 10, Z: 10}, {X: 10, Y: 10, Z: 10}, {X: 10, Y: 0, Z: 10},
		},
		Planes: []geom.Plane{
			geom.NewPlane(math3d.V3(1, 0, 0), 0),   // x >= 0
			geom.NewPlane(math3d.V3(-1, 0, 0), 20), // x <= 20
			geom.NewPlane(math3d.V3(0, 0, 1), 0),   // z >= 0
			geom.NewPlane(math3d.V3(0, 0, -1), 20), // z <= 20
			geom.NewPlane(math3d.V3(1, 0, 0), -10), // x >= 10
			geom.NewPlane(math3d.V3(0, 0, 1), -10), // z >= 10
		},
		Nodes: []NodeDef{
			{Plane: 0, Children: [2]int32{1, LeafChild(3)}},
			{Plane: 1, Children: [2]int32{2, LeafChild(3)}},
			{Plane: 2, Children: [2]int32{3, LeafChild(3)}},
			{Plane: 3, Children: [2]int32{4, LeafChild(3)}},
			{Plane: 4, Children: [2]int32{5, 6}},
			{Plane: 5, Children: [2]int32{LeafChild(3), LeafChild(1)}},
			{Plane: 5, Children: [2]int32{LeafChild(2), LeafChild(0)}},
		},
		Leafs: []LeafDef{
			{Area: 0, AudioArea: -1},
			{Area: 1, AudioArea: -1},
			{Area: 2, AudioArea: -1},
			{Area: OutdoorArea, AudioArea: -1},
		},
	}
}

// corridor is n unit rooms of size 10 along +X, each joined to the next by
// a portal covering their shared face. No BSP.
func corridor(n int) CreateInfo {
	var info CreateInfo
	for i := range n {
		x := float64(i * 10)
		info.Areas = append(info.Areas, AreaDef{
			Bounds: geom.NewAABB(math3d.V3(x, 0, 0), math3d.V3(x+10, 10, 10)),
		})
		if i == 0 {
			continue
		}
		first := int32(len(info.HullVerts))
		info.HullVerts = append(info.HullVerts,
			math3d.V3(x, 0, 0), math3d.V3(x, 10, 0),
			math3d.V3(x, 10, 10), math3d.V3(x, 0, 10),
		)
		info.Portals = append(info.Portals, PortalDef{
			FirstVert: first, NumVerts: 4,
			Areas: [2]int32{int32(i - 1), int32(i)},
		})
	}
	return info
}

// lookView returns a 90 degree square view from eye towards target.
func lookView(eye, target math3d.Vec3) View {
	proj := math3d.Perspective(math.Pi/2, 1, 0.1, 100)
	view := math3d.LookAt(eye, target, math3d.V3(0, 1, 0))
	return NewView(eye, proj.Mul(view))
}

func addBox(t *testing.T, s *System, center, half math3d.Vec3) *Primitive {
	t.Helper()
	p := s.AllocatePrimitive()
	p.SetBox(geom.AABBFromCenter(center, half))
	s.AddPrimitive(p)
	return p
}

func linked(a *Area, p *Primitive) bool {
	for _, q := range a.Primitives() {
		if q == p {
			return true
		}
	}
	return false
}

// fixedRaycaster reports one hit at a fixed distance along any ray.
type fixedRaycaster struct {
	distance float64
	uv       math3d.Vec2
}

func (f fixedRaycaster) hit(ray *Ray) TriangleHit {
	return TriangleHit{
		Location:    ray.PointAt(f.distance),
		Normal:      ray.Dir.Negate(),
		Distance:    f.distance,
		Barycentric: math3d.V2(0.25, 0.25),
	}
}

func (f fixedRaycaster) RaycastAll(_ *Primitive, ray *Ray, hits []TriangleHit) []TriangleHit {
	return append(hits, f.hit(ray))
}

func (f fixedRaycaster) RaycastClosest(_ *Primitive, ray *Ray) (TriangleHit, bool) {
	return f.hit(ray), true
}

func (f fixedRaycaster) EvaluateHit(_ *Primitive, hit *TriangleHit, result *ClosestResult) {
	result.UV = f.uv
	result.Vertices = [3]math3d.Vec3{hit.Location, hit.Location, hit.Location}
}
