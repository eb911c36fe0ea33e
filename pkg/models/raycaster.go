package models

import (
	"math"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/vis"
)

// MeshRaycaster intersects rays with a mesh placed in the world by a
// transform. It implements vis.Raycaster and vis.HitEvaluator.
//
// Rays are moved into mesh space rather than the mesh into world space, so
// one mesh can back many primitives.
type MeshRaycaster struct {
	Mesh *Mesh

	toWorld math3d.Mat4
	toLocal math3d.Mat4
}

// NewMeshRaycaster places mesh in the world with transform.
func NewMeshRaycaster(mesh *Mesh, transform math3d.Mat4) *MeshRaycaster {
	return &MeshRaycaster{
		Mesh:    mesh,
		toWorld: transform,
		toLocal: transform.Inverse(),
	}
}

// Bounds returns the world-space box of the placed mesh.
func (r *MeshRaycaster) Bounds() geom.AABB {
	return r.Mesh.Bounds.Transform(r.toWorld)
}

// Attach makes p a box primitive around the placed mesh that raycasts
// against its triangles.
func (r *MeshRaycaster) Attach(p *vis.Primitive) {
	p.SetBox(r.Bounds())
	p.Raycaster = r
}

// localRay returns the ray in mesh space. Its direction is not normalized:
// triangle t values come out as fractions of the segment.
func (r *MeshRaycaster) localRay(ray *vis.Ray) (origin, dir math3d.Vec3) {
	origin = r.toLocal.MulVec3(ray.Start)
	return origin, r.toLocal.MulVec3(ray.End).Sub(origin)
}

// RaycastAll implements vis.Raycaster.
func (r *MeshRaycaster) RaycastAll(_ *vis.Primitive, ray *vis.Ray, hits []vis.TriangleHit) []vis.TriangleHit {
	origin, dir := r.localRay(ray)
	if _, _, ok := geom.IntersectSegmentAABB(geom.Segment{Start: origin, End: origin.Add(dir)}, r.Mesh.Bounds); !ok {
		return hits
	}

	for i := range r.Mesh.Faces {
		if hit, ok := r.intersect(i, origin, dir, ray); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

// RaycastClosest implements vis.Raycaster.
func (r *MeshRaycaster) RaycastClosest(_ *vis.Primitive, ray *vis.Ray) (vis.TriangleHit, bool) {
	origin, dir := r.localRay(ray)
	if _, _, ok := geom.IntersectSegmentAABB(geom.Segment{Start: origin, End: origin.Add(dir)}, r.Mesh.Bounds); !ok {
		return vis.TriangleHit{}, false
	}

	var best vis.TriangleHit
	best.Distance = math.Inf(1)
	for i := range r.Mesh.Faces {
		if hit, ok := r.intersect(i, origin, dir, ray); ok && hit.Distance < best.Distance {
			best = hit
		}
	}
	return best, !math.IsInf(best.Distance, 1)
}

func (r *MeshRaycaster) intersect(face int, origin, dir math3d.Vec3, ray *vis.Ray) (vis.TriangleHit, bool) {
	v0, v1, v2 := r.Mesh.Triangle(face)
	t, u, v, ok := geom.IntersectRayTriangle(origin, dir, v0, v1, v2, ray.CullBackFaces)
	if !ok || t < 0 || t > 1 {
		return vis.TriangleHit{}, false
	}

	dist := t * ray.Length
	return vis.TriangleHit{
		Location:    ray.PointAt(dist),
		Normal:      r.toWorld.MulVec3Dir(r.Mesh.FaceNormal(face)).Normalize(),
		Distance:    dist,
		Barycentric: math3d.V2(u, v),
		Triangle:    face,
	}, true
}

// EvaluateHit implements vis.HitEvaluator: it fills the world-space
// triangle and the interpolated texture coordinate of the hit.
func (r *MeshRaycaster) EvaluateHit(_ *vis.Primitive, hit *vis.TriangleHit, result *vis.ClosestResult) {
	f := r.Mesh.Faces[hit.Triangle].V
	a, b, c := r.Mesh.Vertices[f[0]], r.Mesh.Vertices[f[1]], r.Mesh.Vertices[f[2]]

	result.Vertices = [3]math3d.Vec3{
		r.toWorld.MulVec3(a.Position),
		r.toWorld.MulVec3(b.Position),
		r.toWorld.MulVec3(c.Position),
	}

	u, v := hit.Barycentric.X, hit.Barycentric.Y
	result.UV = a.UV.Scale(1 - u - v).Add(b.UV.Scale(u)).Add(c.UV.Scale(v))
}
