package vis

import (
	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// ShapeKind selects which bounding volume of a Primitive is authoritative.
type ShapeKind uint8

// Shape kinds.
const (
	ShapeBox ShapeKind = iota
	ShapeSphere
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// PrimitiveFlags toggle optional culling behavior.
type PrimitiveFlags uint8

// Primitive flags.
const (
	// FlagFacePlane marks a planar primitive: it is culled when the viewer
	// is behind FacePlane, and raycasts skip its back faces.
	FlagFacePlane PrimitiveFlags = 1 << iota
	// FlagTwoSided disables the face plane test of a planar primitive.
	FlagTwoSided
)

type primState uint8

const (
	primFree primState = iota
	primAllocated
	primRegistered
)

// areaLink records one area a primitive overlaps and its slot in that
// area's primitive list.
type areaLink struct {
	area *Area
	slot int
}

// Primitive is a movable visibility shape registered with a System.
//
// Owners mutate Kind, Box, Sphere, FacePlane, Flags and the group masks
// freely, then call System.MarkPrimitive so the next UpdatePrimitiveLinks
// re-derives the primitive's area links.
type Primitive struct {
	// Owner is an opaque handle to the scene object this shape belongs to.
	Owner any

	Kind      ShapeKind
	Box       geom.AABB
	Sphere    geom.Sphere
	FacePlane geom.Plane
	Flags     PrimitiveFlags

	QueryGroup QueryGroup
	VisGroup   VisibilityGroup

	// Raycaster is the local triangle test used by RaycastTriangles and
	// RaycastClosest. Primitives without one are skipped by those queries.
	// If it also implements HitEvaluator, closest hits are evaluated.
	Raycaster Raycaster

	id      int32
	state   primState
	pending bool
	index   int // position in System.prims
	links   []areaLink
}

// ID returns the pool slot of the primitive. IDs are reused after removal.
func (p *Primitive) ID() int {
	return int(p.id)
}

// Bounds returns the box enclosing the authoritative shape.
func (p *Primitive) Bounds() geom.AABB {
	if p.Kind == ShapeSphere {
		return p.Sphere.Bounds()
	}
	return p.Box
}

// SetBox makes p a box primitive.
func (p *Primitive) SetBox(box geom.AABB) {
	p.Kind = ShapeBox
	p.Box = box
}

// SetSphere makes p a sphere primitive.
func (p *Primitive) SetSphere(s geom.Sphere) {
	p.Kind = ShapeSphere
	p.Sphere = s
}

// SetFacePlane enables face plane culling. twoSided keeps the flag but
// disables the test.
func (p *Primitive) SetFacePlane(plane geom.Plane, twoSided bool) {
	p.FacePlane = plane
	p.Flags |= FlagFacePlane
	if twoSided {
		p.Flags |= FlagTwoSided
	} else {
		p.Flags &^= FlagTwoSided
	}
}

// Areas returns the areas the primitive is currently linked to.
func (p *Primitive) Areas() []*Area {
	areas := make([]*Area, len(p.links))
	for i, l := range p.links {
		areas[i] = l.area
	}
	return areas
}

// LinkCount returns the number of areas the primitive is linked to.
func (p *Primitive) LinkCount() int {
	return len(p.links)
}

// Registered reports whether the primitive has been added and not removed.
func (p *Primitive) Registered() bool {
	return p.state == primRegistered
}

// Pending reports whether the primitive waits for the next link pass.
func (p *Primitive) Pending() bool {
	return p.pending
}

// facing reports whether eye is on the visible side of a planar primitive.
func (p *Primitive) facing(eye math3d.Vec3) bool {
	if p.Flags&FlagFacePlane == 0 || p.Flags&FlagTwoSided != 0 {
		return true
	}
	return p.FacePlane.DistanceToPoint(eye) >= 0
}

func (p *Primitive) cullBackFaces() bool {
	return p.Flags&FlagFacePlane != 0 && p.Flags&FlagTwoSided == 0
}
