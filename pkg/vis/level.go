package vis

import (
	"math"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// OutdoorArea is the area index baked data uses for "outside every area".
const OutdoorArea = -1

// AreaDef is the baked form of an area.
type AreaDef struct {
	Bounds geom.AABB
}

// PortalDef is the baked form of a portal: a convex hull stored as a range
// of CreateInfo.HullVerts, and the two areas it joins. Either area may be
// OutdoorArea, but not both.
type PortalDef struct {
	FirstVert int32
	NumVerts  int32
	Areas     [2]int32
}

// NodeDef is a BSP internal node. Children >= 0 index Nodes; a negative
// child c refers to leaf -1-c. Children[0] is the front side of the plane.
// A zero Bounds means the node has no bounds.
type NodeDef struct {
	Plane    int32
	Bounds   geom.AABB
	Children [2]int32
}

// LeafDef is a BSP leaf.
type LeafDef struct {
	Area      int32
	AudioArea int32
}

// CreateInfo is the baked level handed to NewSystem. It is copied; the
// caller may reuse it afterwards.
type CreateInfo struct {
	Areas     []AreaDef
	Portals   []PortalDef
	HullVerts []math3d.Vec3
	Planes    []geom.Plane
	Nodes     []NodeDef
	Leafs     []LeafDef
}

// LeafChild converts a leaf index into the negative child encoding.
func LeafChild(leaf int) int32 {
	return int32(-1 - leaf)
}

// Area is a region of the level. Topology is fixed at construction; only
// the primitive list changes, through the link pass.
type Area struct {
	index   int
	bounds  geom.AABB
	outdoor bool
	portals []PortalLink
	prims   []*Primitive
}

// Index returns the area's position in CreateInfo.Areas, or OutdoorArea.
func (a *Area) Index() int {
	if a.outdoor {
		return OutdoorArea
	}
	return a.index
}

// Bounds returns the area's bounding box. The outdoor area is unbounded.
func (a *Area) Bounds() geom.AABB {
	return a.bounds
}

// Outdoor reports whether a is the catch-all outdoor area.
func (a *Area) Outdoor() bool {
	return a.outdoor
}

// Portals returns the directed portal links leaving the area.
func (a *Area) Portals() []PortalLink {
	return a.portals
}

// Primitives returns the primitives linked to the area. The slice is owned
// by the area and must not be modified.
func (a *Area) Primitives() []*Primitive {
	return a.prims
}

// Portal is an opening shared by two areas. Its plane faces from
// Areas()[0] into Areas()[1].
type Portal struct {
	index   int
	hull    []math3d.Vec3
	bounds  geom.AABB
	plane   geom.Plane
	areas   [2]*Area
	blocked bool
}

// Index returns the portal's position in CreateInfo.Portals.
func (p *Portal) Index() int { return p.index }

// Hull returns the portal polygon.
func (p *Portal) Hull() []math3d.Vec3 { return p.hull }

// Plane returns the portal plane.
func (p *Portal) Plane() geom.Plane { return p.plane }

// Areas returns the two joined areas.
func (p *Portal) Areas() [2]*Area { return p.areas }

// Blocked reports whether traversal through the portal is suppressed.
func (p *Portal) Blocked() bool { return p.blocked }

// PortalLink is one direction of a Portal as seen from the area that owns
// the link. Its hull winding and plane face away from that area.
type PortalLink struct {
	Portal *Portal
	To     *Area
	Hull   []math3d.Vec3
	Plane  geom.Plane
}

type bspNode struct {
	plane     geom.Plane
	bounds    geom.AABB
	hasBounds bool
	children  [2]int32
}

type bspLeaf struct {
	area      int32
	audioArea int32
}

func unboundedAABB() geom.AABB {
	return geom.AABB{
		Min: math3d.Splat3(math.Inf(-1)),
		Max: math3d.Splat3(math.Inf(1)),
	}
}
