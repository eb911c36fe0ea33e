package vis

import (
	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// FindLeaf returns the BSP leaf containing point, or -1 without a BSP.
func (s *System) FindLeaf(point math3d.Vec3) int {
	if !s.hasBSP {
		return -1
	}
	c := s.root
	for c >= 0 {
		node := &s.nodes[c]
		if node.plane.DistanceToPoint(point) >= 0 {
			c = node.children[0]
		} else {
			c = node.children[1]
		}
	}
	return int(-1 - c)
}

// FindArea returns the area containing point. Points outside every area
// resolve to the outdoor area; the result is never nil.
func (s *System) FindArea(point math3d.Vec3) *Area {
	if s.hasBSP {
		return s.areaAt(s.leafs[s.FindLeaf(point)].area)
	}
	for i := range len(s.areas) - 1 {
		if s.areas[i].bounds.ContainsPoint(point) {
			return &s.areas[i]
		}
	}
	return s.outdoor
}

// overlapShape is the volume a BSP overlap descent classifies.
type overlapShape struct {
	box      geom.AABB
	sphere   geom.Sphere
	isSphere bool
}

func (o *overlapShape) side(p geom.Plane) geom.Side {
	if o.isSphere {
		return p.SphereSide(o.sphere)
	}
	return p.BoxSide(o.box)
}

func (o *overlapShape) overlaps(b geom.AABB) bool {
	if o.isSphere {
		return b.OverlapsSphere(o.sphere)
	}
	return o.box.Overlaps(b)
}

func (o *overlapShape) bounds() geom.AABB {
	if o.isSphere {
		return o.sphere.Bounds()
	}
	return o.box
}

// coveredBy reports whether the areas together contain the shape's bounds.
func (o *overlapShape) coveredBy(areas []*Area) bool {
	var buf [8]geom.AABB
	boxes := buf[:0]
	for _, a := range areas {
		boxes = append(boxes, a.bounds)
	}
	return o.bounds().CoveredBy(boxes)
}

// QueryOverlapAreasBox appends to dst every area whose bounds the box
// overlaps, without duplicates. The outdoor area is included whenever part
// of the box may lie outside every indoor area.
func (s *System) QueryOverlapAreasBox(box geom.AABB, dst []*Area) []*Area {
	shape := overlapShape{box: box}
	return s.queryOverlapAreas(&shape, dst[:0], s.hasBSP)
}

// QueryOverlapAreasSphere is QueryOverlapAreasBox for a sphere.
func (s *System) QueryOverlapAreasSphere(sphere geom.Sphere, dst []*Area) []*Area {
	shape := overlapShape{sphere: sphere, isSphere: true}
	return s.queryOverlapAreas(&shape, dst[:0], s.hasBSP)
}

func (s *System) queryOverlapAreas(shape *overlapShape, dst []*Area, useBSP bool) []*Area {
	var outside bool
	if useBSP {
		dst = s.overlapNode(s.root, shape, dst)
		outside = !s.indoorBounds.Contains(shape.bounds())
	} else {
		for i := range len(s.areas) - 1 {
			if shape.overlaps(s.areas[i].bounds) {
				dst = append(dst, &s.areas[i])
			}
		}
		// Gaps between areas inside the indoor bounds are outdoors too.
		outside = !shape.coveredBy(dst)
	}
	if outside {
		dst = appendUnique(dst, s.outdoor)
	}
	return dst
}

// overlapNode collects the areas of the leafs the shape reaches below c.
func (s *System) overlapNode(c int32, shape *overlapShape, dst []*Area) []*Area {
	for c >= 0 {
		node := &s.nodes[c]
		if node.hasBounds && !shape.overlaps(node.bounds) {
			return dst
		}
		switch shape.side(node.plane) {
		case geom.SideFront:
			c = node.children[0]
		case geom.SideBack:
			c = node.children[1]
		default:
			dst = s.overlapNode(node.children[0], shape, dst)
			c = node.children[1]
		}
	}

	area := s.areaAt(s.leafs[-1-c].area)
	// Plane tests are conservative; confirm against the area itself.
	if area.outdoor || shape.overlaps(area.bounds) {
		dst = appendUnique(dst, area)
	}
	return dst
}

func appendUnique(dst []*Area, a *Area) []*Area {
	for _, have := range dst {
		if have == a {
			return dst
		}
	}
	return append(dst, a)
}
