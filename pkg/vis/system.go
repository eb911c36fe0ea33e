// Package vis decides which primitives and level areas are potentially
// visible from a viewpoint, or crossed by a ray.
//
// A level is a set of areas joined by portals and indexed by a BSP tree.
// Primitives are linked to the areas their bounds overlap; queries flood
// from the viewer's area through the portals, narrowing the frustum at each
// one, and cull the primitives linked to every area reached.
package vis

import (
	"go.uber.org/zap"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// Defaults for Options.
const (
	DefaultMaxPortalDepth  = 32
	DefaultSmallLevelAreas = 16
)

// PortalPlaneEpsilon is the distance under which the viewer counts as
// standing in a portal's plane.
const PortalPlaneEpsilon = 1e-3

// LinkMode selects how the linker finds the areas a primitive overlaps.
type LinkMode uint8

// Link modes.
const (
	// LinkAuto tests area bounds directly on levels with at most
	// SmallLevelAreas areas or without a BSP, and descends the BSP otherwise.
	LinkAuto LinkMode = iota
	// LinkBounds always tests area bounds directly.
	LinkBounds
	// LinkBSP descends the BSP whenever the level has one.
	LinkBSP
)

// Options tune a System.
type Options struct {
	// MaxPortalDepth bounds the number of portals a traversal chain may
	// cross. Deeper chains are cut off silently.
	MaxPortalDepth int
	// LinkMode selects the linker strategy.
	LinkMode LinkMode
	// SmallLevelAreas is the area count up to which LinkAuto tests area
	// bounds directly instead of descending the BSP.
	SmallLevelAreas int
	// PoolBlockSize is the number of primitives the pool allocates at once.
	PoolBlockSize int
	// ScalarCulling disables the batched culling path.
	ScalarCulling bool
	// Logger receives construction warnings. Nil discards them.
	Logger *zap.Logger
}

// DefaultOptions returns the options NewSystem uses for zero fields.
func DefaultOptions() Options {
	return Options{
		MaxPortalDepth:  DefaultMaxPortalDepth,
		SmallLevelAreas: DefaultSmallLevelAreas,
		PoolBlockSize:   DefaultPoolBlockSize,
	}
}

// System owns a static level and the primitives linked into it.
//
// Queries may run concurrently with each other, each with its own
// QueryContext. Registry calls and UpdatePrimitiveLinks must not overlap
// with queries or with each other.
type System struct {
	log  *zap.Logger
	opts Options

	areas        []Area // indoor areas, then the outdoor area
	outdoor      *Area
	indoorBounds geom.AABB
	portals      []*Portal

	nodes  []bspNode
	leafs  []bspLeaf
	root   int32
	hasBSP bool

	pool    *primitivePool
	prims   []*Primitive
	dirty   []*Primitive
	scratch []*Area
}

// NewSystem builds the runtime level from baked data. Malformed records are
// logged and dropped; the result is always usable, in the worst case with
// every primitive in the outdoor area.
func NewSystem(info CreateInfo, opts Options) *System {
	defaults := DefaultOptions()
	if opts.MaxPortalDepth <= 0 {
		opts.MaxPortalDepth = defaults.MaxPortalDepth
	}
	if opts.SmallLevelAreas <= 0 {
		opts.SmallLevelAreas = defaults.SmallLevelAreas
	}
	if opts.PoolBlockSize <= 0 {
		opts.PoolBlockSize = defaults.PoolBlockSize
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &System{
		log:  log,
		opts: opts,
		pool: newPrimitivePool(opts.PoolBlockSize),
	}
	s.buildAreas(info)
	s.buildPortals(info)
	s.buildBSP(info)

	s.log.Debug("visibility system built",
		zap.Int("areas", len(info.Areas)),
		zap.Int("portals", s.PortalCount()),
		zap.Int("nodes", len(s.nodes)),
		zap.Int("leafs", len(s.leafs)),
		zap.Bool("bsp", s.hasBSP),
	)
	return s
}

func (s *System) buildAreas(info CreateInfo) {
	if len(info.Areas) == 0 {
		s.log.Warn("level has no areas, everything falls back to the outdoor area")
	}

	s.areas = make([]Area, len(info.Areas)+1)
	s.indoorBounds = geom.EmptyAABB()
	for i, def := range info.Areas {
		b := def.Bounds
		if b.IsEmpty() {
			s.log.Warn("area has inverted bounds, reordering", zap.Int("area", i))
			b = geom.NewAABB(b.Min.Min(b.Max), b.Min.Max(b.Max))
		}
		s.areas[i] = Area{index: i, bounds: b}
		s.indoorBounds = s.indoorBounds.Union(b)
	}

	last := len(s.areas) - 1
	s.areas[last] = Area{index: last, bounds: unboundedAABB(), outdoor: true}
	s.outdoor = &s.areas[last]
}

// areaAt maps a baked area index to its runtime area. It returns nil for
// indices outside [OutdoorArea, len(Areas)).
func (s *System) areaAt(i int32) *Area {
	switch {
	case i == OutdoorArea:
		return s.outdoor
	case i < 0 || int(i) >= len(s.areas)-1:
		return nil
	default:
		return &s.areas[i]
	}
}

func (s *System) buildPortals(info CreateInfo) {
	s.portals = make([]*Portal, len(info.Portals))
	for i, def := range info.Portals {
		if def.NumVerts < 3 || def.FirstVert < 0 || int(def.FirstVert)+int(def.NumVerts) > len(info.HullVerts) {
			s.log.Warn("dropping portal with invalid hull range",
				zap.Int("portal", i),
				zap.Int32("first", def.FirstVert),
				zap.Int32("count", def.NumVerts),
			)
			continue
		}

		a0, a1 := s.areaAt(def.Areas[0]), s.areaAt(def.Areas[1])
		if a0 == nil || a1 == nil || a0 == a1 {
			s.log.Warn("dropping portal with dangling area index",
				zap.Int("portal", i),
				zap.Int32("area0", def.Areas[0]),
				zap.Int32("area1", def.Areas[1]),
			)
			continue
		}

		hull := make([]math3d.Vec3, def.NumVerts)
		copy(hull, info.HullVerts[def.FirstVert:def.FirstVert+def.NumVerts])

		normal := geom.PolygonNormal(hull)
		if normal.Len()*0.5 < geom.ClipEpsilon {
			s.log.Warn("dropping degenerate portal", zap.Int("portal", i))
			continue
		}
		plane := geom.PlaneFromPointNormal(geom.PolygonCentroid(hull), normal)

		// Orient the plane from a0 towards a1.
		var flip bool
		if !a0.outdoor {
			flip = plane.DistanceToPoint(a0.bounds.Center()) > 0
		} else {
			flip = plane.DistanceToPoint(a1.bounds.Center()) < 0
		}
		if flip {
			plane = plane.Flip()
			reverseHull(hull)
		}

		bounds := geom.EmptyAABB()
		for _, v := range hull {
			bounds = bounds.Extend(v)
		}
		p := &Portal{index: i, hull: hull, bounds: bounds, plane: plane, areas: [2]*Area{a0, a1}}
		s.portals[i] = p

		back := make([]math3d.Vec3, len(hull))
		copy(back, hull)
		reverseHull(back)

		a0.portals = append(a0.portals, PortalLink{Portal: p, To: a1, Hull: hull, Plane: plane})
		a1.portals = append(a1.portals, PortalLink{Portal: p, To: a0, Hull: back, Plane: plane.Flip()})
	}
}

func reverseHull(h []math3d.Vec3) {
	for i, j := 0, len(h)-1; i < j; i, j = i+1, j-1 {
		h[i], h[j] = h[j], h[i]
	}
}

func (s *System) buildBSP(info CreateInfo) {
	s.leafs = make([]bspLeaf, len(info.Leafs))
	for i, def := range info.Leafs {
		area := def.Area
		if s.areaAt(area) == nil {
			s.log.Warn("leaf references unknown area, using outdoor",
				zap.Int("leaf", i), zap.Int32("area", area))
			area = OutdoorArea
		}
		s.leafs[i] = bspLeaf{area: area, audioArea: def.AudioArea}
	}

	s.nodes = make([]bspNode, 0, len(info.Nodes))
	valid := true
	for i, def := range info.Nodes {
		if def.Plane < 0 || int(def.Plane) >= len(info.Planes) {
			s.log.Warn("node references unknown plane", zap.Int("node", i), zap.Int32("plane", def.Plane))
			valid = false
			break
		}
		childOK := true
		for _, c := range def.Children {
			// Children must point forward so the tree cannot loop.
			if c >= 0 && (int(c) <= i || int(c) >= len(info.Nodes)) {
				childOK = false
			}
			if c < 0 && int(-1-c) >= len(info.Leafs) {
				childOK = false
			}
		}
		if !childOK {
			s.log.Warn("node has out of range child",
				zap.Int("node", i),
				zap.Int32("front", def.Children[0]),
				zap.Int32("back", def.Children[1]),
			)
			valid = false
			break
		}

		plane := info.Planes[def.Plane]
		plane.Normalize()
		s.nodes = append(s.nodes, bspNode{
			plane:     plane,
			bounds:    def.Bounds,
			hasBounds: def.Bounds != (geom.AABB{}),
			children:  def.Children,
		})
	}

	switch {
	case !valid:
		s.log.Warn("BSP disabled, falling back to area bounds tests")
		s.nodes = nil
	case len(s.nodes) > 0:
		s.root, s.hasBSP = 0, true
	case len(s.leafs) > 0:
		s.root, s.hasBSP = LeafChild(0), true
	}
}

// Logger returns the system's logger.
func (s *System) Logger() *zap.Logger {
	return s.log
}

// Options returns the effective options.
func (s *System) Options() Options {
	return s.opts
}

// AreaCount returns the number of indoor areas.
func (s *System) AreaCount() int {
	return len(s.areas) - 1
}

// Area returns indoor area i, or the outdoor area for OutdoorArea. It
// returns nil for out of range indices.
func (s *System) Area(i int) *Area {
	return s.areaAt(int32(i))
}

// OutdoorArea returns the catch-all area.
func (s *System) OutdoorArea() *Area {
	return s.outdoor
}

// IndoorBounds returns the union of all indoor area bounds.
func (s *System) IndoorBounds() geom.AABB {
	return s.indoorBounds
}

// PortalCount returns the number of portals that survived validation.
func (s *System) PortalCount() int {
	n := 0
	for _, p := range s.portals {
		if p != nil {
			n++
		}
	}
	return n
}

// Portal returns portal i, or nil if it was dropped or i is out of range.
func (s *System) Portal(i int) *Portal {
	if i < 0 || i >= len(s.portals) {
		return nil
	}
	return s.portals[i]
}

// SetPortalBlocked blocks or unblocks portal i. It returns false if the
// portal does not exist.
func (s *System) SetPortalBlocked(i int, blocked bool) bool {
	p := s.Portal(i)
	if p == nil {
		return false
	}
	p.blocked = blocked
	return true
}

// HasBSP reports whether point and overlap queries descend a BSP tree.
func (s *System) HasBSP() bool {
	return s.hasBSP
}

// LeafCount returns the number of BSP leafs.
func (s *System) LeafCount() int {
	return len(s.leafs)
}

// LeafAudioArea returns the ambient audio tag of leaf i, or -1.
func (s *System) LeafAudioArea(i int) int {
	if i < 0 || i >= len(s.leafs) {
		return -1
	}
	return int(s.leafs[i].audioArea)
}
