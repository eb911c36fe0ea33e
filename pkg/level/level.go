// Package level reads baked levels and primitive scenes from YAML.
//
// A level file holds the static index handed to vis.NewSystem: area boxes,
// portal hulls, BSP planes, nodes and leafs. A scene file places primitives
// (boxes, spheres and GLB meshes) into a built system.
package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/vis"
)

// Vec3 is a point written as a three element sequence, [x, y, z].
type Vec3 math3d.Vec3

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var xyz []float64
	if err := node.Decode(&xyz); err != nil {
		return err
	}
	if len(xyz) != 3 {
		return fmt.Errorf("line %d: want [x, y, z], got %d values", node.Line, len(xyz))
	}
	*v = Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return nil
}

func (v Vec3) vec() math3d.Vec3 { return math3d.Vec3(v) }

// AreaEntry is an area box.
type AreaEntry struct {
	Name string `yaml:"name,omitempty"`
	Min  Vec3   `yaml:"min"`
	Max  Vec3   `yaml:"max"`
}

// PortalEntry is a convex portal hull joining two areas. Area -1 is the
// outdoor area.
type PortalEntry struct {
	Areas [2]int32 `yaml:"areas"`
	Hull  []Vec3   `yaml:"hull"`
}

// PlaneEntry is the plane dot(normal, p) = dist. The front side is where
// dot(normal, p) > dist.
type PlaneEntry struct {
	Normal Vec3    `yaml:"normal"`
	Dist   float64 `yaml:"dist"`
}

// ChildRef points at either a node or a leaf.
type ChildRef struct {
	Node *int `yaml:"node,omitempty"`
	Leaf *int `yaml:"leaf,omitempty"`
}

// NodeEntry is a BSP node. Min/Max are optional bounds.
type NodeEntry struct {
	Plane int      `yaml:"plane"`
	Front ChildRef `yaml:"front"`
	Back  ChildRef `yaml:"back"`
	Min   *Vec3    `yaml:"min,omitempty"`
	Max   *Vec3    `yaml:"max,omitempty"`
}

// LeafEntry is a BSP leaf. Area -1 is the outdoor area.
type LeafEntry struct {
	Area      int32 `yaml:"area"`
	AudioArea int32 `yaml:"audio_area"`
}

// File is the on-disk level layout.
type File struct {
	Name    string        `yaml:"name"`
	Areas   []AreaEntry   `yaml:"areas"`
	Portals []PortalEntry `yaml:"portals"`
	Planes  []PlaneEntry  `yaml:"planes"`
	Nodes   []NodeEntry   `yaml:"nodes"`
	Leafs   []LeafEntry   `yaml:"leafs"`
}

// Load reads a level file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	f, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a level from YAML.
func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

// check rejects what cannot be encoded in vis.CreateInfo at all. Index
// errors are left to vis.NewSystem, which logs and drops bad records.
func (f *File) check() error {
	for i, n := range f.Nodes {
		for side, c := range []ChildRef{n.Front, n.Back} {
			if (c.Node == nil) == (c.Leaf == nil) {
				return fmt.Errorf("node %d child %d: need exactly one of node or leaf", i, side)
			}
		}
		if (n.Min == nil) != (n.Max == nil) {
			return fmt.Errorf("node %d: min and max must be given together", i)
		}
	}
	return nil
}

func (c ChildRef) encode() int32 {
	if c.Leaf != nil {
		return vis.LeafChild(*c.Leaf)
	}
	return int32(*c.Node)
}

// CreateInfo converts the file to the baked form vis.NewSystem takes.
func (f *File) CreateInfo() vis.CreateInfo {
	info := vis.CreateInfo{
		Areas:   make([]vis.AreaDef, len(f.Areas)),
		Portals: make([]vis.PortalDef, len(f.Portals)),
		Planes:  make([]geom.Plane, len(f.Planes)),
		Nodes:   make([]vis.NodeDef, len(f.Nodes)),
		Leafs:   make([]vis.LeafDef, len(f.Leafs)),
	}

	for i, a := range f.Areas {
		info.Areas[i] = vis.AreaDef{Bounds: geom.NewAABB(a.Min.vec(), a.Max.vec())}
	}

	for i, p := range f.Portals {
		info.Portals[i] = vis.PortalDef{
			FirstVert: int32(len(info.HullVerts)),
			NumVerts:  int32(len(p.Hull)),
			Areas:     p.Areas,
		}
		for _, v := range p.Hull {
			info.HullVerts = append(info.HullVerts, v.vec())
		}
	}

	for i, p := range f.Planes {
		plane := geom.NewPlane(p.Normal.vec(), -p.Dist)
		plane.Normalize()
		info.Planes[i] = plane
	}

	for i, n := range f.Nodes {
		def := vis.NodeDef{
			Plane:    int32(n.Plane),
			Children: [2]int32{n.Front.encode(), n.Back.encode()},
		}
		if n.Min != nil {
			def.Bounds = geom.NewAABB(n.Min.vec(), n.Max.vec())
		}
		info.Nodes[i] = def
	}

	for i, l := range f.Leafs {
		info.Leafs[i] = vis.LeafDef{Area: l.Area, AudioArea: l.AudioArea}
	}
	return info
}

// Build loads a level file and constructs a system from it.
func Build(path string, opts vis.Options) (*vis.System, *File, error) {
	f, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	return vis.NewSystem(f.CreateInfo(), opts), f, nil
}
