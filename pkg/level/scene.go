package level

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/models"
	"github.com/taigrr/portalvis/pkg/vis"
)

// BoxShape is an axis-aligned box primitive.
type BoxShape struct {
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`
}

// SphereShape is a sphere primitive.
type SphereShape struct {
	Center Vec3    `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

// MeshShape places a GLB mesh. Rotation is in degrees, applied Z, X then Y.
// Path is relative to the scene file. Name picks one mesh out of the file.
type MeshShape struct {
	Path        string  `yaml:"path"`
	Name        string  `yaml:"name,omitempty"`
	FlipWinding bool    `yaml:"flip_winding,omitempty"`
	Position    Vec3    `yaml:"position"`
	Rotation    Vec3    `yaml:"rotation"`
	Scale       float64 `yaml:"scale"`
}

// FacePlaneEntry makes a primitive planar.
type FacePlaneEntry struct {
	Normal   Vec3    `yaml:"normal"`
	Dist     float64 `yaml:"dist"`
	TwoSided bool    `yaml:"two_sided"`
}

// PrimitiveEntry is one primitive. Exactly one of Box, Sphere and Mesh is
// set. Groups defaults to visible, visible_in_light_pass and shadow_cast;
// Visibility defaults to 1.
type PrimitiveEntry struct {
	Name       string          `yaml:"name"`
	Box        *BoxShape       `yaml:"box,omitempty"`
	Sphere     *SphereShape    `yaml:"sphere,omitempty"`
	Mesh       *MeshShape      `yaml:"mesh,omitempty"`
	FacePlane  *FacePlaneEntry `yaml:"face_plane,omitempty"`
	Groups     []string        `yaml:"groups,omitempty"`
	Visibility uint32          `yaml:"visibility,omitempty"`
}

// SceneFile is the on-disk scene layout.
type SceneFile struct {
	BlockedPortals []int            `yaml:"blocked_portals"`
	Primitives     []PrimitiveEntry `yaml:"primitives"`
}

// Object is a primitive placed by a scene.
type Object struct {
	Name      string
	Primitive *vis.Primitive
	Mesh      *models.Mesh // nil for boxes and spheres
}

// Scene is the set of primitives a scene file registered with a system.
type Scene struct {
	Objects []Object

	sys *vis.System
}

var queryGroupNames = map[string]vis.QueryGroup{
	"visible":                 vis.QueryVisible,
	"invisible":               vis.QueryInvisible,
	"visible_in_light_pass":   vis.QueryVisibleInLightPass,
	"invisible_in_light_pass": vis.QueryInvisibleInLightPass,
	"shadow_cast":             vis.QueryShadowCast,
	"no_shadow_cast":          vis.QueryNoShadowCast,
}

// LoadScene reads a scene file and registers its primitives with sys. The
// primitives are linked before LoadScene returns. On error nothing is left
// registered.
func LoadScene(path string, sys *vis.System) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var f SceneFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}

	sc := &Scene{sys: sys}
	meshes := make(map[string]*models.Mesh)
	for i := range f.Primitives {
		e := &f.Primitives[i]
		obj, err := sc.add(e, filepath.Dir(path), meshes)
		if err != nil {
			sc.Remove()
			return nil, fmt.Errorf("scene %s: primitive %d (%s): %w", path, i, e.Name, err)
		}
		sc.Objects = append(sc.Objects, obj)
	}

	for _, i := range f.BlockedPortals {
		if !sys.SetPortalBlocked(i, true) {
			sys.Logger().Warn("scene blocks unknown portal", zap.Int("portal", i))
		}
	}

	sys.UpdatePrimitiveLinks()
	return sc, nil
}

func (sc *Scene) add(e *PrimitiveEntry, dir string, meshes map[string]*models.Mesh) (Object, error) {
	shapes := 0
	for _, set := range []bool{e.Box != nil, e.Sphere != nil, e.Mesh != nil} {
		if set {
			shapes++
		}
	}
	if shapes != 1 {
		return Object{}, errors.New("need exactly one of box, sphere or mesh")
	}

	groups := vis.QueryDefault
	if len(e.Groups) > 0 {
		groups = 0
		for _, name := range e.Groups {
			g, ok := queryGroupNames[name]
			if !ok {
				return Object{}, fmt.Errorf("unknown query group %q", name)
			}
			groups |= g
		}
	}

	var mesh *models.Mesh
	var meshRay *models.MeshRaycaster
	if e.Mesh != nil {
		var err error
		if mesh, err = e.Mesh.load(dir, meshes); err != nil {
			return Object{}, err
		}
		meshRay = models.NewMeshRaycaster(mesh, e.Mesh.transform())
	}
	if e.Sphere != nil && e.Sphere.Radius <= 0 {
		return Object{}, fmt.Errorf("sphere radius %v must be positive", e.Sphere.Radius)
	}

	p := sc.sys.AllocatePrimitive()
	p.Owner = e.Name
	p.QueryGroup = groups
	if e.Visibility != 0 {
		p.VisGroup = vis.VisibilityGroup(e.Visibility)
	}

	switch {
	case e.Box != nil:
		p.SetBox(geom.NewAABB(e.Box.Min.vec(), e.Box.Max.vec()))
		p.Raycaster = vis.BoxRaycaster{}
	case e.Sphere != nil:
		p.SetSphere(geom.Sphere{Center: e.Sphere.Center.vec(), Radius: e.Sphere.Radius})
		p.Raycaster = vis.SphereRaycaster{}
	default:
		meshRay.Attach(p)
	}

	if fp := e.FacePlane; fp != nil {
		plane := geom.NewPlane(fp.Normal.vec(), -fp.Dist)
		plane.Normalize()
		p.SetFacePlane(plane, fp.TwoSided)
	}

	sc.sys.AddPrimitive(p)
	return Object{Name: e.Name, Primitive: p, Mesh: mesh}, nil
}

// load reads the GLB once per path and loader options.
func (m *MeshShape) load(dir string, cache map[string]*models.Mesh) (*models.Mesh, error) {
	loader := models.GLTFLoader{MeshName: m.Name, FlipWinding: m.FlipWinding}
	path := filepath.Join(dir, m.Path)
	key := fmt.Sprintf("%s#%s#%t", path, m.Name, m.FlipWinding)
	if mesh, ok := cache[key]; ok {
		return mesh, nil
	}
	mesh, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	cache[key] = mesh
	return mesh, nil
}

func (m *MeshShape) transform() math3d.Mat4 {
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	deg := math.Pi / 180
	return math3d.Translate(m.Position.vec()).
		Mul(math3d.RotateY(m.Rotation.Y * deg)).
		Mul(math3d.RotateX(m.Rotation.X * deg)).
		Mul(math3d.RotateZ(m.Rotation.Z * deg)).
		Mul(math3d.ScaleUniform(scale))
}

// Find returns the object with the given name.
func (sc *Scene) Find(name string) (Object, bool) {
	for _, o := range sc.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return Object{}, false
}

// Remove unregisters every primitive of the scene.
func (sc *Scene) Remove() {
	for _, o := range sc.Objects {
		sc.sys.RemovePrimitive(o.Primitive)
	}
	sc.Objects = nil
}
