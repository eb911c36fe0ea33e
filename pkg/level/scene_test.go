package level

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/vis"
)

func loadHouse(t *testing.T) (*vis.System, *Scene) {
	t.Helper()
	sys, _, err := Build("testdata/house.yaml", vis.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sc, err := LoadScene("testdata/house_scene.yaml", sys)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	return sys, sc
}

func areaIndices(p *vis.Primitive) []int {
	var out []int
	for _, a := range p.Areas() {
		out = append(out, a.Index())
	}
	return out
}

func TestLoadSceneLinks(t *testing.T) {
	sys, sc := loadHouse(t)
	if sys.PrimitiveCount() != 6 || sys.PendingCount() != 0 {
		t.Fatalf("%d primitives, %d pending, want 6 and 0", sys.PrimitiveCount(), sys.PendingCount())
	}

	tests := []struct {
		name  string
		areas []int
	}{
		{"crate", []int{0}},
		{"ball", []int{1}},
		{"sign", []int{2}},
		{"tree", []int{vis.OutdoorArea}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obj, ok := sc.Find(tc.name)
			if !ok {
				t.Fatalf("%s not loaded", tc.name)
			}
			got := areaIndices(obj.Primitive)
			if len(got) != len(tc.areas) || got[0] != tc.areas[0] {
				t.Errorf("areas = %v, want %v", got, tc.areas)
			}
			if obj.Primitive.Owner != tc.name {
				t.Errorf("Owner = %v", obj.Primitive.Owner)
			}
		})
	}

	beam, _ := sc.Find("beam")
	if beam.Primitive.LinkCount() != 2 {
		t.Errorf("beam straddling the door links %v", areaIndices(beam.Primitive))
	}
}

func TestLoadSceneAttributes(t *testing.T) {
	_, sc := loadHouse(t)

	sign, _ := sc.Find("sign")
	if sign.Primitive.Flags&vis.FlagFacePlane == 0 || sign.Primitive.Flags&vis.FlagTwoSided != 0 {
		t.Errorf("sign flags = %b", sign.Primitive.Flags)
	}
	if n := sign.Primitive.FacePlane.Normal; n != math3d.V3(0, 0, -1) {
		t.Errorf("sign normal = %v", n)
	}

	occ, _ := sc.Find("occluder")
	if want := vis.QueryInvisible | vis.QueryShadowCast; occ.Primitive.QueryGroup != want {
		t.Errorf("occluder groups = %b, want %b", occ.Primitive.QueryGroup, want)
	}

	tree, _ := sc.Find("tree")
	if tree.Primitive.VisGroup != 2 {
		t.Errorf("tree visibility = %d, want 2", tree.Primitive.VisGroup)
	}

	ball, _ := sc.Find("ball")
	if _, ok := ball.Primitive.Raycaster.(vis.SphereRaycaster); !ok {
		t.Errorf("ball raycaster = %T", ball.Primitive.Raycaster)
	}
}

func TestSceneQueryThroughDoors(t *testing.T) {
	sys, sc := loadHouse(t)

	eye := math3d.V3(2, 5, 5)
	proj := math3d.Perspective(math.Pi/2, 1, 0.1, 100)
	view := vis.NewView(eye, proj.Mul(math3d.LookAt(eye, math3d.V3(15, 5, 5), math3d.Up())))
	ctx := vis.NewQueryContext()

	visible := func(f vis.Filter) map[string]bool {
		var out vis.VisibleSet
		sys.QueryVisiblePrimitives(ctx, &view, &f, &out)
		names := make(map[string]bool)
		for _, p := range out.Primitives {
			names[p.Owner.(string)] = true
		}
		return names
	}

	got := visible(vis.DefaultFilter())
	for _, name := range []string{"ball", "beam", "tree"} {
		if !got[name] {
			t.Errorf("%s not visible through the door and window", name)
		}
	}
	if got["occluder"] {
		t.Error("shadow-only occluder returned by a visible query")
	}
	if got["sign"] {
		t.Error("sign in the north room is outside the view")
	}

	layer := vis.DefaultFilter()
	layer.VisibilityMask = vis.VisibilityDefault
	if visible(layer)["tree"] {
		t.Error("tree on layer 2 passed a layer 1 filter")
	}

	shadow := vis.DefaultFilter()
	shadow.QueryMask = vis.QueryShadowCast
	if !visible(shadow)["occluder"] {
		t.Error("occluder missing from a shadow query")
	}

	sc.Remove()
	if sys.PrimitiveCount() != 0 {
		t.Errorf("%d primitives left after Remove", sys.PrimitiveCount())
	}
}

func TestLoadSceneBlockedPortals(t *testing.T) {
	sys, _, err := Build("testdata/house.yaml", vis.Options{})
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, t.TempDir(), "scene.yaml", "blocked_portals: [0, 9]\nprimitives: []\n")
	if _, err := LoadScene(path, sys); err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if !sys.Portal(0).Blocked() || sys.Portal(1).Blocked() {
		t.Error("only portal 0 should be blocked")
	}
}

func TestLoadSceneErrors(t *testing.T) {
	valid := "  - name: ok\n    box: {min: [1, 1, 1], max: [2, 2, 2]}\n"
	tests := []struct {
		name string
		prim string
		want string
	}{
		{"two shapes", "  - name: bad\n    box: {min: [0, 0, 0], max: [1, 1, 1]}\n    sphere: {center: [0, 0, 0], radius: 1}\n", "exactly one"},
		{"no shape", "  - name: bad\n", "exactly one"},
		{"unknown group", "  - name: bad\n    box: {min: [0, 0, 0], max: [1, 1, 1]}\n    groups: [glowing]\n", "glowing"},
		{"flat sphere", "  - name: bad\n    sphere: {center: [0, 0, 0], radius: 0}\n", "radius"},
		{"missing mesh", "  - name: bad\n    mesh: {path: nope.glb}\n", "bad"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sys, _, err := Build("testdata/house.yaml", vis.Options{})
			if err != nil {
				t.Fatal(err)
			}
			path := writeFile(t, t.TempDir(), "scene.yaml", "primitives:\n"+valid+tc.prim)
			_, err = LoadScene(path, sys)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
			if sys.PrimitiveCount() != 0 {
				t.Errorf("%d primitives left registered", sys.PrimitiveCount())
			}
		})
	}
}

// writeTriangleGLB saves one triangle in the XY plane facing +Z.
func writeTriangleGLB(t *testing.T, dir string) {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	if err := gltf.SaveBinary(doc, filepath.Join(dir, "tri.glb")); err != nil {
		t.Fatalf("save glb: %v", err)
	}
}

func TestLoadSceneMesh(t *testing.T) {
	dir := t.TempDir()
	writeTriangleGLB(t, dir)
	path := writeFile(t, dir, "scene.yaml", `
primitives:
  - name: a
    mesh: {path: tri.glb, position: [2, 2, 5], scale: 4}
  - name: b
    mesh: {path: tri.glb, position: [12, 2, 5], scale: 4}
  - name: c
    mesh: {path: tri.glb, name: tri, flip_winding: true, position: [2, 2, 2], scale: 4}
`)

	sys, _, err := Build("testdata/house.yaml", vis.Options{})
	if err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScene(path, sys)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}

	a, _ := sc.Find("a")
	b, _ := sc.Find("b")
	if a.Mesh == nil || a.Mesh != b.Mesh {
		t.Error("both objects should share one loaded mesh")
	}
	c, _ := sc.Find("c")
	if c.Mesh == a.Mesh || c.Mesh.Name != "tri.glb#tri" {
		t.Errorf("c mesh = %q, want its own flipped copy", c.Mesh.Name)
	}
	if n := c.Mesh.FaceNormal(0); !n.NearlyEqual(math3d.V3(0, 0, -1), 1e-9) {
		t.Errorf("flipped normal = %v, want -Z", n)
	}
	if got := a.Primitive.Bounds().Max; !got.NearlyEqual(math3d.V3(6, 6, 5), 1e-9) {
		t.Errorf("a bounds max = %v, want (6, 6, 5)", got)
	}
	if got := areaIndices(b.Primitive); len(got) != 1 || got[0] != 1 {
		t.Errorf("b areas = %v, want [1]", got)
	}

	var hit vis.ClosestResult
	ctx := vis.NewQueryContext()
	if !sys.RaycastClosest(ctx, math3d.V3(3, 3, 9), math3d.V3(3, 3, 1), nil, &hit) {
		t.Fatal("ray down onto triangle a missed")
	}
	if hit.Primitive != a.Primitive {
		t.Errorf("hit %v, want a", hit.Primitive.Owner)
	}
	if d := hit.Hit.Distance; d < 4-1e-9 || d > 4+1e-9 {
		t.Errorf("hit distance = %v, want 4", d)
	}
}
