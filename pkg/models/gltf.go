package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/portalvis/pkg/math3d"
)

// ErrNoTriangles is returned for files without any triangle primitive.
var ErrNoTriangles = errors.New("no triangle primitives")

// GLTFLoader reads glTF and GLB files into a single Mesh. Every triangle
// primitive of the selected meshes is merged; lines and points are skipped.
type GLTFLoader struct {
	// MeshName loads only the glTF mesh with this name. Empty loads all.
	MeshName string
	// FlipWinding is for exporters that write clockwise front faces.
	FlipWinding bool
}

// LoadGLB loads every mesh of a file with glTF's counter-clockwise winding.
func LoadGLB(path string) (*Mesh, error) {
	return (&GLTFLoader{}).Load(path)
}

// Load opens path and merges the selected meshes.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	found := false
	for _, m := range doc.Meshes {
		if l.MeshName != "" && m.Name != l.MeshName {
			continue
		}
		found = true
		for _, prim := range m.Primitives {
			if err := appendPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
		}
	}
	if l.MeshName != "" && !found {
		return nil, fmt.Errorf("no mesh named %q", l.MeshName)
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoTriangles
	}

	if l.FlipWinding {
		mesh.FlipWinding()
	}
	if l.MeshName != "" {
		mesh.Name += "#" + l.MeshName
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// appendPrimitive adds the vertices and triangles of one primitive.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := MeshVertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
		if i < len(uvs) {
			v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// Non-indexed: consecutive vertex triples.
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for tri := range len(indices) / 3 {
		var f Face
		for k := range 3 {
			idx := int(indices[tri*3+k])
			if idx >= len(positions) {
				return fmt.Errorf("index %d out of range", idx)
			}
			f.V[k] = base + idx
		}
		mesh.Faces = append(mesh.Faces, f)
	}
	return nil
}
