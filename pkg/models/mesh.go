// Package models loads static triangle meshes and exposes them to the
// visibility system as raycastable primitives.
package models

import (
	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// Mesh is an indexed triangle mesh in its local space. It is read-only once
// loaded and may back any number of primitives.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face
	Bounds   geom.AABB
}

// MeshVertex is a position with its texture coordinate.
type MeshVertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
}

// Face is a counter-clockwise triangle of vertex indices.
type Face struct {
	V [3]int
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, Bounds: geom.EmptyAABB()}
}

// CalculateBounds refits Bounds to the vertices.
func (m *Mesh) CalculateBounds() {
	m.Bounds = geom.EmptyAABB()
	for _, v := range m.Vertices {
		m.Bounds = m.Bounds.Extend(v.Position)
	}
}

func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// Triangle returns the positions of face i.
func (m *Mesh) Triangle(i int) (v0, v1, v2 math3d.Vec3) {
	f := m.Faces[i].V
	return m.Vertices[f[0]].Position, m.Vertices[f[1]].Position, m.Vertices[f[2]].Position
}

// FaceNormal is the unit normal of face i by the right-hand rule.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	v0, v1, v2 := m.Triangle(i)
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// FlipWinding reverses every face, turning front faces into back faces.
func (m *Mesh) FlipWinding() {
	for i := range m.Faces {
		f := &m.Faces[i].V
		f[1], f[2] = f[2], f[1]
	}
}

// NewBoxMesh builds the 12-triangle box for b with outward-facing
// counter-clockwise faces and per-face UVs.
func NewBoxMesh(name string, b geom.AABB) *Mesh {
	m := NewMesh(name)
	c := b.Corners()
	quads := [6][4]int{
		{1, 3, 7, 5}, // +X
		{0, 4, 6, 2}, // -X
		{2, 6, 7, 3}, // +Y
		{0, 1, 5, 4}, // -Y
		{4, 5, 7, 6}, // +Z
		{0, 2, 3, 1}, // -Z
	}
	uvs := [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	for _, q := range quads {
		base := len(m.Vertices)
		for k, ci := range q {
			m.Vertices = append(m.Vertices, MeshVertex{Position: c[ci], UV: uvs[k]})
		}
		m.Faces = append(m.Faces,
			Face{V: [3]int{base, base + 1, base + 2}},
			Face{V: [3]int{base, base + 2, base + 3}},
		)
	}
	m.CalculateBounds()
	return m
}
