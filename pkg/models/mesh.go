// Package models provides mesh loading and representation for byuview.
package models

import (
	"fmt"
	"strconv"

	"github.com/taigrr/byuview/pkg/math3d"
)

// Mesh is a vertex arena plus the triangles that index into it.
// Triangles never copy vertices, so a normal assigned to a vertex is seen
// by every triangle that shares it.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Triangles []Triangle

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Vertex holds a position plus optional shading normal and label.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3 // zero when unset
	Label    string
}

// Edge is an ordered pair of vertex indices.
type Edge struct {
	Start, End int
}

// Triangle is three edges whose endpoints chain into a closed loop.
type Triangle struct {
	Edges [3]Edge
	Label string
}

// NewTriangle builds the closed edge loop a→b→c→a.
func NewTriangle(a, b, c int) Triangle {
	return Triangle{
		Edges: [3]Edge{
			{Start: a, End: b},
			{Start: b, End: c},
			{Start: c, End: a},
		},
	}
}

// Vertex returns the index of vertex i (0..2) in edge traversal order.
func (t Triangle) Vertex(i int) int {
	return t.Edges[i].Start
}

// Indices returns the three vertex indices in edge traversal order.
func (t Triangle) Indices() [3]int {
	return [3]int{t.Edges[0].Start, t.Edges[1].Start, t.Edges[2].Start}
}

// Valid reports whether the edges close into a loop over three distinct vertices.
func (t Triangle) Valid() bool {
	for i := range 3 {
		if t.Edges[i].End != t.Edges[(i+1)%3].Start {
			return false
		}
	}
	idx := t.Indices()
	return idx[0] != idx[1] && idx[1] != idx[2] && idx[0] != idx[2]
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]Vertex, 0),
		Triangles: make([]Triangle, 0),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos math3d.Vec3) int {
	m.Vertices = append(m.Vertices, Vertex{Position: pos})
	return len(m.Vertices) - 1
}

// AddTriangle appends the triangle (a, b, c). Indices are 0-based.
func (m *Mesh) AddTriangle(a, b, c int) error {
	for _, i := range [3]int{a, b, c} {
		if i < 0 || i >= len(m.Vertices) {
			return fmt.Errorf("vertex index %d out of range [0, %d)", i, len(m.Vertices))
		}
	}
	m.Triangles = append(m.Triangles, NewTriangle(a, b, c))
	return nil
}

// Append copies other's vertices and triangles into m, rebasing indices.
func (m *Mesh) Append(other *Mesh) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, t := range other.Triangles {
		for i := range t.Edges {
			t.Edges[i].Start += base
			t.Edges[i].End += base
		}
		m.Triangles = append(m.Triangles, t)
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateSmoothNormals sets every vertex normal to the normalized
// average of the unit normals of the triangles that share it.
// Vertices used by no triangle keep a zero normal.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, t := range m.Triangles {
		idx := t.Indices()
		v0 := m.Vertices[idx[0]].Position
		v1 := m.Vertices[idx[1]].Position
		v2 := m.Vertices[idx[2]].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		for _, i := range idx {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	nm := mat.NormalMatrix()
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = nm.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// GetVertex returns the position and normal for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices for triangle i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Triangles[i].Indices()
}

// VertexLabel returns the label of vertex i, or its 1-based index when unlabeled.
// Implements render.LabeledMesh interface.
func (m *Mesh) VertexLabel(i int) string {
	if l := m.Vertices[i].Label; l != "" {
		return l
	}
	return strconv.Itoa(i + 1)
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
