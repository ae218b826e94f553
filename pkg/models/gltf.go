package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/byuview/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool // compute smooth normals when the file has none
	NodeTransforms   bool // bake node TRS/matrix transforms into positions
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		NodeTransforms:   true,
	}
}

// LoadGLTF loads a .gltf or .glb file with default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))

	if l.NodeTransforms && len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
			return nil, fmt.Errorf("default scene %d out of range", sceneIdx)
		}
		visited := make(map[int]bool)
		for _, n := range doc.Scenes[sceneIdx].Nodes {
			if err := l.processNode(doc, n, math3d.Identity(), mesh, visited); err != nil {
				return nil, err
			}
		}
	} else {
		for _, m := range doc.Meshes {
			if err := l.processMesh(doc, m, math3d.Identity(), mesh); err != nil {
				return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
			}
		}
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// processNode bakes the node's world transform into every mesh below it.
func (l *GLTFLoader) processNode(doc *gltf.Document, idx int, parent math3d.Mat4, mesh *Mesh, visited map[int]bool) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", idx)
	}
	if visited[idx] {
		return fmt.Errorf("node %d visited twice", idx)
	}
	visited[idx] = true

	node := doc.Nodes[idx]
	world := parent.Mul(nodeTransform(node))

	if node.Mesh != nil {
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("node %d references mesh %d out of range", idx, *node.Mesh)
		}
		m := doc.Meshes[*node.Mesh]
		if err := l.processMesh(doc, m, world, mesh); err != nil {
			return fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	for _, child := range node.Children {
		if err := l.processNode(doc, child, world, mesh, visited); err != nil {
			return err
		}
	}
	return nil
}

// nodeTransform returns the local transform of a node. An explicit matrix
// wins over TRS; zero-valued fields fall back to their glTF defaults.
func nodeTransform(n *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(n.Matrix)
	if m != (math3d.Mat4{}) && m != math3d.Identity() {
		return m
	}

	t := math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])

	s := math3d.V3(n.Scale[0], n.Scale[1], n.Scale[2])
	if s.IsZero() {
		s = math3d.V3(1, 1, 1)
	}

	r := n.Rotation
	if r == [4]float64{} {
		r = [4]float64{0, 0, 0, 1}
	}

	return math3d.Translate(t).
		Mul(math3d.Quaternion(r[0], r[1], r[2], r[3])).
		Mul(math3d.Scale(s))
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, transform math3d.Mat4, mesh *Mesh) error {
	normalMat := transform.NormalMatrix()

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		// Get position accessor
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		// Get normals if available
		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		// Base vertex index for this primitive
		baseVertex := len(mesh.Vertices)

		for i := range positions {
			v := Vertex{
				Position: transform.MulVec3(positions[i]),
			}
			if i < len(normals) {
				v.Normal = normalMat.MulVec3Dir(normals[i]).Normalize()
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := baseVertex+indices[i], baseVertex+indices[i+1], baseVertex+indices[i+2]
			if a == b || b == c || a == c {
				continue
			}
			if err := mesh.AddTriangle(a, b, c); err != nil {
				return fmt.Errorf("triangle %d: %w", i/3, err)
			}
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	buf, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		if offset+12 > len(buf) {
			return nil, errAccessorBounds
		}
		result[i] = math3d.V3(
			float64(readFloat32(buf[offset:])),
			float64(readFloat32(buf[offset+4:])),
			float64(readFloat32(buf[offset+8:])),
		)
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	buf, start, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		if offset+size > len(buf) {
			return nil, errAccessorBounds
		}
		switch size {
		case 1:
			result[i] = int(buf[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(buf[offset:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(buf[offset:]))
		}
	}
	return result, nil
}

var errAccessorBounds = errors.New("accessor reads past end of buffer")

// accessorBytes returns the backing buffer of an accessor, the byte offset
// of its first element and the element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) (buf []byte, start, stride int, err error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]

	// gltf.Open resolves embedded and external buffers into Data.
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	stride = bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	return buffer.Data, bufferView.ByteOffset + accessor.ByteOffset, stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
