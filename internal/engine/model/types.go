// Package model assembles scene primitives into GPU-ready meshes.
package model

import (
	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Vertex is the interleaved vertex layout shared by every mesh:
// position (attribute 0), normal (attribute 1), texture coordinate (attribute 2).
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexStride is the size of one Vertex in bytes.
const VertexStride = 8 * 4

// Handle is the GPU buffer set backing an uploaded mesh.
// The zero Handle means nothing has been uploaded.
type Handle struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

// IsZero reports whether h refers to no GPU objects.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// Mesh holds one assembled primitive.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Bounds   bounds.Box

	// Valid is set once the mesh has been uploaded.
	Valid  bool
	Handle Handle
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int32 {
	return int32(len(m.Indices))
}

// GroundPlaneName names the synthetic ground mesh.
const GroundPlaneName = "ground"

// GroundPlane returns a flat quad at y=0 spanning [-size, size] on X and Z
// with texture coordinates repeating texScale times across it.
func GroundPlane(size, texScale float32) *Mesh {
	up := [3]float32{0, 1, 0}
	m := &Mesh{
		Name: GroundPlaneName,
		Vertices: []Vertex{
			{Position: [3]float32{-size, 0, -size}, Normal: up, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{size, 0, -size}, Normal: up, TexCoord: [2]float32{texScale, 0}},
			{Position: [3]float32{size, 0, size}, Normal: up, TexCoord: [2]float32{texScale, texScale}},
			{Position: [3]float32{-size, 0, size}, Normal: up, TexCoord: [2]float32{0, texScale}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
		Bounds:  bounds.Empty(GroundPlaneName),
	}
	for _, v := range m.Vertices {
		m.Bounds.Extend(math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]})
	}
	return m
}
