package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/pkg/math"
)

var (
	ErrNoIndices   = errors.New("primitive has no indices")
	ErrNoPositions = errors.New("primitive has no positions")
	ErrIndexRange  = errors.New("index references a missing vertex")
)

var defaultNormal = [3]float32{0, 1, 0}

// Primitive is the decoded attribute data of one scene primitive.
// Positions are tightly packed xyz, Normals xyz, TexCoords uv.
type Primitive struct {
	Name      string
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint32
	Transform math.Mat4
}

// VertexCount returns the number of complete positions.
func (p *Primitive) VertexCount() int {
	return len(p.Positions) / 3
}

// Assemble builds a mesh from p. Positions are moved into world space with
// p.Transform; normals are passed through untransformed. A primitive whose
// normal or texcoord stream is shorter than its position stream gets the
// defaults (0,1,0) and (0,0) for every vertex. The returned mesh carries
// the unpadded world-space box of its positions.
func Assemble(p Primitive) (*Mesh, error) {
	if len(p.Indices) == 0 {
		return nil, ErrNoIndices
	}
	n := p.VertexCount()
	if n == 0 {
		return nil, ErrNoPositions
	}
	for _, idx := range p.Indices {
		if int(idx) >= n {
			return nil, fmt.Errorf("%w: %d >= %d", ErrIndexRange, idx, n)
		}
	}

	hasNormals := len(p.Normals) >= n*3
	hasUVs := len(p.TexCoords) >= n*2

	mesh := &Mesh{
		Name:     p.Name,
		Vertices: make([]Vertex, n),
		Indices:  append([]uint32(nil), p.Indices...),
		Bounds:   bounds.Empty(p.Name),
	}

	for i := 0; i < n; i++ {
		local := math.Vec3{X: p.Positions[i*3], Y: p.Positions[i*3+1], Z: p.Positions[i*3+2]}
		world := p.Transform.TransformVec3(local)
		mesh.Bounds.Extend(world)

		v := &mesh.Vertices[i]
		v.Position = world.Array()
		v.Normal = defaultNormal
		if hasNormals {
			v.Normal = [3]float32{p.Normals[i*3], p.Normals[i*3+1], p.Normals[i*3+2]}
		}
		if hasUVs {
			v.TexCoord = [2]float32{p.TexCoords[i*2], p.TexCoords[i*2+1]}
		}
	}

	return mesh, nil
}
