package scene

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/internal/engine/model"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/formats"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Attribute names read from primitives.
const (
	attrPosition = "POSITION"
	attrNormal   = "NORMAL"
	attrTexCoord = "TEXCOORD_0"
)

// ErrNoPrimitives is returned when a file yields no usable primitive.
var ErrNoPrimitives = errors.New("no usable primitives")

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// Load adds every primitive of the scene file at path, untransformed.
func (s *Scene) Load(path string) bool {
	return s.LoadWithPlacement(path, math.Identity())
}

// LoadWithPlacement adds every primitive of the scene file at path with
// placement applied on top of each node's own transform. On failure the
// scene is left unchanged and false is returned.
func (s *Scene) LoadWithPlacement(path string, placement math.Mat4) bool {
	doc, err := s.opener.Open(path)
	if err != nil {
		logger.Warn("scene load failed", zap.String("path", path), zap.Error(err))
		return false
	}
	if err := s.LoadDocument(doc, path, placement); err != nil {
		logger.Warn("scene load failed", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// LoadDocument adds the primitives of an already decoded document. source
// is only used in diagnostics.
func (s *Scene) LoadDocument(doc *gltf.Document, source string, placement math.Mat4) error {
	staged := assembleDocument(doc, source, placement)
	if len(staged) == 0 {
		return ErrNoPrimitives
	}

	added := 0
	for _, mesh := range staged {
		h, err := s.uploader.Upload(mesh)
		if err != nil {
			logger.Warn("mesh upload failed",
				zap.String("path", source),
				zap.String("mesh", mesh.Name),
				zap.Error(err))
			continue
		}
		mesh.Handle = h
		mesh.Valid = true
		s.add(mesh)
		added++
	}
	if added == 0 {
		return fmt.Errorf("uploading meshes: %w", ErrNoPrimitives)
	}

	s.loads++
	logger.Info("scene loaded",
		zap.String("path", source),
		zap.Int("meshes", added),
		zap.Int("total", len(s.meshes)))

	s.doors.Rebuild(s.boxes, s.config.Rules)
	if s.AfterLoad != nil {
		s.AfterLoad(s)
	}
	return nil
}

func (s *Scene) add(mesh *model.Mesh) {
	box := s.config.Rules.Tag(mesh.Bounds)
	s.meshes = append(s.meshes, mesh)
	s.boxes = append(s.boxes, box)
	if box.Role == bounds.RoleFloor {
		s.floorMesh = len(s.meshes) - 1
	}
	logger.Debug("mesh added",
		zap.String("mesh", mesh.Name),
		zap.Stringer("role", box.Role),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)))
}

// assembleDocument builds every usable primitive of doc without touching
// any scene state. Nodes are walked as a flat list.
func assembleDocument(doc *gltf.Document, source string, placement math.Mat4) []*model.Mesh {
	var out []*model.Mesh
	for ni, node := range doc.Nodes {
		if node == nil || node.Mesh == nil {
			continue
		}
		mi := *node.Mesh
		if mi < 0 || mi >= len(doc.Meshes) || doc.Meshes[mi] == nil {
			logger.Warn("node references missing mesh",
				zap.String("path", source),
				zap.Int("node", ni),
				zap.Int("mesh", mi))
			continue
		}
		gm := doc.Meshes[mi]

		name := node.Name
		if name == "" {
			name = gm.Name
		}
		world := placement.Mul(NodeTransform(node))

		for pi, prim := range gm.Primitives {
			if prim == nil {
				continue
			}
			p, err := decodePrimitive(doc, prim)
			if err == nil {
				p.Name = name
				p.Transform = world
				var mesh *model.Mesh
				if mesh, err = model.Assemble(p); err == nil {
					out = append(out, mesh)
					continue
				}
			}
			logger.Warn("primitive skipped",
				zap.String("path", source),
				zap.String("node", name),
				zap.Int("primitive", pi),
				zap.Error(err))
		}
	}
	return out
}

// decodePrimitive reads the attribute streams of prim. Missing normals or
// texture coordinates are left empty; malformed ones are reported and
// dropped.
func decodePrimitive(doc *gltf.Document, prim *gltf.Primitive) (model.Primitive, error) {
	var p model.Primitive

	if prim.Indices == nil {
		return p, model.ErrNoIndices
	}
	indices, err := formats.DecodeIndices(doc, *prim.Indices)
	if err != nil {
		return p, fmt.Errorf("indices: %w", err)
	}
	p.Indices = indices

	pos, ok := prim.Attributes[attrPosition]
	if !ok {
		return p, model.ErrNoPositions
	}
	if p.Positions, err = formats.DecodeAccessor(doc, pos, false); err != nil {
		return p, fmt.Errorf("positions: %w", err)
	}

	p.Normals = optionalAttribute(doc, prim, attrNormal, false)
	p.TexCoords = optionalAttribute(doc, prim, attrTexCoord, true)
	return p, nil
}

func optionalAttribute(doc *gltf.Document, prim *gltf.Primitive, attr string, texCoord bool) []float32 {
	idx, ok := prim.Attributes[attr]
	if !ok {
		return nil
	}
	data, err := formats.DecodeAccessor(doc, idx, texCoord)
	switch {
	case err == nil:
		return data
	case errors.Is(err, formats.ErrNoData):
	default:
		logger.Warn("attribute ignored",
			zap.String("attribute", attr),
			zap.Int("accessor", idx),
			zap.Error(err))
	}
	return nil
}

// NodeTransform returns the local transform of node: its explicit matrix
// when one is set, else Translation * Rotation * Scale. A zero scale is
// read as unset.
func NodeTransform(node *gltf.Node) math.Mat4 {
	if node.Matrix != identity64 && node.Matrix != ([16]float64{}) {
		return math.FromFloat64(node.Matrix)
	}
	scale := node.Scale
	if scale == ([3]float64{}) {
		scale = [3]float64{1, 1, 1}
	}
	return math.TRS(node.Translation, node.Rotation, scale)
}
