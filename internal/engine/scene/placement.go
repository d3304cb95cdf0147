package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// grounded returns pos with Y replaced by the ground height under it.
func (s *Scene) grounded(pos math.Vec3) math.Vec3 {
	pos.Y = s.HeightAt(pos.X, pos.Z)
	return pos
}

// LoadAt places the file at pos, standing on the ground under it.
// pos.Y is ignored.
func (s *Scene) LoadAt(path string, pos math.Vec3) bool {
	pos = s.grounded(pos)
	logger.Debug("placing",
		zap.String("path", path),
		zap.Float32("x", pos.X),
		zap.Float32("y", pos.Y),
		zap.Float32("z", pos.Z))
	return s.LoadWithPlacement(path, math.TranslateVec(pos))
}

// LoadAtRotZ places the file at pos on the ground, rotated in place by
// degrees about Z.
func (s *Scene) LoadAtRotZ(path string, pos math.Vec3, degrees float32) bool {
	pos = s.grounded(pos)
	m := math.TranslateVec(pos).Mul(math.RotateZ(math.Radians(degrees)))
	return s.LoadWithPlacement(path, m)
}

// LoadAtRotY translates the file to pos on the ground and then rotates the
// result by degrees about the world Y axis through the origin. The object
// only rotates in place when pos is the origin.
func (s *Scene) LoadAtRotY(path string, pos math.Vec3, degrees float32) bool {
	pos = s.grounded(pos)
	m := math.RotateYDegrees(degrees).Mul(math.TranslateVec(pos))
	return s.LoadWithPlacement(path, m)
}

// LoadNear places the file on the ground at the centre of the anchor box
// plus offset on the XZ plane. It fails without side effects when no box
// is named anchor.
func (s *Scene) LoadNear(path, anchor string, offset math.Vec2) bool {
	box, ok := s.LookupBox(anchor)
	if !ok {
		logger.Warn("placement anchor not found", zap.String("path", path), zap.String("anchor", anchor))
		return false
	}
	return s.loadBeside(path, box, offset)
}

// LoadOnFloor is LoadNear with the floor box as anchor.
func (s *Scene) LoadOnFloor(path string, offset math.Vec2) bool {
	box, ok := s.lookupRole(bounds.RoleFloor)
	if !ok {
		logger.Warn("no floor to place on", zap.String("path", path))
		return false
	}
	return s.loadBeside(path, box, offset)
}

func (s *Scene) loadBeside(path string, box bounds.Box, offset math.Vec2) bool {
	c := box.Center()
	pos := s.grounded(math.Vec3{X: c.X + offset.X, Z: c.Z + offset.Y})
	return s.LoadWithPlacement(path, math.TranslateVec(pos))
}
