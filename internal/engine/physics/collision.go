package physics

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/walkthrough/pkg/math"
)

// Blocks reports whether the door is close enough to shut to stop movement.
func (d *Door) Blocks(closedThreshold float32) bool {
	return math32.Abs(d.Angle) <= closedThreshold
}

// Blocked reports whether pos lies inside the XZ footprint of any blocking
// door, grown by the collision margin. Y is ignored.
//
// Callers moving diagonally should test the X step and the Z step
// separately so the camera can slide along a closed door.
func (s *DoorSet) Blocked(pos math.Vec3) bool {
	for i := range s.doors {
		d := &s.doors[i]
		if !d.Blocks(s.cfg.ClosedThreshold) {
			continue
		}
		if d.Box.ContainsXZInflated(pos.X, pos.Z, s.cfg.Inflate) {
			return true
		}
	}
	return false
}
