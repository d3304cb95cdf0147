// Package physics implements the walkthrough's lightweight spatial model:
// floor and stair height, door articulation and door collision.
package physics

import (
	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// minStairLength guards the progress division on degenerate stair boxes.
const minStairLength = 1e-5

// HeightAt returns the walkable surface height at (x, z).
//
// The baseline is an infinite plane at 0. A floor box whose XZ extent
// contains the point contributes its top. Every stair box containing the
// point ramps linearly along its longer horizontal axis from its bottom to
// the floor top (or its own top when there is no floor). The highest
// candidate wins.
func HeightAt(boxes []bounds.Box, x, z float32) float32 {
	height := float32(0)

	floor, hasFloor := findRole(boxes, bounds.RoleFloor)
	if hasFloor && floor.ContainsXZ(x, z) && floor.Max.Y > height {
		height = floor.Max.Y
	}

	for i := range boxes {
		b := &boxes[i]
		if b.Role != bounds.RoleStair || !b.ContainsXZ(x, z) {
			continue
		}

		var length, progress float32
		if b.WideAlongX() {
			length = b.Max.X - b.Min.X
			progress = x - b.Min.X
		} else {
			length = b.Max.Z - b.Min.Z
			progress = z - b.Min.Z
		}
		if length <= minStairLength {
			continue
		}
		t := math.Clamp(progress/length, 0, 1)

		top := b.Max.Y
		if hasFloor {
			top = floor.Max.Y
		}
		if y := math.Lerp(b.Min.Y, top, t); y > height {
			height = y
		}
	}
	return height
}

// findRole returns the first box with role r.
func findRole(boxes []bounds.Box, r bounds.Role) (bounds.Box, bool) {
	for _, b := range boxes {
		if b.Role == r {
			return b, true
		}
	}
	return bounds.Box{}, false
}

// GroundFollower low-pass filters ground height between frames so the eye
// does not jump at stair tread edges.
type GroundFollower struct {
	LastY  float32
	Lerp   float32
	primed bool
}

// NewGroundFollower returns a follower blending by lerp each sample.
func NewGroundFollower(lerp float32) *GroundFollower {
	return &GroundFollower{Lerp: lerp}
}

// Follow blends groundY into the filtered height and returns it.
// The first sample is taken as is.
func (f *GroundFollower) Follow(groundY float32) float32 {
	if !f.primed {
		f.LastY = groundY
		f.primed = true
	}
	f.LastY = math.Lerp(f.LastY, groundY, f.Lerp)
	return f.LastY
}

// Reset forgets the filtered height; the next sample primes it again.
func (f *GroundFollower) Reset() {
	f.LastY = 0
	f.primed = false
}
