package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// flatWorld has constant ground, a list of blocked XZ rectangles and named boxes.
type flatWorld struct {
	ground  float32
	walls   []bounds.Box
	anchors map[string]bounds.Box
}

func (w *flatWorld) HeightAt(x, z float32) float32 { return w.ground }

func (w *flatWorld) Blocked(p math.Vec3) bool {
	for _, b := range w.walls {
		if b.ContainsXZ(p.X, p.Z) {
			return true
		}
	}
	return false
}

func (w *flatWorld) LookupBox(name string) (bounds.Box, bool) {
	b, ok := w.anchors[name]
	return b, ok
}

// facingX returns a camera at the origin looking down +X.
func facingX() *FirstPerson {
	s := DefaultSettings()
	s.Position = math.Vec3{}
	s.Yaw = 0
	s.Pitch = 0
	return New(s)
}

func TestDefaultVectors(t *testing.T) {
	c := New(DefaultSettings())
	// yaw -270 looks down +Z
	assert.InDelta(t, 0, c.Front().X, 1e-3)
	assert.InDelta(t, 1, c.Front().Z, 0.01)
	assert.InDelta(t, -1, c.Right().X, 1e-3)
	assert.Greater(t, c.Up().Y, float32(0.9))
}

func TestMoveForwardFollowsGround(t *testing.T) {
	c := facingX()
	w := &flatWorld{ground: 2}

	c.Move(w, Forward, 1)
	assert.InDelta(t, 3, c.Position.X, 1e-4)
	assert.InDelta(t, 0, c.Position.Z, 1e-4)
	assert.InDelta(t, 3.7, c.Position.Y, 1e-4)

	w.ground = 4
	c.Move(w, Backward, 1)
	assert.InDelta(t, 0, c.Position.X, 1e-4)
	// halfway between 2 and 4
	assert.InDelta(t, 4.7, c.Position.Y, 1e-4)
}

func TestMoveStrafe(t *testing.T) {
	c := facingX()
	w := &flatWorld{}

	c.Move(w, Right, 1)
	assert.InDelta(t, 3, c.Position.Z, 1e-4)
	c.Move(w, Left, 2)
	assert.InDelta(t, -3, c.Position.Z, 1e-4)
}

func TestMoveIgnoresPitch(t *testing.T) {
	c := facingX()
	c.Rotate(0, 80)
	c.Move(&flatWorld{}, Forward, 1)
	assert.InDelta(t, 3, c.Position.X, 1e-3)
}

func TestMoveSlidesAlongWall(t *testing.T) {
	c := facingX()
	c.Rotate(45, 0)
	w := &flatWorld{walls: []bounds.Box{{
		Min: math.Vec3{X: 0.5, Z: -10},
		Max: math.Vec3{X: 5, Z: 10},
	}}}

	c.Move(w, Forward, 1)
	assert.InDelta(t, 0, c.Position.X, 1e-5)
	assert.InDelta(t, 2.1213, c.Position.Z, 1e-3)
}

func TestMoveBlockedEntirely(t *testing.T) {
	c := facingX()
	w := &flatWorld{walls: []bounds.Box{{
		Min: math.Vec3{X: 0.1, Z: -10},
		Max: math.Vec3{X: 5, Z: 10},
	}}}
	c.Move(w, Forward, 1)
	assert.Equal(t, float32(0), c.Position.X)
}

func TestFreeVerticalSkipsGroundFollow(t *testing.T) {
	c := facingX()
	w := &flatWorld{}

	c.MoveVertical(w, Up, 1)
	require.True(t, c.FreeVertical)
	assert.InDelta(t, 4.5, c.Position.Y, 1e-4)

	c.Move(w, Forward, 1)
	assert.InDelta(t, 4.5, c.Position.Y, 1e-4)
}

func TestMoveVerticalCeiling(t *testing.T) {
	c := facingX()
	c.Position.Y = 49
	c.MoveVertical(&flatWorld{}, Up, 1)
	assert.Equal(t, float32(49), c.Position.Y)
	assert.True(t, c.FreeVertical)
}

func TestMoveVerticalLandingLeavesFreeMode(t *testing.T) {
	c := facingX()
	w := &flatWorld{ground: 1}
	c.Position.Y = 5

	c.MoveVertical(w, Down, 0.5)
	assert.InDelta(t, 2.75, c.Position.Y, 1e-4)
	assert.True(t, c.FreeVertical)

	c.MoveVertical(w, Down, 0.5)
	assert.InDelta(t, 2.75, c.Position.Y, 1e-4)
	assert.False(t, c.FreeVertical)
}

func TestPitchClamp(t *testing.T) {
	c := facingX()
	c.Rotate(0, 200)
	assert.Equal(t, float32(89), c.Pitch)
	c.Rotate(0, -500)
	assert.Equal(t, float32(-89), c.Pitch)
}

func TestRotateKeys(t *testing.T) {
	c := facingX()
	c.RotateKeys(Right, 0.5)
	assert.InDelta(t, 30, c.Yaw, 1e-4)
	c.RotateKeys(Forward, 0.25)
	assert.InDelta(t, 15, c.Pitch, 1e-4)
	c.RotateKeys(Left, 0.5)
	c.RotateKeys(Backward, 0.25)
	assert.InDelta(t, 0, c.Yaw, 1e-4)
	assert.InDelta(t, 0, c.Pitch, 1e-4)
}

func TestLook(t *testing.T) {
	c := facingX()
	c.Look(100, 50)
	assert.InDelta(t, 10, c.Yaw, 1e-4)
	assert.InDelta(t, -5, c.Pitch, 1e-4)
}

func TestSpawnInFrontOf(t *testing.T) {
	tests := []struct {
		name    string
		box     bounds.Box
		wantPos math.Vec3
		wantYaw float32
	}{
		{
			name:    "wide along X",
			box:     bounds.Box{Min: math.Vec3{X: -2, Z: -1}, Max: math.Vec3{X: 2, Z: 1}},
			wantPos: math.Vec3{X: 0, Y: 2.7, Z: 3},
			wantYaw: -90,
		},
		{
			name:    "deep along Z",
			box:     bounds.Box{Min: math.Vec3{X: -1, Z: -2}, Max: math.Vec3{X: 1, Z: 2}},
			wantPos: math.Vec3{X: 3, Y: 2.7, Z: 0},
			wantYaw: 180,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := facingX()
			c.FreeVertical = true
			w := &flatWorld{ground: 1, anchors: map[string]bounds.Box{"escada": tt.box}}

			require.True(t, c.SpawnInFrontOf(w, "escada", 3))
			assert.InDelta(t, tt.wantPos.X, c.Position.X, 1e-4)
			assert.InDelta(t, tt.wantPos.Y, c.Position.Y, 1e-4)
			assert.InDelta(t, tt.wantPos.Z, c.Position.Z, 1e-4)
			assert.InDelta(t, tt.wantYaw, c.Yaw, 1e-3)
			assert.Equal(t, float32(0), c.Pitch)
			assert.False(t, c.FreeVertical)
		})
	}
}

func TestSpawnMissingAnchor(t *testing.T) {
	c := facingX()
	assert.False(t, c.SpawnInFrontOf(&flatWorld{}, "escada", 3))
	assert.Equal(t, math.Vec3{}, c.Position)
}

func TestViewProjectionKeepsTargetInFront(t *testing.T) {
	c := facingX()
	vp := c.ViewProjection(4.0 / 3.0)
	clip := vp.MulVec4(math.Vec4{5, 0, 0, 1})
	ndcZ := clip[2] / clip[3]
	assert.Greater(t, clip[3], float32(0))
	assert.True(t, ndcZ > -1 && ndcZ < 1)
}
