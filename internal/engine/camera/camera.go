// Package camera provides the first-person walk camera.
package camera

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/internal/engine/physics"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// World is what the camera needs from the scene.
type World interface {
	HeightAt(x, z float32) float32
	Blocked(pos math.Vec3) bool
	LookupBox(name string) (bounds.Box, bool)
}

// Direction is a horizontal movement direction.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// Vertical is a free-flight direction.
type Vertical int

const (
	Up Vertical = iota
	Down
)

const maxPitch = 89

var worldUp = math.Vec3{Y: 1}

// Settings holds camera tuning. Angles are in degrees.
type Settings struct {
	EyeHeight        float32
	MoveSpeed        float32
	VerticalSpeed    float32
	MaxHeight        float32
	MinClearance     float32
	RotateSpeed      float32
	MouseSensitivity float32
	FOV              float32
	Near             float32
	Far              float32
	GroundLerp       float32

	Position math.Vec3
	Yaw      float32
	Pitch    float32
}

// DefaultSettings returns the walkthrough defaults.
func DefaultSettings() Settings {
	return Settings{
		EyeHeight:        1.7,
		MoveSpeed:        3.0,
		VerticalSpeed:    4.5,
		MaxHeight:        50,
		MinClearance:     0.5,
		RotateSpeed:      60,
		MouseSensitivity: 0.1,
		FOV:              45,
		Near:             0.01,
		Far:              200,
		GroundLerp:       0.5,
		Position:         math.Vec3{X: 0, Y: 0.8, Z: -2.5},
		Yaw:              -270,
		Pitch:            -5,
	}
}

// FirstPerson is a yaw/pitch camera that walks on the scene ground.
type FirstPerson struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32

	// FreeVertical is set while flying; ground following is suspended.
	FreeVertical bool

	settings Settings
	ground   *physics.GroundFollower

	front math.Vec3
	right math.Vec3
	up    math.Vec3
}

// New creates a camera at the configured start pose.
func New(s Settings) *FirstPerson {
	c := &FirstPerson{
		Position: s.Position,
		Yaw:      s.Yaw,
		Pitch:    s.Pitch,
		settings: s,
		ground:   physics.NewGroundFollower(s.GroundLerp),
	}
	c.updateVectors()
	return c
}

// Settings returns the camera tuning.
func (c *FirstPerson) Settings() Settings {
	return c.settings
}

// Front returns the unit view direction.
func (c *FirstPerson) Front() math.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *FirstPerson) Right() math.Vec3 { return c.right }

// Up returns the camera up vector.
func (c *FirstPerson) Up() math.Vec3 { return c.up }

func (c *FirstPerson) updateVectors() {
	yaw, pitch := math.Radians(c.Yaw), math.Radians(c.Pitch)
	c.front = math.Vec3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

// Rotate adds offsets in degrees; pitch stays within +/-89.
func (c *FirstPerson) Rotate(yawOffset, pitchOffset float32) {
	c.Yaw += yawOffset
	c.Pitch = math.Clamp(c.Pitch+pitchOffset, -maxPitch, maxPitch)
	c.updateVectors()
}

// RotateKeys turns the camera at the keyboard rotation speed. Forward and
// Backward pitch up and down, Left and Right yaw.
func (c *FirstPerson) RotateKeys(dir Direction, dt float32) {
	amount := c.settings.RotateSpeed * dt
	switch dir {
	case Forward:
		c.Rotate(0, amount)
	case Backward:
		c.Rotate(0, -amount)
	case Left:
		c.Rotate(-amount, 0)
	case Right:
		c.Rotate(amount, 0)
	}
}

// Look applies a relative mouse motion. Screen Y grows downward.
func (c *FirstPerson) Look(dx, dy float32) {
	s := c.settings.MouseSensitivity
	c.Rotate(dx*s, -dy*s)
}

// Move walks in dir for dt seconds. Each horizontal axis is tested against
// the world separately, X first, so the camera slides along blockers.
// Outside free flight the eye follows the ground.
func (c *FirstPerson) Move(w World, dir Direction, dt float32) {
	velocity := c.settings.MoveSpeed * dt
	front := math.Vec3{X: c.front.X, Z: c.front.Z}.Normalize()
	right := math.Vec3{X: c.right.X, Z: c.right.Z}.Normalize()

	var step math.Vec3
	switch dir {
	case Forward:
		step = front.Scale(velocity)
	case Backward:
		step = front.Scale(-velocity)
	case Left:
		step = right.Scale(-velocity)
	case Right:
		step = right.Scale(velocity)
	}

	next := c.Position
	if tryX := (math.Vec3{X: c.Position.X + step.X, Y: c.Position.Y, Z: c.Position.Z}); !w.Blocked(tryX) {
		next.X = tryX.X
	}
	if tryZ := (math.Vec3{X: next.X, Y: c.Position.Y, Z: c.Position.Z + step.Z}); !w.Blocked(tryZ) {
		next.Z = tryZ.Z
	}
	c.Position = next

	if !c.FreeVertical {
		c.FollowGround(w)
	}
}

// FollowGround places the eye above the smoothed ground height.
func (c *FirstPerson) FollowGround(w World) {
	y := c.ground.Follow(w.HeightAt(c.Position.X, c.Position.Z))
	c.Position.Y = y + c.settings.EyeHeight
}

// MoveVertical flies up or down and enters free flight. Climbing stops at
// MaxHeight; descending below MinClearance above the ground leaves free
// flight instead of moving.
func (c *FirstPerson) MoveVertical(w World, dir Vertical, dt float32) {
	c.FreeVertical = true
	delta := c.settings.VerticalSpeed * dt

	switch dir {
	case Up:
		next := c.Position
		next.Y += delta
		if next.Y <= c.settings.MaxHeight && !w.Blocked(next) {
			c.Position = next
		}
	case Down:
		next := c.Position
		next.Y -= delta
		floor := w.HeightAt(next.X, next.Z)
		if next.Y >= floor+c.settings.MinClearance && !w.Blocked(next) {
			c.Position = next
		} else {
			c.FreeVertical = false
		}
	}
}

// SpawnInFrontOf stands the camera distance units from the centre of the
// named box, on its front side, facing it. The front is -Z of a box wider
// along X and -X otherwise. It reports false when no such box exists.
func (c *FirstPerson) SpawnInFrontOf(w World, name string, distance float32) bool {
	box, ok := w.LookupBox(name)
	if !ok {
		logger.Warn("spawn anchor not found", zap.String("anchor", name))
		return false
	}

	center := box.Center()
	forward := math.Vec3{Z: -1}
	if !box.WideAlongX() {
		forward = math.Vec3{X: -1}
	}
	pos := center.Sub(forward.Scale(distance))
	pos.Y = w.HeightAt(pos.X, pos.Z) + c.settings.EyeHeight

	c.Position = pos
	c.FreeVertical = false
	c.ground.Reset()

	to := math.Vec3{X: center.X - pos.X, Z: center.Z - pos.Z}.Normalize()
	c.Yaw = math.Degrees(math32.Atan2(to.Z, to.X))
	c.Pitch = 0
	c.updateVectors()

	logger.Info("camera spawned",
		zap.String("anchor", name),
		zap.Float32("x", pos.X),
		zap.Float32("y", pos.Y),
		zap.Float32("z", pos.Z),
		zap.Float32("yaw", c.Yaw))
	return true
}

// ViewMatrix returns the world-to-view transform.
func (c *FirstPerson) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.front), c.up)
}

// Projection returns the perspective projection for the given aspect ratio.
func (c *FirstPerson) Projection(aspect float32) math.Mat4 {
	return math.Perspective(math.Radians(c.settings.FOV), aspect, c.settings.Near, c.settings.Far)
}

// ViewProjection returns Projection * ViewMatrix.
func (c *FirstPerson) ViewProjection(aspect float32) math.Mat4 {
	return c.Projection(aspect).Mul(c.ViewMatrix())
}
