package world

import (
	"github.com/Faultbox/walkthrough/internal/engine/camera"
	"github.com/Faultbox/walkthrough/internal/engine/scene"
)

// Intent is one frame of player input, already mapped from devices.
type Intent struct {
	Forward, Backward, StrafeLeft, StrafeRight bool
	FlyUp, FlyDown                             bool
	LookUp, LookDown, TurnLeft, TurnRight      bool

	MouseDX, MouseDY float32

	ToggleDoor bool
}

// MovementController applies intents to the camera against the scene.
type MovementController struct {
	scene  *scene.Scene
	camera *camera.FirstPerson
}

// NewMovementController creates a controller for cam walking through s.
func NewMovementController(s *scene.Scene, cam *camera.FirstPerson) *MovementController {
	return &MovementController{scene: s, camera: cam}
}

// Camera returns the controlled camera.
func (mc *MovementController) Camera() *camera.FirstPerson {
	return mc.camera
}

// Spawn stands the camera in front of the named box.
func (mc *MovementController) Spawn(anchor string, distance float32) bool {
	if anchor == "" {
		return false
	}
	return mc.camera.SpawnInFrontOf(mc.scene, anchor, distance)
}

// Update advances one frame: look, walk, fly, toggle, then animate doors.
// Door toggling happens before the doors advance so a press is visible
// in the same frame.
func (mc *MovementController) Update(in Intent, dt float32) {
	cam := mc.camera

	if in.MouseDX != 0 || in.MouseDY != 0 {
		cam.Look(in.MouseDX, in.MouseDY)
	}
	keys := []struct {
		held bool
		dir  camera.Direction
	}{
		{in.LookUp, camera.Forward},
		{in.LookDown, camera.Backward},
		{in.TurnLeft, camera.Left},
		{in.TurnRight, camera.Right},
	}
	for _, k := range keys {
		if k.held {
			cam.RotateKeys(k.dir, dt)
		}
	}

	moves := []struct {
		held bool
		dir  camera.Direction
	}{
		{in.Forward, camera.Forward},
		{in.Backward, camera.Backward},
		{in.StrafeLeft, camera.Left},
		{in.StrafeRight, camera.Right},
	}
	for _, m := range moves {
		if m.held {
			cam.Move(mc.scene, m.dir, dt)
		}
	}

	if in.FlyUp {
		cam.MoveVertical(mc.scene, camera.Up, dt)
	}
	if in.FlyDown {
		cam.MoveVertical(mc.scene, camera.Down, dt)
	}

	if in.ToggleDoor {
		mc.scene.ToggleNearestDoor(cam.Position)
	}
	mc.scene.AdvanceDoors(dt)
}
