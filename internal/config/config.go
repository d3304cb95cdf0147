// Package config handles walkthrough configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/internal/engine/camera"
	"github.com/Faultbox/walkthrough/internal/engine/physics"
	"github.com/Faultbox/walkthrough/internal/engine/scene"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Config holds all walkthrough settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Physics PhysicsConfig `yaml:"physics"`
	Roles   RolesConfig   `yaml:"roles"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds first-person movement tuning.
type CameraConfig struct {
	EyeHeight        float32    `yaml:"eye_height"`
	MoveSpeed        float32    `yaml:"move_speed"`
	VerticalSpeed    float32    `yaml:"vertical_speed"`
	MaxHeight        float32    `yaml:"max_height"`
	MinClearance     float32    `yaml:"min_clearance"`
	RotateSpeed      float32    `yaml:"rotate_speed"` // degrees per second
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	FOV              float32    `yaml:"fov"`
	Near             float32    `yaml:"near"`
	Far              float32    `yaml:"far"`
	GroundFollowLerp float32    `yaml:"ground_follow_lerp"`
	Position         [3]float32 `yaml:"position"`
	Yaw              float32    `yaml:"yaw"`
	Pitch            float32    `yaml:"pitch"`
}

// PhysicsConfig holds box padding and door tuning.
type PhysicsConfig struct {
	BoxPadding          float32 `yaml:"box_padding"`
	DoorSpeed           float32 `yaml:"door_speed"`
	DoorRadius          float32 `yaml:"door_radius"`
	DoorClosedThreshold float32 `yaml:"door_closed_threshold"`
	DoorOpenAngle       float32 `yaml:"door_open_angle"`
	CollisionInflate    float32 `yaml:"collision_inflate"`
}

// RolesConfig maps mesh names to roles.
type RolesConfig struct {
	Floor  string            `yaml:"floor"`
	Stairs []string          `yaml:"stairs"`
	Doors  []bounds.DoorRule `yaml:"doors"`
	NoPad  []string          `yaml:"no_pad"`
}

// SceneConfig holds what gets loaded at startup.
type SceneConfig struct {
	Models        []string    `yaml:"models"` // first existing file wins
	SearchPaths   []string    `yaml:"search_paths"`
	SpawnAnchor   string      `yaml:"spawn_anchor"`
	SpawnDistance float32     `yaml:"spawn_distance"`
	FloorTexture  string      `yaml:"floor_texture"`
	WorldTexScale float32     `yaml:"world_tex_scale"`
	Placements    []Placement `yaml:"placements"`
}

// Placement modes.
const (
	PlaceAt      = "at"
	PlaceRotY    = "rot_y"
	PlaceRotZ    = "rot_z"
	PlaceNear    = "near"
	PlaceOnFloor = "on_floor"
	PlaceMatrix  = "matrix"
)

// Placement is one extra scene file loaded after the main model.
type Placement struct {
	Path     string       `yaml:"path"`
	Mode     string       `yaml:"mode"`
	Position [3]float32   `yaml:"position,omitempty"`
	Degrees  float32      `yaml:"degrees,omitempty"`
	Anchor   string       `yaml:"anchor,omitempty"`
	Offset   [2]float32   `yaml:"offset,omitempty"`
	Matrix   *[16]float32 `yaml:"matrix,omitempty"` // column-major
}

// Validate reports a placement that cannot be applied.
func (p Placement) Validate() error {
	if p.Path == "" {
		return fmt.Errorf("placement: empty path")
	}
	switch p.Mode {
	case PlaceAt, PlaceRotY, PlaceRotZ, PlaceOnFloor:
	case PlaceNear:
		if p.Anchor == "" {
			return fmt.Errorf("placement %s: mode near needs an anchor", p.Path)
		}
	case PlaceMatrix:
		if p.Matrix == nil {
			return fmt.Errorf("placement %s: mode matrix needs a matrix", p.Path)
		}
	default:
		return fmt.Errorf("placement %s: unknown mode %q", p.Path, p.Mode)
	}
	return nil
}

// Apply loads the placement into s and reports whether it succeeded.
func (p Placement) Apply(s *scene.Scene) bool {
	pos := math.Vec3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]}
	offset := math.Vec2{X: p.Offset[0], Y: p.Offset[1]}
	switch p.Mode {
	case PlaceAt:
		return s.LoadAt(p.Path, pos)
	case PlaceRotY:
		return s.LoadAtRotY(p.Path, pos, p.Degrees)
	case PlaceRotZ:
		return s.LoadAtRotZ(p.Path, pos, p.Degrees)
	case PlaceNear:
		return s.LoadNear(p.Path, p.Anchor, offset)
	case PlaceOnFloor:
		return s.LoadOnFloor(p.Path, offset)
	case PlaceMatrix:
		if p.Matrix == nil {
			return false
		}
		return s.LoadWithPlacement(p.Path, math.Mat4(*p.Matrix))
	}
	return false
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	cam := camera.DefaultSettings()
	doors := physics.DefaultDoorConfig()
	rules := bounds.DefaultRules()

	return &Config{
		Window: WindowConfig{
			Title:      "Walkthrough",
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			EyeHeight:        cam.EyeHeight,
			MoveSpeed:        cam.MoveSpeed,
			VerticalSpeed:    cam.VerticalSpeed,
			MaxHeight:        cam.MaxHeight,
			MinClearance:     cam.MinClearance,
			RotateSpeed:      cam.RotateSpeed,
			MouseSensitivity: cam.MouseSensitivity,
			FOV:              cam.FOV,
			Near:             cam.Near,
			Far:              cam.Far,
			GroundFollowLerp: cam.GroundLerp,
			Position:         cam.Position.Array(),
			Yaw:              cam.Yaw,
			Pitch:            cam.Pitch,
		},
		Physics: PhysicsConfig{
			BoxPadding:          rules.Padding,
			DoorSpeed:           doors.Speed,
			DoorRadius:          doors.Radius,
			DoorClosedThreshold: doors.ClosedThreshold,
			DoorOpenAngle:       doors.OpenAngle,
			CollisionInflate:    doors.Inflate,
		},
		Roles: RolesConfig{
			Floor:  rules.Floor,
			Stairs: rules.Stairs,
			Doors:  rules.Doors,
			NoPad:  rules.NoPad,
		},
		Scene: SceneConfig{
			Models:        []string{"models/TJAL.gltf", "models/tjal.gltf", "TJAL.gltf", "tjal.gltf"},
			SpawnAnchor:   "escada",
			SpawnDistance: 3,
			FloorTexture:  "chao.png",
			WorldTexScale: 0.5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// CameraSettings converts the camera section.
func (c *Config) CameraSettings() camera.Settings {
	cc := c.Camera
	return camera.Settings{
		EyeHeight:        cc.EyeHeight,
		MoveSpeed:        cc.MoveSpeed,
		VerticalSpeed:    cc.VerticalSpeed,
		MaxHeight:        cc.MaxHeight,
		MinClearance:     cc.MinClearance,
		RotateSpeed:      cc.RotateSpeed,
		MouseSensitivity: cc.MouseSensitivity,
		FOV:              cc.FOV,
		Near:             cc.Near,
		Far:              cc.Far,
		GroundLerp:       cc.GroundFollowLerp,
		Position:         math.Vec3{X: cc.Position[0], Y: cc.Position[1], Z: cc.Position[2]},
		Yaw:              cc.Yaw,
		Pitch:            cc.Pitch,
	}
}

// SceneSettings converts the roles and physics sections.
func (c *Config) SceneSettings() scene.Config {
	return scene.Config{
		Rules: bounds.Rules{
			Floor:   c.Roles.Floor,
			Stairs:  c.Roles.Stairs,
			Doors:   c.Roles.Doors,
			NoPad:   c.Roles.NoPad,
			Padding: c.Physics.BoxPadding,
		},
		Doors: physics.DoorConfig{
			Speed:           c.Physics.DoorSpeed,
			Radius:          c.Physics.DoorRadius,
			ClosedThreshold: c.Physics.DoorClosedThreshold,
			OpenAngle:       c.Physics.DoorOpenAngle,
			Inflate:         c.Physics.CollisionInflate,
		},
	}
}
