package physics

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// DoorConfig holds door animation and collision tuning.
type DoorConfig struct {
	Speed           float32 // degrees per second
	Radius          float32 // toggle reach, world units
	ClosedThreshold float32 // degrees; blocks at or below
	OpenAngle       float32 // degrees
	Inflate         float32 // XZ margin on blocking boxes
}

// DefaultDoorConfig returns the stock door tuning.
func DefaultDoorConfig() DoorConfig {
	return DoorConfig{
		Speed:           180,
		Radius:          5,
		ClosedThreshold: 5,
		OpenAngle:       90,
		Inflate:         0.02,
	}
}

const (
	snapEpsilon   = 0.1 // degrees
	openThreshold = 1.0 // degrees
)

// Door is one hinged mesh. Angles are signed degrees about +Y.
type Door struct {
	Name      string
	MeshIndex int
	Box       bounds.Box
	HingeLow  bool
	Angle     float32
	Target    float32
	Speed     float32
	Hinge     math.Vec3
	Open      bool
}

// NewDoor builds a closed door for a mesh box. The hinge is a vertical
// line at mid height, on the low or high end of the wider horizontal axis
// and centred on the other.
func NewDoor(meshIndex int, box bounds.Box, hingeLow bool, speed float32) Door {
	c := box.Center()
	hinge := math.Vec3{X: c.X, Y: c.Y, Z: c.Z}
	if box.WideAlongX() {
		hinge.X = box.Max.X
		if hingeLow {
			hinge.X = box.Min.X
		}
	} else {
		hinge.Z = box.Max.Z
		if hingeLow {
			hinge.Z = box.Min.Z
		}
	}
	return Door{
		Name:      box.Name,
		MeshIndex: meshIndex,
		Box:       box,
		HingeLow:  hingeLow,
		Speed:     speed,
		Hinge:     hinge,
	}
}

// Step advances the angle toward the target by dt seconds. It reports
// whether the door arrived at its target on this call.
func (d *Door) Step(dt float32) bool {
	if math32.Abs(d.Angle-d.Target) < snapEpsilon {
		arrived := d.Angle != d.Target
		d.Angle = d.Target
		d.Open = math32.Abs(d.Target) > openThreshold
		return arrived
	}

	dir := float32(1)
	if d.Angle > d.Target {
		dir = -1
	}
	d.Angle += dir * d.Speed * dt
	if (dir > 0 && d.Angle > d.Target) || (dir < 0 && d.Angle < d.Target) {
		d.Angle = d.Target
		d.Open = math32.Abs(d.Target) > openThreshold
		return true
	}
	return false
}

// Toggle flips the target between closed and open. Opening swings away
// from the hinge side. Open is left unchanged until the door arrives.
func (d *Door) Toggle(openAngle float32) {
	target := float32(0)
	if !d.Open {
		target = openAngle
	}
	side := float32(-1)
	if d.HingeLow {
		side = 1
	}
	d.Target = target * -side
}

// Transform returns the hinge rotation T(hinge) * R_y(angle) * T(-hinge).
func (d *Door) Transform() math.Mat4 {
	return math.TranslateVec(d.Hinge).
		Mul(math.RotateYDegrees(d.Angle)).
		Mul(math.TranslateVec(d.Hinge.Scale(-1)))
}

// DoorSet owns every door of a scene plus lookups by mesh index and name.
type DoorSet struct {
	cfg    DoorConfig
	doors  []Door
	byMesh map[int]int
	byName map[string]int
}

// NewDoorSet returns an empty door set.
func NewDoorSet(cfg DoorConfig) *DoorSet {
	return &DoorSet{
		cfg:    cfg,
		byMesh: make(map[int]int),
		byName: make(map[string]int),
	}
}

// Config returns the door tuning.
func (s *DoorSet) Config() DoorConfig {
	return s.cfg
}

// Rebuild discards every door and recreates them from boxes, where
// boxes[i] belongs to mesh i. Door angles reset to closed.
func (s *DoorSet) Rebuild(boxes []bounds.Box, rules bounds.Rules) {
	s.doors = nil
	clear(s.byMesh)
	clear(s.byName)

	for i, b := range boxes {
		if b.Role != bounds.RoleDoor {
			continue
		}
		rule, ok := rules.Door(b.Name)
		if !ok {
			continue
		}
		idx := len(s.doors)
		s.doors = append(s.doors, NewDoor(i, b, rule.HingeLow, s.cfg.Speed))
		s.byMesh[i] = idx
		if _, dup := s.byName[b.Name]; !dup {
			s.byName[b.Name] = idx
		}
	}

	logger.Info("doors rebuilt", zap.Int("count", len(s.doors)))
}

// Len returns the number of doors.
func (s *DoorSet) Len() int {
	return len(s.doors)
}

// At returns door i.
func (s *DoorSet) At(i int) *Door {
	return &s.doors[i]
}

// ByMesh returns the door rendered by mesh index i.
func (s *DoorSet) ByMesh(i int) (*Door, bool) {
	idx, ok := s.byMesh[i]
	if !ok {
		return nil, false
	}
	return &s.doors[idx], true
}

// ByName returns the first door with the given name.
func (s *DoorSet) ByName(name string) (*Door, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.doors[idx], true
}

// Nearest returns the door whose box centre is closest to pos on the XZ
// plane, strictly within the toggle radius.
func (s *DoorSet) Nearest(pos math.Vec3) (*Door, bool) {
	best := -1
	bestDist := s.cfg.Radius * s.cfg.Radius
	for i := range s.doors {
		c := s.doors[i].Box.Center()
		if d := pos.XZ().Sub(c.XZ()).LengthSq(); d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	return &s.doors[best], true
}

// ToggleNearest toggles the nearest door in reach of pos.
func (s *DoorSet) ToggleNearest(pos math.Vec3) (*Door, bool) {
	d, ok := s.Nearest(pos)
	if !ok {
		logger.Debug("no door in reach", zap.Float32("x", pos.X), zap.Float32("z", pos.Z))
		return nil, false
	}
	d.Toggle(s.cfg.OpenAngle)
	logger.Debug("door toggled", zap.String("door", d.Name), zap.Float32("target", d.Target))
	return d, true
}

// Advance steps every door by dt seconds.
func (s *DoorSet) Advance(dt float32) {
	for i := range s.doors {
		d := &s.doors[i]
		if d.Step(dt) {
			logger.Debug("door arrived", zap.String("door", d.Name), zap.Bool("open", d.Open))
		}
	}
}
