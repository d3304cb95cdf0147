// Package scene loads scene files into a flat list of world-space meshes
// and their bounding boxes, and answers the spatial queries the frame loop
// needs: ground height, door toggling, collision and visibility.
package scene

import (
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/internal/engine/culling"
	"github.com/Faultbox/walkthrough/internal/engine/model"
	"github.com/Faultbox/walkthrough/internal/engine/physics"
	"github.com/Faultbox/walkthrough/internal/engine/picking"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/formats"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Uploader creates and releases the GPU buffers backing a mesh.
type Uploader interface {
	Upload(m *model.Mesh) (model.Handle, error)
	Release(h model.Handle)
}

// Opener reads and decodes scene files.
type Opener interface {
	Open(path string) (*gltf.Document, error)
}

type fileOpener struct{}

func (fileOpener) Open(path string) (*gltf.Document, error) { return formats.Open(path) }

// Headless is an Uploader that keeps meshes on the CPU only.
type Headless struct{}

// Upload implements Uploader.
func (Headless) Upload(*model.Mesh) (model.Handle, error) { return model.Handle{}, nil }

// Release implements Uploader.
func (Headless) Release(model.Handle) {}

// Config contains scene options.
type Config struct {
	Rules bounds.Rules
	Doors physics.DoorConfig
}

// DefaultConfig returns the default naming rules and door tuning.
func DefaultConfig() Config {
	return Config{
		Rules: bounds.DefaultRules(),
		Doors: physics.DefaultDoorConfig(),
	}
}

// Scene owns every mesh, box and door loaded so far. Meshes and boxes are
// append-only and correspond by index.
type Scene struct {
	config   Config
	uploader Uploader
	opener   Opener

	meshes []*model.Mesh
	boxes  []bounds.Box
	doors  *physics.DoorSet

	floorMesh int
	loads     int

	// AfterLoad, when set, runs after every successful load once doors
	// have been rebuilt.
	AfterLoad func(s *Scene)
}

// New creates an empty scene. A nil uploader means Headless.
func New(cfg Config, up Uploader) *Scene {
	if up == nil {
		up = Headless{}
	}
	return &Scene{
		config:    cfg,
		uploader:  up,
		opener:    fileOpener{},
		doors:     physics.NewDoorSet(cfg.Doors),
		floorMesh: -1,
	}
}

// SetOpener replaces how scene files are read. nil restores direct file
// reads.
func (s *Scene) SetOpener(o Opener) {
	if o == nil {
		o = fileOpener{}
	}
	s.opener = o
}

// Config returns the scene options.
func (s *Scene) Config() Config {
	return s.config
}

// Meshes returns the mesh list. Callers must not modify it.
func (s *Scene) Meshes() []*model.Mesh {
	return s.meshes
}

// Boxes returns the box list; Boxes()[i] bounds Meshes()[i].
func (s *Scene) Boxes() []bounds.Box {
	return s.boxes
}

// Doors returns the door set.
func (s *Scene) Doors() *physics.DoorSet {
	return s.doors
}

// FloorMeshIndex returns the index of the floor mesh, if one was loaded.
func (s *Scene) FloorMeshIndex() (int, bool) {
	return s.floorMesh, s.floorMesh >= 0
}

// Loads returns the number of successful loads.
func (s *Scene) Loads() int {
	return s.loads
}

// LookupBox returns the first box with the given name.
func (s *Scene) LookupBox(name string) (bounds.Box, bool) {
	for _, b := range s.boxes {
		if b.Name == name {
			return b, true
		}
	}
	return bounds.Box{}, false
}

// lookupRole returns the first box carrying role r.
func (s *Scene) lookupRole(r bounds.Role) (bounds.Box, bool) {
	for _, b := range s.boxes {
		if b.Role == r {
			return b, true
		}
	}
	return bounds.Box{}, false
}

// HeightAt returns the ground height under (x, z).
func (s *Scene) HeightAt(x, z float32) float32 {
	return physics.HeightAt(s.boxes, x, z)
}

// ToggleNearestDoor toggles the door nearest to pos within reach.
func (s *Scene) ToggleNearestDoor(pos math.Vec3) bool {
	_, ok := s.doors.ToggleNearest(pos)
	return ok
}

// AdvanceDoors steps every door animation by dt seconds.
func (s *Scene) AdvanceDoors(dt float32) {
	s.doors.Advance(dt)
}

// Blocked reports whether pos lies inside a closed door.
func (s *Scene) Blocked(pos math.Vec3) bool {
	return s.doors.Blocked(pos)
}

// Cull returns the indices of meshes whose boxes intersect the view volume
// of viewProj.
func (s *Scene) Cull(viewProj math.Mat4) []int {
	f := culling.FromViewProj(viewProj)
	return f.Cull(s.boxes)
}

// Pick returns the nearest box along a ray from origin, within
// maxDistance, ignoring boxes that contain origin.
func (s *Scene) Pick(origin, direction math.Vec3, maxDistance float32) (bounds.Box, float32, bool) {
	hit, ok := picking.Pick(picking.NewRay(origin, direction), s.boxes, maxDistance)
	if !ok {
		return bounds.Box{}, 0, false
	}
	return s.boxes[hit.Index], hit.Distance, true
}

// MeshTransform returns the model matrix for mesh i: the hinge rotation
// for doors, identity for everything else.
func (s *Scene) MeshTransform(i int) math.Mat4 {
	if d, ok := s.doors.ByMesh(i); ok {
		return d.Transform()
	}
	return math.Identity()
}

// Close releases every GPU handle. The scene is empty afterwards.
func (s *Scene) Close() {
	released := 0
	for _, m := range s.meshes {
		if m.Valid && !m.Handle.IsZero() {
			s.uploader.Release(m.Handle)
			released++
		}
		m.Handle = model.Handle{}
		m.Valid = false
	}
	s.meshes = nil
	s.boxes = nil
	s.floorMesh = -1
	s.doors.Rebuild(nil, s.config.Rules)
	logger.Debug("scene closed", zap.Int("released", released))
}
