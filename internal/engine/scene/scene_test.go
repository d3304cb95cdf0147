package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/internal/engine/model"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/formats/formatstest"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// fakeUploader hands out increasing VAO ids and records releases.
type fakeUploader struct {
	next     uint32
	fail     map[string]bool
	uploaded []string
	released []model.Handle
}

func (f *fakeUploader) Upload(m *model.Mesh) (model.Handle, error) {
	if f.fail[m.Name] {
		return model.Handle{}, errors.New("out of memory")
	}
	f.next++
	f.uploaded = append(f.uploaded, m.Name)
	return model.Handle{VAO: f.next, VBO: f.next, EBO: f.next}, nil
}

func (f *fakeUploader) Release(h model.Handle) {
	f.released = append(f.released, h)
}

func newScene(t *testing.T) (*Scene, *fakeUploader) {
	t.Helper()
	up := &fakeUploader{fail: map[string]bool{}}
	return New(DefaultConfig(), up), up
}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	t.Cleanup(logger.Replace(zap.New(core)))
	return logs
}

func translated(name string, x, y, z float64) formatstest.Triangle {
	tr := formatstest.DefaultTriangle(name)
	tr.Translation = &[3]float64{x, y, z}
	return tr
}

func assertVec(t *testing.T, want math.Vec3, got [3]float32) {
	t.Helper()
	assert.InDelta(t, want.X, got[0], 1e-5)
	assert.InDelta(t, want.Y, got[1], 1e-5)
	assert.InDelta(t, want.Z, got[2], 1e-5)
}

func TestLoadTriangleDefaults(t *testing.T) {
	s, up := newScene(t)
	path := formatstest.WriteGLTF(t, t.TempDir(), "tri.gltf", formatstest.DefaultTriangle("tri"))

	require.True(t, s.Load(path))
	require.Len(t, s.Meshes(), 1)
	require.Len(t, s.Boxes(), 1)

	m := s.Meshes()[0]
	assert.Equal(t, "tri", m.Name)
	assert.True(t, m.Valid)
	assert.Equal(t, uint32(1), m.Handle.VAO)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	require.Len(t, m.Vertices, 3)
	for _, v := range m.Vertices {
		assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
		assert.Equal(t, [2]float32{0, 0}, v.TexCoord)
	}
	assert.Equal(t, []string{"tri"}, up.uploaded)
	assert.Equal(t, 1, s.Loads())
}

func TestLoadBinary(t *testing.T) {
	s, _ := newScene(t)
	path := formatstest.WriteGLB(t, t.TempDir(), "tri.glb", formatstest.DefaultTriangle("tri"))

	require.True(t, s.Load(path))
	assert.Len(t, s.Meshes(), 1)
}

func TestFailedLoadLeavesSceneUnchanged(t *testing.T) {
	logs := observe(t)
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "a.gltf", formatstest.DefaultTriangle("a"))))

	assert.False(t, s.Load(filepath.Join(dir, "missing.gltf")))
	assert.Len(t, s.Meshes(), 1)
	assert.Len(t, s.Boxes(), 1)
	assert.Equal(t, 1, s.Loads())
	assert.Equal(t, 1, logs.FilterMessage("scene load failed").Len())
}

func TestUploadFailureSkipsMesh(t *testing.T) {
	observe(t)
	s, up := newScene(t)
	up.fail["tri"] = true
	path := formatstest.WriteGLTF(t, t.TempDir(), "tri.gltf", formatstest.DefaultTriangle("tri"))

	assert.False(t, s.Load(path))
	assert.Empty(t, s.Meshes())
	assert.Equal(t, 0, s.Loads())
}

func TestPlacementComposesWithNode(t *testing.T) {
	s, _ := newScene(t)
	path := formatstest.WriteGLTF(t, t.TempDir(), "tri.gltf", translated("tri", 1, 0, 0))

	require.True(t, s.LoadWithPlacement(path, math.Translate(0, 0, 5)))

	v := s.Meshes()[0].Vertices
	assertVec(t, math.Vec3{X: 1, Z: 5}, v[0].Position)
	assertVec(t, math.Vec3{X: 2, Z: 5}, v[1].Position)
	assertVec(t, math.Vec3{X: 1, Z: 6}, v[2].Position)
}

func TestMeshNameFallsBackToMeshResource(t *testing.T) {
	s, _ := newScene(t)
	path := formatstest.WriteGLTF(t, t.TempDir(), "tri.gltf", formatstest.DefaultTriangle(""))

	require.True(t, s.Load(path))
	assert.Equal(t, "shared", s.Meshes()[0].Name)
	_, ok := s.LookupBox("shared")
	assert.True(t, ok)
}

func TestRolesAndFloorIndex(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "a.gltf", formatstest.DefaultTriangle("mesa"))))
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "b.gltf", formatstest.DefaultTriangle("chao"))))

	idx, ok := s.FloorMeshIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	floor, ok := s.LookupBox("chao")
	require.True(t, ok)
	assert.Equal(t, bounds.RoleFloor, floor.Role)
	assert.InDelta(t, -0.1, floor.Min.X, 1e-5)
	assert.InDelta(t, 1.1, floor.Max.Z, 1e-5)
	assert.InDelta(t, 0.1, s.HeightAt(0.5, 0.5), 1e-5)

	// unpadded bounds stay on the mesh
	assert.Equal(t, float32(0), s.Meshes()[1].Bounds.Min.X)
}

func TestDoorsRebuiltOnEveryLoad(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "door.gltf", formatstest.DefaultTriangle("porta_front_1"))))
	require.Equal(t, 1, s.Doors().Len())

	require.True(t, s.ToggleNearestDoor(math.Vec3{X: 0.5, Z: 2}))
	s.AdvanceDoors(1)
	d, ok := s.Doors().ByMesh(0)
	require.True(t, ok)
	assert.True(t, d.Open)
	assert.False(t, s.Blocked(math.Vec3{X: 0.5, Z: 0.5}))

	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "other.gltf", translated("mesa", 10, 0, 10))))
	require.Equal(t, 1, s.Doors().Len())
	d, ok = s.Doors().ByMesh(0)
	require.True(t, ok)
	assert.Equal(t, float32(0), d.Angle)
	assert.False(t, d.Open)
	assert.True(t, s.Blocked(math.Vec3{X: 0.5, Z: 0.5}))

	_, ok = s.Doors().ByMesh(1)
	assert.False(t, ok)
}

func TestMeshTransform(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "door.gltf", formatstest.DefaultTriangle("porta_interna_1"))))
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "mesa.gltf", translated("mesa", 5, 0, 5))))

	assert.Equal(t, math.Identity(), s.MeshTransform(0))
	assert.Equal(t, math.Identity(), s.MeshTransform(1))

	s.ToggleNearestDoor(math.Vec3{})
	s.AdvanceDoors(1)
	assert.NotEqual(t, math.Identity(), s.MeshTransform(0))
	assert.Equal(t, math.Identity(), s.MeshTransform(1))
}

func TestAfterLoadHook(t *testing.T) {
	s, _ := newScene(t)
	calls := 0
	s.AfterLoad = func(got *Scene) {
		assert.Same(t, s, got)
		calls++
	}
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "a.gltf", formatstest.DefaultTriangle("a"))))
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "b.gltf", formatstest.DefaultTriangle("b"))))
	assert.False(t, s.Load(filepath.Join(dir, "missing.gltf")))
	assert.Equal(t, 2, calls)
}

func TestLoadAtUsesGroundHeight(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "chao.gltf", translated("chao", 0, 2, 0))))
	prop := formatstest.WriteGLTF(t, dir, "prop.gltf", formatstest.DefaultTriangle("prop"))

	require.True(t, s.LoadAt(prop, math.Vec3{X: 0.5, Y: 40, Z: 0.5}))
	assertVec(t, math.Vec3{X: 0.5, Y: 2.1, Z: 0.5}, s.Meshes()[1].Vertices[0].Position)
}

func TestLoadAtRotZ(t *testing.T) {
	s, _ := newScene(t)
	prop := formatstest.WriteGLTF(t, t.TempDir(), "prop.gltf", formatstest.DefaultTriangle("prop"))

	require.True(t, s.LoadAtRotZ(prop, math.Vec3{X: 3}, 90))
	v := s.Meshes()[0].Vertices
	assertVec(t, math.Vec3{X: 3}, v[0].Position)
	// (1,0,0) turns to (0,1,0) before the move
	assertVec(t, math.Vec3{X: 3, Y: 1}, v[1].Position)
}

func TestLoadAtRotYRotatesAboutOrigin(t *testing.T) {
	s, _ := newScene(t)
	prop := formatstest.WriteGLTF(t, t.TempDir(), "prop.gltf", formatstest.DefaultTriangle("prop"))

	require.True(t, s.LoadAtRotY(prop, math.Vec3{X: 1}, 90))
	assertVec(t, math.Vec3{Z: -1}, s.Meshes()[0].Vertices[0].Position)
}

func TestLoadNear(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "stairs.gltf", translated("escada", 4, 0, 4))))
	prop := formatstest.WriteGLTF(t, dir, "prop.gltf", formatstest.DefaultTriangle("prop"))

	require.True(t, s.LoadNear(prop, "escada", math.Vec2{X: 1, Y: -1}))
	assertVec(t, math.Vec3{X: 5.5, Z: 3.5}, s.Meshes()[1].Vertices[0].Position)
}

func TestLoadNearUnknownAnchor(t *testing.T) {
	logs := observe(t)
	s, _ := newScene(t)
	prop := formatstest.WriteGLTF(t, t.TempDir(), "prop.gltf", formatstest.DefaultTriangle("prop"))

	assert.False(t, s.LoadNear(prop, "nowhere", math.Vec2{}))
	assert.False(t, s.LoadOnFloor(prop, math.Vec2{}))
	assert.Empty(t, s.Meshes())
	assert.Equal(t, 1, logs.FilterMessage("placement anchor not found").Len())
}

func TestLoadOnFloor(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "chao.gltf", translated("chao", -0.5, 1, -0.5))))
	prop := formatstest.WriteGLTF(t, dir, "prop.gltf", formatstest.DefaultTriangle("prop"))

	require.True(t, s.LoadOnFloor(prop, math.Vec2{}))
	assertVec(t, math.Vec3{Y: 1.1}, s.Meshes()[1].Vertices[0].Position)
}

func TestCull(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "front.gltf", formatstest.DefaultTriangle("front"))))
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "behind.gltf", translated("behind", 0, 0, 40))))

	proj := math.Perspective(math.Radians(45), 4.0/3.0, 0.01, 200)
	view := math.LookAt(math.Vec3{X: 0.5, Y: 1, Z: 5}, math.Vec3{X: 0.5}, math.Vec3{Y: 1})
	assert.Equal(t, []int{0}, s.Cull(proj.Mul(view)))
}

func TestPick(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "front.gltf", formatstest.DefaultTriangle("front"))))
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "behind.gltf", translated("behind", 0, 0, 40))))

	box, dist, ok := s.Pick(math.Vec3{X: 0.5, Y: 0.05, Z: 5}, math.Vec3{Z: -1}, 10)
	require.True(t, ok)
	assert.Equal(t, "front", box.Name)
	assert.InDelta(t, 3.9, dist, 1e-4)

	_, _, ok = s.Pick(math.Vec3{X: 0.5, Y: 0.05, Z: 5}, math.Vec3{Z: -1}, 2)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	s, _ := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "a.gltf", formatstest.DefaultTriangle("chao"))))
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "b.gltf", formatstest.DefaultTriangle("porta_front_2"))))

	st := s.Stats()
	assert.Equal(t, 2, st.Loads)
	assert.Equal(t, 2, st.Meshes)
	assert.Equal(t, 6, st.Vertices)
	assert.Equal(t, 2, st.Triangles())
	assert.Equal(t, 1, st.Doors)
	assert.Equal(t, 1, st.ByRole[bounds.RoleFloor])
	assert.Equal(t, 1, st.ByRole[bounds.RoleDoor])
}

func TestClose(t *testing.T) {
	s, up := newScene(t)
	dir := t.TempDir()
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "a.gltf", formatstest.DefaultTriangle("a"))))
	require.True(t, s.Load(formatstest.WriteGLTF(t, dir, "b.gltf", formatstest.DefaultTriangle("porta_front_1"))))
	meshes := s.Meshes()

	s.Close()
	assert.Len(t, up.released, 2)
	assert.Empty(t, s.Meshes())
	assert.Equal(t, 0, s.Doors().Len())
	for _, m := range meshes {
		assert.False(t, m.Valid)
	}
}

func TestHeadlessUploader(t *testing.T) {
	s := New(DefaultConfig(), nil)
	path := formatstest.WriteGLTF(t, t.TempDir(), "tri.gltf", formatstest.DefaultTriangle("tri"))
	require.True(t, s.Load(path))
	assert.True(t, s.Meshes()[0].Valid)
	s.Close()
}

func TestNodeTransform(t *testing.T) {
	tests := []struct {
		name string
		node *gltf.Node
		want math.Vec3
	}{
		{"unset", &gltf.Node{}, math.Vec3{X: 1}},
		{"identity matrix", &gltf.Node{Matrix: identity64, Translation: [3]float64{0, 2, 0}}, math.Vec3{X: 1, Y: 2}},
		{
			"explicit matrix",
			&gltf.Node{Matrix: [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 3, 0, 0, 1}},
			math.Vec3{X: 4},
		},
		{"scale", &gltf.Node{Scale: [3]float64{2, 2, 2}}, math.Vec3{X: 2}},
		{
			// 90 degrees about Y as [x, y, z, w]
			"rotation",
			&gltf.Node{Rotation: [4]float64{0, 0.7071067811865476, 0, 0.7071067811865476}},
			math.Vec3{Z: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NodeTransform(tt.node).TransformVec3(math.Vec3{X: 1})
			assertVec(t, tt.want, got.Array())
		})
	}
}

func TestLoadDocumentSkipsMalformedPrimitive(t *testing.T) {
	logs := observe(t)
	s, _ := newScene(t)
	idx := 5
	doc := &gltf.Document{
		Meshes: []*gltf.Mesh{{Name: "broken", Primitives: []*gltf.Primitive{
			{Attributes: map[string]int{attrPosition: 0}, Indices: &idx},
		}}},
		Nodes: []*gltf.Node{{Name: "broken", Mesh: new(int)}},
	}

	err := s.LoadDocument(doc, "memory", math.Identity())
	assert.ErrorIs(t, err, ErrNoPrimitives)
	assert.Empty(t, s.Meshes())
	assert.Equal(t, 1, logs.FilterMessage("primitive skipped").Len())
}

func TestLoadRejectsOversizedIndexCount(t *testing.T) {
	s, _ := newScene(t)
	path := formatstest.WriteGLTF(t, t.TempDir(), "huge.gltf", formatstest.DefaultTriangle("huge"))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	patched := strings.Replace(string(raw), `"componentType":5123,"count":3`, `"componentType":5123,"count":4611686018427387904`, 1)
	require.NotEqual(t, string(raw), patched)
	require.NoError(t, os.WriteFile(path, []byte(patched), 0644))

	assert.NotPanics(t, func() {
		assert.False(t, s.Load(path))
	})
	assert.Empty(t, s.Meshes())
	assert.Equal(t, 0, s.Loads())
}

type countingOpener struct {
	calls []string
}

func (o *countingOpener) Open(path string) (*gltf.Document, error) {
	o.calls = append(o.calls, path)
	return fileOpener{}.Open(path)
}

func TestSetOpener(t *testing.T) {
	s, _ := newScene(t)
	path := formatstest.WriteGLTF(t, t.TempDir(), "a.gltf", formatstest.DefaultTriangle("a"))

	o := &countingOpener{}
	s.SetOpener(o)
	require.True(t, s.LoadAt(path, math.Vec3{X: 3}))
	assert.Equal(t, []string{path}, o.calls)

	s.SetOpener(nil)
	require.True(t, s.Load(path))
	assert.Len(t, o.calls, 1)
	assert.Len(t, s.Meshes(), 2)
}
