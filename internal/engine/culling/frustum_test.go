package culling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// camera at (0,0,5) looking down -Z.
func testFrustum() Frustum {
	proj := math.Perspective(math.Radians(45), 1, 0.01, 200)
	view := math.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Vec3{Y: 1})
	return FromViewProj(proj.Mul(view))
}

func cube(name string, center math.Vec3, half float32) bounds.Box {
	h := math.Vec3{X: half, Y: half, Z: half}
	return bounds.Box{Name: name, Min: center.Sub(h), Max: center.Add(h)}
}

func TestPlanesAreNormalized(t *testing.T) {
	f := testFrustum()
	for i, pl := range f.Planes {
		assert.InDelta(t, 1, pl.Normal.Length(), 1e-4, "plane %d", i)
	}
}

func TestVisible(t *testing.T) {
	f := testFrustum()

	assert.True(t, f.Visible(cube("origin", math.Vec3{}, 0.5)))
	assert.False(t, f.Visible(cube("behind", math.Vec3{Z: 50}, 0.5)))
	assert.False(t, f.Visible(cube("beyond far", math.Vec3{Z: -300}, 1)))
	assert.False(t, f.Visible(cube("far left", math.Vec3{X: -100}, 1)))
	assert.True(t, f.Visible(cube("straddles", math.Vec3{Z: 5}, 1)))
}

func TestCullOrder(t *testing.T) {
	f := testFrustum()
	boxes := []bounds.Box{
		cube("a", math.Vec3{}, 0.5),
		cube("b", math.Vec3{Z: 50}, 0.5),
		cube("c", math.Vec3{Z: -10}, 0.5),
	}
	assert.Equal(t, []int{0, 2}, f.Cull(boxes))
	assert.Empty(t, f.Cull(nil))
}
