// Package bounds provides world-space axis-aligned boxes tagged with the
// gameplay role of the mesh they enclose.
package bounds

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/walkthrough/pkg/math"
)

// Box is an axis-aligned bounding box in world space.
// Min[i] <= Max[i] holds on every axis for boxes built with FromPoints.
type Box struct {
	Min  math.Vec3
	Max  math.Vec3
	Name string
	Role Role
}

// Empty returns an inverted box that any point will expand.
func Empty(name string) Box {
	inf := float32(math32.MaxFloat32)
	return Box{
		Min:  math.Vec3{X: inf, Y: inf, Z: inf},
		Max:  math.Vec3{X: -inf, Y: -inf, Z: -inf},
		Name: name,
	}
}

// FromPoints builds the tightest box around points.
// ok is false when points is empty.
func FromPoints(name string, points []math.Vec3) (Box, bool) {
	b := Empty(name)
	for _, p := range points {
		b.Extend(p)
	}
	return b, len(points) > 0
}

// Extend grows the box to include p.
func (b *Box) Extend(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Center returns the midpoint of the box.
func (b Box) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent on each axis.
func (b Box) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// WideAlongX reports whether the X extent is at least the Z extent.
func (b Box) WideAlongX() bool {
	s := b.Size()
	return math32.Abs(s.X) >= math32.Abs(s.Z)
}

// Pad expands the box by p on every side.
func (b Box) Pad(p float32) Box {
	d := math.Vec3{X: p, Y: p, Z: p}
	b.Min = b.Min.Sub(d)
	b.Max = b.Max.Add(d)
	return b
}

// ContainsXZ reports whether the horizontal projection contains (x, z),
// edges included.
func (b Box) ContainsXZ(x, z float32) bool {
	return x >= b.Min.X && x <= b.Max.X && z >= b.Min.Z && z <= b.Max.Z
}

// ContainsXZInflated is ContainsXZ on the box grown by margin in X and Z only.
func (b Box) ContainsXZInflated(x, z, margin float32) bool {
	return x >= b.Min.X-margin && x <= b.Max.X+margin &&
		z >= b.Min.Z-margin && z <= b.Max.Z+margin
}

// Corners returns the eight corners of the box.
func (b Box) Corners() [8]math.Vec3 {
	lo, hi := b.Min, b.Max
	return [8]math.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}
