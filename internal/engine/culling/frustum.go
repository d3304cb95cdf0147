// Package culling selects the meshes whose boxes intersect the view volume.
package culling

import (
	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// Distance returns the signed distance from p to the plane.
func (pl Plane) Distance(p math.Vec3) float32 {
	return pl.Normal.Dot(p) + pl.D
}

// Plane indices.
const (
	Left = iota
	Right
	Bottom
	Top
	Near
	Far
)

// Frustum holds six inward-facing normalized planes.
type Frustum struct {
	Planes [6]Plane
}

// FromViewProj extracts the frustum planes of a combined
// projection*view matrix (Gribb/Hartmann).
func FromViewProj(vp math.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[Left] = plane(r3.Add(r0))
	f.Planes[Right] = plane(r3.Sub(r0))
	f.Planes[Bottom] = plane(r3.Add(r1))
	f.Planes[Top] = plane(r3.Sub(r1))
	f.Planes[Near] = plane(r3.Add(r2))
	f.Planes[Far] = plane(r3.Sub(r2))
	return f
}

func plane(v math.Vec4) Plane {
	n := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Scale(1 / l), D: v[3] / l}
}

// Visible reports whether b is at least partially inside the frustum.
// For each plane only the corner furthest along the normal is tested, so
// boxes near a frustum corner may be reported visible when they are not.
func (f *Frustum) Visible(b bounds.Box) bool {
	for _, pl := range f.Planes {
		p := b.Max
		if pl.Normal.X < 0 {
			p.X = b.Min.X
		}
		if pl.Normal.Y < 0 {
			p.Y = b.Min.Y
		}
		if pl.Normal.Z < 0 {
			p.Z = b.Min.Z
		}
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// Cull returns the indices of the visible boxes in ascending order.
func (f *Frustum) Cull(boxes []bounds.Box) []int {
	visible := make([]int, 0, len(boxes))
	for i := range boxes {
		if f.Visible(boxes[i]) {
			visible = append(visible, i)
		}
	}
	return visible
}
