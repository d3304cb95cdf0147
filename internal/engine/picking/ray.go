// Package picking casts rays against scene bounding boxes.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Ray is a half-line from Origin along a unit Direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects the ray with the horizontal plane at y.
func (r Ray) IntersectPlaneY(y float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return 0, 0, false
	}
	t := (y - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false
	}
	p := r.At(t)
	return p.X, p.Z, true
}

// IntersectBox returns the distance to the first hit with b using the slab
// method. A ray starting inside the box hits at its exit distance.
func (r Ray) IntersectBox(b bounds.Box) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := b.Min.Array()
	hi := b.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is the nearest box along a ray.
type Hit struct {
	Index    int
	Distance float32
}

// Pick returns the nearest box hit within maxDistance. Boxes the ray starts
// inside are skipped so the floor under the eye does not shadow everything.
func Pick(r Ray, boxes []bounds.Box, maxDistance float32) (Hit, bool) {
	best := Hit{Index: -1, Distance: maxDistance}
	for i := range boxes {
		if contains(boxes[i], r.Origin) {
			continue
		}
		if t, ok := r.IntersectBox(boxes[i]); ok && t <= best.Distance {
			best = Hit{Index: i, Distance: t}
		}
	}
	return best, best.Index >= 0
}

func contains(b bounds.Box, p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
