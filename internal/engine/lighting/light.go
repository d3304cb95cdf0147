// Package lighting describes the light used by the lit shader.
package lighting

import "github.com/Faultbox/walkthrough/pkg/math"

// Headlight is a point light that follows the eye at a fixed offset.
type Headlight struct {
	Offset  math.Vec3
	Ambient float32 // fraction of the base colour lit without the light
}

// DefaultHeadlight sits two units above the eye with 30% ambient.
func DefaultHeadlight() Headlight {
	return Headlight{
		Offset:  math.Vec3{Y: 2},
		Ambient: 0.3,
	}
}

// Position returns the light position for an eye position.
func (h Headlight) Position(eye math.Vec3) math.Vec3 {
	return eye.Add(h.Offset)
}

// Shade is the CPU form of the lit shader: ambient plus Lambert diffuse
// from the headlight, on base colour.
func (h Headlight) Shade(base, normal, fragPos, eye math.Vec3) math.Vec3 {
	dir := h.Position(eye).Sub(fragPos).Normalize()
	diffuse := normal.Normalize().Dot(dir)
	if diffuse < 0 {
		diffuse = 0
	}
	return base.Scale(h.Ambient + diffuse)
}
