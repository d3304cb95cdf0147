// Package debug builds overlay geometry and screenshots for inspecting a
// loaded scene.
package debug

import (
	"github.com/Faultbox/walkthrough/internal/engine/bounds"
)

// WireframeVertexCount is the number of line vertices per box (12 edges x 2).
const WireframeVertexCount = 24

// LineVertex is a coloured line endpoint.
type LineVertex struct {
	Position [3]float32
	Color    [3]float32
}

// RoleColor returns the overlay colour of a box role.
func RoleColor(r bounds.Role) [3]float32 {
	switch r {
	case bounds.RoleFloor:
		return [3]float32{0.2, 0.8, 0.2}
	case bounds.RoleStair:
		return [3]float32{0.2, 0.4, 1}
	case bounds.RoleDoor:
		return [3]float32{1, 0.3, 0.2}
	}
	return [3]float32{1, 1, 0}
}

// boxEdges lists corner index pairs; corners follow bounds.Box.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Wireframe returns the line list outlining b, coloured by role.
func Wireframe(b bounds.Box) []LineVertex {
	corners := b.Corners()
	color := RoleColor(b.Role)
	out := make([]LineVertex, 0, WireframeVertexCount)
	for _, e := range boxEdges {
		out = append(out,
			LineVertex{Position: corners[e[0]].Array(), Color: color},
			LineVertex{Position: corners[e[1]].Array(), Color: color})
	}
	return out
}

// Wireframes concatenates the wireframes of every box.
func Wireframes(boxes []bounds.Box) []LineVertex {
	out := make([]LineVertex, 0, len(boxes)*WireframeVertexCount)
	for _, b := range boxes {
		out = append(out, Wireframe(b)...)
	}
	return out
}
