package scene

import "github.com/Faultbox/walkthrough/internal/engine/bounds"

// Stats summarises the loaded geometry.
type Stats struct {
	Loads    int
	Meshes   int
	Vertices int
	Indices  int
	Doors    int
	ByRole   map[bounds.Role]int
}

// Triangles returns the number of indexed triangles.
func (st Stats) Triangles() int {
	return st.Indices / 3
}

// Stats returns counts over the current scene.
func (s *Scene) Stats() Stats {
	st := Stats{
		Loads:  s.loads,
		Meshes: len(s.meshes),
		Doors:  s.doors.Len(),
		ByRole: make(map[bounds.Role]int),
	}
	for _, m := range s.meshes {
		st.Vertices += len(m.Vertices)
		st.Indices += len(m.Indices)
	}
	for _, b := range s.boxes {
		st.ByRole[b.Role]++
	}
	return st
}
