package texture

// Mode selects how the ground plane is textured.
type Mode int

const (
	ModeNone Mode = iota
	ModeGrid
	ModeChecker
	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeGrid:
		return "grid"
	case ModeChecker:
		return "checker"
	}
	return "unknown"
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}
