package bounds

import "fmt"

// Role is the gameplay capability of a mesh, assigned once at load time.
type Role int

const (
	RoleGeneric Role = iota
	RoleFloor
	RoleStair
	RoleDoor
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleGeneric:
		return "Generic"
	case RoleFloor:
		return "Floor"
	case RoleStair:
		return "Stair"
	case RoleDoor:
		return "Door"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// DoorRule names a door mesh and the side of its box that carries the hinge.
type DoorRule struct {
	Name     string `yaml:"name"`
	HingeLow bool   `yaml:"hinge_low"`
}

// Rules maps authored mesh names to roles. Names match exactly.
type Rules struct {
	Floor   string     `yaml:"floor"`
	Stairs  []string   `yaml:"stairs"`
	Doors   []DoorRule `yaml:"doors"`
	NoPad   []string   `yaml:"no_pad"`
	Padding float32    `yaml:"padding"`
}

// DefaultRules returns the naming convention of the bundled house model.
func DefaultRules() Rules {
	return Rules{
		Floor:  "chao",
		Stairs: []string{"escada"},
		Doors: []DoorRule{
			{Name: "porta_front_1", HingeLow: true},
			{Name: "porta_front_2", HingeLow: false},
			{Name: "porta_interna_1", HingeLow: true},
		},
		NoPad:   []string{"escada", "porta_front_1", "porta_front_2"},
		Padding: 0.1,
	}
}

// Classify returns the role for a mesh name.
func (r Rules) Classify(name string) Role {
	if name == "" {
		return RoleGeneric
	}
	if name == r.Floor {
		return RoleFloor
	}
	for _, s := range r.Stairs {
		if name == s {
			return RoleStair
		}
	}
	if _, ok := r.Door(name); ok {
		return RoleDoor
	}
	return RoleGeneric
}

// Door returns the door rule for name.
func (r Rules) Door(name string) (DoorRule, bool) {
	for _, d := range r.Doors {
		if d.Name == name {
			return d, true
		}
	}
	return DoorRule{}, false
}

// PaddingFor returns the symmetric padding applied to a new box for name.
func (r Rules) PaddingFor(name string) float32 {
	for _, n := range r.NoPad {
		if n == name {
			return 0
		}
	}
	return r.Padding
}

// Tag pads b per the rules and assigns its role.
func (r Rules) Tag(b Box) Box {
	b = b.Pad(r.PaddingFor(b.Name))
	b.Role = r.Classify(b.Name)
	return b
}
