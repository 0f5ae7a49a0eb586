package input

import "strings"

// Movement is the set of held movement keys.
type Movement uint8

const (
	Forward Movement = 1 << iota
	Backward
	Left
	Right
	Slow
)

var movementNames = []struct {
	flag Movement
	name string
}{
	{Forward, "forward"},
	{Backward, "backward"},
	{Left, "left"},
	{Right, "right"},
	{Slow, "slow"},
}

func (m Movement) Has(f Movement) bool { return m&f == f }

func (m Movement) String() string {
	var parts []string
	for _, n := range movementNames {
		if m.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseMovement maps a single movement name to its flag.
func ParseMovement(name string) (Movement, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range movementNames {
		if n.name == name {
			return n.flag, true
		}
	}
	return 0, false
}

// Bindings maps key names to movement flags.
type Bindings map[string]Movement

// DefaultBindings binds WASD, the arrow keys and shift.
func DefaultBindings() Bindings {
	return Bindings{
		"w":     Forward,
		"up":    Forward,
		"s":     Backward,
		"down":  Backward,
		"a":     Left,
		"left":  Left,
		"d":     Right,
		"right": Right,
		"shift": Slow,
	}
}

func (b Bindings) Lookup(key string) (Movement, bool) {
	m, ok := b[strings.ToLower(key)]
	return m, ok
}
