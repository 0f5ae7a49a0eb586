// Package session holds the state shared between the settings panels, the
// input layer and the frame driver for the lifetime of a session.
package session

import "github.com/go-gl/mathgl/mgl32"

// Range is an inclusive slider range.
type Range struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

func (r Range) Clamp(v float32) float32 { return mgl32.Clamp(v, r.Min, r.Max) }

// Fraction maps v into [0,1] across the range.
func (r Range) Fraction(v float32) float32 {
	if r.Max == r.Min {
		return 0
	}
	return (r.Clamp(v) - r.Min) / (r.Max - r.Min)
}

// Lerp maps a fraction in [0,1] back into the range.
func (r Range) Lerp(f float32) float32 {
	return r.Clamp(r.Min + mgl32.Clamp(f, 0, 1)*(r.Max-r.Min))
}

var (
	SpeedRange         = Range{0, 2}
	RadiusRange        = Range{0, 2}
	OrbitDistanceRange = Range{1, 5}
)

// Settings are the three global scale sliders.
type Settings struct {
	Speed         float32 `json:"speed" mapstructure:"speed"`
	Radius        float32 `json:"radius" mapstructure:"radius"`
	OrbitDistance float32 `json:"orbit_distance" mapstructure:"orbitDistance"`
}

func DefaultSettings() Settings {
	return Settings{Speed: 1, Radius: 1, OrbitDistance: 1}
}

func (s Settings) Clamp() Settings {
	return Settings{
		Speed:         SpeedRange.Clamp(s.Speed),
		Radius:        RadiusRange.Clamp(s.Radius),
		OrbitDistance: OrbitDistanceRange.Clamp(s.OrbitDistance),
	}
}

// State is passed explicitly to the frame driver and the panels. Only the
// frame loop goroutine touches it.
type State struct {
	Settings
	// MouseInSettings is set by a panel that currently wants the mouse.
	MouseInSettings bool
}

func New(s Settings) *State {
	return &State{Settings: s.Clamp()}
}
