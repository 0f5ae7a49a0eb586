package models

// Planet describes a celestial body of the scene. Distances use the catalog's
// scaled units: orbit radius in 10^7 km, radius in 10^5 km, rotation speed in
// 10^3 km/h and orbit speed in 10 km/s.
type Planet struct {
	Name   string `json:"name" toml:"name"`
	NameSR string `json:"name_sr,omitempty" toml:"name_sr"`
	Parent string `json:"parent,omitempty" toml:"parent"`
	IsStar bool   `json:"is_star" toml:"is_star"`

	Texture string `json:"texture" toml:"texture"`
	Color   string `json:"color" toml:"color"` // hex color

	// Position is only used by bodies without a parent.
	Position    [3]float32 `json:"position" toml:"position"`
	OrbitRadius float32    `json:"orbit_radius" toml:"orbit_radius"`
	Radius      float32    `json:"radius" toml:"radius"`

	RotationSpeed float32    `json:"rotation_speed" toml:"rotation_speed"`
	RotationAxis  [3]float32 `json:"rotation_axis" toml:"rotation_axis"`
	OrbitSpeed    float32    `json:"orbit_speed" toml:"orbit_speed"`
	OrbitAxis     [3]float32 `json:"orbit_axis" toml:"orbit_axis"`
}

// Up is the default rotation and orbit axis.
var Up = [3]float32{0, 1, 0}

// GetSolarSystemBodies returns the sun, the eight planets and the moon
func GetSolarSystemBodies() []Planet {
	return []Planet{
		{
			Name:          "Sun",
			NameSR:        "Sunce",
			IsStar:        true,
			Texture:       "res/sun.jpg",
			Color:         "#FDB813",
			Radius:        69.5 * 0.2,
			RotationSpeed: 1.99,
			RotationAxis:  Up,
		},
		{
			Name:          "Mercury",
			NameSR:        "Merkur",
			Parent:        "Sun",
			Texture:       "res/mercury.jpg",
			Color:         "#B5B5B5",
			OrbitRadius:   5.7,
			Radius:        0.24,
			RotationSpeed: 0.01,
			RotationAxis:  Up,
			OrbitSpeed:    4.74,
			OrbitAxis:     Up,
		},
		{
			Name:          "Venus",
			NameSR:        "Venera",
			Parent:        "Sun",
			Texture:       "res/venus.jpg",
			Color:         "#E8CDA2",
			OrbitRadius:   10.8,
			Radius:        0.6,
			RotationSpeed: 0.006,
			RotationAxis:  Up,
			OrbitSpeed:    3.5,
			OrbitAxis:     Up,
		},
		{
			Name:          "Earth",
			NameSR:        "Zemlja",
			Parent:        "Sun",
			Texture:       "res/earth.jpg",
			Color:         "#2E86AB",
			OrbitRadius:   14.9,
			Radius:        0.63,
			RotationSpeed: 1.67,
			RotationAxis:  Up,
			OrbitSpeed:    2.98,
			OrbitAxis:     Up,
		},
		{
			Name:          "Moon",
			NameSR:        "Mesec",
			Parent:        "Earth",
			Texture:       "res/moon.jpg",
			Color:         "#C8C8C8",
			OrbitRadius:   0.38,
			Radius:        0.17,
			RotationSpeed: 1.0,
			RotationAxis:  Up,
			OrbitSpeed:    0.1,
			OrbitAxis:     Up,
		},
		{
			Name:          "Mars",
			NameSR:        "Mars",
			Parent:        "Sun",
			Texture:       "res/mars.jpg",
			Color:         "#C1440E",
			OrbitRadius:   22.7,
			Radius:        0.33,
			RotationSpeed: 0.86,
			RotationAxis:  Up,
			OrbitSpeed:    2.41,
			OrbitAxis:     Up,
		},
		{
			Name:          "Jupiter",
			NameSR:        "Jupiter",
			Parent:        "Sun",
			Texture:       "res/jupiter.jpg",
			Color:         "#C88B3A",
			OrbitRadius:   77.8,
			Radius:        6.9,
			RotationSpeed: 45.58,
			RotationAxis:  Up,
			OrbitSpeed:    1.31,
			OrbitAxis:     Up,
		},
		{
			Name:          "Saturn",
			NameSR:        "Saturn",
			Parent:        "Sun",
			Texture:       "res/saturn.jpg",
			Color:         "#E4D191",
			OrbitRadius:   143.4,
			Radius:        5.82,
			RotationSpeed: 36.84,
			RotationAxis:  Up,
			OrbitSpeed:    0.97,
			OrbitAxis:     Up,
		},
		{
			Name:          "Uranus",
			NameSR:        "Uran",
			Parent:        "Sun",
			Texture:       "res/uranus.jpg",
			Color:         "#7DE8E8",
			OrbitRadius:   287.1,
			Radius:        2.53,
			RotationSpeed: 14.79,
			RotationAxis:  Up,
			OrbitSpeed:    0.68,
			OrbitAxis:     Up,
		},
		{
			Name:          "Neptune",
			NameSR:        "Neptun",
			Parent:        "Sun",
			Texture:       "res/neptune.jpg",
			Color:         "#3F54BA",
			OrbitRadius:   449.5,
			Radius:        2.46,
			RotationSpeed: 9.71,
			RotationAxis:  Up,
			OrbitSpeed:    0.54,
			OrbitAxis:     Up,
		},
	}
}
