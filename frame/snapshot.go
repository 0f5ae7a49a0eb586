package frame

import (
	"strings"

	"solar-system-explorer/celestial"
	"solar-system-explorer/session"
)

// Snapshot is an immutable copy of the simulation state after a frame. It is
// what other goroutines get to read.
type Snapshot struct {
	Frame    uint64           `json:"frame"`
	Time     float64          `json:"time"`
	Settings session.Settings `json:"settings"`
	Camera   CameraState      `json:"camera"`
	Bodies   []BodyState      `json:"bodies"`
}

type CameraState struct {
	Position [3]float32 `json:"position"`
	Yaw      float32    `json:"yaw"`
	Pitch    float32    `json:"pitch"`
	FOV      float32    `json:"fov"`
}

type BodyState struct {
	Name          string     `json:"name"`
	Parent        string     `json:"parent,omitempty"`
	Position      [3]float32 `json:"position"`
	Radius        float32    `json:"radius"`
	RotationAngle float32    `json:"rotation_angle"`
	OrbitAngle    float32    `json:"orbit_angle"`
}

// Body returns the state of the named body.
func (s *Snapshot) Body(name string) (BodyState, bool) {
	for _, b := range s.Bodies {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return BodyState{}, false
}

func bodyState(b *celestial.Body, st session.Settings) BodyState {
	out := BodyState{
		Name:          b.Name,
		Position:      b.AbsolutePosition(st.OrbitDistance),
		Radius:        b.Radius * st.Radius,
		RotationAngle: b.RotationAngle,
		OrbitAngle:    b.OrbitAngle,
	}
	if p := b.Parent(); p != nil {
		out.Parent = p.Name
	}
	return out
}
