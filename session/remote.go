package session

import "sync/atomic"

// Patch is a partial settings change. Nil fields are left alone.
type Patch struct {
	Speed         *float32 `json:"speed,omitempty"`
	Radius        *float32 `json:"radius,omitempty"`
	OrbitDistance *float32 `json:"orbit_distance,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Speed == nil && p.Radius == nil && p.OrbitDistance == nil
}

// Apply returns s with the patch applied and clamped to the slider ranges.
func (p Patch) Apply(s Settings) Settings {
	if p.Speed != nil {
		s.Speed = *p.Speed
	}
	if p.Radius != nil {
		s.Radius = *p.Radius
	}
	if p.OrbitDistance != nil {
		s.OrbitDistance = *p.OrbitDistance
	}
	return s.Clamp()
}

// RemotePanel is a settings panel driven from other goroutines. Patches are
// queued and applied when the frame driver renders the panel.
type RemotePanel struct {
	patches chan Patch
	dropped atomic.Int64
}

func NewRemotePanel(size int) *RemotePanel {
	return &RemotePanel{patches: make(chan Patch, size)}
}

// Submit queues a patch without blocking. It reports false when the queue
// is full.
func (r *RemotePanel) Submit(p Patch) bool {
	select {
	case r.patches <- p:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

func (r *RemotePanel) Dropped() int64 { return r.dropped.Load() }

// Render applies every queued patch in order.
func (r *RemotePanel) Render(st *State) {
	for {
		select {
		case p := <-r.patches:
			st.Settings = p.Apply(st.Settings)
		default:
			return
		}
	}
}
