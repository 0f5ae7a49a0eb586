// Package input turns window-system style input callbacks into one Delta per
// frame.
//
// Callbacks only write aggregator state. The frame driver samples it once per
// frame, which clears the per-frame deltas while held movement keys persist
// until they are released.
package input

// Delta is the input of one frame.
type Delta struct {
	Elapsed float32 `json:"elapsed"`
	MouseDX float32 `json:"mouse_dx"`
	MouseDY float32 `json:"mouse_dy"`
	Scroll  float32 `json:"scroll"`
	// OverlayFocus is set while a settings overlay claims the mouse.
	OverlayFocus bool `json:"overlay_focus"`
}

type Aggregator struct {
	movement Movement

	dragging  bool
	overlay   bool
	hasCursor bool
	lastX     float64
	lastY     float64

	dx, dy float32
	scroll float32

	quit bool
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Press marks movement keys as held.
func (a *Aggregator) Press(m Movement) { a.movement |= m }

// Release clears held movement keys.
func (a *Aggregator) Release(m Movement) { a.movement &^= m }

func (a *Aggregator) Movement() Movement { return a.movement }

// MouseButton reports the drag button. A drag cannot start while the
// overlay owns the mouse; releasing always ends it.
func (a *Aggregator) MouseButton(pressed bool) {
	if pressed {
		if !a.overlay {
			a.dragging = true
		}
		return
	}
	a.dragging = false
}

// Dragging reports whether the cursor should be captured by the window.
func (a *Aggregator) Dragging() bool { return a.dragging }

// CursorMoved accumulates drag deltas. Screen Y grows downwards, so moving
// the cursor up yields a positive MouseDY.
func (a *Aggregator) CursorMoved(x, y float64) {
	if a.hasCursor && a.dragging && !a.overlay {
		a.dx += float32(x - a.lastX)
		a.dy += float32(a.lastY - y)
	}
	a.lastX, a.lastY = x, y
	a.hasCursor = true
}

// Look adds a mouse delta without a drag. Like drag motion it is ignored
// while the overlay owns the mouse.
func (a *Aggregator) Look(dx, dy float64) {
	if a.overlay {
		return
	}
	a.dx += float32(dx)
	a.dy += float32(dy)
}

func (a *Aggregator) Scrolled(delta float64) {
	a.scroll += float32(delta)
}

func (a *Aggregator) SetOverlayFocus(focus bool) { a.overlay = focus }

func (a *Aggregator) OverlayFocus() bool { return a.overlay }

func (a *Aggregator) RequestQuit() { a.quit = true }

func (a *Aggregator) QuitRequested() bool { return a.quit }

// Sample returns the input gathered since the previous sample and clears it.
// Mouse deltas are dropped while the overlay owns the mouse.
func (a *Aggregator) Sample(elapsed float32) Delta {
	d := Delta{
		Elapsed:      elapsed,
		OverlayFocus: a.overlay,
	}
	if !a.overlay {
		d.MouseDX, d.MouseDY = a.dx, a.dy
		d.Scroll = a.scroll
	}
	a.dx, a.dy, a.scroll = 0, 0, 0
	return d
}
