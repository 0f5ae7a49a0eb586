package terminal

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"solar-system-explorer/input"
)

// cellPixels approximates the width of a cell in pixels so that mouse
// sensitivity matches a windowed build.
const cellPixels = 8

// DefaultHold is how long a movement key stays pressed after its last
// key event. Terminals report no key releases, only repeats.
const DefaultHold = 600 * time.Millisecond

var movementFlags = []input.Movement{input.Forward, input.Backward, input.Left, input.Right, input.Slow}

// Source reads terminal events on a dedicated goroutine and applies them to
// the aggregator when polled by the frame loop.
type Source struct {
	events   chan tcell.Event
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	bindings input.Bindings
	hold     time.Duration
	panel    *Panel
	now      func() time.Time

	held    map[input.Movement]time.Time
	buttons tcell.ButtonMask
}

// NewSource starts polling screen. The goroutine ends once the screen is
// finalized or Stop is called. Mouse events are forwarded to panel when it
// is not nil.
func NewSource(screen tcell.Screen, bindings input.Bindings, hold time.Duration, panel *Panel) *Source {
	if hold <= 0 {
		hold = DefaultHold
	}
	s := &Source{
		events:   make(chan tcell.Event, 100),
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
		bindings: bindings,
		hold:     hold,
		panel:    panel,
		now:      time.Now,
		held:     make(map[input.Movement]time.Time),
	}
	go func() {
		defer close(s.done)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case s.events <- ev:
			case <-s.stop:
				return
			}
		}
	}()
	return s
}

// Stop ends the polling goroutine once its pending send or poll returns.
// Pending events are discarded.
func (s *Source) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed when the polling goroutine exits.
func (s *Source) Done() <-chan struct{} { return s.done }

func (s *Source) Poll(a *input.Aggregator) {
	now := s.now()
	for {
		select {
		case ev := <-s.events:
			s.handle(a, ev, now)
		default:
			s.expire(a, now)
			return
		}
	}
}

func (s *Source) handle(a *input.Aggregator, ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s.key(a, ev, now)
	case *tcell.EventMouse:
		s.mouse(a, ev)
	}
}

func (s *Source) key(a *input.Aggregator, ev *tcell.EventKey, now time.Time) {
	var name string
	var m input.Movement
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.RequestQuit()
		return
	case tcell.KeyUp:
		name = "up"
	case tcell.KeyDown:
		name = "down"
	case tcell.KeyLeft:
		name = "left"
	case tcell.KeyRight:
		name = "right"
	case tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsUpper(r) {
			m |= input.Slow
		}
		name = string(unicode.ToLower(r))
	default:
		return
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		m |= input.Slow
	}
	bound, ok := s.bindings.Lookup(name)
	if !ok {
		return
	}
	m |= bound
	for _, f := range movementFlags {
		if m.Has(f) {
			s.held[f] = now
		}
	}
	a.Press(m)
}

// expire releases movement keys without a recent repeat.
func (s *Source) expire(a *input.Aggregator, now time.Time) {
	for f, last := range s.held {
		if now.Sub(last) >= s.hold {
			a.Release(f)
			delete(s.held, f)
		}
	}
}

func (s *Source) mouse(a *input.Aggregator, ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	down := buttons&tcell.Button1 != 0
	wasDown := s.buttons&tcell.Button1 != 0
	s.buttons = buttons

	if s.panel != nil {
		s.panel.Pointer(x, y, down)
	}

	a.CursorMoved(float64(x*cellPixels), float64(y*cellPixels*cellRatio))
	switch {
	case down && !wasDown:
		if s.panel == nil || !s.panel.Contains(x, y) {
			a.MouseButton(true)
		}
	case !down && wasDown:
		a.MouseButton(false)
	}

	if buttons&tcell.WheelUp != 0 {
		a.Scrolled(1)
	}
	if buttons&tcell.WheelDown != 0 {
		a.Scrolled(-1)
	}
}
