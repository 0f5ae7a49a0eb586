package input

import (
	"sync"
	"sync/atomic"
)

// Source delivers pending input events into the aggregator. Poll runs on
// the frame loop goroutine.
type Source interface {
	Poll(a *Aggregator)
}

type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	ButtonDown
	ButtonUp
	CursorMove
	Scroll
	Quit
	// Look adds X and Y directly to the mouse delta, as a drag would.
	Look
)

// Event is a decoded input event.
type Event struct {
	Kind     EventKind
	Movement Movement
	X, Y     float64
	Scroll   float64
}

func (e Event) Apply(a *Aggregator) {
	switch e.Kind {
	case KeyDown:
		a.Press(e.Movement)
	case KeyUp:
		a.Release(e.Movement)
	case ButtonDown:
		a.MouseButton(true)
	case ButtonUp:
		a.MouseButton(false)
	case CursorMove:
		a.CursorMoved(e.X, e.Y)
	case Scroll:
		a.Scrolled(e.Scroll)
	case Quit:
		a.RequestQuit()
	case Look:
		a.Look(e.X, e.Y)
	}
}

// Queue is a Source fed from other goroutines. Push never blocks; events
// that do not fit are dropped and counted.
type Queue struct {
	mu      sync.Mutex
	events  chan Event
	dropped atomic.Int64
}

func NewQueue(size int) *Queue {
	return &Queue{events: make(chan Event, size)}
}

func (q *Queue) Push(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case q.events <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// PushBatch queues all events or none of them.
func (q *Queue) PushBatch(events []Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if cap(q.events)-len(q.events) < len(events) {
		q.dropped.Add(int64(len(events)))
		return false
	}
	for _, e := range events {
		q.events <- e
	}
	return true
}

func (q *Queue) Dropped() int64 { return q.dropped.Load() }

func (q *Queue) Poll(a *Aggregator) {
	for {
		select {
		case e := <-q.events:
			e.Apply(a)
		default:
			return
		}
	}
}
