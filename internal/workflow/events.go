package workflow

import (
	"sync"

	"snaphunt/internal/hunt"
)

// Event is broadcast to observers after a completion attempt changes a
// task.
type Event struct {
	Task    hunt.Task `json:"task"`
	Outcome Outcome   `json:"outcome"`
	Notice  string    `json:"notice,omitempty"`
}

// Subscribe registers a task-change observer. Delivery is best-effort: a
// full buffer drops the event rather than stalling the workflow. The
// returned func unsubscribes and closes the channel.
func (c *Completer) Subscribe(buffer int) (<-chan Event, func()) {
	return c.observers.add(buffer)
}

type observerSet struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func newObserverSet() *observerSet {
	return &observerSet{subs: make(map[int]chan Event)}
}

func (s *observerSet) add(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *observerSet) notify(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Slow observer; drop.
		}
	}
}
