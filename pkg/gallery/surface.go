package gallery

import "sync"

// Surface is a rendering area whose width can be measured and observed.
//
// Observe registers fn to be called with the new width on every change and
// returns a function that cancels the registration.
type Surface interface {
	Width() float64
	Observe(fn func(width float64)) (stop func())
}

// Signal is an in-process Surface holding a width value. Observers are
// notified synchronously, in registration order, when Set changes the value.
type Signal struct {
	mu        sync.Mutex
	width     float64
	nextID    int
	observers map[int]func(float64)
	order     []int
}

// NewSignal returns a Signal with an initial width.
func NewSignal(width float64) *Signal {
	return &Signal{width: width, observers: make(map[int]func(float64))}
}

// Width returns the current width.
func (s *Signal) Width() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Set updates the width and notifies observers if it changed.
func (s *Signal) Set(width float64) {
	s.mu.Lock()
	if width == s.width {
		s.mu.Unlock()
		return
	}
	s.width = width
	fns := make([]func(float64), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.observers[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(width)
	}
}

// Observe implements Surface.
func (s *Signal) Observe(fn func(float64)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

// Observers returns the number of active registrations.
func (s *Signal) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *Signal) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observers, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}
