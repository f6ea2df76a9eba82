package prayer

import (
	"context"
	"sync"
	"time"
)

// State shares one Engine between the timer goroutine (the only writer)
// and any number of connection handlers (readers).
type State struct {
	mu     sync.RWMutex
	engine *Engine
}

// NewState wraps e.
func NewState(e *Engine) *State {
	return &State{engine: e}
}

// Advance calls ComputeNextDuration under the write lock, which is held
// for the whole call including any refresh fetch. The popped event is
// returned alongside its duration.
func (s *State) Advance(ctx context.Context) (Event, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.engine.ComputeNextDuration(ctx)
	if err != nil {
		return Event{}, 0, err
	}
	ev, _ := s.engine.Next()
	return ev, d, nil
}

// Snapshot is a consistent copy of the state taken under one read lock.
type Snapshot struct {
	Date    time.Time
	Next    Event
	HasNext bool
	Day     []Entry
}

// Snapshot copies the next event and the full-day view together.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	next, ok := s.engine.Next()
	return Snapshot{
		Date:    s.engine.Day().Date,
		Next:    next,
		HasNext: ok,
		Day:     s.engine.FullDayView(),
	}
}

// NextEvent returns the most recently popped event.
func (s *State) NextEvent() (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Next()
}

// FullDayView renders the current day.
func (s *State) FullDayView() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.FullDayView()
}
