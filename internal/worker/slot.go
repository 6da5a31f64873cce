// Package worker runs long operations off the UI goroutine. A Slot allows
// one operation at a time: a second request while one is running is
// rejected with ErrBusy instead of being queued.
package worker

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBusy is returned when the slot already runs an operation.
var ErrBusy = errors.New("worker: operation already in progress")

// Outcome carries the result of one operation.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Slot is a single-flight runner. The zero value is ready to use.
type Slot[T any] struct {
	mu   sync.Mutex
	busy bool
}

// Go starts fn on its own goroutine and returns a channel that receives
// exactly one Outcome. A panic in fn is reported as an error.
func (s *Slot[T]) Go(fn func() (T, error)) (<-chan Outcome[T], error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	out := make(chan Outcome[T], 1)
	go func() {
		res := run(fn)
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		out <- res
		close(out)
	}()
	return out, nil
}

// Busy reports whether an operation is running.
func (s *Slot[T]) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func run[T any](fn func() (T, error)) (res Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Outcome[T]{Err: fmt.Errorf("worker: operation panicked: %v", r)}
		}
	}()
	v, err := fn()
	return Outcome[T]{Value: v, Err: err}
}
