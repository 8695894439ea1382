package mirror

import "sync"

// Stream is a cancellable push stream. Deliveries are unbuffered: an emission
// rendezvouses with the consumer or is dropped once the stream stops, so no
// value reaches a consumer after Stop.
type Stream[T any] struct {
	ch   chan T
	done chan struct{}
	once sync.Once
}

func NewStream[T any]() *Stream[T] {
	return &Stream[T]{ch: make(chan T), done: make(chan struct{})}
}

// C receives emissions. It is never closed; consumers select against Done.
func (s *Stream[T]) C() <-chan T { return s.ch }

// Done is closed once the stream is stopped.
func (s *Stream[T]) Done() <-chan struct{} { return s.done }

// Stop ends the stream. Safe to call any number of times.
func (s *Stream[T]) Stop() {
	s.once.Do(func() { close(s.done) })
}

// Emit delivers v to the consumer, blocking until it is received. It returns
// false without delivering once the stream has stopped, including when the
// stop arrives while the emission is in flight.
func (s *Stream[T]) Emit(v T) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.ch <- v:
		return true
	case <-s.done:
		return false
	}
}
