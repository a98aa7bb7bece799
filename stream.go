// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

import (
	"iter"
	"sync"
)

// Completion is one record of the scheduler's live result stream:
// the source index of the task and its return value. Records arrive
// in completion order, not source order.
type Completion[R any] struct {
	Index int
	Value R
}

// Stream is the single-producer single-consumer stream of task
// completions fed to a Concurrent handler. The producer side buffers
// without bound; the consumer blocks in Next until a record or the
// close arrives.
type Stream[R any] struct {
	mu     sync.Mutex
	buf    []Completion[R]
	closed bool
	avail  chan struct{}
}

func newStream[R any]() *Stream[R] {
	return &Stream[R]{avail: make(chan struct{}, 1)}
}

// Next blocks until the next completion is available. ok=false means
// the stream is closed and drained: no further results will arrive.
func (s *Stream[R]) Next() (Completion[R], bool) {
	for {
		s.mu.Lock()
		if len(s.buf) > 0 {
			c := s.buf[0]
			s.buf = s.buf[1:]
			s.mu.Unlock()
			return c, true
		}
		if s.closed {
			s.mu.Unlock()
			var zero Completion[R]
			return zero, false
		}
		s.mu.Unlock()
		<-s.avail
	}
}

// Seq adapts the stream to a range-over-func iterator.
func (s *Stream[R]) Seq() iter.Seq[Completion[R]] {
	return func(yield func(Completion[R]) bool) {
		for {
			c, ok := s.Next()
			if !ok {
				return
			}
			if !yield(c) {
				return
			}
		}
	}
}

func (s *Stream[R]) push(c Completion[R]) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		panic("koro: completion pushed on closed stream")
	}
	s.buf = append(s.buf, c)
	s.mu.Unlock()
	s.signal()
}

func (s *Stream[R]) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.avail)
}

// signal wakes a consumer blocked in Next. Non-blocking: one pending
// wake-up is enough, Next re-checks the buffer.
func (s *Stream[R]) signal() {
	select {
	case s.avail <- struct{}{}:
	default:
	}
}
