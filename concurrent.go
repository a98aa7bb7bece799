// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// Source supplies the tasks a scheduler admits: either a fixed list
// or a lazy pull producer.
type Source[R any] interface {
	pull(i int) *Actor[R]
}

type taskList[R any] struct {
	list []*Actor[R]
}

func (s taskList[R]) pull(i int) *Actor[R] {
	if i < len(s.list) {
		return s.list[i]
	}
	return nil
}

// Tasks builds a fixed source from the given actors.
func Tasks[R any](list ...*Actor[R]) Source[R] {
	return taskList[R]{list: list}
}

type producer[R any] struct {
	f func(int) *Actor[R]
}

func (s producer[R]) pull(i int) *Actor[R] { return s.f(i) }

// Produce builds a pull source: f is asked for task i in admission
// order and returns nil once the source is exhausted. Use Deferred
// to hand out lazily-constructed tasks.
func Produce[R any](f func(int) *Actor[R]) Source[R] {
	return producer[R]{f: f}
}

// Option configures a scheduler or rendezvous invocation.
type Option func(*config)

type config struct {
	limit    int
	limitSet bool
	logger   *slog.Logger
}

// MaxConcurrency bounds the number of simultaneously in-flight
// tasks. The default is unbounded. A bound below one is a fatal
// error at scheduling time.
func MaxConcurrency(k int) Option {
	return func(c *config) {
		c.limit = k
		c.limitSet = true
	}
}

// WithLogger attaches a structured logger; scheduling events are
// reported at debug level. The default is silent.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return c
}

func (c config) logf(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// taskState tracks one admitted task.
type taskState[R any] struct {
	index int
	act   *Actor[R]
	done  bool
}

// schedEvent is one settlement observed by the scheduler: either an
// in-flight task promise or the handler outcome.
type schedEvent[R, T any] struct {
	t           *taskState[R]
	value       any
	err         error
	handlerDone bool
	hv          T
	herr        error
}

// errStopped rejects the scheduler's internal settlement promise
// when the scheduler unwinds before the settlement is consumed.
// Nothing observes it; it exists so the promise always settles.
var errStopped = errors.New("koro: scheduler stopped")

// Concurrent runs tasks pulled from source, at most MaxConcurrency
// at a time, and feeds each completion to the handler through a live
// stream in completion order. The returned actor completes with the
// handler's outcome.
//
// Non-async effects yielded by a task — failures, context requests,
// messages — are re-yielded by the scheduler and propagate to the
// enclosing interpreter; async suspensions are raced against each
// other and against the handler. The handler runs on its own
// goroutine and may return before draining the stream; that is
// normal completion. On every exit the scheduler terminates every
// admitted task that has not completed.
func Concurrent[R, T any](source Source[R], handler func(*Stream[R]) (T, error), opts ...Option) *Actor[T] {
	cfg := newConfig(opts)
	return NewActor(func(fx *Fx) T {
		if cfg.limitSet && cfg.limit < 1 {
			panic(fmt.Sprintf("koro: max concurrency must be positive, got %d", cfg.limit))
		}
		var sem *semaphore.Weighted
		if cfg.limitSet {
			sem = semaphore.NewWeighted(int64(cfg.limit))
		}

		stream := newStream[R]()
		events := make(chan schedEvent[R, T])
		done := make(chan struct{})

		var items []*taskState[R]
		exhausted := false
		running := 0
		outstanding := 0

		defer func() {
			close(done)
			stream.close()
			for _, t := range items {
				if !t.done {
					t.act.Stop()
				}
			}
		}()

		pull := func() *taskState[R] {
			if exhausted {
				return nil
			}
			if sem != nil && !sem.TryAcquire(1) {
				return nil
			}
			act := source.pull(len(items))
			if act == nil {
				exhausted = true
				if sem != nil {
					sem.Release(1)
				}
				return nil
			}
			t := &taskState[R]{index: len(items), act: act}
			items = append(items, t)
			running++
			cfg.logf("task admitted", "index", t.index)
			return t
		}

		type entry struct {
			t   *taskState[R]
			res resumption
		}
		var work []entry

		// step drives one task until it completes or suspends on an
		// async effect; everything else is forwarded upstream. A
		// completion frees a slot and pulls the next task into the
		// worklist.
		step := func(e entry) {
			t, res := e.t, e.res
			for {
				eff, fin, pan := t.act.step(res)
				if pan != nil {
					panic(pan)
				}
				if fin {
					t.done = true
					running--
					if sem != nil {
						sem.Release(1)
					}
					stream.push(Completion[R]{Index: t.index, Value: t.act.Return()})
					cfg.logf("task completed", "index", t.index)
					if nt := pull(); nt != nil {
						work = append(work, entry{t: nt})
					}
					return
				}
				if as, ok := eff.(*Async); ok {
					outstanding++
					go func(t *taskState[R], f Future) {
						<-f.Settled()
						v, err := f.outcome()
						select {
						case events <- schedEvent[R, T]{t: t, value: v, err: err}:
						case <-done:
						}
					}(t, as.Promise)
					return
				}
				v, thr := fx.forward(eff)
				res = resumption{value: v, throw: thr}
			}
		}

		// Prime the in-flight set.
		for {
			t := pull()
			if t == nil {
				break
			}
			work = append(work, entry{t: t})
		}

		// The handler races the tasks; a panic inside it becomes a
		// rejection.
		go func() {
			p := Go(func() (T, error) { return handler(stream) })
			<-p.Settled()
			v, err := p.outcome()
			ev := schedEvent[R, T]{handlerDone: true, herr: err}
			if err == nil && v != nil {
				ev.hv = v.(T)
			}
			select {
			case events <- ev:
			case <-done:
			}
		}()

		streamClosed := false
		for {
			for len(work) > 0 {
				e := work[0]
				work = work[1:]
				step(e)
			}
			if !streamClosed && outstanding == 0 && running == 0 {
				stream.close()
				streamClosed = true
				cfg.logf("stream closed")
			}
			// Await the next settlement through the effect protocol,
			// so enclosing interpreters observe a plain async
			// suspension.
			p := NewPromise[any]()
			go func() {
				select {
				case ev := <-events:
					p.Resolve(ev)
				case <-done:
					p.Reject(errStopped)
				}
			}()
			ev := fx.Await(p).(schedEvent[R, T])
			if ev.handlerDone {
				if ev.herr != nil {
					panic(ev.herr)
				}
				cfg.logf("handler settled")
				return ev.hv
			}
			outstanding--
			if ev.err != nil {
				work = append(work, entry{t: ev.t, res: resumption{throw: ev.err}})
			} else {
				work = append(work, entry{t: ev.t, res: resumption{value: ev.value}})
			}
		}
	})
}

// Series is Concurrent with a concurrency bound of one: tasks run
// strictly in source order.
func Series[R, T any](source Source[R], handler func(*Stream[R]) (T, error), opts ...Option) *Actor[T] {
	return Concurrent(source, handler, append(opts[:len(opts):len(opts)], MaxConcurrency(1))...)
}

// Parallel is Concurrent with unbounded concurrency.
func Parallel[R, T any](source Source[R], handler func(*Stream[R]) (T, error), opts ...Option) *Actor[T] {
	return Concurrent(source, handler, opts...)
}

// All runs the source to exhaustion and restores source order: the
// returned slice is index-aligned with the tasks, regardless of
// completion order.
func All[R any](source Source[R], opts ...Option) *Actor[[]R] {
	return Concurrent(source, func(s *Stream[R]) ([]R, error) {
		out := []R{}
		for c := range s.Seq() {
			for len(out) <= c.Index {
				var zero R
				out = append(out, zero)
			}
			out[c.Index] = c.Value
		}
		return out, nil
	}, opts...)
}

// Race returns the first observed completion and discards the rest;
// the remaining tasks are terminated, running their cleanup.
func Race[R any](source Source[R], opts ...Option) *Actor[R] {
	return Concurrent(source, func(s *Stream[R]) (R, error) {
		c, ok := s.Next()
		if !ok {
			var zero R
			return zero, errors.New("koro: race on an empty source")
		}
		return c.Value, nil
	}, opts...)
}

// FromTuple lifts a mixed tuple of plain values, thunks and
// coroutines into an All over its elements, preserving positions.
func FromTuple(items ...any) *Actor[[]any] {
	lifted := make([]*Actor[any], len(items))
	for i, it := range items {
		lifted[i] = liftItem(it)
	}
	return All(Tasks(lifted...))
}

// FromObject is FromTuple over a keyed shape: plain values, thunks
// and coroutines run under All and the map shape is preserved.
func FromObject(obj map[string]any) *Actor[map[string]any] {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	lifted := make([]*Actor[any], len(keys))
	for i, k := range keys {
		lifted[i] = liftItem(obj[k])
	}
	return NewActor(func(fx *Fx) map[string]any {
		values := Delegate(fx, All(Tasks(lifted...)))
		out := make(map[string]any, len(keys))
		for i, k := range keys {
			out[k] = values[i]
		}
		return out
	})
}

// liftItem turns one tuple/object element into an actor: coroutines
// are delegated to, thunks run once to obtain a coroutine, and any
// other value returns itself.
func liftItem(x any) *Actor[any] {
	switch v := x.(type) {
	case Coroutine:
		return NewActor(func(fx *Fx) any {
			return delegate(fx, v)
		})
	case func() *Actor[any]:
		return Deferred(v)
	default:
		return NewActor(func(*Fx) any { return v })
	}
}
