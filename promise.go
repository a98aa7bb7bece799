// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Future is the untyped view of a host promise carried by an Async
// descriptor. Runners and the scheduler only need "tell me when you
// settled" and "what was the outcome"; *Promise is the concrete
// implementation.
type Future interface {
	// Settled is closed once the future has settled.
	Settled() <-chan struct{}
	// outcome reports the settlement; valid only after Settled is
	// closed.
	outcome() (any, error)
}

// Promise is a one-shot settlement cell: it resolves with a value or
// rejects with an error exactly once, and every await observes the
// same outcome.
type Promise[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// NewPromise creates an unsettled promise. Settle it with Resolve or
// Reject.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolve fulfils the promise with v. Later settlements are ignored.
func (p *Promise[T]) Resolve(v T) {
	p.once.Do(func() {
		p.val = v
		close(p.done)
	})
}

// Reject fails the promise with err. Later settlements are ignored.
func (p *Promise[T]) Reject(err error) {
	p.once.Do(func() {
		if err == nil {
			err = errors.New("koro: promise rejected with nil error")
		}
		p.err = err
		close(p.done)
	})
}

// Settled is closed once the promise has settled.
func (p *Promise[T]) Settled() <-chan struct{} { return p.done }

func (p *Promise[T]) outcome() (any, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.val, nil
}

// Await blocks until the promise settles or ctx is done, whichever
// comes first.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		// Prefer the settlement if it raced the cancellation.
		select {
		case <-p.done:
			return p.val, p.err
		default:
		}
		var zero T
		return zero, ctx.Err()
	}
}

// Go runs f on its own goroutine and returns the promise of its
// outcome. A panic in f is recovered into a rejection.
func Go[T any](f func() (T, error)) *Promise[T] {
	p := NewPromise[T]()
	go settle(p, f)
	return p
}

// GoCtx is Go with a context threaded through to f.
func GoCtx[T any](ctx context.Context, f func(context.Context) (T, error)) *Promise[T] {
	return Go(func() (T, error) { return f(ctx) })
}

// GoGroup runs f under an errgroup, so the group observes the error
// as well as the returned promise.
func GoGroup[T any](eg *errgroup.Group, f func() (T, error)) *Promise[T] {
	p := NewPromise[T]()
	eg.Go(func() error {
		settle(p, f)
		return p.err
	})
	return p
}

func settle[T any](p *Promise[T], f func() (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				p.Reject(err)
				return
			}
			p.Reject(errors.Errorf("%+v", r))
		}
	}()
	v, err := f()
	if err != nil {
		p.Reject(err)
		return
	}
	p.Resolve(v)
}

// Resolved returns a promise already fulfilled with v.
func Resolved[T any](v T) *Promise[T] {
	p := NewPromise[T]()
	p.Resolve(v)
	return p
}

// Rejected returns a promise already failed with err.
func Rejected[T any](err error) *Promise[T] {
	p := NewPromise[T]()
	p.Reject(err)
	return p
}

// After returns a promise that fulfils with the current time once d
// has elapsed. It is the timer half of a race-based timeout.
func After(d time.Duration) *Promise[time.Time] {
	p := NewPromise[time.Time]()
	time.AfterFunc(d, func() {
		p.Resolve(time.Now())
	})
	return p
}
