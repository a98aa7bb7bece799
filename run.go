// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

import (
	"context"
	"fmt"
)

// RunSync drives a fully-handled actor to completion without
// suspending. Unhandled *Opt descriptors resolve to nil; any other
// descriptor at this boundary is a programmer error and panics with
// a diagnostic. The actor is terminated on every exit path.
func RunSync[R any](a *Actor[R]) R {
	defer a.Stop()
	var res resumption
	for {
		eff, done, pan := a.step(res)
		if pan != nil {
			panic(pan)
		}
		if done {
			return a.Return()
		}
		switch e := eff.(type) {
		case *Opt:
			res = resumption{}
		case *Err:
			panic(fmt.Sprintf("koro: unhandled failure %q at the runner boundary", e.Name))
		case *Ctx:
			panic(fmt.Sprintf("koro: missing context %q at the runner boundary", e.Name))
		case *Async:
			panic("koro: expected synchronous computation, got async effect")
		case *Msg:
			panic(fmt.Sprintf("koro: message %q yielded outside communicate", e.Name))
		default:
			panic(fmt.Sprintf("koro: unexpected effect %T at the runner boundary", eff))
		}
	}
}

// Run is the asynchronous runner: like RunSync, but *Async
// suspensions are honoured by awaiting the promise. A fulfilment
// resumes the body with the value; a rejection is raised at the
// suspension point and, if the body does not recover it, surfaces as
// the returned error. Cancelling ctx terminates the actor and
// returns the context error.
func Run[R any](ctx context.Context, a *Actor[R]) (R, error) {
	defer a.Stop()
	var zero R
	var res resumption
	for {
		eff, done, pan := a.step(res)
		if pan != nil {
			if err, ok := pan.(error); ok {
				return zero, err
			}
			panic(pan)
		}
		if done {
			return a.Return(), nil
		}
		switch e := eff.(type) {
		case *Opt:
			res = resumption{}
		case *Async:
			v, err, canceled := awaitFuture(ctx, e.Promise)
			if canceled {
				return zero, err
			}
			if err != nil {
				res = resumption{throw: err}
			} else {
				res = resumption{value: v}
			}
		case *Err:
			panic(fmt.Sprintf("koro: unhandled failure %q at the runner boundary", e.Name))
		case *Ctx:
			panic(fmt.Sprintf("koro: missing context %q at the runner boundary", e.Name))
		case *Msg:
			panic(fmt.Sprintf("koro: message %q yielded outside communicate", e.Name))
		default:
			panic(fmt.Sprintf("koro: unexpected effect %T at the runner boundary", eff))
		}
	}
}

// RunAsync promotes the run to the host promise type: the actor is
// driven on its own goroutine and the outcome settles the returned
// promise.
func RunAsync[R any](a *Actor[R]) *Promise[R] {
	return Go(func() (R, error) {
		return Run(context.Background(), a)
	})
}

// RunResult runs the wrapped actor: domain failures come back as a
// failed Result instead of a diagnostic.
func RunResult[R any](ctx context.Context, a *Actor[R]) (Result[R], error) {
	return Run(ctx, Wrap(a))
}

// awaitFuture blocks until f settles or ctx is done. The third
// return distinguishes cancellation from a rejection; a settlement
// that raced the cancellation wins.
func awaitFuture(ctx context.Context, f Future) (any, error, bool) {
	select {
	case <-f.Settled():
		v, err := f.outcome()
		return v, err, false
	case <-ctx.Done():
		select {
		case <-f.Settled():
			v, err := f.outcome()
			return v, err, false
		default:
		}
		return nil, ctx.Err(), true
	}
}
