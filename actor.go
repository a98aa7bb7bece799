// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

import (
	"fmt"
)

// resumption is the value an owner passes into a suspended actor.
// A non-nil throw is panicked inside the body at the suspension point
// instead of returning from the yield.
type resumption struct {
	value any
	throw any
}

// emission is what the actor goroutine hands back to its owner:
// either a suspension on an effect, or a terminal outcome.
type emission struct {
	eff  Effect
	ret  any
	pan  any
	done bool
}

// stopToken is the sentinel panicked inside an actor body on early
// termination. Each actor carries its own token so that stop unwinds
// are never confused across delegation chains.
type stopToken struct{}

// errCleanupYield is panicked when a body attempts to yield an effect
// while it is unwinding from a Stop.
var errCleanupYield = fmt.Errorf("koro: effect yielded during cleanup")

// Coroutine is the untyped coroutine protocol shared by every Actor
// instantiation. Interpreters, runners, the scheduler and the
// rendezvous all drive their inputs through this interface; user code
// obtains values satisfying it from NewActor and the combinators.
type Coroutine interface {
	step(res resumption) (Effect, bool, any)
	stop()
	result() any
}

// IsCoroutine reports whether x implements the coroutine protocol.
func IsCoroutine(x any) bool {
	_, ok := x.(Coroutine)
	return ok
}

// Actor is a lazy, one-shot, resumable computation that yields effect
// descriptors and terminates in a value of type R.
//
// The body runs on its own goroutine, created on the first resume.
// Execution alternates strictly with the owner: while the owner is
// blocked in an advance call the body runs, and while the body is
// blocked in a yield the owner runs. Deferred statements in the body
// are the cleanup blocks of the protocol; Stop runs them by unwinding
// the body from its current suspension point.
//
// An Actor has a single owner per step. Advancing it concurrently, or
// advancing it again after it completed, is a programmer error.
type Actor[R any] struct {
	body    func(*Fx) R
	fx      *Fx
	in      chan resumption
	out     chan emission
	tok     *stopToken
	started bool
	dead    bool
	ret     R
}

// NewActor creates an actor from a body function. The body does not
// start until the first resume; it yields effects through the Fx
// handle it receives.
func NewActor[R any](body func(*Fx) R) *Actor[R] {
	a := &Actor[R]{
		body: body,
		in:   make(chan resumption),
		out:  make(chan emission),
		tok:  &stopToken{},
	}
	a.fx = &Fx{rcv: a.in, snd: a.out, tok: a.tok}
	return a
}

func (a *Actor[R]) start() {
	a.started = true
	go func() {
		res := <-a.in
		em := emission{done: true}
		func() {
			defer func() {
				if r := recover(); r != nil {
					if tok, ok := r.(*stopToken); ok && tok == a.tok {
						return
					}
					em.pan = r
				}
			}()
			if res.throw != nil {
				panic(res.throw)
			}
			em.ret = a.body(a.fx)
		}()
		a.out <- em
	}()
}

// step advances the actor with the given resumption. It reports the
// yielded effect when the actor suspends, done=true when it
// terminates, and the body's panic value (if it terminated by
// panicking) without re-raising it.
func (a *Actor[R]) step(res resumption) (Effect, bool, any) {
	if a.dead {
		panic("koro: actor advanced after completion")
	}
	if !a.started {
		a.start()
	}
	a.in <- res
	em := <-a.out
	if !em.done {
		return em.eff, false, nil
	}
	a.dead = true
	if em.pan != nil {
		return nil, true, em.pan
	}
	if v, ok := em.ret.(R); ok {
		a.ret = v
	}
	return nil, true, nil
}

// Next resumes the actor with a value. It returns the next yielded
// effect, or done=true when the actor terminated. A body that
// terminated by panicking re-raises the panic in the caller.
func (a *Actor[R]) Next(v any) (Effect, bool) {
	eff, done, pan := a.step(resumption{value: v})
	if pan != nil {
		panic(pan)
	}
	return eff, done
}

// Throw resumes the actor by raising err inside the body at the
// current suspension point. The body may recover it; otherwise the
// panic propagates back to the caller once the body has unwound.
func (a *Actor[R]) Throw(err error) (Effect, bool) {
	eff, done, pan := a.step(resumption{throw: err})
	if pan != nil {
		panic(pan)
	}
	return eff, done
}

// Return reports the terminal value. Valid only once the actor is
// done.
func (a *Actor[R]) Return() R {
	if !a.dead {
		panic("koro: actor has not completed")
	}
	return a.ret
}

// Done reports whether the actor has terminated (returned, panicked,
// or been stopped).
func (a *Actor[R]) Done() bool { return a.dead }

// Stop terminates the actor early, running any cleanup deferred by
// the body. Idempotent: stopping a completed or never-started actor
// is a no-op (a body that never ran has no cleanup pending).
//
// A body that yields a new effect while unwinding fails loudly: Stop
// panics with a diagnostic. Panics raised by the cleanup itself also
// propagate.
func (a *Actor[R]) Stop() {
	if a.dead {
		return
	}
	if !a.started {
		a.dead = true
		return
	}
	a.in <- resumption{throw: a.tok}
	em := <-a.out
	a.dead = true
	if em.pan != nil {
		panic(em.pan)
	}
}

func (a *Actor[R]) stop()       { a.Stop() }
func (a *Actor[R]) result() any { return a.ret }

// Fx is the in-body effect handle. The body yields descriptors
// through it and receives the interpreter's resumption values.
type Fx struct {
	rcv       <-chan resumption
	snd       chan<- emission
	tok       *stopToken
	unwinding bool
}

// forward yields an effect and reports the resumption as data: the
// resume value, or the thrown value when the owner threw in. A stop
// unwind still panics, so that delegation chains release inner actors
// via their deferred stops.
func (fx *Fx) forward(e Effect) (any, any) {
	if fx.unwinding {
		panic(errCleanupYield)
	}
	if e == nil {
		panic("koro: nil effect yielded")
	}
	fx.snd <- emission{eff: e}
	r := <-fx.rcv
	if r.throw != nil {
		if tok, ok := r.throw.(*stopToken); ok && tok == fx.tok {
			fx.unwinding = true
			panic(tok)
		}
		return nil, r.throw
	}
	return r.value, nil
}

// Perform yields a raw effect descriptor and returns the resumption
// value. A thrown-in error is raised as a panic at the call site, so
// the body can recover it like any other exception.
func (fx *Fx) Perform(e Effect) any {
	v, thr := fx.forward(e)
	if thr != nil {
		panic(thr)
	}
	return v
}

// Get requests the mandatory context value registered under name.
func (fx *Fx) Get(name string) any {
	return fx.Perform(&Ctx{Name: name})
}

// Lookup requests the optional context value registered under name.
// It returns nil when no handler supplies one.
func (fx *Fx) Lookup(name string) any {
	return fx.Perform(&Opt{Name: name})
}

// Throw yields a typed failure. The suspension is terminal from the
// body's view unless an enclosing interpreter resumes it with a
// substitute, which is then returned.
func (fx *Fx) Throw(name string, err any) any {
	return fx.Perform(&Err{Name: name, Error: err})
}

// Await suspends on a future and returns its fulfilment value. A
// rejection is raised at the call site.
func (fx *Fx) Await(f Future) any {
	return fx.Perform(&Async{Promise: f})
}

// AwaitFunc runs f on its own goroutine and awaits the outcome.
func (fx *Fx) AwaitFunc(f func() (any, error)) any {
	return fx.Await(Go(f))
}

// AwaitValue passes a plain value through the asynchronous protocol:
// equivalent to awaiting an already-fulfilled promise.
func (fx *Fx) AwaitValue(v any) any {
	return fx.Await(Resolved(v))
}

// Send posts a message to the named mailbox and suspends until a
// peer receives it.
func (fx *Fx) Send(name string, msg any) {
	fx.Perform(&Msg{Name: name, Message: msg})
}

// Wait suspends until a peer sends to the named mailbox and returns
// the message.
func (fx *Fx) Wait(name string) any {
	return fx.Perform(&Msg{Name: name, Wait: true})
}

// Await is the typed form of Fx.Await for a concrete promise.
func Await[T any](fx *Fx, p *Promise[T]) T {
	v := fx.Await(p)
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// delegate drives an inner coroutine from within an enclosing body,
// re-yielding every effect unchanged and forwarding resume values and
// throw-ins. The inner coroutine is stopped on every exit path.
func delegate(fx *Fx, inner Coroutine) any {
	defer inner.stop()
	var res resumption
	for {
		eff, done, pan := inner.step(res)
		if pan != nil {
			panic(pan)
		}
		if done {
			return inner.result()
		}
		v, thr := fx.forward(eff)
		res = resumption{value: v, throw: thr}
	}
}

// Delegate runs an inner actor to completion from within an enclosing
// body, forwarding all of its effects upstream. It is the typed
// delegation primitive used by the combinators.
func Delegate[R any](fx *Fx, inner *Actor[R]) R {
	delegate(fx, inner)
	return inner.Return()
}

// Deferred lifts a thunk into a lazy actor: f runs once, on the first
// resume, and the produced actor is delegated to.
func Deferred[R any](f func() *Actor[R]) *Actor[R] {
	return NewActor(func(fx *Fx) R {
		return Delegate(fx, f())
	})
}

// Lift wraps a single effect descriptor as an actor that yields it
// once and returns the resumption value. It is the generic
// coroutine-returning form of the Fx smart constructors.
func Lift(e Effect) *Actor[any] {
	return NewActor(func(fx *Fx) any {
		return fx.Perform(e)
	})
}
