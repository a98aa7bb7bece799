// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

// Effect is the marker interface for the descriptors a coroutine
// yields to request a capability. Dispatch uses type switches —
// Effect is a pure marker interface, like the frame markers of a
// defunctionalized evaluator.
//
// The recognised descriptors are *Err, *Ctx, *Opt, *Async and *Msg.
// Yielding any other implementation is a fatal runtime error.
type Effect interface {
	effect()
}

// Err is a typed failure. Name is the discriminator handlers match
// on; Error carries the failure payload. A matching handler does not
// resume the coroutine — the suspension is terminal from its own
// view. An interpreter without a matching name re-yields it; if some
// outer scope resumes it anyway, the resumption value is returned to
// the body as a substitute.
type Err struct {
	Name  string
	Error any
}

func (*Err) effect() {}

// Ctx is a mandatory capability request. The interpreter that matches
// Name supplies the value the body resumes with; reaching a runner
// unhandled is a programmer error.
type Ctx struct {
	Name string
}

func (*Ctx) effect() {}

// Opt is an optional capability request: same shape as Ctx, but a
// runner resolves it silently with nil when no handler supplies a
// value.
type Opt struct {
	Name string
}

func (*Opt) effect() {}

// Async is an asynchronous suspension on a host promise. On
// settlement the body resumes with the fulfilment value or has the
// rejection raised at the suspension point.
type Async struct {
	Promise Future
}

func (*Async) effect() {}

// Msg is the rendezvous descriptor. Wait=false denotes a send of
// Message to the named mailbox; Wait=true denotes a wait on it.
// Matching is by Name, inside Communicate only.
type Msg struct {
	Name    string
	Message any
	Wait    bool
}

func (*Msg) effect() {}
