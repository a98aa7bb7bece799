// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package koro is a small, composable effect runtime: an embedded
// interpreter that turns coroutine-style computations into values
// while tracking the capabilities they require — typed failures,
// ambient context lookup and asynchronous suspension — plus
// structured concurrent composition and synchronous message
// rendezvous between cooperating coroutines.
//
// # Coroutines
//
// The core type [Actor] is a lazy, one-shot, resumable computation.
// Its body is a plain function running on a dedicated goroutine;
// owner and body alternate strictly, so executions never overlap.
// The body requests capabilities by yielding effect descriptors
// through its [Fx] handle and suspends until an interpreter resumes
// it:
//
//   - [Fx.Get], [Fx.Lookup]: ambient context, mandatory and optional
//   - [Fx.Throw]: typed failure
//   - [Fx.Await], [Fx.AwaitFunc]: asynchronous suspension
//   - [Fx.Send], [Fx.Wait]: synchronous message rendezvous
//   - [Fx.Perform]: yield a raw descriptor
//
// Deferred statements in the body are its cleanup blocks. Every
// coroutine admitted into an interpreter, runner, scheduler or
// rendezvous is either run to completion or terminated early via
// [Actor.Stop], which unwinds the body so its deferred cleanup runs.
// A body that yields a new effect while unwinding fails loudly.
//
// # Descriptors
//
// Effects are plain records implementing the [Effect] marker:
// [Err], [Ctx], [Opt], [Async] and [Msg]. Handlers dispatch on the
// descriptor's Name. The typed classes [ErrClass], [CtxClass],
// [OptClass] and [MsgClass] bind a name to payload types once and
// keep call sites and handler maps typed.
//
// # Handling
//
// [Try] and [TryClause.Handle] build a derived actor in which every
// descriptor whose name appears in the handler map is interpreted
// locally and every other descriptor is re-yielded unchanged.
// Nested clauses compose lexically — the innermost match wins:
//
//	divide := koro.NewActor(func(fx *koro.Fx) int {
//		d := fx.Get("denominator").(int)
//		if d == 0 {
//			fx.Throw("DivideByZero", "denominator is zero")
//		}
//		return 84 / d
//	})
//	result := koro.RunSync(koro.Try(divide).Handle(koro.Handlers{
//		"denominator":  2,
//		"DivideByZero": func(e any) any { return -1 },
//	}))
//	// result == 42
//
// # Running
//
// [RunSync] drives a fully-handled actor without suspending; [Run]
// additionally honours async suspensions by awaiting the promise;
// [RunAsync] promotes the run itself to a [Promise]. [Wrap],
// [Unwrap] and [RunResult] move failures between the yield position
// and a reified [Result].
//
// # Scheduling
//
// [Concurrent] runs a [Source] of tasks with a bounded in-flight
// set, feeding completions to a handler through a live [Stream] in
// completion order. [Series], [Parallel], [All], [Race],
// [FromTuple] and [FromObject] derive from it. Cancellation is
// cooperative: returning from the handler early terminates all
// in-flight tasks, and timeouts compose from [Race] against an
// [After] timer.
//
// # Rendezvous
//
// [Communicate] interleaves a named bag of coroutines around
// synchronous send/wait pairs on named mailboxes, resolving
// stranded operations with diagnostic errors raised inside the
// stranded participant.
package koro
