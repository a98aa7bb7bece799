// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

import "fmt"

// Handlers maps descriptor names to their local interpretation. For
// *Ctx and *Opt the stored value is the resumption value verbatim —
// any value is legal, including nil and functions (context as
// capability). For *Err a stored func(any) any (or func(any) R) is a
// recovery function applied to the failure payload; any other value
// is a constant recovery.
type Handlers map[string]any

// MergeHandlers combines handler maps left to right; later maps win
// on key collisions.
func MergeHandlers(hs ...Handlers) Handlers {
	out := make(Handlers)
	for _, h := range hs {
		for k, v := range h {
			out[k] = v
		}
	}
	return out
}

// TryClause is the intermediate of Try(...).Handle(...).
type TryClause[R any] struct {
	spawn func() *Actor[R]
}

// Try begins a handler clause over an existing actor.
func Try[R any](a *Actor[R]) TryClause[R] {
	return TryClause[R]{spawn: func() *Actor[R] { return a }}
}

// TryFunc begins a handler clause over a thunk; the thunk runs once,
// lazily, when the derived actor is first resumed.
func TryFunc[R any](f func() *Actor[R]) TryClause[R] {
	return TryClause[R]{spawn: f}
}

// Handle closes the clause over a handler map, producing a derived
// actor in which every descriptor whose name appears in hs is
// interpreted locally and every other descriptor is re-yielded
// unchanged. Nested clauses compose lexically: the innermost match
// wins. The inner actor is terminated exactly once on every exit
// path of the derived actor.
func (tc TryClause[R]) Handle(hs Handlers) *Actor[R] {
	return NewActor(func(fx *Fx) R {
		g := tc.spawn()
		defer g.Stop()
		var res resumption
		for {
			eff, done, pan := g.step(res)
			if pan != nil {
				panic(pan)
			}
			if done {
				return g.Return()
			}
			switch e := eff.(type) {
			case *Err:
				h, ok := hs[e.Name]
				if ok {
					// Local recovery: the inner actor is not
					// resumed; its cleanup runs via the deferred
					// stop.
					return recoverWith[R](h, e.Error)
				}
				v, thr := fx.forward(e)
				res = resumption{value: v, throw: thr}
			case *Ctx:
				if v, ok := hs[e.Name]; ok {
					res = resumption{value: v}
					continue
				}
				v, thr := fx.forward(e)
				res = resumption{value: v, throw: thr}
			case *Opt:
				if v, ok := hs[e.Name]; ok {
					res = resumption{value: v}
					continue
				}
				v, thr := fx.forward(e)
				res = resumption{value: v, throw: thr}
			case *Async, *Msg:
				v, thr := fx.forward(eff)
				res = resumption{value: v, throw: thr}
			default:
				panic(fmt.Sprintf("koro: unexpected effect %T in handler clause", eff))
			}
		}
	})
}

// recoverWith applies a handler-map entry to a failure payload.
// Recovery functions are plain value-returning functions; a returned
// coroutine is not run.
func recoverWith[R any](h any, payload any) R {
	switch f := h.(type) {
	case func(any) R:
		return f(payload)
	case func(any) any:
		return asReturn[R](f(payload))
	default:
		return asReturn[R](h)
	}
}

// asReturn narrows an untyped recovery result to the clause's return
// type. A nil result maps to the zero value.
func asReturn[R any](v any) R {
	if v == nil {
		var zero R
		return zero
	}
	return v.(R)
}
