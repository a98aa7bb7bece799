// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

// Result reifies a coroutine outcome: success with a value of type R,
// or the intercepted *Err descriptor on failure.
type Result[R any] struct {
	ok      bool
	value   R
	failure *Err
}

// Ok creates a successful result.
func Ok[R any](v R) Result[R] {
	return Result[R]{ok: true, value: v}
}

// Fail creates a failed result from a failure descriptor.
func Fail[R any](f *Err) Result[R] {
	return Result[R]{failure: f}
}

// Failure creates a failed result from a name and payload.
func Failure[R any](name string, payload any) Result[R] {
	return Fail[R](&Err{Name: name, Error: payload})
}

// IsOk reports whether this is a success.
func (r Result[R]) IsOk() bool { return r.ok }

// Value returns the success value and true, or zero and false.
func (r Result[R]) Value() (R, bool) {
	if r.ok {
		return r.value, true
	}
	var zero R
	return zero, false
}

// Err returns the failure descriptor and true, or nil and false.
func (r Result[R]) Err() (*Err, bool) {
	if !r.ok {
		return r.failure, true
	}
	return nil, false
}

// MatchResult pattern matches on the result, calling onOk or onErr.
func MatchResult[R, T any](r Result[R], onOk func(R) T, onErr func(*Err) T) T {
	if r.ok {
		return onOk(r.value)
	}
	return onErr(r.failure)
}

// Wrap reifies failures into the return position: the derived actor
// yields everything a yields except *Err, and returns Ok on success
// or the intercepted failure record. The inner actor is not resumed
// past a failure.
func Wrap[R any](a *Actor[R]) *Actor[Result[R]] {
	return NewActor(func(fx *Fx) Result[R] {
		defer a.Stop()
		var res resumption
		for {
			eff, done, pan := a.step(res)
			if pan != nil {
				panic(pan)
			}
			if done {
				return Ok(a.Return())
			}
			if e, ok := eff.(*Err); ok {
				return Fail[R](e)
			}
			v, thr := fx.forward(eff)
			res = resumption{value: v, throw: thr}
		}
	})
}

// Unwrap is the inverse of Wrap: it reflects a returned failure back
// into the yield position, and resumes with the success value
// otherwise. If some outer scope resumes the re-yielded failure with
// a substitute, the substitute becomes the return value.
func Unwrap[R any](a *Actor[Result[R]]) *Actor[R] {
	return NewActor(func(fx *Fx) R {
		r := Delegate(fx, a)
		if v, ok := r.Value(); ok {
			return v
		}
		f, _ := r.Err()
		sub := fx.Perform(f)
		if sub == nil {
			var zero R
			return zero
		}
		return sub.(R)
	})
}
