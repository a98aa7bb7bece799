// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

// Resource safety primitives for cleanup-guaranteed resource
// handling inside actor bodies.

// Bracket acquires a resource, uses it, and guarantees release on
// every exit: normal return, a failure recovered upstream, a
// thrown-in rejection, or early termination of the actor.
func Bracket[S, A any](
	acquire func(fx *Fx) S,
	release func(S),
	use func(fx *Fx, s S) A,
) *Actor[A] {
	return NewActor(func(fx *Fx) A {
		s := acquire(fx)
		defer release(s)
		return use(fx, s)
	})
}

// OnStop runs cleanup only when the body does not reach a normal
// return — the actor was stopped early or unwound by a raised error.
func OnStop[A any](body func(fx *Fx) A, cleanup func()) *Actor[A] {
	return NewActor(func(fx *Fx) A {
		completed := false
		defer func() {
			if !completed {
				cleanup()
			}
		}()
		v := body(fx)
		completed = true
		return v
	})
}
