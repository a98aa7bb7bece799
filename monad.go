// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

// Sequencing combinators for actors.
//
// Minimal definition: NewActor and Delegate are necessary and
// sufficient. Bind, Map and Then are derived conveniences for
// composing actors without writing a wrapper body by hand.

// Bind sequences two actors: it runs m, then passes the result to f
// to obtain the continuation actor. Effects of both propagate
// upstream unchanged.
func Bind[A, B any](m *Actor[A], f func(A) *Actor[B]) *Actor[B] {
	return NewActor(func(fx *Fx) B {
		return Delegate(fx, f(Delegate(fx, m)))
	})
}

// Map applies a pure function to the result of an actor.
func Map[A, B any](m *Actor[A], f func(A) B) *Actor[B] {
	return NewActor(func(fx *Fx) B {
		return f(Delegate(fx, m))
	})
}

// Then sequences two actors, discarding the first result.
func Then[A, B any](m *Actor[A], n *Actor[B]) *Actor[B] {
	return NewActor(func(fx *Fx) B {
		Delegate(fx, m)
		return Delegate(fx, n)
	})
}

// Pure lifts a value into an actor with no effects.
func Pure[A any](a A) *Actor[A] {
	return NewActor(func(*Fx) A { return a })
}
