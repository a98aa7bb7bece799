// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

// Effect classes bind a descriptor name to payload types once, so
// call sites stay typed and handler maps are keyed through Field
// instead of repeated string literals.

// ErrClass is a named, typed failure constructor.
type ErrClass[E any] struct {
	name string
}

// NewErrClass defines a failure class.
func NewErrClass[E any](name string) ErrClass[E] {
	return ErrClass[E]{name: name}
}

// Field is the handler-map key for this class.
func (c ErrClass[E]) Field() string { return c.name }

// New builds the failure descriptor.
func (c ErrClass[E]) New(e E) *Err {
	return &Err{Name: c.name, Error: e}
}

// Throw yields the failure from within a body. If an outer scope
// resumes the suspension with a substitute, it is returned.
func (c ErrClass[E]) Throw(fx *Fx, e E) any {
	return fx.Perform(c.New(e))
}

// Recover builds a handler-map fragment with a typed recovery
// function.
func (c ErrClass[E]) Recover(f func(E) any) Handlers {
	return Handlers{c.name: func(payload any) any {
		return f(payload.(E))
	}}
}

// CtxClass is a named, typed mandatory capability.
type CtxClass[V any] struct {
	name string
}

// NewCtxClass defines a context class.
func NewCtxClass[V any](name string) CtxClass[V] {
	return CtxClass[V]{name: name}
}

// Field is the handler-map key for this class.
func (c CtxClass[V]) Field() string { return c.name }

// New builds the context descriptor.
func (c CtxClass[V]) New() *Ctx { return &Ctx{Name: c.name} }

// Get requests the capability from within a body.
func (c CtxClass[V]) Get(fx *Fx) V {
	return fx.Get(c.name).(V)
}

// With builds a handler-map fragment supplying the value.
func (c CtxClass[V]) With(v V) Handlers {
	return Handlers{c.name: v}
}

// OptClass is a named, typed optional capability.
type OptClass[V any] struct {
	name string
}

// NewOptClass defines an optional-context class.
func NewOptClass[V any](name string) OptClass[V] {
	return OptClass[V]{name: name}
}

// Field is the handler-map key for this class.
func (c OptClass[V]) Field() string { return c.name }

// New builds the descriptor.
func (c OptClass[V]) New() *Opt { return &Opt{Name: c.name} }

// Get requests the capability; ok=false when nothing supplies it.
func (c OptClass[V]) Get(fx *Fx) (V, bool) {
	v := fx.Lookup(c.name)
	if v == nil {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// With builds a handler-map fragment supplying the value.
func (c OptClass[V]) With(v V) Handlers {
	return Handlers{c.name: v}
}

// MsgClass is a named, typed mailbox for Communicate.
type MsgClass[V any] struct {
	name string
}

// NewMsgClass defines a mailbox class.
func NewMsgClass[V any](name string) MsgClass[V] {
	return MsgClass[V]{name: name}
}

// Field is the mailbox name.
func (c MsgClass[V]) Field() string { return c.name }

// Send posts v to the mailbox and suspends until it is received.
func (c MsgClass[V]) Send(fx *Fx, v V) {
	fx.Send(c.name, v)
}

// Wait suspends until a peer sends to the mailbox.
func (c MsgClass[V]) Wait(fx *Fx) V {
	return fx.Wait(c.name).(V)
}
