package signal

import "github.com/aliago/alia/id"

// constant is a move-activated, unwritable signal over an immutable value,
// backing Value.
type constant[T any] struct {
	base
	v T
}

// Value wraps v as a constant signal: always has a value, never writable,
// move-activated (moving out just copies, since there's nothing to
// invalidate by taking it).
func Value[T any](v T) Signal[T] { return &constant[T]{v: v} }

func (c *constant[T]) Caps() Caps            { return Caps{Read: MoveActivated, Write: Unwritable} }
func (c *constant[T]) HasValue() bool        { return true }
func (c *constant[T]) Read() T               { return c.v }
func (c *constant[T]) MoveOut() T            { return c.v }
func (c *constant[T]) DestructiveRef() *T    { return &c.v }
func (c *constant[T]) ValueID() id.ID        { return id.Unit }
func (c *constant[T]) ReadyToWrite() bool    { return false }
func (c *constant[T]) Write(T) error         { return ErrNotReadyToWrite }
func (c *constant[T]) Clear() error          { return ErrNotReadyToWrite }

// direct is a duplex view directly onto a caller-owned variable, backing
// Direct.
type direct[T any] struct {
	base
	ptr *T
}

// Direct wraps ptr as a duplex signal: reads and writes go straight through
// to the variable it points at. Its value id is the pointer's identity
// alone — Direct has no way to detect that the pointee changed between two
// calls that don't share the same *T, so it can't offer the
// changes-every-write guarantee signal.State does. Callers that need
// memoization to react to every write (Apply, OnValueChange, and friends)
// should hold their value in a State obtained from GetState instead, which
// derives its id from a write counter persisted in the data graph rather
// than from the variable's address.
func Direct[T any](ptr *T) Signal[T] { return &direct[T]{ptr: ptr} }

func (d *direct[T]) Caps() Caps         { return Caps{Read: MoveActivated, Write: Clearable} }
func (d *direct[T]) HasValue() bool     { return d.hasValue(true) }
func (d *direct[T]) Read() T            { return *d.ptr }
func (d *direct[T]) MoveOut() T         { return *d.ptr }
func (d *direct[T]) DestructiveRef() *T { return d.ptr }
func (d *direct[T]) ValueID() id.ID     { return id.ByRef[T]{Ptr: d.ptr} }
func (d *direct[T]) ReadyToWrite() bool { return true }
func (d *direct[T]) Write(v T) error {
	*d.ptr = v
	d.clearInvalidation()
	return nil
}
func (d *direct[T]) Clear() error {
	var zero T
	*d.ptr = zero
	d.clearInvalidation()
	return nil
}

// empty is a signal that never has a value and never accepts writes,
// backing Empty.
type empty[T any] struct{ base }

// Empty returns a signal with the widest possible capability declaration
// (readable and clearable) but which never has a value and never accepts a
// write — useful as a placeholder default before a real source is wired
// in.
func Empty[T any]() Signal[T] { return &empty[T]{} }

func (e *empty[T]) Caps() Caps         { return Caps{Read: MoveActivated, Write: Clearable} }
func (e *empty[T]) HasValue() bool     { return false }
func (e *empty[T]) Read() T            { panic(ErrNoValue) }
func (e *empty[T]) MoveOut() T         { panic(ErrNoValue) }
func (e *empty[T]) DestructiveRef() *T { panic(ErrNoValue) }
func (e *empty[T]) ValueID() id.ID     { return id.Null }
func (e *empty[T]) ReadyToWrite() bool { return false }
func (e *empty[T]) Write(T) error      { return ErrNotReadyToWrite }
func (e *empty[T]) Clear() error       { return nil }

// DefaultInitialized returns a constant signal over T's zero value —
// equivalent to Value(zero) but self-documenting at call sites that want
// "no meaningful default, just the type's zero value".
func DefaultInitialized[T any]() Signal[T] {
	var zero T
	return Value(zero)
}
