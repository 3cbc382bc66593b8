package signal

import (
	"sync/atomic"

	"github.com/aliago/alia/id"
)

// lambdaReader backs LambdaReader: a read-only signal built from plain
// functions rather than a bespoke type, for one-off call-site signals.
type lambdaReader[T any] struct {
	base
	has func() bool
	get func() T
	vid func() id.ID
}

// lambdaReadSeq numbers the default value ids of LambdaReader signals built
// without a vid function, so no two calls ever report the same id.
var lambdaReadSeq atomic.Uint64

// LambdaReader builds a readable, unwritable signal from a has/read pair
// and an optional value-id function (when vid is nil, every ValueID call
// returns a fresh id, meaning "treat every read as potentially new" —
// supply vid when cheaper staleness detection is possible).
func LambdaReader[T any](has func() bool, get func() T, vid func() id.ID) Signal[T] {
	if vid == nil {
		vid = func() id.ID { return id.Of(lambdaReadSeq.Add(1)) }
	}
	return &lambdaReader[T]{has: has, get: get, vid: vid}
}

func (l *lambdaReader[T]) Caps() Caps { return Caps{Read: Readable, Write: Unwritable} }
func (l *lambdaReader[T]) HasValue() bool {
	return l.has()
}
func (l *lambdaReader[T]) Read() T {
	if !l.has() {
		panic(ErrNoValue)
	}
	return l.get()
}
func (l *lambdaReader[T]) MoveOut() T         { return l.Read() }
func (l *lambdaReader[T]) DestructiveRef() *T { v := l.Read(); return &v }
func (l *lambdaReader[T]) ValueID() id.ID     { return l.vid() }
func (l *lambdaReader[T]) ReadyToWrite() bool { return false }
func (l *lambdaReader[T]) Write(T) error      { return ErrNotReadyToWrite }
func (l *lambdaReader[T]) Clear() error       { return ErrNotReadyToWrite }

// lambdaDuplex backs LambdaDuplex: a full read/write signal built from
// function values.
type lambdaDuplex[T any] struct {
	base
	has   func() bool
	get   func() T
	ready func() bool
	set   func(T) error
	vid   func() id.ID
}

// LambdaDuplex builds a duplex signal from has/read/ready/write functions
// plus an optional value-id function.
func LambdaDuplex[T any](has func() bool, get func() T, ready func() bool, set func(T) error, vid func() id.ID) Signal[T] {
	if vid == nil {
		vid = func() id.ID { return id.Unit }
	}
	return &lambdaDuplex[T]{has: has, get: get, ready: ready, set: set, vid: vid}
}

func (l *lambdaDuplex[T]) Caps() Caps     { return Caps{Read: Readable, Write: Writable} }
func (l *lambdaDuplex[T]) HasValue() bool { return l.hasValue(l.has()) }
func (l *lambdaDuplex[T]) Read() T {
	if !l.has() {
		panic(ErrNoValue)
	}
	return l.get()
}
func (l *lambdaDuplex[T]) MoveOut() T         { return l.Read() }
func (l *lambdaDuplex[T]) DestructiveRef() *T { v := l.Read(); return &v }
func (l *lambdaDuplex[T]) ValueID() id.ID     { return l.vid() }
func (l *lambdaDuplex[T]) ReadyToWrite() bool { return l.ready() }
func (l *lambdaDuplex[T]) Write(v T) error {
	if err := l.set(v); err != nil {
		return err
	}
	l.clearInvalidation()
	return nil
}
func (l *lambdaDuplex[T]) Clear() error { return ErrNotReadyToWrite }

// LambdaConstant builds a readable, unwritable signal that always has a
// value, calling read on every Read, with id.Unit as its value id — for
// values that are logically constant for the lifetime of the call site but
// inconvenient to precompute.
func LambdaConstant[T any](read func() T) Signal[T] {
	return LambdaReader(func() bool { return true }, read, func() id.ID { return id.Unit })
}
