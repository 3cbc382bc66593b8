package signal

import (
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
)

// Field projects a struct-valued signal down to one field, read/write. get
// extracts the field; set returns a copy of the struct with the field
// replaced (Go structs are values, so "writing a field" means writing back
// a modified copy of the whole struct through the parent signal).
func Field[S, F any](parent Signal[S], get func(S) F, set func(S, F) S) Signal[F] {
	return LambdaDuplex(
		func() bool { return parent.HasValue() },
		func() F { return get(parent.Read()) },
		func() bool { return parent.ReadyToWrite() },
		func(f F) error { return parent.Write(set(parent.Read(), f)) },
		func() id.ID { return parent.ValueID() },
	)
}

// Index projects a slice-valued signal down to one element by position.
func Index[S any](parent Signal[[]S], i int) Signal[S] {
	return Field(parent,
		func(s []S) S { return s[i] },
		func(s []S, v S) []S {
			out := append([]S(nil), s...)
			out[i] = v
			return out
		},
	)
}

// Cast adapts a Signal[A] to Signal[B] using caller-supplied conversions;
// both directions must be total (signal_cast in the source assumes an
// implicit/explicit language conversion always succeeds).
func Cast[A, B any](s Signal[A], to func(A) B, from func(B) A) Signal[B] {
	return LazyDuplexApply1(to, func(b B) (A, error) { return from(b), nil }, s)
}

// AddDefault substitutes def for the value whenever s has no value, and
// reports HasValue()==true unconditionally — writes pass through to s when
// it's writable.
func AddDefault[T any](s Signal[T], def T) Signal[T] {
	return LambdaDuplex(
		func() bool { return true },
		func() T {
			if s.HasValue() {
				return s.Read()
			}
			return def
		},
		func() bool { return s.ReadyToWrite() },
		func(v T) error { return s.Write(v) },
		func() id.ID {
			if s.HasValue() {
				return s.ValueID()
			}
			return id.Unit
		},
	)
}

// Unwrap projects a Signal[*T] (or any "optional-like" pointer signal) down
// to Signal[T], reporting no value when the pointer is nil.
func Unwrap[T any](s Signal[*T]) Signal[T] {
	return LambdaDuplex(
		func() bool { return s.HasValue() && s.Read() != nil },
		func() T { return *s.Read() },
		func() bool { return s.ReadyToWrite() },
		func(v T) error { return s.Write(&v) },
		func() id.ID { return s.ValueID() },
	)
}

// Mask gates both reading and writing of s behind flag: while flag has no
// value or reads false, s reports no value and is never ready to write.
func Mask[T any](s Signal[T], flag Signal[bool]) Signal[T] {
	open := func() bool { return flag.HasValue() && flag.Read() }
	return LambdaDuplex(
		func() bool { return open() && s.HasValue() },
		func() T { return s.Read() },
		func() bool { return open() && s.ReadyToWrite() },
		func(v T) error { return s.Write(v) },
		func() id.ID { return s.ValueID() },
	)
}

// MaskReads gates only reading; writes always pass through to s.
func MaskReads[T any](s Signal[T], flag Signal[bool]) Signal[T] {
	open := func() bool { return flag.HasValue() && flag.Read() }
	return LambdaDuplex(
		func() bool { return open() && s.HasValue() },
		func() T { return s.Read() },
		func() bool { return s.ReadyToWrite() },
		func(v T) error { return s.Write(v) },
		func() id.ID { return s.ValueID() },
	)
}

// MaskWrites gates only writing; reads always pass through to s.
func MaskWrites[T any](s Signal[T], flag Signal[bool]) Signal[T] {
	open := func() bool { return flag.HasValue() && flag.Read() }
	return LambdaDuplex(
		func() bool { return s.HasValue() },
		func() T { return s.Read() },
		func() bool { return open() && s.ReadyToWrite() },
		func(v T) error { return s.Write(v) },
		func() id.ID { return s.ValueID() },
	)
}

// HasValue returns a read-only bool signal tracking s.HasValue().
func HasValue[T any](s Signal[T]) Signal[bool] {
	return LambdaReader(
		func() bool { return true },
		func() bool { return s.HasValue() },
		func() id.ID { return id.Of(s.HasValue()) },
	)
}

// ReadyToWrite returns a read-only bool signal tracking s.ReadyToWrite().
func ReadyToWrite[T any](s Signal[T]) Signal[bool] {
	return LambdaReader(
		func() bool { return true },
		func() bool { return s.ReadyToWrite() },
		func() id.ID { return id.Of(s.ReadyToWrite()) },
	)
}

// minimizeIDChanges is the cached-equality payload behind MinimizeIDChanges.
type minimizeIDChanges[T comparable] struct {
	value  T
	synth  id.ID
	gen    int
	hasVal bool
}

// MinimizeIDChanges wraps s so its value id only advances when the value is
// actually structurally different from the last observed one (spec:
// "debounces id changes when the underlying value is structurally equal"),
// even if s's own ValueID() would have changed (e.g. a by-reference id on
// a value that happens to compare equal).
func MinimizeIDChanges[T comparable](tr *datagraph.Traversal, s Signal[T]) Signal[T] {
	node, _ := datagraph.GetCachedNode[minimizeIDChanges[T]](tr)
	return &minimizedSignal[T]{base: base{}, node: node, s: s}
}

type minimizedSignal[T comparable] struct {
	base
	node *datagraph.Cached[minimizeIDChanges[T]]
	s    Signal[T]
}

func (m *minimizedSignal[T]) sync() minimizeIDChanges[T] {
	cur, ok := m.node.Get()
	if !m.s.HasValue() {
		if ok && cur.hasVal {
			cur = minimizeIDChanges[T]{gen: cur.gen + 1}
			m.node.Set(cur)
		}
		return cur
	}
	v := m.s.Read()
	if !ok || !cur.hasVal || cur.value != v {
		cur = minimizeIDChanges[T]{value: v, hasVal: true, gen: cur.gen + 1}
		m.node.Set(cur)
	}
	return cur
}

func (m *minimizedSignal[T]) Caps() Caps         { return m.s.Caps() }
func (m *minimizedSignal[T]) HasValue() bool     { return m.hasValue(m.s.HasValue()) }
func (m *minimizedSignal[T]) Read() T            { return m.s.Read() }
func (m *minimizedSignal[T]) MoveOut() T         { return m.s.MoveOut() }
func (m *minimizedSignal[T]) DestructiveRef() *T { return m.s.DestructiveRef() }
func (m *minimizedSignal[T]) ValueID() id.ID {
	st := m.sync()
	return id.Of(st.gen)
}
func (m *minimizedSignal[T]) ReadyToWrite() bool { return m.s.ReadyToWrite() }
func (m *minimizedSignal[T]) Write(v T) error {
	if err := m.s.Write(v); err != nil {
		return err
	}
	m.clearInvalidation()
	return nil
}
func (m *minimizedSignal[T]) Clear() error {
	if err := m.s.Clear(); err != nil {
		return err
	}
	m.clearInvalidation()
	return nil
}

// SimplifyID replaces s's value id with a simple id derived from the value
// itself via reflect.DeepEqual-compatible identity (id.Of(v) when T is
// comparable) — useful when the underlying signal's own id is expensive or
// unstable but the value itself is cheap to key on.
func SimplifyID[T comparable](s Signal[T]) Signal[T] {
	return LambdaDuplex(
		s.HasValue,
		s.Read,
		s.ReadyToWrite,
		s.Write,
		func() id.ID {
			if !s.HasValue() {
				return id.Null
			}
			return id.Of(s.Read())
		},
	)
}

// Move adapts s to report MoveActivated read capability, for callers that
// need to move a value out of a signal that's otherwise only Movable.
func Move[T any](s Signal[T]) Signal[T] {
	return &moveActivated[T]{s}
}

type moveActivated[T any] struct{ Signal[T] }

func (m *moveActivated[T]) Caps() Caps {
	c := m.Signal.Caps()
	c.Read = MoveActivated
	return c
}
