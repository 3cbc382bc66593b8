package signal

import (
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
)

// LazyApply1 builds a read-only signal that calls f on every read with a's
// current value — cheap to construct, recomputes every time, never
// memoized. Has a value iff a does.
func LazyApply1[A, R any](f func(A) R, a Signal[A]) Signal[R] {
	return LambdaReader(
		func() bool { return a.HasValue() },
		func() R { return f(a.Read()) },
		func() id.ID { return a.ValueID() },
	)
}

// LazyApply2 is LazyApply1 for two arguments.
func LazyApply2[A, B, R any](f func(A, B) R, a Signal[A], b Signal[B]) Signal[R] {
	return LambdaReader(
		func() bool { return a.HasValue() && b.HasValue() },
		func() R { return f(a.Read(), b.Read()) },
		func() id.ID { return id.Pair{First: a.ValueID(), Second: b.ValueID()} },
	)
}

// applyMemo is the cached node payload for a memoized Apply: the argument
// id it was computed from, and either the result or the error it raised.
type applyMemo[R any] struct {
	argID  id.ID
	result R
	err    error
	valid  bool
}

// apply1Signal is the Signal[R] view over an Apply1 cached node.
type apply1Signal[A, R any] struct {
	base
	node *datagraph.Cached[applyMemo[R]]
	a    Signal[A]
	f    func(A) (R, error)
}

func (s *apply1Signal[A, R]) ensure() (applyMemo[R], bool) {
	if !s.a.HasValue() {
		return applyMemo[R]{}, false
	}
	argID := s.a.ValueID()
	if cur, ok := s.node.Get(); ok && id.Equal(cur.argID, argID) {
		return cur, true
	}
	res, err := s.f(s.a.Read())
	m := applyMemo[R]{argID: id.Clone(argID), result: res, err: err, valid: true}
	s.node.Set(m)
	return m, true
}

func (s *apply1Signal[A, R]) Caps() Caps { return Caps{Read: Readable, Write: Unwritable} }
func (s *apply1Signal[A, R]) HasValue() bool {
	m, ok := s.ensure()
	return s.hasValue(ok && m.err == nil)
}
func (s *apply1Signal[A, R]) Read() R {
	m, ok := s.ensure()
	if !ok || m.err != nil {
		panic(ErrNoValue)
	}
	return m.result
}
func (s *apply1Signal[A, R]) MoveOut() R         { return s.Read() }
func (s *apply1Signal[A, R]) DestructiveRef() *R { v := s.Read(); return &v }
func (s *apply1Signal[A, R]) ValueID() id.ID {
	if m, ok := s.node.Get(); ok {
		return id.Pair{First: m.argID, Second: id.Of(m.err == nil)}
	}
	return id.Null
}
func (s *apply1Signal[A, R]) ReadyToWrite() bool { return false }
func (s *apply1Signal[A, R]) Write(R) error      { return ErrNotReadyToWrite }
func (s *apply1Signal[A, R]) Clear() error       { return ErrNotReadyToWrite }

// Apply1 is the memoized, eager counterpart to LazyApply1: f runs once per
// distinct argument value id, with the result (or failure) cached in a
// data node owned by tr's current traversal position. A failed call is
// remembered and re-surfaced as HasValue()==false until the argument value
// id changes, matching spec §4.3's "failure state captured and re-raised".
func Apply1[A, R any](tr *datagraph.Traversal, f func(A) (R, error), a Signal[A]) Signal[R] {
	node, _ := datagraph.GetCachedNode[applyMemo[R]](tr)
	return &apply1Signal[A, R]{node: node, a: a, f: f}
}

// duplexApply1 is the cached forward+reverse mapping behind DuplexApply1.
type duplexApply1[A, R any] struct {
	base
	node    *datagraph.Cached[applyMemo[R]]
	a       Signal[A]
	forward func(A) R
	reverse func(R) (A, error)
}

func (s *duplexApply1[A, R]) ensure() (applyMemo[R], bool) {
	if !s.a.HasValue() {
		return applyMemo[R]{}, false
	}
	argID := s.a.ValueID()
	if cur, ok := s.node.Get(); ok && id.Equal(cur.argID, argID) {
		return cur, true
	}
	m := applyMemo[R]{argID: id.Clone(argID), result: s.forward(s.a.Read()), valid: true}
	s.node.Set(m)
	return m, true
}

func (s *duplexApply1[A, R]) Caps() Caps { return Caps{Read: Readable, Write: Writable} }
func (s *duplexApply1[A, R]) HasValue() bool {
	_, ok := s.ensure()
	return s.hasValue(ok)
}
func (s *duplexApply1[A, R]) Read() R {
	m, ok := s.ensure()
	if !ok {
		panic(ErrNoValue)
	}
	return m.result
}
func (s *duplexApply1[A, R]) MoveOut() R         { return s.Read() }
func (s *duplexApply1[A, R]) DestructiveRef() *R { v := s.Read(); return &v }
func (s *duplexApply1[A, R]) ValueID() id.ID {
	if m, ok := s.node.Get(); ok {
		return m.argID
	}
	return id.Null
}
func (s *duplexApply1[A, R]) ReadyToWrite() bool { return s.a.ReadyToWrite() }
func (s *duplexApply1[A, R]) Write(v R) error {
	back, err := s.reverse(v)
	if err != nil {
		return err
	}
	if err := s.a.Write(back); err != nil {
		return err
	}
	m := applyMemo[R]{argID: s.a.ValueID(), result: v, valid: true}
	s.node.Set(m)
	s.clearInvalidation()
	return nil
}
func (s *duplexApply1[A, R]) Clear() error { return ErrNotReadyToWrite }

// DuplexApply1 wraps a, caching forward(a) the same way Apply1 does, but
// also accepts writes: a write runs reverse to recover an A, writes it
// through a, then caches the written R directly so the next read doesn't
// re-run forward redundantly.
func DuplexApply1[A, R any](tr *datagraph.Traversal, forward func(A) R, reverse func(R) (A, error), a Signal[A]) Signal[R] {
	node, _ := datagraph.GetCachedNode[applyMemo[R]](tr)
	return &duplexApply1[A, R]{node: node, a: a, forward: forward, reverse: reverse}
}

// LazyDuplexApply1 is the non-memoized counterpart to DuplexApply1: forward
// and reverse run on every read/write.
func LazyDuplexApply1[A, R any](forward func(A) R, reverse func(R) (A, error), a Signal[A]) Signal[R] {
	return LambdaDuplex(
		func() bool { return a.HasValue() },
		func() R { return forward(a.Read()) },
		func() bool { return a.ReadyToWrite() },
		func(v R) error {
			back, err := reverse(v)
			if err != nil {
				return err
			}
			return a.Write(back)
		},
		func() id.ID { return a.ValueID() },
	)
}
