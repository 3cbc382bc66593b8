package signal

import (
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
)

// stateBox is the persistent payload behind a State signal: the value plus
// a monotonic write counter used to derive its value id.
type stateBox[T any] struct {
	value     T
	writeGen  int
	dirtyHook func()
}

// State is the persistent, duplex signal returned by GetState: a value
// that survives across refreshes, whose value id advances by one on every
// write (never recomputed from the value itself, so even a write of an
// equal value is observable).
type State[T any] struct {
	base
	box *datagraph.Persistent[stateBox[T]]
}

// GetState allocates (on first visit) or retrieves (on later visits) a
// persistent data node holding initial's value, and returns a duplex
// signal over it. onDirty, if non-nil, is invoked on every write — wire it
// to component.MarkDirty(container) so writes schedule a re-render.
func GetState[T any](tr *datagraph.Traversal, initial Signal[T], onDirty func()) (*State[T], bool) {
	node, created := datagraph.GetPersistentNode(tr, func() stateBox[T] {
		var zero T
		if initial != nil && initial.HasValue() {
			zero = initial.Read()
		}
		return stateBox[T]{value: zero, dirtyHook: onDirty}
	})
	if created && onDirty != nil {
		node.Value.dirtyHook = onDirty
	}
	return &State[T]{box: node}, created
}

// GetTransientState is GetState backed by a cached node instead of a
// persistent one: the state is dropped (reset to initial) whenever its
// subtree goes inactive and its cache is cleared.
func GetTransientState[T any](tr *datagraph.Traversal, initial T, onDirty func()) Signal[T] {
	node, _ := datagraph.GetCachedNode[stateBox[T]](tr)
	if _, has := node.Get(); !has {
		node.Set(stateBox[T]{value: initial, dirtyHook: onDirty})
	}
	return &transientAdapter[T]{node: node}
}

func (s *State[T]) Caps() Caps     { return Caps{Read: MoveActivated, Write: Clearable} }
func (s *State[T]) HasValue() bool { return s.hasValue(true) }
func (s *State[T]) Read() T        { return s.box.Value.value }
func (s *State[T]) MoveOut() T     { return s.box.Value.value }
func (s *State[T]) DestructiveRef() *T {
	s.bump()
	return &s.box.Value.value
}
func (s *State[T]) ValueID() id.ID     { return id.Of(s.box.Value.writeGen) }
func (s *State[T]) ReadyToWrite() bool { return true }
func (s *State[T]) Write(v T) error {
	s.box.Value.value = v
	s.bump()
	return nil
}
func (s *State[T]) Clear() error {
	var zero T
	s.box.Value.value = zero
	s.bump()
	return nil
}

func (s *State[T]) bump() {
	s.box.Value.writeGen++
	s.clearInvalidation()
	if s.box.Value.dirtyHook != nil {
		s.box.Value.dirtyHook()
	}
}

// transientAdapter gives a cached-node-backed state box the same Signal[T]
// surface as State, without duplicating the write/read bodies.
type transientAdapter[T any] struct {
	base
	node *datagraph.Cached[stateBox[T]]
}

func (t *transientAdapter[T]) cur() stateBox[T] { v, _ := t.node.Get(); return v }

func (t *transientAdapter[T]) Caps() Caps         { return Caps{Read: MoveActivated, Write: Clearable} }
func (t *transientAdapter[T]) HasValue() bool     { return t.hasValue(true) }
func (t *transientAdapter[T]) Read() T            { return t.cur().value }
func (t *transientAdapter[T]) MoveOut() T         { return t.cur().value }
func (t *transientAdapter[T]) DestructiveRef() *T { v := t.cur(); t.bump(v.value); return &v.value }
func (t *transientAdapter[T]) ValueID() id.ID     { return id.Of(t.cur().writeGen) }
func (t *transientAdapter[T]) ReadyToWrite() bool { return true }
func (t *transientAdapter[T]) Write(v T) error {
	t.bump(v)
	return nil
}
func (t *transientAdapter[T]) Clear() error {
	var zero T
	t.bump(zero)
	return nil
}

func (t *transientAdapter[T]) bump(v T) {
	cur := t.cur()
	cur.value = v
	cur.writeGen++
	t.node.Set(cur)
	t.clearInvalidation()
	if cur.dirtyHook != nil {
		cur.dirtyHook()
	}
}

// WriteSignal performs the two-step write protocol from spec §4.3: if s
// isn't ready to write, the write is silently dropped (returns false, nil);
// otherwise s.Write(v) runs, and a validation error is offered back to the
// signal via Invalidate. The error is returned to the caller only if
// Invalidate declines it; if it accepts, WriteSignal returns (false, nil).
func WriteSignal[T any](s Signal[T], v T) (wrote bool, err error) {
	if !s.ReadyToWrite() {
		return false, nil
	}
	if err := s.Write(v); err != nil {
		if s.Invalidate(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RefreshSignalView compares s's current value id against captured, calling
// onNew(read) when the value changed to a present one, onLost when it
// transitioned to absent, and always re-capturing the new id.
func RefreshSignalView[T any](captured *id.Captured, s Signal[T], onNew func(T), onLost func()) {
	if captured.Matches(s.ValueID()) {
		return
	}
	wasInitialized := captured.Initialized()
	captured.Capture(s.ValueID())
	if s.HasValue() {
		if onNew != nil {
			onNew(s.Read())
		}
		return
	}
	if wasInitialized && onLost != nil {
		onLost()
	}
}
