package timing

import (
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/signal"
)

// deflickerState is the persistent payload behind Deflicker: the last
// observed value and the tick at which s was last observed to be readable.
type deflickerState[T any] struct {
	value        T
	hasValue     bool
	lastReadable Tick
	gen          int
}

// Deflicker wraps s so it continues reporting its last readable value for
// durationMS after s itself becomes unreadable, then reports unreadable —
// smoothing over momentary gaps (e.g. a loading signal that flickers
// between ready and not-ready across single frames).
func Deflicker[T any](tr *datagraph.Traversal, ticks TickSource, refresher RefreshRequester, s signal.Signal[T], durationMS int) signal.Signal[T] {
	node, _ := datagraph.GetPersistentNode(tr, func() deflickerState[T] { return deflickerState[T]{} })

	sync := func() (T, bool) {
		now := ticks.Tick()
		st := node.Value
		if s.HasValue() {
			v := s.Read()
			if !st.hasValue {
				st.gen++
			}
			st.value = v
			st.hasValue = true
			st.lastReadable = now
			node.Value = st
			return v, true
		}
		if st.hasValue {
			elapsed := int32(now - st.lastReadable)
			if elapsed < int32(durationMS) {
				refresher.RequestAnimationRefresh()
				return st.value, true
			}
			st.hasValue = false
			st.gen++
			node.Value = st
		}
		var zero T
		return zero, false
	}

	return signalFuncs[T]{
		has: func() bool { _, ok := sync(); return ok },
		get: func() T { v, _ := sync(); return v },
		rdy: s.ReadyToWrite,
		set: s.Write,
		vid: func() id.ID { sync(); return id.Of(node.Value.gen) },
	}
}
