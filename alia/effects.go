package alia

import (
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/signal"
)

// OnInit runs fn exactly once per call site, the first refresh it's
// reached on.
func OnInit(ctx Context, fn func()) {
	_, created := datagraph.GetPersistentNode(ctx.Traversal, func() struct{} {
		fn()
		return struct{}{}
	})
	_ = created
}

// OnActivate runs fn every time this call site transitions from not having
// been reached last refresh to being reached this refresh (tracked via a
// cached node, so re-activating after a subtree goes inactive and comes
// back fires again, unlike OnInit).
func OnActivate(ctx Context, fn func()) {
	node, _ := datagraph.GetCachedNode[struct{}](ctx.Traversal)
	if _, has := node.Get(); !has {
		node.Set(struct{}{})
		fn()
	}
}

// OnValueChange runs fn(v) whenever s's value id changes to a value s
// currently has.
func OnValueChange[T any](ctx Context, s signal.Signal[T], fn func(T)) {
	captured := mustCaptured(ctx)
	signal.RefreshSignalView(captured, s, fn, nil)
}

// OnValueGain runs fn whenever s transitions from having no value to
// having one.
func OnValueGain[T any](ctx Context, s signal.Signal[T], fn func()) {
	captured := mustCaptured(ctx)
	had, _ := datagraph.GetPersistentNode(ctx.Traversal, func() bool { return false })
	signal.RefreshSignalView(captured, s, func(T) {
		if !had.Value {
			fn()
		}
		had.Value = true
	}, func() { had.Value = false })
}

// OnValueLoss runs fn whenever s transitions from having a value to having
// none.
func OnValueLoss[T any](ctx Context, s signal.Signal[T], fn func()) {
	captured := mustCaptured(ctx)
	signal.RefreshSignalView(captured, s, nil, fn)
}

// OnValueChangeObserved behaves exactly like OnValueChange: both fire on
// the first refresh this call site is reached if s has a value, because an
// uninitialized capture never matches, so the first sighting already
// counts as a change — for widgets that want to react to an
// already-present value at mount time.
func OnValueChangeObserved[T any](ctx Context, s signal.Signal[T], fn func(T)) {
	OnValueChange(ctx, s, fn)
}

func mustCaptured(ctx Context) *id.Captured {
	node, _ := datagraph.GetPersistentNode(ctx.Traversal, func() id.Captured { return id.Captured{} })
	return &node.Value
}
