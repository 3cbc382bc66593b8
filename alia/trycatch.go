package alia

import (
	"github.com/aliago/alia/component"
	"github.com/aliago/alia/datagraph"
)

// tryState is the persistent payload behind Try_: the last captured panic
// value (nil once a catch clause has run to completion without a further
// failure) and whether the body needs to be retried next refresh.
type tryState struct {
	failure any
	dirty   bool
}

// TryBlock is the handle returned by Try_, used to attach Catch_ clauses.
type TryBlock struct {
	ctx     Context
	node    *datagraph.Persistent[tryState]
	handled bool
}

// Try_ runs body inside a recover-guarded scope. If body panics, the
// panic value is captured rather than propagated, and the component is
// marked dirty so another refresh follows. While a captured failure
// stands, body is skipped; a Catch_ clause that handles the failure clears
// it, so the body runs again on the next refresh. If no Catch_ clause
// handles it, End re-raises it, in the refresh that captured it and in
// every later refresh until a clause handles it.
func Try_(ctx Context, body func(Context)) *TryBlock {
	node, _ := datagraph.GetPersistentNode(ctx.Traversal, func() tryState { return tryState{} })
	tb := &TryBlock{ctx: ctx, node: node}

	func() {
		defer func() {
			if r := recover(); r != nil {
				node.Value.failure = r
				if ctx.Container != nil {
					component.MarkDirty(ctx.Container)
				}
			}
		}()
		if node.Value.failure == nil {
			body(ctx)
		}
	}()

	return tb
}

// Catch_ runs handler(failure) if Try_'s body most recently panicked with
// a value satisfying match, and clears the failure so the body resumes
// running on the next refresh. match receives the captured panic value and
// reports whether this clause should handle it; pass a type assertion
// closure to catch by type.
func (tb *TryBlock) Catch_(match func(any) bool, handler func(Context, any)) *TryBlock {
	if tb.handled || tb.node.Value.failure == nil {
		return tb
	}
	if match(tb.node.Value.failure) {
		failure := tb.node.Value.failure
		tb.node.Value.failure = nil
		tb.handled = true
		handler(tb.ctx, failure)
	}
	return tb
}

// End re-raises the captured failure if no Catch_ clause handled it this
// refresh, matching "if no catch handles the exception, it is re-raised
// upward in subsequent refreshes".
func (tb *TryBlock) End() {
	if !tb.handled && tb.node.Value.failure != nil {
		panic(tb.node.Value.failure)
	}
}
