package alia

import (
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/signal"
)

// branchState remembers which branch of an If_/ElseIf_/Else_ chain ran
// last traversal, purely for instrumentation — each branch already gets
// its own stable data block via the named block keyed by branch index, so
// per-branch state survives regardless.
type branchState struct{ lastTaken int }

// ifChain threads through a single If_/ElseIf_/Else_ call chain: the
// outer naming pass, whether a prior condition already matched, and the
// branch index counter used to key each arm's named block.
type ifChain struct {
	ctx     Context
	pass    *datagraph.Pass
	matched bool
	arm     int
}

// If_ starts a conditional scope chain. cond is read once; if true, body
// runs inside a named block keyed to this arm so its data node identity is
// stable across refreshes regardless of whether sibling arms ran.
func If_(ctx Context, cond signal.Signal[bool], body func(Context)) *ifChain {
	m, _ := dataMapFor(ctx)
	pass := m.Begin(ctx.Traversal.Refresh, true)
	c := &ifChain{ctx: ctx, pass: pass}
	return c.ElseIf_(cond, body)
}

// ElseIf_ adds another condition to the chain, evaluated only if no prior
// arm matched.
func (c *ifChain) ElseIf_(cond signal.Signal[bool], body func(Context)) *ifChain {
	taken := !c.matched && cond.HasValue() && cond.Read()
	c.runArm(taken, body)
	if taken {
		c.matched = true
	}
	return c
}

// Else_ runs body iff no prior arm matched, then ends the chain.
func (c *ifChain) Else_(body func(Context)) {
	c.runArm(!c.matched, body)
	c.End()
}

// End closes the chain without an else arm. Safe to call even if Else_
// already closed it.
func (c *ifChain) End() {
	if c.pass == nil {
		return
	}
	c.pass.End(false)
	c.pass = nil
}

func (c *ifChain) runArm(taken bool, body func(Context)) {
	key := id.Of(c.arm)
	c.arm++
	if !taken {
		return
	}
	block, _, err := c.pass.Get(key)
	if err != nil {
		panic(err)
	}
	tr := datagraph.NewTraversal(block, c.ctx.Traversal.Refresh)
	tr.GCEnabled = c.ctx.Traversal.GCEnabled
	next := c.ctx
	next.Traversal = tr
	body(next)
}

// dataMapFor retrieves (or creates) the naming map backing this call
// site's If_/ElseIf_/Else_ chain, itself stored in a persistent node so
// repeated calls at the same call site share one map.
func dataMapFor(ctx Context) (*datagraph.NamingMap, bool) {
	node, created := datagraph.GetPersistentNode(ctx.Traversal, func() *datagraph.NamingMap {
		return datagraph.NewNamingMap()
	})
	return node.Value, created
}

// ForEach iterates a signal of a slice, running fn once per item inside a
// named block keyed by the item's index — spec §6's "naming-context-backed
// iteration keyed by item id / index / address". Items are visited in
// slice order every refresh; reordering the underlying slice reorders
// which named block each index's state belongs to (index identity, not
// value identity — callers that need value-stable state across reorders
// should key their own naming map on a value-derived id instead).
func ForEach[T any](ctx Context, items signal.Signal[[]T], fn func(Context, int, signal.Signal[T])) {
	if !items.HasValue() {
		return
	}
	m, _ := dataMapFor(ctx)
	pass := m.Begin(ctx.Traversal.Refresh, true)
	defer pass.End(false)

	slice := items.Read()
	for i := range slice {
		block, _, err := pass.Get(id.Of(i))
		if err != nil {
			panic(err)
		}
		tr := datagraph.NewTraversal(block, ctx.Traversal.Refresh)
		tr.GCEnabled = ctx.Traversal.GCEnabled
		itemCtx := ctx
		itemCtx.Traversal = tr
		fn(itemCtx, i, signal.Field(items,
			func(s []T) T { return s[i] },
			func(s []T, v T) []T {
				out := append([]T(nil), s...)
				out[i] = v
				return out
			},
		))
	}
}

// Transform is the memoized per-item map from spec §6: it runs fn once per
// item whose value id has changed since last time (cached in that item's
// named block) and assembles the results into one output slice signal.
func Transform[T, R any](ctx Context, items signal.Signal[[]T], fn func(Context, signal.Signal[T]) R) signal.Signal[[]R] {
	if !items.HasValue() {
		return signal.Empty[[]R]()
	}
	m, _ := dataMapFor(ctx)
	pass := m.Begin(ctx.Traversal.Refresh, true)
	defer pass.End(false)

	slice := items.Read()
	out := make([]R, len(slice))
	for i := range slice {
		block, _, err := pass.Get(id.Of(i))
		if err != nil {
			panic(err)
		}
		tr := datagraph.NewTraversal(block, ctx.Traversal.Refresh)
		tr.GCEnabled = ctx.Traversal.GCEnabled

		itemSig := signal.Field(items,
			func(s []T) T { return s[i] },
			func(s []T, v T) []T { next := append([]T(nil), s...); next[i] = v; return next },
		)

		type memo struct {
			argID id.ID
			value R
		}
		memoNode, _ := datagraph.GetCachedNode[memo](tr)
		cur, ok := memoNode.Get()
		if !ok || !id.Equal(cur.argID, itemSig.ValueID()) {
			itemCtx := ctx
			itemCtx.Traversal = tr
			v := fn(itemCtx, itemSig)
			cur = memo{argID: id.Clone(itemSig.ValueID()), value: v}
			memoNode.Set(cur)
		}
		out[i] = cur.value
	}
	return signal.Value(out)
}
