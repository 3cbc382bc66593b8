package component_test

import (
	"testing"

	"github.com/aliago/alia/component"
	"github.com/stretchr/testify/require"
)

// buildTree runs one refresh-shaped traversal over a fixed three-level tree
// and returns the containers plus the order Begin was called in.
func buildTree(et *component.EventTraversal) (root, a, b, aChild *component.Container, order []*component.Container) {
	root = &component.Container{}
	a = &component.Container{}
	b = &component.Container{}
	aChild = &component.Container{}

	rs := component.Begin(et, root)
	order = append(order, root)
	defer rs.End()

	as := component.Begin(et, a)
	order = append(order, a)
	acs := component.Begin(et, aChild)
	order = append(order, aChild)
	acs.End()
	as.End()

	bs := component.Begin(et, b)
	order = append(order, b)
	bs.End()

	return
}

func TestBroadcastVisitsEveryContainer(t *testing.T) {
	et := component.NewEventTraversal(component.Broadcast, component.EventRefresh, nil, nil)
	_, _, _, _, order := buildTree(et)
	require.Len(t, order, 4)
}

func TestTargetedVisitsExactlyRootToTargetPath(t *testing.T) {
	// First pass, untargeted, to learn the tree shape and parent pointers.
	refreshET := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
	root, a, _, aChild, _ := buildTree(refreshET)
	require.Equal(t, root, a.Parent())
	require.Equal(t, a, aChild.Parent())

	path := component.BuildRoutingPath(aChild)
	require.Equal(t, []*component.Container{root, a, aChild}, path)

	et := component.NewEventTraversal(component.Targeted, component.EventPointer, nil, path)

	var onRoute []*component.Container
	rs := component.Begin(et, root)
	if rs.IsOnRoute() {
		onRoute = append(onRoute, root)
	}
	as := component.Begin(et, a)
	if as.IsOnRoute() {
		onRoute = append(onRoute, a)
	}
	acs := component.Begin(et, aChild)
	if acs.IsOnRoute() {
		onRoute = append(onRoute, aChild)
	}
	acs.End()
	as.End()

	sibling := &component.Container{}
	bs := component.Begin(et, sibling) // sibling of a, off the routing path
	if bs.IsOnRoute() {
		onRoute = append(onRoute, sibling)
	}
	bs.End()
	rs.End()

	require.Equal(t, []*component.Container{root, a, aChild}, onRoute)
}

func TestMarkDirtyPropagatesUntilAlreadyDirtyAncestor(t *testing.T) {
	root := &component.Container{}
	et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
	rs := component.Begin(et, root)
	mid := &component.Container{}
	ms := component.Begin(et, mid)
	leaf := &component.Container{}
	ls := component.Begin(et, leaf)
	ls.End()
	ms.End()
	rs.End()

	require.False(t, root.Dirty())
	require.False(t, mid.Dirty())
	require.False(t, leaf.Dirty())

	component.MarkDirty(leaf)
	require.True(t, leaf.Dirty())
	require.True(t, mid.Dirty())
	require.True(t, root.Dirty())

	// A single refresh traversal over the same nodes should observe the
	// dirty bit exactly once, then it's cleared by Begin.
	et2 := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
	rs2 := component.Begin(et2, root)
	require.True(t, rs2.IsDirty())
	ms2 := component.Begin(et2, mid)
	require.True(t, ms2.IsDirty())
	ls2 := component.Begin(et2, leaf)
	require.True(t, ls2.IsDirty())
	ls2.End()
	ms2.End()
	rs2.End()

	require.False(t, root.Dirty())
	require.False(t, mid.Dirty())
	require.False(t, leaf.Dirty())
}

func TestMarkDirtyIsIdempotentThroughAnAlreadyDirtyAncestor(t *testing.T) {
	root := &component.Container{}
	mid := &component.Container{}
	leaf1 := &component.Container{}
	leaf2 := &component.Container{}
	et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
	rs := component.Begin(et, root)
	ms := component.Begin(et, mid)
	l1s := component.Begin(et, leaf1)
	l1s.End()
	l2s := component.Begin(et, leaf2)
	l2s.End()
	ms.End()
	rs.End()

	component.MarkDirty(leaf1)
	require.True(t, mid.Dirty())
	require.True(t, root.Dirty())

	// mid and root are already dirty; marking leaf2 dirty must still leave
	// leaf1 dirty (no accidental clearing) and must not panic walking past
	// the already-dirty ancestors.
	component.MarkDirty(leaf2)
	require.True(t, leaf1.Dirty())
	require.True(t, leaf2.Dirty())
	require.True(t, mid.Dirty())
	require.True(t, root.Dirty())
}

func TestAbortUnwindsWithoutPropagatingPanic(t *testing.T) {
	et := component.NewEventTraversal(component.Targeted, component.EventPointer, nil, nil)
	ranAfter := false
	require.NotPanics(t, func() {
		component.RunTraversal(et, func() {
			et.Abort()
			ranAfter = true
		})
	})
	require.False(t, ranAfter)
	require.True(t, et.Aborted)
}

func TestFocusQueryForwardFindsNextAndWraps(t *testing.T) {
	c1 := &component.Container{}
	c2 := &component.Container{}
	c3 := &component.Container{}

	q := component.NewFocusQuery(c2, false)
	q.Offer(c1)
	q.Offer(c2)
	q.Offer(c3)
	require.Equal(t, c3, q.Result())

	// Focus on the last one; forward query should wrap to the first.
	q2 := component.NewFocusQuery(c3, false)
	q2.Offer(c1)
	q2.Offer(c2)
	q2.Offer(c3)
	require.Equal(t, c1, q2.Result())
}

func TestFocusQueryBackwardFindsPreviousAndWraps(t *testing.T) {
	c1 := &component.Container{}
	c2 := &component.Container{}
	c3 := &component.Container{}

	q := component.NewFocusQuery(c2, true)
	q.Offer(c1)
	q.Offer(c2)
	q.Offer(c3)
	require.Equal(t, c1, q.Result())

	q2 := component.NewFocusQuery(c1, true)
	q2.Offer(c1)
	q2.Offer(c2)
	q2.Offer(c3)
	require.Equal(t, c3, q2.Result())
}

func TestFocusQueryNoCurrentPicksFirst(t *testing.T) {
	c1 := &component.Container{}
	c2 := &component.Container{}

	q := component.NewFocusQuery(nil, false)
	q.Offer(c1)
	q.Offer(c2)
	require.Equal(t, c1, q.Result())
}
