package alia_test

import (
	"errors"
	"testing"

	"github.com/aliago/alia/alia"
	"github.com/aliago/alia/component"
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/signal"
	"github.com/stretchr/testify/require"
)

func newRootContext() (alia.Context, *datagraph.Graph, *component.Container) {
	g := datagraph.NewGraph()
	root := &component.Container{}
	tr := datagraph.NewTraversal(g.Root, true)
	et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
	return alia.New(tr, et, root), g, root
}

type intTag struct{}

var intKey = alia.NewTag[intTag, int]()

func TestExtendGetAndMustGetRoundTrip(t *testing.T) {
	ctx, _, _ := newRootContext()
	ctx = alia.Extend(ctx, intKey, 7)

	v, ok := alia.Get(ctx, intKey)
	require.True(t, ok)
	require.Equal(t, 7, v)
	require.Equal(t, 7, alia.MustGet(ctx, intKey))
}

func TestMustGetPanicsWhenTagMissing(t *testing.T) {
	ctx, _, _ := newRootContext()
	require.Panics(t, func() { alia.MustGet(ctx, intKey) })
}

func TestContentIDStartsAtUnitAndIsStableWithoutExtend(t *testing.T) {
	ctx1, _, _ := newRootContext()
	ctx2, _, _ := newRootContext()
	require.True(t, id.Equal(id.Unit, ctx1.ContentID()))
	require.True(t, ctx1.ContentID().Equal(ctx2.ContentID()))
}

func TestIfChainRunsExactlyOneMatchingArm(t *testing.T) {
	ctx, _, _ := newRootContext()

	var ran []string
	cond := signal.Value(false)
	alia.If_(ctx, cond, func(c alia.Context) { ran = append(ran, "if") }).
		ElseIf_(signal.Value(true), func(c alia.Context) { ran = append(ran, "elseif") }).
		Else_(func(c alia.Context) { ran = append(ran, "else") })

	require.Equal(t, []string{"elseif"}, ran)
}

func TestIfChainElseRunsWhenNothingMatches(t *testing.T) {
	ctx, _, _ := newRootContext()

	var ran []string
	alia.If_(ctx, signal.Value(false), func(c alia.Context) { ran = append(ran, "if") }).
		Else_(func(c alia.Context) { ran = append(ran, "else") })

	require.Equal(t, []string{"else"}, ran)
}

func TestForEachVisitsEveryItemInOrder(t *testing.T) {
	ctx, _, _ := newRootContext()
	items := signal.Value([]int{10, 20, 30})

	var seen []int
	alia.ForEach(ctx, items, func(c alia.Context, i int, item signal.Signal[int]) {
		seen = append(seen, item.Read())
	})

	require.Equal(t, []int{10, 20, 30}, seen)
}

func TestTransformMemoizesUnchangedItems(t *testing.T) {
	g := datagraph.NewGraph()
	root := &component.Container{}

	calls := 0
	run := func(items []int) []int {
		tr := datagraph.NewTraversal(g.Root, true)
		et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
		ctx := alia.New(tr, et, root)
		out := alia.Transform(ctx, signal.Value(items), func(c alia.Context, item signal.Signal[int]) int {
			calls++
			return item.Read() * 2
		})
		return out.Read()
	}

	require.Equal(t, []int{2, 4}, run([]int{1, 2}))
	require.Equal(t, 2, calls)

	// same values again: Transform's per-item memo must skip re-invoking fn.
	require.Equal(t, []int{2, 4}, run([]int{1, 2}))
	require.Equal(t, 2, calls, "unchanged items must not be recomputed")

	require.Equal(t, []int{2, 6}, run([]int{1, 3}))
	require.Equal(t, 3, calls, "only the changed item is recomputed")
}

func TestOnInitRunsExactlyOnce(t *testing.T) {
	g := datagraph.NewGraph()
	calls := 0
	for i := 0; i < 3; i++ {
		tr := datagraph.NewTraversal(g.Root, true)
		et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
		ctx := alia.New(tr, et, &component.Container{})
		alia.OnInit(ctx, func() { calls++ })
	}
	require.Equal(t, 1, calls)
}

func TestOnValueChangeFiresOnlyWhenValueIDChanges(t *testing.T) {
	g := datagraph.NewGraph()
	var observed []int
	var state *signal.State[int]

	run := func() {
		tr := datagraph.NewTraversal(g.Root, true)
		et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
		ctx := alia.New(tr, et, &component.Container{})
		state, _ = signal.GetState[int](tr, signal.Value(0), nil)
		alia.OnValueChange(ctx, state, func(v int) { observed = append(observed, v) })
	}

	run()
	require.Equal(t, []int{0}, observed)
	run()
	require.Equal(t, []int{0}, observed, "unchanged state must not refire")

	_, err := signal.WriteSignal(state, 5)
	require.NoError(t, err)
	run()
	require.Equal(t, []int{0, 5}, observed)
}

func TestTryCatchCapturesPanicAndMarksDirtyThenCatchClearsIt(t *testing.T) {
	g := datagraph.NewGraph()
	root := &component.Container{}

	boom := errors.New("boom")
	var caught error

	run := func(shouldPanic bool) {
		tr := datagraph.NewTraversal(g.Root, true)
		et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
		ctx := alia.New(tr, et, root)
		alia.Try_(ctx, func(c alia.Context) {
			if shouldPanic {
				panic(boom)
			}
		}).Catch_(func(v any) bool {
			err, ok := v.(error)
			return ok && errors.Is(err, boom)
		}, func(c alia.Context, v any) {
			caught = v.(error)
		}).End()
	}

	require.NotPanics(t, func() { run(true) })
	require.Equal(t, boom, caught)
	require.True(t, root.Dirty())
}

func TestTryEndReraisesUnhandledFailure(t *testing.T) {
	g := datagraph.NewGraph()
	root := &component.Container{}
	tr := datagraph.NewTraversal(g.Root, true)
	et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
	ctx := alia.New(tr, et, root)

	require.Panics(t, func() {
		alia.Try_(ctx, func(c alia.Context) { panic("nope") }).
			Catch_(func(v any) bool { return false }, func(c alia.Context, v any) {}).
			End()
	})
}

func TestInvokePureComponentSkipsRerunUntilInputsChange(t *testing.T) {
	g := datagraph.NewGraph()
	root := &component.Container{}
	calls := 0

	run := func() int {
		tr := datagraph.NewTraversal(g.Root, true)
		et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
		ctx := alia.New(tr, et, root)
		return alia.InvokePureComponent(ctx, func(c alia.Context) int {
			calls++
			return 42
		})
	}

	require.Equal(t, 42, run())
	require.Equal(t, 1, calls)
	require.Equal(t, 42, run())
	require.Equal(t, 1, calls, "unchanged pure component must not re-run")
}

func TestInvokePureComponentRerunsWhenContainerDirty(t *testing.T) {
	g := datagraph.NewGraph()
	root := &component.Container{}
	calls := 0

	run := func() {
		tr := datagraph.NewTraversal(g.Root, true)
		et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
		ctx := alia.New(tr, et, root)
		alia.InvokePureComponent(ctx, func(c alia.Context) int {
			calls++
			return 1
		})
	}

	run()
	require.Equal(t, 1, calls)
	component.MarkDirty(root)
	run()
	require.Equal(t, 2, calls)
}

func TestBeginComponentPropagatesDirtyAcrossScopes(t *testing.T) {
	g := datagraph.NewGraph()
	root := &component.Container{}
	tr := datagraph.NewTraversal(g.Root, true)
	et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
	ctx := alia.New(tr, et, root)

	// mimic the root-level scope a real traversal opens before running the
	// controller, so marking a nested component dirty actually propagates
	// up to root.
	rootScope := component.Begin(et, root)

	inner, scope := alia.BeginComponent(ctx)
	require.NotNil(t, inner.Container)
	alia.MarkDirty(inner)
	scope.End()
	rootScope.End()

	require.True(t, root.Dirty())
}

func TestGetDataNodeIsStableAcrossRefreshes(t *testing.T) {
	g := datagraph.NewGraph()

	run := func() *datagraph.Persistent[int] {
		tr := datagraph.NewTraversal(g.Root, true)
		et := component.NewEventTraversal(component.Refresh, component.EventRefresh, nil, nil)
		ctx := alia.New(tr, et, &component.Container{})
		n, _ := alia.GetDataNode(ctx, func() int { return 1 })
		return n
	}

	require.Same(t, run(), run())
}

func TestAbortTraversalStopsEventDispatch(t *testing.T) {
	ctx, _, _ := newRootContext()
	ctx.Event.Kind = component.Broadcast

	reachedAfterAbort := false
	require.NotPanics(t, func() {
		component.RunTraversal(ctx.Event, func() {
			alia.AbortTraversal(ctx)
			reachedAfterAbort = true // unreachable: AbortTraversal panics immediately
		})
	})
	require.False(t, reachedAfterAbort)
	require.True(t, ctx.Event.Aborted)
}
