package system_test

import (
	"errors"
	"testing"

	"github.com/aliago/alia/alia"
	"github.com/aliago/alia/component"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/system"
	"github.com/aliago/alia/timing"
	"github.com/stretchr/testify/require"
)

type fakeExternal struct {
	now            timing.Tick
	pendingRefresh bool
}

func (f *fakeExternal) Tick() timing.Tick              { return f.now }
func (f *fakeExternal) RequestAnimationRefresh()        { f.pendingRefresh = true }
func (f *fakeExternal) ScheduleAsynchronousUpdate(fn func()) { fn() }
func (f *fakeExternal) ScheduleTimerEvent(target *component.Container, trigger timing.Tick) {}

func TestRefreshSystemStabilizesWithoutDirtyController(t *testing.T) {
	ext := &fakeExternal{}
	calls := 0
	sys := system.New(func(ctx alia.Context) { calls++ }, ext, system.DefaultOptions())

	sys.RefreshSystem()
	require.Equal(t, 1, calls, "a controller that never marks dirty stabilizes in one pass")
}

func TestRefreshSystemRunsUntilControllerStopsMarkingDirty(t *testing.T) {
	ext := &fakeExternal{}
	remaining := 3
	sys := system.New(func(ctx alia.Context) {
		if remaining > 0 {
			remaining--
			alia.MarkDirty(ctx)
		}
	}, ext, system.DefaultOptions())

	sys.RefreshSystem()
	require.Equal(t, 0, remaining)
	require.True(t, sys.RefreshCount() >= 4, "one pass per decrement plus the final clean pass")
}

func TestRefreshSystemRespectsRefreshBound(t *testing.T) {
	ext := &fakeExternal{}
	opts := system.DefaultOptions()
	opts.RefreshBound = 3
	sys := system.New(func(ctx alia.Context) {
		alia.MarkDirty(ctx) // never stabilizes on its own
	}, ext, opts)

	sys.RefreshSystem()
	require.Equal(t, 3, sys.RefreshCount())
}

func TestDispatchEventRunsOneShotThenRefreshes(t *testing.T) {
	ext := &fakeExternal{}
	var seenEvents []string
	sys := system.New(func(ctx alia.Context) {
		seenEvents = append(seenEvents, ctx.Event.EventType)
	}, ext, system.DefaultOptions())

	sys.DispatchEvent("custom", 42, nil)
	require.Equal(t, []string{"custom", component.EventRefresh}, seenEvents)
}

func TestDispatchEventWithTargetUsesTargetedKind(t *testing.T) {
	ext := &fakeExternal{}
	var kinds []component.Kind
	sys := system.New(func(ctx alia.Context) {
		kinds = append(kinds, ctx.Event.Kind)
	}, ext, system.DefaultOptions())

	sys.DispatchEvent("custom", nil, sys.Root())
	// one Targeted pass for the one-shot event, then Refresh passes until clean.
	require.Equal(t, component.Targeted, kinds[0])
	for _, k := range kinds[1:] {
		require.Equal(t, component.Refresh, k)
	}
}

func TestDispatchEventWithoutTargetUsesBroadcastKind(t *testing.T) {
	ext := &fakeExternal{}
	var kinds []component.Kind
	sys := system.New(func(ctx alia.Context) {
		kinds = append(kinds, ctx.Event.Kind)
	}, ext, system.DefaultOptions())

	sys.DispatchEvent("custom", nil, nil)
	require.Equal(t, component.Broadcast, kinds[0])
}

func TestIsolateErrorsRoutesPanicToHandler(t *testing.T) {
	ext := &fakeExternal{}
	sys := system.New(func(ctx alia.Context) {
		panic(errors.New("boom"))
	}, ext, system.DefaultOptions())

	var handled error
	sys.SetErrorHandler(func(err error) { handled = err })

	require.NotPanics(t, func() {
		sys.IsolateErrors(func() error {
			sys.RefreshSystem()
			return nil
		})
	})
	require.Error(t, handled)
}

func TestIsolateErrorsRepanicsWithoutHandler(t *testing.T) {
	ext := &fakeExternal{}
	sys := system.New(func(ctx alia.Context) {
		panic("boom")
	}, ext, system.DefaultOptions())

	require.Panics(t, func() {
		sys.IsolateErrors(func() error {
			sys.RefreshSystem()
			return nil
		})
	})
}

func TestTickDeliversDueTimerAsTimerEvent(t *testing.T) {
	ext := &fakeExternal{}
	var gotType string
	sys := system.New(func(ctx alia.Context) {
		if ctx.Event.EventType != component.EventRefresh {
			gotType = ctx.Event.EventType
		}
	}, ext, system.DefaultOptions())

	target := id.Of("timer-target")
	sys.Scheduler().Schedule(target, 50)

	sys.Tick(100, func(got id.ID) *component.Container {
		if id.Equal(got, target) {
			return sys.Root()
		}
		return nil
	})

	require.Equal(t, component.EventTimer, gotType)
}

func TestTickDoesNothingWhenResolveReturnsNil(t *testing.T) {
	ext := &fakeExternal{}
	calls := 0
	sys := system.New(func(ctx alia.Context) { calls++ }, ext, system.DefaultOptions())

	target := id.Of("missing")
	sys.Scheduler().Schedule(target, 0)
	sys.Tick(10, func(id.ID) *component.Container { return nil })

	require.Equal(t, 0, calls)
}
