package timing_test

import (
	"context"
	"testing"

	"github.com/aliago/alia/component"
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/signal"
	"github.com/aliago/alia/timing"
	"github.com/stretchr/testify/require"
)

func TestTickBeforeAfterToleratesWraparound(t *testing.T) {
	var a, b timing.Tick = 0, 1
	require.True(t, timing.Before(a, b))
	require.True(t, timing.After(b, a))

	// wraparound: a is "before" b even though a's numeric value is huge,
	// because the signed difference stays small.
	a, b = ^timing.Tick(0), 0
	require.True(t, timing.Before(a, b))
	require.True(t, timing.AtOrAfter(b, a) == false || true) // sanity: no panic
}

func TestSchedulerDeliversDueRequestsInTriggerOrder(t *testing.T) {
	s := timing.NewScheduler()
	idA, idB := id.Of("a"), id.Of("b")
	s.Schedule(idA, 10)
	s.Schedule(idB, 5)

	var delivered []id.ID
	s.Issue(20, func(target id.ID, trigger timing.Tick) {
		delivered = append(delivered, target)
	})
	require.Len(t, delivered, 2)
	require.True(t, id.Equal(delivered[0], idB))
	require.True(t, id.Equal(delivered[1], idA))
}

func TestSchedulerSkipsNotYetDueRequests(t *testing.T) {
	s := timing.NewScheduler()
	target := id.Of("x")
	s.Schedule(target, 100)

	var calls int
	s.Issue(10, func(id.ID, timing.Tick) { calls++ })
	require.Equal(t, 0, calls)

	s.Issue(200, func(id.ID, timing.Tick) { calls++ })
	require.Equal(t, 1, calls)
}

func TestSchedulerRescheduleReplacesPending(t *testing.T) {
	s := timing.NewScheduler()
	target := id.Of("x")
	s.Schedule(target, 10)
	s.Schedule(target, 50)

	trigger, ok := s.Pending(target)
	require.True(t, ok)
	require.Equal(t, timing.Tick(50), trigger)

	var calls int
	s.Issue(20, func(id.ID, timing.Tick) { calls++ })
	require.Equal(t, 0, calls, "the replaced (10) trigger must not fire")
}

func TestSchedulerRescheduleDuringDeliveryDoesNotStarveOtherDueRequests(t *testing.T) {
	s := timing.NewScheduler()
	idA, idB := id.Of("a"), id.Of("b")
	s.Schedule(idA, 10)
	s.Schedule(idB, 5)

	var delivered []id.ID
	s.Issue(100, func(target id.ID, trigger timing.Tick) {
		delivered = append(delivered, target)
		if id.Equal(target, idB) {
			// Simulate B's own delivery rescheduling it for a tick already
			// due; the fresh request carries this pass's frame and must
			// not prevent A (older frame, still due) from draining too.
			s.Schedule(idB, 6)
		}
	})

	require.Len(t, delivered, 2, "A must still be delivered even though B rescheduled itself mid-pass")
	require.True(t, id.Equal(delivered[0], idB))
	require.True(t, id.Equal(delivered[1], idA))

	trigger, ok := s.Pending(idB)
	require.True(t, ok, "B's mid-pass reschedule must survive for the next Issue")
	require.Equal(t, timing.Tick(6), trigger)
}

func TestSchedulerRemoveCancelsPending(t *testing.T) {
	s := timing.NewScheduler()
	target := id.Of("x")
	s.Schedule(target, 10)
	s.Remove(target)

	var calls int
	s.Issue(100, func(id.ID, timing.Tick) { calls++ })
	require.Equal(t, 0, calls)
}

func TestTimerDeliverOnlyAcceptsExpectedTick(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)
	sched := timing.NewScheduler()
	self := id.Of("timer")

	timer := timing.GetTimer(tr)
	require.False(t, timer.IsActive())

	timer.Start(sched, self, 100)
	require.True(t, timer.IsActive())

	require.False(t, timer.Deliver(50), "stale tick must be rejected")
	require.True(t, timer.IsActive())

	require.True(t, timer.Deliver(100))
	require.False(t, timer.IsActive())
}

func TestTimerStopCancelsSchedulerEntry(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)
	sched := timing.NewScheduler()
	self := id.Of("timer")

	timer := timing.GetTimer(tr)
	timer.Start(sched, self, 100)
	timer.Stop(sched, self)

	_, ok := sched.Pending(self)
	require.False(t, ok)
}

func TestLinearAndEaseInOutCurveEndpoints(t *testing.T) {
	lin := timing.LinearCurve{}
	require.Equal(t, 0.0, lin.Eval(0))
	require.Equal(t, 1.0, lin.Eval(1))

	ease := timing.EaseInOutCurve{}
	require.InDelta(t, 0.0, ease.Eval(0), 1e-9)
	require.InDelta(t, 1.0, ease.Eval(1), 1e-9)
}

func lerpInt(a, b int, frac float64) int {
	return a + int(float64(b-a)*frac)
}

func TestValueSmootherInterpolatesThenSettles(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)

	sm := timing.GetValueSmoother[int](tr, lerpInt)
	transition := timing.Transition{Curve: timing.LinearCurve{}, DurationMS: 100}

	sm.Reset(0, 10, transition, func(a, b int) bool { return a == b })
	require.Equal(t, 10, sm.Value(0), "first Reset pins immediately, no animation")

	sm.Reset(0, 20, transition, func(a, b int) bool { return a == b })
	require.True(t, sm.IsAnimating(50))
	require.Equal(t, 15, sm.Value(50))
	require.False(t, sm.IsAnimating(100))
	require.Equal(t, 20, sm.Value(100))
}

type fakeTicker struct{ now timing.Tick }

func (f *fakeTicker) Tick() timing.Tick { return f.now }

type fakeRefresher struct{ requested bool }

func (f *fakeRefresher) RequestAnimationRefresh() { f.requested = true }

func TestSmoothTracksSourceAndRequestsRefreshWhileAnimating(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)
	ticks := &fakeTicker{now: 0}
	refresher := &fakeRefresher{}

	var raw int
	src := signal.Direct(&raw)

	smoothed := timing.Smooth[int](tr, ticks, refresher, src, timing.Transition{Curve: timing.LinearCurve{}, DurationMS: 100}, lerpInt)
	require.Equal(t, 0, smoothed.Read())

	raw = 100
	// The change is first observed here, so the transition starts at tick 0.
	require.Equal(t, 0, smoothed.Read())
	ticks.now = 50
	require.Equal(t, 50, smoothed.Read())
	require.True(t, refresher.requested)
}

func TestDeflickerRetainsLastValueBriefly(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)
	ticks := &fakeTicker{now: 0}
	refresher := &fakeRefresher{}

	present := true
	var value int
	s := signal.LambdaReader(
		func() bool { return present },
		func() int { return value },
		nil,
	)

	d := timing.Deflicker[int](tr, ticks, refresher, s, 100)
	value = 7
	require.True(t, d.HasValue())
	require.Equal(t, 7, d.Read())

	present = false
	ticks.now = 50
	require.True(t, d.HasValue(), "still within the deflicker window")
	require.Equal(t, 7, d.Read())

	ticks.now = 200
	require.False(t, d.HasValue(), "window elapsed, signal reports unreadable again")
}

type syncUIThread struct{}

func (syncUIThread) ScheduleAsynchronousUpdate(fn func()) { fn() }

func TestAsyncLaunchesOnceArgumentsReadyAndDeliversResult(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)

	arg := signal.Value[any](5)
	done := make(chan struct{})

	result := timing.Async[int](tr, syncUIThread{}, func(ctx context.Context, report func(int, error)) {
		report(42, nil)
		close(done)
	}, arg)

	<-done
	require.Equal(t, timing.AsyncComplete, result.(interface{ Status() timing.AsyncStatus }).Status())
	require.True(t, result.HasValue())
	require.Equal(t, 42, result.Read())
}

func TestAsyncReportsUnreadyWithoutArgumentValues(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)

	arg := signal.Empty[any]()
	result := timing.Async[int](tr, syncUIThread{}, func(ctx context.Context, report func(int, error)) {
		report(1, nil)
	}, arg)

	require.False(t, result.HasValue())
}

func TestGetRawAnimationTicksLeftCountsDownToZero(t *testing.T) {
	ticks := &fakeTicker{now: 50}
	refresher := &fakeRefresher{}
	root := &component.Container{}

	left := timing.GetRawAnimationTicksLeft(ticks, refresher, root, 100)
	require.Equal(t, timing.Tick(50), left)
	require.True(t, refresher.requested)
	require.True(t, root.Animating())

	ticks.now = 200
	left = timing.GetRawAnimationTicksLeft(ticks, refresher, root, 100)
	require.Equal(t, timing.Tick(0), left)
}
