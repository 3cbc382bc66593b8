package main

import (
	"github.com/aliago/alia/alia"
	"github.com/aliago/alia/signal"
	"github.com/aliago/alia/timing"
)

// demoState is the devtools demo's root-level reactive state: a counter
// bumped by /api/demo/increment and a value the harness smooths toward on
// every refresh, so GET /api/demo/state has something worth watching change.
type demoState struct {
	Counter *signal.State[int]
	Target  *signal.State[int]
	Smooth  signal.Signal[int]
}

var currentDemo *demoState

// demoController is the controller function handed to system.New. It's
// re-run on every refresh and targeted dispatch, exactly the shape spec §9
// describes a host driving: build/read state, derive signals, never hold a
// reference to anything across calls except through the data graph itself.
func demoController(ctx alia.Context) {
	counter, _ := signal.GetState[int](ctx.Traversal, signal.Value(0), func() { alia.MarkDirty(ctx) })
	target, _ := signal.GetState[int](ctx.Traversal, signal.Value(0), func() { alia.MarkDirty(ctx) })

	smoothed := timing.Smooth(ctx.Traversal, ctx.Ticks, ctx.Refresh, target,
		timing.Transition{Curve: timing.EaseInOutCurve{}, DurationMS: 250},
		func(a, b int, frac float64) int { return a + int(float64(b-a)*frac) },
	)

	currentDemo = &demoState{Counter: counter, Target: target, Smooth: smoothed}
}
