// Package system implements alia's top-level loop: refresh until clean,
// dispatch external events, own the data graph, and route the traversal's
// panics to the installed error handler.
package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliago/alia/alia"
	"github.com/aliago/alia/component"
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/timing"
)

// ExternalInterface is the host-provided collaborator spec §6 describes:
// monotonic ticks, an animation-refresh hint, timer scheduling, and
// cross-thread UI closure scheduling.
type ExternalInterface interface {
	timing.TickSource
	timing.RefreshRequester
	timing.UIThreadScheduler
	ScheduleTimerEvent(targetContainer *component.Container, triggerTick timing.Tick)
}

// Options configures a System, following the teacher's Options-struct
// idiom (a plain struct of defaults, not functional options).
type Options struct {
	// RefreshBound caps the number of refresh passes refresh_system will
	// run in one call before giving up on stabilizing, catching cycles.
	// Spec §4.9 calls 64 a heuristic default; treat it as configurable.
	RefreshBound int
	Log          *zap.Logger
}

// DefaultOptions returns the spec's documented defaults.
func DefaultOptions() Options {
	return Options{RefreshBound: 64, Log: zap.NewNop()}
}

// System owns the data graph, the root component container, the
// controller function, and the external interface, and runs the
// refresh/dispatch loop over them.
type System struct {
	opts    Options
	graph   *datagraph.Graph
	root    *component.Container
	sched   *timing.Scheduler
	ext     ExternalInterface
	errHand func(error)

	controller func(alia.Context)

	refreshCount int
}

// New creates a system around controller, which is re-invoked on every
// refresh and targeted dispatch.
func New(controller func(alia.Context), ext ExternalInterface, opts Options) *System {
	if opts.RefreshBound <= 0 {
		opts.RefreshBound = 64
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &System{
		opts:       opts,
		graph:      datagraph.NewGraph(),
		root:       &component.Container{},
		sched:      timing.NewScheduler(),
		ext:        ext,
		controller: controller,
	}
}

// SetErrorHandler installs the handler isolate_errors routes panics to.
func (s *System) SetErrorHandler(h func(error)) { s.errHand = h }

// RefreshCount reports how many refresh passes have run, for
// instrumentation.
func (s *System) RefreshCount() int { return s.refreshCount }

// runPass runs one traversal (refresh or targeted) over the graph. It opens
// a component.Begin/End scope on the root container itself, the same as
// every other call site's container: without that, root's dirty bit, once
// set by a MarkDirty anywhere under it, would never clear, and
// RefreshSystem would never see a clean pass again.
func (s *System) runPass(kind component.Kind, eventType string, event any, path []*component.Container) {
	et := component.NewEventTraversal(kind, eventType, event, path)
	tr := datagraph.NewTraversal(s.graph.Root, kind == component.Refresh)
	ctx := alia.New(tr, et, s.root)
	ctx.Ticks = s.ext
	ctx.Refresh = s.ext
	ctx.Sched = s.sched
	ctx.UIThread = s.ext

	component.RunTraversal(et, func() {
		scope := component.Begin(et, s.root)
		s.controller(ctx)
		scope.End()
	})
}

// RefreshSystem runs refresh passes until the root container's dirty bit
// clears or RefreshBound passes have run, per spec §4.9.
func (s *System) RefreshSystem() {
	for i := 0; i < s.opts.RefreshBound; i++ {
		s.refreshCount++
		s.runPass(component.Refresh, component.EventRefresh, nil, nil)
		if !s.root.Dirty() {
			return
		}
	}
	s.opts.Log.Warn("refresh did not stabilize within bound",
		zap.Int("refresh_bound", s.opts.RefreshBound))
}

// DispatchEvent runs a one-shot, targeted or broadcast, event against
// target, then refreshes the system — matching spec §4.9's "runs the
// user's one-shot event then a refresh".
func (s *System) DispatchEvent(eventType string, event any, target *component.Container) {
	var kind component.Kind
	var path []*component.Container
	if target != nil {
		kind = component.Targeted
		path = component.BuildRoutingPath(target)
	} else {
		kind = component.Broadcast
	}
	s.IsolateErrors(func() error {
		s.runPass(kind, eventType, event, path)
		return nil
	})
	s.RefreshSystem()
}

// IsolateErrors calls fn and routes any panic to the installed error
// handler instead of letting it unwind past this call, per spec §4.9.
func (s *System) IsolateErrors(fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = &panicError{value: r}
			}
			if s.errHand != nil {
				s.errHand(err)
				return
			}
			panic(r)
		}
	}()
	if err := fn(); err != nil && s.errHand != nil {
		s.errHand(err)
	}
}

// Root returns the system's root component container, for building a
// routing path to dispatch a targeted event against one of its
// descendants.
func (s *System) Root() *component.Container { return s.root }

// Graph returns the system's data graph, mainly for devtools
// introspection (datagraph.Graph.Stats).
func (s *System) Graph() *datagraph.Graph { return s.graph }

// Scheduler returns the system's timer/async request scheduler.
func (s *System) Scheduler() *timing.Scheduler { return s.sched }

// Tick runs one scheduler issue pass at the given tick, resolving each due
// request's target id back to a container via resolve and dispatching a
// timer event at it. Containers are looked up by id rather than held
// directly in the scheduler so the scheduler itself stays free of any
// component package dependency beyond what timing already needs.
func (s *System) Tick(now timing.Tick, resolve func(id.ID) *component.Container) {
	s.sched.Issue(now, func(target id.ID, trigger timing.Tick) {
		c := resolve(target)
		if c == nil {
			return
		}
		s.DispatchEvent(component.EventTimer, trigger, c)
	})
}

type panicError struct{ value any }

func (p *panicError) Error() string {
	if err, ok := p.value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("alia: panic recovered: %v", p.value)
}
