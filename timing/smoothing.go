package timing

import (
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/signal"
)

// Curve is an easing function over the unit interval: Eval(0) should be 0
// and Eval(1) should be 1, with whatever shape in between the animation
// calls for.
type Curve interface {
	Eval(t float64) float64
}

// LinearCurve is the identity curve.
type LinearCurve struct{}

func (LinearCurve) Eval(t float64) float64 { return t }

// EaseInOutCurve is a cubic ease-in-out: slow at both ends, fast through
// the middle.
type EaseInOutCurve struct{}

func (EaseInOutCurve) Eval(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := (2*t - 2)
	return 0.5*f*f*f + 1
}

// Transition describes how a smoothed value should move between its old
// and new targets.
type Transition struct {
	Curve      Curve
	DurationMS int
}

// DefaultTransition is a 200ms ease-in-out, a reasonable default for UI
// value transitions.
func DefaultTransition() Transition {
	return Transition{Curve: EaseInOutCurve{}, DurationMS: 200}
}

// Lerp interpolates between a and b by frac in [0,1]. Supplied by callers
// since T's interpolation isn't expressible generically over arbitrary
// types.
type Lerp[T any] func(a, b T, frac float64) T

// smootherState is the persistent payload behind ValueSmoother.
type smootherState[T any] struct {
	old, new_   T
	startTick   Tick
	duration    Tick
	curve       Curve
	initialized bool
}

// ValueSmoother interpolates between an old and new value along a curve
// over a duration, re-pinned every time Reset is called with a changed
// target.
type ValueSmoother[T any] struct {
	node *datagraph.Persistent[smootherState[T]]
	lerp Lerp[T]
}

// GetValueSmoother returns the persistent smoother state for the current
// call site.
func GetValueSmoother[T any](tr *datagraph.Traversal, lerp Lerp[T]) *ValueSmoother[T] {
	node, _ := datagraph.GetPersistentNode(tr, func() smootherState[T] { return smootherState[T]{} })
	return &ValueSmoother[T]{node: node, lerp: lerp}
}

// Reset re-pins the smoother: on the first call it settles on target at
// once, with no animation; afterwards, if target differs from the
// smoother's current resting value, it starts animating from the
// smoother's current interpolated value toward target.
func (v *ValueSmoother[T]) Reset(now Tick, target T, transition Transition, equal func(T, T) bool) {
	st := v.node.Value
	if !st.initialized {
		v.node.Value = smootherState[T]{old: target, new_: target, startTick: now, duration: 0, curve: transition.Curve, initialized: true}
		return
	}
	if equal(st.new_, target) {
		return
	}
	current := v.valueAt(now)
	v.node.Value = smootherState[T]{
		old:         current,
		new_:        target,
		startTick:   now,
		duration:    Tick(transition.DurationMS),
		curve:       transition.Curve,
		initialized: true,
	}
}

func (v *ValueSmoother[T]) valueAt(now Tick) T {
	st := v.node.Value
	if st.duration == 0 {
		return st.new_
	}
	elapsed := int32(now - st.startTick)
	if elapsed <= 0 {
		return st.old
	}
	if Tick(elapsed) >= st.duration {
		return st.new_
	}
	frac := float64(elapsed) / float64(st.duration)
	if st.curve != nil {
		frac = st.curve.Eval(frac)
	}
	return v.lerp(st.old, st.new_, frac)
}

// Value returns the interpolated value at now.
func (v *ValueSmoother[T]) Value(now Tick) T { return v.valueAt(now) }

// IsAnimating reports whether the smoother has not yet reached its target.
func (v *ValueSmoother[T]) IsAnimating(now Tick) bool {
	st := v.node.Value
	return st.duration != 0 && Tick(int32(now-st.startTick)) < st.duration
}

// Smooth wraps s so reads return the smoother's interpolated value while
// writes pass through to s and re-pin the smoother toward the written
// value. The smoothed signal's value id changes every observed tick the
// interpolated value differs from last time (tracked via a write
// counter), matching spec §8 scenario 6.
func Smooth[T comparable](
	tr *datagraph.Traversal,
	ticks TickSource,
	refresher RefreshRequester,
	s signal.Signal[T],
	transition Transition,
	lerp Lerp[T],
) signal.Signal[T] {
	sm := GetValueSmoother(tr, lerp)
	genNode, _ := datagraph.GetPersistentNode(tr, func() int { return 0 })
	lastNode, _ := datagraph.GetCachedNode[T](tr)

	equal := func(a, b T) bool { return a == b }
	sync := func() T {
		if s.HasValue() {
			now := ticks.Tick()
			sm.Reset(now, s.Read(), transition, equal)
			v := sm.Value(now)
			if sm.IsAnimating(now) {
				refresher.RequestAnimationRefresh()
			}
			if last, ok := lastNode.Get(); !ok || last != v {
				genNode.Value++
				lastNode.Set(v)
			}
			return v
		}
		return sm.Value(ticks.Tick())
	}

	return signalFuncs[T]{
		has: func() bool { return s.HasValue() },
		get: sync,
		rdy: s.ReadyToWrite,
		set: func(v T) error {
			if err := s.Write(v); err != nil {
				return err
			}
			sm.Reset(ticks.Tick(), v, transition, equal)
			return nil
		},
		vid: func() id.ID { return id.Of(genNode.Value) },
	}
}

// signalFuncs is a lightweight, locally-defined Signal[T] adapter with the
// same Readable/Writable capability as signal.LambdaDuplex but no
// invalidation bookkeeping: Invalidate always declines and Clear does
// nothing.
type signalFuncs[T any] struct {
	has func() bool
	get func() T
	rdy func() bool
	set func(T) error
	vid func() id.ID
}

func (s signalFuncs[T]) Caps() signal.Caps       { return signal.Caps{Read: signal.Readable, Write: signal.Writable} }
func (s signalFuncs[T]) HasValue() bool          { return s.has() }
func (s signalFuncs[T]) Read() T                 { return s.get() }
func (s signalFuncs[T]) MoveOut() T              { return s.get() }
func (s signalFuncs[T]) DestructiveRef() *T      { v := s.get(); return &v }
func (s signalFuncs[T]) ValueID() id.ID          { return s.vid() }
func (s signalFuncs[T]) ReadyToWrite() bool      { return s.rdy() }
func (s signalFuncs[T]) Write(v T) error         { return s.set(v) }
func (s signalFuncs[T]) Clear() error            { return nil }
func (s signalFuncs[T]) Invalidate(error) bool   { return false }
func (s signalFuncs[T]) IsInvalidated() bool     { return false }
