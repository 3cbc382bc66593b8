package timing

import "github.com/aliago/alia/component"

// TickSource is the subset of the host's external interface timing needs
// to read the current monotonic tick count.
type TickSource interface {
	Tick() Tick
}

// RefreshRequester is the subset of the host's external interface used to
// ask for another refresh soon, for animations that need to keep ticking.
type RefreshRequester interface {
	RequestAnimationRefresh()
}

// GetRawAnimationTickCount returns the current tick and marks container
// animating, so the system knows to keep refreshing while this call site
// is reached.
func GetRawAnimationTickCount(ticks TickSource, container *component.Container) Tick {
	component.MarkAnimating(container)
	return ticks.Tick()
}

// GetRawAnimationTicksLeft returns how many ticks remain until end (zero
// once reached), marking container animating and requesting another
// refresh soon while any remain.
func GetRawAnimationTicksLeft(ticks TickSource, refresher RefreshRequester, container *component.Container, end Tick) Tick {
	now := ticks.Tick()
	if AtOrAfter(now, end) {
		return 0
	}
	component.MarkAnimating(container)
	refresher.RequestAnimationRefresh()
	return Tick(int32(end) - int32(now))
}
