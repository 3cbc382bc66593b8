package system

import (
	"time"

	"github.com/aliago/alia/component"
	"github.com/aliago/alia/timing"
)

// DefaultExternalInterface is the reference ExternalInterface: ticks from
// the steady clock, async updates executed synchronously in place, and
// refresh hints recorded as a pending flag for the host loop to poll via
// PendingAnimationRefresh. ScheduleTimerEvent does nothing: it does not
// forward requests to any Scheduler, so timers fire only when the host
// calls System.Tick itself.
type DefaultExternalInterface struct {
	start time.Time
	sys   *System

	pendingRefresh bool
}

// NewDefaultExternalInterface builds the default host collaborator for
// sys, anchoring its tick count to time.Now at construction.
func NewDefaultExternalInterface(sys *System) *DefaultExternalInterface {
	return &DefaultExternalInterface{start: time.Now(), sys: sys}
}

func (d *DefaultExternalInterface) Tick() timing.Tick {
	return timing.Tick(uint32(time.Since(d.start).Milliseconds()))
}

func (d *DefaultExternalInterface) RequestAnimationRefresh() {
	d.pendingRefresh = true
}

// PendingAnimationRefresh reports (and clears) whether an animation
// refresh was requested since the last check, for a host frame loop to
// poll.
func (d *DefaultExternalInterface) PendingAnimationRefresh() bool {
	v := d.pendingRefresh
	d.pendingRefresh = false
	return v
}

func (d *DefaultExternalInterface) ScheduleAsynchronousUpdate(fn func()) {
	fn()
}

func (d *DefaultExternalInterface) ScheduleTimerEvent(target *component.Container, trigger timing.Tick) {
	// The default host has no independent timer source of its own: it
	// relies on the caller driving System.Tick from its own frame loop,
	// so there's nothing to forward here beyond what Scheduler already
	// tracks.
}
