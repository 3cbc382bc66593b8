package timing

import (
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
)

// timerState is the persistent payload behind Timer: whether a request is
// outstanding and the tick it's expected to arrive at.
type timerState struct {
	active   bool
	expected Tick
}

// Timer is the refresh-driven active/expected-trigger-time wrapper spec
// §4.8 describes: a component schedules it once, then each timer_event
// delivered to that component calls Deliver to check whether the event is
// the one it's still waiting for (stale events, whose trigger time no
// longer matches, are filtered out here rather than at the scheduler).
type Timer struct {
	node *datagraph.Persistent[timerState]
}

// GetTimer returns the persistent timer state for the current call site,
// creating it inactive on first visit.
func GetTimer(tr *datagraph.Traversal) *Timer {
	node, _ := datagraph.GetPersistentNode(tr, func() timerState { return timerState{} })
	return &Timer{node: node}
}

// IsActive reports whether a request is currently outstanding.
func (t *Timer) IsActive() bool { return t.node.Value.active }

// Start schedules self to fire at trigger and remembers that tick as
// expected.
func (t *Timer) Start(sched *Scheduler, self id.ID, trigger Tick) {
	t.node.Value.active = true
	t.node.Value.expected = trigger
	sched.Schedule(self, trigger)
}

// Stop cancels any outstanding request.
func (t *Timer) Stop(sched *Scheduler, self id.ID) {
	t.node.Value.active = false
	sched.Remove(self)
}

// Deliver reports whether a timer_event carrying eventTick is the request
// this timer is actually waiting for (and, if so, clears the active bit —
// the request fired exactly once). Returns false for a stale event whose
// tick doesn't match what was last scheduled.
func (t *Timer) Deliver(eventTick Tick) bool {
	if !t.node.Value.active || eventTick != t.node.Value.expected {
		return false
	}
	t.node.Value.active = false
	return true
}
