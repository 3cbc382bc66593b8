package timing

import (
	"container/heap"

	"github.com/aliago/alia/id"
)

// request is one scheduled unit: deliver to target at or after trigger,
// unless it's removed first. frameIssued records which Issue pass created
// or last rescheduled it, so a request delivered during pass N can't be
// re-delivered within that same pass (e.g. if its own callback reschedules
// it for a tick already <= now).
type request struct {
	target      id.ID
	trigger     Tick
	frameIssued int
	index       int
}

// Scheduler is the heap-based timer/async request queue, grounded in the
// same container/heap pattern a process-restart scheduler would use for
// its own min-heap of next-restart times.
type Scheduler struct {
	h     requestHeap
	frame int
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.h)
	return s
}

// Len reports how many requests are currently pending, for devtools
// introspection and metrics.
func (s *Scheduler) Len() int { return len(s.h) }

// Schedule requests delivery to target at or after trigger. Scheduling the
// same target again before it fires replaces the pending request (fresh
// request overrides stale, matching the "fresh boot overrides stale"
// dedup rule a restart scheduler applies to its own queue).
func (s *Scheduler) Schedule(target id.ID, trigger Tick) {
	for i, r := range s.h {
		if id.Equal(r.target, target) {
			heap.Remove(&s.h, i)
			break
		}
	}
	heap.Push(&s.h, &request{target: target, trigger: trigger, frameIssued: s.frame})
}

// Remove cancels any pending request for target.
func (s *Scheduler) Remove(target id.ID) {
	for i, r := range s.h {
		if id.Equal(r.target, target) {
			heap.Remove(&s.h, i)
			return
		}
	}
}

// Pending reports whether target currently has a request in the queue.
func (s *Scheduler) Pending(target id.ID) (trigger Tick, ok bool) {
	for _, r := range s.h {
		if id.Equal(r.target, target) {
			return r.trigger, true
		}
	}
	return 0, false
}

// Issue runs one delivery pass at the given tick: it increments the frame
// counter, then repeatedly pops the minimum-trigger request that is due
// (trigger at-or-before now), invoking deliver for each. A request that was
// (re)scheduled during this same pass — most commonly by deliver itself,
// reaching back into the scheduler from inside a callback — is set aside
// rather than delivered, so it can't re-deliver itself within one frame,
// but it does not stop the scan: due, untouched requests further down the
// heap still drain in trigger order. Set-aside requests are pushed back
// once the pass is otherwise exhausted, to be issued again on the next
// Issue call.
func (s *Scheduler) Issue(now Tick, deliver func(target id.ID, trigger Tick)) {
	s.frame++
	var stashed []*request
	for len(s.h) > 0 {
		top := s.h[0]
		if !AtOrAfter(now, top.trigger) {
			break
		}
		heap.Pop(&s.h)
		if top.frameIssued >= s.frame {
			stashed = append(stashed, top)
			continue
		}
		deliver(top.target, top.trigger)
	}
	for _, r := range stashed {
		// A later delivery in this same pass may have called Schedule again
		// for this target; if so that fresh request already sits in the
		// heap and wins, per Schedule's own "fresh overrides stale" rule.
		if _, ok := s.Pending(r.target); ok {
			continue
		}
		heap.Push(&s.h, r)
	}
}

// requestHeap is a min-heap of *request ordered by trigger tick.
type requestHeap []*request

func (h requestHeap) Len() int { return len(h) }
func (h requestHeap) Less(i, j int) bool {
	return Before(h[i].trigger, h[j].trigger)
}
func (h requestHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *requestHeap) Push(x any) {
	r := x.(*request)
	r.index = len(*h)
	*h = append(*h, r)
}
func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	r.index = -1
	*h = old[:n-1]
	return r
}
