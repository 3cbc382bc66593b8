package component

// FocusQuery implements the successor/predecessor search protocol used to
// move focus to the next or previous focusable container in traversal
// order, without either side needing a full list of focusable containers.
//
// The query carries the currently focused container (nil if none) and
// accumulates candidates as components are traversed in order: each
// focusable component calls Offer with itself. Forward queries keep the
// first offer seen after the current container; backward queries keep the
// last offer seen before it, falling back to wrap-around once the whole
// pass completes.
type FocusQuery struct {
	backward bool
	current  *Container

	passedCurrent bool
	found         *Container // best candidate so far
	first         *Container // first offer overall, for wrap-around
	last          *Container // last offer overall, for wrap-around
}

// NewFocusQuery starts a search for the next (backward=false) or previous
// (backward=true) focusable container relative to current. current may be
// nil, meaning "no container focused yet": a forward query then returns
// the first offer and a backward query the last.
func NewFocusQuery(current *Container, backward bool) *FocusQuery {
	return &FocusQuery{current: current, backward: backward}
}

// Offer registers c as a focusable candidate encountered during the
// traversal, in traversal order. Call it once per focusable component.
func (q *FocusQuery) Offer(c *Container) {
	if q.first == nil {
		q.first = c
	}
	q.last = c

	if c == q.current {
		q.passedCurrent = true
		return
	}

	if q.backward {
		if !q.passedCurrent {
			q.found = c // keep overwriting; last one before current wins
		}
		return
	}

	if q.passedCurrent && q.found == nil {
		q.found = c
	}
}

// Result returns the container focus should move to, once every focusable
// component has called Offer for this pass. It wraps around (first offer
// for forward queries once the end is reached with nothing found after
// current, last offer for backward queries) so focus cycles rather than
// getting stuck at an edge.
func (q *FocusQuery) Result() *Container {
	if q.found != nil {
		return q.found
	}
	if q.backward {
		return q.last
	}
	return q.first
}
