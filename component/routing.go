package component

// Kind distinguishes the three dispatch shapes spec §4.6 names.
type Kind int

const (
	// Refresh visits every container; it's the only kind that drives the
	// data graph's GC and cache-clearing (see datagraph.Traversal.Refresh).
	Refresh Kind = iota
	// Broadcast visits every container, same coverage as Refresh, for a
	// non-refresh event (e.g. a theme-change notification).
	Broadcast
	// Targeted visits only the containers on the routing path from root to
	// a specific target container.
	Targeted
)

// EventTraversal is the per-dispatch routing state threaded through the
// controller: which container is active, the targeted routing path (if
// any), the event's type and payload, and whether Abort was called.
type EventTraversal struct {
	Kind Kind
	// Active is the currently active container (top of the Begin/End
	// stack).
	Active *Container

	// EventType names the event kind being dispatched (e.g. "refresh",
	// "timer", "pointer_down"); see event type constants in events.go.
	EventType string
	// Event is the event's payload, typed per EventType.
	Event any

	// Aborted is set once Abort has been called during this dispatch.
	Aborted bool

	path     []*Container // root..target inclusive, only set for Targeted
	routeIdx int
}

// NewEventTraversal creates the routing state for one dispatch. For a
// Targeted dispatch, path must be root-to-target inclusive (see
// BuildRoutingPath).
func NewEventTraversal(kind Kind, eventType string, event any, path []*Container) *EventTraversal {
	return &EventTraversal{Kind: kind, EventType: eventType, Event: event, path: path}
}

// BuildRoutingPath walks target's parent chain up to the root and returns
// it root-first, inclusive of target. Call this before dispatch, while
// target's parent pointers from the previous refresh are still valid.
func BuildRoutingPath(target *Container) []*Container {
	var path []*Container
	for c := target; c != nil; c = c.parent {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// consumeRoute reports whether c is the next node on the routing path,
// advancing the cursor if so. Non-targeted dispatch is never pruned.
func (et *EventTraversal) consumeRoute(c *Container) bool {
	if et.Kind != Targeted {
		return true
	}
	if et.routeIdx >= len(et.path) {
		return false
	}
	if et.path[et.routeIdx] == c {
		et.routeIdx++
		return true
	}
	return false
}

// Abort signals that the current targeted (non-refresh) dispatch should
// stop processing further content. It unwinds the Go call stack via panic,
// caught by RunTraversal at the dispatch boundary — the equivalent of the
// C++ implementation's throw/catch, since Go has no other short-circuit
// that threads back through arbitrarily nested combinators.
func (et *EventTraversal) Abort() {
	et.Aborted = true
	panic(abortSignal{})
}

type abortSignal struct{}

// RunTraversal executes fn as one dispatch pass, recovering Abort's control
// transfer. Any other panic propagates to the caller (system.DispatchEvent
// routes it through IsolateErrors); because Go's defer/recover unwinds the
// stack the same way C++ exception unwinding does, the routing path slice
// above needs no explicit teardown on that path — it's simply dropped with
// the stack frames that referenced it.
func RunTraversal(et *EventTraversal, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortSignal); ok {
				return
			}
			panic(r)
		}
	}()
	fn()
}
