// Package action implements alia's deferred-effect algebra: actions with a
// readiness predicate and a two-phase latch-then-perform contract, plus the
// standard combinators (Then, BindSignal, Copy, Callback, Mask,
// OnlyIfReady) and domain-specific helpers built on top of signal.Signal.
package action

// Action is a value representing a deferred effect. Composite actions
// (Then) rely on the two-phase contract: perform first reads whatever
// inputs it needs, then calls latch (the "intermediary" from spec §4.4),
// and only after latch returns does it apply its own side effect. This
// lets a chain of N actions read all N sets of inputs before any of them
// mutates state.
type Action interface {
	// IsReady reports whether Perform would currently do anything other
	// than call latch.
	IsReady() bool
	// Perform reads this action's inputs, calls latch (exactly once),
	// then applies the effect. latch must never be nil; callers that
	// don't need the two-phase protocol pass a no-op.
	Perform(latch func()) error
}

// noop is the latch used by top-level callers that don't compose actions.
func noop() {}

// Perform is the top-level call for running a single action: it checks
// IsReady first (§4.4: "perform_action ... gates on is_ready") and uses a
// no-op intermediary.
func Perform(a Action) error {
	if !a.IsReady() {
		return nil
	}
	return a.Perform(noop)
}
