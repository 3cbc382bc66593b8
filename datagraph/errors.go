package datagraph

import "errors"

// ErrOrderingViolation is returned when a named-block lookup observes a
// sequence that the runtime cannot reconcile with what it already committed
// to: either a non-refresh pass diverging from the last refresh's order, or
// a refresh pass diverging while GC is disabled for its naming context.
var ErrOrderingViolation = errors.New("datagraph: named block out of order")
