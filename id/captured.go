package id

import "reflect"

// Captured is a heap-owned, mutable slot for an ID, suitable for storing
// inside a persistent data node across traversals (an ID value itself may
// borrow from something that doesn't outlive the current traversal; a
// Captured always owns a deep copy).
//
// The underlying C++ library re-captures in place when the incoming id has
// the same concrete type as what's already stored, to avoid a heap
// reallocation. In Go that optimization doesn't apply the same way — the
// garbage collector already amortizes the allocation, and there is no
// in-place "placement new" to exploit — so Capture simply clones and
// assigns. This is a deliberate simplification.
type Captured struct {
	val ID
}

// Capture overwrites the captured id with a deep clone of v, discarding
// anything borrowed by the previous value.
func (c *Captured) Capture(v ID) {
	c.val = Clone(v)
}

// Matches reports whether the captured id is initialized and compares equal
// to v.
func (c *Captured) Matches(v ID) bool {
	return c.val != nil && Equal(c.val, v)
}

// Get returns the captured id, or nil if nothing has been captured yet.
func (c *Captured) Get() ID { return c.val }

// Initialized reports whether Capture has ever been called.
func (c *Captured) Initialized() bool { return c.val != nil }

// SameConcreteType reports whether v has the same concrete type as the
// currently captured id. Exposed for callers that want to mirror the
// underlying library's "recapture in place" fast path explicitly (e.g. to
// skip a validation step when the shape hasn't changed) even though Go's
// Capture doesn't need it for allocation purposes.
func (c *Captured) SameConcreteType(v ID) bool {
	if c.val == nil || v == nil {
		return false
	}
	return reflect.TypeOf(c.val) == reflect.TypeOf(v)
}
