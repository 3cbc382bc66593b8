// Package datagraph implements alia's persistent content graph: the
// identity-preserving store that associates per-call-site state with points
// in a traversal, including named blocks for dynamically-ordered content, a
// two-level (persistent vs. cached) storage model, and traversal-driven
// garbage collection.
//
// Nothing in this package is safe for concurrent use — by design (spec §5),
// all graph access happens on the single traversal-driving goroutine.
package datagraph

// Node is the abstract unit of everything the data graph stores. A node's
// only graph-visible operation is ClearCache, which is a no-op for anything
// that doesn't hold cacheable state.
type Node interface {
	// ClearCache releases any recomputable state the node holds. Persistent
	// nodes ignore this; Cached nodes (and Blocks, which forward to their
	// children) use it to drop state once their subtree goes inactive.
	ClearCache()
}

// Persistent holds a value that is never cleared except when the node
// itself is destroyed (dropped from its owning Block).
type Persistent[T any] struct {
	Value T
}

// ClearCache is a no-op: persistent state survives cache-clearing passes.
func (p *Persistent[T]) ClearCache() {}

// Cached holds an optional value that is cleared whenever its subtree is
// skipped by a refresh traversal (unless cache-clearing is disabled in that
// scope — see Traversal.DisableCacheClear).
type Cached[T any] struct {
	value *T
}

// ClearCache drops the cached value, if any.
func (c *Cached[T]) ClearCache() { c.value = nil }

// Get returns the cached value and whether one is present.
func (c *Cached[T]) Get() (T, bool) {
	if c.value == nil {
		var zero T
		return zero, false
	}
	return *c.value, true
}

// Set stores v as the cached value.
func (c *Cached[T]) Set(v T) { c.value = &v }
