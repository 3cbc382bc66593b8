// Package component implements alia's component tree and event routing: the
// per-traversal tree of containers built incrementally as the controller
// runs, dirty/animating invalidation bits, and targeted/broadcast event
// dispatch that prunes the traversal to a target path.
package component

// Container is one node in the routing tree. It holds its parent pointer
// (containers outlive their children only within a single frame, so an
// ordinary pointer is enough — there is no cross-frame ownership to manage)
// plus the dirty/animating invalidation bits spec §4.6 describes.
//
// Containers are normally allocated once per call site via a persistent
// data node (see the alia package's component-scope combinators), so the
// same *Container survives across refreshes the same way any other
// persistent node does.
type Container struct {
	parent    *Container
	dirty     bool
	animating bool
}

// Parent returns the container's parent, or nil at the root.
func (c *Container) Parent() *Container { return c.parent }

// Dirty reports the container's current dirty bit (true once something
// under it has been marked dirty since the bit was last cleared by Begin).
func (c *Container) Dirty() bool { return c.dirty }

// Animating reports the container's current animating bit.
func (c *Container) Animating() bool { return c.animating }

// MarkDirty sets c's dirty bit and propagates it to every ancestor that
// wasn't already dirty. Propagation stops as soon as it reaches an already
// dirty ancestor, since that ancestor (and everything above it) must
// already be marked.
func MarkDirty(c *Container) {
	for ; c != nil && !c.dirty; c = c.parent {
		c.dirty = true
	}
}

// MarkAnimating is MarkDirty's twin for the animating bit.
func MarkAnimating(c *Container) {
	for ; c != nil && !c.animating; c = c.parent {
		c.animating = true
	}
}

// Scope is the RAII-style record returned by Begin; call End (typically via
// defer) to restore the previous active container.
type Scope struct {
	et          *EventTraversal
	container   *Container
	savedActive *Container

	onRoute      bool
	wasDirty     bool
	wasAnimating bool
}

// Begin links container into the tree under the traversal's current active
// container, pushes it as active, captures and clears its dirty/animating
// bits, and computes whether it's on the routing path for a targeted event.
// container is normally a pointer obtained from a persistent data node at
// this call site (stable across refreshes); the zero value is a valid fresh
// container.
func Begin(et *EventTraversal, container *Container) *Scope {
	container.parent = et.Active
	s := &Scope{
		et:           et,
		container:    container,
		savedActive:  et.Active,
		wasDirty:     container.dirty,
		wasAnimating: container.animating,
	}
	container.dirty = false
	container.animating = false

	et.Active = container
	s.onRoute = et.consumeRoute(container)
	return s
}

// Container returns the container this scope wraps.
func (s *Scope) Container() *Container { return s.container }

// IsOnRoute reports whether this container is on the routing path for the
// current targeted event (always true for refresh/broadcast dispatch).
func (s *Scope) IsOnRoute() bool { return s.onRoute }

// IsDirty reports the dirty bit as captured at Begin, before it was
// cleared — this is what content functions should check to decide whether
// they need to re-run.
func (s *Scope) IsDirty() bool { return s.wasDirty }

// IsAnimating reports the animating bit as captured at Begin.
func (s *Scope) IsAnimating() bool { return s.wasAnimating }

// End restores the previously active container.
func (s *Scope) End() {
	s.et.Active = s.savedActive
}
