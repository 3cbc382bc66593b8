// Package alia is the facade package: it assembles the id, datagraph,
// component, signal, action, and timing packages behind the single
// value-typed Context that a controller function threads through its
// traversal, and provides the control-flow combinators, effect hooks, and
// pure-component memoization built on top of them.
package alia

import (
	"reflect"

	"github.com/aliago/alia/component"
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/timing"
)

// Tag is a typed key into a Context's extension storage. Declare one per
// package-level concern with a distinct zero-sized type, e.g.:
//
//	type myFeatureTag struct{}
//	var MyFeature = alia.NewTag[myFeatureTag, *myFeatureState]()
type Tag[K any, V any] struct{}

// NewTag declares a new tag for storing values of type V.
func NewTag[K any, V any]() Tag[K, V] { return Tag[K, V]{} }

type tagKey any

// Context is the heterogeneous, value-sized bag of subsystem references
// threaded through a controller. The subsystems every traversal needs
// (data traversal, event traversal, component container, timing) are
// stored as direct fields for zero-cost retrieval; anything else goes
// through the generic extension map, folding each extension's value id (if
// it has one) into ContentID — the rolling identity pure-component
// memoization uses.
type Context struct {
	Traversal *datagraph.Traversal
	Event     *component.EventTraversal
	Container *component.Container
	Ticks     timing.TickSource
	Refresh   timing.RefreshRequester
	Sched     *timing.Scheduler
	UIThread  timing.UIThreadScheduler

	ext       map[tagKey]any
	contentID id.ID
}

// New creates a root context for one traversal.
func New(tr *datagraph.Traversal, et *component.EventTraversal, root *component.Container) Context {
	return Context{Traversal: tr, Event: et, Container: root, contentID: id.Unit}
}

// ContentID is the rolling identity used by pure-component memoization: it
// starts at id.Unit and accumulates every Extend call's value id.
func (c Context) ContentID() id.ID { return c.contentID }

// Valuer is implemented by anything Extend should fold into the content
// id; objects that don't implement it are stored without affecting
// ContentID.
type Valuer interface {
	ValueID() id.ID
}

// Extend returns a copy of ctx with v bound to tag. If v implements
// Valuer, its value id is folded into the returned context's ContentID.
func Extend[K, V any](ctx Context, tag Tag[K, V], v V) Context {
	next := ctx
	next.ext = cloneExt(ctx.ext)
	if next.ext == nil {
		next.ext = make(map[tagKey]any, 1)
	}
	next.ext[tagKeyOf(tag)] = v
	if vr, ok := any(v).(Valuer); ok {
		next.contentID = id.Pair{First: ctx.contentID, Second: vr.ValueID()}
	}
	return next
}

// Get retrieves the value bound to tag, if present.
func Get[K, V any](ctx Context, tag Tag[K, V]) (V, bool) {
	v, ok := ctx.ext[tagKeyOf(tag)]
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// MustGet retrieves the value bound to tag, panicking with a descriptive
// message if it's missing — the runtime-checked equivalent of the source's
// compile-time "requesting a missing tag is a compile-time error".
func MustGet[K, V any](ctx Context, tag Tag[K, V]) V {
	v, ok := Get(ctx, tag)
	if !ok {
		panic("alia: context component not found")
	}
	return v
}

// tagKeyOf identifies a Tag by its marker type K alone — K is meant to be
// a distinct zero-sized type per concern, so its reflect.Type is a stable,
// comparable key regardless of V.
func tagKeyOf[K, V any](Tag[K, V]) tagKey {
	return reflect.TypeOf((*K)(nil))
}

func cloneExt(m map[tagKey]any) map[tagKey]any {
	if m == nil {
		return nil
	}
	out := make(map[tagKey]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// WithContainer returns ctx with Container replaced, for use inside a
// component scope.
func (ctx Context) WithContainer(c *component.Container) Context {
	next := ctx
	next.Container = c
	return next
}
