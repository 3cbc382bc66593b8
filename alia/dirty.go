package alia

import "github.com/aliago/alia/component"

// MarkDirty marks ctx's current container (and its ancestors) dirty,
// scheduling another refresh pass.
func MarkDirty(ctx Context) {
	if ctx.Container != nil {
		component.MarkDirty(ctx.Container)
	}
}

// MarkAnimating marks ctx's current container (and its ancestors)
// animating.
func MarkAnimating(ctx Context) {
	if ctx.Container != nil {
		component.MarkAnimating(ctx.Container)
	}
}

// AbortTraversal short-circuits the current non-refresh event dispatch,
// per spec §5's "abort_traversal(ctx) from a non-refresh event handler".
func AbortTraversal(ctx Context) {
	ctx.Event.Abort()
}
