package alia

import (
	"github.com/aliago/alia/component"
	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
)

// ContentCachingHook lets an object-tree adaptor splice a previously
// emitted subtree back into place when a pure component's function didn't
// need to re-run, per spec §4.7's "implement_alia_content_caching" fold.
// Adaptors that don't need this return content unchanged.
type ContentCachingHook interface {
	SpliceCachedContent(ctx Context, required bool, content any) any
}

// pureState is the persistent payload behind InvokePureComponent.
type pureState struct {
	contentID id.ID
	failure   any
	hasRun    bool
}

// InvokePureComponent wraps fn(ctx) so it only re-runs when required: the
// container is dirty or animating, or the fold of ctx's ContentID with
// every extra argument's value id has changed since the last run. The
// function runs inside its own content data block (a child of this call
// site's persistent block), and any panic from fn is captured and
// re-raised on every subsequent skipped pass until the inputs change — the
// same "sticky failure" contract Try_ implements for ordinary blocks.
func InvokePureComponent[R any](ctx Context, fn func(Context) R, args ...id.ID) R {
	outer, _ := datagraph.GetPersistentNode(ctx.Traversal, func() pureState { return pureState{} })
	contentBlock, _ := datagraph.GetChildBlock(ctx.Traversal)
	resultNode, _ := datagraph.GetPersistentNode(ctx.Traversal, func() R { var zero R; return zero })

	combined := ctx.ContentID()
	for _, a := range args {
		combined = id.Pair{First: combined, Second: a}
	}

	container := ctx.Container
	required := !outer.Value.hasRun ||
		(container != nil && (container.Dirty() || container.Animating())) ||
		!id.Equal(outer.Value.contentID, combined)

	if !required {
		if outer.Value.failure != nil {
			panic(outer.Value.failure)
		}
		return resultNode.Value
	}

	contentTr := datagraph.NewTraversal(contentBlock, ctx.Traversal.Refresh)
	contentTr.GCEnabled = ctx.Traversal.GCEnabled
	contentCtx := ctx
	contentCtx.Traversal = contentTr

	var result R
	func() {
		defer func() {
			if r := recover(); r != nil {
				outer.Value.failure = r
			}
		}()
		outer.Value.failure = nil
		result = fn(contentCtx)
	}()

	outer.Value.contentID = id.Clone(combined)
	outer.Value.hasRun = true
	resultNode.Value = result

	if outer.Value.failure != nil {
		panic(outer.Value.failure)
	}
	return result
}

// componentContainer lets a call site reuse a dedicated persistent
// component container the same way get_state/for_each reuse a naming map,
// without every caller having to allocate one by hand.
func componentContainer(tr *datagraph.Traversal) *component.Container {
	node, _ := datagraph.GetPersistentNode(tr, func() component.Container { return component.Container{} })
	return &node.Value
}

// BeginComponent opens a component scope at the current call site,
// allocating (or reusing) a persistent Container for it, and returns both
// the updated context (with Container set) and the routing Scope — call
// scope.End() (typically via defer) to close it.
func BeginComponent(ctx Context) (Context, *component.Scope) {
	c := componentContainer(ctx.Traversal)
	scope := component.Begin(ctx.Event, c)
	return ctx.WithContainer(c), scope
}
