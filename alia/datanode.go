package alia

import "github.com/aliago/alia/datagraph"

// GetDataNode is the thin ctx-taking wrapper over
// datagraph.GetPersistentNode that most call sites use instead of reaching
// into ctx.Traversal directly.
func GetDataNode[T any](ctx Context, ctor func() T) (*datagraph.Persistent[T], bool) {
	return datagraph.GetPersistentNode(ctx.Traversal, ctor)
}

// GetCachedDataNode is the ctx-taking wrapper over
// datagraph.GetCachedNode.
func GetCachedDataNode[T any](ctx Context) (*datagraph.Cached[T], bool) {
	return datagraph.GetCachedNode[T](ctx.Traversal)
}
