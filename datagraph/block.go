package datagraph

// Block is an ordered list of data nodes plus a cache-clearing disable
// flag. The list is built lazily: the first traversal to reach a call site
// inside the block appends nodes as it goes, and later traversals walk the
// existing list in order, appending only once the traversal advances past
// the current tail.
//
// A Block may hold child Blocks as nodes (a *Block implements Node), which
// is how nested scopes (if/for bodies, named blocks) are represented in the
// graph.
type Block struct {
	nodes              []Node
	cacheClearDisabled bool
}

// ClearCache recurses into every child node, unless cache-clearing has been
// disabled for this block's scope.
func (b *Block) ClearCache() {
	if b.cacheClearDisabled {
		return
	}
	for _, n := range b.nodes {
		n.ClearCache()
	}
}

// Len reports how many nodes the block currently holds.
func (b *Block) Len() int { return len(b.nodes) }

// destroy drops the block's nodes in reverse of insertion order, matching
// the construction/destruction pairing data nodes are specified to have, and
// returns them so the caller can run teardown (e.g. ClearCache) over each in
// that order. Pass.End calls this for every block a GC pass collects; Go's
// GC still reclaims the memory, but node types with externally visible
// teardown get a deterministic order to rely on.
func (b *Block) destroy() []Node {
	out := make([]Node, len(b.nodes))
	for i, n := range b.nodes {
		out[len(b.nodes)-1-i] = n
	}
	b.nodes = nil
	return out
}
