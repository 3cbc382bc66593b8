package datagraph

import "fmt"

// Traversal holds the per-traversal cursor into the data graph: which block
// is active, where the next node should land, and whether this pass may
// allocate nodes / collect garbage / clear caches.
type Traversal struct {
	block *Block
	index int

	// Refresh is true only for the refresh event kind (spec's "only
	// traversal that may allocate data nodes and that drives GC and
	// cache-clearing").
	Refresh bool
	// GCEnabled gates named-block garbage collection; see NamingMap.
	GCEnabled bool

	cacheClearDepth int // >0 means cache-clearing is currently disabled
}

// NewTraversal starts a traversal rooted at root.
func NewTraversal(root *Block, refresh bool) *Traversal {
	return &Traversal{block: root, Refresh: refresh, GCEnabled: true}
}

// CacheClearDisabled reports whether the current scope has disabled
// cache-clearing (directly or via an enclosing scope).
func (tr *Traversal) CacheClearDisabled() bool { return tr.cacheClearDepth > 0 }

// blockScope is the push/pop record for BeginBlock / WithBlock.
type blockScope struct {
	tr           *Traversal
	savedBlock   *Block
	savedIndex   int
	clearedDepth bool
}

// BeginBlock activates b as the traversal's current block, returning a
// scope that must be closed with End to restore the previous block. Prefer
// the WithBlock helper, which pairs Begin/End automatically.
func (tr *Traversal) BeginBlock(b *Block) *blockScope {
	s := &blockScope{tr: tr, savedBlock: tr.block, savedIndex: tr.index}
	tr.block, tr.index = b, 0
	return s
}

// End restores the block and cursor that were active before Begin.
func (s *blockScope) End() {
	s.tr.block, s.tr.index = s.savedBlock, s.savedIndex
	if s.clearedDepth {
		s.tr.cacheClearDepth--
	}
}

// WithBlock activates b for the duration of fn, then restores the previous
// block, even if fn panics.
func (tr *Traversal) WithBlock(b *Block, fn func()) {
	s := tr.BeginBlock(b)
	defer s.End()
	fn()
}

// DisableCacheClear prevents cache-clearing within fn for every Cached node
// it observes (directly or through nested blocks), then restores the prior
// setting.
func (tr *Traversal) DisableCacheClear(fn func()) {
	tr.cacheClearDepth++
	b := tr.block
	prev := b.cacheClearDisabled
	b.cacheClearDisabled = true
	defer func() {
		tr.cacheClearDepth--
		b.cacheClearDisabled = prev
	}()
	fn()
}

// GetPersistentNode returns the Persistent[T] node at the traversal's
// current position, constructing one via ctor if this is the first
// traversal to reach it. created reports whether the node was just built.
//
// Panics if a previously-stored node at this position has a different
// concrete type — the equivalent of the C++ implementation's down-cast
// assertion failing, which always indicates the caller's control-flow
// changed shape without going through a named block.
func GetPersistentNode[T any](tr *Traversal, ctor func() T) (node *Persistent[T], created bool) {
	if tr.index < len(tr.block.nodes) {
		n := tr.block.nodes[tr.index]
		tr.index++
		p, ok := n.(*Persistent[T])
		if !ok {
			panic(fmt.Sprintf("datagraph: node type mismatch at position %d: have %T, want *Persistent[%T]", tr.index-1, n, *new(T)))
		}
		return p, false
	}
	p := &Persistent[T]{Value: ctor()}
	tr.block.nodes = append(tr.block.nodes, p)
	tr.index++
	return p, true
}

// GetCachedNode is GetPersistentNode's Cached-node counterpart: it
// allocates an empty Cached[T] slot the first time a traversal reaches this
// position; it does not itself populate the value.
func GetCachedNode[T any](tr *Traversal) (node *Cached[T], created bool) {
	if tr.index < len(tr.block.nodes) {
		n := tr.block.nodes[tr.index]
		tr.index++
		c, ok := n.(*Cached[T])
		if !ok {
			panic(fmt.Sprintf("datagraph: node type mismatch at position %d: have %T, want *Cached[%T]", tr.index-1, n, *new(T)))
		}
		return c, false
	}
	c := &Cached[T]{}
	tr.block.nodes = append(tr.block.nodes, c)
	tr.index++
	return c, true
}

// GetChildBlock returns the nested *Block node at the current position,
// creating one (with its cache-clear-disabled flag inherited from the
// parent's current scope) the first time it's reached.
func GetChildBlock(tr *Traversal) (block *Block, created bool) {
	if tr.index < len(tr.block.nodes) {
		n := tr.block.nodes[tr.index]
		tr.index++
		b, ok := n.(*Block)
		if !ok {
			panic(fmt.Sprintf("datagraph: node type mismatch at position %d: have %T, want *Block", tr.index-1, n))
		}
		return b, false
	}
	b := &Block{cacheClearDisabled: tr.CacheClearDisabled()}
	tr.block.nodes = append(tr.block.nodes, b)
	tr.index++
	return b, true
}
