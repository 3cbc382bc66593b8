package datagraph

import (
	"fmt"

	"github.com/aliago/alia/id"
)

// namedEntry is a named block node: an id, its owned block, and whether it
// opts out of GC.
type namedEntry struct {
	key          id.ID
	block        *Block
	manualDelete bool
}

// NamingMap establishes one naming context: a scope in which ids used for
// named blocks are unique. It keeps a "predicted" order (the sequence of
// ids visited last refresh pass) so that, as long as a new pass requests
// ids in that same order, each lookup only compares the id with the next
// predicted one and fetches the existing entry, skipping the creation and
// divergence handling of the off-prediction path.
type NamingMap struct {
	entries   map[any]*namedEntry
	predicted []id.ID // visitation order observed on the last refresh pass
}

// NewNamingMap creates an empty naming context.
func NewNamingMap() *NamingMap {
	return &NamingMap{entries: make(map[any]*namedEntry)}
}

// mapKey turns an id.ID into a Go map key. IDs are already comparable
// values wrapped behind the ID interface, so the interface value itself
// works directly as a map key.
func mapKey(k id.ID) any { return k }

// Pass is one traversal's view into a NamingMap: it tracks where the
// traversal is in the predicted order, whether it has diverged from that
// order, and which entries it has visited, so End can run GC/ordering
// checks.
type Pass struct {
	m         *NamingMap
	refresh   bool
	gcEnabled bool
	cursor    int // index into m.predicted, while still following it exactly
	diverged  bool
	visited   map[any]bool
	visitedIn []id.ID // visitation order this pass, becomes m.predicted on End
}

// Begin starts a pass over m for one traversal. gcEnabled governs whether
// out-of-order access during a refresh pass is tolerated (see Get) and
// whether End collects unvisited entries.
func (m *NamingMap) Begin(refresh, gcEnabled bool) *Pass {
	return &Pass{m: m, refresh: refresh, gcEnabled: gcEnabled, visited: make(map[any]bool)}
}

// Get activates (creating if necessary) the block named key. gcEnabled
// controls whether out-of-order access during a refresh pass is tolerated
// (spec: "divergence is a detected state, not an error, unless GC is
// disabled"); a non-refresh pass never tolerates divergence, per spec
// §4.2 step 5.
func (p *Pass) Get(key id.ID) (block *Block, created bool, err error) {
	mk := mapKey(key)

	if !p.diverged && p.cursor < len(p.m.predicted) && id.Equal(p.m.predicted[p.cursor], key) {
		// Fast path: matches the predicted order exactly, so the entry
		// already exists and only needs fetching.
		p.cursor++
		p.visited[mk] = true
		p.visitedIn = append(p.visitedIn, key)
		e := p.m.entries[mk]
		return e.block, false, nil
	}

	// Off the predicted path.
	if !p.refresh {
		return nil, false, fmt.Errorf("%w: named block %v requested out of predicted order on a non-refresh pass", ErrOrderingViolation, key)
	}
	if !p.gcEnabled {
		return nil, false, fmt.Errorf("%w: named block %v out of order with GC disabled", ErrOrderingViolation, key)
	}

	p.diverged = true

	e, ok := p.m.entries[mk]
	if !ok {
		e = &namedEntry{key: id.Clone(key), block: &Block{}}
		p.m.entries[mk] = e
		created = true
	}
	p.visited[mk] = true
	p.visitedIn = append(p.visitedIn, key)
	return e.block, created, nil
}

// SetManualDelete flags (or unflags) the named block for key as exempt from
// GC. Must be called after a successful Get for that key in the same pass.
func (p *Pass) SetManualDelete(key id.ID, manual bool) {
	if e, ok := p.m.entries[mapKey(key)]; ok {
		e.manualDelete = manual
	}
}

// End finalizes the pass: on a refresh pass with GC enabled it releases
// any entry that wasn't visited this pass and isn't manual-delete, then
// records this pass's visitation order as the new prediction for next time.
//
// unwinding must be true if End is being called while a panic is
// propagating through the traversal (e.g. from a deferred recover in the
// caller's dispatch loop): in that case nothing is collected, and the
// unseen predicted entries are preserved so the next pass still expects
// them — collecting here would be "spurious GC" triggered by a partial
// pass, not a real absence.
func (p *Pass) End(unwinding bool) (collected []id.ID) {
	if unwinding {
		// Keep the old prediction entirely; nothing was conclusively absent.
		return nil
	}

	if p.refresh && p.gcEnabled {
		for mk, e := range p.m.entries {
			if p.visited[mk] || e.manualDelete {
				continue
			}
			for _, n := range e.block.destroy() {
				n.ClearCache()
			}
			delete(p.m.entries, mk)
			collected = append(collected, e.key)
		}
	}

	p.m.predicted = append([]id.ID(nil), p.visitedIn...)
	return collected
}

// Len reports how many named blocks the naming context currently holds.
func (m *NamingMap) Len() int { return len(m.entries) }
