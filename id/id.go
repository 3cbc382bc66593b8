// Package id implements alia's identity-value system: a small, heterogeneous,
// comparable family of values used throughout the runtime to name positions in
// the content graph, tag signal values, and key named blocks.
//
// Equality between different concrete variants is always false. Ordering
// between variants falls back to comparing the variants' type names, which
// gives a total, if arbitrary, order across the whole family — enough to keep
// an id usable as a sort key without requiring every pair of concrete types to
// agree on how to compare each other.
package id

import "fmt"

// ID is a type-erased, comparable, orderable, clonable identity value.
//
// Implementations must satisfy:
//   - Equal is reflexive, symmetric, and transitive.
//   - Less, together with Equal, forms a strict weak order.
//   - Clone returns a value that is independently owned: mutating whatever
//     the original borrowed from (for ByRef/Ref ids) must not be observable
//     through the clone, and vice versa, except where the variant's contract
//     explicitly says otherwise (Ref ids share the referent by design).
type ID interface {
	// Equal reports whether this id denotes the same identity as other.
	Equal(other ID) bool
	// Less defines a strict weak order over the whole ID family.
	Less(other ID) bool
	// Clone returns an independently owned copy of this id.
	Clone() ID
	// typeName is used as the tiebreaker for Less between differing
	// concrete variants, giving a total order across the family.
	typeName() string
}

// Equal is a free-function form of a.Equal(b) that also treats two nils (or
// an untyped nil ID) as equal, so callers comparing captured-but-never-set
// ids don't need a nil check of their own.
func Equal(a, b ID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Less is the free-function form of the strict weak order, with the same
// nil handling as Equal: nil sorts before every non-nil id.
func Less(a, b ID) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	if a.typeName() != b.typeName() {
		return a.typeName() < b.typeName()
	}
	return a.Less(b)
}

// Clone returns an independent copy of id, or nil for a nil id.
func Clone(v ID) ID {
	if v == nil {
		return nil
	}
	return v.Clone()
}

// sentinel is the concrete type behind Null and Unit: two process-wide
// singletons that are stable across calls and distinct from each other and
// from every other id.
type sentinel struct{ name string }

func (s sentinel) Equal(other ID) bool {
	o, ok := other.(sentinel)
	return ok && o.name == s.name
}

func (s sentinel) Less(other ID) bool {
	o := other.(sentinel)
	return s.name < o.name
}

func (s sentinel) Clone() ID { return s }

func (s sentinel) typeName() string { return "id.sentinel" }

func (s sentinel) String() string { return fmt.Sprintf("id.%s", s.name) }

var (
	// Null is the stable "no identity" sentinel. It is distinct from Unit
	// and from every other id the runtime produces.
	Null ID = sentinel{"null"}
	// Unit is the stable "no meaningful payload" sentinel, used by signals
	// such as constants whose value never changes and so never needs a
	// structured value id.
	Unit ID = sentinel{"unit"}
)
