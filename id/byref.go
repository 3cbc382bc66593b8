package id

import (
	"fmt"
	"reflect"
)

// ByRef is an id whose identity is the address of a T. Two ByRef ids compare
// equal iff they point at the same T. Cloning allocates a fresh T and copies
// the pointee into it, so the clone's identity diverges from the original's
// the moment either side is mutated through its own pointer — this is the
// "copies only on clone" rule from the data model: ordinary comparisons stay
// pointer-cheap, and only Clone pays for an allocation.
type ByRef[T any] struct {
	Ptr *T
}

// NewByRef wraps an existing pointer as a ByRef id. The caller retains
// ownership of ptr.
func NewByRef[T any](ptr *T) ByRef[T] { return ByRef[T]{Ptr: ptr} }

func (r ByRef[T]) Equal(other ID) bool {
	o, ok := other.(ByRef[T])
	return ok && o.Ptr == r.Ptr
}

func (r ByRef[T]) Less(other ID) bool {
	o := other.(ByRef[T])
	return reflect.ValueOf(r.Ptr).Pointer() < reflect.ValueOf(o.Ptr).Pointer()
}

func (r ByRef[T]) Clone() ID {
	if r.Ptr == nil {
		return ByRef[T]{}
	}
	cp := *r.Ptr
	return ByRef[T]{Ptr: &cp}
}

func (r ByRef[T]) typeName() string { return fmt.Sprintf("id.ByRef[%T]", r.Ptr) }

func (r ByRef[T]) String() string { return fmt.Sprintf("&%v", r.Ptr) }

// Ref is an id that shares ownership of its referent on Clone instead of
// copying it: identical to ByRef for Equal/Less, but Clone returns a value
// that still points at the very same T. Use Ref for ids that borrow a value
// the data graph (or some other owner) keeps alive for as long as the id
// matters; use ByRef when the id itself needs to outlive its source.
type Ref[T any] struct {
	Ptr *T
}

// NewRef wraps an existing pointer as a Ref id.
func NewRef[T any](ptr *T) Ref[T] { return Ref[T]{Ptr: ptr} }

func (r Ref[T]) Equal(other ID) bool {
	o, ok := other.(Ref[T])
	return ok && o.Ptr == r.Ptr
}

func (r Ref[T]) Less(other ID) bool {
	o := other.(Ref[T])
	return reflect.ValueOf(r.Ptr).Pointer() < reflect.ValueOf(o.Ptr).Pointer()
}

// Clone shares the referent rather than copying it.
func (r Ref[T]) Clone() ID { return r }

func (r Ref[T]) typeName() string { return fmt.Sprintf("id.Ref[%T]", r.Ptr) }

func (r Ref[T]) String() string { return fmt.Sprintf("ref(%v)", r.Ptr) }
