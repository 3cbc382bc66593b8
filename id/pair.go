package id

// Pair composes two ids into one, ordered and compared lexicographically on
// (First, Second). Composite signals (e.g. a struct field of a larger
// structured id) use Pair to fold sub-identities together without losing
// the ability to order and diff them structurally.
type Pair struct {
	First, Second ID
}

// NewPair builds a Pair id from two component ids.
func NewPair(first, second ID) Pair { return Pair{First: first, Second: second} }

func (p Pair) Equal(other ID) bool {
	o, ok := other.(Pair)
	return ok && Equal(p.First, o.First) && Equal(p.Second, o.Second)
}

func (p Pair) Less(other ID) bool {
	o := other.(Pair)
	if !Equal(p.First, o.First) {
		return Less(p.First, o.First)
	}
	return Less(p.Second, o.Second)
}

func (p Pair) Clone() ID {
	return Pair{First: Clone(p.First), Second: Clone(p.Second)}
}

func (p Pair) typeName() string { return "id.Pair" }
