package fsm

import "slices"

// IntSet is a hashable, read-only sequence of ints.
type IntSet interface {
	Hashable

	GetArray() []int

	Size() int
}

var _ IntSet = &FrozenIntSet{}

// FrozenIntSet is an immutable int sequence usable as a HashMap key. Subset
// construction keys it by the sorted NFA states of a DFA state, and refinement
// keys it by a state's signature tuple. state remembers the automaton state the
// sequence was assigned to, or -1.
type FrozenIntSet struct {
	values   []int
	state    int
	hashCode uint64
}

// NewFrozenIntSet freezes values; the caller must not modify them afterwards.
func NewFrozenIntSet(values []int, state int) *FrozenIntSet {
	h := uint64(len(values))
	for _, v := range values {
		h = h*31 + uint64(uint32(mix(v)))
	}
	return &FrozenIntSet{values: values, state: state, hashCode: h}
}

func (f *FrozenIntSet) Hash() uint64 {
	return f.hashCode
}

func (f *FrozenIntSet) Equals(other Hashable) bool {
	o, ok := other.(*FrozenIntSet)
	if !ok {
		return false
	}
	if f == nil || o == nil {
		return f == o
	}
	return f.hashCode == o.hashCode && slices.Equal(f.values, o.values)
}

func (f *FrozenIntSet) GetArray() []int {
	return f.values
}

func (f *FrozenIntSet) Size() int {
	return len(f.values)
}

// State is the automaton state this set was assigned to, or -1.
func (f *FrozenIntSet) State() int {
	return f.state
}
