package fsm

import "github.com/bits-and-blooms/bitset"

// EpsilonClosure returns, ascending, every state reachable from states through
// ε-edges alone, states included.
func EpsilonClosure(a *Automaton, states ...int) []int {
	set := bitset.New(uint(a.GetNumStates()))
	for _, s := range states {
		set.Set(uint(s))
	}
	closure(a, set)
	return members(set)
}

// closure grows set in place until it is closed under ε-edges. The set itself
// is the visited guard, so ε-cycles terminate.
func closure(a *Automaton, set *bitset.BitSet) {
	workList := members(set)
	for len(workList) > 0 {
		state := workList[len(workList)-1]
		workList = workList[:len(workList)-1]

		for _, t := range a.edges(state, Epsilon) {
			if !set.Test(uint(t.Dest)) {
				set.Set(uint(t.Dest))
				workList = append(workList, t.Dest)
			}
		}
	}
}

// Determinize converts an acceptor into an equivalent DFA by subset construction.
//
// DFA states are sets of NFA states. The ε-closure of the NFA start is discovered and named first, the
// rest in breadth-first discovery order (S0, S1, … unless WithStatePrefix says otherwise). An empty move
// records no transition: the result has no sink state. A DFA state accepts iff its subset contains an
// accepting NFA state.
func Determinize(a *Automaton, opts ...Option) (*Automaton, error) {
	if a.kind != Acceptor {
		return nil, malformed("", "cannot determinize a %s machine", a.kind)
	}
	numStates := uint(a.GetNumStates())

	b := NewBuilder(Acceptor, append([]Option{WithStatePrefix("S")}, opts...)...)
	for _, sym := range a.alphabet {
		b.declare(sym)
	}

	initial := bitset.New(numStates)
	initial.Set(uint(a.start))
	closure(a, initial)

	newState := NewHashMap[int](WithCapacity(16))
	initialSet := NewFrozenIntSet(members(initial), b.CreateState())
	newState.Set(initialSet, initialSet.State())
	if err := b.SetStart(initialSet.State()); err != nil {
		return nil, err
	}
	b.isAccept.SetTo(uint(initialSet.State()), initial.IntersectionCardinality(a.getAcceptStates()) > 0)

	workList := []*FrozenIntSet{initialSet}
	for len(workList) > 0 {
		current := workList[0]
		workList = workList[1:]

		for _, sym := range a.alphabet {
			next := bitset.New(numStates)
			for _, s := range current.GetArray() {
				for _, t := range a.edges(s, sym) {
					next.Set(uint(t.Dest))
				}
			}
			if next.None() {
				continue
			}
			closure(a, next)

			key := NewFrozenIntSet(members(next), -1)
			dest, ok := newState.Get(key)
			if !ok {
				dest = b.CreateState()
				key.state = dest
				newState.Set(key, dest)
				b.isAccept.SetTo(uint(dest), next.IntersectionCardinality(a.getAcceptStates()) > 0)
				workList = append(workList, key)
			}
			b.addEdge(current.State(), dest, sym, "")
		}
	}

	return b.Finish()
}

// IsEmptyAutomaton
// Returns true if the given acceptor accepts no strings.
func IsEmptyAutomaton(a *Automaton) bool {
	if a.kind != Acceptor {
		return false
	}
	if a.IsAccept(a.start) {
		return false
	}

	workList := []int{a.start}
	seen := bitset.New(uint(a.GetNumStates()))
	seen.Set(uint(a.start))

	for len(workList) > 0 {
		state := workList[0]
		workList = workList[1:]

		if a.IsAccept(state) {
			return false
		}

		for _, t := range a.states[state] {
			if !seen.Test(uint(t.Dest)) {
				workList = append(workList, t.Dest)
				seen.Set(uint(t.Dest))
			}
		}
	}
	return true
}

// getLiveStatesFromInitial returns the states reachable from the start state.
func getLiveStatesFromInitial(a *Automaton) *bitset.BitSet {
	live := bitset.New(uint(a.GetNumStates()))
	live.Set(uint(a.start))
	workList := []int{a.start}

	for i := 0; i < len(workList); i++ {
		for _, t := range a.states[workList[i]] {
			if !live.Test(uint(t.Dest)) {
				live.Set(uint(t.Dest))
				workList = append(workList, t.Dest)
			}
		}
	}
	return live
}

// RemoveUnreachable returns a copy of a without the states (and their transitions)
// that cannot be reached from the start state. Surviving states keep their names,
// relative order, outputs and acceptance; the alphabet is kept as is.
func RemoveUnreachable(a *Automaton) *Automaton {
	live := getLiveStatesFromInitial(a)
	if live.Count() == uint(a.GetNumStates()) {
		return a
	}

	mp := make([]int, a.GetNumStates())
	b := NewBuilder(a.kind)
	for _, sym := range a.alphabet {
		b.declare(sym)
	}
	for _, s := range members(live) {
		mp[s] = b.createState(a.names[s])
		if a.kind == Moore {
			b.outputs[mp[s]] = a.outputs[s]
		}
		if a.IsAccept(s) {
			b.isAccept.Set(uint(mp[s]))
		}
	}
	for _, s := range members(live) {
		for _, t := range a.states[s] {
			b.addEdge(mp[s], mp[t.Dest], t.Symbol, t.Output)
		}
	}
	b.start = mp[a.start]

	result, err := b.Finish()
	if err != nil {
		// unreachable: the start state is always live
		panic("fsm: pruning produced an invalid automaton: " + err.Error())
	}
	return result
}
