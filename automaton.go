package fsm

import (
	"slices"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Epsilon is the reserved silent symbol. It labels ε-edges of an NFA and never
// appears in an alphabet.
const Epsilon = "ε"

// Kind tells how an automaton exposes its behaviour.
type Kind int

const (
	Acceptor Kind = iota // final states, language recognition (NFA or DFA)
	Moore                // one output per state
	Mealy                // one output per transition
)

func (k Kind) String() string {
	switch k {
	case Acceptor:
		return "acceptor"
	case Moore:
		return "moore"
	case Mealy:
		return "mealy"
	}
	return "unknown"
}

// Transition is one edge of an automaton. Output is only meaningful for Mealy
// machines; Symbol is Epsilon for silent edges.
type Transition struct {
	Source int
	Dest   int
	Symbol string
	Output string
}

// Automaton Represents an automaton and all its states and transitions. States are dense integers
// 0..NumStates()-1 allocated in creation order, each with a unique display name. An Automaton is
// immutable: it is produced by Builder.Finish or by one of the operations of this package, and every
// operation returns a new one.
//
// The transitions leaving a state are sorted by the position of their symbol in the alphabet (ε-edges
// first), then by destination, so that lookups can binary search them.
type Automaton struct {
	kind Kind

	names []string
	index map[string]int

	// Ordered input alphabet, never containing Epsilon.
	alphabet []string
	// Position of each symbol in alphabet.
	symbols map[string]int

	start int

	isAccept *bitset.BitSet

	// Holds the output of each state of a Moore machine.
	outputs []string

	states [][]Transition

	// True if no state has two transitions leaving with the same label and there is no ε-edge.
	deterministic bool
}

// Kind returns how the automaton exposes its behaviour.
func (a *Automaton) Kind() Kind {
	return a.kind
}

// GetNumStates How many states this automaton has.
func (a *Automaton) GetNumStates() int {
	return len(a.states)
}

// GetNumTransitions How many transitions this automaton has.
func (a *Automaton) GetNumTransitions() int {
	n := 0
	for _, ts := range a.states {
		n += len(ts)
	}
	return n
}

// GetNumTransitionsWithState How many transitions this state has.
func (a *Automaton) GetNumTransitionsWithState(state int) int {
	return len(a.states[state])
}

// Name returns the display name of a state.
func (a *Automaton) Name(state int) string {
	return a.names[state]
}

// StateIndex looks a state up by name.
func (a *Automaton) StateIndex(name string) (int, bool) {
	s, ok := a.index[name]
	return s, ok
}

// States returns the state names in state order.
func (a *Automaton) States() []string {
	return slices.Clone(a.names)
}

// Alphabet returns the input symbols in their agreed order.
func (a *Automaton) Alphabet() []string {
	return slices.Clone(a.alphabet)
}

// HasSymbol reports whether symbol belongs to the alphabet.
func (a *Automaton) HasSymbol(symbol string) bool {
	_, ok := a.symbols[symbol]
	return ok
}

// Start returns the initial state.
func (a *Automaton) Start() int {
	return a.start
}

// IsAccept Returns true if this state is an accept state.
func (a *Automaton) IsAccept(state int) bool {
	return a.isAccept.Test(uint(state))
}

// Output returns the output label of a Moore state, or "" for other kinds.
func (a *Automaton) Output(state int) string {
	if a.kind != Moore {
		return ""
	}
	return a.outputs[state]
}

// IsDeterministic Returns true if this automaton is deterministic (for every state there is at most
// one transition for each label, and no ε-edge).
func (a *Automaton) IsDeterministic() bool {
	return a.deterministic
}

// Transitions returns a copy of the transitions leaving state.
func (a *Automaton) Transitions(state int) []Transition {
	return slices.Clone(a.states[state])
}

// Returns accept states. If the bit is set then that state is an accept state.
func (a *Automaton) getAcceptStates() *bitset.BitSet {
	return a.isAccept
}

func (a *Automaton) rank(symbol string) int {
	if symbol == Epsilon {
		return -1
	}
	if i, ok := a.symbols[symbol]; ok {
		return i
	}
	return len(a.alphabet)
}

// Returns the transitions of state labelled symbol; a sub-slice of the state's sorted edges.
func (a *Automaton) edges(state int, symbol string) []Transition {
	r := a.rank(symbol)
	if r == len(a.alphabet) {
		return nil
	}
	ts := a.states[state]
	lo := sort.Search(len(ts), func(i int) bool { return a.rank(ts[i].Symbol) >= r })
	hi := lo
	for hi < len(ts) && ts[hi].Symbol == symbol {
		hi++
	}
	return ts[lo:hi]
}

// Targets returns every destination of state on symbol, ascending.
func (a *Automaton) Targets(state int, symbol string) []int {
	es := a.edges(state, symbol)
	if len(es) == 0 {
		return nil
	}
	dests := make([]int, len(es))
	for i, t := range es {
		dests[i] = t.Dest
	}
	return dests
}

// Step Performs lookup in transitions, assuming determinism.
// Returns: destination state, -1 if no matching outgoing transition
func (a *Automaton) Step(state int, symbol string) int {
	t, ok := a.Next(state, symbol)
	if !ok {
		return -1
	}
	return t.Dest
}

// Next returns the first transition of state labelled symbol, assuming determinism.
func (a *Automaton) Next(state int, symbol string) (Transition, bool) {
	es := a.edges(state, symbol)
	if len(es) == 0 {
		return Transition{Source: state, Dest: -1}, false
	}
	return es[0], true
}
