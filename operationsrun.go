package fsm

import "github.com/bits-and-blooms/bitset"

// Accepts reports whether an acceptor, deterministic or not, accepts input.
// Every symbol must belong to the alphabet of a.
func Accepts(a *Automaton, input []string) (bool, error) {
	if a.kind != Acceptor {
		return false, malformed("", "a %s machine does not accept words", a.kind)
	}

	current := bitset.New(uint(a.GetNumStates()))
	current.Set(uint(a.start))
	closure(a, current)

	for i, sym := range input {
		if !a.HasSymbol(sym) {
			return false, &UnsupportedSymbolError{Symbol: sym, Pos: i}
		}
		next := bitset.New(uint(a.GetNumStates()))
		for _, s := range members(current) {
			for _, t := range a.edges(s, sym) {
				next.Set(uint(t.Dest))
			}
		}
		if next.None() {
			return false, nil
		}
		closure(a, next)
		current = next
	}
	return current.IntersectionCardinality(a.getAcceptStates()) > 0, nil
}

// Run reports whether a accepts s, reading each rune of s as one symbol. Any
// failure, such as a rune outside the alphabet, counts as a rejection.
func Run(a *Automaton, s string) bool {
	input := make([]string, 0, len(s))
	for _, v := range s {
		input = append(input, string(v))
	}
	ok, err := Accepts(a, input)
	return err == nil && ok
}

// Translate feeds input to a deterministic Mealy or Moore machine and returns
// the outputs produced: the output of every transition taken for a Mealy
// machine, the output of every state entered for a Moore machine. Translation
// stops early, without error, at the first symbol the current state has no
// transition for.
func Translate(a *Automaton, input []string) ([]string, error) {
	if a.kind == Acceptor {
		return nil, malformed("", "an acceptor produces no output")
	}
	if !a.IsDeterministic() {
		return nil, malformed("", "cannot translate with a nondeterministic machine")
	}

	outputs := make([]string, 0, len(input))
	state := a.start
	for i, sym := range input {
		if !a.HasSymbol(sym) {
			return nil, &UnsupportedSymbolError{Symbol: sym, Pos: i}
		}
		t, ok := a.Next(state, sym)
		if !ok {
			break
		}
		if a.kind == Mealy {
			outputs = append(outputs, t.Output)
		} else {
			outputs = append(outputs, a.outputs[t.Dest])
		}
		state = t.Dest
	}
	return outputs, nil
}
