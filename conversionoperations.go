package fsm

import "slices"

// mooreState identifies a Moore state produced from a Mealy state entered with
// a given output.
type mooreState struct {
	state  int
	output string
}

// MealyToMoore converts a Mealy machine into an equivalent Moore machine.
//
// Every Mealy state q is split into one Moore state per distinct output of the transitions entering q,
// taken in the order they are first met when scanning states in order and each state's transitions in
// alphabet order. A start state nobody enters borrows the output of its first transition. The copies are
// named R0, R1, … (see WithStatePrefix) grouped by Mealy state, and states unreachable from the new
// start are pruned.
func MealyToMoore(m *Automaton, opts ...Option) (*Automaton, error) {
	if m.kind != Mealy {
		return nil, malformed("", "expected a mealy machine, got %s", m.kind)
	}

	incoming := make([][]string, m.GetNumStates())
	for _, ts := range m.states {
		for _, t := range ts {
			if !slices.Contains(incoming[t.Dest], t.Output) {
				incoming[t.Dest] = append(incoming[t.Dest], t.Output)
			}
		}
	}
	if len(incoming[m.start]) == 0 {
		if len(m.states[m.start]) == 0 {
			return nil, &AmbiguousConversionError{
				State: m.names[m.start],
				Msg:   "start state has neither incoming nor outgoing transitions",
			}
		}
		incoming[m.start] = []string{m.states[m.start][0].Output}
	}

	b := NewBuilder(Moore, append([]Option{WithStatePrefix("R")}, opts...)...)
	for _, sym := range m.alphabet {
		b.declare(sym)
	}

	ids := make(map[mooreState]int)
	var pairs []mooreState
	register := func(p mooreState) int {
		if id, ok := ids[p]; ok {
			return id
		}
		id := b.CreateState()
		b.outputs[id] = p.output
		ids[p] = id
		pairs = append(pairs, p)
		return id
	}
	for q, outs := range incoming {
		for _, o := range outs {
			register(mooreState{state: q, output: o})
		}
	}
	b.start = ids[mooreState{state: m.start, output: incoming[m.start][0]}]

	for i := 0; i < len(pairs); i++ {
		p := pairs[i]
		for _, t := range m.states[p.state] {
			b.addEdge(i, register(mooreState{state: t.Dest, output: t.Output}), t.Symbol, "")
		}
	}

	moore, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return RemoveUnreachable(moore), nil
}

// MooreToMealy converts a Moore machine into an equivalent Mealy machine: each
// transition s -a-> t emits the output of t. State names and the start state
// are kept; states unreachable from the start are pruned.
func MooreToMealy(m *Automaton) (*Automaton, error) {
	if m.kind != Moore {
		return nil, malformed("", "expected a moore machine, got %s", m.kind)
	}

	b := NewBuilder(Mealy)
	for _, sym := range m.alphabet {
		b.declare(sym)
	}
	for _, name := range m.names {
		b.createState(name)
	}
	for s, ts := range m.states {
		for _, t := range ts {
			b.addEdge(s, t.Dest, t.Symbol, m.outputs[t.Dest])
		}
	}
	b.start = m.start

	mealy, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return RemoveUnreachable(mealy), nil
}
