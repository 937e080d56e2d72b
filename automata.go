package fsm

// fragment is a partial ε-NFA with a single entry and a single exit state.
// The exit never has outgoing edges until the fragment is composed.
type fragment struct {
	start, accept int
}

// automata glues Thompson fragments together inside one Builder. Every state
// it creates is numbered by that Builder's StateCounter.
type automata struct {
	b *Builder
}

func newAutomata(b *Builder) *automata {
	return &automata{b: b}
}

// MakeSymbol
// Returns a fragment that reads exactly symbol.
func (m *automata) MakeSymbol(symbol string) fragment {
	f := fragment{start: m.b.CreateState(), accept: m.b.CreateState()}
	m.b.addEdge(f.start, f.accept, symbol, "")
	return f
}

// MakeEmptyString
// Returns a fragment that accepts only the empty string.
func (m *automata) MakeEmptyString() fragment {
	return m.MakeSymbol(Epsilon)
}

// MakeConcatenation
// Returns a fragment for f1 followed by f2.
func (m *automata) MakeConcatenation(f1, f2 fragment) fragment {
	m.b.addEdge(f1.accept, f2.start, Epsilon, "")
	return fragment{start: f1.start, accept: f2.accept}
}

// MakeUnion
// Returns a fragment for f1 or f2.
func (m *automata) MakeUnion(f1, f2 fragment) fragment {
	f := fragment{start: m.b.CreateState(), accept: m.b.CreateState()}
	m.b.addEdge(f.start, f1.start, Epsilon, "")
	m.b.addEdge(f.start, f2.start, Epsilon, "")
	m.b.addEdge(f1.accept, f.accept, Epsilon, "")
	m.b.addEdge(f2.accept, f.accept, Epsilon, "")
	return f
}

// MakeRepeat
// Returns a fragment for zero or more repetitions of f.
func (m *automata) MakeRepeat(f fragment) fragment {
	r := m.MakeRepeatMin(f)
	m.b.addEdge(r.start, r.accept, Epsilon, "")
	return r
}

// MakeRepeatMin
// Returns a fragment for one or more repetitions of f.
func (m *automata) MakeRepeatMin(f fragment) fragment {
	r := fragment{start: m.b.CreateState(), accept: m.b.CreateState()}
	m.b.addEdge(r.start, f.start, Epsilon, "")
	m.b.addEdge(f.accept, f.start, Epsilon, "")
	m.b.addEdge(f.accept, r.accept, Epsilon, "")
	return r
}
