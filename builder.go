package fsm

import (
	"slices"
	"strconv"

	"github.com/bits-and-blooms/bitset"
)

// StateCounter hands out state identifiers. Each construction owns one, so
// identifiers are never reused within an automaton and concurrent constructions
// never share numbering.
type StateCounter struct {
	next int
}

// Next allocates a fresh identifier.
func (c *StateCounter) Next() int {
	id := c.next
	c.next++
	return id
}

// Count is the number of identifiers handed out so far.
func (c *StateCounter) Count() int {
	return c.next
}

// Builder collects states and transitions and freezes them into an Automaton.
// Unlike the Automaton it produces, a Builder is mutable and not safe for
// concurrent use.
type Builder struct {
	kind   Kind
	ids    StateCounter
	prefix string

	names []string
	index map[string]int

	alphabet []string
	symbols  map[string]int

	start int

	isAccept *bitset.BitSet
	outputs  []string

	transitions [][]Transition
}

// NewBuilder starts an empty automaton of the given kind. States created with
// CreateState are named by the prefix set with WithStatePrefix ("q" by default)
// followed by their identifier.
func NewBuilder(kind Kind, options ...Option) *Builder {
	opts := newOptions("q", options...)
	return &Builder{
		kind:     kind,
		prefix:   opts.prefix,
		index:    make(map[string]int),
		symbols:  make(map[string]int),
		start:    -1,
		isAccept: bitset.New(0),
	}
}

// NumStates How many states have been created so far.
func (b *Builder) NumStates() int {
	return b.ids.Count()
}

// CreateState Create a new state named after its identifier.
func (b *Builder) CreateState() int {
	name := b.prefix + strconv.Itoa(b.ids.Count())
	for {
		if _, taken := b.index[name]; !taken {
			break
		}
		name += "'"
	}
	return b.createState(name)
}

// CreateNamedState Create a new state with an explicit, unique name.
func (b *Builder) CreateNamedState(name string) (int, error) {
	if name == "" {
		return -1, malformed("", "empty state name")
	}
	if _, taken := b.index[name]; taken {
		return -1, malformed(name, "declared twice")
	}
	return b.createState(name), nil
}

func (b *Builder) createState(name string) int {
	state := b.ids.Next()
	b.names = grow(b.names, state+1)
	b.transitions = grow(b.transitions, state+1)
	if b.kind == Moore {
		b.outputs = grow(b.outputs, state+1)
	}
	b.names[state] = name
	b.index[name] = state
	return state
}

// DeclareSymbol appends symbol to the alphabet if it is not there yet. The
// alphabet keeps declaration order.
func (b *Builder) DeclareSymbol(symbol string) error {
	if symbol == Epsilon {
		return malformed("", "%s cannot be part of an alphabet", Epsilon)
	}
	if symbol == "" {
		return malformed("", "empty input symbol")
	}
	b.declare(symbol)
	return nil
}

func (b *Builder) declare(symbol string) {
	if _, ok := b.symbols[symbol]; ok {
		return
	}
	b.symbols[symbol] = len(b.alphabet)
	b.alphabet = append(b.alphabet, symbol)
}

// SetStart marks the initial state.
func (b *Builder) SetStart(state int) error {
	if err := b.checkState(state); err != nil {
		return err
	}
	b.start = state
	return nil
}

// SetAccept Set or clear this state as an accept state.
func (b *Builder) SetAccept(state int, accept bool) error {
	if err := b.checkState(state); err != nil {
		return err
	}
	if b.kind != Acceptor {
		return malformed(b.names[state], "a %s machine has no accept states", b.kind)
	}
	b.isAccept.SetTo(uint(state), accept)
	return nil
}

// SetOutput attaches the output of a Moore state.
func (b *Builder) SetOutput(state int, output string) error {
	if err := b.checkState(state); err != nil {
		return err
	}
	if b.kind != Moore {
		return malformed(b.names[state], "a %s machine has no state outputs", b.kind)
	}
	b.outputs[state] = output
	return nil
}

// AddTransition Add a new transition with the specified source, dest and symbol. Unknown symbols are
// appended to the alphabet.
func (b *Builder) AddTransition(source, dest int, symbol string) error {
	if b.kind == Mealy {
		return malformed(b.nameOf(source), "mealy transitions need an output")
	}
	return b.addChecked(Transition{Source: source, Dest: dest, Symbol: symbol})
}

// AddOutputTransition Add a new Mealy transition emitting output.
func (b *Builder) AddOutputTransition(source, dest int, symbol, output string) error {
	if b.kind != Mealy {
		return malformed(b.nameOf(source), "a %s machine has no transition outputs", b.kind)
	}
	return b.addChecked(Transition{Source: source, Dest: dest, Symbol: symbol, Output: output})
}

// AddEpsilon Add a silent transition between source and dest.
func (b *Builder) AddEpsilon(source, dest int) error {
	if b.kind != Acceptor {
		return malformed(b.nameOf(source), "a %s machine has no silent transitions", b.kind)
	}
	if err := b.checkState(source); err != nil {
		return err
	}
	if err := b.checkState(dest); err != nil {
		return err
	}
	b.addEdge(source, dest, Epsilon, "")
	return nil
}

func (b *Builder) addChecked(t Transition) error {
	if err := b.checkState(t.Source); err != nil {
		return err
	}
	if err := b.checkState(t.Dest); err != nil {
		return err
	}
	if err := b.DeclareSymbol(t.Symbol); err != nil {
		return err
	}
	b.addEdge(t.Source, t.Dest, t.Symbol, t.Output)
	return nil
}

// addEdge records a transition without validation; callers own the ids.
func (b *Builder) addEdge(source, dest int, symbol, output string) {
	b.transitions[source] = append(b.transitions[source], Transition{
		Source: source,
		Dest:   dest,
		Symbol: symbol,
		Output: output,
	})
}

func (b *Builder) checkState(state int) error {
	if state < 0 || state >= b.ids.Count() {
		return malformed(strconv.Itoa(state), "undeclared state")
	}
	return nil
}

func (b *Builder) nameOf(state int) string {
	if state >= 0 && state < len(b.names) {
		return b.names[state]
	}
	return strconv.Itoa(state)
}

// Finish freezes the collected states into an Automaton. Transitions of every state are sorted (first by
// alphabet position, ε first, then by dest) and exact duplicates are dropped. The Builder can keep being
// used afterwards without affecting the result.
func (b *Builder) Finish() (*Automaton, error) {
	if b.ids.Count() == 0 {
		return nil, malformed("", "no states")
	}
	if b.start < 0 {
		return nil, malformed("", "missing start state")
	}

	a := &Automaton{
		kind:          b.kind,
		names:         slices.Clone(b.names),
		index:         make(map[string]int, len(b.index)),
		alphabet:      slices.Clone(b.alphabet),
		symbols:       make(map[string]int, len(b.symbols)),
		start:         b.start,
		isAccept:      b.isAccept.Clone(),
		states:        make([][]Transition, len(b.transitions)),
		deterministic: true,
	}
	for k, v := range b.index {
		a.index[k] = v
	}
	for k, v := range b.symbols {
		a.symbols[k] = v
	}
	if b.kind == Moore {
		a.outputs = slices.Clone(b.outputs)
	}

	for s, ts := range b.transitions {
		sorted := slices.Clone(ts)
		slices.SortStableFunc(sorted, func(x, y Transition) int {
			if rx, ry := a.rank(x.Symbol), a.rank(y.Symbol); rx != ry {
				return rx - ry
			}
			return x.Dest - y.Dest
		})
		sorted = slices.CompactFunc(sorted, func(x, y Transition) bool {
			return x.Symbol == y.Symbol && x.Dest == y.Dest && x.Output == y.Output
		})
		for i, t := range sorted {
			if t.Symbol == Epsilon || (i > 0 && sorted[i-1].Symbol == t.Symbol) {
				a.deterministic = false
			}
		}
		a.states[s] = sorted
	}
	return a, nil
}

// Option configures the naming of states produced by an operation.
type Option func(*options)

type options struct {
	prefix string
}

func newOptions(defaultPrefix string, opts ...Option) *options {
	o := &options{prefix: defaultPrefix}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// WithStatePrefix names the produced states prefix0, prefix1, …
func WithStatePrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}
