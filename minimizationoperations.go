package fsm

import "slices"

// Partition is a set of disjoint, non-empty blocks of states covering a whole
// automaton. Blocks are listed in the order refinement produced them.
type Partition struct {
	blocks  [][]int
	blockOf []int
}

func newPartition(numStates int, blocks [][]int) *Partition {
	p := &Partition{blocks: blocks, blockOf: make([]int, numStates)}
	for i, blk := range blocks {
		for _, s := range blk {
			p.blockOf[s] = i
		}
	}
	return p
}

// Len is the number of blocks.
func (p *Partition) Len() int {
	return len(p.blocks)
}

// Block returns the members of block i, ascending.
func (p *Partition) Block(i int) []int {
	return slices.Clone(p.blocks[i])
}

// BlockOf returns the index of the block holding state.
func (p *Partition) BlockOf(state int) int {
	return p.blockOf[state]
}

// observables returns, per state, what can be seen from outside without moving:
// the output of a Moore state, the accept flag of an acceptor state, or the
// outputs a Mealy state emits on each alphabet symbol (-1 where it has no move).
// Outputs are interned to small ints.
func observables(a *Automaton) [][]int {
	intern := make(map[string]int)
	id := func(out string) int {
		v, ok := intern[out]
		if !ok {
			v = len(intern)
			intern[out] = v
		}
		return v
	}

	obs := make([][]int, a.GetNumStates())
	for s := range obs {
		switch a.kind {
		case Moore:
			obs[s] = []int{id(a.outputs[s])}
		case Acceptor:
			if a.IsAccept(s) {
				obs[s] = []int{1}
			} else {
				obs[s] = []int{0}
			}
		case Mealy:
			sig := make([]int, len(a.alphabet))
			for i, sym := range a.alphabet {
				if t, ok := a.Next(s, sym); ok {
					sig[i] = id(t.Output)
				} else {
					sig[i] = -1
				}
			}
			obs[s] = sig
		}
	}
	return obs
}

// splitBy groups states by key, keeping groups in order of first appearance
// and members in their incoming order.
func splitBy(states []int, key func(s int) []int) [][]int {
	groups := NewHashMap[int](WithCapacity(len(states)))
	var out [][]int
	for _, s := range states {
		k := NewFrozenIntSet(key(s), -1)
		if i, ok := groups.Get(k); ok {
			out[i] = append(out[i], s)
			continue
		}
		groups.Set(k, len(out))
		out = append(out, []int{s})
	}
	return out
}

// Refine computes the coarsest partition of the states of a deterministic
// automaton that is consistent with its observable behaviour.
//
// The initial partition groups states by their observable signature. Each pass then splits every block
// by the refined signature (observable signature, block index reached on each alphabet symbol or -1),
// and passes repeat until one splits nothing. Blocks only ever split, so this ends after at most
// GetNumStates() passes.
func Refine(a *Automaton) (*Partition, error) {
	if !a.IsDeterministic() {
		return nil, malformed("", "partition refinement requires a deterministic automaton")
	}
	obs := observables(a)

	all := make([]int, a.GetNumStates())
	for s := range all {
		all[s] = s
	}
	p := newPartition(len(all), splitBy(all, func(s int) []int { return obs[s] }))

	for {
		signature := func(s int) []int {
			sig := slices.Clone(obs[s])
			for _, sym := range a.alphabet {
				if dest := a.Step(s, sym); dest >= 0 {
					sig = append(sig, p.blockOf[dest])
				} else {
					sig = append(sig, -1)
				}
			}
			return sig
		}

		var next [][]int
		for _, blk := range p.blocks {
			next = append(next, splitBy(blk, signature)...)
		}
		if len(next) == len(p.blocks) {
			return p, nil
		}
		p = newPartition(len(all), next)
	}
}

// Minimize returns the minimal automaton equivalent to a deterministic Moore, Mealy or acceptor
// automaton.
//
// One state is emitted per block of the stable partition, named s0, s1, … in block order (see
// WithStatePrefix). The first member of each block is its representative: its transitions, retargeted to
// blocks, and its output or acceptance become the block's. States unreachable from the new start are
// then pruned. Minimizing a minimal automaton yields an isomorphic one.
func Minimize(a *Automaton, opts ...Option) (*Automaton, error) {
	p, err := Refine(a)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(a.kind, append([]Option{WithStatePrefix("s")}, opts...)...)
	for _, sym := range a.alphabet {
		b.declare(sym)
	}
	for range p.blocks {
		b.CreateState()
	}
	for i, blk := range p.blocks {
		rep := blk[0]
		switch a.kind {
		case Moore:
			b.outputs[i] = a.outputs[rep]
		case Acceptor:
			b.isAccept.SetTo(uint(i), a.IsAccept(rep))
		}
		for _, t := range a.states[rep] {
			b.addEdge(i, p.blockOf[t.Dest], t.Symbol, t.Output)
		}
	}
	b.start = p.blockOf[a.start]

	q, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return RemoveUnreachable(q), nil
}
