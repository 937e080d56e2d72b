package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpsilonClosure(t *testing.T) {
	nfa, err := Compile("a*b")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 3, 4}, EpsilonClosure(nfa, nfa.Start()))
	assert.Equal(t, []int{0, 1, 3, 4}, EpsilonClosure(nfa, 1))
	assert.Equal(t, []int{5}, EpsilonClosure(nfa, 5))
	assert.Empty(t, EpsilonClosure(nfa))

	t.Run("cycle", func(t *testing.T) {
		a := newTestMachine(t, Acceptor,
			[]string{"p", "q", "r"}, nil, nil,
			[][4]string{
				{"p", Epsilon, "q"},
				{"q", Epsilon, "p"},
				{"q", "x", "r"},
			})
		assert.Equal(t, []int{0, 1}, EpsilonClosure(a, 0))
	})
}

func TestDeterminize(t *testing.T) {
	nfa, err := Compile("a*b")
	require.NoError(t, err)

	dfa, err := Determinize(nfa)
	require.NoError(t, err)

	assert.True(t, dfa.IsDeterministic())
	assert.Equal(t, []string{"S0", "S1", "S2"}, dfa.States())
	assert.Equal(t, []string{"a", "b"}, dfa.Alphabet())
	assert.Equal(t, 0, dfa.Start())
	assert.Equal(t, 1, dfa.Step(0, "a"))
	assert.Equal(t, 2, dfa.Step(0, "b"))
	assert.Equal(t, 1, dfa.Step(1, "a"))
	assert.Equal(t, 2, dfa.Step(1, "b"))
	assert.Equal(t, -1, dfa.Step(2, "a"), "no sink state")
	assert.False(t, dfa.IsAccept(0))
	assert.False(t, dfa.IsAccept(1))
	assert.True(t, dfa.IsAccept(2))

	t.Run("prefix", func(t *testing.T) {
		dfa, err := Determinize(nfa, WithStatePrefix("D"))
		require.NoError(t, err)
		assert.Equal(t, "D2", dfa.Name(2))
	})

	t.Run("reproducible", func(t *testing.T) {
		again, err := Determinize(nfa)
		require.NoError(t, err)
		assert.Equal(t, dfa, again)
	})

	t.Run("hand written nfa", func(t *testing.T) {
		// words over {0,1} whose second to last symbol is 1
		a := newTestMachine(t, Acceptor,
			[]string{"p", "q", "r"}, nil, []string{"r"},
			[][4]string{
				{"p", "0", "p"},
				{"p", "1", "p"},
				{"p", "1", "q"},
				{"q", "0", "r"},
				{"q", "1", "r"},
			})
		require.False(t, a.IsDeterministic())

		dfa, err := Determinize(a)
		require.NoError(t, err)
		assert.Equal(t, 4, dfa.GetNumStates())
		for w, want := range map[string]bool{"10": true, "011": true, "0110": true, "01": false, "1": false, "": false} {
			assert.Equal(t, want, Run(dfa, w), w)
		}
	})

	t.Run("rejects transducers", func(t *testing.T) {
		m := newTestMachine(t, Moore, []string{"A"}, []string{"0"}, nil, nil)
		_, err := Determinize(m)
		assert.ErrorIs(t, err, ErrMalformedAutomaton)
	})
}

func TestIsEmptyAutomaton(t *testing.T) {
	a, err := Compile("ab")
	require.NoError(t, err)
	assert.False(t, IsEmptyAutomaton(a))

	empty := newTestMachine(t, Acceptor,
		[]string{"p", "q", "r"}, nil, []string{"r"},
		[][4]string{{"p", "a", "q"}, {"q", "a", "p"}})
	assert.True(t, IsEmptyAutomaton(empty))
}

func TestRemoveUnreachable(t *testing.T) {
	a := newTestMachine(t, Moore,
		[]string{"A", "B", "C", "D"}, []string{"0", "1", "2", "3"}, nil,
		[][4]string{
			{"A", "x", "C"},
			{"B", "x", "A"},
			{"C", "y", "A"},
			{"D", "x", "D"},
		})

	pruned := RemoveUnreachable(a)
	assert.Equal(t, []string{"A", "C"}, pruned.States())
	assert.Equal(t, []string{"0", "2"}, []string{pruned.Output(0), pruned.Output(1)})
	assert.Equal(t, 1, pruned.Step(0, "x"))
	assert.Equal(t, 0, pruned.Step(1, "y"))
	assert.Equal(t, a.Alphabet(), pruned.Alphabet())

	assert.Same(t, pruned, RemoveUnreachable(pruned))
}
