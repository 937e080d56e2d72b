package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMachine builds an automaton whose start state is states[0]. Each edge
// is {source, symbol, dest, output}; outputs are per state for Moore machines.
func newTestMachine(t testing.TB, kind Kind, states, outputs, accept []string, edges [][4]string) *Automaton {
	t.Helper()
	b := NewBuilder(kind)
	for i, name := range states {
		s, err := b.CreateNamedState(name)
		require.NoError(t, err)
		if kind == Moore {
			require.NoError(t, b.SetOutput(s, outputs[i]))
		}
	}
	for _, name := range accept {
		s, ok := b.index[name]
		require.True(t, ok, name)
		require.NoError(t, b.SetAccept(s, true))
	}
	for _, e := range edges {
		src, dest := b.index[e[0]], b.index[e[2]]
		switch {
		case e[1] == Epsilon:
			require.NoError(t, b.AddEpsilon(src, dest))
		case kind == Mealy:
			require.NoError(t, b.AddOutputTransition(src, dest, e[1], e[3]))
		default:
			require.NoError(t, b.AddTransition(src, dest, e[1]))
		}
	}
	require.NoError(t, b.SetStart(0))
	a, err := b.Finish()
	require.NoError(t, err)
	return a
}

func TestBuilder_CreateState(t *testing.T) {
	b := NewBuilder(Acceptor)
	assert.Equal(t, 0, b.CreateState())
	assert.Equal(t, 1, b.CreateState())
	assert.Equal(t, 2, b.NumStates())

	t.Run("named", func(t *testing.T) {
		s, err := b.CreateNamedState("q3")
		require.NoError(t, err)
		assert.Equal(t, 2, s)

		_, err = b.CreateNamedState("q3")
		assert.ErrorIs(t, err, ErrMalformedAutomaton)
		_, err = b.CreateNamedState("")
		assert.ErrorIs(t, err, ErrMalformedAutomaton)
	})

	t.Run("generated names avoid taken ones", func(t *testing.T) {
		s := b.CreateState()
		require.NoError(t, b.SetStart(0))
		a, err := b.Finish()
		require.NoError(t, err)
		assert.Equal(t, "q3'", a.Name(s))
		assert.Equal(t, []string{"q0", "q1", "q3", "q3'"}, a.States())
	})

	t.Run("prefix", func(t *testing.T) {
		b := NewBuilder(Moore, WithStatePrefix("R"))
		b.CreateState()
		require.NoError(t, b.SetStart(0))
		a, err := b.Finish()
		require.NoError(t, err)
		assert.Equal(t, "R0", a.Name(0))
	})
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"epsilon in alphabet", func() error {
			return NewBuilder(Acceptor).DeclareSymbol(Epsilon)
		}},
		{"empty symbol", func() error {
			return NewBuilder(Acceptor).DeclareSymbol("")
		}},
		{"undeclared start", func() error {
			return NewBuilder(Acceptor).SetStart(0)
		}},
		{"undeclared dest", func() error {
			b := NewBuilder(Acceptor)
			s := b.CreateState()
			return b.AddTransition(s, 7, "a")
		}},
		{"accept on moore", func() error {
			b := NewBuilder(Moore)
			return b.SetAccept(b.CreateState(), true)
		}},
		{"output on mealy", func() error {
			b := NewBuilder(Mealy)
			return b.SetOutput(b.CreateState(), "1")
		}},
		{"mealy edge without output", func() error {
			b := NewBuilder(Mealy)
			s := b.CreateState()
			return b.AddTransition(s, s, "a")
		}},
		{"output edge on acceptor", func() error {
			b := NewBuilder(Acceptor)
			s := b.CreateState()
			return b.AddOutputTransition(s, s, "a", "1")
		}},
		{"epsilon on moore", func() error {
			b := NewBuilder(Moore)
			s := b.CreateState()
			return b.AddEpsilon(s, s)
		}},
		{"no states", func() error {
			_, err := NewBuilder(Acceptor).Finish()
			return err
		}},
		{"no start", func() error {
			b := NewBuilder(Acceptor)
			b.CreateState()
			_, err := b.Finish()
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedAutomaton)
			var me *MalformedAutomatonError
			assert.ErrorAs(t, err, &me)
		})
	}
}

func TestBuilder_Finish(t *testing.T) {
	a := newTestMachine(t, Acceptor,
		[]string{"p", "q", "r"}, nil, []string{"r"},
		[][4]string{
			{"p", "b", "r"},
			{"p", "a", "r"},
			{"p", "a", "q"},
			{"p", "a", "q"},
			{"q", Epsilon, "r"},
		})

	assert.Equal(t, Acceptor, a.Kind())
	assert.Equal(t, []string{"b", "a"}, a.Alphabet(), "alphabet keeps declaration order")
	assert.False(t, a.HasSymbol(Epsilon))
	assert.Equal(t, 4, a.GetNumTransitions(), "exact duplicates are dropped")
	assert.Equal(t, []int{1, 2}, a.Targets(0, "a"))
	assert.Equal(t, []int{2}, a.Targets(0, "b"))
	assert.Equal(t, []int{2}, a.Targets(1, Epsilon))
	assert.Nil(t, a.Targets(2, "a"))
	assert.Nil(t, a.Targets(0, "z"))
	assert.False(t, a.IsDeterministic())

	ts := a.Transitions(0)
	assert.Equal(t, "b", ts[0].Symbol, "transitions are sorted by alphabet position")
	ts[0].Dest = 0
	assert.Equal(t, 2, a.Transitions(0)[0].Dest, "Transitions returns a copy")

	s, ok := a.StateIndex("r")
	assert.True(t, ok)
	assert.True(t, a.IsAccept(s))
	assert.False(t, a.IsAccept(0))
}

func TestAutomaton_Step(t *testing.T) {
	m := newTestMachine(t, Mealy,
		[]string{"A", "B"}, nil, nil,
		[][4]string{
			{"A", "x", "B", "0"},
			{"B", "x", "A", "1"},
			{"B", "y", "B", "0"},
		})

	assert.True(t, m.IsDeterministic())
	assert.Equal(t, 1, m.Step(0, "x"))
	assert.Equal(t, -1, m.Step(0, "y"))
	assert.Equal(t, -1, m.Step(0, "z"))

	tr, ok := m.Next(1, "x")
	assert.True(t, ok)
	assert.Equal(t, Transition{Source: 1, Dest: 0, Symbol: "x", Output: "1"}, tr)
	assert.Equal(t, 2, m.GetNumTransitionsWithState(1))
	assert.Equal(t, "", m.Output(0))
}

func TestStateCounter(t *testing.T) {
	var c StateCounter
	assert.Equal(t, 0, c.Next())
	assert.Equal(t, 1, c.Next())
	assert.Equal(t, 2, c.Count())
}
