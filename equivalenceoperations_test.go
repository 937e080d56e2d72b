package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoStateMoore(t testing.TB, names [2]string, outputs [2]string) *Automaton {
	return newTestMachine(t, Moore,
		names[:], outputs[:], nil,
		[][4]string{
			{names[0], "a", names[1]},
			{names[0], "b", names[0]},
			{names[1], "a", names[0]},
			{names[1], "b", names[1]},
		})
}

func TestEquivalent(t *testing.T) {
	m1 := twoStateMoore(t, [2]string{"q0", "q1"}, [2]string{"0", "1"})

	tests := []struct {
		name string
		m2   *Automaton
		want bool
	}{
		{"renamed", twoStateMoore(t, [2]string{"p", "r"}, [2]string{"0", "1"}), true},
		{"output changed", twoStateMoore(t, [2]string{"p", "r"}, [2]string{"0", "0"}), false},
		{"start output changed", twoStateMoore(t, [2]string{"p", "r"}, [2]string{"1", "1"}), false},
		{"missing transition", newTestMachine(t, Moore,
			[]string{"p", "r"}, []string{"0", "1"}, nil,
			[][4]string{
				{"p", "a", "r"},
				{"p", "b", "p"},
				{"r", "a", "p"},
			}), false},
		{"extra symbol", newTestMachine(t, Moore,
			[]string{"p", "r"}, []string{"0", "1"}, nil,
			[][4]string{
				{"p", "a", "r"},
				{"p", "b", "p"},
				{"p", "c", "p"},
				{"r", "a", "p"},
				{"r", "b", "r"},
			}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equivalent(m1, tt.m2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			got, err = Equivalent(tt.m2, m1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "symmetric")
		})
	}
}

func TestEquivalent_Reflexive(t *testing.T) {
	m := redundantMealy(t)
	moore, err := MealyToMoore(m)
	require.NoError(t, err)

	eq, err := Equivalent(moore, moore)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEquivalent_Injective(t *testing.T) {
	// behaviourally the same, but q1 and q2 would both have to map to p1
	m1 := newTestMachine(t, Moore,
		[]string{"q0", "q1", "q2"}, []string{"0", "1", "1"}, nil,
		[][4]string{
			{"q0", "a", "q1"},
			{"q0", "b", "q2"},
			{"q1", "a", "q1"},
			{"q2", "a", "q2"},
		})
	m2 := newTestMachine(t, Moore,
		[]string{"p0", "p1"}, []string{"0", "1"}, nil,
		[][4]string{
			{"p0", "a", "p1"},
			{"p0", "b", "p1"},
			{"p1", "a", "p1"},
		})

	eq, err := Equivalent(m1, m2)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEquivalent_Nondeterministic(t *testing.T) {
	m1 := newTestMachine(t, Moore,
		[]string{"A", "B", "C"}, []string{"0", "1", "2"}, nil,
		[][4]string{
			{"A", "a", "B"},
			{"A", "a", "C"},
		})
	m2 := newTestMachine(t, Moore,
		[]string{"X", "Y", "Z"}, []string{"0", "1", "2"}, nil,
		[][4]string{
			{"X", "a", "Y"},
			{"X", "a", "Z"},
		})

	eq, err := Equivalent(m1, m2)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEquivalent_RequiresMoore(t *testing.T) {
	moore := twoStateMoore(t, [2]string{"q0", "q1"}, [2]string{"0", "1"})
	mealy, err := MooreToMealy(moore)
	require.NoError(t, err)

	_, err = Equivalent(moore, mealy)
	assert.ErrorIs(t, err, ErrMalformedAutomaton)
	_, err = Equivalent(mealy, moore)
	assert.ErrorIs(t, err, ErrMalformedAutomaton)
}
