package table

import (
	"bytes"
	"strings"
	"testing"

	u "github.com/araddon/gou"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geange/fsm"
)

func init() {
	u.SetupLogging("debug")
	u.SetColorOutput()
}

const mealyByHeaderTable = `;a1;a2;a3
x1;a1/y1;a3/y2;a1/y2
x2;a2/y2;a1/y1;a3/y1
`

const mealyByRowsTable = `state;x1;x2
a1;a1/y1;a2/y2
a2;a3/y2;a1/y1
a3;a1/y2;a3/y1
`

const mooreTable = `;y1;y2;y1
;b0;b1;b2
x1;b1;b2;b0
x2;b0;b0;b2
`

const nfaTable = `;;;F
;q0;q1;q2
a;q0,q1;-;
b;q0;q2;
ε;;q2;
`

func states(t *testing.T, a *fsm.Automaton) map[string][]fsm.Transition {
	t.Helper()
	out := make(map[string][]fsm.Transition)
	for s := 0; s < a.GetNumStates(); s++ {
		out[a.Name(s)] = a.Transitions(s)
	}
	return out
}

func TestRead_Mealy(t *testing.T) {
	byHeader, layout, err := Read(strings.NewReader(mealyByHeaderTable), fsm.Mealy)
	require.NoError(t, err)
	assert.Equal(t, MealyByHeader, layout)
	assert.Equal(t, []string{"a1", "a2", "a3"}, byHeader.States())
	assert.Equal(t, []string{"x1", "x2"}, byHeader.Alphabet())

	tr, ok := byHeader.Next(1, "x1")
	require.True(t, ok)
	assert.Equal(t, "a3", byHeader.Name(tr.Dest))
	assert.Equal(t, "y2", tr.Output)

	byRows, layout, err := Read(strings.NewReader(mealyByRowsTable), fsm.Mealy)
	require.NoError(t, err)
	assert.Equal(t, MealyByRows, layout)
	assert.Equal(t, byHeader.States(), byRows.States())
	assert.Equal(t, states(t, byHeader), states(t, byRows))
}

func TestRead_Moore(t *testing.T) {
	m, _, err := Read(strings.NewReader(mooreTable), fsm.Moore)
	require.NoError(t, err)
	assert.Equal(t, []string{"b0", "b1", "b2"}, m.States())
	assert.Equal(t, "y2", m.Output(1))
	assert.Equal(t, 2, m.Step(1, "x1"))
	assert.Equal(t, 0, m.Start())
}

func TestRead_Acceptor(t *testing.T) {
	a, _, err := Read(strings.NewReader(nfaTable), fsm.Acceptor)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, a.Alphabet())
	assert.True(t, a.IsAccept(2))
	assert.False(t, a.IsAccept(0))
	assert.Equal(t, []int{0, 1}, a.Targets(0, "a"))
	assert.Equal(t, []int{2}, a.Targets(1, fsm.Epsilon))
	assert.False(t, a.IsDeterministic())

	ok, err := fsm.Accepts(a, []string{"b", "a", "b"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		kind  fsm.Kind
		table string
	}{
		{"undeclared destination", fsm.Mealy, ";a;b\nx;a/1;c/2\n"},
		{"cell without output", fsm.Mealy, ";a;b\nx;a;b/2\n"},
		{"row too wide", fsm.Moore, ";1;2\n;a;b\nx;a;b;a\n"},
		{"duplicate state", fsm.Moore, ";1;2\n;a;a\nx;a;a\n"},
		{"missing names row", fsm.Acceptor, ";F\n"},
		{"epsilon in a moore alphabet", fsm.Moore, ";1\n;a\nε;a\n"},
		{"empty", fsm.Mealy, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(tt.table), tt.kind)
			assert.ErrorIs(t, err, fsm.ErrMalformedAutomaton)
		})
	}
}

func TestDetect(t *testing.T) {
	for _, tt := range []struct {
		table  string
		kind   fsm.Kind
		layout Layout
	}{
		{mealyByHeaderTable, fsm.Mealy, MealyByHeader},
		{mealyByRowsTable, fsm.Mealy, MealyByRows},
		{mooreTable, fsm.Moore, MealyByHeader},
	} {
		records, err := ReadRecords(strings.NewReader(tt.table))
		require.NoError(t, err)
		kind, layout := Detect(records)
		assert.Equal(t, tt.kind, kind)
		assert.Equal(t, tt.layout, layout)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name   string
		kind   fsm.Kind
		table  string
		layout Layout
	}{
		{"mealy by header", fsm.Mealy, mealyByHeaderTable, MealyByHeader},
		{"mealy by rows", fsm.Mealy, mealyByRowsTable, MealyByRows},
		{"moore", fsm.Moore, mooreTable, MealyByHeader},
		{"acceptor", fsm.Acceptor, nfaTable, MealyByHeader},
	} {
		t.Run(tt.name, func(t *testing.T) {
			a, layout, err := Read(strings.NewReader(tt.table), tt.kind)
			require.NoError(t, err)
			require.Equal(t, tt.layout, layout)

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, a, layout))

			b, layout2, err := Read(&buf, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, layout, layout2)
			assert.Equal(t, a.States(), b.States())
			assert.Equal(t, a.Alphabet(), b.Alphabet())
			assert.Equal(t, states(t, a), states(t, b))
			for s := 0; s < a.GetNumStates(); s++ {
				assert.Equal(t, a.IsAccept(s), b.IsAccept(s))
				assert.Equal(t, a.Output(s), b.Output(s))
			}
		})
	}
}

func TestWrite_StartFirst(t *testing.T) {
	nfa, err := fsm.Compile("a|b")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nfa, MealyByHeader))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, ";;;;;;F", lines[0])
	assert.Equal(t, ";q4;q0;q1;q2;q3;q5", lines[1])
	assert.Equal(t, "ε;q0,q2;;q5;;q5;", lines[4])

	back, _, err := Read(&buf, fsm.Acceptor)
	require.NoError(t, err)
	for _, w := range []string{"a", "b", "", "ab"} {
		assert.Equal(t, fsm.Run(nfa, w), fsm.Run(back, w), w)
	}
}

func TestRender(t *testing.T) {
	m, _, err := Read(strings.NewReader(mooreTable), fsm.Moore)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, m, MealyByHeader))
	out := buf.String()
	for _, want := range []string{"B0", "B1", "B2", "y1", "x2"} {
		assert.Contains(t, strings.ToUpper(out), strings.ToUpper(want))
	}
}
