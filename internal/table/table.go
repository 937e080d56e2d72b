// Package table reads and writes automata as semicolon separated transition
// tables, the exchange format of the fsm command.
//
// Every layout puts one state per column (or per row for MealyByRows) and one
// input symbol per row. The first state listed is the start state. An empty
// cell or "-" means no transition; several destinations are separated by ",".
//
//	Mealy, by header      Moore                 Acceptor
//	;S0;S1                ;y1;y2                ;;F
//	a;S1/y1;S0/y2         ;S0;S1                ;q0;q1
//	b;S0/y2;S1/y1         a;S1;S0               a;q0,q1;-
//	                      b;S0;S1               ε;q1;
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	u "github.com/araddon/gou"

	"github.com/geange/fsm"
)

// Delimiter separates the cells of a row.
const Delimiter = ';'

// Layout tells how a Mealy table is laid out.
type Layout int

const (
	// MealyByHeader lists states in the header row and one input symbol per row.
	MealyByHeader Layout = iota
	// MealyByRows lists input symbols in the header row, after a non-empty
	// corner cell, and one state per row.
	MealyByRows
)

func (l Layout) String() string {
	if l == MealyByRows {
		return "by-rows"
	}
	return "by-header"
}

// cornerByRows is written in the corner cell of MealyByRows tables so that
// Detect can tell the two Mealy layouts apart.
const cornerByRows = "state"

// ReadRecords splits a table into trimmed cells. Blank rows are dropped,
// except among the first two, which may legitimately be empty header rows
// (no accept states, empty outputs).
func ReadRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table: %w", err)
		}
		blank := true
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
			if record[i] != "" {
				blank = false
			}
		}
		if !blank || len(records) < 2 {
			records = append(records, record)
		}
	}
	return records, nil
}

// Detect guesses what a table describes: a Moore machine when the first cell
// of the second row is empty (that row holds state names), a Mealy machine
// otherwise. Acceptor tables look like Moore tables and are never detected.
func Detect(records [][]string) (fsm.Kind, Layout) {
	if len(records) >= 2 && records[1][0] == "" {
		return fsm.Moore, MealyByHeader
	}
	if len(records) > 0 && records[0][0] != "" {
		return fsm.Mealy, MealyByRows
	}
	return fsm.Mealy, MealyByHeader
}

// Read loads a table of the given kind. The layout is only meaningful for
// Mealy tables.
func Read(r io.Reader, kind fsm.Kind) (*fsm.Automaton, Layout, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, MealyByHeader, err
	}
	return FromRecords(records, kind)
}

// FromRecords builds an automaton of the given kind from table cells.
func FromRecords(records [][]string, kind fsm.Kind) (*fsm.Automaton, Layout, error) {
	var (
		a      *fsm.Automaton
		layout = MealyByHeader
		err    error
	)
	switch kind {
	case fsm.Mealy:
		_, layout = Detect(records)
		if layout == MealyByRows {
			a, err = mealyByRows(records)
		} else {
			a, err = mealyByHeader(records)
		}
	case fsm.Moore, fsm.Acceptor:
		a, err = twoHeaderRows(records, kind)
	default:
		err = malformed("unknown automaton kind %s", kind)
	}
	if err != nil {
		return nil, layout, err
	}
	u.Debugf("read %s table (%s): %d states, %d symbols", kind, layout, a.GetNumStates(), len(a.Alphabet()))
	return a, layout, nil
}

func malformed(format string, args ...any) error {
	return &fsm.MalformedAutomatonError{Msg: fmt.Sprintf(format, args...)}
}

// cell returns record[i], or "" past the end of a short row.
func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// targets splits a cell into its destinations.
func targets(c string) []string {
	if c == "" || c == "-" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(c, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type tableBuilder struct {
	*fsm.Builder
	states map[string]int
}

func newTableBuilder(kind fsm.Kind) *tableBuilder {
	return &tableBuilder{Builder: fsm.NewBuilder(kind), states: make(map[string]int)}
}

func (tb *tableBuilder) declare(names []string) error {
	if len(names) == 0 {
		return malformed("no states")
	}
	for _, name := range names {
		s, err := tb.CreateNamedState(name)
		if err != nil {
			return err
		}
		tb.states[name] = s
	}
	return tb.SetStart(0)
}

func (tb *tableBuilder) state(name string, row int) (int, error) {
	s, ok := tb.states[name]
	if !ok {
		return -1, &fsm.MalformedAutomatonError{State: name, Msg: fmt.Sprintf("undeclared state in row %d", row+1)}
	}
	return s, nil
}

// mealyEdges adds the transitions of one Mealy cell, each written dest/output.
func (tb *tableBuilder) mealyEdges(source int, symbol, c string, row int) error {
	for _, t := range targets(c) {
		dest, output, ok := strings.Cut(t, "/")
		if !ok {
			return malformed("row %d: cell %q is not dest/output", row+1, t)
		}
		d, err := tb.state(strings.TrimSpace(dest), row)
		if err != nil {
			return err
		}
		if err := tb.AddOutputTransition(source, d, symbol, strings.TrimSpace(output)); err != nil {
			return err
		}
	}
	return nil
}

func checkWidth(record []string, width, row int) error {
	if len(record) > width {
		return malformed("row %d has %d cells, expected at most %d", row+1, len(record), width)
	}
	return nil
}

func mealyByHeader(records [][]string) (*fsm.Automaton, error) {
	if len(records) == 0 {
		return nil, malformed("empty table")
	}
	tb := newTableBuilder(fsm.Mealy)
	names := records[0][1:]
	if err := tb.declare(names); err != nil {
		return nil, err
	}
	for row := 1; row < len(records); row++ {
		record := records[row]
		if err := checkWidth(record, len(names)+1, row); err != nil {
			return nil, err
		}
		symbol := record[0]
		if err := tb.DeclareSymbol(symbol); err != nil {
			return nil, err
		}
		for i := range names {
			if err := tb.mealyEdges(i, symbol, cell(record, i+1), row); err != nil {
				return nil, err
			}
		}
	}
	return tb.Finish()
}

func mealyByRows(records [][]string) (*fsm.Automaton, error) {
	if len(records) < 2 {
		return nil, malformed("no states")
	}
	tb := newTableBuilder(fsm.Mealy)
	symbols := records[0][1:]
	names := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		names = append(names, record[0])
	}
	if err := tb.declare(names); err != nil {
		return nil, err
	}
	for _, symbol := range symbols {
		if err := tb.DeclareSymbol(symbol); err != nil {
			return nil, err
		}
	}
	for row := 1; row < len(records); row++ {
		record := records[row]
		if err := checkWidth(record, len(symbols)+1, row); err != nil {
			return nil, err
		}
		for i, symbol := range symbols {
			if err := tb.mealyEdges(row-1, symbol, cell(record, i+1), row); err != nil {
				return nil, err
			}
		}
	}
	return tb.Finish()
}

// twoHeaderRows reads Moore tables (outputs row, names row) and acceptor
// tables (F markers row, names row).
func twoHeaderRows(records [][]string, kind fsm.Kind) (*fsm.Automaton, error) {
	if len(records) < 2 {
		return nil, malformed("a %s table needs two header rows", kind)
	}
	tb := newTableBuilder(kind)
	names := records[1][1:]
	if err := tb.declare(names); err != nil {
		return nil, err
	}
	if err := checkWidth(records[0], len(names)+1, 0); err != nil {
		return nil, err
	}
	for i := range names {
		marker := cell(records[0], i+1)
		var err error
		if kind == fsm.Moore {
			err = tb.SetOutput(i, marker)
		} else {
			err = tb.SetAccept(i, strings.EqualFold(marker, "F"))
		}
		if err != nil {
			return nil, err
		}
	}

	for row := 2; row < len(records); row++ {
		record := records[row]
		if err := checkWidth(record, len(names)+1, row); err != nil {
			return nil, err
		}
		symbol := record[0]
		silent := kind == fsm.Acceptor && symbol == fsm.Epsilon
		if !silent {
			if err := tb.DeclareSymbol(symbol); err != nil {
				return nil, err
			}
		}
		for i := range names {
			for _, t := range targets(cell(record, i+1)) {
				d, err := tb.state(t, row)
				if err != nil {
					return nil, err
				}
				if silent {
					err = tb.AddEpsilon(i, d)
				} else {
					err = tb.AddTransition(i, d, symbol)
				}
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return tb.Finish()
}
