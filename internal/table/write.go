package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/geange/fsm"
)

// columns orders states for output: the start state first, the others in
// state order.
func columns(a *fsm.Automaton) []int {
	cols := []int{a.Start()}
	for s := 0; s < a.GetNumStates(); s++ {
		if s != a.Start() {
			cols = append(cols, s)
		}
	}
	return cols
}

func hasEpsilon(a *fsm.Automaton) bool {
	for s := 0; s < a.GetNumStates(); s++ {
		if len(a.Targets(s, fsm.Epsilon)) > 0 {
			return true
		}
	}
	return false
}

func joinTargets(a *fsm.Automaton, dests []int) string {
	names := make([]string, len(dests))
	for i, d := range dests {
		names[i] = a.Name(d)
	}
	return strings.Join(names, ",")
}

func mealyCell(a *fsm.Automaton, state int, symbol string) string {
	var parts []string
	for _, t := range a.Transitions(state) {
		if t.Symbol == symbol {
			parts = append(parts, a.Name(t.Dest)+"/"+t.Output)
		}
	}
	return strings.Join(parts, ",")
}

// Records lays a out as table cells. The layout is only used for Mealy
// machines.
func Records(a *fsm.Automaton, layout Layout) [][]string {
	cols := columns(a)
	alphabet := a.Alphabet()

	if a.Kind() == fsm.Mealy && layout == MealyByRows {
		records := [][]string{append([]string{cornerByRows}, alphabet...)}
		for _, s := range cols {
			record := []string{a.Name(s)}
			for _, sym := range alphabet {
				record = append(record, mealyCell(a, s, sym))
			}
			records = append(records, record)
		}
		return records
	}

	names := []string{""}
	for _, s := range cols {
		names = append(names, a.Name(s))
	}

	var records [][]string
	switch a.Kind() {
	case fsm.Mealy:
		records = [][]string{names}
	case fsm.Moore:
		outputs := []string{""}
		for _, s := range cols {
			outputs = append(outputs, a.Output(s))
		}
		records = [][]string{outputs, names}
	case fsm.Acceptor:
		flags := []string{""}
		for _, s := range cols {
			if a.IsAccept(s) {
				flags = append(flags, "F")
			} else {
				flags = append(flags, "")
			}
		}
		records = [][]string{flags, names}
		if hasEpsilon(a) {
			alphabet = append(alphabet, fsm.Epsilon)
		}
	}

	for _, sym := range alphabet {
		record := []string{sym}
		for _, s := range cols {
			if a.Kind() == fsm.Mealy {
				record = append(record, mealyCell(a, s, sym))
			} else {
				record = append(record, joinTargets(a, a.Targets(s, sym)))
			}
		}
		records = append(records, record)
	}
	return records
}

// Write stores a as a semicolon separated table.
func Write(w io.Writer, a *fsm.Automaton, layout Layout) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	if err := cw.WriteAll(Records(a, layout)); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// Render draws a as a bordered text table for terminals. Moore outputs and
// acceptor F markers form the first row under the state names.
func Render(w io.Writer, a *fsm.Automaton, layout Layout) error {
	records := Records(a, layout)
	header, body := records[0], records[1:]
	if a.Kind() != fsm.Mealy {
		header = records[1]
		body = append([][]string{records[0]}, records[2:]...)
	}

	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range body {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
