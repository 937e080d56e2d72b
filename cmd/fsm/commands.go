package main

import (
	"fmt"
	"io"
	"os"

	u "github.com/araddon/gou"

	"github.com/geange/fsm"
	"github.com/geange/fsm/internal/config"
	"github.com/geange/fsm/internal/grammar"
	"github.com/geange/fsm/internal/lexer"
	"github.com/geange/fsm/internal/table"
)

type env struct {
	conf   *config.Config
	stdout io.Writer
}

type command struct {
	name  string
	usage string
	nargs int
	exec  func(e *env, args []string) error
}

var commands = []command{
	{"mealy-to-moore", "in out", 2, mealyToMoore},
	{"moore-to-mealy", "in out", 2, mooreToMealy},
	{"minimize", "mealy|moore|dfa in out", 3, minimize},
	{"determinize", "in out", 2, determinize},
	{"regex", "out pattern", 2, regex},
	{"grammar", "in out", 2, convertGrammar},
	{"equiv", "a b", 2, equiv},
	{"lex", "in out", 2, lex},
	{"show", "mealy|moore|nfa|auto in", 2, show},
	{"run", "mealy|moore|nfa in", 2, interactive},
}

func lookup(name string, nargs int) (*command, error) {
	for i := range commands {
		c := &commands[i]
		if c.name != name {
			continue
		}
		if nargs != c.nargs {
			return nil, fmt.Errorf("usage: fsm %s %s", c.name, c.usage)
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown command %q", name)
}

func parseKind(s string) (fsm.Kind, error) {
	switch s {
	case "mealy":
		return fsm.Mealy, nil
	case "moore":
		return fsm.Moore, nil
	case "nfa", "dfa", "acceptor":
		return fsm.Acceptor, nil
	}
	return fsm.Acceptor, fmt.Errorf("unknown automaton kind %q", s)
}

func (e *env) read(path string, kind fsm.Kind) (*fsm.Automaton, table.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, table.MealyByHeader, err
	}
	defer f.Close()

	a, layout, err := table.Read(f, kind)
	if err != nil {
		return nil, layout, fmt.Errorf("%s: %w", path, err)
	}
	return a, layout, nil
}

// readAuto reads a Mealy or Moore table, whichever it looks like.
func (e *env) readAuto(path string) (*fsm.Automaton, table.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, table.MealyByHeader, err
	}
	defer f.Close()

	records, err := table.ReadRecords(f)
	if err != nil {
		return nil, table.MealyByHeader, fmt.Errorf("%s: %w", path, err)
	}
	kind, _ := table.Detect(records)
	a, layout, err := table.FromRecords(records, kind)
	if err != nil {
		return nil, layout, fmt.Errorf("%s: %w", path, err)
	}
	return a, layout, nil
}

func (e *env) write(path string, a *fsm.Automaton, layout table.Layout) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err = table.Write(f, a, layout); err != nil {
		return err
	}
	u.Infof("wrote %s %s: %d states, %d transitions", a.Kind(), path, a.GetNumStates(), a.GetNumTransitions())
	if e.conf.Pretty {
		return table.Render(e.stdout, a, layout)
	}
	return nil
}

func (e *env) layout() table.Layout {
	layout, _ := e.conf.Layout()
	return layout
}

func mealyToMoore(e *env, args []string) error {
	m, _, err := e.read(args[0], fsm.Mealy)
	if err != nil {
		return err
	}
	moore, err := fsm.MealyToMoore(m, e.conf.Moore()...)
	if err != nil {
		return err
	}
	return e.write(args[1], moore, table.MealyByHeader)
}

func mooreToMealy(e *env, args []string) error {
	m, _, err := e.read(args[0], fsm.Moore)
	if err != nil {
		return err
	}
	mealy, err := fsm.MooreToMealy(m)
	if err != nil {
		return err
	}
	return e.write(args[1], mealy, e.layout())
}

func minimize(e *env, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	a, layout, err := e.read(args[1], kind)
	if err != nil {
		return err
	}
	minimal, err := fsm.Minimize(a, e.conf.Min()...)
	if err != nil {
		return err
	}
	u.Infof("minimized %d states to %d", a.GetNumStates(), minimal.GetNumStates())
	return e.write(args[2], minimal, layout)
}

func determinize(e *env, args []string) error {
	nfa, _, err := e.read(args[0], fsm.Acceptor)
	if err != nil {
		return err
	}
	dfa, err := fsm.Determinize(nfa, e.conf.DFA()...)
	if err != nil {
		return err
	}
	return e.write(args[1], dfa, table.MealyByHeader)
}

func regex(e *env, args []string) error {
	nfa, err := fsm.Compile(args[1], e.conf.NFA()...)
	if err != nil {
		return err
	}
	return e.write(args[0], nfa, table.MealyByHeader)
}

func convertGrammar(e *env, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	nfa, err := grammar.Convert(f, e.conf.NFA()...)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return e.write(args[1], nfa, table.MealyByHeader)
}

func equiv(e *env, args []string) error {
	a, _, err := e.read(args[0], fsm.Moore)
	if err != nil {
		return err
	}
	b, _, err := e.read(args[1], fsm.Moore)
	if err != nil {
		return err
	}
	eq, err := fsm.Equivalent(a, b)
	if err != nil {
		return err
	}
	if eq {
		_, err = fmt.Fprintln(e.stdout, "equivalent")
	} else {
		_, err = fmt.Fprintln(e.stdout, "not equivalent")
	}
	return err
}

func lex(e *env, args []string) (err error) {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return lexer.Write(f, tokens)
}

func show(e *env, args []string) error {
	var (
		a      *fsm.Automaton
		layout table.Layout
		err    error
	)
	if args[0] == "auto" {
		a, layout, err = e.readAuto(args[1])
	} else {
		var kind fsm.Kind
		if kind, err = parseKind(args[0]); err != nil {
			return err
		}
		a, layout, err = e.read(args[1], kind)
	}
	if err != nil {
		return err
	}
	return table.Render(e.stdout, a, layout)
}
