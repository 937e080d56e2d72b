// Package grammar turns regular (right- or left-linear) grammars into
// nondeterministic finite acceptors.
//
// A grammar is a list of rules, one per line:
//
//	<S> -> a<A> | b<S> | c
//	<A> -> a
//
// Lines starting with whitespace continue the previous rule. Nonterminals are
// written in angle brackets and terminals are single characters. The side on
// which the first alternative places its nonterminal decides the grammar type:
// "<A>a" makes a left-linear grammar, "a<A>" or "a" a right-linear one.
package grammar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	u "github.com/araddon/gou"

	"github.com/geange/fsm"
)

// Final is the implicit nonterminal standing for the end of a derivation.
const Final = "H"

// Type tells which side of an alternative carries the nonterminal.
type Type int

const (
	Right Type = iota // A -> aB | a
	Left              // A -> Ba | a
)

func (t Type) String() string {
	if t == Left {
		return "left"
	}
	return "right"
}

// Alternative is one right-hand side of a rule. At most one of Before and
// After is set in a well-formed grammar.
type Alternative struct {
	Before   string `parser:"@Nonterminal?"`
	Terminal string `parser:"@Terminal"`
	After    string `parser:"@Nonterminal?"`
}

// Rule is a nonterminal with its alternatives. Pos.Line is the line of the
// grammar the rule starts on.
type Rule struct {
	Pos lexer.Position

	Head         string         `parser:"@Nonterminal '->'"`
	Alternatives []*Alternative `parser:"@@ ( '|' @@ )*"`
}

var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Nonterminal", Pattern: `<[^<>]+>`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Bar", Pattern: `\|`},
	{Name: "Terminal", Pattern: `[^\s<>|]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var ruleParser = participle.MustBuild[Rule](
	participle.Lexer(ruleLexer),
	participle.Elide("Whitespace"),
	participle.Map(func(t lexer.Token) (lexer.Token, error) {
		t.Value = strings.TrimSpace(strings.Trim(t.Value, "<>"))
		return t, nil
	}, "Nonterminal"),
)

// Grammar is a parsed regular grammar.
type Grammar struct {
	Type  Type
	Rules []*Rule
}

type line struct {
	no   int
	text string
}

// joinLines folds continuation lines into the rule they continue and drops
// blank lines.
func joinLines(r io.Reader) ([]line, error) {
	var out []line
	sc := bufio.NewScanner(r)
	for no := 1; sc.Scan(); no++ {
		text := strings.TrimRightFunc(sc.Text(), unicode.IsSpace)
		if text == "" {
			continue
		}
		if unicode.IsSpace([]rune(text)[0]) && len(out) > 0 {
			out[len(out)-1].text += " " + strings.TrimSpace(text)
			continue
		}
		out = append(out, line{no: no, text: strings.TrimSpace(text)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	return out, nil
}

// Parse reads a grammar. Syntax errors are reported as *fsm.SyntaxError
// wrapped with the line they occur on.
func Parse(r io.Reader) (*Grammar, error) {
	lines, err := joinLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &fsm.MalformedAutomatonError{Msg: "empty grammar"}
	}

	g := &Grammar{}
	for _, l := range lines {
		rule, err := ruleParser.ParseString("", l.text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", l.no, syntaxError(err))
		}
		rule.Pos.Line = l.no
		g.Rules = append(g.Rules, rule)
	}
	if g.Rules[0].Alternatives[0].Before != "" {
		g.Type = Left
	}
	return g, nil
}

// ParseString reads a grammar held in a string.
func ParseString(s string) (*Grammar, error) {
	return Parse(strings.NewReader(s))
}

func syntaxError(err error) error {
	var perr participle.Error
	if !errors.As(err, &perr) {
		return err
	}
	return &fsm.SyntaxError{Pos: perr.Position().Column - 1, Msg: perr.Message()}
}

// edge is one transition derived from an alternative.
type edge struct {
	src, terminal, dst string
}

func (g *Grammar) edges() []edge {
	var out []edge
	for _, rule := range g.Rules {
		for _, alt := range rule.Alternatives {
			switch {
			case g.Type == Left && alt.Before != "":
				out = append(out, edge{alt.Before, alt.Terminal, rule.Head})
			case g.Type == Left:
				out = append(out, edge{Final, alt.Terminal, rule.Head})
			case alt.Before != "":
				out = append(out, edge{rule.Head, alt.Terminal, alt.Before})
			case alt.After != "":
				out = append(out, edge{rule.Head, alt.Terminal, alt.After})
			default:
				out = append(out, edge{rule.Head, alt.Terminal, Final})
			}
		}
	}
	return out
}

// order lists the nonterminals in the order their states are numbered.
//
// For a right-linear grammar that is the order of the rule heads, followed by
// Final when some alternative ends a derivation; the first head is the start.
// For a left-linear grammar Final comes first as the start, followed by the
// heads in reverse, so that the first head (the axiom) comes last.
func (g *Grammar) order(edges []edge) []string {
	var heads []string
	for _, rule := range g.Rules {
		if !slices.Contains(heads, rule.Head) {
			heads = append(heads, rule.Head)
		}
	}
	if g.Type == Right {
		if !slices.Contains(heads, Final) && slices.ContainsFunc(edges, func(e edge) bool { return e.dst == Final }) {
			heads = append(heads, Final)
		}
		return heads
	}
	heads = slices.DeleteFunc(heads, func(h string) bool { return h == Final })
	slices.Reverse(heads)
	return append([]string{Final}, heads...)
}

// terminals returns the terminals with digits first, each group sorted.
func terminals(edges []edge) []string {
	var out []string
	for _, e := range edges {
		out = append(out, e.terminal)
	}
	slices.SortFunc(out, func(a, b string) int {
		da, db := isDigit(a), isDigit(b)
		if da != db {
			if da {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})
	return slices.Compact(out)
}

func isDigit(s string) bool {
	r := []rune(s)
	return len(r) == 1 && unicode.IsDigit(r[0])
}

// ToAutomaton builds the acceptor of the grammar. States are created in the
// order described on order, named by the builder's prefix, and the last one is
// the only accept state.
func (g *Grammar) ToAutomaton(opts ...fsm.Option) (*fsm.Automaton, error) {
	edges := g.edges()
	order := g.order(edges)

	b := fsm.NewBuilder(fsm.Acceptor, opts...)
	states := make(map[string]int, len(order))
	for _, nt := range order {
		states[nt] = b.CreateState()
	}
	for _, t := range terminals(edges) {
		if err := b.DeclareSymbol(t); err != nil {
			return nil, err
		}
	}
	if err := b.SetStart(0); err != nil {
		return nil, err
	}
	if err := b.SetAccept(len(order)-1, true); err != nil {
		return nil, err
	}

	for _, e := range edges {
		src, ok := states[e.src]
		if !ok {
			return nil, &fsm.MalformedAutomatonError{State: e.src, Msg: "nonterminal has no rule"}
		}
		dst, ok := states[e.dst]
		if !ok {
			return nil, &fsm.MalformedAutomatonError{State: e.dst, Msg: "nonterminal has no rule"}
		}
		if err := b.AddTransition(src, dst, e.terminal); err != nil {
			return nil, err
		}
	}
	u.Debugf("%s-linear grammar: %d rules, states %v", g.Type, len(g.Rules), order)
	return b.Finish()
}

// Convert parses a grammar and builds its acceptor.
func Convert(r io.Reader, opts ...fsm.Option) (*fsm.Automaton, error) {
	g, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return g.ToAutomaton(opts...)
}
