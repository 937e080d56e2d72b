package fsm

import (
	"slices"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenLiteral tokenKind = iota // A single input symbol
	tokenEpsilon                  // The empty string, written () or ε
	tokenUnion                    // |
	tokenConcat                   // Implicit concatenation, made explicit
	tokenStar                     // *
	tokenPlus                     // +
	tokenLParen                   // (
	tokenRParen                   // )
)

// token is a lexical unit of a pattern. pos is the rune offset it starts at.
type token struct {
	kind  tokenKind
	value string
	pos   int
}

func (t token) String() string {
	switch t.kind {
	case tokenLiteral:
		r := []rune(t.value)[0]
		if isLiteralRune(r) {
			return t.value
		}
		return `\` + t.value
	case tokenEpsilon:
		return Epsilon
	case tokenUnion:
		return "|"
	case tokenConcat:
		return "."
	case tokenStar:
		return "*"
	case tokenPlus:
		return "+"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	}
	return "?"
}

// precedence of the binary and postfix operators; parentheses have none.
func (t token) precedence() int {
	switch t.kind {
	case tokenUnion:
		return 1
	case tokenConcat:
		return 2
	case tokenStar, tokenPlus:
		return 3
	}
	return 0
}

func isLiteralRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// RegExp is a parsed regular expression over single-character symbols.
//
// The syntax is: literals (Unicode letters, digits and _), \x for any character x taken literally, |
// for union, juxtaposition for concatenation, postfix * and +, parentheses for grouping and () or ε
// for the empty string. Whitespace is ignored. The empty pattern denotes the empty string.
type RegExp struct {
	originalString []rune
	pos            int

	postfix []token
}

// NewRegExp parses s and returns a RegExp ready to be compiled.
func NewRegExp(s string) (*RegExp, error) {
	r := &RegExp{originalString: []rune(s)}

	tokens, err := r.tokenize()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		tokens = []token{{kind: tokenEpsilon}}
	}
	r.postfix, err = toPostfix(insertConcat(tokens))
	if err != nil {
		return nil, err
	}
	if err := checkArity(r.postfix); err != nil {
		return nil, err
	}
	return r, nil
}

// Compile parses pattern and builds its ε-NFA.
func Compile(pattern string, opts ...Option) (*Automaton, error) {
	r, err := NewRegExp(pattern)
	if err != nil {
		return nil, err
	}
	return r.ToAutomaton(opts...)
}

// String returns the pattern as written.
func (r *RegExp) String() string {
	return string(r.originalString)
}

// Postfix renders the postfix form with explicit concatenation as ".", tokens
// separated by a space.
func (r *RegExp) Postfix() string {
	parts := make([]string, len(r.postfix))
	for i, t := range r.postfix {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func (r *RegExp) more() bool {
	return r.pos < len(r.originalString)
}

func (r *RegExp) peek(s string) bool {
	return r.more() && strings.ContainsRune(s, r.originalString[r.pos])
}

func (r *RegExp) match(c rune) bool {
	if r.pos >= len(r.originalString) {
		return false
	}
	if r.originalString[r.pos] == c {
		r.pos++
		return true
	}
	return false
}

func (r *RegExp) next() (rune, error) {
	if !r.more() {
		return 0, &SyntaxError{Pos: r.pos, Msg: "unexpected end-of-string"}
	}
	c := r.originalString[r.pos]
	r.pos++
	return c, nil
}

func (r *RegExp) skipSpace() {
	for r.more() && unicode.IsSpace(r.originalString[r.pos]) {
		r.pos++
	}
}

func (r *RegExp) tokenize() ([]token, error) {
	var tokens []token
	for r.skipSpace(); r.more(); r.skipSpace() {
		pos := r.pos
		switch {
		case r.match('\\'):
			c, err := r.next()
			if err != nil {
				return nil, &SyntaxError{Pos: pos, Token: `\`, Msg: "dangling escape"}
			}
			if string(c) == Epsilon {
				return nil, &SyntaxError{Pos: pos, Token: `\` + Epsilon, Msg: "reserved symbol cannot be escaped"}
			}
			tokens = append(tokens, token{kind: tokenLiteral, value: string(c), pos: pos})
		case r.match('('):
			r.skipSpace()
			if r.match(')') {
				tokens = append(tokens, token{kind: tokenEpsilon, pos: pos})
			} else {
				tokens = append(tokens, token{kind: tokenLParen, pos: pos})
			}
		case r.match(')'):
			tokens = append(tokens, token{kind: tokenRParen, pos: pos})
		case r.match('|'):
			tokens = append(tokens, token{kind: tokenUnion, pos: pos})
		case r.match('*'):
			tokens = append(tokens, token{kind: tokenStar, pos: pos})
		case r.match('+'):
			tokens = append(tokens, token{kind: tokenPlus, pos: pos})
		case r.peek(Epsilon):
			r.pos++
			tokens = append(tokens, token{kind: tokenEpsilon, pos: pos})
		default:
			c, _ := r.next()
			if !isLiteralRune(c) {
				return nil, &SyntaxError{Pos: pos, Token: string(c), Msg: "unsupported character"}
			}
			tokens = append(tokens, token{kind: tokenLiteral, value: string(c), pos: pos})
		}
	}
	return tokens, nil
}

// insertConcat makes concatenation explicit between an operand end (literal,
// ε, ")", "*", "+") and an operand start (literal, ε, "(").
func insertConcat(tokens []token) []token {
	out := make([]token, 0, 2*len(tokens))
	for i, t := range tokens {
		if i > 0 {
			prev := tokens[i-1]
			ends := prev.kind == tokenLiteral || prev.kind == tokenEpsilon || prev.kind == tokenRParen ||
				prev.kind == tokenStar || prev.kind == tokenPlus
			starts := t.kind == tokenLiteral || t.kind == tokenEpsilon || t.kind == tokenLParen
			if ends && starts {
				out = append(out, token{kind: tokenConcat, pos: t.pos})
			}
		}
		out = append(out, t)
	}
	return out
}

// toPostfix is the shunting-yard algorithm; every operator is left associative.
func toPostfix(tokens []token) ([]token, error) {
	var out, ops []token
	for _, t := range tokens {
		switch t.kind {
		case tokenLiteral, tokenEpsilon:
			out = append(out, t)
		case tokenLParen:
			ops = append(ops, t)
		case tokenRParen:
			for len(ops) > 0 && ops[len(ops)-1].kind != tokenLParen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, &SyntaxError{Pos: t.pos, Token: ")", Msg: "unbalanced parenthesis"}
			}
			ops = ops[:len(ops)-1]
		default:
			for len(ops) > 0 && ops[len(ops)-1].precedence() >= t.precedence() {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)
		}
	}
	for len(ops) > 0 {
		t := ops[len(ops)-1]
		if t.kind == tokenLParen {
			return nil, &SyntaxError{Pos: t.pos, Token: "(", Msg: "unbalanced parenthesis"}
		}
		out = append(out, t)
		ops = ops[:len(ops)-1]
	}
	return out, nil
}

func (t token) arity() int {
	switch t.kind {
	case tokenUnion, tokenConcat:
		return 2
	case tokenStar, tokenPlus:
		return 1
	}
	return 0
}

// checkArity replays the postfix sequence on a depth counter so that
// ToAutomaton never underflows its fragment stack.
func checkArity(postfix []token) error {
	depth := 0
	for _, t := range postfix {
		n := t.arity()
		if depth < n {
			return &SyntaxError{Pos: t.pos, Token: t.String(), Msg: "missing operand for"}
		}
		depth += 1 - n
	}
	if depth != 1 {
		return &SyntaxError{Pos: 0, Msg: "expected a single expression"}
	}
	return nil
}

// ToAutomaton builds the ε-NFA of the expression by Thompson's construction.
//
// States are named q0, q1, … in creation order (see WithStatePrefix). The alphabet is the sorted set of
// literals of the expression. The result has exactly one accept state, and neither the start state has
// incoming edges nor the accept state outgoing ones.
func (r *RegExp) ToAutomaton(opts ...Option) (*Automaton, error) {
	b := NewBuilder(Acceptor, opts...)

	var alphabet []string
	for _, t := range r.postfix {
		if t.kind == tokenLiteral {
			alphabet = append(alphabet, t.value)
		}
	}
	slices.Sort(alphabet)
	for _, sym := range slices.Compact(alphabet) {
		b.declare(sym)
	}

	m := newAutomata(b)
	var stack []fragment
	pop := func() fragment {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f
	}
	for _, t := range r.postfix {
		switch t.kind {
		case tokenLiteral:
			stack = append(stack, m.MakeSymbol(t.value))
		case tokenEpsilon:
			stack = append(stack, m.MakeEmptyString())
		case tokenConcat:
			f2, f1 := pop(), pop()
			stack = append(stack, m.MakeConcatenation(f1, f2))
		case tokenUnion:
			f2, f1 := pop(), pop()
			stack = append(stack, m.MakeUnion(f1, f2))
		case tokenStar:
			stack = append(stack, m.MakeRepeat(pop()))
		case tokenPlus:
			stack = append(stack, m.MakeRepeatMin(pop()))
		}
	}

	f := pop()
	b.start = f.start
	b.isAccept.Set(uint(f.accept))
	return b.Finish()
}
