package fsm

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax              = errors.New("syntax error")
	ErrMalformedAutomaton  = errors.New("malformed automaton")
	ErrUnsupportedSymbol   = errors.New("unsupported symbol")
	ErrAmbiguousConversion = errors.New("ambiguous conversion")
)

// SyntaxError reports a malformed regular expression. Pos is the rune offset of
// the offending token in the pattern.
type SyntaxError struct {
	Pos   int
	Token string
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
	}
	return fmt.Sprintf("%s %q at position %d", e.Msg, e.Token, e.Pos)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// MalformedAutomatonError reports a transition table that references undeclared
// states, lacks a start state or is otherwise inconsistent.
type MalformedAutomatonError struct {
	State string
	Msg   string
}

func (e *MalformedAutomatonError) Error() string {
	if e.State == "" {
		return "malformed automaton: " + e.Msg
	}
	return fmt.Sprintf("malformed automaton: state %q: %s", e.State, e.Msg)
}

func (e *MalformedAutomatonError) Is(target error) bool { return target == ErrMalformedAutomaton }

// UnsupportedSymbolError reports an input symbol outside the alphabet of the
// automaton it is run against. Pos is the index of the symbol in the input.
type UnsupportedSymbolError struct {
	Symbol string
	Pos    int
}

func (e *UnsupportedSymbolError) Error() string {
	return fmt.Sprintf("unsupported symbol %q at position %d", e.Symbol, e.Pos)
}

func (e *UnsupportedSymbolError) Is(target error) bool { return target == ErrUnsupportedSymbol }

// AmbiguousConversionError reports a Mealy state that cannot be given an
// observable output during conversion.
type AmbiguousConversionError struct {
	State string
	Msg   string
}

func (e *AmbiguousConversionError) Error() string {
	return fmt.Sprintf("ambiguous conversion: state %q: %s", e.State, e.Msg)
}

func (e *AmbiguousConversionError) Is(target error) bool { return target == ErrAmbiguousConversion }

func malformed(state, format string, args ...any) error {
	return &MalformedAutomatonError{State: state, Msg: fmt.Sprintf(format, args...)}
}
