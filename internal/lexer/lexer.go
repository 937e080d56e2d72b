// Package lexer scans Pascal-like source text into tokens.
//
// Unknown characters, over-long identifiers and integers, identifiers with
// Cyrillic letters, and unterminated strings or block comments become BAD
// tokens; scanning always goes on after them.
package lexer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	u "github.com/araddon/gou"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Kind names the class of a token.
type Kind string

const (
	Bad          Kind = "BAD"
	Identifier   Kind = "IDENTIFIER"
	Integer      Kind = "INTEGER"
	Float        Kind = "FLOAT"
	String       Kind = "STRING"
	BlockComment Kind = "BLOCK_COMMENT"
	LineComment  Kind = "LINE_COMMENT"

	Assign       Kind = "ASSIGN"
	LessEq       Kind = "LESS_EQ"
	NotEq        Kind = "NOT_EQ"
	Less         Kind = "LESS"
	GreaterEq    Kind = "GREATER_EQ"
	Greater      Kind = "GREATER"
	Mul          Kind = "MULTIPLICATION"
	Plus         Kind = "PLUS"
	Minus        Kind = "MINUS"
	Divide       Kind = "DIVIDE"
	Semicolon    Kind = "SEMICOLON"
	Comma        Kind = "COMMA"
	LeftParen    Kind = "LEFT_PAREN"
	RightParen   Kind = "RIGHT_PAREN"
	LeftBracket  Kind = "LEFT_BRACKET"
	RightBracket Kind = "RIGHT_BRACKET"
	Eq           Kind = "EQ"
	Colon        Kind = "COLON"
	Dot          Kind = "DOT"
)

// Keywords are matched without regard to case; the kind of a keyword token is
// the keyword itself.
var Keywords = map[string]Kind{
	"ARRAY":     "ARRAY",
	"BEGIN":     "BEGIN",
	"ELSE":      "ELSE",
	"END":       "END",
	"IF":        "IF",
	"OF":        "OF",
	"OR":        "OR",
	"PROGRAM":   "PROGRAM",
	"PROCEDURE": "PROCEDURE",
	"THEN":      "THEN",
	"TYPE":      "TYPE",
	"VAR":       "VAR",
}

const (
	MaxIdentifierLen = 256
	MaxIntegerLen    = 16
)

// Token is one lexeme. Line and Col are 1-based; Col counts characters.
type Token struct {
	Kind   Kind
	Line   int
	Col    int
	Lexeme string

	offset int
}

func (t Token) String() string {
	return fmt.Sprintf("%s (%d, %d) \"%s\"", t.Kind, t.Line, t.Col, t.Lexeme)
}

func (t Token) end() int {
	return t.offset + len(t.Lexeme)
}

func (t Token) isWord() bool {
	if t.Kind == Identifier {
		return true
	}
	_, ok := Keywords[string(t.Kind)]
	return ok
}

var (
	compileOnce sync.Once
	compiled    *lexmachine.Lexer
	compileErr  error
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func token(kind Kind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return Token{Kind: kind, Lexeme: string(m.Bytes), offset: m.TC}, nil
	}
}

func word(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	tok := Token{Kind: Identifier, Lexeme: string(m.Bytes), offset: m.TC}
	if kw, ok := Keywords[strings.ToUpper(tok.Lexeme)]; ok {
		tok.Kind = kw
	} else if len(tok.Lexeme) > MaxIdentifierLen {
		tok.Kind = Bad
	}
	return tok, nil
}

func integer(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	tok := Token{Kind: Integer, Lexeme: string(m.Bytes), offset: m.TC}
	if len(tok.Lexeme) > MaxIntegerLen {
		tok.Kind = Bad
	}
	return tok, nil
}

func newLexer() (*lexmachine.Lexer, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(`[ \t\n\r]+`), skip)

	lexer.Add([]byte(`[{][^}]*[}]`), token(BlockComment))
	lexer.Add([]byte(`[{][^}]*`), token(Bad))
	lexer.Add([]byte(`//[^\n]*`), token(LineComment))
	lexer.Add([]byte(`'[^'\n]*'`), token(String))
	lexer.Add([]byte(`'[^'\n]*`), token(Bad))

	exponent := `([eE]([+]|-)?[0-9]*)`
	lexer.Add([]byte(`[0-9]+[.][0-9]+`+exponent+`?`), token(Float))
	lexer.Add([]byte(`[.][0-9]+`+exponent+`?`), token(Float))
	lexer.Add([]byte(`[0-9]+`+exponent), token(Float))
	lexer.Add([]byte(`[0-9]+`), integer)
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), word)

	lexer.Add([]byte(`:=`), token(Assign))
	lexer.Add([]byte(`<=`), token(LessEq))
	lexer.Add([]byte(`<>`), token(NotEq))
	lexer.Add([]byte(`<`), token(Less))
	lexer.Add([]byte(`>=`), token(GreaterEq))
	lexer.Add([]byte(`>`), token(Greater))
	lexer.Add([]byte(`[*]`), token(Mul))
	lexer.Add([]byte(`[+]`), token(Plus))
	lexer.Add([]byte(`-`), token(Minus))
	lexer.Add([]byte(`/`), token(Divide))
	lexer.Add([]byte(`;`), token(Semicolon))
	lexer.Add([]byte(`,`), token(Comma))
	lexer.Add([]byte(`[(]`), token(LeftParen))
	lexer.Add([]byte(`[)]`), token(RightParen))
	lexer.Add([]byte(`[\[]`), token(LeftBracket))
	lexer.Add([]byte(`[]]`), token(RightBracket))
	lexer.Add([]byte(`=`), token(Eq))
	lexer.Add([]byte(`:`), token(Colon))
	lexer.Add([]byte(`[.]`), token(Dot))

	if err := lexer.Compile(); err != nil {
		return nil, fmt.Errorf("compile lexer: %w", err)
	}
	return lexer, nil
}

func pascal() (*lexmachine.Lexer, error) {
	compileOnce.Do(func() {
		compiled, compileErr = newLexer()
	})
	return compiled, compileErr
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// badRun returns the end of the bad lexeme starting at tc: a single
// character, or a whole word when that character is a letter.
func badRun(text []byte, tc int) int {
	r, size := utf8.DecodeRune(text[tc:])
	end := tc + size
	if !unicode.IsLetter(r) {
		return end
	}
	for end < len(text) {
		r, size = utf8.DecodeRune(text[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	return end
}

// Tokenize scans the whole of src. Comments are returned as tokens.
func Tokenize(src []byte) ([]Token, error) {
	lexer, err := pascal()
	if err != nil {
		return nil, err
	}
	scanner, err := lexer.Scanner(src)
	if err != nil {
		return nil, err
	}

	var tokens []Token
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		var ui *machines.UnconsumedInput
		if errors.As(err, &ui) {
			start := ui.StartTC
			end := badRun(src, start)
			bad := Token{Kind: Bad, Lexeme: string(src[start:end]), offset: start}
			// a letter glued to a preceding word spoils the whole word
			if n := len(tokens); n > 0 && tokens[n-1].isWord() && tokens[n-1].end() == start {
				bad.offset = tokens[n-1].offset
				bad.Lexeme = tokens[n-1].Lexeme + bad.Lexeme
				tokens = tokens[:n-1]
			}
			tokens = append(tokens, bad)
			scanner.TC = end
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan at byte %d: %w", scanner.TC, err)
		}
		tokens = append(tokens, tok.(Token))
	}

	place(src, tokens)
	u.Debugf("scanned %d bytes into %d tokens", len(src), len(tokens))
	return tokens, nil
}

// place fills in Line and Col from the byte offsets of the tokens, which
// must be ascending.
func place(src []byte, tokens []Token) {
	line, col, pos := 1, 1, 0
	for i := range tokens {
		for pos < tokens[i].offset {
			r, size := utf8.DecodeRune(src[pos:])
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			pos += size
		}
		tokens[i].Line, tokens[i].Col = line, col
	}
}

// Write prints one token per line.
func Write(w io.Writer, tokens []Token) error {
	for _, t := range tokens {
		if _, err := fmt.Fprintln(w, t); err != nil {
			return err
		}
	}
	return nil
}
