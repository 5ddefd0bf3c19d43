// Package lexer turns Lomda source text into a stream of token.Token values.
//
// The lexer is hand-written and table-free, in the style of the teacher
// project's internal/lexer: a single rune-at-a-time scanner with explicit
// column tracking in rune (not byte) counts, BOM stripping, and save/restore
// state for parser backtracking.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/lomda-lang/lomda/internal/token"
)

// Lexer scans a Lomda source string into tokens on demand.
type Lexer struct {
	input        string
	position     int // byte offset of ch
	readPosition int // byte offset of next rune
	line         int
	column       int // rune column, 1-based
	ch           rune
}

// State captures a lexer position for backtracking, mirroring the
// save/restore pattern the recursive-descent parser needs when it
// speculatively tries an alternative production.
type State struct {
	position     int
	readPosition int
	line         int
	column       int
	ch           rune
}

// New creates a Lexer over input. A leading UTF-8 BOM is stripped, matching
// the source file convention described in spec.md §6.
func New(input string) *Lexer {
	input = strings.TrimPrefix(input, "﻿")
	// Normalize to NFC so that string/identifier comparisons downstream
	// don't have to reason about combining-character equivalence.
	input = norm.NFC.String(input)

	l := &Lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

// Save captures the current scan position.
func (l *Lexer) Save() State {
	return State{l.position, l.readPosition, l.line, l.column, l.ch}
}

// Restore rewinds the lexer to a previously saved position.
func (l *Lexer) Restore(s State) {
	l.position, l.readPosition, l.line, l.column, l.ch = s.position, s.readPosition, s.line, s.column, s.ch
}

func (l *Lexer) readRune() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.position = l.readPosition
	l.readPosition += size
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.column++
	l.ch = r
}

func (l *Lexer) peekRune() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekRuneAt(offset int) rune {
	pos := l.readPosition
	var r rune
	for i := 0; i <= offset; i++ {
		if pos >= len(l.input) {
			return 0
		}
		var size int
		r, size = utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}
	return r
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for unicode.IsSpace(l.ch) {
			l.readRune()
		}
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readRune()
			}
			continue
		}
		break
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()

	pos := token.Position{Line: l.line, Column: l.column}

	switch {
	case l.ch == 0:
		return token.Token{Kind: token.EOF, Literal: "", Pos: pos}
	case l.ch == '"':
		return l.readString(pos)
	case unicode.IsDigit(l.ch):
		return l.readNumber(pos)
	case isIdentStart(l.ch):
		return l.readIdentOrDerivative(pos)
	default:
		return l.readOperator(pos)
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// readIdentOrDerivative special-cases the "d/d<id>" derivative prefix
// (spec.md §4.1 "Derivative (`d/dx e`)"), which the original Lomda grammar
// requires to be written with zero intervening whitespace between "d/d"
// and the variable name (original_source src/bnf.cpp parseDerivative).
func (l *Lexer) readIdentOrDerivative(pos token.Position) token.Token {
	if l.ch == 'd' && l.peekRune() == '/' && l.peekRuneAt(1) == 'd' && isIdentStart(l.peekRuneAt(2)) {
		l.readRune() // consume d
		l.readRune() // consume /
		l.readRune() // consume d
		return token.Token{Kind: token.DERIV, Literal: "d/d", Pos: pos}
	}

	start := l.position
	for isIdentPart(l.ch) {
		l.readRune()
	}
	lit := l.input[start:l.position]
	return token.Token{Kind: token.Lookup(lit), Literal: lit, Pos: pos}
}

func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.position
	isReal := false
	for unicode.IsDigit(l.ch) {
		l.readRune()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekRune()) {
		isReal = true
		l.readRune()
		for unicode.IsDigit(l.ch) {
			l.readRune()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save := l.Save()
		l.readRune()
		if l.ch == '+' || l.ch == '-' {
			l.readRune()
		}
		if unicode.IsDigit(l.ch) {
			isReal = true
			for unicode.IsDigit(l.ch) {
				l.readRune()
			}
		} else {
			l.Restore(save)
		}
	}
	lit := l.input[start:l.position]
	kind := token.INT
	if isReal {
		kind = token.REAL
	}
	return token.Token{Kind: kind, Literal: lit, Pos: pos}
}

func (l *Lexer) readString(pos token.Position) token.Token {
	l.readRune() // opening quote
	var sb strings.Builder
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readRune()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune(l.ch)
			}
			l.readRune()
			continue
		}
		sb.WriteRune(l.ch)
		l.readRune()
	}
	l.readRune() // closing quote
	return token.Token{Kind: token.STRING, Literal: sb.String(), Pos: pos}
}

func (l *Lexer) readOperator(pos token.Position) token.Token {
	ch := l.ch
	two := string(ch) + string(l.peekRune())

	switch two {
	case "==":
		l.readRune()
		l.readRune()
		return token.Token{Kind: token.EQ, Literal: "==", Pos: pos}
	case "!=":
		l.readRune()
		l.readRune()
		return token.Token{Kind: token.NEQ, Literal: "!=", Pos: pos}
	case "<=":
		l.readRune()
		l.readRune()
		return token.Token{Kind: token.LE, Literal: "<=", Pos: pos}
	case ">=":
		l.readRune()
		l.readRune()
		return token.Token{Kind: token.GE, Literal: ">=", Pos: pos}
	case ":=":
		l.readRune()
		l.readRune()
		return token.Token{Kind: token.ASSIGN, Literal: ":=", Pos: pos}
	case "||":
		l.readRune()
		l.readRune()
		return token.Token{Kind: token.DPIPE, Literal: "||", Pos: pos}
	case "..":
		l.readRune()
		l.readRune()
		return token.Token{Kind: token.DOTDOT, Literal: "..", Pos: pos}
	case "=>":
		l.readRune()
		l.readRune()
		return token.Token{Kind: token.ARROW, Literal: "=>", Pos: pos}
	}

	single := map[rune]token.Kind{
		'+': token.PLUS,
		'-': token.MINUS,
		'*': token.STAR,
		'/': token.SLASH,
		'%': token.PERCENT,
		'^': token.CARET,
		'<': token.LT,
		'>': token.GT,
		'|': token.PIPE,
		'(': token.LPAREN,
		')': token.RPAREN,
		'{': token.LBRACE,
		'}': token.RBRACE,
		'[': token.LBRACKET,
		']': token.RBRACKET,
		',': token.COMMA,
		';': token.SEMI,
		':': token.COLON,
		'.': token.DOT,
		'=': token.EQUALS,
	}
	if kind, ok := single[ch]; ok {
		l.readRune()
		return token.Token{Kind: kind, Literal: string(ch), Pos: pos}
	}

	l.readRune()
	return token.Token{Kind: token.ILLEGAL, Literal: string(ch), Pos: pos}
}
