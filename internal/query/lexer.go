// Package query implements the narrow SQL dialect of spec §4.4: a
// hand-rolled lexer/parser grounded on the teacher's
// internal/parser/lexer and internal/parser/ast packages, a planner that
// completes the teacher's scaffolded index-vs-scan decision
// (internal/planner/scan_selection.go left it permanently false), and an
// executor that projects rows through the payload accessor.
package query

import "fmt"

type tokenType int

const (
	tokILLEGAL tokenType = iota
	tokEOF

	tokIdent
	tokNumber
	tokString
	tokHexBytes

	tokSELECT
	tokFROM
	tokWHERE
	tokAND
	tokLIMIT
	tokCOUNT
	tokNULL

	tokAsterisk
	tokComma
	tokLParen
	tokRParen

	tokEq  // =
	tokNeq // <>
	tokLt  // <
	tokLe  // <=
	tokGt  // >
	tokGe  // >=
)

var keywords = map[string]tokenType{
	"SELECT": tokSELECT,
	"FROM":   tokFROM,
	"WHERE":  tokWHERE,
	"AND":    tokAND,
	"LIMIT":  tokLIMIT,
	"COUNT":  tokCOUNT,
	"NULL":   tokNULL,
}

type token struct {
	Type    tokenType
	Literal string
	Pos     int
}

type lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *lexer) next() token {
	l.skipWhitespace()
	pos := l.position

	switch l.ch {
	case '*':
		l.readChar()
		return token{Type: tokAsterisk, Literal: "*", Pos: pos}
	case ',':
		l.readChar()
		return token{Type: tokComma, Literal: ",", Pos: pos}
	case '(':
		l.readChar()
		return token{Type: tokLParen, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return token{Type: tokRParen, Literal: ")", Pos: pos}
	case '=':
		l.readChar()
		return token{Type: tokEq, Literal: "=", Pos: pos}
	case '<':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			return token{Type: tokNeq, Literal: "<>", Pos: pos}
		}
		if l.ch == '=' {
			l.readChar()
			return token{Type: tokLe, Literal: "<=", Pos: pos}
		}
		return token{Type: tokLt, Literal: "<", Pos: pos}
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token{Type: tokGe, Literal: ">=", Pos: pos}
		}
		return token{Type: tokGt, Literal: ">", Pos: pos}
	case '\'':
		return l.readQuotedString('\'')
	case '"':
		return l.readQuotedString('"')
	case 0:
		return token{Type: tokEOF, Pos: pos}
	}

	if (l.ch == 'x' || l.ch == 'X') && l.peekChar() == '\'' {
		return l.readHexBytes()
	}
	if isLetter(l.ch) {
		lit := l.readIdentifier()
		upper := toUpper(lit)
		if t, ok := keywords[upper]; ok {
			return token{Type: t, Literal: lit, Pos: pos}
		}
		return token{Type: tokIdent, Literal: lit, Pos: pos}
	}
	if isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())) {
		lit := l.readNumber()
		return token{Type: tokNumber, Literal: lit, Pos: pos}
	}

	ch := l.ch
	l.readChar()
	return token{Type: tokILLEGAL, Literal: string(ch), Pos: pos}
}

func (l *lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *lexer) readNumber() string {
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

func (l *lexer) readQuotedString(quote byte) token {
	pos := l.position
	l.readChar() // consume opening quote
	start := l.position
	for l.ch != quote && l.ch != 0 {
		l.readChar()
	}
	lit := l.input[start:l.position]
	if l.ch == quote {
		l.readChar()
	}
	return token{Type: tokString, Literal: lit, Pos: pos}
}

func (l *lexer) readHexBytes() token {
	pos := l.position
	l.readChar() // consume 'x'/'X'
	l.readChar() // consume opening quote
	start := l.position
	for l.ch != '\'' && l.ch != 0 {
		l.readChar()
	}
	lit := l.input[start:l.position]
	if l.ch == '\'' {
		l.readChar()
	}
	return token{Type: tokHexBytes, Literal: lit, Pos: pos}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func (t token) String() string {
	return fmt.Sprintf("token(%d,%q)", t.Type, t.Literal)
}
