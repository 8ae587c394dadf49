package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/nodata/pkg/token"
)

// eof marks the end of input in Lexer.ch.
const eof = rune(-1)

// Lexer tokenizes schema and model text on demand.
type Lexer struct {
	input   string
	pos     int  // byte offset of ch
	readPos int  // byte offset after ch
	ch      rune // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}

	l.pos = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = eof
		l.col++
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += size
	l.col++
}

// currentPos returns the position of the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token. Once the input is exhausted every
// call returns EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := l.currentPos()

	switch {
	case l.ch == eof:
		return token.Token{Type: token.EOF, Pos: pos}
	case l.ch == '{':
		return l.single(token.LBRACE, pos)
	case l.ch == '}':
		return l.single(token.RBRACE, pos)
	case l.ch == ',':
		return l.single(token.COMMA, pos)
	case l.ch == ':':
		return l.single(token.COLON, pos)
	case l.ch == '"':
		return l.readString(pos)
	case isDigit(l.ch):
		return l.readNumber(pos)
	case unicode.IsLetter(l.ch):
		return l.readWord(pos)
	default:
		return l.single(token.ILLEGAL, pos)
	}
}

// Tokenize returns every token up to and including EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// single emits a one-character token and advances past it.
func (l *Lexer) single(tt token.TokenType, pos token.Position) token.Token {
	tok := token.Token{Type: tt, Literal: string(l.ch), Pos: pos}
	l.readChar()
	return tok
}

// skipWhitespace skips spaces, tabs and line breaks.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a double-quoted string literal. There are no escapes;
// the literal ends at the next quote. An unterminated literal becomes an
// ILLEGAL token holding everything scanned, opening quote included.
func (l *Lexer) readString(pos token.Position) token.Token {
	start := l.pos
	l.readChar() // skip opening quote

	for l.ch != '"' {
		if l.ch == eof {
			return token.Token{Type: token.ILLEGAL, Literal: l.input[start:l.pos], Pos: pos}
		}
		l.readChar()
	}

	text := l.input[start+1 : l.pos]
	l.readChar() // skip closing quote
	return token.Token{Type: token.STRING, Literal: text, Pos: pos}
}

// readNumber reads a run of digits with at most one decimal point.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	raw := l.input[start:l.pos]

	if strings.Count(raw, ".") > 1 {
		return token.Token{Type: token.ILLEGAL, Literal: raw, Pos: pos}
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Literal: raw, Pos: pos}
	}
	return token.Token{Type: token.NUMBER, Literal: raw, Number: value, Pos: pos}
}

// readWord reads a run of letters and classifies it as a type keyword.
// Any other bare word is ILLEGAL.
func (l *Lexer) readWord(pos token.Position) token.Token {
	start := l.pos
	for unicode.IsLetter(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.pos]
	return token.Token{Type: token.LookupKeyword(word), Literal: word, Pos: pos}
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
