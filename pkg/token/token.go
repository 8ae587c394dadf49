// Package token defines the lexical units of the nodata schema language.
//
// The set is closed: four structural symbols, the two type keywords
// (String, Number), string and number literals, end of input and an
// illegal token that carries whatever raw text could not be classified.
package token

import "strconv"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Structural
	LBRACE // {
	RBRACE // }
	COMMA  // ,
	COLON  // :

	// Type keywords
	TYPE_STRING //nolint:revive // String
	TYPE_NUMBER //nolint:revive // Number

	// Literals
	STRING // "hello"
	NUMBER // 123, 45.67
)

var tokenNames = map[TokenType]string{
	EOF:         "EOF",
	ILLEGAL:     "ILLEGAL",
	LBRACE:      "{",
	RBRACE:      "}",
	COMMA:       ",",
	COLON:       ":",
	TYPE_STRING: "String",
	TYPE_NUMBER: "Number",
	STRING:      "STRING",
	NUMBER:      "NUMBER",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// keywords maps the bare type keywords to their token types.
// Matching is case-sensitive.
var keywords = map[string]TokenType{
	"String": TYPE_STRING,
	"Number": TYPE_NUMBER,
}

// LookupKeyword returns the token type for a bare word.
// Words that are not type keywords are ILLEGAL.
func LookupKeyword(word string) TokenType {
	if tok, ok := keywords[word]; ok {
		return tok
	}
	return ILLEGAL
}

// IsTypeKeyword returns true if the token type is String or Number.
func IsTypeKeyword(t TokenType) bool {
	return t == TYPE_STRING || t == TYPE_NUMBER
}

// IsLiteral returns true if the token type is a string or number literal.
func IsLiteral(t TokenType) bool {
	return t == STRING || t == NUMBER
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string  // raw text; for STRING the text between the quotes
	Number  float64 // parsed value, NUMBER only
	Pos     Position
}

// String renders the token the way error messages show it.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "EOF"
	case LBRACE, RBRACE, COMMA, COLON:
		return t.Type.String()
	case TYPE_STRING, TYPE_NUMBER:
		return "[Type Annotation] " + t.Type.String()
	case STRING:
		return `"` + t.Literal + `"`
	case NUMBER:
		return strconv.FormatFloat(t.Number, 'f', -1, 64)
	case ILLEGAL:
		return "[Illegal Token] " + t.Literal
	default:
		return t.Literal
	}
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}
