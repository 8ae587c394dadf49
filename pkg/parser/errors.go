package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/nodata/pkg/token"
)

// ErrUnexpectedEOF is wrapped by every error caused by input ending
// before the closing brace.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// ParseError represents a syntax error with position information.
type ParseError struct {
	Pos      token.Position
	Expected string
	Found    token.Token
	Message  string // overrides the expected/found wording when set
}

func (e *ParseError) Error() string {
	msg := e.Message
	switch {
	case msg != "":
	case e.Found.Type == token.EOF:
		msg = fmt.Sprintf(ErrPrematureEOF, e.Expected)
	default:
		msg = fmt.Sprintf(ErrUnexpectedToken, e.Expected, e.Found)
	}
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, msg)
}

// Unwrap returns ErrUnexpectedEOF when the offending token is EOF.
func (e *ParseError) Unwrap() error {
	if e.Found.Type == token.EOF {
		return ErrUnexpectedEOF
	}
	return nil
}

// LexError reports an illegal token reached by the parser.
type LexError struct {
	Pos     token.Position
	Literal string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, describeIllegal(e.Literal))
}

// describeIllegal explains why a raw lexeme was rejected.
func describeIllegal(raw string) string {
	switch {
	case raw == "":
		return "illegal token"
	case raw[0] == '"':
		return fmt.Sprintf(ErrUnterminatedString, raw)
	case isDigit(rune(raw[0])):
		return fmt.Sprintf(ErrInvalidNumber, raw)
	default:
		return fmt.Sprintf(ErrIllegalToken, raw)
	}
}

// Common error messages
const (
	ErrUnexpectedToken    = "expected %s but found %s"
	ErrPrematureEOF       = "unexpected end of input, expected %s"
	ErrUnterminatedString = "unterminated string literal %s"
	ErrInvalidNumber      = "invalid number literal %q"
	ErrIllegalToken       = "illegal token %q"
	ErrTrailingInput      = "unexpected %s after closing '}'"
)
