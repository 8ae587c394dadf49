// Package parser turns nodata source text into typed syntax trees.
//
// # Usage
//
//	schema, err := parser.ParseSchema(`"users": { "name": String, "age": Number }`)
//	model, err := parser.ParseModel(`"users": { "name": "Edilson", "age": 22 }`)
//
// # Grammar
//
// The parser is a predictive recursive descent parser with one token of
// lookahead. It never backtracks and stops at the first error.
//
//	document      → STRING ':' fields EOF
//	fields        → '{' [field {',' field} [',']] '}'
//	schema field  → STRING ':' (String | Number)
//	model field   → STRING ':' (STRING | NUMBER)
//
// The EOF anchor is strict: any token after the closing brace, including
// the start of a second document, is an error.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/nodata/pkg/ast"
	"github.com/leapstack-labs/nodata/pkg/token"
)

// Parser holds the token stream for a single parse call.
type Parser struct {
	lexer *Lexer
	token token.Token // current token
	peek  token.Token // lookahead token
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// ParseSchema parses a schema document.
func ParseSchema(input string) (*ast.Schema, error) {
	p := NewParser(input)
	name, fields, err := parseDocument(p, "schema name", parseSchemaField)
	if err != nil {
		return nil, err
	}
	return &ast.Schema{Name: name, Fields: fields}, nil
}

// ParseModel parses a model document. Field types come from the literal
// that was written; they are not checked against any schema here.
func ParseModel(input string) (*ast.Model, error) {
	p := NewParser(input)
	name, fields, err := parseDocument(p, "model name", parseModelField)
	if err != nil {
		return nil, err
	}
	return &ast.Model{Name: name, Fields: fields}, nil
}

// ParseValue parses input consisting of exactly one string or number literal.
func ParseValue(input string) (ast.Object, error) {
	p := NewParser(input)
	value, _, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if !p.check(token.EOF) {
		return nil, p.unexpected("end of input")
	}
	return value, nil
}

// ---------- Grammar ----------

// parseDocument parses the shared document structure. The field function
// decides what a field value may be.
func parseDocument[F any](p *Parser, what string, field func(*Parser) (F, error)) (string, []F, error) {
	name, err := p.expectName(what)
	if err != nil {
		return "", nil, err
	}
	if err := p.expect(token.COLON, "':'"); err != nil {
		return "", nil, err
	}

	fields, err := parseFields(p, field)
	if err != nil {
		return "", nil, err
	}

	if !p.check(token.EOF) {
		if p.check(token.ILLEGAL) {
			return "", nil, p.illegal()
		}
		return "", nil, &ParseError{Pos: p.token.Pos, Found: p.token, Message: fmt.Sprintf(ErrTrailingInput, p.token)}
	}
	return name, fields, nil
}

// parseFields parses a braced, comma separated field list. A trailing
// comma before the closing brace is allowed.
func parseFields[F any](p *Parser, field func(*Parser) (F, error)) ([]F, error) {
	if err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}

	var fields []F
	for {
		if p.check(token.EOF) {
			return nil, p.unexpected("'}'")
		}
		if p.match(token.RBRACE) {
			return fields, nil
		}

		f, err := field(p)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)

		if !p.match(token.COMMA) && !p.check(token.RBRACE) {
			return nil, p.unexpected("',' or '}'")
		}
	}
}

// parseSchemaField parses `"name": Type`.
func parseSchemaField(p *Parser) (ast.SchemaField, error) {
	name, err := p.expectName("field name")
	if err != nil {
		return ast.SchemaField{}, err
	}
	if err := p.expect(token.COLON, "':'"); err != nil {
		return ast.SchemaField{}, err
	}

	var typ ast.DataType
	switch p.token.Type {
	case token.TYPE_STRING:
		typ = ast.TypeString
	case token.TYPE_NUMBER:
		typ = ast.TypeNumber
	default:
		return ast.SchemaField{}, p.unexpected("type String or Number")
	}
	p.nextToken()

	return ast.SchemaField{Name: name, Type: typ}, nil
}

// parseModelField parses `"name": literal`.
func parseModelField(p *Parser) (ast.ModelField, error) {
	name, err := p.expectName("field name")
	if err != nil {
		return ast.ModelField{}, err
	}
	if err := p.expect(token.COLON, "':'"); err != nil {
		return ast.ModelField{}, err
	}

	value, typ, err := p.parseLiteral()
	if err != nil {
		return ast.ModelField{}, err
	}
	return ast.ModelField{Name: name, Value: value, Type: typ}, nil
}

// parseLiteral consumes a string or number literal.
func (p *Parser) parseLiteral() (ast.Object, ast.DataType, error) {
	var (
		value ast.Object
		typ   ast.DataType
	)
	switch p.token.Type {
	case token.STRING:
		value, typ = ast.StringValue(p.token.Literal), ast.TypeString
	case token.NUMBER:
		value, typ = ast.NumberValue(p.token.Number), ast.TypeNumber
	default:
		return nil, 0, p.unexpected("a string or number literal")
	}
	p.nextToken()
	return value, typ, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise returns an error.
func (p *Parser) expect(t token.TokenType, what string) error {
	if p.match(t) {
		return nil
	}
	return p.unexpected(what)
}

// expectName consumes a quoted name.
func (p *Parser) expectName(what string) (string, error) {
	if !p.check(token.STRING) {
		return "", p.unexpected(what)
	}
	name := p.token.Literal
	p.nextToken()
	return name, nil
}

// unexpected builds the error for the current token not matching what.
func (p *Parser) unexpected(what string) error {
	if p.check(token.ILLEGAL) {
		return p.illegal()
	}
	return &ParseError{Pos: p.token.Pos, Expected: what, Found: p.token}
}

// illegal reports the current ILLEGAL token as a lexical error.
func (p *Parser) illegal() error {
	return &LexError{Pos: p.token.Pos, Literal: p.token.Literal}
}
