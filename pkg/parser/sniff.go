package parser

import "github.com/leapstack-labs/nodata/pkg/token"

// Kind tells schema documents from model documents.
type Kind int

// Kind constants.
const (
	KindUnknown Kind = iota
	KindSchema
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindModel:
		return "model"
	default:
		return "unknown"
	}
}

// Sniff reports which kind of document input holds by looking at the
// first field value: a type keyword means schema, a literal means model.
// Documents without fields, or that fail to lex that far, are KindUnknown.
func Sniff(input string) Kind {
	p := NewParser(input)
	for !p.check(token.EOF) {
		if p.check(token.STRING) && p.peek.Type == token.COLON {
			p.nextToken()
			p.nextToken()
			switch {
			case token.IsTypeKeyword(p.token.Type):
				return KindSchema
			case token.IsLiteral(p.token.Type):
				return KindModel
			}
			continue
		}
		p.nextToken()
	}
	return KindUnknown
}
